package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ruteri/secure-date-gateway/securedate"
)

// maxResponseSize bounds the bodies read by clients.
const maxResponseSize = 1 << 20

// StatusError is returned by clients for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// Credentials attaches a freshly encoded credential to outgoing requests.
type Credentials struct {
	Scheme securedate.Scheme

	// Header defaults to x-secure-date.
	Header string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Apply encodes a credential for the current time and sets it on req.
func (c *Credentials) Apply(req *http.Request) error {
	if c == nil || c.Scheme == nil {
		return nil
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	credential, err := c.Scheme.Encode(now())
	if err != nil {
		return fmt.Errorf("could not encode credential: %w", err)
	}

	header := c.Header
	if header == "" {
		header = "x-secure-date"
	}
	req.Header.Set(header, credential)
	return nil
}

// DecodeResponse reads resp and unmarshals a 2xx body into v. Other status
// codes are returned as *StatusError carrying the server's message.
func DecodeResponse(resp *http.Response, v any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) != nil || errResp.Message == "" {
			errResp.Message = string(body)
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("could not parse response: %w", err)
	}
	return nil
}
