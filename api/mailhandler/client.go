package mailhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ruteri/secure-date-gateway/api"
)

// Client asks a gateway to dispatch messages.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials *api.Credentials
}

// NewClient creates a client for the gateway at baseURL.
func NewClient(baseURL string, creds *api.Credentials) *Client {
	return &Client{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		HTTPClient:  http.DefaultClient,
		Credentials: creds,
	}
}

// SendEmail submits msg. Rejections are returned as *api.StatusError.
func (c *Client) SendEmail(ctx context.Context, msg api.SendEmailRequest) (*api.SendEmailResponse, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/send-email", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not initialize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.Credentials.Apply(req); err != nil {
		return nil, err
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not request message dispatch: %w", err)
	}

	var sendResp api.SendEmailResponse
	if err := api.DecodeResponse(resp, &sendResp); err != nil {
		return nil, err
	}
	return &sendResp, nil
}
