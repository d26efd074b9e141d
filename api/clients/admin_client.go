package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ruteri/secure-date-gateway/api"
)

// AdminClient toggles and inspects gateway availability. Every request
// carries a credential encoded with the admin scheme.
type AdminClient struct {
	baseURL     string
	credentials *api.Credentials
	httpClient  *http.Client
}

// NewAdminClient creates a new admin client.
//
// Parameters:
//   - baseURL: The base URL of the gateway (e.g., "http://localhost:8080")
//   - creds: Credentials built from the admin secret
//   - timeout: Request timeout duration (optional, default 30 seconds)
func NewAdminClient(baseURL string, creds *api.Credentials, timeout ...time.Duration) *AdminClient {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &AdminClient{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		credentials: creds,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

// Enable marks the gateway available.
func (c *AdminClient) Enable(ctx context.Context) (*api.StatusResponse, error) {
	return c.do(ctx, http.MethodPost, "/admin/enable")
}

// Disable marks the gateway unavailable.
func (c *AdminClient) Disable(ctx context.Context) (*api.StatusResponse, error) {
	return c.do(ctx, http.MethodPost, "/admin/disable")
}

// Status reports the current availability.
func (c *AdminClient) Status(ctx context.Context) (*api.StatusResponse, error) {
	return c.do(ctx, http.MethodGet, "/admin/status")
}

func (c *AdminClient) do(ctx context.Context, method, path string) (*api.StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if err := c.credentials.Apply(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}

	var status api.StatusResponse
	if err := api.DecodeResponse(resp, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
