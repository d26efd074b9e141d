package keyshandler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ruteri/secure-date-gateway/api"
)

// Client fetches disclosed keys from a gateway.
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

// FetchKeys requests the disclosed keys. Denials are returned as *api.StatusError.
func (c *Client) FetchKeys(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/get-keys", nil)
	if err != nil {
		return nil, fmt.Errorf("could not initialize request: %w", err)
	}

	if err := c.Credentials.Apply(req); err != nil {
		return nil, err
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not request keys: %w", err)
	}

	var keysResp api.KeysResponse
	if err := api.DecodeResponse(resp, &keysResp); err != nil {
		return nil, err
	}
	if !keysResp.Success {
		return nil, errors.New("gateway reported failure")
	}
	return keysResp.Keys, nil
}
