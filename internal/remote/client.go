// Package remote contains JSON-over-HTTP clients for the Voyager backend:
// the destination feed, saved destinations, trips and itinerary generation.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkordes/voyager/internal/domain"
)

// Client talks to the Voyager backend at BaseURL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client. A nil httpClient means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: httpClient}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// do sends body (if non-nil) as JSON and decodes a 2xx response into out
// (if non-nil). Transport failures and non-2xx statuses wrap kind; 404
// wraps domain.ErrNotFound instead.
func (c *Client) do(ctx context.Context, method, path string, body, out any, kind error) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, method, path)
		}
		return fmt.Errorf("%w: %s %s returned %d %s", kind, method, path, resp.StatusCode, eb.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", kind, err)
	}
	return nil
}
