// Package places is a client for the Google Places Autocomplete web service.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkordes/voyager/internal/domain"
)

// DefaultBaseURL is the public Places API endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Suggestion is one autocomplete prediction.
type Suggestion struct {
	MainText        string `json:"mainText"`
	FullDescription string `json:"fullDescription"`
	ExternalID      string `json:"externalId"`
}

// Client queries the autocomplete endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient returns a Client for baseURL; an empty baseURL means DefaultBaseURL.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: baseURL, APIKey: apiKey, HTTP: httpClient}
}

type autocompleteResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Predictions  []struct {
		Description          string `json:"description"`
		PlaceID              string `json:"place_id"`
		StructuredFormatting struct {
			MainText string `json:"main_text"`
		} `json:"structured_formatting"`
	} `json:"predictions"`
}

// Search returns predictions for text, restricted to country when it is a
// non-empty ISO code. ZERO_RESULTS yields an empty slice and no error; any
// transport failure or other status wraps domain.ErrLookup.
func (c *Client) Search(ctx context.Context, text, country string) ([]Suggestion, error) {
	q := url.Values{}
	q.Set("input", text)
	q.Set("types", "establishment|geocode")
	if country != "" {
		q.Set("components", "country:"+country)
	}
	q.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/autocomplete/json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("places.Client.Search: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places.Client.Search: %w: %v", domain.ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places.Client.Search: %w: status %d", domain.ErrLookup, resp.StatusCode)
	}

	var body autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("places.Client.Search: %w: decode: %v", domain.ErrLookup, err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []Suggestion{}, nil
	default:
		return nil, fmt.Errorf("places.Client.Search: %w: %s %s", domain.ErrLookup, body.Status, body.ErrorMessage)
	}

	out := make([]Suggestion, 0, len(body.Predictions))
	for _, p := range body.Predictions {
		main := p.StructuredFormatting.MainText
		if main == "" {
			main = p.Description
		}
		out = append(out, Suggestion{
			MainText:        main,
			FullDescription: p.Description,
			ExternalID:      p.PlaceID,
		})
	}
	return out, nil
}
