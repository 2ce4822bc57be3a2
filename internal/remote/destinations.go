package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkordes/voyager/internal/domain"
)

// RandomDestinations returns a small random batch from the destination
// catalogue. An empty catalogue yields an empty slice.
func (c *Client) RandomDestinations(ctx context.Context) ([]domain.Destination, error) {
	out, err := c.destinations(ctx, "/api/destinations/random")
	if err != nil {
		return nil, fmt.Errorf("remote.Client.RandomDestinations: %w", err)
	}
	return out, nil
}

// PersonalizedDestinations returns destinations matching any of tags. No
// match yields an empty slice. tags must not be empty.
func (c *Client) PersonalizedDestinations(ctx context.Context, tags []string) ([]domain.Destination, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("remote.Client.PersonalizedDestinations: %w: no tags", domain.ErrValidation)
	}
	path := "/api/destinations/personalized?tags=" + url.QueryEscape(strings.Join(tags, ","))
	out, err := c.destinations(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("remote.Client.PersonalizedDestinations: %w", err)
	}
	return out, nil
}

// destinations fetches one batch. The backend answers 404 when nothing
// matches, which is not an error here.
func (c *Client) destinations(ctx context.Context, path string) ([]domain.Destination, error) {
	var out []domain.Destination
	err := c.do(ctx, http.MethodGet, path, nil, &out, domain.ErrTransport)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Destination{}, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Destination{}
	}
	return out, nil
}
