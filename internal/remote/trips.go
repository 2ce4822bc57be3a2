package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkordes/voyager/internal/domain"
)

// CreateTrip stores a new trip and returns the server's representation,
// including its id.
func (c *Client) CreateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	var out domain.Trip
	if err := c.do(ctx, http.MethodPost, "/api/trips", t, &out, domain.ErrTransport); err != nil {
		return domain.Trip{}, fmt.Errorf("remote.Client.CreateTrip: %w", err)
	}
	return out, nil
}

// UpdateTrip overwrites trip id and returns the server's representation.
func (c *Client) UpdateTrip(ctx context.Context, id string, t domain.Trip) (domain.Trip, error) {
	var out domain.Trip
	if err := c.do(ctx, http.MethodPut, "/api/trips/"+url.PathEscape(id), t, &out, domain.ErrTransport); err != nil {
		return domain.Trip{}, fmt.Errorf("remote.Client.UpdateTrip: %w", err)
	}
	return out, nil
}

// DeleteTrip removes trip id.
func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/trips/"+url.PathEscape(id), nil, nil, domain.ErrTransport); err != nil {
		return fmt.Errorf("remote.Client.DeleteTrip: %w", err)
	}
	return nil
}

// ListTrips returns the user's trips, newest first as ordered by the server.
func (c *Client) ListTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	var out []domain.Trip
	if err := c.do(ctx, http.MethodGet, "/api/trips?userId="+url.QueryEscape(userID), nil, &out, domain.ErrTransport); err != nil {
		return nil, fmt.Errorf("remote.Client.ListTrips: %w", err)
	}
	if out == nil {
		out = []domain.Trip{}
	}
	return out, nil
}
