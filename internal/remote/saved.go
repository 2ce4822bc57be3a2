package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkordes/voyager/internal/domain"
)

type savedBody struct {
	UserID        string `json:"userId"`
	DestinationID string `json:"destinationId"`
}

// ListSaved returns the user's saved destinations.
func (c *Client) ListSaved(ctx context.Context, userID string) ([]domain.Destination, error) {
	var out []domain.Destination
	path := "/api/saved-destinations?userId=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, domain.ErrTransport); err != nil {
		return nil, fmt.Errorf("remote.Client.ListSaved: %w", err)
	}
	if out == nil {
		out = []domain.Destination{}
	}
	return out, nil
}

// AddSaved saves a destination for the user. It is idempotent.
func (c *Client) AddSaved(ctx context.Context, userID, destinationID string) error {
	body := savedBody{UserID: userID, DestinationID: destinationID}
	if err := c.do(ctx, http.MethodPost, "/api/saved-destinations", body, nil, domain.ErrTransport); err != nil {
		return fmt.Errorf("remote.Client.AddSaved: %w", err)
	}
	return nil
}

// RemoveSaved unsaves a destination for the user. It is idempotent.
func (c *Client) RemoveSaved(ctx context.Context, userID, destinationID string) error {
	body := savedBody{UserID: userID, DestinationID: destinationID}
	if err := c.do(ctx, http.MethodDelete, "/api/saved-destinations", body, nil, domain.ErrTransport); err != nil {
		return fmt.Errorf("remote.Client.RemoveSaved: %w", err)
	}
	return nil
}
