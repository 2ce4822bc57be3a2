package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkordes/voyager/internal/domain"
)

// MaxQuestions caps the clarifying questions accepted from the server.
const MaxQuestions = 3

// GenerateItinerary asks the generator for a day-by-day plan. Every failure
// wraps domain.ErrGeneration.
func (c *Client) GenerateItinerary(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
	var out domain.Itinerary
	if err := c.do(ctx, http.MethodPost, "/api/itinerary/generate", req, &out, domain.ErrGeneration); err != nil {
		return domain.Itinerary{}, fmt.Errorf("remote.Client.GenerateItinerary: %w", err)
	}
	if len(out.Days) == 0 {
		return domain.Itinerary{}, fmt.Errorf("remote.Client.GenerateItinerary: %w: empty itinerary", domain.ErrGeneration)
	}
	return out, nil
}

// Questions returns up to MaxQuestions yes/no questions whose answers would
// change the itinerary. Zero questions is a normal result.
func (c *Client) Questions(ctx context.Context, req domain.ItineraryRequest) ([]domain.Question, error) {
	var out struct {
		Questions []domain.Question `json:"questions"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/itinerary/questions", req, &out, domain.ErrGeneration); err != nil {
		return nil, fmt.Errorf("remote.Client.Questions: %w", err)
	}
	if len(out.Questions) > MaxQuestions {
		out.Questions = out.Questions[:MaxQuestions]
	}
	if out.Questions == nil {
		out.Questions = []domain.Question{}
	}
	return out.Questions, nil
}
