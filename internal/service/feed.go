package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkordes/voyager/internal/domain"
)

// DestinationFeed is the remote destination catalogue. *remote.Client
// satisfies it.
type DestinationFeed interface {
	RandomDestinations(ctx context.Context) ([]domain.Destination, error)
	PersonalizedDestinations(ctx context.Context, tags []string) ([]domain.Destination, error)
}

// maxShown bounds how many browsed destinations FeedService remembers.
const maxShown = 256

// FeedService serves destination batches to browse and remembers the ones
// it has shown, so a later toggle can be resolved by id against server data.
type FeedService struct {
	remote DestinationFeed
	log    *slog.Logger

	mu    sync.Mutex
	shown map[string]domain.Destination
}

// NewFeedService constructs a FeedService.
func NewFeedService(r DestinationFeed, logger *slog.Logger) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedService{remote: r, log: logger, shown: make(map[string]domain.Destination)}
}

// SplitTags parses a comma-separated tag list, trimming blanks.
func SplitTags(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Browse returns destinations matching any of tags, or a random batch when
// tags is empty. The result is never nil.
func (s *FeedService) Browse(ctx context.Context, tags []string) ([]domain.Destination, error) {
	var (
		out []domain.Destination
		err error
	)
	if len(tags) > 0 {
		out, err = s.remote.PersonalizedDestinations(ctx, tags)
	} else {
		out, err = s.remote.RandomDestinations(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("service.FeedService.Browse: %w", err)
	}
	if out == nil {
		out = []domain.Destination{}
	}

	s.mu.Lock()
	if len(s.shown)+len(out) > maxShown {
		clear(s.shown)
	}
	for _, d := range out {
		s.shown[d.ID] = d
	}
	s.mu.Unlock()
	s.log.Debug("destinations browsed", "tags", tags, "count", len(out))
	return out, nil
}

// Lookup returns a destination from an earlier Browse.
func (s *FeedService) Lookup(id string) (domain.Destination, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.shown[id]
	return d, ok
}
