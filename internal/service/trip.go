package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/optimistic"
)

// TripRemote is the remote trip store.
type TripRemote interface {
	CreateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error)
	UpdateTrip(ctx context.Context, id string, t domain.Trip) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
	ListTrips(ctx context.Context, userID string) ([]domain.Trip, error)
}

func tripKey(t domain.Trip) string { return t.ID }

// TripService keeps the current user's trip list. Creates and updates are
// applied only after the server confirms them, since the server assigns ids
// and owns itinerary content. Deletes are optimistic.
type TripService struct {
	remote  TripRemote
	notices Notifier
	log     *slog.Logger

	// Backoff returns the retry policy for deletes.
	Backoff func() retry.Backoff

	mu    sync.Mutex
	store *optimistic.Store[string, domain.Trip]
}

// DefaultDeleteBackoff retries a delete up to twice more with exponential
// spacing starting at 200ms.
func DefaultDeleteBackoff() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
}

// NewTripService constructs a TripService backed by the provided remote store.
func NewTripService(r TripRemote, n Notifier, logger *slog.Logger) *TripService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TripService{
		remote:  r,
		notices: n,
		log:     logger,
		Backoff: DefaultDeleteBackoff,
	}
	s.begin()
	return s
}

func (s *TripService) current() *optimistic.Store[string, domain.Trip] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// Load replaces the list with userID's trips. An empty userID clears it.
func (s *TripService) Load(ctx context.Context, userID string) error {
	return s.fill(ctx, userID, s.begin())
}

// begin makes an empty list current and returns it.
func (s *TripService) begin() *optimistic.Store[string, domain.Trip] {
	store := optimistic.New(tripKey)
	store.OnRevert(func(t domain.Trip, _ bool, err error) {
		s.log.Warn("trip delete failed, restored", "trip_id", t.ID, "error", err)
		s.notices.Error(fmt.Sprintf("Could not delete %q. Please try again.", t.TripName))
	})
	s.mu.Lock()
	s.store = store
	s.mu.Unlock()
	return store
}

func (s *TripService) fill(ctx context.Context, userID string, store *optimistic.Store[string, domain.Trip]) error {
	if userID == "" {
		return nil
	}
	trips, err := s.remote.ListTrips(ctx, userID)
	if err != nil {
		return fmt.Errorf("service.TripService.Load: %w", err)
	}
	store.Reset(trips)
	return nil
}

// List returns the trips in display order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List() []domain.Trip {
	return s.current().Snapshot()
}

// Get returns the trip with id.
// Returns domain.ErrNotFound if the trip is not in the list.
func (s *TripService) Get(id string) (domain.Trip, error) {
	t, ok := s.current().Get(id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", domain.ErrNotFound)
	}
	return t, nil
}

// Create persists a new trip and prepends the server's copy.
func (s *TripService) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return s.create(ctx, s.current(), t)
}

// Update overwrites trip id and replaces the list entry with the server's
// copy, prepending it if the entry is gone.
func (s *TripService) Update(ctx context.Context, id string, t domain.Trip) (domain.Trip, error) {
	return s.update(ctx, s.current(), id, t)
}

// Writer returns a TripWriter bound to the list that is current now. Trips
// it persists land in that list even if another user's list is loaded while
// the call is in flight.
func (s *TripService) Writer() TripWriter {
	return &boundTrips{svc: s, store: s.current()}
}

func (s *TripService) create(ctx context.Context, store *optimistic.Store[string, domain.Trip], t domain.Trip) (domain.Trip, error) {
	result, err := s.remote.CreateTrip(ctx, t)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	store.Prepend(result)
	return result, nil
}

func (s *TripService) update(ctx context.Context, store *optimistic.Store[string, domain.Trip], id string, t domain.Trip) (domain.Trip, error) {
	t.ID = id
	result, err := s.remote.UpdateTrip(ctx, id, t)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if result.ID == "" {
		result.ID = id
	}
	if !store.Replace(result) {
		store.Prepend(result)
	}
	return result, nil
}

type boundTrips struct {
	svc   *TripService
	store *optimistic.Store[string, domain.Trip]
}

func (b *boundTrips) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return b.svc.create(ctx, b.store, t)
}

func (b *boundTrips) Update(ctx context.Context, id string, t domain.Trip) (domain.Trip, error) {
	return b.svc.update(ctx, b.store, id, t)
}

// Delete removes trip id from the list at once and deletes it remotely,
// retrying transport failures. If every attempt fails the trip reappears in
// its old position and an error notice is raised.
// Returns domain.ErrNotFound if the trip is not in the list.
func (s *TripService) Delete(ctx context.Context, id string) (*optimistic.Pending, error) {
	store := s.current()
	if !store.Contains(id) {
		return nil, fmt.Errorf("service.TripService.Delete: %w", domain.ErrNotFound)
	}

	remote := func(ctx context.Context, id string) error {
		err := retry.Do(ctx, s.Backoff(), func(ctx context.Context) error {
			err := s.remote.DeleteTrip(ctx, id)
			switch {
			case err == nil, errors.Is(err, domain.ErrNotFound):
				// Already gone is as good as deleted.
				return nil
			case errors.Is(err, domain.ErrTransport):
				return retry.RetryableError(err)
			default:
				return err
			}
		})
		if err != nil {
			s.log.Debug("trip delete attempts exhausted", "trip_id", id, "error", err)
		}
		return err
	}
	return store.Remove(context.WithoutCancel(ctx), id, remote), nil
}
