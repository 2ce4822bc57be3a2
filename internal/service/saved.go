// Package service contains the planner's business logic: saved-destination
// and trip synchronisation, the submission pipeline, and the planner session
// that ties them to a single TripDraft.
// No HTTP or storage code lives here; services depend on small interfaces
// declared next to the code that consumes them.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/optimistic"
)

// SavedRemote is the remote saved-destinations store.
type SavedRemote interface {
	ListSaved(ctx context.Context, userID string) ([]domain.Destination, error)
	AddSaved(ctx context.Context, userID, destinationID string) error
	RemoveSaved(ctx context.Context, userID, destinationID string) error
}

// Notifier raises user-visible notices. *notify.Queue satisfies it.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

func destinationKey(d domain.Destination) string { return d.ID }

// SavedService keeps the current user's saved destinations in sync with the
// remote store. Toggles are optimistic and roll back on failure.
type SavedService struct {
	remote  SavedRemote
	notices Notifier
	log     *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	userID string
	store  *optimistic.Store[string, domain.Destination]
}

// NewSavedService constructs a SavedService. timeout bounds each remote call
// made in the background; zero means no bound.
func NewSavedService(r SavedRemote, n Notifier, logger *slog.Logger, timeout time.Duration) *SavedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SavedService{
		remote:  r,
		notices: n,
		log:     logger,
		timeout: timeout,
		store:   optimistic.New(destinationKey),
	}
}

// current returns the active user and store together.
func (s *SavedService) current() (string, *optimistic.Store[string, domain.Destination]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.store
}

// Load switches to userID and replaces the set with the remote listing.
// Requests still in flight for the previous user settle against a store
// that is no longer visible.
func (s *SavedService) Load(ctx context.Context, userID string) error {
	return s.fill(ctx, userID, s.begin(userID))
}

// begin makes an empty set for userID current and returns it.
func (s *SavedService) begin(userID string) *optimistic.Store[string, domain.Destination] {
	store := optimistic.New(destinationKey)
	store.OnRevert(func(d domain.Destination, saved bool, err error) {
		verb := "unsave"
		if saved {
			verb = "save"
		}
		s.log.Warn("saved destination rolled back", "user_id", userID, "destination_id", d.ID, "op", verb, "error", err)
		s.notices.Error(fmt.Sprintf("Could not %s %s. Please try again.", verb, d.Name))
	})
	s.mu.Lock()
	s.userID = userID
	s.store = store
	s.mu.Unlock()
	return store
}

func (s *SavedService) fill(ctx context.Context, userID string, store *optimistic.Store[string, domain.Destination]) error {
	if userID == "" {
		return nil
	}
	items, err := s.remote.ListSaved(ctx, userID)
	if err != nil {
		return fmt.Errorf("service.SavedService.Load: %w", err)
	}
	store.Reset(items)
	return nil
}

// List returns the saved destinations in display order.
func (s *SavedService) List() []domain.Destination {
	_, store := s.current()
	return store.Snapshot()
}

// Get returns the saved destination with id.
func (s *SavedService) Get(id string) (domain.Destination, bool) {
	_, store := s.current()
	return store.Get(id)
}

// Toggle saves d if it is not saved and unsaves it otherwise. The local set
// changes before the remote call. A failed call rolls back and raises an
// error notice, unless a later toggle of d is already queued. It returns domain.ErrUnauthenticated, with no mutation, when
// no user is signed in.
func (s *SavedService) Toggle(ctx context.Context, d domain.Destination) (*optimistic.Pending, error) {
	userID, store := s.current()
	if userID == "" {
		return nil, fmt.Errorf("service.SavedService.Toggle: %w", domain.ErrUnauthenticated)
	}

	add := func(ctx context.Context, d domain.Destination) error {
		return s.call(ctx, userID, d, "save", s.remote.AddSaved)
	}
	remove := func(ctx context.Context, id string) error {
		return s.call(ctx, userID, d, "unsave", s.remote.RemoveSaved)
	}
	// The remote call outlives the caller's request.
	return store.Toggle(context.WithoutCancel(ctx), d, add, remove), nil
}

func (s *SavedService) call(ctx context.Context, userID string, d domain.Destination, verb string, fn func(context.Context, string, string) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := fn(ctx, userID, d.ID); err != nil {
		s.log.Debug("saved destination sync failed", "user_id", userID, "destination_id", d.ID, "op", verb, "error", err)
		return err
	}
	return nil
}
