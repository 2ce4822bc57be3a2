package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pkordes/voyager/internal/domain"
)

// State is a step of the submission pipeline.
type State string

const (
	StateEditing             State = "editing"
	StateValidating          State = "validating"
	StateGeneratingItinerary State = "generating_itinerary"
	StatePersisting          State = "persisting"
	StateDone                State = "done"
)

// DefaultItineraryTimeout bounds itinerary generation.
const DefaultItineraryTimeout = 60 * time.Second

// ItineraryGenerator is the remote itinerary service.
type ItineraryGenerator interface {
	GenerateItinerary(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error)
	Questions(ctx context.Context, req domain.ItineraryRequest) ([]domain.Question, error)
}

// DraftStore is the per-user draft cache. *draftcache.Cache satisfies it.
type DraftStore interface {
	Load(ctx context.Context, userID string) (domain.TripDraft, bool)
	Save(ctx context.Context, userID string, d domain.TripDraft)
	Clear(ctx context.Context, userID string)
}

// TripWriter persists trips. *TripService satisfies it.
type TripWriter interface {
	Create(ctx context.Context, t domain.Trip) (domain.Trip, error)
	Update(ctx context.Context, id string, t domain.Trip) (domain.Trip, error)
}

var budgetPrinter = message.NewPrinter(language.English)

// BudgetRange renders the budget for display, e.g. "S$5,000". The maximum
// reads "S$10,000++".
func BudgetRange(c domain.Currency, amount int) string {
	s := c.Symbol() + budgetPrinter.Sprintf("%d", amount)
	if amount >= domain.BudgetMax {
		s += "++"
	}
	return s
}

// Submission is one run of the pipeline.
type Submission struct {
	UserID        string
	Draft         domain.TripDraft
	EditingTripID string
	Answers       []domain.ClarifyingAnswer
	// Trips, when set, persists this submission in place of the
	// Submitter's writer. It pins the trip to the list of the user who
	// submitted.
	Trips TripWriter
}

// Submitter validates a draft, generates an itinerary on a best-effort
// basis, persists the trip and clears the user's draft cache.
type Submitter struct {
	gen     ItineraryGenerator
	trips   TripWriter
	cache   DraftStore
	notices Notifier
	log     *slog.Logger

	// Timeout bounds the itinerary call. Expiry counts as a generation failure.
	Timeout time.Duration
	// Now stamps createdAt.
	Now func() time.Time
}

// NewSubmitter constructs a Submitter.
func NewSubmitter(gen ItineraryGenerator, trips TripWriter, cache DraftStore, n Notifier, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		gen:     gen,
		trips:   trips,
		cache:   cache,
		notices: n,
		log:     logger,
		Timeout: DefaultItineraryTimeout,
		Now:     time.Now,
	}
}

// Submit runs the pipeline, reporting each state to onState.
//
// A draft that fails validation returns a *domain.ValidationError listing
// every bad field and makes no remote call. Itinerary failure is logged and
// the trip is saved without one. A persistence failure raises an error
// notice and leaves the draft cache untouched.
func (s *Submitter) Submit(ctx context.Context, sub Submission, onState func(State)) (domain.Trip, error) {
	if onState == nil {
		onState = func(State) {}
	}

	onState(StateValidating)
	if err := sub.Draft.Validate(); err != nil {
		onState(StateEditing)
		return domain.Trip{}, err
	}
	if sub.UserID == "" {
		onState(StateEditing)
		return domain.Trip{}, fmt.Errorf("service.Submitter.Submit: %w", domain.ErrUnauthenticated)
	}

	d := sub.Draft
	trip := domain.TripFromDraft(d, BudgetRange(d.Currency, d.BudgetAmount), s.Now())
	trip.UserID = sub.UserID

	onState(StateGeneratingItinerary)
	s.attachItinerary(ctx, &trip, sub.Answers)

	onState(StatePersisting)
	w := s.trips
	if sub.Trips != nil {
		w = sub.Trips
	}
	var (
		saved domain.Trip
		err   error
	)
	if sub.EditingTripID != "" {
		saved, err = w.Update(ctx, sub.EditingTripID, trip)
	} else {
		saved, err = w.Create(ctx, trip)
	}
	if err != nil {
		s.log.Error("trip persist failed", "user_id", sub.UserID, "trip_id", sub.EditingTripID, "error", err)
		s.notices.Error("Could not save your trip. Your draft has been kept, please try again.")
		onState(StateEditing)
		return domain.Trip{}, fmt.Errorf("service.Submitter.Submit: %w", err)
	}

	s.cache.Clear(ctx, sub.UserID)
	onState(StateDone)
	return saved, nil
}

func (s *Submitter) attachItinerary(ctx context.Context, trip *domain.Trip, answers []domain.ClarifyingAnswer) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	it, err := s.gen.GenerateItinerary(ctx, domain.ItineraryRequestFor(*trip, answers))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.log.Warn("itinerary generation timed out, saving trip without itinerary",
				"user_id", trip.UserID, "timeout", s.Timeout)
			return
		}
		s.log.Warn("itinerary generation failed, saving trip without itinerary",
			"user_id", trip.UserID, "error", err)
		return
	}
	trip.Itinerary = it.Days
	trip.Countries = it.Countries
	if len(trip.Countries) == 0 {
		trip.Countries = countriesOf(it.Days)
	}
}

// countriesOf returns the sorted distinct activity countries.
func countriesOf(days []domain.ItineraryDay) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range days {
		for _, a := range d.Activities {
			if a.Country != "" && !seen[a.Country] {
				seen[a.Country] = true
				out = append(out, a.Country)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Questions returns clarifying questions for a valid draft. Failures are
// logged and yield no questions, since questions only refine generation.
func (s *Submitter) Questions(ctx context.Context, d domain.TripDraft) ([]domain.Question, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	trip := domain.TripFromDraft(d, BudgetRange(d.Currency, d.BudgetAmount), s.Now())
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	qs, err := s.gen.Questions(ctx, domain.ItineraryRequestFor(trip, nil))
	if err != nil {
		s.log.Warn("clarifying questions failed", "error", err)
		return []domain.Question{}, nil
	}
	return qs, nil
}
