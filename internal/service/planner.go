package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/voyager/internal/autocomplete"
	"github.com/pkordes/voyager/internal/calendar"
	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/optimistic"
)

// ErrBusy is returned when a submission is already running.
var ErrBusy = errors.New("submission in progress")

// PlaceSearch is the autocomplete controller. *autocomplete.Controller
// satisfies it.
type PlaceSearch interface {
	Input(text, country string)
	Select(externalID string) (domain.SpecificDestination, bool)
	Dismiss()
	Reset()
	State() autocomplete.State
	Close()
}

// DraftPatch updates the plain fields of a draft. Nil fields are left alone.
type DraftPatch struct {
	TripName       *string
	Destination    *string
	Currency       *domain.Currency
	BudgetAmount   *int
	Companions     *domain.Companions
	NumberOfPeople *int
}

// Session describes the planner for rendering.
type Session struct {
	UserID        string         `json:"userId"`
	EditingTripID string         `json:"editingTripId,omitempty"`
	State         State          `json:"state"`
	FieldErrors   []domain.Field `json:"fieldErrors"`
}

// Planner is the single planning session: one user, one TripDraft.
// Every committed draft change is written through the draft cache. Remote
// calls happen outside the planner lock.
type Planner struct {
	cache   DraftStore
	places  PlaceSearch
	saved   *SavedService
	feed    *FeedService
	trips   *TripService
	submit  *Submitter
	notices Notifier
	log     *slog.Logger

	// Now supplies "today" for defaults and the calendar.
	Now func() time.Time

	mu            sync.Mutex
	started       bool
	epoch         uint64 // bumped on every identity change
	userID        string
	draft         domain.TripDraft
	editingTripID string
	state         State
	fieldErrors   []domain.Field
}

// PlannerDeps groups the collaborators of a Planner.
type PlannerDeps struct {
	Cache     DraftStore
	Places    PlaceSearch
	Saved     *SavedService
	Feed      *FeedService // optional; nil disables browsing
	Trips     *TripService
	Submitter *Submitter
	Notices   Notifier
	Logger    *slog.Logger
}

// NewPlanner constructs a Planner for the anonymous user. Call SwitchUser
// to load a cached draft.
func NewPlanner(deps PlannerDeps) *Planner {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	p := &Planner{
		cache:   deps.Cache,
		places:  deps.Places,
		saved:   deps.Saved,
		feed:    deps.Feed,
		trips:   deps.Trips,
		submit:  deps.Submitter,
		notices: deps.Notices,
		log:     logger,
		Now:     time.Now,
		state:   StateEditing,
	}
	p.draft = domain.NewDraft(p.Now())
	return p
}

// SwitchUser makes userID ("" for signed out) the session's identity.
//
// The in-memory draft is reset to defaults before the new user's cached
// draft is loaded, so no draft crosses identities. Saved destinations and
// trips are reloaded for signed-in users; load failures are logged and
// reported as notices. Switching to the current user is a no-op.
func (p *Planner) SwitchUser(ctx context.Context, userID string) {
	p.mu.Lock()
	if p.started && p.userID == userID {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.epoch++
	p.userID = userID
	p.resetLocked()
	p.places.Reset()
	if d, ok := p.cache.Load(ctx, userID); ok {
		p.draft = d
	}
	// Swap the lists under the lock so nothing started after this point
	// writes to the previous user's.
	saved := p.saved.begin(userID)
	trips := p.trips.begin()
	p.mu.Unlock()

	p.log.Info("session user switched", "user_id", userID)
	if err := p.saved.fill(ctx, userID, saved); err != nil {
		p.log.Warn("loading saved destinations failed", "user_id", userID, "error", err)
		p.notices.Error("Could not load your saved destinations.")
	}
	if err := p.trips.fill(ctx, userID, trips); err != nil {
		p.log.Warn("loading trips failed", "user_id", userID, "error", err)
		p.notices.Error("Could not load your trips.")
	}
}

func (p *Planner) resetLocked() {
	p.draft = domain.NewDraft(p.Now())
	p.editingTripID = ""
	p.state = StateEditing
	p.fieldErrors = nil
}

// Session returns the identity and pipeline state.
func (p *Planner) Session() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Session{
		UserID:        p.userID,
		EditingTripID: p.editingTripID,
		State:         p.state,
		FieldErrors:   append([]domain.Field{}, p.fieldErrors...),
	}
}

// Draft returns a copy of the current draft.
func (p *Planner) Draft() domain.TripDraft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.Clone()
}

// mutate applies fn to the draft and persists the result when fn succeeds.
func (p *Planner) mutate(ctx context.Context, fn func(d *domain.TripDraft) error) (domain.TripDraft, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.submittingLocked() {
		return domain.TripDraft{}, ErrBusy
	}
	next := p.draft.Clone()
	if err := fn(&next); err != nil {
		return domain.TripDraft{}, err
	}
	p.draft = next
	p.state = StateEditing
	p.cache.Save(ctx, p.userID, next)
	return next.Clone(), nil
}

func (p *Planner) submittingLocked() bool {
	switch p.state {
	case StateValidating, StateGeneratingItinerary, StatePersisting:
		return true
	}
	return false
}

// Update applies a field patch. Unknown currencies or companion types are
// rejected with domain.ErrValidation.
func (p *Planner) Update(ctx context.Context, patch DraftPatch) (domain.TripDraft, error) {
	return p.mutate(ctx, func(d *domain.TripDraft) error {
		if patch.Currency != nil && !patch.Currency.Valid() {
			return fmt.Errorf("%w: unknown currency %q", domain.ErrValidation, *patch.Currency)
		}
		if patch.Companions != nil && *patch.Companions != domain.CompanionsNone && !patch.Companions.Valid() {
			return fmt.Errorf("%w: unknown companions %q", domain.ErrValidation, *patch.Companions)
		}
		if patch.TripName != nil {
			d.TripName = *patch.TripName
		}
		if patch.Destination != nil {
			d.Destination = *patch.Destination
		}
		if patch.Currency != nil {
			d.Currency = *patch.Currency
		}
		if patch.BudgetAmount != nil {
			d.SetBudget(*patch.BudgetAmount)
		}
		if patch.Companions != nil && *patch.Companions != d.Companions {
			d.SelectCompanions(*patch.Companions)
		}
		if patch.NumberOfPeople != nil {
			d.SetPeople(*patch.NumberOfPeople)
		}
		return nil
	})
}

// ---- calendar ----------------------------------------------------------------

// ClickDate applies a calendar day click to the draft's date range.
func (p *Planner) ClickDate(ctx context.Context, day time.Time) (domain.TripDraft, error) {
	return p.mutate(ctx, func(d *domain.TripDraft) error {
		r := calendar.Range{Start: d.StartDate, End: d.EndDate}.Click(day)
		d.StartDate, d.EndDate = r.Start, r.End
		return nil
	})
}

// PrevMonth moves the calendar back one month.
func (p *Planner) PrevMonth(ctx context.Context) (domain.TripDraft, error) {
	return p.moveCursor(ctx, calendar.Cursor.Prev)
}

// NextMonth moves the calendar forward one month.
func (p *Planner) NextMonth(ctx context.Context) (domain.TripDraft, error) {
	return p.moveCursor(ctx, calendar.Cursor.Next)
}

func (p *Planner) moveCursor(ctx context.Context, step func(calendar.Cursor) calendar.Cursor) (domain.TripDraft, error) {
	return p.mutate(ctx, func(d *domain.TripDraft) error {
		c := step(calendar.Cursor{Month: d.CalMonth, Year: d.CalYear})
		d.CalMonth, d.CalYear = c.Month, c.Year
		return nil
	})
}

// Calendar returns the month grid at the draft's cursor.
func (p *Planner) Calendar() calendar.Grid {
	p.mu.Lock()
	d := p.draft.Clone()
	p.mu.Unlock()
	c := calendar.Cursor{Month: d.CalMonth, Year: d.CalYear}
	return calendar.Month(c, p.Now(), calendar.Range{Start: d.StartDate, End: d.EndDate})
}

// ---- specific destinations -----------------------------------------------

// PlaceInput feeds the autocomplete controller, scoped to the draft's
// country when the destination is a known country.
func (p *Planner) PlaceInput(text string) autocomplete.State {
	p.mu.Lock()
	country := domain.CountryCode(p.draft.Destination)
	p.mu.Unlock()
	p.places.Input(text, country)
	return p.places.State()
}

// Places returns the autocomplete state.
func (p *Planner) Places() autocomplete.State {
	return p.places.State()
}

// DismissPlaces hides the suggestion panel.
func (p *Planner) DismissPlaces() {
	p.places.Dismiss()
}

// SelectPlace appends the chosen suggestion to the draft.
// Returns domain.ErrNotFound if no such suggestion is showing.
func (p *Planner) SelectPlace(ctx context.Context, externalID string) (domain.TripDraft, error) {
	sd, ok := p.places.Select(externalID)
	if !ok {
		return domain.TripDraft{}, fmt.Errorf("service.Planner.SelectPlace: %w", domain.ErrNotFound)
	}
	return p.mutate(ctx, func(d *domain.TripDraft) error {
		d.AddSpecific(sd)
		return nil
	})
}

// AddSavedDestination promotes a saved destination into the draft. A second
// promotion of the same destination leaves the draft unchanged.
// Returns domain.ErrNotFound if the destination is not saved.
func (p *Planner) AddSavedDestination(ctx context.Context, destinationID string) (domain.TripDraft, error) {
	dest, ok := p.saved.Get(destinationID)
	if !ok {
		return domain.TripDraft{}, fmt.Errorf("service.Planner.AddSavedDestination: %w", domain.ErrNotFound)
	}
	return p.mutate(ctx, func(d *domain.TripDraft) error {
		d.AddSpecific(dest.ToSpecific())
		return nil
	})
}

// RemoveSpecific drops a specific destination from the draft.
// Returns domain.ErrNotFound if the draft has no such destination.
func (p *Planner) RemoveSpecific(ctx context.Context, id string) (domain.TripDraft, error) {
	return p.mutate(ctx, func(d *domain.TripDraft) error {
		if !d.RemoveSpecific(id) {
			return fmt.Errorf("service.Planner.RemoveSpecific: %w", domain.ErrNotFound)
		}
		return nil
	})
}

// SavedForDraft returns saved destinations matching the draft destination.
func (p *Planner) SavedForDraft() []domain.Destination {
	p.mu.Lock()
	dest := p.draft.Destination
	p.mu.Unlock()
	out := domain.FilterSaved(p.saved.List(), dest)
	if out == nil {
		out = []domain.Destination{}
	}
	return out
}

// ---- saved destinations and trips ----------------------------------------

// Saved returns the user's saved destinations.
func (p *Planner) Saved() []domain.Destination { return p.saved.List() }

// ToggleSaved flips whether d is saved. See SavedService.Toggle.
func (p *Planner) ToggleSaved(ctx context.Context, d domain.Destination) (*optimistic.Pending, error) {
	return p.saved.Toggle(ctx, d)
}

// ToggleSavedByID flips whether destination id is saved, using the copy the
// session already holds from the saved list or the browse feed.
// Returns domain.ErrNotFound if the session has never seen the destination.
func (p *Planner) ToggleSavedByID(ctx context.Context, id string) (*optimistic.Pending, error) {
	d, ok := p.saved.Get(id)
	if !ok && p.feed != nil {
		d, ok = p.feed.Lookup(id)
	}
	if !ok {
		return nil, fmt.Errorf("service.Planner.ToggleSavedByID: %w", domain.ErrNotFound)
	}
	return p.saved.Toggle(ctx, d)
}

// BrowseDestinations returns a batch of destinations to browse: those
// matching any of tags, or a random batch when tags is empty.
func (p *Planner) BrowseDestinations(ctx context.Context, tags []string) ([]domain.Destination, error) {
	if p.feed == nil {
		return []domain.Destination{}, nil
	}
	return p.feed.Browse(ctx, tags)
}

// Trips returns the user's trips.
func (p *Planner) Trips() []domain.Trip { return p.trips.List() }

// DeleteTrip removes a trip optimistically. Deleting the trip being edited
// also ends the edit.
func (p *Planner) DeleteTrip(ctx context.Context, id string) (*optimistic.Pending, error) {
	pending, err := p.trips.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	if p.editingTripID == id {
		p.editingTripID = ""
	}
	p.mu.Unlock()
	return pending, nil
}

// EditTrip loads a stored trip into the draft; the next submission updates
// it instead of creating a new trip. Stored dates that do not parse are
// dropped and flagged in the session's field errors.
func (p *Planner) EditTrip(ctx context.Context, id string) (domain.TripDraft, error) {
	t, err := p.trips.Get(id)
	if err != nil {
		return domain.TripDraft{}, fmt.Errorf("service.Planner.EditTrip: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.submittingLocked() {
		return domain.TripDraft{}, ErrBusy
	}
	d, derr := domain.DraftFromTrip(t, p.Now())
	if derr != nil {
		p.log.Warn("stored trip has unreadable dates", "trip_id", id, "error", derr)
	}
	p.draft = d
	p.editingTripID = id
	p.state = StateEditing
	p.fieldErrors = fieldErrorsOf(derr)
	p.places.Reset()
	p.cache.Save(ctx, p.userID, p.draft)
	return p.draft.Clone(), nil
}

// Cancel discards the draft and its cache entry.
func (p *Planner) Cancel(ctx context.Context) domain.TripDraft {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Clear(ctx, p.userID)
	p.resetLocked()
	p.places.Reset()
	return p.draft.Clone()
}

// ---- submission ------------------------------------------------------------

// Questions returns clarifying questions for the current draft.
func (p *Planner) Questions(ctx context.Context) ([]domain.Question, error) {
	d := p.Draft()
	qs, err := p.submit.Questions(ctx, d)
	if err != nil {
		p.setFieldErrors(err)
		return nil, err
	}
	return qs, nil
}

func (p *Planner) setFieldErrors(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fieldErrors = fieldErrorsOf(err)
}

func fieldErrorsOf(err error) []domain.Field {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return append([]domain.Field(nil), verr.Fields...)
	}
	return nil
}

// Submit runs the submission pipeline on the current draft. On success the
// draft is reset and the edit, if any, ends. On failure the draft is kept.
//
// The submission belongs to the user who started it. If the session switches
// user meanwhile, the trip still lands in the submitter's list and the new
// user's draft and state are left alone.
func (p *Planner) Submit(ctx context.Context, answers []domain.ClarifyingAnswer) (domain.Trip, error) {
	p.mu.Lock()
	if p.submittingLocked() {
		p.mu.Unlock()
		return domain.Trip{}, ErrBusy
	}
	epoch := p.epoch
	sub := Submission{
		UserID:        p.userID,
		Draft:         p.draft.Clone(),
		EditingTripID: p.editingTripID,
		Answers:       answers,
		Trips:         p.trips.Writer(),
	}
	p.state = StateValidating
	p.mu.Unlock()

	trip, err := p.submit.Submit(ctx, sub, func(s State) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.epoch != epoch {
			return
		}
		p.state = s
		if s == StateDone {
			// Reset with the state change so no edit slips in between
			// and re-caches the submitted draft.
			p.draft = domain.NewDraft(p.Now())
			p.editingTripID = ""
			p.places.Reset()
		}
	})

	p.mu.Lock()
	if p.epoch == epoch {
		p.fieldErrors = fieldErrorsOf(err)
	}
	p.mu.Unlock()
	if err != nil {
		return domain.Trip{}, err
	}
	p.log.Info("trip submitted", "user_id", sub.UserID, "trip_id", trip.ID, "itinerary_days", len(trip.Itinerary))
	return trip, nil
}

// Close stops background autocomplete work and waits for pending syncs.
func (p *Planner) Close() {
	p.places.Close()
	_, store := p.saved.current()
	store.Wait()
	p.trips.current().Wait()
}
