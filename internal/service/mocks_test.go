package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/pkordes/voyager/internal/autocomplete"
	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/draftcache"
	"github.com/pkordes/voyager/internal/repo"
	"github.com/pkordes/voyager/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs.

type mockSavedRemote struct {
	list   func(ctx context.Context, userID string) ([]domain.Destination, error)
	add    func(ctx context.Context, userID, destinationID string) error
	remove func(ctx context.Context, userID, destinationID string) error
}

func (m *mockSavedRemote) ListSaved(ctx context.Context, userID string) ([]domain.Destination, error) {
	return m.list(ctx, userID)
}
func (m *mockSavedRemote) AddSaved(ctx context.Context, userID, destinationID string) error {
	return m.add(ctx, userID, destinationID)
}
func (m *mockSavedRemote) RemoveSaved(ctx context.Context, userID, destinationID string) error {
	return m.remove(ctx, userID, destinationID)
}

var _ service.SavedRemote = (*mockSavedRemote)(nil)

type mockTripRemote struct {
	create func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	update func(ctx context.Context, id string, t domain.Trip) (domain.Trip, error)
	delete func(ctx context.Context, id string) error
	list   func(ctx context.Context, userID string) ([]domain.Trip, error)
}

func (m *mockTripRemote) CreateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRemote) UpdateTrip(ctx context.Context, id string, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, id, t)
}
func (m *mockTripRemote) DeleteTrip(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}
func (m *mockTripRemote) ListTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	return m.list(ctx, userID)
}

var _ service.TripRemote = (*mockTripRemote)(nil)

type mockGenerator struct {
	generate  func(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error)
	questions func(ctx context.Context, req domain.ItineraryRequest) ([]domain.Question, error)
}

func (m *mockGenerator) GenerateItinerary(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
	return m.generate(ctx, req)
}
func (m *mockGenerator) Questions(ctx context.Context, req domain.ItineraryRequest) ([]domain.Question, error) {
	return m.questions(ctx, req)
}

var _ service.ItineraryGenerator = (*mockGenerator)(nil)

type mockFeed struct {
	random       func(ctx context.Context) ([]domain.Destination, error)
	personalized func(ctx context.Context, tags []string) ([]domain.Destination, error)
}

func (m *mockFeed) RandomDestinations(ctx context.Context) ([]domain.Destination, error) {
	return m.random(ctx)
}
func (m *mockFeed) PersonalizedDestinations(ctx context.Context, tags []string) ([]domain.Destination, error) {
	return m.personalized(ctx, tags)
}

var _ service.DestinationFeed = (*mockFeed)(nil)

// recordingNotifier keeps every notice for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (r *recordingNotifier) Info(msg string) {
	r.mu.Lock()
	r.infos = append(r.infos, msg)
	r.mu.Unlock()
}

func (r *recordingNotifier) Error(msg string) {
	r.mu.Lock()
	r.errors = append(r.errors, msg)
	r.mu.Unlock()
}

func (r *recordingNotifier) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

var _ service.Notifier = (*recordingNotifier)(nil)

// idlePlaces is a PlaceSearch that never looks anything up.
type idlePlaces struct {
	mu     sync.Mutex
	text   string
	resets int
	pick   *domain.SpecificDestination
}

func (p *idlePlaces) Input(text, _ string) {
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
}

func (p *idlePlaces) Select(string) (domain.SpecificDestination, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pick == nil {
		return domain.SpecificDestination{}, false
	}
	return *p.pick, true
}

func (p *idlePlaces) Dismiss() {}

func (p *idlePlaces) Reset() {
	p.mu.Lock()
	p.text = ""
	p.resets++
	p.mu.Unlock()
}

func (p *idlePlaces) State() autocomplete.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return autocomplete.State{Text: p.text}
}

func (p *idlePlaces) Close() {}

var _ service.PlaceSearch = (*idlePlaces)(nil)

// ---- fixtures ---------------------------------------------------------------

var today = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func validDraft() domain.TripDraft {
	d := domain.NewDraft(today)
	d.TripName = "Kyoto spring"
	d.Destination = "Japan"
	d.StartDate = date(2025, 3, 10)
	d.EndDate = date(2025, 3, 14)
	d.SelectCompanions(domain.CompanionsFamily)
	return d
}

func newMemoryCache() *draftcache.Cache {
	c := draftcache.New(repo.NewMemoryKV(), nil)
	c.Now = func() time.Time { return today }
	return c
}

func sampleItinerary() domain.Itinerary {
	return domain.Itinerary{
		Days: []domain.ItineraryDay{{
			Day:  1,
			Date: "2025-03-10",
			Activities: []domain.ItineraryActivity{
				{Time: "09:00", Title: "Fushimi Inari", Location: "Kyoto", Country: "Japan"},
			},
		}},
		Countries: []string{"Japan"},
	}
}
