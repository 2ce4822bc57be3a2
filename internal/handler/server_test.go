package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voyager/internal/autocomplete"
	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/draftcache"
	"github.com/pkordes/voyager/internal/handler"
	"github.com/pkordes/voyager/internal/notify"
	"github.com/pkordes/voyager/internal/places"
	"github.com/pkordes/voyager/internal/repo"
	"github.com/pkordes/voyager/internal/service"
)

// fakeBackend stands in for the Voyager backend and implements every remote
// interface the services need. Fields are guarded by mu.
type fakeBackend struct {
	mu         sync.Mutex
	saved      []domain.Destination
	trips      []domain.Trip
	failSaves  bool
	failTrips  bool
	nextTripID int
	catalogue  []domain.Destination
	gotTags    []string
}

func (b *fakeBackend) ListSaved(context.Context, string) ([]domain.Destination, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Destination(nil), b.saved...), nil
}

func (b *fakeBackend) AddSaved(context.Context, string, string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failSaves {
		return domain.ErrTransport
	}
	return nil
}

func (b *fakeBackend) RemoveSaved(context.Context, string, string) error {
	return b.AddSaved(context.Background(), "", "")
}

func (b *fakeBackend) CreateTrip(_ context.Context, t domain.Trip) (domain.Trip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failTrips {
		return domain.Trip{}, domain.ErrTransport
	}
	b.nextTripID++
	t.ID = "trip-" + strconv.Itoa(b.nextTripID)
	b.trips = append(b.trips, t)
	return t, nil
}

func (b *fakeBackend) UpdateTrip(_ context.Context, id string, t domain.Trip) (domain.Trip, error) {
	t.ID = id
	return t, nil
}

func (b *fakeBackend) DeleteTrip(context.Context, string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failTrips {
		return domain.ErrTransport
	}
	return nil
}

func (b *fakeBackend) ListTrips(context.Context, string) ([]domain.Trip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Trip(nil), b.trips...), nil
}

func (b *fakeBackend) GenerateItinerary(context.Context, domain.ItineraryRequest) (domain.Itinerary, error) {
	return domain.Itinerary{Countries: []string{"Japan"}}, nil
}

func (b *fakeBackend) Questions(context.Context, domain.ItineraryRequest) ([]domain.Question, error) {
	return []domain.Question{{ID: "q1", Text: "Do you enjoy hiking?"}}, nil
}

func (b *fakeBackend) RandomDestinations(context.Context) ([]domain.Destination, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Destination(nil), b.catalogue...), nil
}

func (b *fakeBackend) PersonalizedDestinations(_ context.Context, tags []string) ([]domain.Destination, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gotTags = tags
	var out []domain.Destination
	for _, d := range b.catalogue {
		d.IsPersonalized = true
		out = append(out, d)
	}
	return out, nil
}

var (
	_ service.DestinationFeed    = (*fakeBackend)(nil)
	_ service.SavedRemote        = (*fakeBackend)(nil)
	_ service.TripRemote         = (*fakeBackend)(nil)
	_ service.ItineraryGenerator = (*fakeBackend)(nil)
)

// fakeSearch returns one fixed prediction for any query.
type fakeSearch struct{}

func (fakeSearch) Search(context.Context, string, string) ([]places.Suggestion, error) {
	return []places.Suggestion{{MainText: "Kiyomizu-dera", FullDescription: "Kyoto, Japan", ExternalID: "ChIJ1"}}, nil
}

// ---- helpers ---------------------------------------------------------------

type testEnv struct {
	backend *fakeBackend
	notices *notify.Queue
	planner *service.Planner
	http    http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := &fakeBackend{}
	q := &notify.Queue{}
	cache := draftcache.New(repo.NewMemoryKV(), nil)
	trips := service.NewTripService(b, q, nil)
	trips.Backoff = func() retry.Backoff { return retry.WithMaxRetries(1, retry.NewConstant(time.Millisecond)) }
	p := service.NewPlanner(service.PlannerDeps{
		Cache:     cache,
		Places:    autocomplete.New(fakeSearch{}, autocomplete.WithDelay(time.Millisecond)),
		Saved:     service.NewSavedService(b, q, nil, 0),
		Feed:      service.NewFeedService(b, nil),
		Trips:     trips,
		Submitter: service.NewSubmitter(b, trips, cache, q, nil),
		Notices:   q,
	})
	t.Cleanup(p.Close)
	srv := handler.NewServer(p, q, nil)
	return &testEnv{
		backend: b,
		notices: q,
		planner: p,
		http:    handler.NewRouter(srv, handler.RouterConfig{CORSOrigins: []string{"http://localhost:5173"}, MaxBodyBytes: 1 << 16}),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.http.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signIn(t *testing.T, userID string) {
	t.Helper()
	rec := e.do(t, http.MethodPut, "/session/user", map[string]any{"userId": userID})
	require.Equal(t, http.StatusOK, rec.Code)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
