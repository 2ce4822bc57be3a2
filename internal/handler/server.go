// Package handler implements the session HTTP API a rendering shell uses to
// drive the planner. Handlers are methods on Server, split into files by
// area (draft.go, places.go, collections.go) but sharing one Server.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/voyager/internal/autocomplete"
	"github.com/pkordes/voyager/internal/calendar"
	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/middleware"
	"github.com/pkordes/voyager/internal/notify"
	"github.com/pkordes/voyager/internal/optimistic"
	"github.com/pkordes/voyager/internal/service"
)

// Planner is the session the handlers operate on. *service.Planner
// satisfies it; it is declared here so the consumer owns the contract.
type Planner interface {
	SwitchUser(ctx context.Context, userID string)
	Session() service.Session
	Draft() domain.TripDraft
	Update(ctx context.Context, patch service.DraftPatch) (domain.TripDraft, error)
	Cancel(ctx context.Context) domain.TripDraft

	ClickDate(ctx context.Context, day time.Time) (domain.TripDraft, error)
	PrevMonth(ctx context.Context) (domain.TripDraft, error)
	NextMonth(ctx context.Context) (domain.TripDraft, error)
	Calendar() calendar.Grid

	PlaceInput(text string) autocomplete.State
	Places() autocomplete.State
	DismissPlaces()
	SelectPlace(ctx context.Context, externalID string) (domain.TripDraft, error)
	AddSavedDestination(ctx context.Context, destinationID string) (domain.TripDraft, error)
	RemoveSpecific(ctx context.Context, id string) (domain.TripDraft, error)
	SavedForDraft() []domain.Destination

	Questions(ctx context.Context) ([]domain.Question, error)
	Submit(ctx context.Context, answers []domain.ClarifyingAnswer) (domain.Trip, error)

	Saved() []domain.Destination
	ToggleSaved(ctx context.Context, d domain.Destination) (*optimistic.Pending, error)
	ToggleSavedByID(ctx context.Context, id string) (*optimistic.Pending, error)
	BrowseDestinations(ctx context.Context, tags []string) ([]domain.Destination, error)
	Trips() []domain.Trip
	EditTrip(ctx context.Context, id string) (domain.TripDraft, error)
	DeleteTrip(ctx context.Context, id string) (*optimistic.Pending, error)
}

var _ Planner = (*service.Planner)(nil)

// NoticeSource hands out queued toasts. *notify.Queue satisfies it.
type NoticeSource interface {
	Drain() []notify.Notice
}

// Server holds the handler dependencies.
type Server struct {
	planner Planner
	notices NoticeSource
	log     *slog.Logger
}

// NewServer constructs the Server. A nil logger means slog.Default().
func NewServer(p Planner, n NoticeSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{planner: p, notices: n, log: logger}
}

// Routes returns the API routes without any middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/session", s.GetSession)
	r.Put("/session/user", s.PutSessionUser)

	r.Route("/draft", func(r chi.Router) {
		r.Get("/", s.GetDraft)
		r.Patch("/", s.PatchDraft)
		r.Delete("/", s.CancelDraft)

		r.Get("/dates", s.GetCalendar)
		r.Post("/dates/click", s.ClickDate)
		r.Post("/dates/prev", s.PrevMonth)
		r.Post("/dates/next", s.NextMonth)

		r.Get("/places", s.GetPlaces)
		r.Put("/places/input", s.PutPlaceInput)
		r.Post("/places/select", s.SelectPlace)
		r.Post("/places/dismiss", s.DismissPlaces)

		r.Post("/specific/saved/{destinationId}", s.AddSavedDestination)
		r.Delete("/specific/{id}", s.RemoveSpecific)
		r.Get("/saved", s.GetSavedForDraft)

		r.Post("/questions", s.PostQuestions)
		r.Post("/submit", s.PostSubmit)
	})

	r.Get("/destinations", s.BrowseDestinations)
	r.Get("/destinations/suggest", s.SuggestDestinations)

	r.Get("/saved", s.ListSaved)
	r.Post("/saved/toggle", s.ToggleSaved)

	r.Get("/trips", s.ListTrips)
	r.Put("/trips/{id}/edit", s.EditTrip)
	r.Delete("/trips/{id}", s.DeleteTrip)

	r.Get("/notices", s.ListNotices)
	return r
}

// RouterConfig carries the middleware settings for NewRouter.
type RouterConfig struct {
	Logger       *slog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
}

// NewRouter wraps the API routes in the standard middleware chain:
// RequestID (echoed to the client), RealIP, request logging, Recoverer, CORS and the body cap.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = s.log
	}
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestIDHeader)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	}
	r.Mount("/", s.Routes())
	return r
}
