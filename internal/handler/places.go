package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/voyager/internal/domain"
)

// PlaceInputRequest is the body of PUT /draft/places/input.
type PlaceInputRequest struct {
	Text string `json:"text"`
}

// SelectPlaceRequest is the body of POST /draft/places/select.
type SelectPlaceRequest struct {
	ExternalID string `json:"externalId"`
}

// pathParam binds a simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	return v, err
}

// SuggestDestinations handles GET /destinations/suggest?q=.
func (s *Server) SuggestDestinations(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		requestError(w, "invalid q: "+err.Error())
		return
	}
	out := domain.SuggestDestinations(q)
	if out == nil {
		out = []domain.DestinationOption{}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPlaces handles GET /draft/places.
func (s *Server) GetPlaces(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.planner.Places())
}

// PutPlaceInput handles PUT /draft/places/input. The lookup itself runs
// after the debounce window; poll GET /draft/places for results.
func (s *Server) PutPlaceInput(w http.ResponseWriter, r *http.Request) {
	var body PlaceInputRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, s.planner.PlaceInput(body.Text))
}

// SelectPlace handles POST /draft/places/select.
func (s *Server) SelectPlace(w http.ResponseWriter, r *http.Request) {
	var body SelectPlaceRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.ExternalID == "" {
		requestError(w, "externalId is required")
		return
	}
	d, err := s.planner.SelectPlace(r.Context(), body.ExternalID)
	s.draftResult(w, r, d, err)
}

// DismissPlaces handles POST /draft/places/dismiss.
func (s *Server) DismissPlaces(w http.ResponseWriter, _ *http.Request) {
	s.planner.DismissPlaces()
	writeJSON(w, http.StatusOK, s.planner.Places())
}

// AddSavedDestination handles POST /draft/specific/saved/{destinationId}.
func (s *Server) AddSavedDestination(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "destinationId")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	d, err := s.planner.AddSavedDestination(r.Context(), id)
	s.draftResult(w, r, d, err)
}

// RemoveSpecific handles DELETE /draft/specific/{id}.
func (s *Server) RemoveSpecific(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	d, err := s.planner.RemoveSpecific(r.Context(), id)
	s.draftResult(w, r, d, err)
}

// GetSavedForDraft handles GET /draft/saved.
func (s *Server) GetSavedForDraft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.planner.SavedForDraft())
}
