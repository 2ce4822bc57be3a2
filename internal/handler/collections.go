package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/service"
)

// ToggleSavedRequest is the body of POST /saved/toggle. DestinationID names a
// destination the session has listed; Destination is only used for ones it
// has not.
type ToggleSavedRequest struct {
	DestinationID string              `json:"destinationId"`
	Destination   *domain.Destination `json:"destination"`
}

// ToggleSavedResponse reports the optimistic state after a toggle.
type ToggleSavedResponse struct {
	Saved        bool                 `json:"saved"`
	Destinations []domain.Destination `json:"destinations"`
}

// BrowseDestinations handles GET /destinations?tags=beach,temple. Without
// tags it returns a random batch.
func (s *Server) BrowseDestinations(w http.ResponseWriter, r *http.Request) {
	out, err := s.planner.BrowseDestinations(r.Context(), service.SplitTags(r.URL.Query().Get("tags")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListSaved handles GET /saved.
func (s *Server) ListSaved(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.planner.Saved())
}

// ToggleSaved handles POST /saved/toggle. The change is applied at once;
// a remote failure later reverts it and queues a notice.
func (s *Server) ToggleSaved(w http.ResponseWriter, r *http.Request) {
	var body ToggleSavedRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id := body.DestinationID
	if id == "" && body.Destination != nil {
		id = body.Destination.ID
	}
	if id == "" {
		requestError(w, "destinationId is required")
		return
	}
	p, err := s.planner.ToggleSavedByID(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) && body.Destination != nil {
		d := *body.Destination
		d.ID = id
		p, err = s.planner.ToggleSaved(r.Context(), d)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleSavedResponse{Saved: p.Present, Destinations: s.planner.Saved()})
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.planner.Trips())
}

// EditTrip handles PUT /trips/{id}/edit.
func (s *Server) EditTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	d, err := s.planner.EditTrip(r.Context(), id)
	s.draftResult(w, r, d, err)
}

// DeleteTrip handles DELETE /trips/{id}. The trip leaves the list at once
// and the response is 202; a final remote failure restores it.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	if _, err := s.planner.DeleteTrip(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ListNotices handles GET /notices, draining the queue.
func (s *Server) ListNotices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.notices.Drain())
}
