package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/service"
)

// DraftResponse is the wire shape of a TripDraft.
type DraftResponse struct {
	TripName             string                       `json:"tripName"`
	Destination          string                       `json:"destination"`
	SpecificDestinations []domain.SpecificDestination `json:"specificDestinations"`
	StartDate            *openapi_types.Date          `json:"startDate"`
	EndDate              *openapi_types.Date          `json:"endDate"`
	Currency             domain.Currency              `json:"currency"`
	BudgetAmount         int                          `json:"budgetAmount"`
	BudgetRange          string                       `json:"budgetRange"`
	Companions           domain.Companions            `json:"companions"`
	NumberOfPeople       int                          `json:"numberOfPeople"`
	CalendarMonth        int                          `json:"calendarMonth"`
	CalendarYear         int                          `json:"calendarYear"`
}

// DraftPatchRequest is the body of PATCH /draft. Absent fields are left
// unchanged.
type DraftPatchRequest struct {
	TripName       *string            `json:"tripName"`
	Destination    *string            `json:"destination"`
	Currency       *domain.Currency   `json:"currency"`
	BudgetAmount   *int               `json:"budgetAmount"`
	Companions     *domain.Companions `json:"companions"`
	NumberOfPeople *int               `json:"numberOfPeople"`
}

// ClickDateRequest is the body of POST /draft/dates/click.
type ClickDateRequest struct {
	Date *openapi_types.Date `json:"date"`
}

// SessionUserRequest is the body of PUT /session/user. A null or empty
// userId signs the session out.
type SessionUserRequest struct {
	UserID *string `json:"userId"`
}

func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func draftToResponse(d domain.TripDraft) DraftResponse {
	specific := d.SpecificDestinations
	if specific == nil {
		specific = []domain.SpecificDestination{}
	}
	return DraftResponse{
		TripName:             d.TripName,
		Destination:          d.Destination,
		SpecificDestinations: specific,
		StartDate:            toDate(d.StartDate),
		EndDate:              toDate(d.EndDate),
		Currency:             d.Currency,
		BudgetAmount:         d.BudgetAmount,
		BudgetRange:          service.BudgetRange(d.Currency, d.BudgetAmount),
		Companions:           d.Companions,
		NumberOfPeople:       d.NumberOfPeople,
		CalendarMonth:        int(d.CalMonth),
		CalendarYear:         d.CalYear,
	}
}

// draftResult writes the draft returned by a planner call, or its error.
func (s *Server) draftResult(w http.ResponseWriter, r *http.Request, d domain.TripDraft, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftToResponse(d))
}

// ---- session ----------------------------------------------------------------

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.planner.Session())
}

// PutSessionUser handles PUT /session/user.
func (s *Server) PutSessionUser(w http.ResponseWriter, r *http.Request) {
	var body SessionUserRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	var userID string
	if body.UserID != nil {
		userID = *body.UserID
	}
	s.planner.SwitchUser(r.Context(), userID)
	writeJSON(w, http.StatusOK, s.planner.Session())
}

// ---- draft ------------------------------------------------------------------

// GetDraft handles GET /draft.
func (s *Server) GetDraft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, draftToResponse(s.planner.Draft()))
}

// PatchDraft handles PATCH /draft.
func (s *Server) PatchDraft(w http.ResponseWriter, r *http.Request) {
	var body DraftPatchRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	d, err := s.planner.Update(r.Context(), service.DraftPatch{
		TripName:       body.TripName,
		Destination:    body.Destination,
		Currency:       body.Currency,
		BudgetAmount:   body.BudgetAmount,
		Companions:     body.Companions,
		NumberOfPeople: body.NumberOfPeople,
	})
	s.draftResult(w, r, d, err)
}

// CancelDraft handles DELETE /draft.
func (s *Server) CancelDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, draftToResponse(s.planner.Cancel(r.Context())))
}

// ---- calendar ----------------------------------------------------------------

// GetCalendar handles GET /draft/dates.
func (s *Server) GetCalendar(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.planner.Calendar())
}

// ClickDate handles POST /draft/dates/click.
func (s *Server) ClickDate(w http.ResponseWriter, r *http.Request) {
	var body ClickDateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Date == nil {
		requestError(w, "date is required")
		return
	}
	d, err := s.planner.ClickDate(r.Context(), body.Date.Time)
	s.draftResult(w, r, d, err)
}

// PrevMonth handles POST /draft/dates/prev.
func (s *Server) PrevMonth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.planner.PrevMonth(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.planner.Calendar())
}

// NextMonth handles POST /draft/dates/next.
func (s *Server) NextMonth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.planner.NextMonth(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.planner.Calendar())
}

// ---- submission ---------------------------------------------------------------

// SubmitRequest is the body of POST /draft/submit. It may be empty.
type SubmitRequest struct {
	Answers []domain.ClarifyingAnswer `json:"answers"`
}

// PostQuestions handles POST /draft/questions.
func (s *Server) PostQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := s.planner.Questions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

// PostSubmit handles POST /draft/submit.
func (s *Server) PostSubmit(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}
	trip, err := s.planner.Submit(r.Context(), body.Answers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}
