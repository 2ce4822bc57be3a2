package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/service"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Fields  []domain.Field `json:"fields,omitempty"`
}

// ErrorResponse wraps ErrorDetail under "error".
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestError rejects a request before it reaches the planner, e.g. a
// missing or malformed body.
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}})
}

// writeError maps a planner error onto a status code and error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code:    "validation_error",
			Message: "please fill in the highlighted fields",
			Fields:  verr.Fields,
		}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{Code: "unauthenticated", Message: "sign in to continue"}})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: "not found"}})
	case errors.Is(err, service.ErrBusy):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{Code: "busy", Message: err.Error()}})
	case errors.Is(err, domain.ErrTransport):
		s.log.WarnContext(r.Context(), "backend unavailable", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{Code: "backend_unavailable", Message: "the Voyager service could not be reached"}})
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal", Message: "internal error"}})
	}
}

// unwrapMessage returns the text after the validation sentinel.
// e.g. "validation error: unknown currency \"EUR\"" -> "unknown currency \"EUR\""
func unwrapMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// decodeJSON reads a JSON body into dst. Over-limit bodies are answered
// with 413 and other decode failures with 422; ok is false in both cases.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) (ok bool) {
	if r.Body == nil || r.Body == http.NoBody {
		requestError(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
				Code:    "request_too_large",
				Message: fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit),
			}})
			return false
		}
		requestError(w, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
