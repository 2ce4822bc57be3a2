package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested resource does not exist, either
// in a key-value backend or on the remote Voyager API.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is the sentinel wrapped by ValidationError.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when an action requires a signed-in user
// and none is present. No local state is mutated when it is returned.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrTransport is returned by remote stores on network failure or a
// non-success response. Optimistic operations convert it into a rollback.
var ErrTransport = errors.New("transport error")

// ErrLookup is returned by the place-search service on transport or
// rate-limit problems.
var ErrLookup = errors.New("lookup error")

// ErrGeneration is returned by the itinerary generator. Submission treats it
// as non-fatal.
var ErrGeneration = errors.New("itinerary generation error")

// ErrCacheCorruption marks an unparsable draft cache payload. It is logged
// and treated as a cache miss, never surfaced to the user.
var ErrCacheCorruption = errors.New("cache corruption")

// Field identifies a draft field that failed validation.
type Field string

// Fields reported by validation. The values match the identifiers the UI
// uses to mark inputs.
const (
	FieldTripName    Field = "tripName"
	FieldDestination Field = "destination"
	FieldDates       Field = "dates"
	FieldCompanions  Field = "companions"
)

// ValidationError reports every invalid field of a draft in one pass.
// errors.Is(err, ErrValidation) is true for any *ValidationError.
type ValidationError struct {
	Fields []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return "validation error: invalid fields: " + strings.Join(names, ", ")
}

// Is reports ErrValidation as the sentinel for this error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Has reports whether f is among the invalid fields.
func (e *ValidationError) Has(f Field) bool {
	for _, got := range e.Fields {
		if got == f {
			return true
		}
	}
	return false
}
