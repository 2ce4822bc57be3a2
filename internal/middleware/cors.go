// Package middleware provides reusable HTTP middleware for the Voyager session API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// preflightMaxAge is how long, in seconds, a browser may cache a preflight.
const preflightMaxAge = 600

// NewCORSHandler lets the planner UI origins call the session API.
// Origins are full scheme://host[:port] values without a trailing slash.
// Request ids are exposed so the UI can quote them in bug reports.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         preflightMaxAge,
	})
	return c.Handler
}
