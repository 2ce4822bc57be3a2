package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voyager/internal/handler"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"}.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[handler.HealthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestGetOpenAPI_servesEmbeddedDocument(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/openapi.yaml", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "openapi:"))
}
