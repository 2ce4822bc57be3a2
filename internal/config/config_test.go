package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/voyager/internal/config"
)

// clearEnv blanks every variable Load reads so host settings cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "CORS_ORIGINS", "API_BASE_URL", "GOOGLE_MAPS_API_KEY",
		"PLACES_BASE_URL", "DRAFT_STORE", "DRAFT_DIR", "DATABASE_URL", "REDIS_URL",
		"REQUEST_TIMEOUT", "ITINERARY_TIMEOUT", "MAX_BODY_BYTES",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that optional env vars fall back to their defaults
// when only the required API_BASE_URL is provided.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://localhost:5000")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8090", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, config.StoreDisk, cfg.DraftStore)
	require.Equal(t, filepath.Join(".voyager", "drafts"), filepath.Join(filepath.Base(filepath.Dir(cfg.DraftDir)), filepath.Base(cfg.DraftDir)))
	require.Equal(t, "localhost:6379", cfg.RedisURL)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, 60*time.Second, cfg.ItineraryTimeout)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	require.Empty(t, cfg.GoogleMapsAPIKey)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.voyager.example")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("DRAFT_STORE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/voyager")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("ITINERARY_TIMEOUT", "2m")
	t.Setenv("MAX_BODY_BYTES", "4096")
	t.Setenv("GOOGLE_MAPS_API_KEY", "k")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, config.StorePostgres, cfg.DraftStore)
	require.Equal(t, "postgres://user:pass@db:5432/voyager", cfg.DatabaseURL)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.Equal(t, 2*time.Minute, cfg.ItineraryTimeout)
	require.Equal(t, int64(4096), cfg.MaxBodyBytes)
	require.Equal(t, "k", cfg.GoogleMapsAPIKey)
}

// TestLoad_missingRequired verifies that every missing variable is named in
// one error.
func TestLoad_missingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRAFT_STORE", "postgres")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "API_BASE_URL")
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_invalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://localhost:5000")
	t.Setenv("DRAFT_STORE", "s3")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("MAX_BODY_BYTES", "-1")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "DRAFT_STORE")
	require.ErrorContains(t, err, "REQUEST_TIMEOUT")
	require.ErrorContains(t, err, "MAX_BODY_BYTES")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL=http://from-file\nPORT=7000\n"), 0o600))
	t.Setenv("PORT", "7777")
	// An empty but present variable counts as set for godotenv.
	require.NoError(t, os.Unsetenv("API_BASE_URL"))

	require.NoError(t, config.LoadDotEnv(path))
	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "http://from-file", cfg.APIBaseURL)
	require.Equal(t, "7777", cfg.Port, "existing variables win over the file")
}

func TestLoadDotEnv_missingFileIgnored(t *testing.T) {
	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadStore_doesNotNeedAPIBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRAFT_STORE", "memory")

	st, err := config.LoadStore()

	require.NoError(t, err)
	require.Equal(t, config.StoreMemory, st.DraftStore)
}
