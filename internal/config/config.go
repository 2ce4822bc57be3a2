// Package config loads and validates the planner's configuration from
// environment variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Draft store backends selectable with DRAFT_STORE.
const (
	StoreMemory   = "memory"
	StoreDisk     = "disk"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds all configuration values for the planner process.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the session API listens on. Defaults to "8090".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins lists the UI origins allowed to call the session API.
	// Defaults to ["http://localhost:5173"].
	CORSOrigins []string

	// APIBaseURL is the Voyager backend base URL. Required.
	APIBaseURL string

	// GoogleMapsAPIKey authorises Places autocomplete. Empty disables lookups.
	GoogleMapsAPIKey string
	PlacesBaseURL    string

	Store

	RequestTimeout   time.Duration
	ItineraryTimeout time.Duration
	MaxBodyBytes     int64
}

// Store selects and locates the draft cache backend. The draft subcommands
// need only this part of the configuration.
type Store struct {
	// DraftStore is memory, disk, postgres or redis. Defaults to disk.
	DraftStore string
	DraftDir   string

	// DatabaseURL is the Postgres connection string, required when
	// DraftStore is postgres.
	DatabaseURL string
	RedisURL    string
}

// LoadDotEnv seeds the environment from the given files (".env" when none
// are named). Variables already set win. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config.LoadDotEnv: %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// Every missing required variable and every malformed value is reported in
// one error.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8090"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		APIBaseURL:       os.Getenv("API_BASE_URL"),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		PlacesBaseURL:    getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
	}

	var missing, invalid []string

	if cfg.APIBaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}
	cfg.Store, missing, invalid = loadStore(missing, invalid)

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.ItineraryTimeout, err = getDuration("ITINERARY_TIMEOUT", 60*time.Second); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.MaxBodyBytes, err = getInt64("MAX_BODY_BYTES", 1<<20); err != nil {
		invalid = append(invalid, err.Error())
	}

	if err := report(missing, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadStore reads only the draft store settings.
func LoadStore() (Store, error) {
	st, missing, invalid := loadStore(nil, nil)
	if err := report(missing, invalid); err != nil {
		return Store{}, err
	}
	return st, nil
}

func loadStore(missing, invalid []string) (Store, []string, []string) {
	st := Store{
		DraftStore:  strings.ToLower(getEnv("DRAFT_STORE", StoreDisk)),
		DraftDir:    getEnv("DRAFT_DIR", defaultDraftDir()),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
	}
	switch st.DraftStore {
	case StoreMemory, StoreDisk, StoreRedis:
	case StorePostgres:
		if st.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		invalid = append(invalid, fmt.Sprintf("DRAFT_STORE=%q (want memory, disk, postgres or redis)", st.DraftStore))
	}
	return st, missing, invalid
}

func report(missing, invalid []string) error {
	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid values: "+strings.Join(invalid, "; "))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func defaultDraftDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "voyager", "drafts")
	}
	return filepath.Join(home, ".voyager", "drafts")
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s=%q (want a positive duration such as 10s)", key, v)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s=%q (want a positive integer)", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
