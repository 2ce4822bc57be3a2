package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/voyager/internal/autocomplete"
	"github.com/pkordes/voyager/internal/config"
	"github.com/pkordes/voyager/internal/draftcache"
	"github.com/pkordes/voyager/internal/handler"
	"github.com/pkordes/voyager/internal/notify"
	"github.com/pkordes/voyager/internal/places"
	"github.com/pkordes/voyager/internal/remote"
	"github.com/pkordes/voyager/internal/service"
)

// shutdownGrace bounds how long in-flight requests may run after a signal.
const shutdownGrace = 15 * time.Second

func addServe(topLevel *cobra.Command) {
	envFile := ".env"
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planning session API.",
		Example: `
planner serve
DRAFT_STORE=redis REDIS_URL=localhost:6379 planner serve
DRAFT_STORE=postgres DATABASE_URL=postgres://localhost/voyager planner serve
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", envFile, "Environment file loaded before reading configuration.")

	topLevel.AddCommand(cmd)
}

// serve wires the planner and runs the session API until ctx is done.
func serve(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg.LogLevel, os.Stdout)

	kv, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// ---- collaborators ----
	backend := remote.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout})
	generator := remote.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.ItineraryTimeout})

	var searcher autocomplete.Searcher
	if cfg.GoogleMapsAPIKey != "" {
		searcher = places.NewClient(cfg.PlacesBaseURL, cfg.GoogleMapsAPIKey, &http.Client{Timeout: cfg.RequestTimeout})
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, place lookups disabled")
	}

	// ---- planner ----
	notices := &notify.Queue{}
	cache := draftcache.New(kv, logger)
	trips := service.NewTripService(backend, notices, logger)
	submitter := service.NewSubmitter(generator, trips, cache, notices, logger)
	submitter.Timeout = cfg.ItineraryTimeout

	planner := service.NewPlanner(service.PlannerDeps{
		Cache:     cache,
		Places:    autocomplete.New(searcher, autocomplete.WithLogger(logger)),
		Saved:     service.NewSavedService(backend, notices, logger, cfg.RequestTimeout),
		Feed:      service.NewFeedService(backend, logger),
		Trips:     trips,
		Submitter: submitter,
		Notices:   notices,
		Logger:    logger,
	})
	defer planner.Close()
	planner.SwitchUser(ctx, "")

	router := handler.NewRouter(handler.NewServer(planner, notices, logger), handler.RouterConfig{
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	// Submission waits on itinerary generation, so writes get that long
	// plus the trip round trips.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.ItineraryTimeout + 2*cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "draft_store", cfg.DraftStore)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("cli.serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("cli.serve: shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
