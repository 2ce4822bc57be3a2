package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/voyager/internal/config"
	"github.com/pkordes/voyager/internal/draftcache"
	"github.com/pkordes/voyager/internal/repo"
	"github.com/pkordes/voyager/migrations"
)

// openStore returns the draft KV backend selected by st and a func that
// releases it.
func openStore(ctx context.Context, st config.Store, logger *slog.Logger) (repo.KVStore, func(), error) {
	switch st.DraftStore {
	case config.StoreMemory:
		return repo.NewMemoryKV(), func() {}, nil

	case config.StoreDisk:
		logger.Debug("draft store", "backend", st.DraftStore, "dir", st.DraftDir)
		return repo.NewDiskKV(st.DraftDir), func() {}, nil

	case config.StoreRedis:
		client := repo.NewRedisClient(st.RedisURL)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("cli.openStore: redis ping %s: %w", st.RedisURL, err)
		}
		logger.Info("redis connection established", "addr", st.RedisURL)
		return repo.NewRedisKV(client, draftcache.TTL), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		if err := migrate(ctx, st.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}
		// New does not open connections; the ping below does.
		pool, err := pgxpool.New(ctx, st.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("cli.openStore: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("cli.openStore: ping database: %w", err)
		}
		logger.Info("database connection established")
		return repo.NewPostgresKV(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("cli.openStore: unknown draft store %q", st.DraftStore)
}

// migrate brings the draft_cache schema up to date.
func migrate(ctx context.Context, dsn string, logger *slog.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("cli.migrate: open: %w", err)
	}
	defer db.Close()

	results, err := migrations.Up(ctx, db)
	if err != nil {
		return fmt.Errorf("cli.migrate: %w", err)
	}
	for _, r := range results {
		logger.Info("migration applied", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
	}
	return nil
}
