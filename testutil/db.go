// Package testutil provides shared helpers for integration tests.
// Every helper skips the calling test when its backing service is not
// configured, so `go test ./...` passes without Postgres or Redis.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/voyager/migrations"
)

// Environment variables that enable the integration tests.
const (
	DatabaseEnv = "TEST_DATABASE_URL"
	RedisEnv    = "TEST_REDIS_URL"
)

// NewPool returns a pgx pool on TEST_DATABASE_URL, closed at test end.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, lookup(t, DatabaseEnv))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a database/sql handle on TEST_DATABASE_URL for code that
// needs one, such as goose.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openSQL(lookup(t, DatabaseEnv))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// MigrateFromEnv applies all migrations to TEST_DATABASE_URL. It is meant
// for TestMain, which has no *testing.T. It returns false, doing nothing,
// when the variable is unset.
func MigrateFromEnv(ctx context.Context) (bool, error) {
	dsn := os.Getenv(DatabaseEnv)
	if dsn == "" {
		return false, nil
	}
	db, err := openSQL(dsn)
	if err != nil {
		return false, fmt.Errorf("testutil.MigrateFromEnv: %w", err)
	}
	defer db.Close()

	if _, err := migrations.Up(ctx, db); err != nil {
		return false, fmt.Errorf("testutil.MigrateFromEnv: %w", err)
	}
	return true, nil
}

// NewRedis returns a client on TEST_REDIS_URL (host:port). Keys the test
// creates should be prefixed with t.Name(); they are not removed.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: lookup(t, RedisEnv)})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Fatalf("testutil.NewRedis: ping: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func openSQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func lookup(t *testing.T, env string) string {
	t.Helper()
	v := os.Getenv(env)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", env)
	}
	return v
}
