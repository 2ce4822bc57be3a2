package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/voyager/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgKV is the Postgres implementation of KVStore, backed by the draft_cache
// table created by migrations/00001_create_draft_cache.sql.
type pgKV struct {
	db db
}

// NewPostgresKV constructs a KVStore backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresKV(db db) KVStore {
	return &pgKV{db: db}
}

// Get reads a single value by key.
func (r *pgKV) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM draft_cache WHERE key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("repo.pgKV.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.pgKV.Get: %w", err)
	}
	return value, nil
}

// Set upserts the value and bumps updated_at.
func (r *pgKV) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO draft_cache (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value}); err != nil {
		return fmt.Errorf("repo.pgKV.Set: %w", err)
	}
	return nil
}

// Delete removes the row for key, if any.
func (r *pgKV) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM draft_cache WHERE key = @key`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("repo.pgKV.Delete: %w", err)
	}
	return nil
}
