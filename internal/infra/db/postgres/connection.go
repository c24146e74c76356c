package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool opens a connection pool against the given DSN.
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the lectures table if needed, keeping the service
// self-contained for docker-compose style bootstrap.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS lectures (
	id TEXT PRIMARY KEY,
	author_id TEXT NOT NULL,
	title TEXT NOT NULL,
	tags TEXT[] NOT NULL DEFAULT '{}',
	status TEXT NOT NULL,
	content JSONB,
	last_error TEXT NOT NULL DEFAULT '',
	object_key TEXT NOT NULL,
	registered_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_lectures_author ON lectures(author_id);
CREATE INDEX IF NOT EXISTS idx_lectures_status ON lectures(status);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
