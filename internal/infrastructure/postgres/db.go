// Package postgres is the shared-server record store backend. The memory and
// sqlite backends fit a single process; this one exists for deployments where
// the API runs next to an existing Postgres.
package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 1 * time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS auth_users (
	id         BIGSERIAL PRIMARY KEY,
	username   TEXT UNIQUE NOT NULL,
	email      TEXT UNIQUE NOT NULL,
	password   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT UNIQUE NOT NULL,
	age        BIGINT,
	city       TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_auth_users_username ON auth_users(username);
CREATE INDEX IF NOT EXISTS idx_auth_users_email ON auth_users(email);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`

// EnsureSchema creates the two tables and their indexes when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// uniqueViolation is the SQLSTATE Postgres reports for unique constraint hits.
const uniqueViolation = "23505"

// buildWhere renders a predicate as a WHERE clause with $n placeholders,
// restricted to whitelisted columns and in sorted field order.
func buildWhere(p map[string]any, columns map[string]string) (string, []any, error) {
	if len(p) == 0 {
		return "", nil, nil
	}

	fields := make([]string, 0, len(p))
	for f := range p {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i, f := range fields {
		col, ok := columns[f]
		if !ok {
			return "", nil, fmt.Errorf("unknown predicate field %q", f)
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, p[f])
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}
