// Package sqlite is the single-file record store backend, using the pure-Go
// modernc.org/sqlite driver. Layout matches the original demo database: two
// tables with autoincrement integer ids and unique indexes on the unique
// fields.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS auth_users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT UNIQUE NOT NULL,
	email      TEXT UNIQUE NOT NULL,
	password   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	email      TEXT UNIQUE NOT NULL,
	age        INTEGER,
	city       TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_auth_users_username ON auth_users(username);
CREATE INDEX IF NOT EXISTS idx_auth_users_email ON auth_users(email);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`

type DB struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed, applies the
// schema, and returns a ready store.
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single writer keeps the file consistent; the driver serializes the
	// rest. Multiple conns would only add SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error                   { return d.db.Close() }
func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }

func (d *DB) Users() *UserRepository         { return &UserRepository{db: d.db} }
func (d *DB) AuthUsers() *AuthUserRepository { return &AuthUserRepository{db: d.db} }

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given table. The driver exposes this only through the error text.
func isUniqueViolation(err error, table string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+table+".")
}

// buildWhere turns a predicate into a WHERE clause using only whitelisted
// columns, in sorted field order so generated SQL is deterministic.
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
	for _, f := range fields {
		col, ok := columns[f]
		if !ok {
			return "", nil, fmt.Errorf("unknown predicate field %q", f)
		}
		parts = append(parts, col+" = ?")
		args = append(args, p[f])
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}
