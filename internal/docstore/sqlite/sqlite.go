// Package sqlite implements the docstore backend on SQLite. It stands in for
// the managed document database: three record collections plus the session
// table, RFC3339 text timestamps, and a declared-index registry that makes
// the backend refuse ordered queries its planner could not serve from an
// index, the way a hosted document store does.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/appointment-hub/internal/docstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	is_admin      INTEGER NOT NULL DEFAULT 0,
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS services (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	duration     INTEGER NOT NULL,
	availability INTEGER NOT NULL DEFAULT 1,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS appointments (
	id           TEXT PRIMARY KEY,
	service_id   TEXT NOT NULL,
	service_name TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	user_name    TEXT NOT NULL,
	user_email   TEXT NOT NULL,
	date         TEXT NOT NULL,
	status       TEXT NOT NULL,
	notes        TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	token      TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL,
	expires_at TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	revoked_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_services_title ON services(title);
CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date);
CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
`

// Backend implements docstore.Backend on a SQLite database.
type Backend struct {
	db      *sql.DB
	indexes indexRegistry
}

// Option customizes backend construction.
type Option func(*Backend)

// WithCompositeIndex declares an additional composite index, enabling the
// corresponding ordered query to be served without the client-side fallback.
func WithCompositeIndex(keys ...string) Option {
	return func(b *Backend) {
		for _, key := range keys {
			b.indexes[key] = struct{}{}
		}
	}
}

// Open connects to the SQLite database identified by dsn.
func Open(dsn string, opts ...Option) (*Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The modernc driver is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)

	b := &Backend{db: db, indexes: defaultIndexes()}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// DB exposes the underlying handle for test helpers.
func (b *Backend) DB() *sql.DB {
	return b.db
}

// Close releases the database handle.
func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Migrate applies the collection schema. All statements are idempotent.
func (b *Backend) Migrate(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping verifies connectivity.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// mapError classifies driver errors into the docstore taxonomy. Anything not
// recognized is wrapped as a transient backend failure and propagated
// unchanged beyond that.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", docstore.ErrDuplicate, err)
	}
	return fmt.Errorf("%w: %v", docstore.ErrUnavailable, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", value, err)
	}
	return t.Local(), nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil || t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
