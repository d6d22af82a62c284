package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/appointment-hub/internal/docstore"
	"github.com/example/appointment-hub/internal/docstore/sqlite"
)

// SQLiteHarness provides a record store backed by a temporary SQLite file
// for integration-style tests.
type SQLiteHarness struct {
	Backend *sqlite.Backend
	Store   *docstore.Store

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a harness over a temporary database file that
// is migrated automatically. Options are forwarded to sqlite.Open, which lets
// tests declare composite indexes. Callers may invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB, opts ...sqlite.Option) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "appointments.db")

	backend, err := sqlite.Open(path, opts...)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := backend.Migrate(context.Background()); err != nil {
		_ = backend.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	generator := NewIDGenerator("doc")
	clock := NewClock(ReferenceTime())
	store := docstore.NewStore(backend, generator.NextFunc(), clock.NowFunc(), nil)

	harness := &SQLiteHarness{
		Backend: backend,
		Store:   store,
		cleanup: func() {
			store.Close()
			_ = backend.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
