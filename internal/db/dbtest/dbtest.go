// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"context"
	"testing"

	"yatube/internal/db"
)

// Open returns a migrated in-memory SQLite database closed at test cleanup.
func Open(t testing.TB) *db.DB {
	t.Helper()
	d, err := db.Open(db.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := db.Migrate(context.Background(), d); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return d
}
