package sqlite

import (
	"testing"
)

// newTestDB returns a fresh in-memory database with the full schema.
// Using ":memory:" means the database exists only for the duration of the
// test — no files, no cleanup, perfect isolation between tests.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(\":memory:\"): %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test DB: %v", err)
		}
	})
	return db
}
