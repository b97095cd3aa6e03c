package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"vertitrack/internal/config"
	"vertitrack/internal/repository"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
// It is closed when the test completes.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := config.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	return db
}
