// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"pickwise/internal/db"
	"pickwise/internal/models"
	"pickwise/internal/prefs"
)

// TestDB creates a test database connection and returns a cleanup function.
// Skips the test unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database)
	cleanup := func() {
		cleanupTestData(ctx, database)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, database *db.DB) {
	database.Pool.Exec(ctx, "DELETE FROM decisions")
	database.Pool.Exec(ctx, "DELETE FROM option_stats")
}

// Backends returns every preference backend available to the test: the
// in-memory and in-memory Badger stores always, Postgres when configured.
func Backends(t *testing.T) map[string]prefs.Backend {
	t.Helper()

	badgerStore, err := prefs.OpenBadger("")
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() { badgerStore.Close() })

	backends := map[string]prefs.Backend{
		"memory": prefs.NewMemoryStore(),
		"badger": badgerStore,
	}

	if os.Getenv("TEST_DATABASE_URL") != "" {
		database, cleanup := TestDB(t)
		t.Cleanup(cleanup)
		backends["postgres"] = database
	}

	return backends
}

// SeedStat writes a stat with the given counts.
func SeedStat(t *testing.T, store prefs.Store, title string, success, failure int) {
	t.Helper()

	stat := &models.OptionStat{Title: title, SuccessCount: success, FailureCount: failure}
	if err := store.UpsertStat(context.Background(), stat); err != nil {
		t.Fatalf("failed to seed stat %q: %v", title, err)
	}
}
