package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/ski-ratings/internal/config"
)

// TestDSNEnv names the environment variable holding the integration test
// database DSN
const TestDSNEnv = "SKI_RATINGS_TEST_DATABASE_URL"

// SetupTestDB connects to the integration test database and migrates it.
// The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("Integration test - set %s to run", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("failed to parse test dsn: %v", err)
	}

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
