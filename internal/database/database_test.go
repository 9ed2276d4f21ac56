package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStatements(t *testing.T) {
	stmts := PostgresStatements()
	require.NotEmpty(t, stmts)
	assert.Contains(t, stmts[0], "schema_migrations")

	joined := strings.Join(stmts, "\n")
	for _, table := range []string{"results", "ground_truth", "rating_runs", "rating_snapshots"} {
		assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS "+table)
	}

	// rating_runs must exist before the snapshots referencing it.
	assert.Less(t, strings.Index(joined, "TABLE IF NOT EXISTS rating_runs"), strings.Index(joined, "TABLE IF NOT EXISTS rating_snapshots"))

	stmts[0] = "mutated"
	assert.NotEqual(t, "mutated", PostgresStatements()[0])
}

func TestOpenSQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('rating_runs', 'rating_snapshots')",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestOpenSQLiteFileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ratings.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO rating_runs VALUES ('r1', 'alpine', 1, 2, 1, 1, 1, 1, 0, 0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	var discipline string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT discipline FROM rating_runs WHERE id = 'r1'").Scan(&discipline))
	assert.Equal(t, "alpine", discipline)
}

func TestMigrateIntegration(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	ctx := context.Background()
	applied, err := db.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(postgresSchema), applied)
	assert.NoError(t, db.MustHaveSchema(ctx))
	assert.NoError(t, db.HealthCheck(ctx))
}
