package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // driver: sqlite
)

const defaultSQLitePath = "file:ratings.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS rating_runs (
  id TEXT PRIMARY KEY,
  discipline TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  finished_at INTEGER NOT NULL,
  seasons INTEGER NOT NULL,
  events INTEGER NOT NULL,
  snapshots INTEGER NOT NULL,
  competitors INTEGER NOT NULL,
  predicted_only INTEGER NOT NULL,
  unmatched INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rating_snapshots (
  run_id TEXT NOT NULL,
  discipline TEXT NOT NULL,
  competitor_id TEXT NOT NULL,
  competitor_name TEXT NOT NULL DEFAULT '',
  nation TEXT NOT NULL DEFAULT '',
  sex TEXT NOT NULL DEFAULT '',
  season INTEGER NOT NULL,
  ordinal INTEGER NOT NULL,
  event_date TEXT NOT NULL,
  venue TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  place INTEGER NOT NULL DEFAULT 0,
  pre_rating REAL,
  post_rating REAL,
  predicted_pre_rating REAL NOT NULL,
  predicted_post_rating REAL NOT NULL,
  has_ground_truth INTEGER NOT NULL,
  PRIMARY KEY (discipline, competitor_id, season, ordinal)
);
`

// OpenSQLite opens the SQLite output database and ensures its schema exists.
// An empty path opens ratings.db in the working directory.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = defaultSQLitePath
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Writers serialise on one connection; this also keeps ":memory:" databases
	// alive across calls.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return db, nil
}
