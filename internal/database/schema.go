package database

import (
	"context"
	"fmt"
)

// SchemaVersion is the version recorded in schema_migrations by Migrate.
const SchemaVersion = 1

// postgresSchema creates the tables read and written by the rating service.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		discipline      TEXT    NOT NULL,
		season          INTEGER NOT NULL,
		ordinal         INTEGER NOT NULL CHECK (ordinal > 0 AND ordinal < 999),
		event_date      DATE    NOT NULL,
		venue           TEXT    NOT NULL,
		category        TEXT    NOT NULL,
		competitor_id   TEXT    NOT NULL,
		competitor_name TEXT    NOT NULL DEFAULT '',
		nation          TEXT    NOT NULL DEFAULT '',
		sex             TEXT    NOT NULL DEFAULT '',
		place           INTEGER NOT NULL CHECK (place > 0),
		PRIMARY KEY (discipline, competitor_id, season, ordinal)
	)`,
	`CREATE TABLE IF NOT EXISTS ground_truth (
		id            BIGSERIAL PRIMARY KEY,
		discipline    TEXT             NOT NULL,
		competitor_id TEXT             NOT NULL,
		season        INTEGER          NOT NULL,
		source_event  INTEGER          NOT NULL DEFAULT 0,
		event_date    DATE,
		venue         TEXT             NOT NULL DEFAULT '',
		category      TEXT             NOT NULL DEFAULT '',
		boundary      BOOLEAN          NOT NULL DEFAULT false,
		pre_rating    DOUBLE PRECISION NOT NULL,
		post_rating   DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ground_truth_discipline ON ground_truth (discipline, season)`,
	`CREATE TABLE IF NOT EXISTS rating_runs (
		id             UUID PRIMARY KEY,
		discipline     TEXT        NOT NULL,
		started_at     TIMESTAMPTZ NOT NULL,
		finished_at    TIMESTAMPTZ NOT NULL,
		seasons        INTEGER     NOT NULL,
		events         INTEGER     NOT NULL,
		snapshots      INTEGER     NOT NULL,
		competitors    INTEGER     NOT NULL,
		predicted_only INTEGER     NOT NULL,
		unmatched      INTEGER     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rating_snapshots (
		run_id                UUID             NOT NULL REFERENCES rating_runs (id) ON DELETE CASCADE,
		discipline            TEXT             NOT NULL,
		competitor_id         TEXT             NOT NULL,
		competitor_name       TEXT             NOT NULL DEFAULT '',
		nation                TEXT             NOT NULL DEFAULT '',
		sex                   TEXT             NOT NULL DEFAULT '',
		season                INTEGER          NOT NULL,
		ordinal               INTEGER          NOT NULL,
		event_date            DATE             NOT NULL,
		venue                 TEXT             NOT NULL DEFAULT '',
		category              TEXT             NOT NULL DEFAULT '',
		place                 INTEGER          NOT NULL DEFAULT 0,
		pre_rating            DOUBLE PRECISION,
		post_rating           DOUBLE PRECISION,
		predicted_pre_rating  DOUBLE PRECISION NOT NULL,
		predicted_post_rating DOUBLE PRECISION NOT NULL,
		has_ground_truth      BOOLEAN          NOT NULL,
		PRIMARY KEY (discipline, competitor_id, season, ordinal)
	)`,
}

// PostgresStatements returns the schema statements in execution order.
func PostgresStatements() []string {
	out := make([]string, len(postgresSchema))
	copy(out, postgresSchema)
	return out
}

// Migrate creates the schema inside one transaction and records SchemaVersion.
// It returns the number of statements executed.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	applied := 0
	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, stmt := range postgresSchema {
			if _, err := db.Exec(txCtx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement %d: %w", applied+1, err)
			}
			applied++
		}
		_, err := db.Exec(txCtx,
			`INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`,
			SchemaVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}
