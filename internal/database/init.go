package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/ski-ratings/internal/config"
)

// Initialize creates a database connection pool and checks that the schema
// has been migrated
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	var version int
	err = db.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		// Table might not exist yet, which is OK before the first migrate
		log.WithError(err).Warn("Schema migrations table not found, run the migrate command")
		return db, nil
	}

	if version < SchemaVersion {
		log.WithFields(logrus.Fields{
			"applied":  version,
			"required": SchemaVersion,
		}).Warn("Database schema is behind, run the migrate command")
	}

	return db, nil
}

// MustHaveSchema returns an error when the schema has not been migrated
func (db *DB) MustHaveSchema(ctx context.Context) error {
	var version int
	if err := db.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version < SchemaVersion {
		return fmt.Errorf("schema version %d is older than %d", version, SchemaVersion)
	}
	return nil
}
