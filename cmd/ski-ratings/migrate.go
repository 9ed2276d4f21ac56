package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/ski-ratings/internal/database"
	"github.com/yourusername/ski-ratings/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the PostgreSQL and SQLite schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		audit := logger.NewAuditLogger(appLog)

		if cfg.Database.Host == "" && !cfg.UsesSQLite() {
			return fmt.Errorf("nothing to migrate: no database or sqlite output configured")
		}

		if cfg.Database.Host != "" {
			db, err := database.NewDB(ctx, &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.Migrate(ctx)
			if err != nil {
				return err
			}
			audit.LogMigration("postgres", applied)
		}

		if cfg.UsesSQLite() {
			sqlite, err := database.OpenSQLite(ctx, cfg.SQLite.Path)
			if err != nil {
				return err
			}
			defer sqlite.Close()
			audit.LogMigration("sqlite:"+cfg.SQLite.Path, 1)
		}

		return nil
	},
}
