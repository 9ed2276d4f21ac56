package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/ski-ratings/internal/database"
	"github.com/yourusername/ski-ratings/internal/datasource"
	"github.com/yourusername/ski-ratings/internal/models"
	"github.com/yourusername/ski-ratings/internal/repository"
)

var (
	importDiscipline  string
	importResults     string
	importGroundTruth string
)

func init() {
	importCmd.Flags().StringVarP(&importDiscipline, "discipline", "d", "", "Discipline to import into")
	importCmd.Flags().StringVar(&importResults, "results", "", "Results CSV file")
	importCmd.Flags().StringVar(&importGroundTruth, "ground-truth", "", "Ground-truth CSV file (optional)")
	importCmd.MarkFlagRequired("discipline")
	importCmd.MarkFlagRequired("results")
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load CSV results and ground truth into PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		src := datasource.NewCSVSource(importResults, importGroundTruth)
		results, err := src.LoadResults(ctx, importDiscipline)
		if err != nil {
			return err
		}
		if err := models.ValidateTable(results); err != nil {
			return err
		}
		records, err := src.LoadGroundTruth(ctx, importDiscipline)
		if err != nil {
			return err
		}
		if err := models.ValidateGroundTruth(records); err != nil {
			return err
		}

		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}

		err = db.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := repos.Results.InsertBatch(txCtx, importDiscipline, results); err != nil {
				return err
			}
			return repos.GroundTruth.InsertBatch(txCtx, importDiscipline, records)
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		appLog.WithFields(logrus.Fields{
			"discipline":        importDiscipline,
			"results":           len(results),
			"ground_truth_rows": len(records),
		}).Info("Import completed")
		return nil
	},
}
