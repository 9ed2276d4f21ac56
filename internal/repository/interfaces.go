package repository

import (
	"context"

	"github.com/yourusername/ski-ratings/internal/models"
)

// ResultRepository defines the interface for Event Table access
type ResultRepository interface {
	ListByDiscipline(ctx context.Context, discipline string) ([]models.Result, error)
	InsertBatch(ctx context.Context, discipline string, results []models.Result) error
}

// GroundTruthRepository defines the interface for secondary rating table access
type GroundTruthRepository interface {
	ListByDiscipline(ctx context.Context, discipline string) ([]models.GroundTruthRecord, error)
	InsertBatch(ctx context.Context, discipline string, records []models.GroundTruthRecord) error
}

// SnapshotRepository defines the interface for rating history persistence
type SnapshotRepository interface {
	// ReplaceHistory atomically replaces a discipline's stored history with
	// the snapshots of run.
	ReplaceHistory(ctx context.Context, run *models.RatingRun, snapshots []models.RatingSnapshot) error
	ListByDiscipline(ctx context.Context, discipline string) ([]models.RatingSnapshot, error)
	LatestRun(ctx context.Context, discipline string) (*models.RatingRun, error)
}
