package export

import (
	"context"
	"fmt"

	"github.com/yourusername/ski-ratings/internal/models"
	"github.com/yourusername/ski-ratings/internal/repository"
)

// RepositorySink writes the rating history through a SnapshotRepository,
// replacing the discipline's previous history
type RepositorySink struct {
	repo      repository.SnapshotRepository
	name      string
	target    string
	precision int32
}

// NewRepositorySink creates a sink backed by repo. name is the sink type
// reported in logs and metrics.
func NewRepositorySink(repo repository.SnapshotRepository, name, target string, precision int32) *RepositorySink {
	return &RepositorySink{repo: repo, name: name, target: target, precision: precision}
}

// Name returns the sink type
func (s *RepositorySink) Name() string { return s.name }

// Target returns the destination description
func (s *RepositorySink) Target() string { return s.target }

// Write rounds the snapshots and replaces the stored history
func (s *RepositorySink) Write(ctx context.Context, run *models.RatingRun, snapshots []models.RatingSnapshot) error {
	rounded := roundSnapshots(snapshots, s.precision)
	for i := range rounded {
		rounded[i].RunID = run.ID
		rounded[i].Discipline = run.Discipline
	}
	if err := s.repo.ReplaceHistory(ctx, run, rounded); err != nil {
		return fmt.Errorf("%s sink: %w", s.name, err)
	}
	return nil
}
