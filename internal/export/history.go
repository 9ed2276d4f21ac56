package export

import (
	"context"
	"fmt"

	"github.com/yourusername/ski-ratings/internal/config"
	"github.com/yourusername/ski-ratings/internal/models"
	"github.com/yourusername/ski-ratings/internal/repository"
)

// Store returns the snapshot repository a discipline writes to. CSV output
// has no queryable store.
func (f *Factory) Store(d config.DisciplineConfig) (repository.SnapshotRepository, error) {
	switch d.Output {
	case SinkPostgres:
		if f.postgres != nil {
			return f.postgres, nil
		}
	case SinkSQLite:
		if f.sqlite != nil {
			return f.sqlite, nil
		}
	}
	return nil, fmt.Errorf("discipline %s: %s output has no stored history", d.Name, d.Output)
}

// ReadHistory returns the latest stored run of a discipline with its
// snapshots, limited to one competitor when competitor is not empty.
func ReadHistory(ctx context.Context, store repository.SnapshotRepository, discipline, competitor string) (*models.RatingRun, []models.RatingSnapshot, error) {
	run, err := store.LatestRun(ctx, discipline)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read latest run of %s: %w", discipline, err)
	}
	snapshots, err := store.ListByDiscipline(ctx, discipline)
	if err != nil {
		return nil, nil, err
	}
	if competitor == "" {
		return run, snapshots, nil
	}

	filtered := snapshots[:0]
	for _, s := range snapshots {
		if s.Competitor.ID == competitor {
			filtered = append(filtered, s)
		}
	}
	return run, filtered, nil
}
