package datasource

import (
	"context"

	"github.com/yourusername/ski-ratings/internal/models"
	"github.com/yourusername/ski-ratings/internal/repository"
)

// PostgresSourceName is the name reported by PostgreSQL sources
const PostgresSourceName = "postgres"

// PostgresSource loads input tables through the repositories
type PostgresSource struct {
	results     repository.ResultRepository
	groundTruth repository.GroundTruthRepository
}

// NewPostgresSource creates a PostgreSQL data source
func NewPostgresSource(results repository.ResultRepository, groundTruth repository.GroundTruthRepository) *PostgresSource {
	return &PostgresSource{results: results, groundTruth: groundTruth}
}

// Name returns the name of the data source
func (s *PostgresSource) Name() string {
	return PostgresSourceName
}

// LoadResults retrieves the Event Table
func (s *PostgresSource) LoadResults(ctx context.Context, discipline string) ([]models.Result, error) {
	results, err := s.results.ListByDiscipline(ctx, discipline)
	if err != nil {
		return nil, NewDataSourceError(PostgresSourceName, ErrCodeIO, "load results for "+discipline, err)
	}
	if len(results) == 0 {
		return nil, NewDataSourceError(PostgresSourceName, ErrCodeNotFound, "no results for "+discipline, ErrNotFound)
	}
	return results, nil
}

// LoadGroundTruth retrieves the ground-truth table, possibly empty
func (s *PostgresSource) LoadGroundTruth(ctx context.Context, discipline string) ([]models.GroundTruthRecord, error) {
	records, err := s.groundTruth.ListByDiscipline(ctx, discipline)
	if err != nil {
		return nil, NewDataSourceError(PostgresSourceName, ErrCodeIO, "load ground truth for "+discipline, err)
	}
	if records == nil {
		records = []models.GroundTruthRecord{}
	}
	return records, nil
}
