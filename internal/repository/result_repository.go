package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/ski-ratings/internal/database"
	"github.com/yourusername/ski-ratings/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// ListByDiscipline retrieves a discipline's Event Table in chronological order
func (r *PostgresResultRepository) ListByDiscipline(ctx context.Context, discipline string) ([]models.Result, error) {
	query := `
		SELECT season, ordinal, event_date, venue, category,
		       competitor_id, competitor_name, nation, sex, place
		FROM results
		WHERE discipline = $1
		ORDER BY season, ordinal, place
	`

	rows, err := r.db.Query(ctx, query, discipline)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var (
			res   models.Result
			label string
		)
		err := rows.Scan(
			&res.Season, &res.Ordinal, &res.Date, &res.Venue, &label,
			&res.Competitor.ID, &res.Competitor.Name, &res.Competitor.Nation, &res.Competitor.Sex, &res.Place,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if res.Category, err = models.ParseEventCategory(label); err != nil {
			return nil, fmt.Errorf("result %s season %d event %d: %w", res.Competitor.ID, res.Season, res.Ordinal, err)
		}
		results = append(results, res)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

// InsertBatch inserts results using COPY
func (r *PostgresResultRepository) InsertBatch(ctx context.Context, discipline string, results []models.Result) error {
	if len(results) == 0 {
		return nil
	}

	copyFromSource := make([][]interface{}, len(results))
	for i := range results {
		copyFromSource[i] = resultValues(discipline, &results[i])
	}

	copyCount, err := r.db.CopyFrom(ctx, "results", resultColumns, copyFromSource)
	if err != nil {
		return fmt.Errorf("failed to batch insert results: %w", err)
	}

	if copyCount != int64(len(results)) {
		return fmt.Errorf("inserted %d rows, expected %d", copyCount, len(results))
	}

	return nil
}
