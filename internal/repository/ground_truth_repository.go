package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/ski-ratings/internal/database"
	"github.com/yourusername/ski-ratings/internal/models"
)

// PostgresGroundTruthRepository implements GroundTruthRepository for PostgreSQL
type PostgresGroundTruthRepository struct {
	db *database.DB
}

// NewPostgresGroundTruthRepository creates a new ground truth repository
func NewPostgresGroundTruthRepository(db *database.DB) GroundTruthRepository {
	return &PostgresGroundTruthRepository{db: db}
}

// ListByDiscipline retrieves a discipline's ground truth in load order
func (r *PostgresGroundTruthRepository) ListByDiscipline(ctx context.Context, discipline string) ([]models.GroundTruthRecord, error) {
	query := `
		SELECT competitor_id, season, source_event, event_date, venue, category,
		       boundary, pre_rating, post_rating
		FROM ground_truth
		WHERE discipline = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, discipline)
	if err != nil {
		return nil, fmt.Errorf("failed to query ground truth: %w", err)
	}
	defer rows.Close()

	var records []models.GroundTruthRecord
	for rows.Next() {
		var (
			rec   models.GroundTruthRecord
			date  *time.Time
			label string
		)
		err := rows.Scan(
			&rec.CompetitorID, &rec.Season, &rec.SourceEvent, &date, &rec.Venue, &label,
			&rec.Boundary, &rec.PreRating, &rec.PostRating,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ground truth: %w", err)
		}
		if date != nil {
			rec.Date = *date
		}
		if rec.Category, err = parseCategory(label); err != nil {
			return nil, fmt.Errorf("ground truth %s season %d: %w", rec.CompetitorID, rec.Season, err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ground truth: %w", err)
	}

	return records, nil
}

// InsertBatch inserts ground truth rows using COPY
func (r *PostgresGroundTruthRepository) InsertBatch(ctx context.Context, discipline string, records []models.GroundTruthRecord) error {
	if len(records) == 0 {
		return nil
	}

	copyFromSource := make([][]interface{}, len(records))
	for i := range records {
		copyFromSource[i] = groundTruthValues(discipline, &records[i])
	}

	copyCount, err := r.db.CopyFrom(ctx, "ground_truth", groundTruthColumns, copyFromSource)
	if err != nil {
		return fmt.Errorf("failed to batch insert ground truth: %w", err)
	}

	if copyCount != int64(len(records)) {
		return fmt.Errorf("inserted %d rows, expected %d", copyCount, len(records))
	}

	return nil
}
