package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/ski-ratings/internal/database"
	"github.com/yourusername/ski-ratings/internal/models"
)

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// ReplaceHistory deletes the discipline's previous snapshots, records the run
// and bulk-loads the new snapshots in one transaction
func (r *PostgresSnapshotRepository) ReplaceHistory(ctx context.Context, run *models.RatingRun, snapshots []models.RatingSnapshot) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := r.db.Exec(txCtx, `DELETE FROM rating_snapshots WHERE discipline = $1`, run.Discipline); err != nil {
			return fmt.Errorf("failed to delete previous snapshots: %w", err)
		}

		_, err := r.db.Exec(txCtx, `
			INSERT INTO rating_runs (id, discipline, started_at, finished_at, seasons, events,
				snapshots, competitors, predicted_only, unmatched)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			run.ID, run.Discipline, run.StartedAt, run.FinishedAt, run.Seasons, run.Events,
			run.Snapshots, run.Competitors, run.PredictedOnly, run.Unmatched,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rating run: %w", err)
		}

		if len(snapshots) == 0 {
			return nil
		}

		copyFromSource := make([][]interface{}, len(snapshots))
		for i := range snapshots {
			copyFromSource[i] = snapshotValues(run.ID, run.Discipline, &snapshots[i])
		}

		copyCount, err := r.db.CopyFrom(txCtx, "rating_snapshots", snapshotColumns, copyFromSource)
		if err != nil {
			return fmt.Errorf("failed to batch insert snapshots: %w", err)
		}
		if copyCount != int64(len(snapshots)) {
			return fmt.Errorf("inserted %d rows, expected %d", copyCount, len(snapshots))
		}
		return nil
	})
}

// ListByDiscipline retrieves the stored history in chronological order
func (r *PostgresSnapshotRepository) ListByDiscipline(ctx context.Context, discipline string) ([]models.RatingSnapshot, error) {
	query := `
		SELECT run_id, competitor_id, competitor_name, nation, sex, season, ordinal,
		       event_date, venue, category, place, pre_rating, post_rating,
		       predicted_pre_rating, predicted_post_rating, has_ground_truth
		FROM rating_snapshots
		WHERE discipline = $1
		ORDER BY season, ordinal, place, competitor_id
	`

	rows, err := r.db.Query(ctx, query, discipline)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.RatingSnapshot
	for rows.Next() {
		s := models.RatingSnapshot{Discipline: discipline}
		var label string
		err := rows.Scan(
			&s.RunID, &s.Competitor.ID, &s.Competitor.Name, &s.Competitor.Nation, &s.Competitor.Sex,
			&s.Season, &s.Ordinal, &s.Date, &s.Venue, &label, &s.Place,
			&s.PreRating, &s.PostRating, &s.PredictedPreRating, &s.PredictedPostRating, &s.HasGroundTruth,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if s.Category, err = parseCategory(label); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// LatestRun retrieves the most recent run of a discipline
func (r *PostgresSnapshotRepository) LatestRun(ctx context.Context, discipline string) (*models.RatingRun, error) {
	query := `
		SELECT id, discipline, started_at, finished_at, seasons, events, snapshots,
		       competitors, predicted_only, unmatched
		FROM rating_runs
		WHERE discipline = $1
		ORDER BY finished_at DESC
		LIMIT 1
	`

	run := &models.RatingRun{}
	err := r.db.QueryRow(ctx, query, discipline).Scan(
		&run.ID, &run.Discipline, &run.StartedAt, &run.FinishedAt, &run.Seasons, &run.Events,
		&run.Snapshots, &run.Competitors, &run.PredictedOnly, &run.Unmatched,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query rating run: %w", err)
	}

	return run, nil
}
