package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/ski-ratings/internal/models"
)

// SQLiteSnapshotRepository implements SnapshotRepository on a database/sql
// handle opened with the modernc sqlite driver
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

// NewSQLiteSnapshotRepository creates a new SQLite snapshot repository
func NewSQLiteSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

const sqliteInsertSnapshot = `
INSERT INTO rating_snapshots (
  run_id, discipline, competitor_id, competitor_name, nation, sex,
  season, ordinal, event_date, venue, category, place,
  pre_rating, post_rating, predicted_pre_rating, predicted_post_rating,
  has_ground_truth
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ReplaceHistory replaces the discipline's snapshots in one transaction
func (r *SQLiteSnapshotRepository) ReplaceHistory(ctx context.Context, run *models.RatingRun, snapshots []models.RatingSnapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction failed: %w, rollback failed: %w", err, rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM rating_snapshots WHERE discipline = ?`, run.Discipline); err != nil {
		return fmt.Errorf("failed to delete previous snapshots: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rating_runs (id, discipline, started_at, finished_at, seasons, events,
			snapshots, competitors, predicted_only, unmatched)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Discipline, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		run.Seasons, run.Events, run.Snapshots, run.Competitors, run.PredictedOnly, run.Unmatched,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rating run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, sqliteInsertSnapshot)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i := range snapshots {
		values := snapshotValues(run.ID, run.Discipline, &snapshots[i])
		values[0] = run.ID.String()
		values[8] = snapshots[i].Date.Format(time.DateOnly)
		if _, err = stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to insert snapshot %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListByDiscipline retrieves the stored history in chronological order
func (r *SQLiteSnapshotRepository) ListByDiscipline(ctx context.Context, discipline string) ([]models.RatingSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, competitor_id, competitor_name, nation, sex, season, ordinal,
		       event_date, venue, category, place, pre_rating, post_rating,
		       predicted_pre_rating, predicted_post_rating, has_ground_truth
		FROM rating_snapshots
		WHERE discipline = ?
		ORDER BY season, ordinal, place, competitor_id`, discipline)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.RatingSnapshot
	for rows.Next() {
		s := models.RatingSnapshot{Discipline: discipline}
		var (
			runID, date, label string
			pre, post          sql.NullFloat64
		)
		err := rows.Scan(
			&runID, &s.Competitor.ID, &s.Competitor.Name, &s.Competitor.Nation, &s.Competitor.Sex,
			&s.Season, &s.Ordinal, &date, &s.Venue, &label, &s.Place,
			&pre, &post, &s.PredictedPreRating, &s.PredictedPostRating, &s.HasGroundTruth,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if s.RunID, err = uuid.Parse(runID); err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
		}
		if s.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("invalid snapshot date %q: %w", date, err)
		}
		if s.Category, err = parseCategory(label); err != nil {
			return nil, err
		}
		if pre.Valid {
			s.PreRating = &pre.Float64
		}
		if post.Valid {
			s.PostRating = &post.Float64
		}
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return snapshots, nil
}

// LatestRun retrieves the most recent run of a discipline
func (r *SQLiteSnapshotRepository) LatestRun(ctx context.Context, discipline string) (*models.RatingRun, error) {
	var (
		run               models.RatingRun
		id                string
		started, finished int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, discipline, started_at, finished_at, seasons, events, snapshots,
		       competitors, predicted_only, unmatched
		FROM rating_runs
		WHERE discipline = ?
		ORDER BY finished_at DESC
		LIMIT 1`, discipline).Scan(
		&id, &run.Discipline, &started, &finished, &run.Seasons, &run.Events,
		&run.Snapshots, &run.Competitors, &run.PredictedOnly, &run.Unmatched,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query rating run: %w", err)
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	run.StartedAt = time.UnixMilli(started)
	run.FinishedAt = time.UnixMilli(finished)
	return &run, nil
}
