package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingRun records one completed computation of a discipline's history.
type RatingRun struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Discipline    string    `db:"discipline" json:"discipline"`
	StartedAt     time.Time `db:"started_at" json:"started_at"`
	FinishedAt    time.Time `db:"finished_at" json:"finished_at"`
	Seasons       int       `db:"seasons" json:"seasons"`
	Events        int       `db:"events" json:"events"`
	Snapshots     int       `db:"snapshots" json:"snapshots"`
	Competitors   int       `db:"competitors" json:"competitors"`
	PredictedOnly int       `db:"predicted_only" json:"predicted_only"`
	Unmatched     int       `db:"unmatched" json:"unmatched"`
}

// Duration returns the wall-clock length of the run.
func (r *RatingRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
