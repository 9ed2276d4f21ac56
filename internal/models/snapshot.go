package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingSnapshot is one row of the rating history: a competitor's ratings
// immediately before and after one event, or at a season boundary.
type RatingSnapshot struct {
	RunID               uuid.UUID     `db:"run_id" json:"run_id"`
	Discipline          string        `db:"discipline" json:"discipline"`
	Competitor          Competitor    `db:"-" json:"competitor"`
	Season              int           `db:"season" json:"season"`
	Ordinal             int           `db:"ordinal" json:"ordinal"`
	Date                time.Time     `db:"date" json:"date"`
	Venue               string        `db:"venue" json:"venue"`
	Category            EventCategory `db:"category" json:"category"`
	Place               int           `db:"place" json:"place"`
	PreRating           *float64      `db:"pre_rating" json:"pre_rating"`
	PostRating          *float64      `db:"post_rating" json:"post_rating"`
	PredictedPreRating  float64       `db:"predicted_pre_rating" json:"predicted_pre_rating"`
	PredictedPostRating float64       `db:"predicted_post_rating" json:"predicted_post_rating"`
	HasGroundTruth      bool          `db:"has_ground_truth" json:"has_ground_truth"`
}

// IsBoundary reports whether the snapshot is a synthetic season-boundary row.
func (s *RatingSnapshot) IsBoundary() bool {
	return s.Ordinal == BoundaryOrdinal
}

// SortKey returns the chronological key of the snapshot.
func (s *RatingSnapshot) SortKey() int {
	return SortKey(s.Season, s.Ordinal)
}
