package models

import "time"

// GroundTruthRecord is a row of the secondary ratings table as supplied,
// still numbered in the source's own event numbering.
type GroundTruthRecord struct {
	CompetitorID string        `db:"competitor_id" json:"competitor_id" validate:"required"`
	Season       int           `db:"season" json:"season" validate:"required,gt=0"`
	SourceEvent  int           `db:"source_event" json:"source_event"`
	Date         time.Time     `db:"date" json:"date"`
	Venue        string        `db:"venue" json:"venue"`
	Category     EventCategory `db:"category" json:"category"`
	Boundary     bool          `db:"boundary" json:"boundary"`
	PreRating    float64       `db:"pre_rating" json:"pre_rating"`
	PostRating   float64       `db:"post_rating" json:"post_rating"`
}

// ResolvedGroundTruth is a ground-truth rating already keyed by the Event
// Table's canonical ordinal.
type ResolvedGroundTruth struct {
	CompetitorID string
	Season       int
	Ordinal      int
	PreRating    float64
	PostRating   float64
}

// SortKey returns the chronological key of the rating.
func (g ResolvedGroundTruth) SortKey() int {
	return SortKey(g.Season, g.Ordinal)
}
