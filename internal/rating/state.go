package rating

import "github.com/yourusername/ski-ratings/internal/models"

// RatingMap is the live predicted rating of every competitor seen so far in
// one run.
type RatingMap struct {
	baseline float64
	ratings  map[string]float64
}

// NewRatingMap creates an empty map seeding newcomers at baseline.
func NewRatingMap(baseline float64) *RatingMap {
	return &RatingMap{
		baseline: baseline,
		ratings:  make(map[string]float64),
	}
}

// Get returns the competitor's current predicted rating, seeding it at the
// baseline on first sight.
func (m *RatingMap) Get(competitor string) float64 {
	r, ok := m.ratings[competitor]
	if !ok {
		r = m.baseline
		m.ratings[competitor] = r
	}
	return r
}

// Set commits a new predicted rating.
func (m *RatingMap) Set(competitor string, r float64) {
	m.ratings[competitor] = r
}

// Len returns the number of competitors tracked.
func (m *RatingMap) Len() int {
	return len(m.ratings)
}

// Decay regresses a rating toward the baseline.
func Decay(r, baseline, discount float64) float64 {
	return r*discount + baseline*(1-discount)
}

// EventStats summarizes one processed event.
type EventStats struct {
	Season        int
	Ordinal       int
	Category      models.EventCategory
	FieldSize     int
	GroundTruthed int
	K             float64
}

// RunSummary summarizes one run over one history.
type RunSummary struct {
	Seasons       int
	Events        int
	Snapshots     int
	Competitors   int
	PredictedOnly int
	SeasonK       map[int]float64
}

// History is the product of a run: the rating history in output order plus
// its summary.
type History struct {
	Snapshots []models.RatingSnapshot
	Summary   RunSummary
}
