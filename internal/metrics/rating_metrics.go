package metrics

import (
	"strconv"
	"time"
)

// Run statuses
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RecordRun records a finished rating run.
func RecordRun(discipline, status string, duration time.Duration) {
	RatingRunsTotal.WithLabelValues(discipline, status).Inc()
	RunDuration.WithLabelValues(discipline).Observe(duration.Seconds())
	if status == StatusSuccess {
		LastRunTimestamp.WithLabelValues(discipline).SetToCurrentTime()
	}
}

// RecordEvent records one processed event. coverage is "none" when no
// competitor had ground truth, "partial" or "full" otherwise.
func RecordEvent(discipline string, fieldSize, groundTruthed int) {
	coverage := "partial"
	switch groundTruthed {
	case 0:
		coverage = "none"
	case fieldSize:
		coverage = "full"
	}
	EventsProcessedTotal.WithLabelValues(discipline, coverage).Inc()
	EventFieldSize.Observe(float64(fieldSize))
}

// RecordUnmatchedGroundTruth adds n unmatched ground-truth rows.
func RecordUnmatchedGroundTruth(discipline string, n int) {
	UnmatchedGroundTruthTotal.WithLabelValues(discipline).Add(float64(n))
}

// RecordSnapshotsExported adds n exported snapshots for a sink.
func RecordSnapshotsExported(discipline, sink string, n int) {
	SnapshotsExportedTotal.WithLabelValues(discipline, sink).Add(float64(n))
}

// UpdateSeasonK sets the K-factor gauge for a season.
func UpdateSeasonK(discipline string, season int, k float64) {
	SeasonKFactor.WithLabelValues(discipline, strconv.Itoa(season)).Set(k)
}

// UpdateCompetitors sets the competitor gauges of the last run.
func UpdateCompetitors(discipline string, total, predictedOnly int) {
	CompetitorsRated.WithLabelValues(discipline).Set(float64(total))
	PredictedOnlyCompetitors.WithLabelValues(discipline).Set(float64(predictedOnly))
}

// RecordGroundTruthCache records a ground-truth cache lookup.
func RecordGroundTruthCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	GroundTruthCacheTotal.WithLabelValues(result).Inc()
}
