// Package logger provides rating-run logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RatingLogger provides dedicated logging for rating runs.
type RatingLogger struct {
	*logrus.Entry
}

// NewRatingLogger creates a new rating logger.
func NewRatingLogger(baseLogger *logrus.Logger) *RatingLogger {
	return &RatingLogger{
		Entry: baseLogger.WithField("component", "rating"),
	}
}

// ForDiscipline returns a logger scoped to one discipline.
func (rl *RatingLogger) ForDiscipline(discipline string) *RatingLogger {
	return &RatingLogger{Entry: rl.WithField("discipline", discipline)}
}

// LogRunStarted logs the start of a rating run.
func (rl *RatingLogger) LogRunStarted(runID string, results, groundTruth int) {
	rl.WithFields(logrus.Fields{
		"run_id":            runID,
		"result_rows":       results,
		"ground_truth_rows": groundTruth,
	}).Info("Rating run started")
}

// LogSeasonSummary logs the totals of one processed season.
func (rl *RatingLogger) LogSeasonSummary(season, events, competitors int, k float64) {
	rl.WithFields(logrus.Fields{
		"season":      season,
		"events":      events,
		"competitors": competitors,
		"k":           k,
	}).Debug("Season summary")
}

// LogUnmatchedGroundTruth logs a ground-truth row that matched no result.
func (rl *RatingLogger) LogUnmatchedGroundTruth(row int, competitorID string, season int, date time.Time, venue string) {
	rl.WithFields(logrus.Fields{
		"component":     "ground_truth",
		"row":           row,
		"competitor_id": competitorID,
		"season":        season,
		"date":          date.Format(time.DateOnly),
		"venue":         venue,
	}).Warn("Ground truth row has no matching result")
}

// LogRunFinished logs the completion of a rating run.
func (rl *RatingLogger) LogRunFinished(runID string, seasons, events, snapshots, competitors, predictedOnly, unmatched int, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"run_id":         runID,
		"seasons":        seasons,
		"events":         events,
		"snapshots":      snapshots,
		"competitors":    competitors,
		"predicted_only": predictedOnly,
		"unmatched":      unmatched,
		"duration_ms":    duration.Milliseconds(),
	}).Info("Rating run completed")
}

// LogRunFailed logs a failed rating run.
func (rl *RatingLogger) LogRunFailed(runID, stage string, err error) {
	rl.WithFields(logrus.Fields{
		"run_id": runID,
		"stage":  stage,
	}).WithError(err).Error("Rating run failed")
}
