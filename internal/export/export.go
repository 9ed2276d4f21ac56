// Package export writes rating histories to their configured destination.
package export

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yourusername/ski-ratings/internal/models"
)

// Sink types
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
	SinkSQLite   = "sqlite"
)

// DefaultPrecision is the number of decimal places ratings are rounded to.
const DefaultPrecision int32 = 2

// Sink persists the rating history of one run
type Sink interface {
	Write(ctx context.Context, run *models.RatingRun, snapshots []models.RatingSnapshot) error
	Name() string
	Target() string
}

// Round rounds a rating half away from zero to the given number of places.
func Round(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

// roundSnapshots returns a rounded copy of snapshots.
func roundSnapshots(snapshots []models.RatingSnapshot, places int32) []models.RatingSnapshot {
	out := make([]models.RatingSnapshot, len(snapshots))
	for i, s := range snapshots {
		s.PredictedPreRating = Round(s.PredictedPreRating, places).InexactFloat64()
		s.PredictedPostRating = Round(s.PredictedPostRating, places).InexactFloat64()
		if s.PreRating != nil {
			v := Round(*s.PreRating, places).InexactFloat64()
			s.PreRating = &v
		}
		if s.PostRating != nil {
			v := Round(*s.PostRating, places).InexactFloat64()
			s.PostRating = &v
		}
		out[i] = s
	}
	return out
}
