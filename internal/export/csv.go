package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yourusername/ski-ratings/internal/models"
)

var csvHeader = []string{
	"season", "ordinal", "date", "venue", "category",
	"competitor_id", "name", "nation", "sex", "place",
	"pre_rating", "post_rating", "predicted_pre_rating", "predicted_post_rating",
	"has_ground_truth",
}

// CSVSink writes the rating history to a CSV file. The file is written to a
// temporary sibling and renamed into place.
type CSVSink struct {
	path      string
	precision int32
}

// NewCSVSink creates a CSV sink
func NewCSVSink(path string, precision int32) *CSVSink {
	return &CSVSink{path: path, precision: precision}
}

// Name returns the sink type
func (s *CSVSink) Name() string { return SinkCSV }

// Target returns the output path
func (s *CSVSink) Target() string { return s.path }

// Write writes one header row and one row per snapshot
func (s *CSVSink) Write(ctx context.Context, run *models.RatingRun, snapshots []models.RatingSnapshot) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range snapshots {
		if err = w.Write(s.record(&snapshots[i])); err != nil {
			return fmt.Errorf("failed to write snapshot %d: %w", i, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func (s *CSVSink) record(snap *models.RatingSnapshot) []string {
	place := ""
	if !snap.IsBoundary() {
		place = strconv.Itoa(snap.Place)
	}
	return []string{
		strconv.Itoa(snap.Season),
		strconv.Itoa(snap.Ordinal),
		snap.Date.Format(time.DateOnly),
		snap.Venue,
		snap.Category.Label(),
		snap.Competitor.ID,
		snap.Competitor.Name,
		snap.Competitor.Nation,
		snap.Competitor.Sex,
		place,
		s.optional(snap.PreRating),
		s.optional(snap.PostRating),
		Round(snap.PredictedPreRating, s.precision).StringFixed(s.precision),
		Round(snap.PredictedPostRating, s.precision).StringFixed(s.precision),
		strconv.FormatBool(snap.HasGroundTruth),
	}
}

func (s *CSVSink) optional(v *float64) string {
	if v == nil {
		return ""
	}
	return Round(*v, s.precision).StringFixed(s.precision)
}
