package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/ski-ratings/internal/models"
)

var resultColumns = []string{
	"discipline", "season", "ordinal", "event_date", "venue", "category",
	"competitor_id", "competitor_name", "nation", "sex", "place",
}

var groundTruthColumns = []string{
	"discipline", "competitor_id", "season", "source_event", "event_date",
	"venue", "category", "boundary", "pre_rating", "post_rating",
}

var snapshotColumns = []string{
	"run_id", "discipline", "competitor_id", "competitor_name", "nation", "sex",
	"season", "ordinal", "event_date", "venue", "category", "place",
	"pre_rating", "post_rating", "predicted_pre_rating", "predicted_post_rating",
	"has_ground_truth",
}

func resultValues(discipline string, r *models.Result) []interface{} {
	return []interface{}{
		discipline, r.Season, r.Ordinal, r.Date, r.Venue, r.Category.Label(),
		r.Competitor.ID, r.Competitor.Name, r.Competitor.Nation, r.Competitor.Sex, r.Place,
	}
}

func groundTruthValues(discipline string, g *models.GroundTruthRecord) []interface{} {
	var date *time.Time
	if !g.Date.IsZero() {
		d := g.Date
		date = &d
	}
	return []interface{}{
		discipline, g.CompetitorID, g.Season, g.SourceEvent, date,
		g.Venue, g.Category.Label(), g.Boundary, g.PreRating, g.PostRating,
	}
}

func snapshotValues(runID uuid.UUID, discipline string, s *models.RatingSnapshot) []interface{} {
	return []interface{}{
		runID, discipline, s.Competitor.ID, s.Competitor.Name, s.Competitor.Nation, s.Competitor.Sex,
		s.Season, s.Ordinal, s.Date, s.Venue, s.Category.Label(), s.Place,
		s.PreRating, s.PostRating, s.PredictedPreRating, s.PredictedPostRating,
		s.HasGroundTruth,
	}
}

// parseCategory accepts the empty label stored for boundary rows.
func parseCategory(label string) (models.EventCategory, error) {
	if label == "" {
		return 0, nil
	}
	return models.ParseEventCategory(label)
}
