package rating

import (
	"slices"
	"time"

	"github.com/yourusername/ski-ratings/internal/models"
)

// JoinKey identifies a competitor's participation in one event across the
// Event Table and the secondary ratings table.
type JoinKey struct {
	CompetitorID string
	Season       int
	Date         string
	Venue        string
	Category     models.EventCategory
}

func newJoinKey(competitor string, season int, date time.Time, venue string, category models.EventCategory) JoinKey {
	return JoinKey{
		CompetitorID: competitor,
		Season:       season,
		Date:         date.Format(time.DateOnly),
		Venue:        venue,
		Category:     category,
	}
}

// UnmatchedRecord is a ground-truth row that could not be placed on the
// Event Table.
type UnmatchedRecord struct {
	Row    int
	Record models.GroundTruthRecord
}

// ResolveGroundTruth translates the secondary table's own event numbering
// into the Event Table's canonical ordinals. Boundary rows map to
// models.BoundaryOrdinal. When one key covers several events, such as two
// races on the same day and venue, the distinct source event numbers are
// paired with the canonical ordinals in ascending order. Rows with no
// matching result, or left over after pairing, are returned as unmatched and
// left out of the resolved set.
func ResolveGroundTruth(results []models.Result, records []models.GroundTruthRecord) ([]models.ResolvedGroundTruth, []UnmatchedRecord) {
	ordinals := make(map[JoinKey][]int, len(results))
	for i := range results {
		r := &results[i]
		key := newJoinKey(r.Competitor.ID, r.Season, r.Date, r.Venue, r.Category)
		if !slices.Contains(ordinals[key], r.Ordinal) {
			ordinals[key] = append(ordinals[key], r.Ordinal)
		}
	}
	for _, ords := range ordinals {
		slices.Sort(ords)
	}

	sourceEvents := make(map[JoinKey][]int)
	for _, rec := range records {
		if rec.Boundary {
			continue
		}
		key := newJoinKey(rec.CompetitorID, rec.Season, rec.Date, rec.Venue, rec.Category)
		if !slices.Contains(sourceEvents[key], rec.SourceEvent) {
			sourceEvents[key] = append(sourceEvents[key], rec.SourceEvent)
		}
	}
	for _, events := range sourceEvents {
		slices.Sort(events)
	}

	resolved := make([]models.ResolvedGroundTruth, 0, len(records))
	var unmatched []UnmatchedRecord
	for i, rec := range records {
		ordinal := models.BoundaryOrdinal
		if !rec.Boundary {
			key := newJoinKey(rec.CompetitorID, rec.Season, rec.Date, rec.Venue, rec.Category)
			ords := ordinals[key]
			rank := slices.Index(sourceEvents[key], rec.SourceEvent)
			if rank >= len(ords) {
				unmatched = append(unmatched, UnmatchedRecord{Row: i, Record: rec})
				continue
			}
			ordinal = ords[rank]
		}
		resolved = append(resolved, models.ResolvedGroundTruth{
			CompetitorID: rec.CompetitorID,
			Season:       rec.Season,
			Ordinal:      ordinal,
			PreRating:    rec.PreRating,
			PostRating:   rec.PostRating,
		})
	}
	return resolved, unmatched
}
