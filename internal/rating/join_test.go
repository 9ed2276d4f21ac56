package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ski-ratings/internal/models"
)

func TestResolveGroundTruth(t *testing.T) {
	day1 := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	results := []models.Result{
		{Season: 2024, Ordinal: 1, Date: day1, Venue: "Adelboden", Category: models.CategoryIndividual, Competitor: models.Competitor{ID: "a"}, Place: 1},
		{Season: 2024, Ordinal: 2, Date: day2, Venue: "Wengen", Category: models.CategoryIndividual, Competitor: models.Competitor{ID: "a"}, Place: 3},
	}
	records := []models.GroundTruthRecord{
		{CompetitorID: "a", Season: 2024, SourceEvent: 17, Date: day2, Venue: "Wengen", Category: models.CategoryIndividual, PreRating: 1400, PostRating: 1390},
		{CompetitorID: "a", Season: 2024, SourceEvent: 16, Date: day1, Venue: "Kitzbühel", Category: models.CategoryIndividual, PreRating: 1380, PostRating: 1400},
		{CompetitorID: "a", Season: 2024, Boundary: true, PreRating: 1390, PostRating: 1390},
	}

	resolved, unmatched := ResolveGroundTruth(results, records)

	require.Len(t, resolved, 2)
	assert.Equal(t, 2, resolved[0].Ordinal)
	assert.Equal(t, models.BoundaryOrdinal, resolved[1].Ordinal)
	require.Len(t, unmatched, 1)
	assert.Equal(t, 1, unmatched[0].Row)
	assert.Equal(t, "Kitzbühel", unmatched[0].Record.Venue)
}

func TestResolveGroundTruthEmpty(t *testing.T) {
	resolved, unmatched := ResolveGroundTruth(nil, nil)
	assert.Empty(t, resolved)
	assert.Empty(t, unmatched)
}

func TestResolveGroundTruthSameDayAndVenue(t *testing.T) {
	day := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	result := func(ordinal, place int) models.Result {
		return models.Result{Season: 2024, Ordinal: ordinal, Date: day, Venue: "Kitzbühel", Category: models.CategoryIndividual, Competitor: models.Competitor{ID: "a"}, Place: place}
	}
	record := func(source int, pre, post float64) models.GroundTruthRecord {
		return models.GroundTruthRecord{CompetitorID: "a", Season: 2024, SourceEvent: source, Date: day, Venue: "Kitzbühel", Category: models.CategoryIndividual, PreRating: pre, PostRating: post}
	}
	results := []models.Result{result(2, 5), result(1, 2)}

	t.Run("paired in order", func(t *testing.T) {
		records := []models.GroundTruthRecord{record(11, 1410, 1395), record(10, 1400, 1410)}

		resolved, unmatched := ResolveGroundTruth(results, records)

		assert.Empty(t, unmatched)
		require.Len(t, resolved, 2)
		assert.Equal(t, 2, resolved[0].Ordinal)
		assert.Equal(t, 1410.0, resolved[0].PreRating)
		assert.Equal(t, 1, resolved[1].Ordinal)
		assert.Equal(t, 1400.0, resolved[1].PreRating)
	})

	t.Run("more source events than races", func(t *testing.T) {
		records := []models.GroundTruthRecord{record(10, 1400, 1410), record(11, 1410, 1395), record(12, 1395, 1380)}

		resolved, unmatched := ResolveGroundTruth(results, records)

		require.Len(t, resolved, 2)
		require.Len(t, unmatched, 1)
		assert.Equal(t, 2, unmatched[0].Row)
		assert.Equal(t, 12, unmatched[0].Record.SourceEvent)
	})
}
