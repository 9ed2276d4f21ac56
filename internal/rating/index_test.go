package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/ski-ratings/internal/models"
)

func gt(id string, season, ordinal int, pre, post float64) models.ResolvedGroundTruth {
	return models.ResolvedGroundTruth{CompetitorID: id, Season: season, Ordinal: ordinal, PreRating: pre, PostRating: post}
}

func TestIndexLookup(t *testing.T) {
	idx := NewIndex([]models.ResolvedGroundTruth{
		gt("a", 2024, 5, 1400, 1410),
		gt("a", 2024, 2, 1380, 1400),
		gt("a", 2024, models.BoundaryOrdinal, 1410, 1410),
		gt("a", 2025, 1, 1410, 1390),
	})

	tests := []struct {
		name     string
		season   int
		ordinal  int
		wantOK   bool
		wantPre  float64
		wantPost float64
	}{
		{name: "before first entry", season: 2024, ordinal: 1, wantOK: false},
		{name: "exact match", season: 2024, ordinal: 2, wantOK: true, wantPre: 1380, wantPost: 1400},
		{name: "between entries", season: 2024, ordinal: 4, wantOK: true, wantPre: 1380, wantPost: 1400},
		{name: "last real event", season: 2024, ordinal: 30, wantOK: true, wantPre: 1400, wantPost: 1410},
		{name: "boundary", season: 2024, ordinal: models.BoundaryOrdinal, wantOK: true, wantPre: 1410, wantPost: 1410},
		{name: "next season", season: 2025, ordinal: 1, wantOK: true, wantPre: 1410, wantPost: 1390},
		{name: "far future", season: 2030, ordinal: 1, wantOK: true, wantPre: 1410, wantPost: 1390},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pre, post, ok := idx.Lookup("a", tt.season, tt.ordinal)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPre, pre)
			assert.Equal(t, tt.wantPost, post)
		})
	}
}

func TestIndexLookupUnknownCompetitor(t *testing.T) {
	idx := NewIndex([]models.ResolvedGroundTruth{gt("a", 2024, 1, 1300, 1310)})
	_, _, ok := idx.Lookup("b", 2024, 1)
	assert.False(t, ok)
	assert.False(t, idx.Has("b"))
	assert.True(t, idx.Has("a"))
}

func TestIndexDuplicateKeyKeepsLastRow(t *testing.T) {
	idx := NewIndex([]models.ResolvedGroundTruth{
		gt("a", 2024, 1, 1300, 1310),
		gt("a", 2024, 1, 1300, 1320),
	})
	_, post, ok := idx.Lookup("a", 2024, 1)
	assert.True(t, ok)
	assert.Equal(t, 1320.0, post)
}

func TestBoundarySortsBetweenSeasons(t *testing.T) {
	boundary := models.SortKey(2024, models.BoundaryOrdinal)
	assert.Equal(t, 2024999, boundary)
	assert.Greater(t, boundary, models.SortKey(2024, 30))
	assert.Less(t, boundary, models.SortKey(2025, 1))
}

func TestSeasonFieldSizesExcludeBoundaryRows(t *testing.T) {
	idx := NewIndex([]models.ResolvedGroundTruth{
		gt("a", 2024, 1, 1300, 1310),
		gt("b", 2024, 1, 1300, 1290),
		gt("a", 2024, 2, 1310, 1315),
		gt("a", 2024, models.BoundaryOrdinal, 1315, 1315),
		gt("a", 2025, 1, 1315, 1320),
	})
	assert.Equal(t, map[int]int{2024: 3, 2025: 1}, idx.SeasonFieldSizes())
	assert.Equal(t, 2, idx.Competitors())
}
