package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortKeyOrdersBoundaryLast(t *testing.T) {
	assert.Equal(t, 2024001, SortKey(2024, 1))
	assert.Equal(t, 2024999, SortKey(2024, BoundaryOrdinal))
	assert.Less(t, SortKey(2024, 998), SortKey(2024, BoundaryOrdinal))
	assert.Less(t, SortKey(2024, BoundaryOrdinal), SortKey(2025, 1))
}

func TestParseEventCategory(t *testing.T) {
	tests := []struct {
		input    string
		want     EventCategory
		teamSize int
		wantErr  bool
	}{
		{input: "individual", want: CategoryIndividual, teamSize: 1},
		{input: " IND ", want: CategoryIndividual, teamSize: 1},
		{input: "team_sprint", want: CategoryPair, teamSize: 2},
		{input: "relay", want: CategoryTeam, teamSize: 4},
		{input: "4", want: CategoryTeam, teamSize: 4},
		{input: "mixed", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEventCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.teamSize, got.TeamSize())
		})
	}
}

func TestEventCategoryText(t *testing.T) {
	text, err := CategoryPair.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "pair", string(text))

	var c EventCategory
	require.NoError(t, c.UnmarshalText([]byte("team")))
	assert.Equal(t, CategoryTeam, c)

	_, err = EventCategory(0).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Equal(t, "", EventCategory(0).Label())
	assert.Equal(t, "individual", CategoryIndividual.Label())
}

func day(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

func validResults() []Result {
	return []Result{
		{Season: 2024, Ordinal: 1, Date: day("2023-11-20"), Venue: "Levi", Category: CategoryIndividual, Competitor: Competitor{ID: "A"}, Place: 1},
		{Season: 2024, Ordinal: 1, Date: day("2023-11-20"), Venue: "Levi", Category: CategoryIndividual, Competitor: Competitor{ID: "B"}, Place: 2},
		{Season: 2024, Ordinal: 2, Date: day("2023-12-02"), Venue: "Beaver Creek", Category: CategoryPair, Competitor: Competitor{ID: "A"}, Place: 1},
	}
}

func TestValidateTable(t *testing.T) {
	assert.NoError(t, ValidateTable(validResults()))
	assert.NoError(t, ValidateTable(nil))
}

func TestValidateTableFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Result) []Result
		target error
		row    int
	}{
		{
			name:   "missing competitor",
			mutate: func(r []Result) []Result { r[1].Competitor.ID = ""; return r },
			target: ErrInvalidResult,
			row:    1,
		},
		{
			name:   "reserved ordinal",
			mutate: func(r []Result) []Result { r[2].Ordinal = BoundaryOrdinal; return r },
			target: ErrInvalidResult,
			row:    2,
		},
		{
			name:   "zero place",
			mutate: func(r []Result) []Result { r[0].Place = 0; return r },
			target: ErrInvalidResult,
			row:    0,
		},
		{
			name:   "duplicate participation",
			mutate: func(r []Result) []Result { return append(r, r[0]) },
			target: ErrDuplicateResult,
			row:    3,
		},
		{
			name:   "venue disagreement",
			mutate: func(r []Result) []Result { r[1].Venue = "Sölden"; return r },
			target: ErrInconsistentEvent,
			row:    1,
		},
		{
			name:   "category disagreement",
			mutate: func(r []Result) []Result { r[1].Category = CategoryTeam; return r },
			target: ErrInconsistentEvent,
			row:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTable(tt.mutate(validResults()))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.row, verr.Row)
		})
	}
}

func TestValidateGroundTruth(t *testing.T) {
	records := []GroundTruthRecord{
		{CompetitorID: "A", Season: 2024, SourceEvent: 1, Date: day("2023-11-20"), Venue: "Levi", Category: CategoryIndividual, PreRating: 1300, PostRating: 1310},
		{CompetitorID: "A", Season: 2024, Boundary: true, PreRating: 1310, PostRating: 1308.5},
	}
	assert.NoError(t, ValidateGroundTruth(records))

	records[0].Category = 0
	err := ValidateGroundTruth(records)
	assert.ErrorIs(t, err, ErrInvalidGroundTruth)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	records[0].Category = CategoryIndividual
	records[1].CompetitorID = ""
	err = ValidateGroundTruth(records)
	assert.ErrorIs(t, err, ErrInvalidGroundTruth)
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid_result: invalid result row", ErrInvalidResult.Error())
	err := &ValidationError{Code: "invalid_result", Row: 4, Message: "bad"}
	assert.Equal(t, "invalid_result: row 4: bad", err.Error())
	assert.False(t, errors.Is(err, ErrInconsistentEvent))
}

func TestSnapshotHelpers(t *testing.T) {
	s := RatingSnapshot{Season: 2024, Ordinal: BoundaryOrdinal}
	assert.True(t, s.IsBoundary())
	assert.Equal(t, 2024999, s.SortKey())

	run := RatingRun{StartedAt: time.Unix(100, 0), FinishedAt: time.Unix(103, 0)}
	assert.Equal(t, 3*time.Second, run.Duration())
}
