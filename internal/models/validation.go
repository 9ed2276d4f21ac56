package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type eventKey struct {
	season  int
	ordinal int
}

type eventAttrs struct {
	date     time.Time
	venue    string
	category EventCategory
}

type participationKey struct {
	competitor string
	season     int
	ordinal    int
}

// ValidateTable checks an Event Table before it reaches the rating engine.
// It fails on the first malformed row, on a competitor appearing twice in
// one event, and on rows of one event that disagree on date, venue or
// category.
func ValidateTable(results []Result) error {
	events := make(map[eventKey]eventAttrs)
	seen := make(map[participationKey]int, len(results))

	for i := range results {
		r := &results[i]
		if err := validate.Struct(r); err != nil {
			return rowError(ErrInvalidResult, i, err)
		}

		pk := participationKey{competitor: r.Competitor.ID, season: r.Season, ordinal: r.Ordinal}
		if first, ok := seen[pk]; ok {
			return &ValidationError{
				Code:    ErrInvalidResult.Code,
				Row:     i,
				Message: fmt.Sprintf("competitor %s already has a result in season %d event %d (row %d)", r.Competitor.ID, r.Season, r.Ordinal, first),
				Err:     ErrDuplicateResult,
			}
		}
		seen[pk] = i

		ek := eventKey{season: r.Season, ordinal: r.Ordinal}
		attrs := eventAttrs{date: r.Date, venue: r.Venue, category: r.Category}
		if prev, ok := events[ek]; ok {
			if !prev.date.Equal(attrs.date) || prev.venue != attrs.venue || prev.category != attrs.category {
				return &ValidationError{
					Code:    ErrInconsistentEvent.Code,
					Row:     i,
					Message: fmt.Sprintf("season %d event %d: expected %s/%s/%s", r.Season, r.Ordinal, prev.date.Format(time.DateOnly), prev.venue, prev.category),
				}
			}
			continue
		}
		events[ek] = attrs
	}

	return nil
}

// ValidateGroundTruth checks the rows of a secondary ratings table.
func ValidateGroundTruth(records []GroundTruthRecord) error {
	for i := range records {
		rec := &records[i]
		if err := validate.Struct(rec); err != nil {
			return rowError(ErrInvalidGroundTruth, i, err)
		}
		if !rec.Boundary && !rec.Category.IsValid() {
			return &ValidationError{
				Code:    ErrInvalidGroundTruth.Code,
				Row:     i,
				Message: "event category is required for non-boundary rows",
				Err:     ErrInvalidCategory,
			}
		}
	}
	return nil
}

func rowError(kind *ValidationError, row int, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Code: kind.Code, Row: row, Message: err.Error(), Err: err}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return &ValidationError{Code: kind.Code, Row: row, Message: strings.Join(msgs, "; "), Err: err}
}
