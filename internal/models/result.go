package models

import "time"

// Result is one row of the Event Table: a competitor's place in one event.
type Result struct {
	Season     int           `db:"season" json:"season" validate:"required,gt=0"`
	Ordinal    int           `db:"ordinal" json:"ordinal" validate:"required,gt=0,lt=999"`
	Date       time.Time     `db:"date" json:"date"`
	Venue      string        `db:"venue" json:"venue"`
	Category   EventCategory `db:"category" json:"category" validate:"required,gte=1,lte=3"`
	Competitor Competitor    `db:"-" json:"competitor"`
	Place      int           `db:"place" json:"place" validate:"required,gt=0"`
}

// SortKey returns the chronological key of the result's event.
func (r *Result) SortKey() int {
	return SortKey(r.Season, r.Ordinal)
}
