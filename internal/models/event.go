package models

import (
	"fmt"
	"strings"
)

// BoundaryOrdinal is the reserved event ordinal of the synthetic season
// boundary. It sorts after every real event of its season.
const BoundaryOrdinal = 999

// SortKey orders (season, ordinal) pairs chronologically.
func SortKey(season, ordinal int) int {
	return season*1000 + ordinal
}

// EventCategory selects the K-factor divisor of an event.
type EventCategory int

// Event categories
const (
	CategoryIndividual EventCategory = iota + 1
	CategoryPair
	CategoryTeam
)

// TeamSize returns the number of athletes sharing one result row.
func (c EventCategory) TeamSize() int {
	switch c {
	case CategoryPair:
		return 2
	case CategoryTeam:
		return 4
	default:
		return 1
	}
}

// IsValid reports whether c is a known category.
func (c EventCategory) IsValid() bool {
	return c >= CategoryIndividual && c <= CategoryTeam
}

func (c EventCategory) String() string {
	switch c {
	case CategoryIndividual:
		return "individual"
	case CategoryPair:
		return "pair"
	case CategoryTeam:
		return "team"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Label returns the category name, or "" for the zero category carried by
// season-boundary rows.
func (c EventCategory) Label() string {
	if !c.IsValid() {
		return ""
	}
	return c.String()
}

// ParseEventCategory converts a category label into an EventCategory.
func ParseEventCategory(s string) (EventCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "individual", "ind", "1":
		return CategoryIndividual, nil
	case "pair", "team_sprint", "2":
		return CategoryPair, nil
	case "team", "relay", "4":
		return CategoryTeam, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c EventCategory) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *EventCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseEventCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
