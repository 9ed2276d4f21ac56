package models

// Competitor is an athlete (or team) identified by a stable key.
type Competitor struct {
	ID     string `db:"competitor_id" json:"competitor_id" validate:"required"`
	Name   string `db:"name" json:"name"`
	Nation string `db:"nation" json:"nation"`
	Sex    string `db:"sex" json:"sex" validate:"omitempty,oneof=M F X"`
}
