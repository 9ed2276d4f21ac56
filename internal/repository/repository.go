package repository

import (
	"fmt"

	"github.com/yourusername/ski-ratings/internal/database"
)

// Repositories holds all PostgreSQL repository implementations
type Repositories struct {
	Results     ResultRepository
	GroundTruth GroundTruthRepository
	Snapshots   SnapshotRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Results:     NewPostgresResultRepository(db),
		GroundTruth: NewPostgresGroundTruthRepository(db),
		Snapshots:   NewPostgresSnapshotRepository(db),
	}, nil
}
