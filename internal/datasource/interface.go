package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/ski-ratings/internal/models"
)

// DataSource defines the interface for loading a discipline's input tables
type DataSource interface {
	// LoadResults retrieves the Event Table of a discipline
	LoadResults(ctx context.Context, discipline string) ([]models.Result, error)

	// LoadGroundTruth retrieves the secondary ratings table of a discipline.
	// An empty slice is a valid cold-start input.
	LoadGroundTruth(ctx context.Context, discipline string) ([]models.GroundTruthRecord, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "invalid_data")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeInvalidData = "invalid_data"
	ErrCodeIO          = "io_error"
	ErrCodeUnknown     = "unknown"
)

// Error constructors
var (
	ErrNotFound      = errors.New("data not found")
	ErrInvalidData   = errors.New("invalid data format")
	ErrMissingColumn = errors.New("missing required column")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
