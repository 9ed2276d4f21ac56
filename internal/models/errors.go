package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidCategory = errors.New("invalid event category")
	ErrDuplicateResult = errors.New("duplicate result for competitor and event")
	ErrLengthMismatch  = errors.New("places, ratings and mask must be the same length")
)

// ValidationError describes a row of an input table that failed validation.
type ValidationError struct {
	Code    string
	Row     int
	Message string
	Err     error
}

// NewValidationError creates a validation error not tied to a specific row.
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Row: -1, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%s: row %d: %s", e.Code, e.Row, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches validation errors by code so callers can compare against the
// package-level error values.
func (e *ValidationError) Is(target error) bool {
	var other *ValidationError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// Validation error codes
var (
	ErrInvalidResult      = NewValidationError("invalid_result", "invalid result row")
	ErrInconsistentEvent  = NewValidationError("inconsistent_event", "rows of one event disagree on event attributes")
	ErrInvalidGroundTruth = NewValidationError("invalid_ground_truth", "invalid ground truth row")
)
