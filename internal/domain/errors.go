package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during session and config operations.
var (
	// ErrEmptyDataset indicates that a session has no items to evaluate.
	ErrEmptyDataset = errors.New("dataset has no items")

	// ErrItemNotFound indicates that a referenced item does not exist in
	// the session's dataset.
	ErrItemNotFound = errors.New("item not found")

	// ErrNotEvaluated indicates an operation that requires a committed
	// result was attempted on an item without one.
	ErrNotEvaluated = errors.New("item has no committed result")

	// ErrCommentRequired indicates the config requires a comment and
	// none was supplied.
	ErrCommentRequired = errors.New("comment is required")

	// ErrInvalidPosition indicates cursor coordinates outside the grouped
	// item bounds.
	ErrInvalidPosition = errors.New("position out of range")
)

// ValidationError represents a failed validation of a dataset or config
// document. It carries every collected reason so callers can report all
// issues at once; it is returned as data, never panicked.
type ValidationError struct {
	// Entity names the document kind that failed validation.
	Entity string

	// Errors contains the validation error messages in document order.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string, errs ...string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: errs}
}
