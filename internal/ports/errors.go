package ports

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested session or config id is absent
// from the store.
var ErrNotFound = errors.New("record not found")

// StorageError represents a failed transactional store operation.
// It names the collection and operation so a caller can report exactly
// which write or read failed; the optimistic in-memory update that
// preceded a failed write is the caller's to reconcile.
type StorageError struct {
	// Collection is the logical table involved ("sessions" or "configs").
	Collection string

	// Operation is the store operation that failed.
	Operation string

	// Key is the record id involved, if any.
	Key string

	// Err is the underlying error from the store.
	Err error
}

// Error implements the error interface for StorageError.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage error: collection=%s, operation=%s, key=%s, err=%v",
			e.Collection, e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("storage error: collection=%s, operation=%s, err=%v",
		e.Collection, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError creates a new StorageError with the given details.
func NewStorageError(collection, operation, key string, err error) *StorageError {
	return &StorageError{
		Collection: collection,
		Operation:  operation,
		Key:        key,
		Err:        err,
	}
}

// ParseError represents a transport document that could not be decoded.
type ParseError struct {
	// Source describes what was being parsed.
	Source string

	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: source=%s, err=%v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }
