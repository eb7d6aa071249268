// Package ports defines the interfaces between the evaluation core and its
// infrastructure adapters, along with the error types those boundaries
// surface.
package ports

import (
	"context"

	"github.com/ahrav/evalbuddy/internal/domain"
)

// SessionStore persists evaluation sessions keyed by id.
// Implementations must write plain snapshot copies: a stored record is
// never affected by later in-memory mutation of the source, and each put is
// a single all-or-nothing transaction.
type SessionStore interface {
	// PutSession inserts or replaces a session by id.
	PutSession(ctx context.Context, session domain.EvaluationSession) error

	// GetSession returns the session with the given id, or ErrNotFound.
	GetSession(ctx context.Context, id string) (domain.EvaluationSession, error)

	// ListSessions returns all stored sessions ordered by creation time.
	ListSessions(ctx context.Context) ([]domain.EvaluationSession, error)

	// DeleteSession removes the session with the given id.
	// Deleting an absent id is not an error.
	DeleteSession(ctx context.Context, id string) error
}

// ConfigStore persists evaluation configs keyed by id.
// The same snapshot and transaction contract as SessionStore applies.
type ConfigStore interface {
	PutConfig(ctx context.Context, cfg domain.EvaluationConfig) error
	GetConfig(ctx context.Context, id string) (domain.EvaluationConfig, error)
	ListConfigs(ctx context.Context) ([]domain.EvaluationConfig, error)
	DeleteConfig(ctx context.Context, id string) error
}

// Store combines both collections behind one connection.
type Store interface {
	SessionStore
	ConfigStore
}
