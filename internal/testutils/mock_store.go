package testutils

import (
	"context"
	"fmt"
	"sort"

	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/ports"
)

// MockStore implements ports.Store in memory with deterministic behavior
// and optional failure injection, enabling reliable tests of write-through
// and failure-propagation paths without a database.
type MockStore struct {
	sessions map[string]domain.EvaluationSession
	configs  map[string]domain.EvaluationConfig

	// PutSessionErr, when set, is returned by every PutSession call after
	// the snapshot has been taken, simulating a failed transaction.
	PutSessionErr error

	// PutConfigErr, when set, is returned by every PutConfig call.
	PutConfigErr error

	// SessionPuts counts PutSession calls, including failed ones.
	SessionPuts int
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		sessions: make(map[string]domain.EvaluationSession),
		configs:  make(map[string]domain.EvaluationConfig),
	}
}

// PutSession stores a snapshot copy of the session.
func (m *MockStore) PutSession(_ context.Context, session domain.EvaluationSession) error {
	m.SessionPuts++
	if m.PutSessionErr != nil {
		return m.PutSessionErr
	}
	m.sessions[session.ID] = domain.Clone(session)
	return nil
}

// GetSession returns a copy of the stored session, or ErrNotFound.
func (m *MockStore) GetSession(_ context.Context, id string) (domain.EvaluationSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return domain.EvaluationSession{}, fmt.Errorf("session %s: %w", id, ports.ErrNotFound)
	}
	return domain.Clone(session), nil
}

// ListSessions returns copies of all sessions ordered by creation time.
func (m *MockStore) ListSessions(_ context.Context) ([]domain.EvaluationSession, error) {
	sessions := make([]domain.EvaluationSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, domain.Clone(s))
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// DeleteSession removes a session; absent ids are not an error.
func (m *MockStore) DeleteSession(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

// PutConfig stores a snapshot copy of the config.
func (m *MockStore) PutConfig(_ context.Context, cfg domain.EvaluationConfig) error {
	if m.PutConfigErr != nil {
		return m.PutConfigErr
	}
	m.configs[cfg.ID] = domain.Clone(cfg)
	return nil
}

// GetConfig returns a copy of the stored config, or ErrNotFound.
func (m *MockStore) GetConfig(_ context.Context, id string) (domain.EvaluationConfig, error) {
	cfg, ok := m.configs[id]
	if !ok {
		return domain.EvaluationConfig{}, fmt.Errorf("config %s: %w", id, ports.ErrNotFound)
	}
	return domain.Clone(cfg), nil
}

// ListConfigs returns copies of all configs ordered by creation time.
func (m *MockStore) ListConfigs(_ context.Context) ([]domain.EvaluationConfig, error) {
	configs := make([]domain.EvaluationConfig, 0, len(m.configs))
	for _, c := range m.configs {
		configs = append(configs, domain.Clone(c))
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].CreatedAt.Before(configs[j].CreatedAt)
	})
	return configs, nil
}

// DeleteConfig removes a config; absent ids are not an error.
func (m *MockStore) DeleteConfig(_ context.Context, id string) error {
	delete(m.configs, id)
	return nil
}
