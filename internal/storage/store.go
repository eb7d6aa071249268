// Package storage provides the versioned local record store backing
// sessions and configs. Records are persisted as JSON document snapshots in
// SQLite, with secondary columns for name, type, and creation time lookups.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/ports"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

const (
	collectionSessions = "sessions"
	collectionConfigs  = "configs"
)

// migration is one additive schema step. Existing collections and their
// keys are never restructured in place; version increments only introduce
// new collections or indexes.
type migration struct {
	id  string
	sql string
}

// Schema history. Version 1 predates config storage; version 2 adds the
// configs collection without touching existing session records.
var migrations = []migration{
	{
		id: "001_sessions",
		sql: `
			CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				document TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
			CREATE INDEX IF NOT EXISTS idx_sessions_name ON sessions(name);
		`,
	},
	{
		id: "002_configs",
		sql: `
			CREATE TABLE IF NOT EXISTS configs (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				type TEXT NOT NULL,
				created_at TEXT NOT NULL,
				document TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_configs_created_at ON configs(created_at);
			CREATE INDEX IF NOT EXISTS idx_configs_name ON configs(name);
			CREATE INDEX IF NOT EXISTS idx_configs_type ON configs(type);
		`,
	},
}

// Store is a SQLite-backed implementation of ports.Store. Every put writes
// a plain deep-copied snapshot in a single transaction, so a stored record
// is immune to later in-memory mutation and a failed write leaves nothing
// partial behind.
type Store struct {
	db *sql.DB
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// OpenOnce opens the process-wide store at the given path, performing
// schema setup and upgrade on first call. Later callers reuse the same
// handle regardless of the path they pass; the connection is never
// explicitly closed.
func OpenOnce(path string) (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = Open(path)
	})
	return defaultStore, defaultErr
}

// Open opens (or creates) a store at the given path and applies any
// pending schema migrations. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single writer keeps puts strictly ordered; see the concurrency
	// model in the engine.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection. The process-wide handle from
// OpenOnce is intentionally left open for the life of the process; Close
// exists for tests and ad-hoc stores.
func (s *Store) Close() error { return s.db.Close() }

// migrate applies pending migrations, each in its own transaction, and
// records them so reopening an older database only adds what is missing.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.id] {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", m.id, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", m.id, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (id) VALUES (?)`, m.id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", m.id, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.id, err)
		}
	}
	return nil
}

// PutSession inserts or replaces a session snapshot in one transaction.
func (s *Store) PutSession(ctx context.Context, session domain.EvaluationSession) error {
	snapshot := domain.Clone(session)
	document, err := json.Marshal(snapshot)
	if err != nil {
		return ports.NewStorageError(collectionSessions, "put", session.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, created_at, updated_at, document)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at,
			document = excluded.document
	`, snapshot.ID, snapshot.Name,
		snapshot.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		snapshot.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		string(document))
	if err != nil {
		return ports.NewStorageError(collectionSessions, "put", session.ID, err)
	}
	return nil
}

// GetSession returns the session with the given id, or ErrNotFound.
func (s *Store) GetSession(ctx context.Context, id string) (domain.EvaluationSession, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM sessions WHERE id = ?`, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EvaluationSession{}, fmt.Errorf("session %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return domain.EvaluationSession{}, ports.NewStorageError(collectionSessions, "get", id, err)
	}

	var session domain.EvaluationSession
	if err := json.Unmarshal([]byte(document), &session); err != nil {
		return domain.EvaluationSession{}, ports.NewStorageError(collectionSessions, "get", id, err)
	}
	return session, nil
}

// ListSessions returns all sessions ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]domain.EvaluationSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM sessions ORDER BY created_at, id`)
	if err != nil {
		return nil, ports.NewStorageError(collectionSessions, "list", "", err)
	}
	defer rows.Close()

	var sessions []domain.EvaluationSession
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, ports.NewStorageError(collectionSessions, "list", "", err)
		}
		var session domain.EvaluationSession
		if err := json.Unmarshal([]byte(document), &session); err != nil {
			return nil, ports.NewStorageError(collectionSessions, "list", "", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, ports.NewStorageError(collectionSessions, "list", "", err)
	}
	return sessions, nil
}

// DeleteSession removes a session. Deleting an absent id is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return ports.NewStorageError(collectionSessions, "delete", id, err)
	}
	return nil
}

// PutConfig inserts or replaces a config snapshot in one transaction.
func (s *Store) PutConfig(ctx context.Context, cfg domain.EvaluationConfig) error {
	snapshot := domain.Clone(cfg)
	document, err := json.Marshal(snapshot)
	if err != nil {
		return ports.NewStorageError(collectionConfigs, "put", cfg.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO configs (id, name, type, created_at, document)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			document = excluded.document
	`, snapshot.ID, snapshot.Name, string(snapshot.Type),
		snapshot.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		string(document))
	if err != nil {
		return ports.NewStorageError(collectionConfigs, "put", cfg.ID, err)
	}
	return nil
}

// GetConfig returns the config with the given id, or ErrNotFound.
func (s *Store) GetConfig(ctx context.Context, id string) (domain.EvaluationConfig, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM configs WHERE id = ?`, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EvaluationConfig{}, fmt.Errorf("config %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return domain.EvaluationConfig{}, ports.NewStorageError(collectionConfigs, "get", id, err)
	}

	var cfg domain.EvaluationConfig
	if err := json.Unmarshal([]byte(document), &cfg); err != nil {
		return domain.EvaluationConfig{}, ports.NewStorageError(collectionConfigs, "get", id, err)
	}
	return cfg, nil
}

// ListConfigs returns all configs ordered by creation time.
func (s *Store) ListConfigs(ctx context.Context) ([]domain.EvaluationConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM configs ORDER BY created_at, id`)
	if err != nil {
		return nil, ports.NewStorageError(collectionConfigs, "list", "", err)
	}
	defer rows.Close()

	var configs []domain.EvaluationConfig
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, ports.NewStorageError(collectionConfigs, "list", "", err)
		}
		var cfg domain.EvaluationConfig
		if err := json.Unmarshal([]byte(document), &cfg); err != nil {
			return nil, ports.NewStorageError(collectionConfigs, "list", "", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, ports.NewStorageError(collectionConfigs, "list", "", err)
	}
	return configs, nil
}

// DeleteConfig removes a config. Sessions keep their embarked snapshot.
func (s *Store) DeleteConfig(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM configs WHERE id = ?`, id); err != nil {
		return ports.NewStorageError(collectionConfigs, "delete", id, err)
	}
	return nil
}

// CreateSessionFromDataset stamps a new session with a generated id and
// current timestamps, attaches the supplied config or a freshly-defaulted
// mastery config, and performs the initial write.
func (s *Store) CreateSessionFromDataset(ctx context.Context, dataset domain.Dataset, name, description string, cfg *domain.EvaluationConfig) (domain.EvaluationSession, error) {
	sessionConfig, err := sessionConfigOrDefault(cfg)
	if err != nil {
		return domain.EvaluationSession{}, err
	}
	session := domain.NewSession(name, description, dataset, sessionConfig)
	if err := s.PutSession(ctx, session); err != nil {
		return domain.EvaluationSession{}, err
	}
	return session, nil
}

// CreateSessionFromItems builds a dataset from bare question and item
// slices and creates a session from it.
func (s *Store) CreateSessionFromItems(ctx context.Context, questions []domain.Question, items []domain.EvaluationItem, name, description string, cfg *domain.EvaluationConfig) (domain.EvaluationSession, error) {
	dataset := domain.Dataset{QuestionList: questions, Items: items}
	return s.CreateSessionFromDataset(ctx, dataset, name, description, cfg)
}

func sessionConfigOrDefault(cfg *domain.EvaluationConfig) (domain.EvaluationConfig, error) {
	if cfg != nil {
		return *cfg, nil
	}
	return domain.NewDefaultConfig(domain.TypeMastery, "Default Mastery Configuration")
}
