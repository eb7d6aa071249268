package application

import (
	"context"
	"time"

	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/ports"
)

// ConfigService manages the config collection: creation from per-type
// defaults, full-replace updates, and deletion. Updates never mutate a
// stored value in place; they produce a new timestamped config preserving
// id and creation time.
type ConfigService struct {
	store ports.ConfigStore
}

// NewConfigService creates a config service backed by the given store.
func NewConfigService(store ports.ConfigStore) *ConfigService {
	return &ConfigService{store: store}
}

// Create builds a config of the given type, applies the optional settings
// override, validates, and persists it. Validation failures are returned
// as a ValidationError carrying every reason.
func (s *ConfigService) Create(ctx context.Context, evalType domain.EvaluationType, name string, settings *domain.EvaluationSettings) (domain.EvaluationConfig, error) {
	cfg, err := domain.NewDefaultConfig(evalType, name)
	if err != nil {
		return domain.EvaluationConfig{}, err
	}
	if settings != nil {
		cfg.Settings = domain.Clone(*settings)
	}

	if err := validConfig(cfg); err != nil {
		return domain.EvaluationConfig{}, err
	}
	if err := s.store.PutConfig(ctx, cfg); err != nil {
		return domain.EvaluationConfig{}, err
	}
	return cfg, nil
}

// validConfig folds the per-type rule messages into a single
// ValidationError, or nil when the config is valid.
func validConfig(cfg domain.EvaluationConfig) error {
	verr := domain.NewValidationError("config")
	for _, msg := range ValidateConfig(cfg) {
		verr.AddError(msg)
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// ConfigUpdate carries the replaceable fields of a config.
type ConfigUpdate struct {
	Name     *string
	Settings *domain.EvaluationSettings
}

// Update replaces a config's name and settings, preserving its id, type,
// and creation time, and stamping a fresh update time. Sessions that
// embarked a snapshot of the config are unaffected.
func (s *ConfigService) Update(ctx context.Context, id string, update ConfigUpdate) (domain.EvaluationConfig, error) {
	existing, err := s.store.GetConfig(ctx, id)
	if err != nil {
		return domain.EvaluationConfig{}, err
	}

	updated := domain.Clone(existing)
	if update.Name != nil {
		updated.Name = *update.Name
	}
	if update.Settings != nil {
		updated.Settings = domain.Clone(*update.Settings)
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := validConfig(updated); err != nil {
		return domain.EvaluationConfig{}, err
	}
	if err := s.store.PutConfig(ctx, updated); err != nil {
		return domain.EvaluationConfig{}, err
	}
	return updated, nil
}

// Clone copies a stored config under a new name with a fresh id and
// timestamps, persisting the copy. The source config is untouched.
func (s *ConfigService) Clone(ctx context.Context, id, newName string) (domain.EvaluationConfig, error) {
	source, err := s.store.GetConfig(ctx, id)
	if err != nil {
		return domain.EvaluationConfig{}, err
	}

	clone := domain.CloneConfig(source, newName)
	if err := validConfig(clone); err != nil {
		return domain.EvaluationConfig{}, err
	}
	if err := s.store.PutConfig(ctx, clone); err != nil {
		return domain.EvaluationConfig{}, err
	}
	return clone, nil
}

// Delete removes a config. Sessions keep their embarked snapshot.
func (s *ConfigService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteConfig(ctx, id)
}

// Get returns a config by id.
func (s *ConfigService) Get(ctx context.Context, id string) (domain.EvaluationConfig, error) {
	return s.store.GetConfig(ctx, id)
}

// List returns all stored configs.
func (s *ConfigService) List(ctx context.Context) ([]domain.EvaluationConfig, error) {
	return s.store.ListConfigs(ctx)
}
