// Package config loads the application configuration for the evalbuddy CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration: where the local store lives and
// how the CLI behaves by default.
type Config struct {
	Storage   StorageConfig   `yaml:"storage" validate:"required"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StorageConfig locates the local record store.
type StorageConfig struct {
	// Path is the SQLite database file. ":memory:" gives an ephemeral
	// store that does not survive the process.
	Path string `yaml:"path" validate:"required"`
}

// EvaluatorConfig carries evaluator defaults applied to new sessions.
type EvaluatorConfig struct {
	// Name is stamped as EvaluatorName on sessions created by the CLI.
	Name string `yaml:"name" validate:"max=255"`
}

// LoggingConfig controls CLI log output.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Storage: StorageConfig{Path: filepath.Join(home, ".evalbuddy", "evalbuddy.db")},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads and validates a YAML configuration file, filling unset fields
// from the defaults. A missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = Default().Storage.Path
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
