// Package main provides the CLI entry point for evalbuddy, a local tool for
// scoring datasets of submitted answers under a configurable rubric.
//
// # Basic Usage
//
// Import a dataset and start evaluating:
//
//	evalbuddy dataset import answers.json --name "Midterm"
//	evalbuddy evaluate <session-id>
//
// Manage rubric configurations:
//
//	evalbuddy config create --type score --name "0-5 scale"
//	evalbuddy config import scale.conf
//
// Sessions persist locally; evaluation can stop and resume at any time.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ahrav/evalbuddy/internal/config"
	"github.com/ahrav/evalbuddy/internal/storage"
)

var (
	version = "dev"

	configPath string
)

func main() {
	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// This is separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evalbuddy",
		Short: "evalbuddy - evaluate submitted answers under a configurable rubric",
		Long: `evalbuddy works through a dataset of submitted answers, scoring each one
under a mastery, boolean, or numeric rubric. Progress is persisted locally
so a session can be resumed at any time.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg.Logging.Level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Path to configuration file")

	rootCmd.AddCommand(
		buildSessionCmd(),
		buildConfigCmd(),
		buildDatasetCmd(),
		buildEvaluateCmd(),
		buildSeedCmd(),
	)
	return rootCmd
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "evalbuddy.yaml"
	}
	return filepath.Join(home, ".evalbuddy", "evalbuddy.yaml")
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

// openStore loads the configuration and acquires the process-wide store
// handle, creating the storage directory on first use.
func openStore() (config.Config, *storage.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if dir := filepath.Dir(cfg.Storage.Path); dir != "." && cfg.Storage.Path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return config.Config{}, nil, fmt.Errorf("create storage directory: %w", err)
		}
	}
	store, err := storage.OpenOnce(cfg.Storage.Path)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, store, nil
}
