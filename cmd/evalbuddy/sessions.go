package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ahrav/evalbuddy/internal/application"
	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/testutils"
)

func buildSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage evaluation sessions",
	}
	cmd.AddCommand(
		buildSessionListCmd(),
		buildSessionDeleteCmd(),
		buildSessionExportCmd(),
		buildSessionStatsCmd(),
	)
	return cmd
}

func buildSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			sessions, err := store.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions stored.")
				return nil
			}
			for _, s := range sessions {
				status := "in progress"
				if s.IsCompleted {
					status = "completed"
				}
				fmt.Printf("%s  %-30s  %s  %d/%d results  [%s]\n",
					s.ID, s.Name, s.Config.Type, len(s.Results), len(s.Dataset.Items), status)
			}
			return nil
		},
	}
}

func buildSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.DeleteSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted session %s\n", args[0])
			return nil
		},
	}
}

func buildSessionExportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session with its results and summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			transfer := application.NewTransferService(store)
			data, filename, err := transfer.ExportSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, filename)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported session to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write the export into")
	return cmd
}

func buildSessionStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <session-id>",
		Short: "Show result statistics for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			session, err := store.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			summary := session.Summarize()
			data, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func buildDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Import datasets",
	}
	cmd.AddCommand(buildDatasetImportCmd())
	return cmd
}

func buildDatasetImportCmd() *cobra.Command {
	var (
		name        string
		description string
		configID    string
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a dataset file and create a session from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, store, err := openStore()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}

			transfer := application.NewTransferService(store)
			dataset, errs := transfer.ImportDataset(data)
			if len(errs) > 0 {
				for _, msg := range errs {
					fmt.Fprintf(os.Stderr, "  - %s\n", msg)
				}
				return fmt.Errorf("dataset failed validation with %d error(s)", len(errs))
			}

			var sessionConfig *domain.EvaluationConfig
			if configID != "" {
				cfg, err := store.GetConfig(cmd.Context(), configID)
				if err != nil {
					return err
				}
				sessionConfig = &cfg
			}

			if name == "" {
				name = filepath.Base(args[0])
			}
			session, err := store.CreateSessionFromDataset(cmd.Context(), *dataset, name, description, sessionConfig)
			if err != nil {
				return err
			}
			if appCfg.Evaluator.Name != "" {
				session.EvaluatorName = appCfg.Evaluator.Name
				if err := store.PutSession(cmd.Context(), session); err != nil {
					return err
				}
			}
			fmt.Printf("Created session %s (%d questions, %d items)\n",
				session.ID, len(session.Dataset.QuestionList), len(session.Dataset.Items))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Session name (defaults to the file name)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Session description")
	cmd.Flags().StringVar(&configID, "config-id", "", "Attach a stored config instead of the default mastery rubric")
	return cmd
}

func buildSeedCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a session from the bundled sample dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			session, err := store.CreateSessionFromDataset(cmd.Context(), testutils.SampleDataset(), name, "Bundled sample dataset", nil)
			if err != nil {
				return err
			}
			fmt.Printf("Created sample session %s\n", session.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "Sample Evaluation", "Session name")
	return cmd
}
