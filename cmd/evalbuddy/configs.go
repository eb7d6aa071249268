package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ahrav/evalbuddy/internal/application"
	"github.com/ahrav/evalbuddy/internal/domain"
)

func buildConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage evaluation configurations",
	}
	cmd.AddCommand(
		buildConfigListCmd(),
		buildConfigCreateCmd(),
		buildConfigCloneCmd(),
		buildConfigDeleteCmd(),
		buildConfigImportCmd(),
		buildConfigExportCmd(),
	)
	return cmd
}

func buildConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			configs, err := store.ListConfigs(cmd.Context())
			if err != nil {
				return err
			}
			if len(configs) == 0 {
				fmt.Println("No configurations stored.")
				return nil
			}
			for _, c := range configs {
				fmt.Printf("%s  %-30s  %s\n", c.ID, c.Name, c.Type)
			}
			return nil
		},
	}
}

func buildConfigCreateCmd() *cobra.Command {
	var (
		evalType string
		name     string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a configuration from the defaults for its type",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			service := application.NewConfigService(store)
			cfg, err := service.Create(cmd.Context(), domain.EvaluationType(evalType), name, nil)
			if err != nil {
				return err
			}
			fmt.Printf("Created config %s (%s)\n", cfg.ID, cfg.Type)
			return nil
		},
	}
	cmd.Flags().StringVarP(&evalType, "type", "t", "mastery", "Evaluation type: mastery, boolean, or score")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Configuration name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func buildConfigCloneCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "clone <config-id>",
		Short: "Copy a configuration under a new name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			service := application.NewConfigService(store)
			clone, err := service.Clone(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			fmt.Printf("Cloned config %s as %s (%q)\n", args[0], clone.ID, clone.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name for the copy")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func buildConfigDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <config-id>",
		Short: "Delete a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.DeleteConfig(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted config %s\n", args[0])
			return nil
		},
	}
}

func buildConfigImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a configuration transport file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			transfer := application.NewTransferService(store)
			cfg, errs := transfer.ImportConfig(cmd.Context(), data)
			if len(errs) > 0 {
				for _, msg := range errs {
					fmt.Fprintf(os.Stderr, "  - %s\n", msg)
				}
				return fmt.Errorf("config failed import with %d error(s)", len(errs))
			}
			fmt.Printf("Imported config %s as %q\n", cfg.ID, cfg.Name)
			return nil
		},
	}
}

func buildConfigExportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export <config-id>",
		Short: "Export a configuration as a transport file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			cfg, err := store.GetConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			transfer := application.NewTransferService(store)
			data, filename, err := transfer.ExportConfig(cfg)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, filename)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write the export into")
	return cmd
}
