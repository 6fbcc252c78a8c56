package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dawsonblock/vecindex/internal/config"
	"github.com/dawsonblock/vecindex/pkg/vecindex"
)

// newSnapshotCmd groups explicit save/load operations against a path other
// than the config's default index_path, distinct from the implicit
// load-then-save every other mutating subcommand performs against it.
func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save or load an index snapshot explicitly",
	}
	cmd.AddCommand(newSnapshotSaveCmd())
	cmd.AddCommand(newSnapshotLoadCmd())
	return cmd
}

func newSnapshotSaveCmd() *cobra.Command {
	var configPath, dest string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Load the configured index and save it to an explicit path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotSave(cmd.Context(), cmd, configPath, dest)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the index config YAML (required)")
	cmd.Flags().StringVar(&dest, "to", "", "Destination snapshot path (required)")
	return cmd
}

func runSnapshotSave(ctx context.Context, cmd *cobra.Command, configPath, dest string) error {
	if dest == "" {
		return fmt.Errorf("--to is required")
	}
	f := &indexFlags{configPath: configPath}
	idx, _, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	if err := idx.SaveAs(ctx, dest); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved to %s\n", dest)
	return nil
}

func newSnapshotLoadCmd() *cobra.Command {
	var configPath, src string
	var updateDefault bool

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a snapshot from an explicit path and report its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotLoad(cmd.Context(), cmd, configPath, src, updateDefault)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the index config YAML (required)")
	cmd.Flags().StringVar(&src, "from", "", "Source snapshot path (required)")
	cmd.Flags().BoolVar(&updateDefault, "update-default", false, "Make this path the index's default snapshot path")
	return cmd
}

func runSnapshotLoad(ctx context.Context, cmd *cobra.Command, configPath, src string, updateDefault bool) error {
	if configPath == "" {
		return fmt.Errorf("--config is required")
	}
	if src == "" {
		return fmt.Errorf("--from is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	idx, err := vecindex.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	status, err := idx.LoadFrom(ctx, src, updateDefault)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", status)
	return nil
}
