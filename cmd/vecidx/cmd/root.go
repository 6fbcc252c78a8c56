// Package cmd provides the CLI commands for vecidx, the administrative
// tool over a single vector index.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dawsonblock/vecindex/internal/logging"
	"github.com/dawsonblock/vecindex/pkg/version"
)

// Debug logging flag, mirroring the teacher's root command.
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the vecidx CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vecidx",
		Short: "Administrative CLI for a vecindex vector index",
		Long: `vecidx is a debug and operations tool for a single vector index:
upsert, search, remove, and compact documents, inspect health and
diagnostics, and save or load snapshots from the command line.

It is not a network-facing server; every subcommand opens the index
for the duration of one command and, for mutating commands, persists
the result back to the snapshot path before exiting.`,
		Version: version.Version,
	}
	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.vecindex/logs/")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newOpenCmd())
	cmd.AddCommand(newUpsertCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newCompactCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newLogsCmd())

	return cmd
}

// startLogging enables debug logging if --debug was passed.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

// stopLogging flushes and closes debug logging.
func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
