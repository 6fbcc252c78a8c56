package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dawsonblock/vecindex/internal/logging"
)

func newLogsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the debug log file written by --debug runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, path)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Explicit log file path (defaults to ~/.vecindex/logs/index.log)")
	return cmd
}

func runLogs(cmd *cobra.Command, explicit string) error {
	logPath, err := logging.FindLogFile(explicit)
	if err != nil {
		return err
	}

	f, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", logPath, err)
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(cmd.OutOrStdout(), f)
	return err
}
