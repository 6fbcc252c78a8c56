package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newOpenCmd validates a config and, when a snapshot path is configured
// (--index, or else the config's index_path), ensures a snapshot exists at
// that path: an empty one is written if none does yet.
// It exists so a caller can provision an index directory before the first
// upsert without that first upsert silently doing it implicitly.
func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Validate a config and ensure its snapshot path is initialized",
	}
	f := addIndexFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runOpen(cmd.Context(), cmd, f)
	}
	return cmd
}

func runOpen(ctx context.Context, cmd *cobra.Command, f *indexFlags) error {
	idx, path, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "config is valid; no index_path configured, nothing to initialize")
		return nil
	}
	if err := saveIndex(ctx, idx, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "index ready at %s\n", path)
	return nil
}
