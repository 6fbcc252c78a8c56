package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCompactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Rebuild the graph over live documents, reclaiming tombstones",
	}
	f := addIndexFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCompact(cmd.Context(), cmd, f)
	}
	return cmd
}

func runCompact(ctx context.Context, cmd *cobra.Command, f *indexFlags) error {
	idx, path, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	if err := idx.Compact(ctx); err != nil {
		return err
	}
	if err := saveIndex(ctx, idx, path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "compact complete")
	return nil
}
