package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type healthOptions struct {
	jsonOut bool
}

func newHealthCmd() *cobra.Command {
	var opts healthOptions

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show the coarse-grained health probe (status, doc count, deleted ratio)",
	}
	f := addIndexFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runHealth(cmd.Context(), cmd, f, opts)
	}
	return cmd
}

func runHealth(ctx context.Context, cmd *cobra.Command, f *indexFlags, opts healthOptions) error {
	idx, _, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	h := idx.Health()

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "status:               %s\n", h.Status)
	fmt.Fprintf(w, "doc_count:            %d\n", h.DocCount)
	fmt.Fprintf(w, "deleted_ratio:        %.4f\n", h.DeletedRatio)
	fmt.Fprintf(w, "last_snapshot_age_ms: %d\n", h.LastSnapshotAgeMs)
	return nil
}
