package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

type statsOptions struct {
	jsonOut bool
}

func newStatsCmd() *cobra.Command {
	var opts statsOptions

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show graph-shape diagnostics (level histogram, average degree)",
	}
	f := addIndexFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runStats(cmd.Context(), cmd, f, opts)
	}
	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, f *indexFlags, opts statsOptions) error {
	idx, _, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	diag, err := idx.Diagnostics(ctx)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(diag)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "average degree: %.2f\n", diag.AverageDegree)
	fmt.Fprintln(w, "level histogram:")
	levels := make([]int, 0, len(diag.LevelHistogram))
	for level := range diag.LevelHistogram {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		fmt.Fprintf(w, "  level %d: %d\n", level, diag.LevelHistogram[level])
	}
	return nil
}
