package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dawsonblock/vecindex/pkg/vecindex"
)

type searchOptions struct {
	embedding string
	k         int
	filter    []string
	jsonOut   bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the nearest documents to a query embedding",
	}
	f := addIndexFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.embedding, "embedding", "", "Comma-separated query embedding (required)")
	cmd.Flags().IntVar(&opts.k, "k", 10, "Number of results to return")
	cmd.Flags().StringSliceVar(&opts.filter, "filter", nil, "Require metadata key=value (repeatable, all must match)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), cmd, f, opts)
	}
	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, f *indexFlags, opts searchOptions) error {
	embedding, err := parseEmbedding(opts.embedding)
	if err != nil {
		return err
	}
	want, err := parseKeyValues(opts.filter)
	if err != nil {
		return err
	}

	idx, _, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	var filter vecindex.Filter
	if len(want) > 0 {
		filter = func(metadata map[string]string) bool {
			for k, v := range want {
				if metadata[k] != v {
					return false
				}
			}
			return true
		}
	}

	results, err := idx.Search(ctx, embedding, opts.k, filter)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s (score: %.4f) %s\n", i+1, r.DocID, r.Score, r.Text)
	}
	return nil
}
