package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type getOptions struct {
	docID   string
	jsonOut bool
}

func newGetCmd() *cobra.Command {
	var opts getOptions

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch one document by id",
	}
	f := addIndexFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.docID, "doc-id", "", "Document id (required)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runGet(cmd.Context(), cmd, f, opts)
	}
	return cmd
}

func runGet(ctx context.Context, cmd *cobra.Command, f *indexFlags, opts getOptions) error {
	if opts.docID == "" {
		return fmt.Errorf("--doc-id is required")
	}

	idx, _, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	doc, err := idx.Get(ctx, opts.docID)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "doc_id: %s\n", doc.DocID)
	fmt.Fprintf(w, "text:   %s\n", doc.Text)
	for k, v := range doc.Metadata {
		fmt.Fprintf(w, "meta:   %s=%s\n", k, v)
	}
	return nil
}
