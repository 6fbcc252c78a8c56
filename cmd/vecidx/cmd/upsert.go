package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type upsertOptions struct {
	docID     string
	embedding string
	text      string
	meta      []string
}

func newUpsertCmd() *cobra.Command {
	var opts upsertOptions

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Insert or replace one document",
	}
	f := addIndexFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.docID, "doc-id", "", "Document id (required)")
	cmd.Flags().StringVar(&opts.embedding, "embedding", "", "Comma-separated embedding, e.g. 0.1,0.2,0.3 (required)")
	cmd.Flags().StringVar(&opts.text, "text", "", "Document text payload")
	cmd.Flags().StringSliceVar(&opts.meta, "meta", nil, "Metadata key=value (repeatable)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runUpsert(cmd.Context(), cmd, f, opts)
	}
	return cmd
}

func runUpsert(ctx context.Context, cmd *cobra.Command, f *indexFlags, opts upsertOptions) error {
	if opts.docID == "" {
		return fmt.Errorf("--doc-id is required")
	}
	embedding, err := parseEmbedding(opts.embedding)
	if err != nil {
		return err
	}
	metadata, err := parseKeyValues(opts.meta)
	if err != nil {
		return err
	}

	idx, path, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	outcome, err := idx.Upsert(ctx, opts.docID, embedding, opts.text, metadata)
	if err != nil {
		return err
	}
	if err := saveIndex(ctx, idx, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", opts.docID, outcome)
	return nil
}
