package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type removeOptions struct {
	docID string
}

func newRemoveCmd() *cobra.Command {
	var opts removeOptions

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Tombstone one document by id",
	}
	f := addIndexFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.docID, "doc-id", "", "Document id (required)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runRemove(cmd.Context(), cmd, f, opts)
	}
	return cmd
}

func runRemove(ctx context.Context, cmd *cobra.Command, f *indexFlags, opts removeOptions) error {
	if opts.docID == "" {
		return fmt.Errorf("--doc-id is required")
	}

	idx, path, err := openIndex(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	outcome, err := idx.Remove(ctx, opts.docID)
	if err != nil {
		return err
	}
	if err := saveIndex(ctx, idx, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", opts.docID, outcome)
	return nil
}
