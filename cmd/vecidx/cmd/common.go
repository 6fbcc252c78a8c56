package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dawsonblock/vecindex/internal/config"
	"github.com/dawsonblock/vecindex/internal/snapshot"
	"github.com/dawsonblock/vecindex/pkg/vecindex"
)

// indexFlags holds the --config/--index pair every subcommand that touches
// a live index shares.
type indexFlags struct {
	configPath string
	indexPath  string
}

// addIndexFlags registers --config and --index on fs and returns the bound
// flag values.
func addIndexFlags(fs *pflag.FlagSet) *indexFlags {
	f := &indexFlags{}
	fs.StringVar(&f.configPath, "config", "", "Path to the index config YAML (required)")
	fs.StringVar(&f.indexPath, "index", "", "Snapshot path override (defaults to the config's index_path)")
	return f
}

// openIndex loads cfgPath, opens a fresh index, and restores it from
// indexPath (or cfg.IndexPath if indexPath is empty) when a snapshot
// already exists there. It is the single entry point every subcommand
// uses so `vecidx <op>` behaves like one atomic operation against the
// on-disk index rather than a long-running server.
func openIndex(ctx context.Context, f *indexFlags) (*vecindex.Index, string, error) {
	if f.configPath == "" {
		return nil, "", fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, "", err
	}

	path := f.indexPath
	if path == "" {
		path = cfg.IndexPath
	}

	idx, err := vecindex.Open(cfg)
	if err != nil {
		return nil, "", err
	}

	if path != "" && snapshot.Exists(path) {
		if _, err := idx.LoadFrom(ctx, path, true); err != nil {
			_ = idx.Close()
			return nil, "", fmt.Errorf("load snapshot %s: %w", path, err)
		}
	}
	return idx, path, nil
}

// saveIndex persists idx to path if path is non-empty; mutating
// subcommands call this before exiting so the CLI's effects survive the
// process, since vecidx has no resident server to keep state in memory.
func saveIndex(ctx context.Context, idx *vecindex.Index, path string) error {
	if path == "" {
		return nil
	}
	if err := idx.SaveAs(ctx, path); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}

// parseEmbedding parses a comma-separated list of floats, e.g. "0.1,0.2,0.3".
func parseEmbedding(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid embedding component %q: %w", p, err)
		}
		out = append(out, float32(v))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("embedding must contain at least one component")
	}
	return out, nil
}

// parseKeyValues parses a repeated --meta/--filter flag of the form
// key=value into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", kv)
		}
		out[k] = v
	}
	return out, nil
}
