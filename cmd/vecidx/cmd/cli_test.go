package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawsonblock/vecindex/internal/config"
)

// writeTestConfig writes a small, valid IndexConfig to dir/config.yaml and
// returns its path.
func writeTestConfig(t *testing.T, dir string, indexPath string) string {
	t.Helper()
	cfg := config.DefaultIndexConfig()
	cfg.EmbeddingDim = 3
	cfg.M = 4
	cfg.EfConstruction = 8
	cfg.EfSearch = 8
	cfg.IndexPath = indexPath
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))
	return path
}

// run executes root with args and returns combined stdout/stderr.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestUpsertSearchGetRemoveRoundTripThroughCLI(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "idx")
	cfgPath := writeTestConfig(t, dir, indexPath)

	out, err := run(t, "upsert", "--config", cfgPath, "--doc-id", "a",
		"--embedding", "1,0,0", "--text", "alpha", "--meta", "k=v")
	require.NoError(t, err)
	assert.Contains(t, out, "inserted")

	out, err = run(t, "get", "--config", cfgPath, "--doc-id", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")

	out, err = run(t, "search", "--config", cfgPath, "--embedding", "1,0,0", "--k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "a")

	out, err = run(t, "health", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "doc_count:            1")

	out, err = run(t, "remove", "--config", cfgPath, "--doc-id", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	out, err = run(t, "remove", "--config", cfgPath, "--doc-id", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "not_found")
}

func TestSnapshotSaveThenLoadThroughCLI(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "idx")
	cfgPath := writeTestConfig(t, dir, indexPath)

	_, err := run(t, "upsert", "--config", cfgPath, "--doc-id", "a", "--embedding", "1,0,0")
	require.NoError(t, err)

	dest := filepath.Join(dir, "explicit-snapshot")
	out, err := run(t, "snapshot", "save", "--config", cfgPath, "--to", dest)
	require.NoError(t, err)
	assert.Contains(t, out, dest)

	out, err = run(t, "snapshot", "load", "--config", cfgPath, "--from", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded")
}

func TestUpsertRequiresDocID(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, filepath.Join(dir, "idx"))

	_, err := run(t, "upsert", "--config", cfgPath, "--embedding", "1,0,0")
	assert.Error(t, err)
}

func TestOpenWithoutIndexPathReportsNothingToInitialize(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "")

	out, err := run(t, "open", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to initialize")
}
