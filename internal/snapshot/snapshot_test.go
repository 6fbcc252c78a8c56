package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawsonblock/vecindex/internal/config"
	"github.com/dawsonblock/vecindex/internal/docstore"
	"github.com/dawsonblock/vecindex/internal/hnsw"
	"github.com/dawsonblock/vecindex/internal/idxerr"
	"github.com/dawsonblock/vecindex/internal/vecmath"
)

func sampleData() Data {
	cfg := config.DefaultIndexConfig()
	cfg.EmbeddingDim = 4
	cfg.IndexPath = "/tmp/example"

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []*docstore.Record{
		{DocID: "a", Label: 0, Text: "alpha", Metadata: map[string]string{"k": "v"}, CreatedAt: now, UpdatedAt: now},
		{DocID: "b", Label: 1, Text: "beta", Metadata: nil, CreatedAt: now, UpdatedAt: now},
	}

	graph := hnsw.New(hnsw.Config{Dim: 4, M: 8, EfConstruction: 16, Distance: vecmath.CosineDistance, Seed: 1})
	_ = graph.Insert(0, []float32{1, 0, 0, 0})
	_ = graph.Insert(1, []float32{0, 1, 0, 0})

	return Data{
		Config:   cfg,
		Records:  records,
		Graph:    graph.Export(),
		Vectors:  graph.Vectors(),
		DocCount: 2,
		Deleted:  0,
	}
}

func TestSaveAsThenLoadFromRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap")

	data := sampleData()
	require.NoError(t, SaveAs(path, data))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, data.Config, loaded.Config)
	assert.Equal(t, data.DocCount, loaded.DocCount)
	assert.Equal(t, data.Deleted, loaded.Deleted)
	require.Len(t, loaded.Records, 2)
	assert.Equal(t, "a", loaded.Records[0].DocID)
	assert.Equal(t, []float32{1, 0, 0, 0}, loaded.Vectors[0])
	assert.Equal(t, data.Graph.Entry, loaded.Graph.Entry)
	assert.Len(t, loaded.Graph.Nodes, 2)
}

func TestSaveAsOverwritesPreviousGenerationAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap")

	first := sampleData()
	require.NoError(t, SaveAs(path, first))

	second := sampleData()
	second.DocCount = 5
	require.NoError(t, SaveAs(path, second))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.DocCount)

	// no .old directory should survive a clean swap
	_, statErr := os.Stat(path + ".old")
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadFromMissingPathReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFrom(filepath.Join(dir, "does-not-exist"))
	require.Error(t, err)
	assert.Equal(t, idxerr.NotFound, idxerr.KindOf(err))
}

func TestLoadFromCorruptedChecksumFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap")
	require.NoError(t, SaveAs(path, sampleData()))

	// corrupt one data file after the fact so its checksum no longer matches
	docsPath := filepath.Join(path, fileDocuments)
	require.NoError(t, os.WriteFile(docsPath, []byte("tampered\n"), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Equal(t, idxerr.IoError, idxerr.KindOf(err))
}

func TestLoadFromUnsupportedFormatVersionFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap")
	require.NoError(t, SaveAs(path, sampleData()))

	manifest, err := readManifest(filepath.Join(path, fileManifest))
	require.NoError(t, err)
	manifest.FormatVersion = CurrentFormatVersion + 1
	require.NoError(t, writeManifest(filepath.Join(path, fileManifest), manifest))
	require.NoError(t, writeChecksums(path, dataFiles))

	_, err = LoadFrom(path)
	require.Error(t, err)
	assert.Equal(t, idxerr.VersionMismatch, idxerr.KindOf(err))
}

func TestExistsReflectsManifestPresence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap")
	assert.False(t, Exists(path))

	require.NoError(t, SaveAs(path, sampleData()))
	assert.True(t, Exists(path))
}
