package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() IndexConfig {
	cfg := DefaultIndexConfig()
	cfg.EmbeddingDim = 4
	return cfg
}

func TestDefaultIndexConfigIsInvalidWithoutDimension(t *testing.T) {
	cfg := DefaultIndexConfig()
	assert.Error(t, cfg.Validate())
}

func TestValidConfigPasses(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveDimension(t *testing.T) {
	cfg := validConfig()
	cfg.EmbeddingDim = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMBelowTwo(t *testing.T) {
	cfg := validConfig()
	cfg.M = 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEfConstructionBelowM(t *testing.T) {
	cfg := validConfig()
	cfg.M = 16
	cfg.EfConstruction = 8
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeMaxElements(t *testing.T) {
	cfg := validConfig()
	cfg.MaxElements = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeSyncInterval(t *testing.T) {
	cfg := validConfig()
	cfg.SyncIntervalDocs = -1
	assert.Error(t, cfg.Validate())
}

func TestMetricKindTracksNormalizeFlag(t *testing.T) {
	cfg := validConfig()
	cfg.NormalizeEmbeddings = true
	assert.Equal(t, MetricCosine, cfg.MetricKind())

	cfg.NormalizeEmbeddings = false
	assert.Equal(t, MetricEuclidean, cfg.MetricKind())
}

func TestWriteYAMLThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.yaml")

	cfg := validConfig()
	cfg.IndexPath = filepath.Join(dir, "snapshot")
	cfg.M = 24
	cfg.EfConstruction = 200

	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsInvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.yaml")
	cfg := DefaultIndexConfig() // embedding_dim left at 0: invalid
	require.NoError(t, cfg.WriteYAML(path))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
