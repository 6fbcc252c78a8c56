// Package config defines the vector index's configuration schema
// (IndexConfig), its validation rules, and YAML load/save, mirroring how
// the teacher project layers project/user config with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Metric names the distance function an index is built with. It is fixed
// for the lifetime of an index: changing it requires a fresh open() with a
// new IndexConfig, never an in-place mutation.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// IndexConfig is the caller-supplied, validated configuration an index is
// opened with (spec section 3, "IndexConfig"). It is immutable after Open
// succeeds; SaveAs/LoadFrom persist and restore it verbatim as part of
// manifest.json.
type IndexConfig struct {
	// EmbeddingDim is the fixed vector length every stored embedding must
	// have.
	EmbeddingDim int `yaml:"embedding_dim" json:"embedding_dim"`

	// MaxElements is a soft upper bound: once live plus tombstoned nodes
	// reach it, upsert enters pressure mode and compacts when tombstones
	// make up at least a quarter of the live set; otherwise storage simply
	// grows, so CapacityExhausted is returned only when that compaction
	// fails. Zero means unbounded.
	MaxElements int `yaml:"max_elements" json:"max_elements"`

	// M is the maximum bidirectional links per node at layers >= 1 (2M at
	// layer 0).
	M int `yaml:"m" json:"m"`

	// EfConstruction is the build-time candidate list size; must be >= M.
	EfConstruction int `yaml:"ef_construction" json:"ef_construction"`

	// EfSearch is the query-time candidate list size every search uses; a
	// search whose k is larger widens the list to k.
	EfSearch int `yaml:"ef_search" json:"ef_search"`

	// NormalizeEmbeddings, when true, L2-normalizes every embedding on
	// admission and fixes the index's distance function to cosine;
	// otherwise the index uses squared Euclidean distance.
	NormalizeEmbeddings bool `yaml:"normalize_embeddings" json:"normalize_embeddings"`

	// SyncIntervalDocs schedules a background snapshot to IndexPath after
	// every N successful writes. Zero disables auto-snapshot.
	SyncIntervalDocs int `yaml:"sync_interval_docs" json:"sync_interval_docs"`

	// IndexPath is the filesystem prefix snapshots are written to and
	// loaded from by default.
	IndexPath string `yaml:"index_path" json:"index_path"`

	// Seed makes HNSW level assignment reproducible; zero lets the graph
	// pick its own fixed default.
	Seed int64 `yaml:"seed" json:"seed"`
}

// MetricKind derives the distance function selector from NormalizeEmbeddings,
// per spec section 4.2: cosine when normalization is on, Euclidean
// otherwise. This is computed, not stored, so it can never drift from the
// flag it depends on.
func (c IndexConfig) MetricKind() Metric {
	if c.NormalizeEmbeddings {
		return MetricCosine
	}
	return MetricEuclidean
}

// DefaultIndexConfig returns a small, conservative configuration suitable
// for tests and ad-hoc CLI use; production callers are expected to tune
// M/EfConstruction/EfSearch for their corpus size and latency budget.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		EmbeddingDim:        0, // caller must set; there is no sane default dimension
		MaxElements:         0,
		M:                   16,
		EfConstruction:      128,
		EfSearch:            64,
		NormalizeEmbeddings: true,
		SyncIntervalDocs:    0,
		IndexPath:           "",
		Seed:                0,
	}
}

// Validate checks IndexConfig against the invariants spec section 6 names
// explicitly (embedding_dim <= 0, M < 2, ef_construction < M, ...). The
// manager wraps any returned error as idxerr.InvalidConfig at Open.
func (c IndexConfig) Validate() error {
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("embedding_dim must be positive, got %d", c.EmbeddingDim)
	}
	if c.M < 2 {
		return fmt.Errorf("m must be >= 2, got %d", c.M)
	}
	if c.EfConstruction < c.M {
		return fmt.Errorf("ef_construction must be >= m, got ef_construction=%d m=%d", c.EfConstruction, c.M)
	}
	if c.EfSearch < 1 {
		return fmt.Errorf("ef_search must be >= 1, got %d", c.EfSearch)
	}
	if c.MaxElements < 0 {
		return fmt.Errorf("max_elements must be non-negative, got %d", c.MaxElements)
	}
	if c.SyncIntervalDocs < 0 {
		return fmt.Errorf("sync_interval_docs must be non-negative, got %d", c.SyncIntervalDocs)
	}
	return nil
}

// Load reads an IndexConfig from a YAML file at path, starting from
// DefaultIndexConfig so fields the file omits keep their defaults, and
// validates the result before returning it.
func Load(path string) (IndexConfig, error) {
	cfg := DefaultIndexConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return IndexConfig{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return IndexConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return IndexConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// WriteYAML writes cfg to path, creating parent directories as needed.
func (c IndexConfig) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}
