// Package vecindex is the public entry point to the vector index (spec
// component C7): a thin translation layer over internal/manager that
// exposes plain Go types instead of the manager's internal record shape,
// so callers outside this module never import internal/docstore or
// internal/hnsw directly.
package vecindex

import (
	"context"

	"github.com/dawsonblock/vecindex/internal/config"
	"github.com/dawsonblock/vecindex/internal/manager"
	"github.com/dawsonblock/vecindex/internal/stats"
)

// Re-exported so callers never need to import internal/manager themselves.
type (
	WriteOutcome  = manager.WriteOutcome
	RemoveOutcome = manager.RemoveOutcome
	LoadStatus    = manager.LoadStatus
	UpsertRequest = manager.UpsertRequest
	SearchResult  = manager.SearchResult
	Filter        = manager.Filter
	Health        = stats.Health
	Diagnostics   = stats.Diagnostics
	Option        = manager.Option
)

const (
	Inserted = manager.Inserted
	Updated  = manager.Updated

	Removed  = manager.Removed
	NotFound = manager.NotFound

	StatusLoaded           = manager.StatusLoaded
	StatusFailed           = manager.StatusFailed
	StatusFailedMissing    = manager.StatusFailedMissing
	StatusInitializedEmpty = manager.StatusInitializedEmpty
)

// WithLogger overrides the default slog logger, as manager.WithLogger does.
var WithLogger = manager.WithLogger

// Document is the caller-facing, hydrated view of one indexed record,
// deliberately excluding the internal label the manager assigns each
// doc_id; callers never need to see it.
type Document struct {
	DocID     string
	Text      string
	Metadata  map[string]string
	Embedding []float32
}

// Index is one open vector index. It is safe for concurrent use from
// multiple goroutines, including concurrent calls to Upsert/Remove/Search
// from one goroutine racing Close or SaveAs/LoadFrom from another.
type Index struct {
	m *manager.Manager
}

// Open validates cfg and returns a fresh, empty Index. It never reads from
// cfg.IndexPath; call LoadFrom afterward to populate from an existing
// snapshot.
func Open(cfg config.IndexConfig, opts ...Option) (*Index, error) {
	m, err := manager.Open(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Index{m: m}, nil
}

// Close releases the index. Subsequent operations other than Close and
// Health return an Unavailable error.
func (idx *Index) Close() error {
	return idx.m.Close()
}

// Upsert admits or replaces docID with embedding, text, and metadata.
func (idx *Index) Upsert(ctx context.Context, docID string, embedding []float32, text string, metadata map[string]string) (WriteOutcome, error) {
	return idx.m.Upsert(ctx, docID, embedding, text, metadata)
}

// UpsertBatch applies every request atomically with respect to concurrent
// readers, in order.
func (idx *Index) UpsertBatch(ctx context.Context, reqs []UpsertRequest) ([]WriteOutcome, error) {
	return idx.m.UpsertBatch(ctx, reqs)
}

// Remove tombstones docID. Removing an unknown docID reports NotFound via
// the returned outcome, not as an error.
func (idx *Index) Remove(ctx context.Context, docID string) (RemoveOutcome, error) {
	return idx.m.Remove(ctx, docID)
}

// Search returns up to k documents nearest to query, most similar first.
// filter, if non-nil, narrows the ANN candidates after the bounded graph
// search runs.
func (idx *Index) Search(ctx context.Context, query []float32, k int, filter Filter) ([]SearchResult, error) {
	return idx.m.Search(ctx, query, k, filter)
}

// Get returns the current record for docID.
func (idx *Index) Get(ctx context.Context, docID string) (Document, error) {
	rec, err := idx.m.Get(ctx, docID)
	if err != nil {
		return Document{}, err
	}
	return Document{
		DocID:     rec.DocID,
		Text:      rec.Text,
		Metadata:  rec.Metadata,
		Embedding: rec.Embedding,
	}, nil
}

// Compact rebuilds the graph and document store over only the currently
// live records, reclaiming every tombstone.
func (idx *Index) Compact(ctx context.Context) error {
	return idx.m.Compact(ctx)
}

// SaveAs atomically writes the current index state to path.
func (idx *Index) SaveAs(ctx context.Context, path string) error {
	return idx.m.SaveAs(ctx, path)
}

// LoadFrom replaces the in-memory index with the snapshot at path. When
// updateDefault is true, path becomes the index's default snapshot path,
// the one future auto-snapshots are written to.
func (idx *Index) LoadFrom(ctx context.Context, path string, updateDefault bool) (LoadStatus, error) {
	return idx.m.LoadFrom(ctx, path, updateDefault)
}

// Health reports the coarse-grained health probe.
func (idx *Index) Health() Health {
	return idx.m.Health()
}

// Diagnostics reports the graph-shape detail beyond Health's scope.
func (idx *Index) Diagnostics(ctx context.Context) (Diagnostics, error) {
	return idx.m.Diagnostics(ctx)
}
