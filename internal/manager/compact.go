package manager

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dawsonblock/vecindex/internal/docstore"
	"github.com/dawsonblock/vecindex/internal/hnsw"
	"github.com/dawsonblock/vecindex/internal/idxerr"
)

// Compact rebuilds the graph and document store from scratch over only the
// currently-live records, densely renumbering labels from zero and
// discarding every tombstone (spec section 4.2: the only way to actually
// shrink size()+deleted_count() back down). It takes the exclusive lock
// itself; callers inside the manager that already hold it use
// compactLocked.
func (m *Manager) Compact(ctx context.Context) error {
	if err := m.lock.lockExclusive(ctx); err != nil {
		return err
	}
	defer m.lock.unlockExclusive()

	if err := m.checkUsable(); err != nil {
		return err
	}
	return m.compactLocked(ctx)
}

type compactEntry struct {
	rec      *docstore.Record
	newLabel uint64
	vector   []float32
}

// compactLocked assumes the exclusive lock is already held. The old graph
// and document store are only swapped in once the new pair is fully built,
// so a failure partway through (e.g. a corrupt embedding surfacing a
// dimension mismatch) leaves the previous, still-consistent pair in place.
func (m *Manager) compactLocked(ctx context.Context) error {
	live := m.docs.Iterate() // ascending by old label: a stable rebuild order

	newDocs := docstore.New(m.cfg.MaxElements)
	entries := make([]compactEntry, len(live))
	for i, rec := range live {
		label, _ := newDocs.AssignOrGetLabel(rec.DocID)
		entries[i] = compactEntry{rec: rec, newLabel: label}
	}

	// Preparing each record's vector (validation + copy) is independent
	// across entries, unlike the graph inserts below, so it runs
	// concurrently; the subsequent hnsw.Graph.Insert calls cannot, since
	// Graph mutates shared, unsynchronized state.
	g, gctx := errgroup.WithContext(ctx)
	for i := range entries {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v := entries[i].rec.Embedding
			if len(v) != m.cfg.EmbeddingDim {
				return idxerr.New(idxerr.Internal, "embedding dimension mismatch during compact", nil).WithDoc(entries[i].rec.DocID)
			}
			cp := make([]float32, len(v))
			copy(cp, v)
			entries[i].vector = cp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.poison("compact preparation failed", err)
		return idxerr.Wrap(idxerr.Internal, err)
	}

	newGraph := hnsw.New(graphConfig(m.cfg))
	for _, e := range entries {
		if err := newGraph.Insert(e.newLabel, e.vector); err != nil {
			m.poison("compact rebuild insert failed", err)
			return idxerr.New(idxerr.Internal, "compact rebuild failed", err).WithDoc(e.rec.DocID)
		}
		newDocs.PutRecord(&docstore.Record{
			DocID:     e.rec.DocID,
			Label:     e.newLabel,
			Embedding: e.vector,
			Text:      e.rec.Text,
			Metadata:  e.rec.Metadata,
			CreatedAt: e.rec.CreatedAt,
			UpdatedAt: e.rec.UpdatedAt,
		})
	}

	m.docs = newDocs
	m.graph = newGraph
	m.counters.RecordCompact()
	return nil
}
