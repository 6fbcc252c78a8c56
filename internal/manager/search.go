package manager

import (
	"context"

	"github.com/dawsonblock/vecindex/internal/idxerr"
	"github.com/dawsonblock/vecindex/internal/vecmath"
)

// Search returns up to k live documents nearest to query, ranked
// descending by score. When the index is cosine-metric, score is
// similarity in [-1, 1] (1 - distance, since CosineDistance is 1 -
// cosine-similarity); otherwise score is the negated squared Euclidean
// distance, so "higher is better" holds either way. filter, if non-nil,
// narrows the ANN candidates after the bounded graph search, so it can
// only shrink an already-approximate top-k, never widen it.
func (m *Manager) Search(ctx context.Context, query []float32, k int, filter Filter) ([]SearchResult, error) {
	if err := m.lock.lockShared(ctx); err != nil {
		return nil, err
	}
	defer m.lock.unlockShared()

	if err := m.checkUsable(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, idxerr.New(idxerr.InvalidArgument, "k must be positive", nil)
	}
	if len(query) != m.cfg.EmbeddingDim {
		return nil, idxerr.New(idxerr.InvalidArgument, "query dimension does not match index dimension", nil)
	}

	cosine := m.cfg.NormalizeEmbeddings
	q := query
	if cosine {
		q = make([]float32, len(query))
		copy(q, query)
		vecmath.NormalizeInPlace(q)
	}

	hits := m.graph.Search(q, k, m.cfg.EfSearch)

	out := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		rec, ok := m.docs.Get(h.Label)
		if !ok {
			// The label was live in the graph but its record is gone from
			// the document store: this would violate the co-invariant the
			// manager exists to uphold (I1/I2), so treat it as a poisoning
			// internal error rather than silently dropping the hit.
			m.poison("search hit a label with no document record", nil)
			return nil, idxerr.New(idxerr.Internal, "index invariant violated: label live in graph but absent from document store", nil)
		}
		if filter != nil && !filter(rec.Metadata) {
			continue
		}
		score := -h.Distance
		if cosine {
			score = 1 - h.Distance
		}
		out = append(out, SearchResult{
			DocID:    rec.DocID,
			Score:    score,
			Text:     rec.Text,
			Metadata: rec.Metadata,
		})
	}
	return out, nil
}
