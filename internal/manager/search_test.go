package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawsonblock/vecindex/internal/idxerr"
)

func seedDocs(t *testing.T, m *Manager) {
	t.Helper()
	ctx := context.Background()
	docs := []struct {
		id   string
		vec  []float32
		text string
		md   map[string]string
	}{
		{"a", []float32{1, 0, 0, 0}, "alpha", map[string]string{"tag": "x"}},
		{"b", []float32{0, 1, 0, 0}, "beta", map[string]string{"tag": "y"}},
		{"c", []float32{0, 0, 1, 0}, "gamma", map[string]string{"tag": "x"}},
	}
	for _, d := range docs {
		_, err := m.Upsert(ctx, d.id, d.vec, d.text, d.md)
		require.NoError(t, err)
	}
}

func TestSearchReturnsNearestByCosineScore(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	seedDocs(t, m)

	results, err := m.Search(context.Background(), []float32{1, 0, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].DocID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
}

func TestSearchRespectsFilterNarrowingOnly(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	seedDocs(t, m)

	onlyX := func(md map[string]string) bool { return md["tag"] == "x" }
	results, err := m.Search(context.Background(), []float32{1, 0, 0, 0}, 3, onlyX)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "x", r.Metadata["tag"])
	}
}

func TestSearchRejectsNonPositiveK(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)

	_, err = m.Search(context.Background(), []float32{1, 0, 0, 0}, 0, nil)
	assert.Equal(t, idxerr.InvalidArgument, idxerr.KindOf(err))
}

func TestSearchRejectsWrongDimension(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)

	_, err = m.Search(context.Background(), []float32{1, 0}, 1, nil)
	assert.Equal(t, idxerr.InvalidArgument, idxerr.KindOf(err))
}

func TestSearchExcludesRemovedDocs(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	seedDocs(t, m)

	_, err = m.Remove(context.Background(), "a")
	require.NoError(t, err)

	results, err := m.Search(context.Background(), []float32{1, 0, 0, 0}, 3, nil)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, "a", r.DocID)
	}
}
