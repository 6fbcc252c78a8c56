package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactReclaimsTombstonesWithoutLosingLiveDocs(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	ctx := context.Background()
	seedDocs(t, m)

	_, err = m.Upsert(ctx, "a", []float32{1, 0, 0, 0}, "alpha-v2", nil)
	require.NoError(t, err)

	require.NoError(t, m.Compact(ctx))

	h := m.Health()
	assert.Equal(t, 3, h.DocCount)
	assert.Equal(t, float64(0), h.DeletedRatio)

	rec, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha-v2", rec.Text)

	results, err := m.Search(ctx, []float32{0, 1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].DocID)
}

func TestCompactOnEmptyIndexIsNoop(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)

	require.NoError(t, m.Compact(context.Background()))
	assert.Equal(t, 0, m.Health().DocCount)
}
