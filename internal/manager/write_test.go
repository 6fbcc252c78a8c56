package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawsonblock/vecindex/internal/idxerr"
)

func TestUpsertInsertsThenUpdatesSameDocID(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	ctx := context.Background()

	outcome, err := m.Upsert(ctx, "a", []float32{1, 0, 0, 0}, "alpha", nil)
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)

	outcome, err = m.Upsert(ctx, "a", []float32{0, 1, 0, 0}, "alpha2", nil)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	rec, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha2", rec.Text)
	assert.Equal(t, []float32{0, 1, 0, 0}, rec.Embedding)

	h := m.Health()
	assert.Equal(t, 1, h.DocCount)
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)

	_, err = m.Upsert(context.Background(), "a", []float32{1, 0}, "alpha", nil)
	assert.Equal(t, idxerr.InvalidArgument, idxerr.KindOf(err))
}

func TestUpsertRejectsEmptyDocID(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)

	_, err = m.Upsert(context.Background(), "", []float32{1, 0, 0, 0}, "alpha", nil)
	assert.Equal(t, idxerr.InvalidArgument, idxerr.KindOf(err))
}

func TestUpsertBatchInsertsEveryRequest(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	ctx := context.Background()

	reqs := []UpsertRequest{
		{DocID: "a", Embedding: []float32{1, 0, 0, 0}, Text: "a"},
		{DocID: "b", Embedding: []float32{0, 1, 0, 0}, Text: "b"},
		{DocID: "c", Embedding: []float32{0, 0, 1, 0}, Text: "c"},
	}
	outcomes, err := m.UpsertBatch(ctx, reqs)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.Equal(t, Inserted, o)
	}
	assert.Equal(t, 3, m.Health().DocCount)
}

func TestRemoveTombstonesAndFreesDocID(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.Upsert(ctx, "a", []float32{1, 0, 0, 0}, "alpha", nil)
	require.NoError(t, err)

	outcome, err := m.Remove(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)

	_, err = m.Get(ctx, "a")
	assert.Equal(t, idxerr.NotFound, idxerr.KindOf(err))

	h := m.Health()
	assert.Equal(t, 0, h.DocCount)
}

func TestRemoveUnknownDocIDReportsNotFoundOutcomeNotError(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)

	outcome, err := m.Remove(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, NotFound, outcome)
}

// TestPressureModeCompactsUnderRepeatedUpdates exercises spec section 4.2's
// pressure policy and the worked scenario of spec section 8: a tightly
// capped max_elements forces repeated updates of the same doc_id through
// compaction rather than ever returning CapacityExhausted, since there is
// always a live record's tombstone available to reclaim.
func TestPressureModeCompactsUnderRepeatedUpdates(t *testing.T) {
	cfg := testConfig(2)
	cfg.MaxElements = 4
	m, err := Open(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	docs := []struct {
		id  string
		vec []float32
	}{
		{"a", []float32{1, 0}},
		{"b", []float32{0, 1}},
		{"c", []float32{-1, 0}},
		{"d", []float32{0, -1}},
	}
	for _, d := range docs {
		_, err := m.Upsert(ctx, d.id, d.vec, d.id, nil)
		require.NoError(t, err)
	}

	for i := 0; i < 4; i++ {
		_, err := m.Upsert(ctx, "a", []float32{1, 0}, "a-updated", nil)
		require.NoError(t, err, "update %d should succeed via grow-or-compact", i)
	}

	h := m.Health()
	assert.Equal(t, 4, h.DocCount)
	assert.Equal(t, 0.0, h.DeletedRatio, "every update's tombstone must be reclaimed by the same call's pressure check")
}
