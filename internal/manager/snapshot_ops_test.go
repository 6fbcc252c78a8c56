package manager

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawsonblock/vecindex/internal/idxerr"
)

func TestSaveAsThenLoadFromRestoresSearchBehavior(t *testing.T) {
	ctx := context.Background()
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	seedDocs(t, m)

	path := filepath.Join(t.TempDir(), "idx")
	require.NoError(t, m.SaveAs(ctx, path))

	fresh, err := Open(testConfig(4))
	require.NoError(t, err)
	status, err := fresh.LoadFrom(ctx, path, true)
	require.NoError(t, err)
	assert.Equal(t, StatusLoaded, status)

	assert.Equal(t, m.Health().DocCount, fresh.Health().DocCount)

	want, err := m.Search(ctx, []float32{1, 0, 0, 0}, 2, nil)
	require.NoError(t, err)
	got, err := fresh.Search(ctx, []float32{1, 0, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].DocID, got[i].DocID)
	}
}

func TestLoadFromMissingPathWithUpdateDefaultInitializesEmpty(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "missing")
	status, err := m.LoadFrom(context.Background(), path, true)
	require.NoError(t, err)
	assert.Equal(t, StatusInitializedEmpty, status)
	assert.Equal(t, 0, m.Health().DocCount)
}

func TestLoadFromMissingPathWithoutUpdateDefaultFails(t *testing.T) {
	m, err := Open(testConfig(4))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "missing")
	status, err := m.LoadFrom(context.Background(), path, false)
	require.Error(t, err)
	assert.Equal(t, StatusFailedMissing, status)
	assert.Equal(t, idxerr.NotFound, idxerr.KindOf(err))
}

func TestNewDocsAfterLoadGetFreshLabelsPastLoadedMax(t *testing.T) {
	ctx := context.Background()
	m, err := Open(testConfig(4))
	require.NoError(t, err)
	seedDocs(t, m)

	path := filepath.Join(t.TempDir(), "idx")
	require.NoError(t, m.SaveAs(ctx, path))

	fresh, err := Open(testConfig(4))
	require.NoError(t, err)
	_, err = fresh.LoadFrom(ctx, path, true)
	require.NoError(t, err)

	outcome, err := fresh.Upsert(ctx, "d", []float32{0, 0, 0, 1}, "delta", nil)
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)

	results, err := fresh.Search(ctx, []float32{0, 0, 0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "d", results[0].DocID)
}
