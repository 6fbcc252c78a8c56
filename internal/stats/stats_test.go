package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dawsonblock/vecindex/internal/hnsw"
	"github.com/dawsonblock/vecindex/internal/vecmath"
)

func TestRecordInsertUpdateRemoveIncrementCounters(t *testing.T) {
	var c Counters
	c.RecordInsert()
	c.RecordUpdate()
	c.RecordRemove()

	assert.Equal(t, uint64(1), c.InsertCount)
	assert.Equal(t, uint64(1), c.UpdateCount)
	assert.Equal(t, uint64(1), c.RemoveCount)
	assert.Equal(t, 3, c.WritesSinceSnapshot)
}

func TestRecordSnapshotResetsWriteCounter(t *testing.T) {
	var c Counters
	c.RecordInsert()
	c.RecordInsert()
	now := time.Now()
	c.RecordSnapshot(now)

	assert.Equal(t, 0, c.WritesSinceSnapshot)
	assert.Equal(t, uint64(1), c.SnapshotCount)
	assert.True(t, c.HasSnapshotted)
	assert.True(t, c.LastSnapshotAt.Equal(now))
}

func TestShouldAutoSnapshotRespectsIntervalAndDisableFlag(t *testing.T) {
	var c Counters
	c.RecordInsert()
	c.RecordInsert()

	assert.False(t, c.ShouldAutoSnapshot(0)) // 0 disables
	assert.False(t, c.ShouldAutoSnapshot(5))
	assert.True(t, c.ShouldAutoSnapshot(2))
}

func TestComputeHealthOK(t *testing.T) {
	var c Counters
	c.RecordSnapshot(time.Now())
	h := Compute(false, 10, 1, c, time.Now())
	assert.Equal(t, StatusOK, h.Status)
	assert.Equal(t, 10, h.DocCount)
}

func TestComputeHealthDegradedOnDeletedRatio(t *testing.T) {
	var c Counters
	h := Compute(false, 3, 2, c, time.Now()) // 2/5 = 0.4 > 0.25
	assert.Equal(t, StatusDegraded, h.Status)
	assert.InDelta(t, 0.4, h.DeletedRatio, 1e-9)
}

func TestComputeHealthPoisonedOverridesDegraded(t *testing.T) {
	var c Counters
	h := Compute(true, 3, 2, c, time.Now())
	assert.Equal(t, StatusPoisoned, h.Status)
}

func TestComputeHealthZeroDocsHasZeroRatio(t *testing.T) {
	var c Counters
	h := Compute(false, 0, 0, c, time.Now())
	assert.Equal(t, StatusOK, h.Status)
	assert.Equal(t, float64(0), h.DeletedRatio)
}

func TestComputeDiagnosticsReflectsGraphShape(t *testing.T) {
	g := hnsw.New(hnsw.Config{Dim: 2, M: 8, EfConstruction: 16, Distance: vecmath.CosineDistance, Seed: 3})
	_ = g.Insert(1, []float32{1, 0})
	_ = g.Insert(2, []float32{0, 1})

	diag := ComputeDiagnostics(g)
	assert.NotNil(t, diag.LevelHistogram)
	assert.GreaterOrEqual(t, diag.AverageDegree, float64(0))
}
