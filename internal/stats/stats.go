// Package stats implements the index's additive counters and health probe
// (spec component C6). Like internal/hnsw and internal/docstore, Counters
// is not internally synchronized: internal/manager updates and reads it
// only while already holding L_index.
package stats

import (
	"time"

	"github.com/dawsonblock/vecindex/internal/hnsw"
)

// Status is the coarse-grained health classification health() returns.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusPoisoned Status = "poisoned"
)

// degradedDeletedRatio is the deleted_count/(doc_count+deleted_count)
// threshold above which health() reports degraded, per spec section 4.6.
const degradedDeletedRatio = 0.25

// Counters holds the purely additive lifecycle counters the manager updates
// on every successful operation.
type Counters struct {
	InsertCount         uint64
	UpdateCount         uint64
	RemoveCount         uint64
	CompactCount        uint64
	SnapshotCount       uint64
	WritesSinceSnapshot int
	LastSnapshotAt      time.Time
	HasSnapshotted      bool
}

// RecordInsert marks one new doc_id admitted.
func (c *Counters) RecordInsert() {
	c.InsertCount++
	c.WritesSinceSnapshot++
}

// RecordUpdate marks an existing doc_id's value replaced.
func (c *Counters) RecordUpdate() {
	c.UpdateCount++
	c.WritesSinceSnapshot++
}

// RecordRemove marks a doc_id tombstoned.
func (c *Counters) RecordRemove() {
	c.RemoveCount++
	c.WritesSinceSnapshot++
}

// RecordCompact marks a completed compact() pass.
func (c *Counters) RecordCompact() {
	c.CompactCount++
}

// RecordSnapshot marks a completed save_as, resetting the
// writes-since-last-snapshot counter the auto-snapshot policy consults.
func (c *Counters) RecordSnapshot(at time.Time) {
	c.SnapshotCount++
	c.WritesSinceSnapshot = 0
	c.LastSnapshotAt = at
	c.HasSnapshotted = true
}

// ShouldAutoSnapshot reports whether writes_since_last_snapshot has reached
// syncIntervalDocs. syncIntervalDocs <= 0 disables auto-snapshot entirely.
func (c *Counters) ShouldAutoSnapshot(syncIntervalDocs int) bool {
	return syncIntervalDocs > 0 && c.WritesSinceSnapshot >= syncIntervalDocs
}

// Health is the structured result of health() (spec section 4.6).
type Health struct {
	Status            Status
	DocCount          int
	DeletedRatio      float64
	LastSnapshotAgeMs int64
}

// Compute derives Health from current doc/deleted counts and the poisoned
// flag. now is injected so callers (and tests) control the clock instead of
// calling time.Now() inside the package.
func Compute(poisoned bool, docCount, deletedCount int, counters Counters, now time.Time) Health {
	ratio := deletedRatio(docCount, deletedCount)

	h := Health{
		Status:       StatusOK,
		DocCount:     docCount,
		DeletedRatio: ratio,
	}
	if counters.HasSnapshotted {
		h.LastSnapshotAgeMs = now.Sub(counters.LastSnapshotAt).Milliseconds()
	}

	switch {
	case poisoned:
		h.Status = StatusPoisoned
	case ratio > degradedDeletedRatio:
		h.Status = StatusDegraded
	}
	return h
}

func deletedRatio(docCount, deletedCount int) float64 {
	total := docCount + deletedCount
	if total == 0 {
		return 0
	}
	return float64(deletedCount) / float64(total)
}

// Diagnostics surfaces the graph-shape detail SPEC_FULL.md §3 adds beyond
// spec.md's own health() contract: a per-level population histogram and
// average out-degree, both read directly off the live graph.
type Diagnostics struct {
	LevelHistogram map[int]int
	AverageDegree  float64
}

// ComputeDiagnostics builds a Diagnostics snapshot from g.
func ComputeDiagnostics(g *hnsw.Graph) Diagnostics {
	return Diagnostics{
		LevelHistogram: g.LevelHistogram(),
		AverageDegree:  g.AverageDegree(),
	}
}
