package manager

import (
	"context"
	"time"

	"github.com/dawsonblock/vecindex/internal/docstore"
	"github.com/dawsonblock/vecindex/internal/idxerr"
	"github.com/dawsonblock/vecindex/internal/vecmath"
)

// pressureCompactRatio is the deleted_count()/size() threshold (spec
// section 4.2) above which pressure mode prefers compaction over growth:
// reclaiming tombstones is cheaper than growing storage that is mostly
// dead weight. Compared with >=, matching the spec's own wording, unlike
// health()'s degraded threshold which uses a strict >.
const pressureCompactRatio = 0.25

// Upsert admits or replaces docID. A new docID gets a fresh label; an
// existing docID keeps its identity but moves to a fresh label, the old
// one tombstoned in the same call (spec section 4.5: updates never
// overwrite a live label's vector in place).
func (m *Manager) Upsert(ctx context.Context, docID string, embedding []float32, text string, metadata map[string]string) (WriteOutcome, error) {
	if err := m.lock.lockExclusive(ctx); err != nil {
		return "", err
	}
	defer m.lock.unlockExclusive()

	outcome, err := m.upsertLocked(ctx, docID, embedding, text, metadata)
	if err != nil {
		return "", err
	}
	m.autosnap.maybeTrigger()
	return outcome, nil
}

// UpsertBatch applies each request in order under a single exclusive lock
// acquisition, so a batch is atomic with respect to any concurrent reader
// (it never observes a partially-applied batch), though a failure partway
// through still leaves the successfully-applied prefix committed — each
// request is independently all-or-nothing, not the batch as a whole.
func (m *Manager) UpsertBatch(ctx context.Context, reqs []UpsertRequest) ([]WriteOutcome, error) {
	if err := m.lock.lockExclusive(ctx); err != nil {
		return nil, err
	}
	defer m.lock.unlockExclusive()

	outcomes := make([]WriteOutcome, len(reqs))
	for i, req := range reqs {
		outcome, err := m.upsertLocked(ctx, req.DocID, req.Embedding, req.Text, req.Metadata)
		if err != nil {
			return outcomes[:i], err
		}
		outcomes[i] = outcome
	}
	m.autosnap.maybeTrigger()
	return outcomes, nil
}

// upsertLocked performs one upsert. Caller must already hold the exclusive
// lock.
func (m *Manager) upsertLocked(ctx context.Context, docID string, embedding []float32, text string, metadata map[string]string) (WriteOutcome, error) {
	if err := m.checkUsable(); err != nil {
		return "", err
	}
	if docID == "" {
		return "", idxerr.New(idxerr.InvalidArgument, "doc_id must not be empty", nil)
	}
	if len(embedding) != m.cfg.EmbeddingDim {
		return "", idxerr.New(idxerr.InvalidArgument, "embedding dimension does not match index dimension", nil).WithDoc(docID)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	if m.cfg.NormalizeEmbeddings {
		vecmath.NormalizeInPlace(vec)
	}

	oldLabel, existed := m.docs.LabelOf(docID)

	var newLabel uint64
	if existed {
		newLabel = m.docs.AllocateLabel()
	} else {
		newLabel, _ = m.docs.AssignOrGetLabel(docID)
	}

	if err := m.graph.Insert(newLabel, vec); err != nil {
		// C2 insertion failed: roll back by leaving the old label (if any)
		// live and untouched. For an update newLabel was only reserved in
		// the docstore's counter; for a new docID AssignOrGetLabel bound it,
		// so that binding is dropped again. No record was written yet.
		if !existed {
			m.docs.Erase(docID)
		}
		m.poison("graph insert failed for a freshly allocated label", err)
		return "", idxerr.New(idxerr.Internal, "graph insertion failed", err).WithDoc(docID)
	}

	now := time.Now()
	createdAt := now
	if existed {
		if prior, ok := m.docs.Get(oldLabel); ok {
			createdAt = prior.CreatedAt
		}
	}
	m.docs.PutRecord(&docstore.Record{
		DocID:     docID,
		Label:     newLabel,
		Embedding: vec,
		Text:      text,
		Metadata:  metadata,
		CreatedAt: createdAt,
		UpdatedAt: now,
	})

	outcome := Inserted
	if existed {
		m.graph.MarkDeleted(oldLabel)
		m.docs.Forget(oldLabel)
		m.counters.RecordUpdate()
		outcome = Updated
	} else {
		m.counters.RecordInsert()
	}

	// relievePressure runs after the write, not before it: an update's own
	// tombstone (just made above) has to be visible to the pressure check
	// for that same call, or the repeated-update scenario in spec section
	// 8 can never actually bring deleted_count back to zero — the
	// tombstone it produces would only ever be picked up by the *next*
	// call's check, leaving one stale tombstone behind forever.
	if err := m.relievePressure(ctx); err != nil {
		return "", err
	}
	return outcome, nil
}

// Remove tombstones docID's label and forgets its record. Removing an
// unknown docID is not an error; it reports NotFound via the outcome, not
// via the returned error.
func (m *Manager) Remove(ctx context.Context, docID string) (RemoveOutcome, error) {
	if err := m.lock.lockExclusive(ctx); err != nil {
		return "", err
	}
	defer m.lock.unlockExclusive()

	if err := m.checkUsable(); err != nil {
		return "", err
	}
	if docID == "" {
		return "", idxerr.New(idxerr.InvalidArgument, "doc_id must not be empty", nil)
	}

	label, ok := m.docs.Erase(docID)
	if !ok {
		return NotFound, nil
	}
	m.graph.MarkDeleted(label)
	m.counters.RecordRemove()
	m.autosnap.maybeTrigger()
	return Removed, nil
}

// relievePressure implements spec section 4.2's soft max_elements policy.
// It runs after a write has already landed, so a write's own tombstone (if
// it replaced an existing doc_id) is already counted: once
// size()+deleted_count() has reached max_elements, it compacts when
// tombstones make up at least pressureCompactRatio of the live set (the
// only lever that actually frees room). When pressure persists but there
// is nothing worth reclaiming — a run of brand new doc_ids with few or no
// tombstones — it does nothing rather than reject the write that already
// happened: growth is never rejected in this implementation, since both
// the graph and document store are backed by Go maps with no fixed
// capacity. CapacityExhausted is reserved for compactLocked itself
// failing, not for "no room to grow".
func (m *Manager) relievePressure(ctx context.Context) error {
	if m.cfg.MaxElements <= 0 {
		return nil
	}
	size := m.graph.Size()
	deleted := m.graph.DeletedCount()
	if size+deleted < m.cfg.MaxElements {
		return nil
	}
	if size == 0 || float64(deleted)/float64(size) < pressureCompactRatio {
		return nil
	}
	if err := m.compactLocked(ctx); err != nil {
		return idxerr.New(idxerr.CapacityExhausted, "pressure policy could not reclaim tombstones", err)
	}
	return nil
}
