package docstore

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultHydrateCacheSize bounds the hydration cache when the caller's
// max_elements hint is zero or negative (e.g. a store built outside the
// manager's Open path, such as in tests).
const defaultHydrateCacheSize = 1024

// Store holds every live document record, indexed both by doc_id and by
// label, plus an LRU hydration cache sized off the index's configured
// max_elements: the records map is the single source of truth (and the
// only thing persisted or iterated for snapshotting), while the cache
// exists purely to keep the Get/GetByDocID hot path off a full map lookup
// chain on repeated access to the same working set.
type Store struct {
	docToLabel map[string]uint64
	records    map[uint64]*Record
	nextLabel  uint64
	hydrate    *lru.Cache[uint64, *Record]
}

// New creates an empty Store. capacityHint should be the index's configured
// max_elements; it sizes the hydration cache, not the backing maps' final
// size (those grow normally).
func New(capacityHint int) *Store {
	size := capacityHint
	if size <= 0 {
		size = defaultHydrateCacheSize
	}
	cache, _ := lru.New[uint64, *Record](size)
	return &Store{
		docToLabel: make(map[string]uint64),
		records:    make(map[uint64]*Record),
		hydrate:    cache,
	}
}

// AssignOrGetLabel returns the label already bound to docID, or allocates
// and returns a fresh one (without creating a record yet — Put does that).
// Label allocation is strictly monotonic: tombstoned/erased labels are
// never reused until the manager's compact() renumbers the whole store.
func (s *Store) AssignOrGetLabel(docID string) (label uint64, existed bool) {
	if label, ok := s.docToLabel[docID]; ok {
		return label, true
	}
	label = s.nextLabel
	s.nextLabel++
	s.docToLabel[docID] = label
	return label, false
}

// AllocateLabel hands out a fresh label without binding it to any doc_id,
// for the manager's update path: spec section 4.5 requires an update to
// retire the doc_id's old label and mint a new one rather than overwrite
// the old label's vector in place, so the manager calls this instead of
// AssignOrGetLabel (which would just hand back the doc_id's existing label).
func (s *Store) AllocateLabel() uint64 {
	label := s.nextLabel
	s.nextLabel++
	return label
}

// PutRecord writes rec verbatim (label and doc_id must already agree with
// AssignOrGetLabel's bookkeeping) and binds rec.DocID to rec.Label. The
// timestamps are stored as rec carries them; PutRecord never sets them.
func (s *Store) PutRecord(rec *Record) {
	stored := rec.clone()
	s.records[stored.Label] = stored
	s.docToLabel[stored.DocID] = stored.Label
	s.hydrate.Add(stored.Label, stored)
}

// Get returns the record bound to label, if any.
func (s *Store) Get(label uint64) (*Record, bool) {
	if rec, ok := s.hydrate.Get(label); ok {
		return rec.clone(), true
	}
	rec, ok := s.records[label]
	if !ok {
		return nil, false
	}
	s.hydrate.Add(label, rec)
	return rec.clone(), true
}

// GetByDocID returns the record currently bound to docID, if any.
func (s *Store) GetByDocID(docID string) (*Record, bool) {
	label, ok := s.docToLabel[docID]
	if !ok {
		return nil, false
	}
	return s.Get(label)
}

// LabelOf returns the label currently bound to docID, if bound.
func (s *Store) LabelOf(docID string) (uint64, bool) {
	label, ok := s.docToLabel[docID]
	return label, ok
}

// Erase removes docID's record entirely and returns the label it occupied
// so the caller (the manager) can tombstone that label in the graph. It is
// a no-op returning ok=false if docID is unknown.
func (s *Store) Erase(docID string) (label uint64, ok bool) {
	label, ok = s.docToLabel[docID]
	if !ok {
		return 0, false
	}
	delete(s.docToLabel, docID)
	delete(s.records, label)
	s.hydrate.Remove(label)
	return label, true
}

// Forget drops the record stored under label without touching any doc_id
// binding. It exists for the manager's update path: AssignOrGetLabel/
// AllocateLabel plus PutRecord already rebind docID to a new label, leaving
// the old label's record orphaned (no doc_id points at it any more) but
// still sitting in the records map, which would otherwise inflate Count()
// and Iterate() with a copy of a document that is no longer reachable by
// any doc_id.
func (s *Store) Forget(label uint64) {
	delete(s.records, label)
	s.hydrate.Remove(label)
}

// Count returns the number of live records.
func (s *Store) Count() int {
	return len(s.records)
}

// Iterate returns every live record ordered ascending by label, the stable
// order internal/snapshot writes documents.jsonl in and the manager's
// compact() rebuilds in. (vectors.bin is built from the graph's vectors,
// not from these records.)
func (s *Store) Iterate() []*Record {
	labels := make([]uint64, 0, len(s.records))
	for label := range s.records {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	out := make([]*Record, len(labels))
	for i, label := range labels {
		out[i] = s.records[label].clone()
	}
	return out
}

// NextLabel reports the next label AssignOrGetLabel would allocate.
func (s *Store) NextLabel() uint64 {
	return s.nextLabel
}

// SetNextLabel moves the allocation counter forward to next; the manager's
// LoadFrom uses it to resume allocation past every label of a restored
// snapshot. A next at or below the current counter is ignored, so the
// counter never moves backward.
func (s *Store) SetNextLabel(next uint64) {
	if next > s.nextLabel {
		s.nextLabel = next
	}
}
