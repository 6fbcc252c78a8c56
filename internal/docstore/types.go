// Package docstore implements the document store (spec component C3): the
// bidirectional mapping between caller-chosen doc_id strings and the
// internal uint64 labels internal/hnsw operates on, plus the record data
// (embedding, text, metadata, timestamps) the manager hydrates search
// results from.
//
// Store is not internally synchronized, for the same reason hnsw.Graph
// isn't: internal/manager's single L_index lock protects both together,
// since a label must exist in the document store and the graph or in
// neither (spec invariants I1/I2).
package docstore

import "time"

// Record is one document's stored payload, keyed externally by DocID and
// internally by Label. Metadata values are opaque scalars represented as
// strings; the core never interprets them.
type Record struct {
	DocID     string
	Label     uint64
	Embedding []float32
	Text      string
	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// clone returns a deep copy of r so callers can't mutate store-owned state
// through a returned pointer's slices/maps.
func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Embedding = append([]float32(nil), r.Embedding...)
	if r.Metadata != nil {
		cp.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
