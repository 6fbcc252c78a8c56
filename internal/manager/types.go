package manager

// WriteOutcome distinguishes the two ways upsert can succeed, per spec
// section 4.5.
type WriteOutcome string

const (
	Inserted WriteOutcome = "inserted"
	Updated  WriteOutcome = "updated"
)

// RemoveOutcome distinguishes the two ways remove can conclude.
type RemoveOutcome string

const (
	Removed  RemoveOutcome = "removed"
	NotFound RemoveOutcome = "not_found"
)

// LoadStatus is load_from's four-way result (spec section 4.5 / open
// question 1): loaded and initialized_empty both leave the index usable;
// failed leaves the pre-call in-memory state untouched.
type LoadStatus string

const (
	StatusLoaded           LoadStatus = "loaded"
	StatusFailed           LoadStatus = "failed"
	StatusFailedMissing    LoadStatus = "failed-missing"
	StatusInitializedEmpty LoadStatus = "initialized_empty"
)

// UpsertRequest is one document to admit via UpsertBatch.
type UpsertRequest struct {
	DocID     string
	Embedding []float32
	Text      string
	Metadata  map[string]string
}

// SearchResult is one hydrated, scored hit returned by Search.
type SearchResult struct {
	DocID    string
	Score    float32
	Text     string
	Metadata map[string]string
}

// Filter, when non-nil, is applied to a candidate's metadata after the
// graph search returns, which has already cut the list to k; candidates it
// rejects are dropped from those k. Filtering happens after the bounded ANN search,
// not before, so it can only narrow an already-approximate top-k — it does
// not widen the search to compensate for rejected candidates.
type Filter func(metadata map[string]string) bool
