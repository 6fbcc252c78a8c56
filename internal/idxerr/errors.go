// Package idxerr provides the structured error vocabulary for the vector
// index subsystem. Every public operation of the index manager fails with
// one of a fixed set of Kinds rather than an ad-hoc error string, so callers
// can branch on failure class without parsing messages.
package idxerr

import "fmt"

// Kind classifies a failure. See spec section 7 for the authoritative list.
type Kind string

const (
	// InvalidArgument covers bad dimension, empty doc_id, negative k,
	// malformed metadata — anything wrong with the caller's input.
	InvalidArgument Kind = "InvalidArgument"
	// InvalidConfig is returned by Open when an IndexConfig fails validation.
	InvalidConfig Kind = "InvalidConfig"
	// NotFound is returned when a doc_id is absent on Get or Remove.
	NotFound Kind = "NotFound"
	// CapacityExhausted is returned when the capacity pressure policy
	// (grow-or-compact) could not make room for an insertion.
	CapacityExhausted Kind = "CapacityExhausted"
	// IoError covers snapshot read/write, checksum mismatch, rename failure.
	IoError Kind = "IoError"
	// VersionMismatch is returned when a snapshot's format version is newer
	// than this build supports.
	VersionMismatch Kind = "VersionMismatch"
	// DeadlineExceeded is returned when a caller-supplied deadline elapses.
	DeadlineExceeded Kind = "DeadlineExceeded"
	// Unavailable is returned by every operation except Close once the
	// manager has been poisoned or closed.
	Unavailable Kind = "Unavailable"
	// Internal marks an invariant violation detected by the manager itself.
	// Only Internal ever transitions the manager to poisoned.
	Internal Kind = "Internal"
)

// IndexError is the error type returned by every vecindex operation that
// can fail. It carries enough structure for a caller to react programmatically
// (Kind), to present to a user (Message), and to correlate with a specific
// document (DocID, optional).
type IndexError struct {
	Kind    Kind
	Message string
	DocID   string // optional; empty when the failure isn't doc-scoped
	Cause   error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	if e.DocID != "" {
		return fmt.Sprintf("[%s] %s (doc_id=%s)", e.Kind, e.Message, e.DocID)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any, so errors.Is/As traverse
// through IndexError to whatever low-level error it wraps (e.g. an os.PathError).
func (e *IndexError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *IndexError with the same Kind. This lets
// callers write errors.Is(err, idxerr.New(idxerr.NotFound, "", nil)) or,
// more idiomatically, use idxerr.Is(err, idxerr.NotFound) below.
func (e *IndexError) Is(target error) bool {
	t, ok := target.(*IndexError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an IndexError with the given kind and message.
func New(kind Kind, message string, cause error) *IndexError {
	return &IndexError{Kind: kind, Message: message, Cause: cause}
}

// WithDoc sets the DocID field and returns the error for chaining.
func (e *IndexError) WithDoc(docID string) *IndexError {
	e.DocID = docID
	return e
}

// Wrap creates an IndexError of the given kind from an existing error,
// preserving it as Cause. Returns nil if err is nil.
func Wrap(kind Kind, err error) *IndexError {
	if err == nil {
		return nil
	}
	if ie, ok := err.(*IndexError); ok {
		return ie
	}
	return New(kind, err.Error(), err)
}

// Is reports whether err is an *IndexError of the given kind.
func Is(err error, kind Kind) bool {
	ie, ok := err.(*IndexError)
	if !ok {
		return false
	}
	return ie.Kind == kind
}

// KindOf extracts the Kind from err, returning "" if err is not an IndexError.
func KindOf(err error) Kind {
	if ie, ok := err.(*IndexError); ok {
		return ie.Kind
	}
	return ""
}

// Retryable reports whether the error class is worth retrying automatically.
// Only IoError is retryable in this subsystem: every other kind is either a
// caller mistake (no point retrying with the same input) or a terminal state
// (Unavailable, Internal).
func Retryable(err error) bool {
	return KindOf(err) == IoError
}
