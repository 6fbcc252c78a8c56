package idxerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexErrorMessage(t *testing.T) {
	err := New(NotFound, "doc missing", nil)
	assert.Equal(t, "[NotFound] doc missing", err.Error())

	err.WithDoc("abc")
	assert.Equal(t, "[NotFound] doc missing (doc_id=abc)", err.Error())
}

func TestIndexErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(IoError, cause)
	require.ErrorIs(t, err, cause)
}

func TestIndexErrorIs(t *testing.T) {
	a := New(CapacityExhausted, "full", nil)
	b := New(CapacityExhausted, "also full", nil)
	c := New(NotFound, "missing", nil)

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(IoError, nil))
}

func TestWrapPreservesExistingIndexError(t *testing.T) {
	original := New(DeadlineExceeded, "too slow", nil)
	wrapped := Wrap(Internal, original)
	assert.Same(t, original, wrapped)
}

func TestIsAndKindOf(t *testing.T) {
	err := New(Unavailable, "poisoned", nil)
	assert.True(t, Is(err, Unavailable))
	assert.False(t, Is(err, Internal))
	assert.Equal(t, Unavailable, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(IoError, "x", nil)))
	assert.False(t, Retryable(New(InvalidArgument, "x", nil)))
	assert.False(t, Retryable(nil))
}
