package manager

import (
	"context"
	"sync"

	"github.com/dawsonblock/vecindex/internal/idxerr"
)

// ctxRWMutex is sync.RWMutex with context-aware acquisition, so a caller's
// deadline elapsing while waiting for L_index (spec section 5) fails with
// DeadlineExceeded instead of blocking forever. If the deadline wins the
// race against an in-flight acquisition, the acquisition is still let
// through in the background and immediately released, so the underlying
// mutex's invariants are never violated.
type ctxRWMutex struct {
	mu sync.RWMutex
}

func (l *ctxRWMutex) lockShared(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return idxerr.New(idxerr.DeadlineExceeded, "deadline exceeded waiting for read lock", err)
	}

	acquired := make(chan struct{})
	go func() {
		l.mu.RLock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return nil
	case <-ctx.Done():
		go func() {
			<-acquired
			l.mu.RUnlock()
		}()
		return idxerr.New(idxerr.DeadlineExceeded, "deadline exceeded waiting for read lock", ctx.Err())
	}
}

func (l *ctxRWMutex) unlockShared() {
	l.mu.RUnlock()
}

func (l *ctxRWMutex) lockExclusive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return idxerr.New(idxerr.DeadlineExceeded, "deadline exceeded waiting for write lock", err)
	}

	acquired := make(chan struct{})
	go func() {
		l.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return nil
	case <-ctx.Done():
		go func() {
			<-acquired
			l.mu.Unlock()
		}()
		return idxerr.New(idxerr.DeadlineExceeded, "deadline exceeded waiting for write lock", ctx.Err())
	}
}

func (l *ctxRWMutex) unlockExclusive() {
	l.mu.Unlock()
}
