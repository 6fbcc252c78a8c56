package snapshot

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/dawsonblock/vecindex/internal/idxerr"
)

// FileLock is an advisory, cross-process exclusive lock guarding one
// snapshot prefix. internal/manager holds this for the duration of a
// save_as write phase and for the whole of load_from, so two processes
// pointed at the same index_path can't interleave snapshot generations;
// the in-process L_index lock only protects a single manager instance.
type FileLock struct {
	path   string
	fl     *flock.Flock
	locked bool
}

// NewFileLock returns a lock for the snapshot directory prefix. The lock
// file itself lives alongside it, at prefix+".lock".
func NewFileLock(prefix string) *FileLock {
	path := prefix + ".lock"
	return &FileLock{path: path, fl: flock.New(path)}
}

// Lock acquires the exclusive lock, blocking until it is available.
func (l *FileLock) Lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return idxerr.New(idxerr.IoError, "create snapshot lock directory", err)
	}
	if err := l.fl.Lock(); err != nil {
		return idxerr.New(idxerr.IoError, "acquire snapshot lock", err)
	}
	l.locked = true
	return nil
}

// Unlock releases the lock. Safe to call on an already-unlocked FileLock.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return idxerr.New(idxerr.IoError, "release snapshot lock", err)
	}
	l.locked = false
	return nil
}
