package manager

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dawsonblock/vecindex/internal/config"
	"github.com/dawsonblock/vecindex/internal/docstore"
	"github.com/dawsonblock/vecindex/internal/hnsw"
	"github.com/dawsonblock/vecindex/internal/idxerr"
	"github.com/dawsonblock/vecindex/internal/snapshot"
)

// autosnapshotter coalesces auto-snapshot triggers onto a single in-flight
// save_as via singleflight: a trigger that arrives while a snapshot to the
// same path is running joins that call instead of starting another. Nothing
// is queued to run after it completes, and its completion resets the write
// counter, including writes that landed while it was running.
type autosnapshotter struct {
	manager *Manager
	group   singleflight.Group
}

// maybeTrigger is called after a successful write, already holding the
// exclusive lock. It must not itself try to take any lock: save_as takes
// its own shared lock internally, and it runs the actual I/O outside the
// call to maybeTrigger's caller by handing the work to singleflight on a
// detached goroutine.
func (a *autosnapshotter) maybeTrigger() {
	m := a.manager
	if !m.counters.ShouldAutoSnapshot(m.cfg.SyncIntervalDocs) || m.cfg.IndexPath == "" {
		return
	}

	path := m.cfg.IndexPath
	go func() {
		_, err, _ := a.group.Do(path, func() (any, error) {
			return nil, m.SaveAs(context.Background(), path)
		})
		if err != nil {
			m.log.Warn("index.autosnapshot_failed", slog.String("error", err.Error()))
		}
	}()
}

// SaveAs atomically writes the current index state to path (spec section
// 4.4's save_as). It takes L_index in shared mode only long enough to copy
// the in-memory state, then performs disk I/O without holding the lock, so
// writers may proceed concurrently with a snapshot in flight.
func (m *Manager) SaveAs(ctx context.Context, path string) error {
	if err := m.lock.lockShared(ctx); err != nil {
		return err
	}
	if err := m.checkUsable(); err != nil {
		m.lock.unlockShared()
		return err
	}

	data := snapshot.Data{
		Config:   m.cfg,
		Records:  m.docs.Iterate(),
		Graph:    m.graph.Export(),
		Vectors:  m.graph.Vectors(),
		DocCount: m.docs.Count(),
		Deleted:  m.graph.DeletedCount(),
	}
	m.lock.unlockShared()

	fl := snapshot.NewFileLock(path)
	if err := fl.Lock(); err != nil {
		return err
	}
	defer fl.Unlock()

	if err := idxerr.Retry(ctx, idxerr.DefaultRetryConfig(), func() error {
		return snapshot.SaveAs(path, data)
	}); err != nil {
		return err
	}

	if err := m.lock.lockExclusive(ctx); err != nil {
		// the snapshot itself succeeded; only counter bookkeeping is lost
		// if the deadline elapses here, which Stats/Health will simply
		// reflect as a slightly stale last_snapshot_age_ms on next read.
		return nil
	}
	m.counters.RecordSnapshot(time.Now())
	m.lock.unlockExclusive()

	m.log.Info("index.snapshot", slog.String("path", path))
	return nil
}

// LoadFrom replaces the in-memory index with the snapshot at path (spec
// section 4.5's four-way load_from contract). It takes L_index in
// exclusive mode for the entire duration, per spec section 5.
func (m *Manager) LoadFrom(ctx context.Context, path string, updateDefault bool) (LoadStatus, error) {
	if err := m.lock.lockExclusive(ctx); err != nil {
		return StatusFailed, err
	}
	defer m.lock.unlockExclusive()

	if err := m.checkUsable(); err != nil {
		return StatusFailed, err
	}

	fl := snapshot.NewFileLock(path)
	if err := fl.Lock(); err != nil {
		return StatusFailed, err
	}
	defer fl.Unlock()

	if !snapshot.Exists(path) {
		if !updateDefault {
			return StatusFailedMissing, idxerr.New(idxerr.NotFound, "no snapshot at path", nil)
		}
		m.installEmpty(m.cfg)
		m.cfg.IndexPath = path
		m.log.Info("index.load_initialized_empty", slog.String("path", path))
		return StatusInitializedEmpty, nil
	}

	data, err := snapshot.LoadFrom(path)
	if err != nil {
		// pre-call state is untouched: nothing has been mutated yet.
		m.log.Warn("index.load_failed", slog.String("path", path), slog.String("error", err.Error()))
		return StatusFailed, err
	}

	newCfg := data.Config
	if err := newCfg.Validate(); err != nil {
		return StatusFailed, idxerr.New(idxerr.InvalidConfig, err.Error(), err)
	}

	newDocs := docstore.New(newCfg.MaxElements)
	var maxLabel uint64
	for _, rec := range data.Records {
		newDocs.PutRecord(rec)
		if rec.Label+1 > maxLabel {
			maxLabel = rec.Label + 1
		}
	}
	for label := range data.Graph.Nodes {
		if label+1 > maxLabel {
			maxLabel = label + 1
		}
	}
	newDocs.SetNextLabel(maxLabel)

	newGraph := hnsw.Restore(data.Graph, newCfg.EmbeddingDim, graphConfig(newCfg).Distance, data.Vectors)

	m.cfg = newCfg
	m.docs = newDocs
	m.graph = newGraph
	if updateDefault {
		m.cfg.IndexPath = path
	}
	m.counters.RecordSnapshot(time.Now())

	m.log.Info("index.load_loaded", slog.String("path", path))
	return StatusLoaded, nil
}

func (m *Manager) installEmpty(cfg config.IndexConfig) {
	m.docs = docstore.New(cfg.MaxElements)
	m.graph = hnsw.New(graphConfig(cfg))
}
