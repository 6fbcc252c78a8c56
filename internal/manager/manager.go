// Package manager implements the index manager (spec component C5): the
// single entry point that holds the write lock discipline of spec section
// 5 and composes internal/hnsw, internal/docstore, internal/snapshot, and
// internal/stats into the operations of spec section 4.5 (open, upsert,
// remove, search, get, save_as, load_from, compact, stats/health, close).
package manager

import (
	"context"
	"log/slog"
	"time"

	"github.com/dawsonblock/vecindex/internal/config"
	"github.com/dawsonblock/vecindex/internal/docstore"
	"github.com/dawsonblock/vecindex/internal/hnsw"
	"github.com/dawsonblock/vecindex/internal/idxerr"
	"github.com/dawsonblock/vecindex/internal/stats"
	"github.com/dawsonblock/vecindex/internal/vecmath"
)

// Manager is one open index. All exported methods are safe for concurrent
// use; internal/hnsw.Graph and internal/docstore.Store are not
// independently synchronized, so every access to either goes through lock.
type Manager struct {
	lock ctxRWMutex

	cfg      config.IndexConfig
	graph    *hnsw.Graph
	docs     *docstore.Store
	counters stats.Counters

	poisoned bool
	closed   bool

	autosnap autosnapshotter
	log      *slog.Logger
}

// Option configures Open.
type Option func(*Manager)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Open validates cfg and returns a fresh, empty index. It never reads from
// cfg.IndexPath; call LoadFrom afterward to populate from an existing
// snapshot.
func Open(cfg config.IndexConfig, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, idxerr.New(idxerr.InvalidConfig, err.Error(), err)
	}

	m := &Manager{
		cfg:   cfg,
		graph: hnsw.New(graphConfig(cfg)),
		docs:  docstore.New(cfg.MaxElements),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.autosnap.manager = m

	m.log.Info("index.open",
		slog.Int("embedding_dim", cfg.EmbeddingDim),
		slog.Int("m", cfg.M),
		slog.String("metric", string(cfg.MetricKind())))
	return m, nil
}

func graphConfig(cfg config.IndexConfig) hnsw.Config {
	dist := vecmath.EuclideanSquared
	if cfg.NormalizeEmbeddings {
		dist = vecmath.CosineDistance
	}
	return hnsw.Config{
		Dim:            cfg.EmbeddingDim,
		M:              cfg.M,
		EfConstruction: cfg.EfConstruction,
		Distance:       dist,
		Seed:           cfg.Seed,
	}
}

// Close releases any held resources. Subsequent operations other than
// Close and Health return Unavailable. Close itself is idempotent.
func (m *Manager) Close() error {
	if err := m.lock.lockExclusive(context.Background()); err != nil {
		return err
	}
	defer m.lock.unlockExclusive()

	if m.closed {
		return nil
	}
	m.closed = true
	m.log.Info("index.close")
	return nil
}

// checkUsable returns Unavailable if the manager is closed or poisoned;
// every operation except Close and Health must call this first.
func (m *Manager) checkUsable() error {
	if m.closed {
		return idxerr.New(idxerr.Unavailable, "index is closed", nil)
	}
	if m.poisoned {
		return idxerr.New(idxerr.Unavailable, "index is poisoned by a prior internal error", nil)
	}
	return nil
}

// poison marks the index unusable except for Close, per spec section 4.5's
// failure policy: only an unrecoverable internal error does this.
func (m *Manager) poison(reason string, cause error) {
	m.poisoned = true
	m.log.Error("index.poisoned", slog.String("reason", reason), slog.Any("cause", cause))
}

// Get returns the record for docID under a shared lock.
func (m *Manager) Get(ctx context.Context, docID string) (*docstore.Record, error) {
	if err := m.lock.lockShared(ctx); err != nil {
		return nil, err
	}
	defer m.lock.unlockShared()

	if err := m.checkUsable(); err != nil {
		return nil, err
	}
	if docID == "" {
		return nil, idxerr.New(idxerr.InvalidArgument, "doc_id must not be empty", nil)
	}

	rec, ok := m.docs.GetByDocID(docID)
	if !ok {
		return nil, idxerr.New(idxerr.NotFound, "doc_id not found", nil).WithDoc(docID)
	}
	return rec, nil
}

// Health returns the current health probe (spec section 4.6), including
// poisoned. Unlike other operations, Health works even on a closed or
// poisoned index, since it exists precisely to report that state.
func (m *Manager) Health() stats.Health {
	m.lock.mu.RLock()
	defer m.lock.mu.RUnlock()
	return stats.Compute(m.poisoned, m.docs.Count(), m.graph.DeletedCount(), m.counters, time.Now())
}

// Diagnostics returns the SPEC_FULL.md §3 graph-shape detail.
func (m *Manager) Diagnostics(ctx context.Context) (stats.Diagnostics, error) {
	if err := m.lock.lockShared(ctx); err != nil {
		return stats.Diagnostics{}, err
	}
	defer m.lock.unlockShared()
	if err := m.checkUsable(); err != nil {
		return stats.Diagnostics{}, err
	}
	return stats.ComputeDiagnostics(m.graph), nil
}
