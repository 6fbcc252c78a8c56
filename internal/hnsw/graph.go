// Package hnsw implements a Hierarchical Navigable Small World graph: an
// approximate nearest-neighbor index over dense float32 vectors, keyed by
// caller-chosen uint64 labels. It is the algorithmic core of the vector
// index subsystem (spec component C2).
//
// Graph is not internally synchronized. The caller (internal/manager) is
// responsible for the single reader-writer lock that also protects the
// document store, since the two are co-invariant (a label must exist in
// both or neither).
package hnsw

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// Errors returned by Graph methods. The manager translates these into the
// subsystem's structured IndexError kinds at the public boundary.
var (
	ErrInvalidDimension = errors.New("hnsw: vector dimension does not match index dimension")
	ErrLabelExists      = errors.New("hnsw: label already present and not tombstoned")
	ErrInvalidLabel     = errors.New("hnsw: label not present in graph")
)

// DistanceFunc computes a distance between two vectors of equal length;
// smaller means more similar. Graph treats it as opaque and deterministic.
type DistanceFunc func(a, b []float32) float32

// Config holds the build-time parameters of a Graph, fixed for its lifetime.
type Config struct {
	Dim            int
	M              int // max bidirectional links per node at layers >= 1
	EfConstruction int
	Distance       DistanceFunc
	// Seed makes level assignment reproducible across process restarts when
	// set to a non-zero value; snapshot round-trips (spec P5) replay the
	// same seed so a reloaded graph assigns identical levels to identical
	// insertion sequences.
	Seed int64
}

type node struct {
	vector    []float32
	level     int
	neighbors [][]uint64 // neighbors[layer] = adjacency at that layer
	tombstone bool
}

// Graph is a mutable HNSW index. All exported methods assume the caller
// holds whatever external lock is required for the requested access mode;
// Graph itself performs no locking.
type Graph struct {
	cfg      Config
	maxM     int // 2*M, used at layer 0
	ml       float64
	rng      *rand.Rand
	nodes    map[uint64]*node
	entry    uint64
	hasEntry bool
}

// New creates an empty graph. cfg.Distance must be non-nil; cfg.M must be
// >= 2; cfg.EfConstruction must be >= cfg.M. New does not validate these
// (the manager validates IndexConfig at Open before any graph exists) but
// will panic on a nil Distance func since every operation depends on it.
func New(cfg Config) *Graph {
	if cfg.Distance == nil {
		panic("hnsw: Config.Distance must not be nil")
	}
	return &Graph{
		cfg:   cfg,
		maxM:  cfg.M * 2,
		ml:    1.0 / logM(cfg.M),
		rng:   newSeededRand(cfg.Seed),
		nodes: make(map[uint64]*node),
	}
}

// Dim returns the configured vector dimension.
func (g *Graph) Dim() int { return g.cfg.Dim }

// Distance exposes the configured distance function so callers (snapshot
// reconstruction, tests) can recompute distances without reaching into
// Graph internals.
func (g *Graph) Distance(a, b []float32) float32 { return g.cfg.Distance(a, b) }

// randomLevel samples a level via the standard HNSW geometric distribution,
// parameterized by 1/ln(M).
func (g *Graph) randomLevel() int {
	level := int(math.Floor(-math.Log(g.rng.Float64()) * g.ml))
	return level
}

// Insert adds vector under label. If label is unused, or was previously
// marked deleted, it becomes a live node; if label is currently live,
// Insert fails with ErrLabelExists (the manager always routes updates
// through a fresh label instead of overwriting in place, per spec
// section 4.5, so this path exists for direct graph-level callers and
// tests rather than the manager's own upsert).
func (g *Graph) Insert(label uint64, vector []float32) error {
	if len(vector) != g.cfg.Dim {
		return ErrInvalidDimension
	}
	if existing, ok := g.nodes[label]; ok && !existing.tombstone {
		return ErrLabelExists
	}

	vecCopy := make([]float32, len(vector))
	copy(vecCopy, vector)

	level := g.randomLevel()
	n := &node{
		vector:    vecCopy,
		level:     level,
		neighbors: make([][]uint64, level+1),
	}
	for i := range n.neighbors {
		n.neighbors[i] = nil
	}

	if !g.hasEntry {
		g.nodes[label] = n
		g.entry = label
		g.hasEntry = true
		return nil
	}

	entryLabel := g.entry
	entryLevel := g.nodes[entryLabel].level

	g.nodes[label] = n

	cur := []candidate{{label: entryLabel, dist: g.cfg.Distance(vector, g.nodes[entryLabel].vector)}}

	for lc := entryLevel; lc > level; lc-- {
		cur = g.searchLayer(vector, cur, 1, lc, label)
	}

	top := level
	if entryLevel < top {
		top = entryLevel
	}
	for lc := top; lc >= 0; lc-- {
		m := g.cfg.M
		if lc == 0 {
			m = g.maxM
		}
		candidates := g.searchLayer(vector, cur, g.cfg.EfConstruction, lc, label)
		selected := g.selectNeighborsHeuristic(vector, candidates, m)

		n.neighbors[lc] = labelsOf(selected)
		for _, nb := range selected {
			g.connect(label, nb.label, lc)
			g.shrinkIfNeeded(nb.label, lc)
		}
		cur = candidates
	}

	if level > entryLevel {
		g.entry = label
	}
	return nil
}

// connect adds a (non-duplicate) directed edge from-to at the given layer.
func (g *Graph) connect(from, to uint64, layer int) {
	fn := g.nodes[from]
	if layer >= len(fn.neighbors) {
		return
	}
	for _, existing := range fn.neighbors[layer] {
		if existing == to {
			return
		}
	}
	fn.neighbors[layer] = append(fn.neighbors[layer], to)
}

// shrinkIfNeeded re-applies the neighbor heuristic to label's adjacency at
// layer if it has grown past the layer's connectivity bound.
func (g *Graph) shrinkIfNeeded(label uint64, layer int) {
	n := g.nodes[label]
	if layer >= len(n.neighbors) {
		return
	}
	maxConn := g.cfg.M
	if layer == 0 {
		maxConn = g.maxM
	}
	if len(n.neighbors[layer]) <= maxConn {
		return
	}

	candidates := make([]candidate, 0, len(n.neighbors[layer]))
	for _, nb := range n.neighbors[layer] {
		candidates = append(candidates, candidate{label: nb, dist: g.cfg.Distance(n.vector, g.nodes[nb].vector)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	n.neighbors[layer] = labelsOf(g.selectNeighborsHeuristic(n.vector, candidates, maxConn))
}

// MarkDeleted tombstones label. It is idempotent: deleting an already
// tombstoned or never-existent label is a no-op. Subsequent Search calls
// never return a tombstoned label, though the label's node and edges
// remain in the graph (serving as routing hops) until Compact rebuilds it.
func (g *Graph) MarkDeleted(label uint64) {
	n, ok := g.nodes[label]
	if !ok {
		return
	}
	n.tombstone = true

	if g.entry == label {
		g.reassignEntryPoint()
	}
}

// reassignEntryPoint picks a new, arbitrary non-tombstoned entry point
// after the current one is deleted. Any live node works as an entry point;
// preferring the highest level keeps upper-layer descents short.
func (g *Graph) reassignEntryPoint() {
	bestLabel, bestLevel := uint64(0), -1
	found := false
	for label, n := range g.nodes {
		if n.tombstone {
			continue
		}
		if !found || n.level > bestLevel || (n.level == bestLevel && label < bestLabel) {
			bestLabel, bestLevel, found = label, n.level, true
		}
	}
	g.hasEntry = found
	if found {
		g.entry = bestLabel
	}
}

// Result is one entry of a Search response.
type Result struct {
	Label    uint64
	Distance float32
}

// Search returns up to k nearest (non-tombstoned) neighbors of query,
// ascending by distance, ties broken by ascending label. ef controls the
// layer-0 candidate list size; the effective width used is max(ef, k) per
// spec section 4.2.
func (g *Graph) Search(query []float32, k, ef int) []Result {
	if !g.hasEntry || k <= 0 {
		return nil
	}

	entryLevel := g.nodes[g.entry].level
	cur := []candidate{{label: g.entry, dist: g.cfg.Distance(query, g.nodes[g.entry].vector)}}

	for lc := entryLevel; lc > 0; lc-- {
		cur = g.searchLayer(query, cur, 1, lc, noExclusion)
	}

	width := ef
	if k > width {
		width = k
	}
	candidates := g.searchLayer(query, cur, width, 0, noExclusion)

	live := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if !g.nodes[c.label].tombstone {
			live = append(live, c)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].dist != live[j].dist {
			return live[i].dist < live[j].dist
		}
		return live[i].label < live[j].label
	})

	if len(live) > k {
		live = live[:k]
	}

	results := make([]Result, len(live))
	for i, c := range live {
		results[i] = Result{Label: c.label, Distance: c.dist}
	}
	return results
}

// Size returns the number of live (non-tombstoned) nodes.
func (g *Graph) Size() int {
	n := 0
	for _, nd := range g.nodes {
		if !nd.tombstone {
			n++
		}
	}
	return n
}

// DeletedCount returns the number of tombstoned nodes still occupying
// the graph.
func (g *Graph) DeletedCount() int {
	n := 0
	for _, nd := range g.nodes {
		if nd.tombstone {
			n++
		}
	}
	return n
}

// Contains reports whether label exists in the graph, live or tombstoned.
func (g *Graph) Contains(label uint64) bool {
	_, ok := g.nodes[label]
	return ok
}

// LevelHistogram returns the count of live nodes at each top-level, a
// diagnostic surfaced (additively) through stats/health (spec_full section 3).
func (g *Graph) LevelHistogram() map[int]int {
	hist := make(map[int]int)
	for _, n := range g.nodes {
		if n.tombstone {
			continue
		}
		hist[n.level]++
	}
	return hist
}

// Vectors returns a copy of every node's vector, live or tombstoned, keyed
// by label. internal/snapshot uses this (rather than the document store) to
// build vectors.bin, because a tombstoned node's vector is still needed as
// a routing hop during search until compact() rebuilds the graph, even
// though the document store has already forgotten it.
func (g *Graph) Vectors() map[uint64][]float32 {
	out := make(map[uint64][]float32, len(g.nodes))
	for label, n := range g.nodes {
		cp := make([]float32, len(n.vector))
		copy(cp, n.vector)
		out[label] = cp
	}
	return out
}

// AverageDegree returns the mean out-degree across all layers of live nodes.
func (g *Graph) AverageDegree() float64 {
	live := 0
	edges := 0
	for _, n := range g.nodes {
		if n.tombstone {
			continue
		}
		live++
		for _, layer := range n.neighbors {
			edges += len(layer)
		}
	}
	if live == 0 {
		return 0
	}
	return float64(edges) / float64(live)
}
