package hnsw

// NodeSnapshot is the serializable shape of one graph node's topology,
// excluding its vector. Vectors are persisted separately, in vectors.bin,
// keyed by label across the whole graph (live and tombstoned) — see
// Graph.Vectors — since the document store only retains live records and a
// tombstoned node's vector is still needed as a search routing hop.
type NodeSnapshot struct {
	Level     int
	Neighbors [][]uint64
	Tombstone bool
}

// Snapshot is the serializable shape of an entire Graph's topology, encoded
// by internal/snapshot into graph.bin. It intentionally excludes vectors so
// the (potentially large) embedding data is stored exactly once, in
// vectors.bin, instead of being duplicated into the graph file.
type Snapshot struct {
	Entry    uint64
	HasEntry bool
	M        int
	MaxM     int
	EfConstruction int
	Seed     int64
	Nodes    map[uint64]NodeSnapshot
}

// Export captures the graph's current topology for persistence.
func (g *Graph) Export() Snapshot {
	nodes := make(map[uint64]NodeSnapshot, len(g.nodes))
	for label, n := range g.nodes {
		neighbors := make([][]uint64, len(n.neighbors))
		for i, layer := range n.neighbors {
			cp := make([]uint64, len(layer))
			copy(cp, layer)
			neighbors[i] = cp
		}
		nodes[label] = NodeSnapshot{Level: n.level, Neighbors: neighbors, Tombstone: n.tombstone}
	}
	return Snapshot{
		Entry:          g.entry,
		HasEntry:       g.hasEntry,
		M:              g.cfg.M,
		MaxM:           g.maxM,
		EfConstruction: g.cfg.EfConstruction,
		Seed:           g.cfg.Seed,
		Nodes:          nodes,
	}
}

// Labels returns every label present in the snapshot (live or tombstoned),
// sorted ascending. internal/snapshot uses this to know which slices of
// vectors.bin to read back in.
func (s Snapshot) Labels() []uint64 {
	labels := make([]uint64, 0, len(s.Nodes))
	for label := range s.Nodes {
		labels = append(labels, label)
	}
	sortUint64s(labels)
	return labels
}

// Restore rebuilds a Graph from a topology snapshot plus the vectors it
// referenced (keyed by label, as read back from vectors.bin). dist and dim
// come from the reloaded IndexConfig, since a graph's distance function and
// dimension are fixed at Open and not re-derivable from the snapshot alone.
func Restore(snap Snapshot, dim int, dist DistanceFunc, vectors map[uint64][]float32) *Graph {
	g := &Graph{
		cfg: Config{
			Dim:            dim,
			M:              snap.M,
			EfConstruction: snap.EfConstruction,
			Distance:       dist,
			Seed:           snap.Seed,
		},
		maxM:     snap.MaxM,
		ml:       1.0, // recomputed below once cfg.M is known to avoid div-by-zero on M=0 snapshots
		nodes:    make(map[uint64]*node, len(snap.Nodes)),
		entry:    snap.Entry,
		hasEntry: snap.HasEntry,
	}
	if snap.M > 1 {
		g.ml = 1.0 / logM(snap.M)
	}
	g.rng = newSeededRand(snap.Seed)

	for label, ns := range snap.Nodes {
		neighbors := make([][]uint64, len(ns.Neighbors))
		for i, layer := range ns.Neighbors {
			cp := make([]uint64, len(layer))
			copy(cp, layer)
			neighbors[i] = cp
		}
		g.nodes[label] = &node{
			vector:    vectors[label],
			level:     ns.Level,
			neighbors: neighbors,
			tombstone: ns.Tombstone,
		}
	}
	return g
}
