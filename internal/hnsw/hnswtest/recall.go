// Package hnswtest provides a reusable recall-measurement harness, used by
// internal/hnsw's own property tests. It has no dependency on *testing.T so
// it can also back a stand-alone benchmark or CLI diagnostic if one is ever
// added.
package hnswtest

import (
	"sort"

	"github.com/dawsonblock/vecindex/internal/hnsw"
)

// BruteForce answers Search by scanning every vector linearly. It is the
// ground truth recall is measured against: slow, but exact.
type BruteForce struct {
	Dist    hnsw.DistanceFunc
	Vectors map[uint64][]float32
}

// Search returns the k nearest labels to query by exact distance, ascending,
// ties broken by ascending label — the same ordering contract as Graph.Search.
func (b *BruteForce) Search(query []float32, k int) []uint64 {
	type scored struct {
		label uint64
		dist  float32
	}
	all := make([]scored, 0, len(b.Vectors))
	for label, v := range b.Vectors {
		all = append(all, scored{label: label, dist: b.Dist(query, v)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		return all[i].label < all[j].label
	})
	if k > len(all) {
		k = len(all)
	}
	out := make([]uint64, k)
	for i := 0; i < k; i++ {
		out[i] = all[i].label
	}
	return out
}

// RecallAt measures recall@k of graph against brute over queries: the
// fraction of brute-force top-k labels that also appear in the graph's
// top-k, averaged across all queries. ef is the search-time candidate width
// passed to Graph.Search.
func RecallAt(graph *hnsw.Graph, brute *BruteForce, queries [][]float32, k, ef int) float64 {
	if len(queries) == 0 {
		return 1
	}

	var total float64
	for _, q := range queries {
		want := brute.Search(q, k)
		wantSet := make(map[uint64]bool, len(want))
		for _, l := range want {
			wantSet[l] = true
		}

		got := graph.Search(q, k, ef)
		hits := 0
		for _, r := range got {
			if wantSet[r.Label] {
				hits++
			}
		}

		if len(want) > 0 {
			total += float64(hits) / float64(len(want))
		} else {
			total += 1
		}
	}
	return total / float64(len(queries))
}
