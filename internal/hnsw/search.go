package hnsw

import (
	"container/heap"
	"sort"
)

// noExclusion marks "exclude nothing" for searchLayer's self-loop guard.
// Labels are allocated starting at 0 and increase monotonically (spec
// section 4.3), so the all-ones sentinel can never collide with a real one.
const noExclusion = ^uint64(0)

// candidate pairs a label with its distance to the current query, the unit
// searchLayer and the neighbor heuristic operate on.
type candidate struct {
	label uint64
	dist  float32
}

// candidateHeap is a binary heap over candidates. When max is false it is a
// min-heap (smallest distance at the root, used as the exploration
// frontier); when max is true it is a max-heap (largest distance at the
// root, used as the bounded "best found so far" set so the worst entry can
// be evicted in O(log ef) once the set is full).
type candidateHeap struct {
	items []candidate
	max   bool
}

func (h candidateHeap) Len() int { return len(h.items) }
func (h candidateHeap) Less(i, j int) bool {
	if h.max {
		return h.items[i].dist > h.items[j].dist
	}
	return h.items[i].dist < h.items[j].dist
}
func (h candidateHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *candidateHeap) Push(x any)   { h.items = append(h.items, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}
func (h candidateHeap) top() candidate { return h.items[0] }

// searchLayer runs the bounded best-first search of spec section 4.2 at a
// single layer: starting from entryPoints, it explores neighbors greedily,
// keeping the best ef candidates found so far, and returns those sorted
// ascending by distance. excludeLabel (or noExclusion) is skipped entirely,
// so a node being inserted never links to itself while it is already
// present in the node map.
func (g *Graph) searchLayer(query []float32, entryPoints []candidate, ef, layer int, excludeLabel uint64) []candidate {
	visited := make(map[uint64]bool, ef*2)
	frontier := &candidateHeap{}  // min-heap: candidates still to explore
	found := &candidateHeap{max: true} // bounded max-heap: best ef found

	for _, ep := range entryPoints {
		if ep.label == excludeLabel || visited[ep.label] {
			continue
		}
		visited[ep.label] = true
		heap.Push(frontier, ep)
		heap.Push(found, ep)
	}

	for frontier.Len() > 0 {
		nearest := heap.Pop(frontier).(candidate)
		if found.Len() >= ef && nearest.dist > found.top().dist {
			break
		}

		node, ok := g.nodes[nearest.label]
		if !ok || layer >= len(node.neighbors) {
			continue
		}

		for _, nbLabel := range node.neighbors[layer] {
			if nbLabel == excludeLabel || visited[nbLabel] {
				continue
			}
			visited[nbLabel] = true

			nb := g.nodes[nbLabel]
			dist := g.cfg.Distance(query, nb.vector)

			if found.Len() < ef || dist < found.top().dist {
				c := candidate{label: nbLabel, dist: dist}
				heap.Push(frontier, c)
				heap.Push(found, c)
				if found.Len() > ef {
					heap.Pop(found)
				}
			}
		}
	}

	result := make([]candidate, len(found.items))
	copy(result, found.items)
	sort.Slice(result, func(i, j int) bool { return result[i].dist < result[j].dist })
	return result
}

// selectNeighborsHeuristic implements the "neighbor selection heuristic" of
// spec section 4.2: candidates are considered in ascending distance order
// from the inserted node, and a candidate is kept only if no already-kept
// neighbor is strictly closer to it than the inserted node is. This favors
// a diverse spread of neighbors over a tight cluster of near-duplicates,
// which is what gives HNSW its recall-at-given-M behavior.
//
// If the heuristic alone keeps fewer than m candidates, the remaining
// closest unselected candidates are appended to fill out the budget
// (keeping a pruned connection is better than leaving a node under-linked).
func (g *Graph) selectNeighborsHeuristic(query []float32, candidates []candidate, m int) []candidate {
	if len(candidates) <= m {
		return candidates
	}

	selected := make([]candidate, 0, m)
	for _, c := range candidates {
		if len(selected) >= m {
			break
		}
		keep := true
		for _, s := range selected {
			if g.cfg.Distance(g.nodes[s.label].vector, g.nodes[c.label].vector) < c.dist {
				keep = false
				break
			}
		}
		if keep {
			selected = append(selected, c)
		}
	}

	if len(selected) < m {
		have := make(map[uint64]bool, len(selected))
		for _, s := range selected {
			have[s.label] = true
		}
		for _, c := range candidates {
			if len(selected) >= m {
				break
			}
			if !have[c.label] {
				selected = append(selected, c)
			}
		}
	}

	return selected
}

func labelsOf(candidates []candidate) []uint64 {
	labels := make([]uint64, len(candidates))
	for i, c := range candidates {
		labels[i] = c.label
	}
	return labels
}
