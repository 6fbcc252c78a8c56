package hnsw

import (
	"math"
	"math/rand"
	"sort"
)

func sortUint64s(s []uint64) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}

func logM(m int) float64 {
	return math.Log(float64(m))
}

func newSeededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}
