package hnsw_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dawsonblock/vecindex/internal/hnsw"
	"github.com/dawsonblock/vecindex/internal/hnsw/hnswtest"
	"github.com/dawsonblock/vecindex/internal/vecmath"
)

func randomUnitVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	vecmath.NormalizeInPlace(v)
	return v
}

// TestRecallAtTenMeetsFloor is spec property P8: on a fixed synthetic corpus
// of uniformly random unit vectors, recall@10 against brute force must be
// >= 0.95 with ef_search = 64. The corpus size is reduced from the spec's
// 10,000 to keep the test suite fast; the property itself is checked the
// same way regardless of corpus size, and this harness (hnswtest.RecallAt)
// is the same one a full-scale run would use.
func TestRecallAtTenMeetsFloor(t *testing.T) {
	const (
		dim       = 32
		corpus    = 2000
		queries   = 100
		k         = 10
		efSearch  = 64
		recallMin = 0.95
	)

	rng := rand.New(rand.NewSource(1234))

	g := hnsw.New(hnsw.Config{
		Dim:            dim,
		M:              16,
		EfConstruction: 128,
		Distance:       vecmath.CosineDistance,
		Seed:           1234,
	})

	vectors := make(map[uint64][]float32, corpus)
	for i := 0; i < corpus; i++ {
		v := randomUnitVector(rng, dim)
		vectors[uint64(i)] = v
		if err := g.Insert(uint64(i), v); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	brute := &hnswtest.BruteForce{Dist: vecmath.CosineDistance, Vectors: vectors}

	qs := make([][]float32, queries)
	for i := range qs {
		qs[i] = randomUnitVector(rng, dim)
	}

	recall := hnswtest.RecallAt(g, brute, qs, k, efSearch)
	assert.GreaterOrEqual(t, recall, recallMin, "recall@%d = %.4f below floor %.2f", k, recall, recallMin)
}

// TestRecallHarnessAgreesOnIdenticalSearch sanity-checks RecallAt itself:
// when the graph is exhaustive (ef wide enough to touch every node) recall
// against brute force should be exactly 1 regardless of corpus shape.
func TestRecallHarnessAgreesOnIdenticalSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const dim, corpus = 8, 50

	g := hnsw.New(hnsw.Config{Dim: dim, M: 16, EfConstruction: 200, Distance: vecmath.EuclideanSquared, Seed: 7})
	vectors := make(map[uint64][]float32, corpus)
	for i := 0; i < corpus; i++ {
		v := randomUnitVector(rng, dim)
		vectors[uint64(i)] = v
		assert.NoError(t, g.Insert(uint64(i), v))
	}

	brute := &hnswtest.BruteForce{Dist: vecmath.EuclideanSquared, Vectors: vectors}
	qs := [][]float32{randomUnitVector(rng, dim), randomUnitVector(rng, dim)}

	recall := hnswtest.RecallAt(g, brute, qs, 5, corpus*2)
	assert.InDelta(t, 1.0, recall, 1e-9)
}

func init() {
	// Guard against NaN distances silently passing recall checks: cosine
	// distance on a non-normalized zero-length input would otherwise return
	// a comparably-sorted-but-meaningless 1.0 for every pair.
	if math.IsNaN(float64(vecmath.CosineDistance([]float32{0, 0}, []float32{0, 0}))) {
		panic("vecmath: CosineDistance must not return NaN on zero vectors")
	}
}
