// Package vecmath provides the pure vector-math primitives the index
// subsystem builds on: dot product, L2 norm, in-place normalization, and
// the two distance functions HNSW search uses. All functions are
// deterministic, side-effect free on their inputs, and allocate nothing on
// the hot path (NormalizeInPlace is the one exception, by name: it mutates
// its argument in place instead of allocating a copy).
package vecmath

import "math"

// Dot returns the dot product of a and b. Callers must ensure len(a) == len(b);
// Dot does not validate dimensions itself since it sits on the search hot path.
func Dot(a, b []float32) float32 {
	if accelDot != nil {
		return accelDot(a, b)
	}
	return dotScalar(a, b)
}

func dotScalar(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// L2Norm returns the Euclidean norm of v.
func L2Norm(v []float32) float32 {
	return float32(math.Sqrt(float64(dotScalar(v, v))))
}

// NormalizeInPlace scales v to unit L2 norm in place. The zero vector is
// left unchanged (there is no well-defined direction to normalize it to).
func NormalizeInPlace(v []float32) {
	norm := L2Norm(v)
	if norm == 0 {
		return
	}
	inv := 1.0 / norm
	for i := range v {
		v[i] *= inv
	}
}

// Cosine returns the cosine similarity between a and b, i.e. the dot
// product of their unit-normalized forms. It does not mutate its inputs.
func Cosine(a, b []float32) float32 {
	na, nb := L2Norm(a), L2Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// CosineDistance returns 1 - Cosine(a, b), the distance HNSW search
// minimizes when the index is configured for cosine similarity. For
// already unit-normalized vectors this equals 1 - Dot(a, b).
func CosineDistance(a, b []float32) float32 {
	return 1 - Cosine(a, b)
}

// EuclideanSquared returns the squared Euclidean distance between a and b.
// Squared distance preserves the nearest-neighbor ordering of true Euclidean
// distance while avoiding a sqrt per comparison on the search hot path.
func EuclideanSquared(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// accelDot, when non-nil, is an accelerated dot-product implementation
// installed by platform-specific init code (see accel_darwin.go). It must
// satisfy the same contract as dotScalar: deterministic, no allocation,
// results within 1 ULP of the scalar path on unit-norm inputs.
var accelDot func(a, b []float32) float32
