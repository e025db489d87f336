// Package testutil generates synthetic point sets for tests and benchmarks.
package testutil

import (
	"math/rand"
	"sync"
)

// RNG wraps a seeded math/rand source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints returns n points of the given dimensionality with
// coordinates drawn uniformly from [lo, hi).
func (r *RNG) UniformPoints(n, dims int, lo, hi float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := make([]float64, n*dims)
	for i := range data {
		data[i] = lo + r.rand.Float64()*(hi-lo)
	}
	return rows(data, n, dims)
}

// ClusteredPoints returns n points scattered with standard deviation spread
// around clusters uniformly placed centers in [0, extent).
func (r *RNG) ClusteredPoints(n, dims, clusters int, extent, spread float64) [][]float64 {
	centers := r.UniformPoints(clusters, dims, 0, extent)

	r.mu.Lock()
	defer r.mu.Unlock()
	data := make([]float64, n*dims)
	for i := 0; i < n; i++ {
		c := centers[r.rand.Intn(clusters)]
		for d := 0; d < dims; d++ {
			data[i*dims+d] = c[d] + r.rand.NormFloat64()*spread
		}
	}
	return rows(data, n, dims)
}

// IntPoints returns n points with integer coordinates in [0, span).
// Small spans produce many duplicate coordinates.
func (r *RNG) IntPoints(n, dims, span int) [][]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	points := make([][]int, n)
	for i := range points {
		points[i] = make([]int, dims)
		for d := range points[i] {
			points[i][d] = r.rand.Intn(span)
		}
	}
	return points
}

// rows splits flat row-major data into per-point slices.
func rows(data []float64, n, dims int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = data[i*dims : (i+1)*dims : (i+1)*dims]
	}
	return out
}
