package kdtree

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metric measures the distance between two points of equal dimensionality.
//
// The tree prunes a subtree by evaluating the metric against the point of the
// subtree's bounding box closest to the target, found by clamping each
// coordinate independently. That lower bound is only valid when the metric is
// non-decreasing in every per-coordinate absolute difference, which holds for
// any Lp norm and its powers (squared Euclidean included). Measures such as
// cosine distance do not satisfy this and produce wrong results.
type Metric[C Coordinate, D Scalar] interface {
	Distance(a, b []C) D
}

// MetricFunc adapts a plain function into a Metric. Radial searches treat
// its output as a squared distance; see RadiusReducer.
type MetricFunc[C Coordinate, D Scalar] func(a, b []C) D

func (f MetricFunc[C, D]) Distance(a, b []C) D { return f(a, b) }

// RadiusReducer is implemented by metrics that state how a search radius maps
// onto their output scale. Metrics without it are assumed to return squared
// distances, so radial searches compare against radius*radius, saturating at
// the maximum of an integer distance type.
type RadiusReducer[D Scalar] interface {
	ReduceRadius(radius D) D
}

// reduceRadius converts a radius to the metric's distance scale.
func reduceRadius[C Coordinate, D Scalar](m Metric[C, D], radius D) D {
	if r, ok := m.(RadiusReducer[D]); ok {
		return r.ReduceRadius(radius)
	}
	if !isFloat[D]() && radius > 0 && radius > highest[D]()/radius {
		// radius*radius would wrap; every distance is within the clamped bound.
		return highest[D]()
	}
	return radius * radius
}

// SquaredEuclidean computes the sum of squared coordinate differences in
// float64 for any coordinate type.
type SquaredEuclidean[C Coordinate] struct{}

func (SquaredEuclidean[C]) Distance(a, b []C) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func (SquaredEuclidean[C]) ReduceRadius(radius float64) float64 { return radius * radius }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, 2) }

func (EuclideanMetric) ReduceRadius(radius float64) float64 { return radius }

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, 1) }

func (ManhattanMetric) ReduceRadius(radius float64) float64 { return radius }

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }

func (ChebyshevMetric) ReduceRadius(radius float64) float64 { return radius }

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1. Panics if P < 1.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 {
	if m.P < 1 {
		panic("MinkowskiMetric: P must be >= 1")
	}
	return floats.Distance(a, b, m.P)
}

func (MinkowskiMetric) ReduceRadius(radius float64) float64 { return radius }
