package kdtree

import (
	"fmt"
	"math"
)

// LinearScan answers the same queries as Tree by comparing the target with
// every point. It is the O(n) baseline Tree is measured and verified
// against.
type LinearScan[C Coordinate, D Scalar] struct {
	points [][]C
	dims   int
	metric Metric[C, D]
}

// NewLinearScan validates points like New and indexes them in input order.
// The points are not copied.
func NewLinearScan[C Coordinate, D Scalar](dims int, points [][]C, metric Metric[C, D]) (*LinearScan[C, D], error) {
	if err := validateConstruction(dims, points, metric); err != nil {
		return nil, err
	}
	return &LinearScan[C, D]{points: points, dims: dims, metric: metric}, nil
}

func (s *LinearScan[C, D]) Len() int  { return len(s.points) }
func (s *LinearScan[C, D]) Dims() int { return s.dims }

// SearchNearest returns up to k points closest to target, nearest first.
// Ties keep input order.
func (s *LinearScan[C, D]) SearchNearest(target []C, k int) ([]Neighbor[C, D], error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: k must be >= 0, got %d", ErrInvalidQuery, k)
	}
	if len(target) != s.dims {
		return nil, &DimensionMismatchError{Expected: s.dims, Actual: len(target), Index: -1, kind: ErrInvalidQuery}
	}
	return s.scan(target, k, unbounded[D]()), nil
}

// SearchRadius returns up to limit points within radius of center,
// nearest first.
func (s *LinearScan[C, D]) SearchRadius(center []C, radius D, limit int) ([]Neighbor[C, D], error) {
	if radius < 0 || math.IsNaN(float64(radius)) {
		return nil, fmt.Errorf("%w: radius must be >= 0, got %v", ErrInvalidQuery, radius)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0, got %d", ErrInvalidQuery, limit)
	}
	if len(center) != s.dims {
		return nil, &DimensionMismatchError{Expected: s.dims, Actual: len(center), Index: -1, kind: ErrInvalidQuery}
	}
	return s.scan(center, limit, reduceRadius(s.metric, radius)), nil
}

func (s *LinearScan[C, D]) scan(target []C, limit int, maxRadius D) []Neighbor[C, D] {
	results := NewBoundedList[[]C, D](min(limit, len(s.points)))
	if results.Cap() > 0 {
		for _, p := range s.points {
			if d := s.metric.Distance(p, target); d <= maxRadius {
				results.Add(p, d)
			}
		}
	}
	out := make([]Neighbor[C, D], 0, results.Len())
	for p, d := range results.All() {
		out = append(out, Neighbor[C, D]{Point: p, Distance: d})
	}
	return out
}
