package kdtree

// SpatialIndex is the read interface shared by Tree and LinearScan, so the
// two can be swapped in benchmarks and cross-checked in tests.
type SpatialIndex[C Coordinate, D Scalar] interface {
	// SearchNearest returns up to k points closest to target with their
	// distances, nearest first.
	SearchNearest(target []C, k int) ([]Neighbor[C, D], error)

	// SearchRadius returns up to limit points within radius of center with
	// their distances, nearest first.
	SearchRadius(center []C, radius D, limit int) ([]Neighbor[C, D], error)

	// Len returns the number of indexed points.
	Len() int

	// Dims returns the dimensionality of each point.
	Dims() int
}

var (
	_ SpatialIndex[float64, float64] = (*Tree[float64, float64])(nil)
	_ SpatialIndex[float64, float64] = (*LinearScan[float64, float64])(nil)
)
