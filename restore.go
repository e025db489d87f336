package kdtree

import "fmt"

// Restore rehydrates a tree from a level-order slot array previously obtained
// from Tree.Array, without rebuilding. The layout is taken as-is, so it must
// come from a tree built with the same dims; nil entries are empty slots.
//
// Restore checks the structural properties it can verify cheaply and returns
// an error wrapping ErrInvalidSnapshot if the array length is not a power of
// two >= 2, the root is empty, an occupied slot has an empty parent, or a
// point has the wrong dimensionality. The median ordering is not re-verified.
func Restore[C Coordinate, D Scalar](dims int, array [][]C, metric Metric[C, D], cfg Config[C]) (*Tree[C, D], error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	count, err := validateArray(dims, array, metric)
	if err != nil {
		cfg.Logger.LogBuild(count, dims, len(array), err)
		return nil, err
	}

	t := &Tree[C, D]{
		nodes:  make([][]C, len(array)),
		data:   make([]C, 0, count*dims),
		count:  count,
		dims:   dims,
		metric: metric,
		bounds: *cfg.Bounds,
		logger: cfg.Logger,
	}
	for i, p := range array {
		if p == nil {
			continue
		}
		start := len(t.data)
		t.data = append(t.data, p...)
		t.nodes[i] = t.data[start:len(t.data):len(t.data)]
	}

	t.logger.LogBuild(count, dims, len(t.nodes), nil)
	return t, nil
}

// validateArray returns the number of occupied slots in array.
func validateArray[C Coordinate, D Scalar](dims int, array [][]C, metric Metric[C, D]) (int, error) {
	if dims <= 0 {
		return 0, fmt.Errorf("%w: dimensions must be > 0, got %d", ErrInvalidSnapshot, dims)
	}
	if metric == nil {
		return 0, fmt.Errorf("%w: metric is nil", ErrInvalidSnapshot)
	}
	n := len(array)
	if n < 2 || n&(n-1) != 0 {
		return 0, fmt.Errorf("%w: array length must be a power of two >= 2, got %d", ErrInvalidSnapshot, n)
	}
	if array[0] == nil {
		return 0, fmt.Errorf("%w: root slot is empty", ErrInvalidSnapshot)
	}

	count := 0
	for i, p := range array {
		if p == nil {
			continue
		}
		if len(p) != dims {
			return count, &DimensionMismatchError{Expected: dims, Actual: len(p), Index: i, kind: ErrInvalidSnapshot}
		}
		if i > 0 && array[Parent(i)] == nil {
			return count, fmt.Errorf("%w: slot %d is occupied but its parent %d is empty", ErrInvalidSnapshot, i, Parent(i))
		}
		count++
	}
	return count, nil
}
