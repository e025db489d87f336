package kdtree

// HyperRect is an axis-aligned box with per-dimension bounds
// Min[d] <= Max[d]. Search narrows one bound per level, so every recursive
// call works on its own clone.
type HyperRect[C Coordinate] struct {
	Min []C
	Max []C
}

// InfiniteRect returns a box spanning [lo, hi] in every dimension.
func InfiniteRect[C Coordinate](dims int, lo, hi C) HyperRect[C] {
	r := HyperRect[C]{
		Min: make([]C, dims),
		Max: make([]C, dims),
	}
	for d := 0; d < dims; d++ {
		r.Min[d] = lo
		r.Max[d] = hi
	}
	return r
}

// Dims returns the dimensionality of the box.
func (r HyperRect[C]) Dims() int { return len(r.Min) }

// Clone returns a deep copy of r.
func (r HyperRect[C]) Clone() HyperRect[C] {
	c := HyperRect[C]{
		Min: make([]C, len(r.Min)),
		Max: make([]C, len(r.Max)),
	}
	copy(c.Min, r.Min)
	copy(c.Max, r.Max)
	return c
}

// Split cuts r at value along dim and returns the lower half (Max[dim]
// replaced by value) and the upper half (Min[dim] replaced by value).
// r itself is not modified.
func (r HyperRect[C]) Split(dim int, value C) (lower, upper HyperRect[C]) {
	lower = r.Clone()
	lower.Max[dim] = value
	upper = r.Clone()
	upper.Min[dim] = value
	return lower, upper
}

// ClosestPoint returns the point inside r nearest to target, clamping each
// coordinate into [Min[d], Max[d]] independently.
func (r HyperRect[C]) ClosestPoint(target []C) []C {
	closest := make([]C, len(target))
	for d, v := range target {
		switch {
		case v < r.Min[d]:
			closest[d] = r.Min[d]
		case v > r.Max[d]:
			closest[d] = r.Max[d]
		default:
			closest[d] = v
		}
	}
	return closest
}

// Contains reports whether p lies inside r, bounds included.
func (r HyperRect[C]) Contains(p []C) bool {
	for d, v := range p {
		if v < r.Min[d] || v > r.Max[d] {
			return false
		}
	}
	return true
}
