package kdtree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConstruction is returned when a tree cannot be built from
	// the given dimensionality, points or configuration.
	ErrInvalidConstruction = errors.New("kdtree: invalid construction")

	// ErrInvalidQuery is returned when query arguments are rejected before
	// traversal (negative k, negative radius, wrong dimensionality).
	ErrInvalidQuery = errors.New("kdtree: invalid query")

	// ErrInvalidSnapshot is returned when a level-order array cannot be
	// restored into a tree.
	ErrInvalidSnapshot = errors.New("kdtree: invalid snapshot")
)

// DimensionMismatchError reports a point whose coordinate count differs from
// the tree's dimensionality. Index is the offending point's position in the
// input, or -1 for a query target.
//
// It unwraps to ErrInvalidConstruction, ErrInvalidQuery or
// ErrInvalidSnapshot depending on where it was raised.
type DimensionMismatchError struct {
	Expected int
	Actual   int
	Index    int
	kind     error
}

func (e *DimensionMismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: dimension mismatch: expected %d, got %d", e.kind, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%v: dimension mismatch at point %d: expected %d, got %d", e.kind, e.Index, e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Unwrap() error { return e.kind }
