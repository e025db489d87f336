package kdtree

import (
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Coordinate is the set of types a point coordinate may have. Every member
// has a statically known representable range, which is used for the default
// search window.
type Coordinate interface {
	constraints.Integer | constraints.Float
}

// Scalar is the set of types a metric may return.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// NumberClass is the arithmetic family of a Coordinate type.
type NumberClass uint8

const (
	ClassFloat NumberClass = iota + 1
	ClassSigned
	ClassUnsigned
)

// Classify reports the class of T and its size in bytes.
func Classify[T Coordinate]() (NumberClass, int) {
	size := bitSize[T]() / 8
	switch {
	case isFloat[T]():
		return ClassFloat, size
	case isSigned[T]():
		return ClassSigned, size
	default:
		return ClassUnsigned, size
	}
}

// The helpers below derive type properties arithmetically so they also hold
// for named types such as `type Meters float64`.

func isFloat[T Coordinate]() bool {
	one := T(1)
	return one/2 != 0
}

func isSigned[T Coordinate]() bool {
	var zero T
	return zero-1 < zero
}

func bitSize[T Coordinate]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// highest returns the largest finite value representable by T.
func highest[T Coordinate]() T {
	bits := bitSize[T]()
	switch {
	case isFloat[T]() && bits == 32:
		v := float32(math.MaxFloat32)
		return T(v)
	case isFloat[T]():
		v := math.MaxFloat64
		return T(v)
	case isSigned[T]():
		v := uint64(1)<<(bits-1) - 1
		return T(v)
	default:
		// Truncating all bits set yields the maximum of every unsigned type.
		var v uint64 = math.MaxUint64
		return T(v)
	}
}

// lowest returns the smallest finite value representable by T.
func lowest[T Coordinate]() T {
	switch {
	case isFloat[T]():
		return -highest[T]()
	case isSigned[T]():
		return -highest[T]() - 1
	default:
		return 0
	}
}

// unbounded returns the search radius used by plain k-NN queries:
// +Inf for floating point distances, the maximum value otherwise.
func unbounded[D Scalar]() D {
	if isFloat[D]() {
		return D(math.Inf(1))
	}
	return highest[D]()
}
