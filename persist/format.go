package persist

import (
	"errors"
	"math"

	"github.com/TrevorS/kdtree"
)

const (
	// MagicNumber identifies kd-tree snapshot files ("KDT1").
	MagicNumber uint32 = 0x3154444B

	// Version is the current snapshot format version.
	Version uint16 = 1
)

var (
	// ErrInvalidMagic is returned when the snapshot does not start with
	// MagicNumber.
	ErrInvalidMagic = errors.New("persist: invalid magic number")

	// ErrInvalidVersion is returned for an unsupported format version.
	ErrInvalidVersion = errors.New("persist: unsupported version")

	// ErrKindMismatch is returned when the snapshot's coordinate type
	// differs from the type requested by Load.
	ErrKindMismatch = errors.New("persist: coordinate type mismatch")

	// ErrChecksumMismatch is returned when the body fails CRC32 verification.
	ErrChecksumMismatch = errors.New("persist: checksum mismatch")
)

// CoordKind describes how coordinates are encoded. The low nibble is the
// byte width of the in-memory type, the high nibble its class.
type CoordKind uint8

const (
	kindFloat    CoordKind = 0x10
	kindSigned   CoordKind = 0x20
	kindUnsigned CoordKind = 0x30
)

// FileHeader is the fixed-size little-endian snapshot header. The
// compressed slot body follows it.
type FileHeader struct {
	Magic   uint32
	Version uint16
	Kind    CoordKind
	_       uint8
	Dims    uint32
	Count   uint64
	Slots   uint64
	Min     uint64 // encoded search window lower bound
	Max     uint64 // encoded search window upper bound
}

func kindOf[C kdtree.Coordinate]() CoordKind {
	class, size := kdtree.Classify[C]()
	width := CoordKind(size)
	switch class {
	case kdtree.ClassFloat:
		return kindFloat | width
	case kdtree.ClassSigned:
		return kindSigned | width
	default:
		return kindUnsigned | width
	}
}

// encode widens a coordinate to 64 bits without loss.
func encode[C kdtree.Coordinate](kind CoordKind, v C) uint64 {
	switch kind &^ 0x0F {
	case kindFloat:
		return math.Float64bits(float64(v))
	case kindSigned:
		return uint64(int64(v))
	default:
		return uint64(v)
	}
}

func decode[C kdtree.Coordinate](kind CoordKind, u uint64) C {
	switch kind &^ 0x0F {
	case kindFloat:
		f := math.Float64frombits(u)
		return C(f)
	case kindSigned:
		return C(int64(u))
	default:
		return C(u)
	}
}
