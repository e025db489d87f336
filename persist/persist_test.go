package persist

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorS/kdtree"
	"github.com/TrevorS/kdtree/internal/testutil"
)

func TestSaveLoad_Float64(t *testing.T) {
	rng := testutil.NewRNG(1)
	points := rng.UniformPoints(1000, 3, -100, 100)
	metric := kdtree.SquaredEuclidean[float64]{}
	tree, err := kdtree.New(3, points, metric)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, tree))

	restored, err := Load(&buf, metric, nil)
	require.NoError(t, err)
	assert.Equal(t, tree.Len(), restored.Len())
	assert.Equal(t, tree.Dims(), restored.Dims())
	assert.Equal(t, tree.Bounds(), restored.Bounds())
	assert.Equal(t, tree.Array(), restored.Array())

	for _, q := range rng.UniformPoints(50, 3, -100, 100) {
		want, err := tree.SearchNearest(q, 4)
		require.NoError(t, err)
		got, err := restored.SearchNearest(q, 4)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSaveLoad_IntegerAndFloat32Coordinates(t *testing.T) {
	ints := [][]int32{{math.MinInt32, 5}, {7, -3}, {0, math.MaxInt32}, {12, 12}}
	itree, err := kdtree.New(2, ints, kdtree.SquaredEuclidean[int32]{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, itree))
	irestored, err := Load(&buf, kdtree.SquaredEuclidean[int32]{}, nil)
	require.NoError(t, err)
	assert.Equal(t, itree.Array(), irestored.Array())
	assert.Equal(t, itree.Bounds(), irestored.Bounds())

	floats := [][]float32{{1.5, -2.25}, {3.125, 4}, {-0.5, 0.75}}
	cfg := kdtree.Config[float32]{Bounds: &kdtree.Bounds[float32]{Min: -10, Max: 10}}
	ftree, err := kdtree.NewWithConfig(2, floats, kdtree.SquaredEuclidean[float32]{}, cfg)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, Save(&buf, ftree))
	frestored, err := Load(&buf, kdtree.SquaredEuclidean[float32]{}, nil)
	require.NoError(t, err)
	assert.Equal(t, ftree.Array(), frestored.Array())
	assert.Equal(t, kdtree.Bounds[float32]{Min: -10, Max: 10}, frestored.Bounds())
}

func TestSaveLoad_File(t *testing.T) {
	points := testutil.NewRNG(2).UniformPoints(200, 2, 0, 1)
	tree, err := kdtree.New(2, points, kdtree.EuclideanMetric{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tree.kdt")
	require.NoError(t, SaveFile(path, tree))

	restored, err := LoadFile(path, kdtree.EuclideanMetric{}, nil)
	require.NoError(t, err)
	assert.Equal(t, tree.Array(), restored.Array())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.kdt"), kdtree.EuclideanMetric{}, nil)
	assert.Error(t, err)
}

func TestLoad_KindMismatch(t *testing.T) {
	tree, err := kdtree.New(1, [][]float64{{1}, {2}}, kdtree.SquaredEuclidean[float64]{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, tree))

	_, err = Load(&buf, kdtree.SquaredEuclidean[int64]{}, nil)
	assert.ErrorIs(t, err, kdtree.ErrInvalidSnapshot)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestLoad_BadMagicAndVersion(t *testing.T) {
	tree, err := kdtree.New(1, [][]float64{{1}, {2}}, kdtree.SquaredEuclidean[float64]{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, tree))
	snapshot := buf.Bytes()

	badMagic := append([]byte(nil), snapshot...)
	badMagic[0] ^= 0xFF
	_, err = Load(bytes.NewReader(badMagic), kdtree.SquaredEuclidean[float64]{}, nil)
	assert.ErrorIs(t, err, ErrInvalidMagic)

	badVersion := append([]byte(nil), snapshot...)
	binary.LittleEndian.PutUint16(badVersion[4:], 99)
	_, err = Load(bytes.NewReader(badVersion), kdtree.SquaredEuclidean[float64]{}, nil)
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestLoad_Truncated(t *testing.T) {
	points := testutil.NewRNG(3).UniformPoints(300, 2, 0, 1)
	tree, err := kdtree.New(2, points, kdtree.SquaredEuclidean[float64]{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, tree))

	for _, n := range []int{10, 44, buf.Len() / 2} {
		_, err := Load(bytes.NewReader(buf.Bytes()[:n]), kdtree.SquaredEuclidean[float64]{}, nil)
		assert.ErrorIs(t, err, kdtree.ErrInvalidSnapshot, "truncated to %d bytes", n)
	}
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	kind := kindOf[float64]()
	header := FileHeader{
		Magic: MagicNumber, Version: Version, Kind: kind,
		Dims: 1, Count: 1, Slots: 2,
		Min: encode(kind, -1.0), Max: encode(kind, 1.0),
	}
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &header))

	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	body := []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0} // one occupied slot at 0.0, one empty
	_, err = enc.Write(body)
	require.NoError(t, err)
	require.NoError(t, binary.Write(enc, binary.LittleEndian, uint32(0xDEADBEEF)))
	require.NoError(t, enc.Close())

	_, err = Load(&buf, kdtree.SquaredEuclidean[float64]{}, nil)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
	assert.ErrorIs(t, err, kdtree.ErrInvalidSnapshot)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, CoordKind(0x18), kindOf[float64]())
	assert.Equal(t, CoordKind(0x14), kindOf[float32]())
	assert.Equal(t, CoordKind(0x21), kindOf[int8]())
	assert.Equal(t, CoordKind(0x28), kindOf[int64]())
	assert.Equal(t, CoordKind(0x32), kindOf[uint16]())
}

func TestEncodeDecode(t *testing.T) {
	assert.Equal(t, int16(-12345), decode[int16](kindOf[int16](), encode(kindOf[int16](), int16(-12345))))
	assert.Equal(t, uint64(math.MaxUint64), decode[uint64](kindOf[uint64](), encode(kindOf[uint64](), uint64(math.MaxUint64))))
	assert.Equal(t, float32(-0.1), decode[float32](kindOf[float32](), encode(kindOf[float32](), float32(-0.1))))
	assert.Equal(t, -math.MaxFloat64, decode[float64](kindOf[float64](), encode(kindOf[float64](), -math.MaxFloat64)))
}

func writeHeader(t *testing.T, buf *bytes.Buffer, dims uint32, count, slots uint64) {
	t.Helper()
	kind := kindOf[float64]()
	header := FileHeader{
		Magic: MagicNumber, Version: Version, Kind: kind,
		Dims: dims, Count: count, Slots: slots,
		Min: encode(kind, -1.0), Max: encode(kind, 1.0),
	}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, &header))
}

func TestLoad_ImplausibleHeader(t *testing.T) {
	tests := []struct {
		name  string
		dims  uint32
		count uint64
		slots uint64
	}{
		{"HugeSlots", 1 << 20, 1 << 30, 1 << 40},
		{"CountTimesDimsOverflows", math.MaxUint32, 1 << 40, 1 << 41},
		{"SlotsNotPowerOfTwo", 1, 2, 6},
		{"SingleSlot", 1, 1, 1},
		{"CountExceedsSlots", 1, 9, 8},
		{"ZeroCount", 1, 0, 2},
		{"ZeroDims", 0, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeHeader(t, &buf, tt.dims, tt.count, tt.slots)
			_, err := Load(&buf, kdtree.SquaredEuclidean[float64]{}, nil)
			assert.ErrorIs(t, err, kdtree.ErrInvalidSnapshot)
		})
	}
}

func TestLoad_LargeHeaderShortBody(t *testing.T) {
	// A consistent header for a billion points backed by an empty body must
	// fail on the missing records rather than allocate for the header.
	var buf bytes.Buffer
	writeHeader(t, &buf, 1, 1<<30, 1<<31)
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	_, err = Load(&buf, kdtree.SquaredEuclidean[float64]{}, nil)
	assert.ErrorIs(t, err, kdtree.ErrInvalidSnapshot)
}
