package kdtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type meters float64

func TestNumericRanges(t *testing.T) {
	assert.Equal(t, -math.MaxFloat64, lowest[float64]())
	assert.Equal(t, math.MaxFloat64, highest[float64]())
	assert.Equal(t, float32(-math.MaxFloat32), lowest[float32]())
	assert.Equal(t, float32(math.MaxFloat32), highest[float32]())
	assert.Equal(t, int8(math.MinInt8), lowest[int8]())
	assert.Equal(t, int8(math.MaxInt8), highest[int8]())
	assert.Equal(t, int32(math.MinInt32), lowest[int32]())
	assert.Equal(t, int64(math.MaxInt64), highest[int64]())
	assert.Equal(t, int(math.MinInt), lowest[int]())
	assert.Equal(t, uint8(0), lowest[uint8]())
	assert.Equal(t, uint8(math.MaxUint8), highest[uint8]())
	assert.Equal(t, uint16(math.MaxUint16), highest[uint16]())
	assert.Equal(t, uint64(math.MaxUint64), highest[uint64]())
	assert.Equal(t, meters(math.MaxFloat64), highest[meters]())
}

func TestUnbounded(t *testing.T) {
	assert.True(t, math.IsInf(unbounded[float64](), 1))
	assert.True(t, math.IsInf(float64(unbounded[float32]()), 1))
	assert.Equal(t, int(math.MaxInt), unbounded[int]())
	assert.Equal(t, uint32(math.MaxUint32), unbounded[uint32]())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		class NumberClass
		size  int
		got   func() (NumberClass, int)
	}{
		{"float64", ClassFloat, 8, Classify[float64]},
		{"float32", ClassFloat, 4, Classify[float32]},
		{"meters", ClassFloat, 8, Classify[meters]},
		{"int8", ClassSigned, 1, Classify[int8]},
		{"int64", ClassSigned, 8, Classify[int64]},
		{"uint16", ClassUnsigned, 2, Classify[uint16]},
		{"uint64", ClassUnsigned, 8, Classify[uint64]},
	}
	for _, tt := range tests {
		class, size := tt.got()
		assert.Equal(t, tt.class, class, tt.name)
		assert.Equal(t, tt.size, size, tt.name)
	}
}
