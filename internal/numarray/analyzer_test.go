package numarray

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixagram-blockchain/turboserial/value"
)

func numbers(vs ...float64) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = value.Number(v)
	}

	return out
}

func TestClassify_SmallIntsPackI8(t *testing.T) {
	vs := numbers(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16)
	assert.Equal(t, PackedI8, Classify(vs))
}

func TestClassify_HalfForcesF32(t *testing.T) {
	vs := numbers(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 0.5)
	assert.Equal(t, PackedF32, Classify(vs))
}

func TestClassify_PiForcesF64(t *testing.T) {
	vs := numbers(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, math.Pi)
	assert.Equal(t, PackedF64, Classify(vs))
}

func TestClassify_BelowEligibilityGateStaysDense(t *testing.T) {
	vs := numbers(1, 2, 3, 4, 5, 6, 7) // len 7 < 8
	assert.Equal(t, Dense, Classify(vs))
}

func TestClassify_NonPowerOfTwoBelowSixteenStaysDense(t *testing.T) {
	vs := numbers(1, 2, 3, 4, 5, 6, 7, 8, 9, 10) // len 10: not pow2, < 16
	assert.Equal(t, Dense, Classify(vs))
}

func TestClassify_NonPowerOfTwoAtOrAboveSixteenEligible(t *testing.T) {
	vs := numbers(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17)
	assert.Equal(t, PackedI8, Classify(vs))
}

func TestClassify_NonNumericFirstElementStaysDense(t *testing.T) {
	vs := make([]value.Value, 16)
	vs[0] = value.String("x")
	for i := 1; i < 16; i++ {
		vs[i] = value.Number(float64(i))
	}
	assert.Equal(t, Dense, Classify(vs))
}

func TestClassify_LargeIntOverflowsToF64(t *testing.T) {
	vs := numbers(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, math.MaxInt32+1)
	assert.Equal(t, PackedF64, Classify(vs))
}

func TestClassify_EmptyIsDense(t *testing.T) {
	assert.Equal(t, Dense, Classify(nil))
}
