// Package numarray implements the numeric-array analyzer (spec.md §4.4):
// a pure function that looks at a dense array and recommends the
// narrowest packed element type, or recommends against packing at all.
//
// The analyzer never touches a buffer — it is a classification step the
// writer driver consults before deciding between ARR_DENSE and one of the
// ARR_PACK_* tags.
package numarray

import (
	"math"

	"github.com/pixagram-blockchain/turboserial/value"
)

// Kind is the analyzer's recommendation.
type Kind int

const (
	// Dense means: do not pack, fall back to ARR_DENSE.
	Dense Kind = iota
	PackedI8
	PackedI16
	PackedI32
	PackedF32
	PackedF64
)

// Classify runs the six-step procedure of spec.md §4.4 over elems (which
// must have no holes — sparse arrays never reach the analyzer; the
// classifier filters that first).
func Classify(elems []value.Value) Kind {
	n := len(elems)
	if n == 0 {
		return Dense
	}

	// Step 1: sample the first element's category.
	if _, ok := elems[0].(value.Number); !ok {
		return Dense
	}

	// Step 2: eligibility gate.
	if !(n >= 8 && (isPowerOfTwo(n) || n >= 16)) {
		return Dense
	}

	// Step 3: sample homogeneity, stepping every max(1, len/32) indices.
	stride := n / 32
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < n; i += stride {
		if _, ok := elems[i].(value.Number); !ok {
			return Dense
		}
	}

	// Step 4: full scan.
	allInt := true
	allF32 := true
	min := math.Inf(1)
	max := math.Inf(-1)

	for _, v := range elems {
		num, ok := v.(value.Number)
		if !ok {
			return Dense
		}

		f := float64(num)
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}

		if allInt && (math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f)) {
			allInt = false
		}
		if allF32 && float64(float32(f)) != f {
			allF32 = false
		}
	}

	// Step 5/6.
	if allInt {
		magnitude := math.Max(math.Abs(min), math.Abs(max))
		switch {
		case magnitude <= math.MaxInt8:
			return PackedI8
		case magnitude <= math.MaxInt16:
			return PackedI16
		case magnitude <= math.MaxInt32:
			return PackedI32
		default:
			return PackedF64
		}
	}

	if allF32 {
		return PackedF32
	}

	return PackedF64
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
