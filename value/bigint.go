package value

import "math/big"

// BigInt represents an arbitrary-precision integer. math/big is the
// standard-library choice here (see DESIGN.md): no repo in the example
// pack ships a big-integer library, and math/big is the idiomatic Go
// answer to spec.md §4.5's BigInt classification (sign split, fits in
// signed 64 bits or not).
type BigInt struct {
	V *big.Int
}

func (*BigInt) isValue() {}

// NewBigInt wraps v. A nil v is treated as zero.
func NewBigInt(v *big.Int) *BigInt {
	if v == nil {
		v = new(big.Int)
	}

	return &BigInt{V: v}
}

// FitsSigned64 reports whether v fits in a signed 64-bit integer, the
// threshold spec.md §4.5 uses to pick *_SMALL vs *_LARGE.
func (b *BigInt) FitsSigned64() bool {
	return b.V.IsInt64()
}
