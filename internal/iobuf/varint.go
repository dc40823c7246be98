package iobuf

// VarintLen returns the number of bytes required to LEB128-encode u,
// without allocating a scratch buffer. Grounded on the teacher's
// encoding.varintLen fast-path table (encoding/tag.go), extended to the
// 32-bit domain this wire format actually uses (spec.md §4.1: varint
// "accepts any non-negative integer up to 2^32 − 1").
func VarintLen(u uint64) int {
	switch {
	case u < 1<<7:
		return 1
	case u < 1<<14:
		return 2
	case u < 1<<21:
		return 3
	case u < 1<<28:
		return 4
	default:
		return 5
	}
}
