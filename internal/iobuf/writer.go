// Package iobuf implements the wire format's low-level byte plumbing: the
// growable, alignment-aware output buffer (spec.md §4.1) and its
// bounds-checked mirror reader (§4.2). Every multi-byte write/read goes
// through an Align call first, so the emitted stream carries the zero
// padding the wire format mandates — it is not a packed byte stream.
//
// Grounded on the teacher's internal/pool.ByteBuffer, generalized from a
// blob-oriented growth policy to the spec's alignment-driven one (see
// Writer.grow).
package iobuf

import (
	"encoding/binary"
	"math"
)

// growthRound is the rounding granularity for buffer capacity, the
// "cache-line aligned" allocation of spec.md §4.1. It affects capacity
// only; writes are never padded to it.
const growthRound = 128

// Writer is a growable output byte buffer with an append cursor and typed
// write primitives. It is not safe for concurrent use (codec instances are
// single-threaded per spec.md §5).
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer with an initial capacity of at least hint
// bytes, rounded up to the next multiple of 128.
func NewWriter(hint int) *Writer {
	return &Writer{buf: make([]byte, 0, roundUp128(hint))}
}

// NewWriterFromBuf wraps an existing byte slice as the Writer's backing
// store (reset to zero length), letting a caller recycle a buffer
// obtained from a pool instead of allocating fresh capacity on every
// Serialize call.
func NewWriterFromBuf(buf []byte) *Writer {
	return &Writer{buf: buf[:0]}
}

// RawBuf returns the Writer's full backing slice (capacity included), for
// returning to a pool after Reset.
func (w *Writer) RawBuf() []byte { return w.buf }

func roundUp128(n int) int {
	if n <= 0 {
		return growthRound
	}

	return ((n + growthRound - 1) / growthRound) * growthRound
}

// Bytes returns the live prefix of the buffer. Valid until the next Reset
// or write call.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Reset empties the buffer but keeps the underlying array for reuse.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// ensure grows the buffer so that at least n more bytes can be appended
// without reallocating again immediately.
//
// Growth policy (spec.md §4.1): newCap = roundUp128(max(2*oldCap, pos+n+128)).
// All growth copies the live prefix.
func (w *Writer) ensure(n int) {
	if cap(w.buf)-len(w.buf) >= n {
		return
	}

	oldCap := cap(w.buf)
	want := len(w.buf) + n + growthRound
	if doubled := oldCap * 2; doubled > want {
		want = doubled
	}

	newBuf := make([]byte, len(w.buf), roundUp128(want))
	copy(newBuf, w.buf)
	w.buf = newBuf
}

// Align rounds the write cursor up to the next multiple of k (capped at 8)
// by appending zero padding. k <= 1 is a no-op.
func (w *Writer) Align(k int) {
	if k > 8 {
		k = 8
	}
	if k <= 1 {
		return
	}

	rem := len(w.buf) % k
	if rem == 0 {
		return
	}

	pad := k - rem
	w.ensure(pad)
	old := len(w.buf)
	w.buf = w.buf[:old+pad]
	for i := old; i < len(w.buf); i++ {
		w.buf[i] = 0
	}
}

// putFixed aligns to n, grows, extends by n bytes and hands the fresh
// window to write.
func (w *Writer) putFixed(n int, write func(dst []byte)) {
	w.Align(n)
	w.ensure(n)
	old := len(w.buf)
	w.buf = w.buf[:old+n]
	write(w.buf[old : old+n])
}

// U8 appends a single byte. Never needs alignment.
func (w *Writer) U8(v uint8) {
	w.ensure(1)
	w.buf = append(w.buf, v)
}

// U16LE appends v as little-endian uint16, aligned to 2.
func (w *Writer) U16LE(v uint16) {
	w.putFixed(2, func(d []byte) { binary.LittleEndian.PutUint16(d, v) })
}

// I16LE appends v as little-endian int16, aligned to 2.
func (w *Writer) I16LE(v int16) {
	w.putFixed(2, func(d []byte) { binary.LittleEndian.PutUint16(d, uint16(v)) })
}

// U32LE appends v as little-endian uint32, aligned to 4.
func (w *Writer) U32LE(v uint32) {
	w.putFixed(4, func(d []byte) { binary.LittleEndian.PutUint32(d, v) })
}

// I32LE appends v as little-endian int32, aligned to 4.
func (w *Writer) I32LE(v int32) {
	w.putFixed(4, func(d []byte) { binary.LittleEndian.PutUint32(d, uint32(v)) })
}

// F32LE appends v as little-endian IEEE 754 single precision, aligned to 4.
func (w *Writer) F32LE(v float32) {
	w.putFixed(4, func(d []byte) { binary.LittleEndian.PutUint32(d, math.Float32bits(v)) })
}

// F64LE appends v as little-endian IEEE 754 double precision, aligned to 8.
func (w *Writer) F64LE(v float64) {
	w.putFixed(8, func(d []byte) { binary.LittleEndian.PutUint64(d, math.Float64bits(v)) })
}

// I64LE appends v as little-endian int64, aligned to 8.
func (w *Writer) I64LE(v int64) {
	w.putFixed(8, func(d []byte) { binary.LittleEndian.PutUint64(d, uint64(v)) })
}

// U64LE appends v as little-endian uint64, aligned to 8.
func (w *Writer) U64LE(v uint64) {
	w.putFixed(8, func(d []byte) { binary.LittleEndian.PutUint64(d, v) })
}

// Bulk appends raw bytes with no alignment of its own; callers that need
// alignment (e.g. PackedArray) call Align explicitly first.
func (w *Writer) Bulk(b []byte) {
	w.ensure(len(b))
	w.buf = append(w.buf, b...)
}

// Varint emits u as an unsigned LEB128-style value: 7-bit little-endian
// groups with the high bit set as a continuation flag. 5 bytes are
// reserved up front (spec.md §4.1), sufficient for the full uint32 domain.
func (w *Writer) Varint(u uint64) {
	w.ensure(5)
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			w.buf = append(w.buf, b|0x80)

			continue
		}

		w.buf = append(w.buf, b)

		return
	}
}

// PackedArray writes a varint length, aligns to min(elemSize, 8), then
// hands fill a zeroed window of n*elemSize bytes to populate with raw
// little-endian elements.
func (w *Writer) PackedArray(elemSize, n int, fill func(dst []byte)) {
	w.Varint(uint64(n))

	alignK := elemSize
	if alignK > 8 {
		alignK = 8
	}
	w.Align(alignK)

	total := n * elemSize
	w.ensure(total)
	old := len(w.buf)
	w.buf = w.buf[:old+total]
	fill(w.buf[old : old+total])
}
