package iobuf

import (
	"encoding/binary"
	"math"

	"github.com/pixagram-blockchain/turboserial/errs"
)

// Reader is a bounds-checked byte cursor over an immutable input, mirroring
// Writer's alignment and typed-read primitives exactly.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential, bounds-checked reads. data is not
// copied and must not be modified while the Reader is in use.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current read cursor.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total input length.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.data) {
		return errs.ErrBufferUnderflow
	}

	return nil
}

// Align advances the cursor to the next multiple of k (capped at 8),
// failing with ErrBufferUnderflow if the padding runs past the input.
func (r *Reader) Align(k int) error {
	if k > 8 {
		k = 8
	}
	if k <= 1 {
		return nil
	}

	rem := r.pos % k
	if rem == 0 {
		return nil
	}

	pad := k - rem
	if err := r.need(pad); err != nil {
		return err
	}
	r.pos += pad

	return nil
}

func (r *Reader) getFixed(n int) ([]byte, error) {
	if err := r.Align(n); err != nil {
		return nil, err
	}
	if err := r.need(n); err != nil {
		return nil, err
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

// U8 reads a single byte. Never needs alignment.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++

	return v, nil
}

// U16LE reads a little-endian uint16, aligned to 2.
func (r *Reader) U16LE() (uint16, error) {
	b, err := r.getFixed(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

// I16LE reads a little-endian int16, aligned to 2.
func (r *Reader) I16LE() (int16, error) {
	v, err := r.U16LE()
	return int16(v), err
}

// U32LE reads a little-endian uint32, aligned to 4.
func (r *Reader) U32LE() (uint32, error) {
	b, err := r.getFixed(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// I32LE reads a little-endian int32, aligned to 4.
func (r *Reader) I32LE() (int32, error) {
	v, err := r.U32LE()
	return int32(v), err
}

// F32LE reads a little-endian IEEE 754 single precision float, aligned to 4.
func (r *Reader) F32LE() (float32, error) {
	v, err := r.U32LE()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// F64LE reads a little-endian IEEE 754 double precision float, aligned to 8.
func (r *Reader) F64LE() (float64, error) {
	b, err := r.getFixed(8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// I64LE reads a little-endian int64, aligned to 8.
func (r *Reader) I64LE() (int64, error) {
	b, err := r.getFixed(8)
	if err != nil {
		return 0, err
	}

	return int64(binary.LittleEndian.Uint64(b)), nil
}

// U64LE reads a little-endian uint64, aligned to 8.
func (r *Reader) U64LE() (uint64, error) {
	b, err := r.getFixed(8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

// Bulk reads n raw bytes with no alignment of its own.
func (r *Reader) Bulk(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

// Varint decodes an unsigned LEB128-style value. Per spec.md §9 Open
// Question (c), the accumulator is 32-bit and a sixth continuation group
// is a decode error rather than a silent truncation.
func (r *Reader) Varint() (uint64, error) {
	var result uint32
	var shift uint

	for i := 0; i < 5; i++ {
		b, err := r.U8()
		if err != nil {
			return 0, err
		}

		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return uint64(result), nil
		}
		shift += 7
	}

	return 0, errs.ErrTruncatedVarint
}

// PackedArray reads a varint length, aligns to min(elemSize, 8), and
// returns the raw element bytes (length n*elemSize) alongside the element
// count.
func (r *Reader) PackedArray(elemSize int) (n int, data []byte, err error) {
	lenU, err := r.Varint()
	if err != nil {
		return 0, nil, err
	}
	n = int(lenU)

	alignK := elemSize
	if alignK > 8 {
		alignK = 8
	}
	if err := r.Align(alignK); err != nil {
		return 0, nil, err
	}

	data, err = r.Bulk(n * elemSize)
	if err != nil {
		return 0, nil, err
	}

	return n, data, nil
}
