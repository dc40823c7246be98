package iobuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_AlignmentPadding(t *testing.T) {
	w := NewWriter(16)
	w.U8(0xAA)
	w.U16LE(0x03E8) // 1000, must land on an even offset

	b := w.Bytes()
	require.Len(t, b, 4)
	assert.Equal(t, byte(0xAA), b[0])
	assert.Equal(t, byte(0x00), b[1], "alignment pad byte must be zero")
	assert.Equal(t, byte(0xE8), b[2])
	assert.Equal(t, byte(0x03), b[3])
}

func TestWriter_AlignmentNoOpWhenAligned(t *testing.T) {
	w := NewWriter(16)
	w.U32LE(1) // offset 0, already 4-aligned
	w.U32LE(2)
	assert.Len(t, w.Bytes(), 8)
}

func TestWriter_AlignCapsAtEight(t *testing.T) {
	w := NewWriter(16)
	w.U8(1)
	w.I64LE(42) // align(8) caps the k parameter at 8, not elemSize beyond it
	b := w.Bytes()
	assert.Len(t, b, 16)
	assert.Equal(t, byte(0), b[1])
	assert.Equal(t, byte(0), b[7])
}

func TestWriter_GrowthRounds128(t *testing.T) {
	w := NewWriter(1)
	assert.Equal(t, 128, cap(w.buf))

	w.Bulk(make([]byte, 200))
	assert.GreaterOrEqual(t, cap(w.buf), 200)
	assert.Equal(t, 0, cap(w.buf)%128)
}

func TestWriter_VarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 16383, 16384, 1 << 28, 1<<32 - 1}
	for _, v := range cases {
		w := NewWriter(16)
		w.Varint(v)
		r := NewReader(w.Bytes())
		got, err := r.Varint()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestWriter_PackedArray(t *testing.T) {
	w := NewWriter(16)
	w.U8(1) // force misalignment before the packed block
	w.PackedArray(4, 3, func(dst []byte) {
		for i := 0; i < 3; i++ {
			dst[i*4] = byte(i + 1)
		}
	})

	r := NewReader(w.Bytes())
	_, err := r.U8()
	require.NoError(t, err)
	n, data, err := r.PackedArray(4)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, data, 12)
	assert.Equal(t, byte(1), data[0])
	assert.Equal(t, byte(2), data[4])
	assert.Equal(t, byte(3), data[8])
}

func TestWriter_ResetKeepsUnderlyingArray(t *testing.T) {
	w := NewWriter(16)
	w.Bulk([]byte{1, 2, 3})
	oldCap := cap(w.buf)
	w.Reset()
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, oldCap, cap(w.buf))
}
