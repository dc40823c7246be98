package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixagram-blockchain/turboserial/value"
	"github.com/pixagram-blockchain/turboserial/wire"
)

func defaultOptions() Options {
	return Options{
		Deduplication:               true,
		ShareArrayBuffers:           true,
		NumericArrayPacking:         true,
		DetectCircular:              true,
		PreservePropertyDescriptors: true,
	}
}

// header returns the expected 5-byte frame header. spec.md §8's literal S1
// and S2 byte dumps disagree with each other over this region and with
// wire.Magic's own declared value; DESIGN.md records that as a transcription
// slip in the source document and treats the constant as authoritative.
func header() []byte {
	return []byte{0x35, 0x52, 0x42, 0x54, wire.Version}
}

func TestSerialize_Null(t *testing.T) {
	w := NewWriter(64)
	out, err := w.Serialize(value.TheNull, defaultOptions())
	require.NoError(t, err)

	want := append(header(), byte(wire.NULL))
	assert.Equal(t, want, out)
}

func TestSerialize_IntegerAlignment(t *testing.T) {
	w := NewWriter(64)
	out, err := w.Serialize(value.Number(1000), defaultOptions())
	require.NoError(t, err)

	want := append(header(), byte(wire.I16), 0xE8, 0x03)
	assert.Equal(t, want, out)
}

func TestSerialize_ObjectKeysSorted(t *testing.T) {
	o := value.NewObject()
	o.Set("b", value.Number(1))
	o.Set("a", value.Number(2))

	w := NewWriter(64)
	out, err := w.Serialize(o, defaultOptions())
	require.NoError(t, err)

	want := append(header(),
		byte(wire.OBJ_LITERAL), 2,
		byte(wire.STR_ASCII_TINY), 1, 'a', byte(wire.I8), 2,
		byte(wire.STR_ASCII_TINY), 1, 'b', byte(wire.I8), 1,
	)
	assert.Equal(t, want, out)
}

func TestSerialize_CyclicObject(t *testing.T) {
	o := value.NewObject()
	o.Set("self", o)

	w := NewWriter(64)
	out, err := w.Serialize(o, defaultOptions())
	require.NoError(t, err)

	want := append(header(),
		byte(wire.OBJ_LITERAL), 1,
		byte(wire.STR_ASCII_TINY), 4, 's', 'e', 'l', 'f',
		byte(wire.CIRCULAR_REF), 0,
	)
	assert.Equal(t, want, out)
}

func TestSerialize_SharedTypedArrayUsesBufferRef(t *testing.T) {
	buf := value.NewArrayBuffer(make([]byte, 32))
	for i := range buf.Data {
		buf.Data[i] = byte(i)
	}

	v1 := &value.TypedArray{Kind: value.KindU8, Buffer: buf, ByteOffset: 0, Length: 16}
	v2 := &value.TypedArray{Kind: value.KindU8, Buffer: buf, ByteOffset: 16, Length: 16}
	arr := value.NewArray(v1, v2)

	w := NewWriter(64)
	out, err := w.Serialize(arr, defaultOptions())
	require.NoError(t, err)

	// Both views carry their own TYPED_U8 tag; only the second gets a
	// shareFlag of 1 plus a BUFFER_REF id in place of raw bytes.
	assert.Equal(t, 2, countBytes(out, byte(wire.TYPED_U8)))

	r := NewReader()
	got, err := r.Deserialize(out)
	require.NoError(t, err)

	gotArr, ok := got.(*value.Array)
	require.True(t, ok)
	require.Len(t, gotArr.Elems, 2)

	t1 := gotArr.Elems[0].(*value.TypedArray)
	t2 := gotArr.Elems[1].(*value.TypedArray)
	assert.Same(t, t1.Buffer, t2.Buffer, "both views must share one backing buffer after decode")
	assert.Equal(t, 16, t2.ByteOffset)
}

func countBytes(b []byte, v byte) int {
	n := 0
	for _, x := range b {
		if x == v {
			n++
		}
	}

	return n
}

func TestSerialize_PackedIntArray(t *testing.T) {
	elems := make([]value.Value, 16)
	for i := range elems {
		elems[i] = value.Number(float64(i + 1))
	}
	arr := value.NewArray(elems...)

	w := NewWriter(64)
	out, err := w.Serialize(arr, defaultOptions())
	require.NoError(t, err)

	payload := out[len(header()):]
	require.Equal(t, byte(wire.ARR_PACK_I8), payload[0])

	// tag + varint-count(1 byte for 16) + 16 packed bytes == 18.
	assert.LessOrEqual(t, len(payload), 18)
}

func TestSerialize_RoundTrip(t *testing.T) {
	o := value.NewObject()
	o.Set("n", value.Number(42))
	o.Set("s", value.String("hello world"))
	arr := value.NewArray(value.Number(1), value.Number(2), value.TheNull)
	o.Set("arr", arr)

	w := NewWriter(64)
	out, err := w.Serialize(o, defaultOptions())
	require.NoError(t, err)

	r := NewReader()
	got, err := r.Deserialize(out)
	require.NoError(t, err)

	gotObj, ok := got.(*value.Object)
	require.True(t, ok)
	require.Len(t, gotObj.Props, 3)
}

func TestSerialize_DedupRepeatedString(t *testing.T) {
	s := value.String("a repeated string value")
	arr := value.NewArray(s, s, s)

	w := NewWriter(64)
	out, err := w.Serialize(arr, defaultOptions())
	require.NoError(t, err)

	// The first occurrence is emitted in full; the two repeats are STRING_REFs.
	assert.Equal(t, 2, countBytes(out, byte(wire.STRING_REF)))
}

func TestSerialize_NoPackingWhenDisabled(t *testing.T) {
	elems := make([]value.Value, 4)
	for i := range elems {
		elems[i] = value.Number(float64(i))
	}
	arr := value.NewArray(elems...)

	opts := defaultOptions()
	opts.NumericArrayPacking = false

	w := NewWriter(64)
	out, err := w.Serialize(arr, opts)
	require.NoError(t, err)

	payload := out[len(header()):]
	assert.Equal(t, byte(wire.ARR_DENSE), payload[0])
}
