package codec

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixagram-blockchain/turboserial/errs"
	"github.com/pixagram-blockchain/turboserial/value"
	"github.com/pixagram-blockchain/turboserial/wire"
)

func roundTrip(t *testing.T, v value.Value) value.Value {
	t.Helper()

	w := NewWriter(64)
	out, err := w.Serialize(v, defaultOptions())
	require.NoError(t, err)

	r := NewReader()
	got, err := r.Deserialize(out)
	require.NoError(t, err)

	return got
}

func TestDeserialize_InvalidMagic(t *testing.T) {
	r := NewReader()
	_, err := r.Deserialize([]byte{0, 0, 0, 0, wire.Version})
	assert.ErrorIs(t, err, errs.ErrInvalidMagic)
}

func TestDeserialize_UnsupportedVersion(t *testing.T) {
	r := NewReader()
	data := append(header(), 0xFF)
	data[4] = 0xFF
	_, err := r.Deserialize(data)
	assert.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}

func TestDeserialize_UnknownTag(t *testing.T) {
	r := NewReader()
	data := append(header(), 0xFF)
	_, err := r.Deserialize(data)
	assert.ErrorIs(t, err, errs.ErrUnknownTag)
}

func TestDeserialize_DanglingReference(t *testing.T) {
	r := NewReader()
	data := append(header(), byte(wire.REFERENCE), 7)
	_, err := r.Deserialize(data)
	assert.ErrorIs(t, err, errs.ErrInvalidReference)
}

func TestDeserialize_TruncatedInput(t *testing.T) {
	r := NewReader()
	_, err := r.Deserialize(header())
	assert.Error(t, err)
}

func TestRoundTrip_Numbers(t *testing.T) {
	cases := []float64{0, math.Copysign(0, -1), 1, -1, 127, 128, -128, 1000, 70000, math.NaN(), math.Inf(1), math.Inf(-1), 3.5}
	for _, n := range cases {
		got := roundTrip(t, value.Number(n))
		gn, ok := got.(value.Number)
		require.True(t, ok)
		if math.IsNaN(n) {
			assert.True(t, math.IsNaN(float64(gn)))

			continue
		}
		assert.Equal(t, n, float64(gn))
	}
}

func TestRoundTrip_BigInt(t *testing.T) {
	small := value.NewBigInt(big.NewInt(-12345))
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	large := value.NewBigInt(huge)

	for _, b := range []*value.BigInt{small, large} {
		got := roundTrip(t, b)
		gb, ok := got.(*value.BigInt)
		require.True(t, ok)
		assert.Equal(t, 0, b.V.Cmp(gb.V))
	}
}

func TestRoundTrip_String(t *testing.T) {
	cases := []string{"", "a", "hello", "a string long enough to dedicate a sixteen-plus byte tier", "héllo wörld"}
	for _, s := range cases {
		got := roundTrip(t, value.String(s))
		gs, ok := got.(value.String)
		require.True(t, ok)
		assert.Equal(t, s, string(gs))
	}
}

func TestRoundTrip_SparseArray(t *testing.T) {
	a := value.NewSparseArray(5)
	a.Set(0, value.Number(1))
	a.Set(4, value.Number(2))

	got := roundTrip(t, a)
	ga, ok := got.(*value.Array)
	require.True(t, ok)
	require.Len(t, ga.Elems, 5)
	assert.Nil(t, ga.Elems[1])
	assert.Equal(t, value.Number(1), ga.Elems[0])
	assert.Equal(t, value.Number(2), ga.Elems[4])
}

func TestRoundTrip_PackedArrays(t *testing.T) {
	i8 := make([]value.Value, 16)
	f64 := make([]value.Value, 16)
	for i := 0; i < 16; i++ {
		i8[i] = value.Number(float64(i))
		f64[i] = value.Number(float64(i) + 0.1)
	}

	got := roundTrip(t, value.NewArray(i8...))
	ga := got.(*value.Array)
	for i := 0; i < 16; i++ {
		assert.Equal(t, value.Number(float64(i)), ga.Elems[i])
	}

	got2 := roundTrip(t, value.NewArray(f64...))
	ga2 := got2.(*value.Array)
	for i := 0; i < 16; i++ {
		assert.Equal(t, value.Number(float64(i)+0.1), ga2.Elems[i])
	}
}

func TestRoundTrip_ObjectWithDescriptors(t *testing.T) {
	o := value.NewObject()
	o.SetProperty(value.Property{Key: "hidden", Value: value.Number(1), Writable: true, Configurable: true})
	o.SetProperty(value.DefaultProperty("visible", value.Number(2)))

	got := roundTrip(t, o)
	go_, ok := got.(*value.Object)
	require.True(t, ok)
	require.Len(t, go_.Props, 2)
	assert.False(t, go_.Props[0].Enumerable)
	assert.True(t, go_.Props[1].Enumerable)
}

func TestRoundTrip_ConstructorObject(t *testing.T) {
	o := value.NewConstructedObject("Point")
	o.Set("x", value.Number(1))
	o.Set("y", value.Number(2))

	got := roundTrip(t, o)
	go_, ok := got.(*value.Object)
	require.True(t, ok)
	assert.Equal(t, "Point", go_.ConstructorName)
	assert.False(t, go_.DefaultPrototype)
}

func TestRoundTrip_MapAndSet(t *testing.T) {
	m := value.NewMap()
	m.Put(value.String("k"), value.Number(1))
	got := roundTrip(t, m)
	gm, ok := got.(*value.Map)
	require.True(t, ok)
	require.Len(t, gm.Entries, 1)
	assert.Equal(t, value.String("k"), gm.Entries[0].Key)

	s := value.NewSet()
	s.Add(value.Number(1))
	s.Add(value.Number(2))
	got2 := roundTrip(t, s)
	gs, ok := got2.(*value.Set)
	require.True(t, ok)
	assert.Len(t, gs.Items, 2)
}

func TestRoundTrip_Date(t *testing.T) {
	d := value.NewDate(time.UnixMilli(1700000000123))
	got := roundTrip(t, d)
	gd, ok := got.(*value.Date)
	require.True(t, ok)
	assert.True(t, gd.Valid)
	assert.Equal(t, d.UnixMilli(), gd.UnixMilli())

	inv := value.NewInvalidDate()
	got2 := roundTrip(t, inv)
	gi, ok := got2.(*value.Date)
	require.True(t, ok)
	assert.False(t, gi.Valid)
}

func TestRoundTrip_RegExp(t *testing.T) {
	re := &value.RegExp{Source: `\d+`, Flags: "gi"}
	got := roundTrip(t, re)
	gre, ok := got.(*value.RegExp)
	require.True(t, ok)
	assert.Equal(t, re.Source, gre.Source)
	assert.Equal(t, re.Flags, gre.Flags)
}

func TestRoundTrip_ArrayBuffer(t *testing.T) {
	buf := value.NewArrayBuffer([]byte{1, 2, 3, 4})
	got := roundTrip(t, buf)
	gb, ok := got.(*value.ArrayBuffer)
	require.True(t, ok)
	assert.Equal(t, buf.Data, gb.Data)
}

func TestRoundTrip_DataView(t *testing.T) {
	buf := value.NewArrayBuffer([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	d := &value.DataView{Buffer: buf, ByteOffset: 2, ByteLength: 4}
	got := roundTrip(t, d)
	gd, ok := got.(*value.DataView)
	require.True(t, ok)
	assert.Equal(t, d.ByteOffset, gd.ByteOffset)
	assert.Equal(t, d.ByteLength, gd.ByteLength)
	assert.Equal(t, buf.Data[2:6], gd.Buffer.Data[gd.ByteOffset:gd.ByteOffset+gd.ByteLength])
}

func TestRoundTrip_Error(t *testing.T) {
	e := value.NewError("boom", "at line 1")
	got := roundTrip(t, e)
	ge, ok := got.(*value.ErrorValue)
	require.True(t, ok)
	assert.Equal(t, "boom", ge.Message)
	assert.Equal(t, "at line 1", ge.Stack)

	agg := &value.ErrorValue{
		Kind:    value.ErrorAggregate,
		Message: "multiple",
		Inner:   []value.Value{value.NewError("a", ""), value.NewError("b", "")},
	}
	got2 := roundTrip(t, agg)
	gagg, ok := got2.(*value.ErrorValue)
	require.True(t, ok)
	require.Len(t, gagg.Inner, 2)
}

func TestRoundTrip_Symbol(t *testing.T) {
	s1 := &value.Symbol{HasDescription: true, Description: "tag"}
	got := roundTrip(t, s1)
	gs, ok := got.(*value.Symbol)
	require.True(t, ok)
	assert.Equal(t, "tag", gs.Description)

	s2 := &value.Symbol{IsGlobal: true, GlobalKey: "app.id"}
	got2 := roundTrip(t, s2)
	gs2 := got2.(*value.Symbol)
	assert.True(t, gs2.IsGlobal)
	assert.Equal(t, "app.id", gs2.GlobalKey)
}

func TestRoundTrip_BlobAndFile(t *testing.T) {
	b := &value.Blob{A: 1, B: 2}
	got := roundTrip(t, b)
	gb, ok := got.(*value.Blob)
	require.True(t, ok)
	assert.Equal(t, b.A, gb.A)
	assert.Equal(t, b.B, gb.B)

	f := &value.File{A: 3, B: 4}
	got2 := roundTrip(t, f)
	gf, ok := got2.(*value.File)
	require.True(t, ok)
	assert.Equal(t, f.A, gf.A)
}

func TestRoundTrip_MethodObjectWithPlaceholder(t *testing.T) {
	o := value.NewObject()
	o.Set("greet", &value.Function{Name: "greet", Source: "function greet(){}", HasSource: true})
	o.Set("label", value.String("hi"))

	got := roundTrip(t, o)
	go_, ok := got.(*value.Object)
	require.True(t, ok)
	require.Len(t, go_.Props, 2)

	var fnProp, labelProp *value.Property
	for i := range go_.Props {
		switch go_.Props[i].Key {
		case "greet":
			fnProp = &go_.Props[i]
		case "label":
			labelProp = &go_.Props[i]
		}
	}
	require.NotNil(t, fnProp)
	require.NotNil(t, labelProp)

	fn, ok := fnProp.Value.(*value.Function)
	require.True(t, ok)
	assert.False(t, fn.HasSource, "SerializeFunctions defaults to false: only the placeholder survives")
	assert.Equal(t, value.String("hi"), labelProp.Value)
}

func TestRoundTrip_MethodObjectWithSource(t *testing.T) {
	o := value.NewObject()
	o.Set("greet", &value.Function{Name: "greet", Source: "function greet(){}", HasSource: true})

	opts := defaultOptions()
	opts.SerializeFunctions = true

	w := NewWriter(64)
	out, err := w.Serialize(o, opts)
	require.NoError(t, err)

	r := NewReader()
	got, err := r.Deserialize(out)
	require.NoError(t, err)

	go_ := got.(*value.Object)
	fn := go_.Props[0].Value.(*value.Function)
	assert.True(t, fn.HasSource)
	assert.Equal(t, "function greet(){}", fn.Source)
	assert.Equal(t, "greet", fn.Name)
}

func TestDeserialize_Idempotent(t *testing.T) {
	o := value.NewObject()
	o.Set("a", value.Number(1))

	w := NewWriter(64)
	out, err := w.Serialize(o, defaultOptions())
	require.NoError(t, err)

	r := NewReader()
	first, err := r.Deserialize(out)
	require.NoError(t, err)
	second, err := r.Deserialize(out)
	require.NoError(t, err)

	assert.NotSame(t, first.(*value.Object), second.(*value.Object))
	assert.Equal(t, first.(*value.Object).Props, second.(*value.Object).Props)
}
