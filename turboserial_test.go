package turboserial

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixagram-blockchain/turboserial/value"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	require.NotNil(t, c)
	require.True(t, c.opts.Deduplication)
	require.True(t, c.opts.DetectCircular)
	require.False(t, c.opts.SerializeFunctions)
}

func TestNew_AppliesOptions(t *testing.T) {
	c, err := New(
		WithDeduplication(false),
		WithCircularDetection(false),
		WithFunctionSerialization(true),
		WithMemoryPoolSize(4096),
	)
	require.NoError(t, err)
	require.False(t, c.opts.Deduplication)
	require.False(t, c.opts.DetectCircular)
	require.True(t, c.opts.SerializeFunctions)
}

func TestCodec_RoundTrip_Primitives(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	for _, v := range []value.Value{
		value.TheNull,
		value.TheUndefined,
		value.Number(42),
		value.Number(-3.5),
		value.String("hello"),
		value.String(""),
	} {
		out, err := c.Serialize(v)
		require.NoError(t, err)

		got, err := c.Deserialize(out)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestCodec_RoundTrip_Object(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	obj := value.NewObject().
		Set("b", value.Number(2)).
		Set("a", value.Number(1))

	out, err := c.Serialize(obj)
	require.NoError(t, err)

	got, err := c.Deserialize(out)
	require.NoError(t, err)

	gotObj, ok := got.(*value.Object)
	require.True(t, ok)
	require.Len(t, gotObj.Props, 2)
}

func TestCodec_RoundTrip_Array(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	arr := value.NewArray(value.Number(1), value.Number(2), value.Number(3))

	out, err := c.Serialize(arr)
	require.NoError(t, err)

	got, err := c.Deserialize(out)
	require.NoError(t, err)

	gotArr, ok := got.(*value.Array)
	require.True(t, ok)
	require.Len(t, gotArr.Elems, 3)
}

func TestCodec_RoundTrip_CircularObject(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	obj := value.NewObject()
	obj.Set("self", obj)

	out, err := c.Serialize(obj)
	require.NoError(t, err)

	got, err := c.Deserialize(out)
	require.NoError(t, err)

	gotObj, ok := got.(*value.Object)
	require.True(t, ok)
	require.Len(t, gotObj.Props, 1)
	require.Same(t, got, gotObj.Props[0].Value)
}

func TestCodec_ReusableAcrossCalls(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	first, err := c.Serialize(value.String("first"))
	require.NoError(t, err)

	second, err := c.Serialize(value.String("second"))
	require.NoError(t, err)

	gotFirst, err := c.Deserialize(first)
	require.NoError(t, err)
	require.Equal(t, value.String("first"), gotFirst)

	gotSecond, err := c.Deserialize(second)
	require.NoError(t, err)
	require.Equal(t, value.String("second"), gotSecond)
}
