// Package classify implements the classifier (spec.md §4.5, C6): a pure,
// type-directed mapping from a value.Value to the wire.Tag that will carry
// it. Classify never touches a buffer and never makes a reference-table
// decision — REFERENCE/STRING_REF/BUFFER_REF/CIRCULAR_REF are chosen
// earlier, by the writer driver (package codec), before a value ever
// reaches Classify (spec.md §4.6 steps 1-4 happen first, step 5 is
// "Classify value; emit tag").
//
// Because every value the codec handles is one of the closed set of
// concrete types in package value, Classify is a Go type switch rather
// than the reflection-based dispatch spec.md §9 describes the source
// using — the idiomatic Go equivalent for a statically typed host.
package classify

import (
	"math"

	"github.com/pixagram-blockchain/turboserial/internal/numarray"
	"github.com/pixagram-blockchain/turboserial/value"
	"github.com/pixagram-blockchain/turboserial/wire"
)

// Options gates the parts of classification that the library's
// configuration (spec.md §6.2) can weaken.
type Options struct {
	// PreservePropertyDescriptors allows OBJ_WITH_DESCRIPTORS; when
	// false, objects with accessors or non-default descriptor flags fall
	// through to the next rule instead.
	PreservePropertyDescriptors bool

	// NumericArrayPacking allows the numeric-array analyzer to recommend
	// a packed tag; when false, every non-sparse array classifies as
	// ARR_DENSE.
	NumericArrayPacking bool
}

// Classify returns the wire tag for v.
func Classify(v value.Value, opts Options) wire.Tag {
	switch t := v.(type) {
	case value.Null:
		return wire.NULL
	case value.Undefined:
		return wire.UNDEFINED
	case value.Bool:
		if t {
			return wire.TRUE
		}

		return wire.FALSE
	case value.Number:
		return numberTag(float64(t))
	case *value.BigInt:
		return bigIntTag(t)
	case value.String:
		return stringTag(string(t))
	case *value.Array:
		return arrayTag(t, opts)
	case *value.Object:
		return objectTag(t, opts)
	case *value.Map:
		return wire.MAP
	case *value.Set:
		return wire.SET
	case *value.Date:
		if !t.Valid {
			return wire.DATE_INVALID
		}

		return wire.DATE
	case *value.RegExp:
		return wire.REGEX
	case *value.ArrayBuffer:
		if t.Shared {
			return wire.SHAREDARRAYBUFFER
		}

		return wire.ARRAYBUFFER
	case *value.TypedArray:
		return typedArrayTag(t.Kind)
	case *value.DataView:
		return wire.DATAVIEW
	case *value.ErrorValue:
		return errorTag(t.Kind)
	case *value.Symbol:
		return symbolTag(t)
	case *value.Blob:
		return wire.BLOB
	case *value.File:
		return wire.FILE
	case *value.Function:
		// Callables are not serialised on their own: they only have a
		// wire shape inside an OBJ_WITH_METHODS body. A bare callable
		// classifies to the primitive-absent tag (spec.md §4.5
		// "Callable").
		return wire.UNDEFINED
	case *value.Inaccessible:
		// Never reaches the wire directly: the writer driver drops the
		// owning property before classification. Defensive fallback for
		// a root-level Inaccessible.
		return wire.UNDEFINED
	default:
		return wire.UNDEFINED
	}
}

func numberTag(n float64) wire.Tag {
	switch {
	case math.IsNaN(n):
		return wire.NAN
	case math.IsInf(n, 1):
		return wire.PINF
	case math.IsInf(n, -1):
		return wire.NINF
	case n == 0 && math.Signbit(n):
		return wire.NEGZ
	}

	if n == math.Trunc(n) {
		switch {
		case n >= math.MinInt8 && n <= math.MaxInt8:
			return wire.I8
		case n >= math.MinInt16 && n <= math.MaxInt16:
			return wire.I16
		case n >= math.MinInt32 && n <= math.MaxInt32:
			return wire.I32
		case n >= 0 && n <= math.MaxUint32:
			return wire.U32
		}
		// Falls through: an integer too large for any fixed-width slot
		// is encoded as a float below, same as any other non-integer.
	}

	if float64(float32(n)) == n {
		return wire.F32
	}

	return wire.F64
}

func bigIntTag(b *value.BigInt) wire.Tag {
	neg := b.V.Sign() < 0
	if b.FitsSigned64() {
		if neg {
			return wire.BIGINT_NEG_SMALL
		}

		return wire.BIGINT_POS_SMALL
	}

	if neg {
		return wire.BIGINT_NEG_LARGE
	}

	return wire.BIGINT_POS_LARGE
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}

	return true
}

func stringTag(s string) wire.Tag {
	if s == "" {
		return wire.STR_EMPTY
	}

	if isASCII(s) {
		switch n := len(s); {
		case n <= wire.TinyThreshold:
			return wire.STR_ASCII_TINY
		case n < wire.ShortThreshold:
			return wire.STR_ASCII_SHORT
		default:
			return wire.STR_ASCII_LONG
		}
	}

	switch n := len(s); { // Go strings are already UTF-8; byte length is what matters here.
	case n <= wire.TinyThreshold:
		return wire.STR_UTF8_TINY
	case n < wire.ShortThreshold:
		return wire.STR_UTF8_SHORT
	default:
		return wire.STR_UTF8_LONG
	}
}

func arrayTag(a *value.Array, opts Options) wire.Tag {
	n := a.Len()
	if n == 0 {
		return wire.ARR_EMPTY
	}

	filled := a.FilledCount()
	threshold := (3*n + 3) / 4 // ceil(3n/4)
	if a.HasHoles() || filled < threshold {
		return wire.ARR_SPARSE
	}

	if !opts.NumericArrayPacking {
		return wire.ARR_DENSE
	}

	switch numarray.Classify(a.Elems) {
	case numarray.PackedI8:
		return wire.ARR_PACK_I8
	case numarray.PackedI16:
		return wire.ARR_PACK_I16
	case numarray.PackedI32:
		return wire.ARR_PACK_I32
	case numarray.PackedF32:
		return wire.ARR_PACK_F32
	case numarray.PackedF64:
		return wire.ARR_PACK_F64
	default:
		return wire.ARR_DENSE
	}
}

func objectTag(o *value.Object, opts Options) wire.Tag {
	if opts.PreservePropertyDescriptors && (o.HasAnyAccessor() || o.HasAnyNonDefaultDescriptor()) {
		return wire.OBJ_WITH_DESCRIPTORS
	}

	if o.HasAnyMethod() {
		return wire.OBJ_WITH_METHODS
	}

	if len(o.Props) == 0 {
		return wire.OBJ_EMPTY
	}

	if o.DefaultPrototype {
		return wire.OBJ_LITERAL
	}

	return wire.OBJ_CONSTRUCTOR
}

func typedArrayTag(k value.TypedKind) wire.Tag {
	switch k {
	case value.KindU8:
		return wire.TYPED_U8
	case value.KindI8:
		return wire.TYPED_I8
	case value.KindU8Clamped:
		return wire.TYPED_U8C
	case value.KindU16:
		return wire.TYPED_U16
	case value.KindI16:
		return wire.TYPED_I16
	case value.KindU32:
		return wire.TYPED_U32
	case value.KindI32:
		return wire.TYPED_I32
	case value.KindF32:
		return wire.TYPED_F32
	case value.KindF64:
		return wire.TYPED_F64
	case value.KindI64:
		return wire.TYPED_I64
	case value.KindU64:
		return wire.TYPED_U64
	default:
		return wire.TYPED_U8
	}
}

func errorTag(k value.ErrorKind) wire.Tag {
	switch k {
	case value.ErrorGeneric:
		return wire.ERROR
	case value.ErrorEval:
		return wire.EVAL
	case value.ErrorRange:
		return wire.RANGE
	case value.ErrorRef:
		return wire.REF
	case value.ErrorSyntax:
		return wire.SYNTAX
	case value.ErrorType:
		return wire.TYPE
	case value.ErrorURI:
		return wire.URI
	case value.ErrorAggregate:
		return wire.AGGREGATE
	case value.ErrorCustom:
		return wire.CUSTOM
	default:
		return wire.ERROR
	}
}

func symbolTag(s *value.Symbol) wire.Tag {
	switch {
	case s.IsGlobal:
		return wire.SYMBOL_GLOBAL
	case s.IsWellKnown:
		return wire.SYMBOL_WELLKNOWN
	case !s.HasDescription:
		return wire.SYMBOL_NO_DESC
	default:
		return wire.SYMBOL
	}
}
