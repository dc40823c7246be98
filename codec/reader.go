package codec

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/pixagram-blockchain/turboserial/errs"
	"github.com/pixagram-blockchain/turboserial/internal/iobuf"
	"github.com/pixagram-blockchain/turboserial/refs"
	"github.com/pixagram-blockchain/turboserial/value"
	"github.com/pixagram-blockchain/turboserial/wire"
)

// Reader holds one deserialize() transaction's state. It has no options of
// its own: spec.md §6.2 "the decoder must accept any output from any
// configuration" — every construction path below registers into the
// reference tables unconditionally, so a REFERENCE/STRING_REF/BUFFER_REF
// that does appear always resolves, and one that never appears costs
// nothing.
type Reader struct {
	buf  *iobuf.Reader
	refs *refs.Decoder
}

// NewReader returns a fresh Reader.
func NewReader() *Reader {
	return &Reader{refs: refs.NewDecoder()}
}

// Deserialize runs one atomic transaction (spec.md §4.7/§4.8): validate
// header, decode exactly one root value. Each call gets a fresh reference
// table, satisfying "idempotence of decode" (spec.md §8) directly.
func (r *Reader) Deserialize(data []byte) (value.Value, error) {
	r.refs = refs.NewDecoder()
	r.buf = iobuf.NewReader(data)

	magic, err := r.buf.U32LE()
	if err != nil {
		return nil, err
	}
	if magic != wire.Magic {
		return nil, errs.ErrInvalidMagic
	}

	ver, err := r.buf.U8()
	if err != nil {
		return nil, err
	}
	if ver != wire.Version {
		return nil, errs.ErrUnsupportedFormat
	}

	return r.readValue()
}

func (r *Reader) readTag() (wire.Tag, error) {
	b, err := r.buf.U8()
	if err != nil {
		return 0, err
	}

	tag := wire.Tag(b)
	if !tag.Known() {
		return 0, errs.ErrUnknownTag
	}

	return tag, nil
}

func (r *Reader) readValue() (value.Value, error) {
	tag, err := r.readTag()
	if err != nil {
		return nil, err
	}

	return r.dispatch(tag)
}

// readString reads a value known to be a string-typed slot (an object
// key, a constructor name, …) and unwraps it.
func (r *Reader) readString() (string, error) {
	v, err := r.readValue()
	if err != nil {
		return "", err
	}

	s, ok := v.(value.String)
	if !ok {
		return "", errs.ErrUnsupportedValue
	}

	return string(s), nil
}

func (r *Reader) dispatch(tag wire.Tag) (value.Value, error) {
	switch tag {
	case wire.REFERENCE:
		id, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		v, ok := r.refs.ObjectAt(uint32(id))
		if !ok {
			return nil, errs.ErrInvalidReference
		}

		return v, nil
	case wire.STRING_REF:
		id, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		s, ok := r.refs.StringAt(uint32(id))
		if !ok {
			return nil, errs.ErrInvalidReference
		}

		return value.String(s), nil
	case wire.BUFFER_REF:
		id, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		b, ok := r.refs.BufferAt(uint32(id))
		if !ok {
			return nil, errs.ErrInvalidReference
		}

		return b, nil
	case wire.CIRCULAR_REF:
		id, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		v, ok := r.refs.ObjectAt(uint32(id))
		if !ok {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidReference, errs.ErrCircularNotRegistered)
		}

		return v, nil
	default:
		return r.decode(tag)
	}
}

func (r *Reader) decode(tag wire.Tag) (value.Value, error) {
	switch tag {
	case wire.NULL:
		return value.TheNull, nil
	case wire.UNDEFINED:
		return value.TheUndefined, nil
	case wire.FALSE:
		return value.Bool(false), nil
	case wire.TRUE:
		return value.Bool(true), nil
	case wire.I8, wire.I16, wire.I32, wire.U32, wire.F32, wire.F64,
		wire.NAN, wire.PINF, wire.NINF, wire.NEGZ, wire.VARINT:
		return r.decodeNumber(tag)
	case wire.BIGINT_POS_SMALL, wire.BIGINT_NEG_SMALL, wire.BIGINT_POS_LARGE, wire.BIGINT_NEG_LARGE:
		return r.decodeBigInt(tag)
	case wire.STR_EMPTY, wire.STR_ASCII_TINY, wire.STR_ASCII_SHORT, wire.STR_ASCII_LONG,
		wire.STR_UTF8_TINY, wire.STR_UTF8_SHORT, wire.STR_UTF8_LONG:
		return r.decodeString(tag)
	case wire.ARR_EMPTY, wire.ARR_DENSE, wire.ARR_SPARSE,
		wire.ARR_PACK_I8, wire.ARR_PACK_I16, wire.ARR_PACK_I32, wire.ARR_PACK_F32, wire.ARR_PACK_F64:
		return r.decodeArray(tag)
	case wire.OBJ_EMPTY, wire.OBJ_PLAIN, wire.OBJ_LITERAL, wire.OBJ_CONSTRUCTOR,
		wire.OBJ_WITH_DESCRIPTORS, wire.OBJ_WITH_METHODS:
		return r.decodeObject(tag)
	case wire.TYPED_U8, wire.TYPED_I8, wire.TYPED_U8C, wire.TYPED_U16, wire.TYPED_I16,
		wire.TYPED_U32, wire.TYPED_I32, wire.TYPED_F32, wire.TYPED_F64, wire.TYPED_I64, wire.TYPED_U64:
		return r.decodeTypedArray(tag)
	case wire.DATAVIEW:
		return r.decodeDataView()
	case wire.ARRAYBUFFER, wire.SHAREDARRAYBUFFER:
		return r.decodeArrayBuffer(tag)
	case wire.MAP:
		return r.decodeMap()
	case wire.SET:
		return r.decodeSet()
	case wire.DATE, wire.DATE_INVALID:
		return r.decodeDate(tag)
	case wire.ERROR, wire.EVAL, wire.RANGE, wire.REF, wire.SYNTAX, wire.TYPE, wire.URI, wire.AGGREGATE, wire.CUSTOM:
		return r.decodeError(tag)
	case wire.REGEX:
		return r.decodeRegExp()
	case wire.BLOB:
		return r.decodeBlob()
	case wire.FILE:
		return r.decodeFile()
	case wire.SYMBOL, wire.SYMBOL_GLOBAL, wire.SYMBOL_WELLKNOWN, wire.SYMBOL_NO_DESC:
		return r.decodeSymbol(tag)
	case wire.FUNCTION_PLACEHOLDER:
		return &value.Function{}, nil
	default:
		return nil, errs.ErrUnknownTag
	}
}

func (r *Reader) decodeNumber(tag wire.Tag) (value.Value, error) {
	switch tag {
	case wire.I8:
		b, err := r.buf.U8()
		if err != nil {
			return nil, err
		}

		return value.Number(float64(int8(b))), nil
	case wire.I16:
		v, err := r.buf.I16LE()
		if err != nil {
			return nil, err
		}

		return value.Number(float64(v)), nil
	case wire.I32:
		v, err := r.buf.I32LE()
		if err != nil {
			return nil, err
		}

		return value.Number(float64(v)), nil
	case wire.U32:
		v, err := r.buf.U32LE()
		if err != nil {
			return nil, err
		}

		return value.Number(float64(v)), nil
	case wire.F32:
		v, err := r.buf.F32LE()
		if err != nil {
			return nil, err
		}

		return value.Number(float64(v)), nil
	case wire.F64:
		v, err := r.buf.F64LE()
		if err != nil {
			return nil, err
		}

		return value.Number(v), nil
	case wire.NAN:
		return value.Number(math.NaN()), nil
	case wire.PINF:
		return value.Number(math.Inf(1)), nil
	case wire.NINF:
		return value.Number(math.Inf(-1)), nil
	case wire.NEGZ:
		return value.Number(math.Copysign(0, -1)), nil
	default: // VARINT
		u, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}

		return value.Number(float64(u)), nil
	}
}

func (r *Reader) decodeBigInt(tag wire.Tag) (value.Value, error) {
	b := value.NewBigInt(new(big.Int))
	r.refs.RegisterObjectShell(b)

	switch tag {
	case wire.BIGINT_POS_SMALL, wire.BIGINT_NEG_SMALL:
		u, err := r.buf.U64LE()
		if err != nil {
			return nil, err
		}
		b.V.SetUint64(u)
		if tag == wire.BIGINT_NEG_SMALL {
			b.V.Neg(b.V)
		}
	default: // *_LARGE
		n, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		raw, err := r.buf.Bulk(int(n))
		if err != nil {
			return nil, err
		}
		b.V.SetBytes(raw)
		if tag == wire.BIGINT_NEG_LARGE {
			b.V.Neg(b.V)
		}
	}

	return b, nil
}

func (r *Reader) decodeString(tag wire.Tag) (value.Value, error) {
	if tag == wire.STR_EMPTY {
		return value.String(""), nil
	}

	var n int
	switch tag {
	case wire.STR_ASCII_TINY, wire.STR_ASCII_SHORT, wire.STR_UTF8_TINY, wire.STR_UTF8_SHORT:
		b, err := r.buf.U8()
		if err != nil {
			return nil, err
		}
		n = int(b)
	default: // *_LONG
		u, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		n = int(u)
	}

	raw, err := r.buf.Bulk(n)
	if err != nil {
		return nil, err
	}

	s := string(raw)
	if len(s) > refs.MinDedupStringLen {
		r.refs.RegisterString(s)
	}

	return value.String(s), nil
}

func (r *Reader) decodeArray(tag wire.Tag) (value.Value, error) {
	a := &value.Array{}
	r.refs.RegisterObjectShell(a)

	switch tag {
	case wire.ARR_EMPTY:
		return a, nil
	case wire.ARR_SPARSE:
		total, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		filled, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}

		a.Elems = make([]value.Value, total)
		for i := uint64(0); i < filled; i++ {
			idx, err := r.buf.Varint()
			if err != nil {
				return nil, err
			}
			if idx >= total {
				return nil, errs.ErrUnsupportedValue
			}
			v, err := r.readValue()
			if err != nil {
				return nil, err
			}
			a.Elems[idx] = v
		}

		return a, nil
	case wire.ARR_PACK_I8, wire.ARR_PACK_I16, wire.ARR_PACK_I32, wire.ARR_PACK_F32, wire.ARR_PACK_F64:
		return r.decodePackedArray(a, tag)
	default: // ARR_DENSE
		n, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}

		a.Elems = make([]value.Value, n)
		for i := range a.Elems {
			v, err := r.readValue()
			if err != nil {
				return nil, err
			}
			a.Elems[i] = v
		}

		return a, nil
	}
}

func (r *Reader) decodePackedArray(a *value.Array, tag wire.Tag) (value.Value, error) {
	var elemSize int
	switch tag {
	case wire.ARR_PACK_I8:
		elemSize = 1
	case wire.ARR_PACK_I16:
		elemSize = 2
	case wire.ARR_PACK_I32, wire.ARR_PACK_F32:
		elemSize = 4
	default: // ARR_PACK_F64
		elemSize = 8
	}

	n, data, err := r.buf.PackedArray(elemSize)
	if err != nil {
		return nil, err
	}

	a.Elems = make([]value.Value, n)
	for i := 0; i < n; i++ {
		switch tag {
		case wire.ARR_PACK_I8:
			a.Elems[i] = value.Number(float64(int8(data[i])))
		case wire.ARR_PACK_I16:
			a.Elems[i] = value.Number(float64(getI16(data[i*2:])))
		case wire.ARR_PACK_I32:
			a.Elems[i] = value.Number(float64(getI32(data[i*4:])))
		case wire.ARR_PACK_F32:
			a.Elems[i] = value.Number(float64(getF32(data[i*4:])))
		default:
			a.Elems[i] = value.Number(getF64(data[i*8:]))
		}
	}

	return a, nil
}

func (r *Reader) decodeObject(tag wire.Tag) (value.Value, error) {
	o := &value.Object{}
	r.refs.RegisterObjectShell(o)

	switch tag {
	case wire.OBJ_EMPTY:
		o.DefaultPrototype = true

		return o, nil
	case wire.OBJ_PLAIN, wire.OBJ_LITERAL:
		o.DefaultPrototype = true

		return o, r.fillPlainBody(o)
	case wire.OBJ_CONSTRUCTOR:
		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		o.ConstructorName = name

		return o, r.fillPlainBody(o)
	case wire.OBJ_WITH_DESCRIPTORS:
		return o, r.fillDescriptorBody(o)
	default: // OBJ_WITH_METHODS
		return o, r.fillMethodBody(o)
	}
}

func (r *Reader) fillPlainBody(o *value.Object) error {
	n, err := r.buf.Varint()
	if err != nil {
		return err
	}

	for i := uint64(0); i < n; i++ {
		key, err := r.readString()
		if err != nil {
			return err
		}
		val, err := r.readValue()
		if err != nil {
			return err
		}
		o.Props = append(o.Props, value.DefaultProperty(key, val))
	}

	return nil
}

func (r *Reader) fillDescriptorBody(o *value.Object) error {
	n, err := r.buf.Varint()
	if err != nil {
		return err
	}

	for i := uint64(0); i < n; i++ {
		key, err := r.readString()
		if err != nil {
			return err
		}
		flag, err := r.buf.U8()
		if err != nil {
			return err
		}

		p := value.Property{
			Key:          key,
			Enumerable:   flag&(1<<0) != 0,
			Writable:     flag&(1<<1) != 0,
			Configurable: flag&(1<<2) != 0,
			HasGetter:    flag&(1<<3) != 0,
			HasSetter:    flag&(1<<4) != 0,
		}

		switch {
		case p.HasGetter:
			g, err := r.readValue()
			if err != nil {
				return err
			}
			p.Getter = g
			if p.HasSetter {
				s, err := r.readValue()
				if err != nil {
					return err
				}
				p.Setter = s
			}
		case p.HasSetter:
			s, err := r.readValue()
			if err != nil {
				return err
			}
			p.Setter = s
		default:
			v, err := r.readValue()
			if err != nil {
				return err
			}
			p.Value = v
		}

		o.Props = append(o.Props, p)
	}

	return nil
}

func (r *Reader) fillMethodBody(o *value.Object) error {
	n, err := r.buf.Varint()
	if err != nil {
		return err
	}

	for i := uint64(0); i < n; i++ {
		key, err := r.readString()
		if err != nil {
			return err
		}
		flag, err := r.buf.U8()
		if err != nil {
			return err
		}

		if flag == 0 {
			v, err := r.readValue()
			if err != nil {
				return err
			}
			o.Props = append(o.Props, value.DefaultProperty(key, v))

			continue
		}

		tag, err := r.readTag()
		if err != nil {
			return err
		}
		if tag == wire.FUNCTION_PLACEHOLDER {
			o.Props = append(o.Props, value.DefaultProperty(key, &value.Function{Name: key}))

			continue
		}

		srcVal, err := r.dispatch(tag)
		if err != nil {
			return err
		}
		src, ok := srcVal.(value.String)
		if !ok {
			return errs.ErrUnsupportedValue
		}
		name, err := r.readString()
		if err != nil {
			return err
		}

		fn := &value.Function{Source: string(src), Name: name, HasSource: true}
		o.Props = append(o.Props, value.DefaultProperty(key, fn))
	}

	return nil
}

func (r *Reader) decodeMap() (value.Value, error) {
	m := &value.Map{}
	r.refs.RegisterObjectShell(m)

	n, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}

	for i := uint64(0); i < n; i++ {
		k, err := r.readValue()
		if err != nil {
			return nil, err
		}
		v, err := r.readValue()
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, value.MapEntry{Key: k, Val: v})
	}

	return m, nil
}

func (r *Reader) decodeSet() (value.Value, error) {
	s := &value.Set{}
	r.refs.RegisterObjectShell(s)

	n, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}

	for i := uint64(0); i < n; i++ {
		v, err := r.readValue()
		if err != nil {
			return nil, err
		}
		s.Items = append(s.Items, v)
	}

	return s, nil
}

func (r *Reader) decodeArrayBuffer(tag wire.Tag) (value.Value, error) {
	buf := &value.ArrayBuffer{Shared: tag == wire.SHAREDARRAYBUFFER}
	r.refs.RegisterObjectShell(buf)

	n, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}
	raw, err := r.buf.Bulk(int(n))
	if err != nil {
		return nil, err
	}

	buf.Data = append([]byte(nil), raw...)
	r.refs.RegisterBuffer(buf)

	return buf, nil
}

func (r *Reader) decodeTypedArray(tag wire.Tag) (value.Value, error) {
	kind := typedKindForTag(tag)
	t := &value.TypedArray{Kind: kind}
	r.refs.RegisterObjectShell(t)

	shareFlag, err := r.buf.U8()
	if err != nil {
		return nil, err
	}

	if shareFlag == 1 {
		id, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		buf, ok := r.refs.BufferAt(uint32(id))
		if !ok {
			return nil, errs.ErrInvalidReference
		}
		off, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		length, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}

		t.Buffer = buf
		t.ByteOffset = int(off)
		t.Length = int(length)

		return t, nil
	}

	off, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}
	length, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}

	elemSize := kind.ElemSize()
	total := int(length) * elemSize
	alignK := elemSize
	if alignK > 8 {
		alignK = 8
	}
	if err := r.buf.Align(alignK); err != nil {
		return nil, err
	}
	raw, err := r.buf.Bulk(total)
	if err != nil {
		return nil, err
	}

	data := make([]byte, int(off)+total)
	copy(data[off:], raw)
	buf := &value.ArrayBuffer{Data: data}
	r.refs.RegisterBuffer(buf)

	t.Buffer = buf
	t.ByteOffset = int(off)
	t.Length = int(length)

	return t, nil
}

func (r *Reader) decodeDataView() (value.Value, error) {
	d := &value.DataView{}
	r.refs.RegisterObjectShell(d)

	shareFlag, err := r.buf.U8()
	if err != nil {
		return nil, err
	}

	if shareFlag == 1 {
		id, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		buf, ok := r.refs.BufferAt(uint32(id))
		if !ok {
			return nil, errs.ErrInvalidReference
		}
		off, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		length, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}

		d.Buffer = buf
		d.ByteOffset = int(off)
		d.ByteLength = int(length)

		return d, nil
	}

	off, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}
	length, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}
	raw, err := r.buf.Bulk(int(length))
	if err != nil {
		return nil, err
	}

	data := make([]byte, int(off)+int(length))
	copy(data[off:], raw)
	buf := &value.ArrayBuffer{Data: data}
	r.refs.RegisterBuffer(buf)

	d.Buffer = buf
	d.ByteOffset = int(off)
	d.ByteLength = int(length)

	return d, nil
}

func (r *Reader) decodeDate(tag wire.Tag) (value.Value, error) {
	d := &value.Date{}
	r.refs.RegisterObjectShell(d)

	if tag == wire.DATE_INVALID {
		return d, nil
	}

	ms, err := r.buf.F64LE()
	if err != nil {
		return nil, err
	}

	d.Valid = true
	d.Time = time.UnixMilli(int64(ms))

	return d, nil
}

func (r *Reader) decodeRegExp() (value.Value, error) {
	re := &value.RegExp{}
	r.refs.RegisterObjectShell(re)

	src, err := r.readString()
	if err != nil {
		return nil, err
	}
	flags, err := r.readString()
	if err != nil {
		return nil, err
	}

	re.Source = src
	re.Flags = flags

	return re, nil
}

func (r *Reader) decodeError(tag wire.Tag) (value.Value, error) {
	e := &value.ErrorValue{Kind: errorKindForTag(tag)}
	r.refs.RegisterObjectShell(e)

	msg, err := r.readString()
	if err != nil {
		return nil, err
	}
	stack, err := r.readString()
	if err != nil {
		return nil, err
	}
	e.Message = msg
	e.Stack = stack

	if e.Kind == value.ErrorAggregate {
		n, err := r.buf.Varint()
		if err != nil {
			return nil, err
		}
		e.Inner = make([]value.Value, n)
		for i := range e.Inner {
			v, err := r.readValue()
			if err != nil {
				return nil, err
			}
			e.Inner[i] = v
		}
	}

	return e, nil
}

func (r *Reader) decodeSymbol(tag wire.Tag) (value.Value, error) {
	s := &value.Symbol{}
	r.refs.RegisterObjectShell(s)

	switch tag {
	case wire.SYMBOL_GLOBAL:
		v, err := r.readString()
		if err != nil {
			return nil, err
		}
		s.IsGlobal = true
		s.GlobalKey = v
	case wire.SYMBOL_WELLKNOWN:
		v, err := r.readString()
		if err != nil {
			return nil, err
		}
		s.IsWellKnown = true
		s.WellKnownName = v
	case wire.SYMBOL_NO_DESC:
		// no payload
	default: // SYMBOL
		v, err := r.readString()
		if err != nil {
			return nil, err
		}
		s.HasDescription = true
		s.Description = v
	}

	return s, nil
}

func (r *Reader) decodeBlob() (value.Value, error) {
	b := &value.Blob{}
	r.refs.RegisterObjectShell(b)

	a, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}
	bb, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}
	b.A, b.B = a, bb

	return b, nil
}

func (r *Reader) decodeFile() (value.Value, error) {
	f := &value.File{}
	r.refs.RegisterObjectShell(f)

	a, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}
	bb, err := r.buf.Varint()
	if err != nil {
		return nil, err
	}
	f.A, f.B = a, bb

	return f, nil
}

func typedKindForTag(tag wire.Tag) value.TypedKind {
	switch tag {
	case wire.TYPED_U8:
		return value.KindU8
	case wire.TYPED_I8:
		return value.KindI8
	case wire.TYPED_U8C:
		return value.KindU8Clamped
	case wire.TYPED_U16:
		return value.KindU16
	case wire.TYPED_I16:
		return value.KindI16
	case wire.TYPED_U32:
		return value.KindU32
	case wire.TYPED_I32:
		return value.KindI32
	case wire.TYPED_F32:
		return value.KindF32
	case wire.TYPED_F64:
		return value.KindF64
	case wire.TYPED_I64:
		return value.KindI64
	default: // TYPED_U64
		return value.KindU64
	}
}

func errorKindForTag(tag wire.Tag) value.ErrorKind {
	switch tag {
	case wire.EVAL:
		return value.ErrorEval
	case wire.RANGE:
		return value.ErrorRange
	case wire.REF:
		return value.ErrorRef
	case wire.SYNTAX:
		return value.ErrorSyntax
	case wire.TYPE:
		return value.ErrorType
	case wire.URI:
		return value.ErrorURI
	case wire.AGGREGATE:
		return value.ErrorAggregate
	case wire.CUSTOM:
		return value.ErrorCustom
	default: // ERROR
		return value.ErrorGeneric
	}
}
