package codec

import (
	"math/big"
	"sort"

	"github.com/pixagram-blockchain/turboserial/classify"
	"github.com/pixagram-blockchain/turboserial/errs"
	"github.com/pixagram-blockchain/turboserial/internal/iobuf"
	"github.com/pixagram-blockchain/turboserial/refs"
	"github.com/pixagram-blockchain/turboserial/value"
	"github.com/pixagram-blockchain/turboserial/wire"
)

// Writer holds one serialize() transaction's state: the output buffer,
// the three reference tables, and the cycle set (spec.md §4.7). Reset
// empties all of it so the instance can be reused for the next call.
type Writer struct {
	buf   *iobuf.Writer
	refs  *refs.Encoder
	cycle map[value.Value]struct{}
	opts  Options
	copts classify.Options
}

// NewWriter returns a Writer with an initial buffer capacity hint
// (spec.md §6.2 "memoryPoolSize"), rounded up by iobuf.NewWriter.
func NewWriter(hint int) *Writer {
	return &Writer{
		buf:   iobuf.NewWriter(hint),
		refs:  refs.NewEncoder(),
		cycle: make(map[value.Value]struct{}),
	}
}

// Reset clears all transaction state, ready for the next Serialize call.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.refs.Reset()
	clear(w.cycle)
}

// Serialize runs one atomic transaction over root (spec.md §4.7): reset,
// emit header, pre-walk (if enabled), main walk, return the live buffer
// prefix. The returned slice is a copy, independent of the Writer's
// internal buffer, so the caller owns it per spec.md §5.
func (w *Writer) Serialize(root value.Value, opts Options) ([]byte, error) {
	w.Reset()
	w.opts = opts
	w.copts = opts.classifyOptions()

	w.buf.U32LE(wire.Magic)
	w.buf.U8(wire.Version)

	if opts.DetectCircular {
		w.prewalk(root)
	}

	if err := w.emit(root); err != nil {
		return nil, err
	}

	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())

	return out, nil
}

// prewalk is the depth-first pass of spec.md §4.6: any heap node
// re-encountered while it is still on the current recursion stack is the
// target of a back-edge and joins the cycle set. The other nodes on that
// path are not marked.
func (w *Writer) prewalk(root value.Value) {
	onStack := make(map[value.Value]struct{})
	done := make(map[value.Value]struct{})

	var walk func(value.Value)
	walk = func(v value.Value) {
		if !isHeapValue(v) {
			return
		}
		if _, on := onStack[v]; on {
			w.cycle[v] = struct{}{}

			return
		}
		if _, seen := done[v]; seen {
			return
		}

		onStack[v] = struct{}{}
		for _, c := range children(v) {
			walk(c)
		}
		delete(onStack, v)
		done[v] = struct{}{}
	}
	walk(root)
}

// emit is the main-walk dispatch of spec.md §4.6 steps 1-5: cycle check,
// object dedup, string dedup, buffer dedup, then classify-and-emit.
func (w *Writer) emit(v value.Value) error {
	if w.opts.DetectCircular {
		if _, inCycle := w.cycle[v]; inCycle {
			if id, ok := w.refs.LookupObject(v); ok {
				w.buf.U8(byte(wire.CIRCULAR_REF))
				w.buf.Varint(uint64(id))

				return nil
			}

			w.refs.AssignObject(v)

			return w.emitValue(v)
		}
	}

	if w.opts.Deduplication && isHeapValue(v) {
		if id, ok := w.refs.LookupObject(v); ok {
			w.buf.U8(byte(wire.REFERENCE))
			w.buf.Varint(uint64(id))

			return nil
		}

		w.refs.AssignObject(v)

		return w.emitValue(v)
	}

	if w.opts.Deduplication {
		if s, ok := v.(value.String); ok && len(string(s)) > refs.MinDedupStringLen {
			str := string(s)
			if id, ok2 := w.refs.LookupString(str); ok2 {
				w.buf.U8(byte(wire.STRING_REF))
				w.buf.Varint(uint64(id))

				return nil
			}

			w.refs.AssignString(str)

			return w.emitValue(v)
		}
	}

	if w.opts.ShareArrayBuffers {
		if buf, ok := v.(*value.ArrayBuffer); ok {
			if id, ok2 := w.refs.LookupBuffer(buf); ok2 {
				w.buf.U8(byte(wire.BUFFER_REF))
				w.buf.Varint(uint64(id))

				return nil
			}

			w.refs.AssignBuffer(buf)
			w.refs.AssignObject(v)

			return w.emitValue(v)
		}
	}

	// The reader registers every heap value it decodes, so an object id is
	// assigned here as well when deduplication is off; this keeps the ids
	// a CIRCULAR_REF carries in step with the reader's table.
	if isHeapValue(v) {
		w.refs.AssignObject(v)
	}

	return w.emitValue(v)
}

// emitValue classifies v and writes tag + payload. It never touches the
// object or string tables itself (emit already resolved dedup/cycle
// above); the ArrayBuffer, TypedArray and DataView payloads do look up and
// assign buffer-table ids.
func (w *Writer) emitValue(v value.Value) error {
	tag := classify.Classify(v, w.copts)
	w.buf.U8(byte(tag))

	switch t := v.(type) {
	case value.Null, value.Undefined:
		return nil
	case value.Bool:
		return nil
	case value.Number:
		w.emitNumber(float64(t), tag)

		return nil
	case *value.BigInt:
		w.emitBigInt(t, tag)

		return nil
	case value.String:
		w.emitString(string(t), tag)

		return nil
	case *value.Array:
		return w.emitArray(t, tag)
	case *value.Object:
		return w.emitObject(t, tag)
	case *value.Map:
		return w.emitMap(t)
	case *value.Set:
		return w.emitSet(t)
	case *value.Date:
		if t.Valid {
			w.buf.F64LE(float64(t.UnixMilli()))
		}

		return nil
	case *value.RegExp:
		if err := w.emit(value.String(t.Source)); err != nil {
			return err
		}

		return w.emit(value.String(t.Flags))
	case *value.ArrayBuffer:
		w.emitBufferBytes(t)

		return nil
	case *value.TypedArray:
		return w.emitTypedArray(t)
	case *value.DataView:
		return w.emitDataView(t)
	case *value.ErrorValue:
		return w.emitError(t)
	case *value.Symbol:
		return w.emitSymbol(t)
	case *value.Blob:
		w.buf.Varint(t.A)
		w.buf.Varint(t.B)

		return nil
	case *value.File:
		w.buf.Varint(t.A)
		w.buf.Varint(t.B)

		return nil
	case *value.Function:
		// Classified as UNDEFINED; no payload.
		return nil
	case *value.Inaccessible:
		return nil
	default:
		return errs.ErrUnsupportedValue
	}
}

func (w *Writer) emitNumber(n float64, tag wire.Tag) {
	switch tag {
	case wire.I8:
		w.buf.U8(byte(int8(n)))
	case wire.I16:
		w.buf.I16LE(int16(n))
	case wire.I32:
		w.buf.I32LE(int32(n))
	case wire.U32:
		w.buf.U32LE(uint32(n))
	case wire.F32:
		w.buf.F32LE(float32(n))
	case wire.F64:
		w.buf.F64LE(n)
	case wire.VARINT:
		w.buf.Varint(uint64(n))
	default:
		// NAN, PINF, NINF, NEGZ: tag alone is the payload.
	}
}

func (w *Writer) emitBigInt(b *value.BigInt, tag wire.Tag) {
	mag := new(big.Int).Abs(b.V)

	switch tag {
	case wire.BIGINT_POS_SMALL, wire.BIGINT_NEG_SMALL:
		w.buf.U64LE(mag.Uint64())
	case wire.BIGINT_POS_LARGE, wire.BIGINT_NEG_LARGE:
		bs := mag.Bytes()
		w.buf.Varint(uint64(len(bs)))
		w.buf.Bulk(bs)
	}
}

func (w *Writer) emitString(s string, tag wire.Tag) {
	b := []byte(s)

	switch tag {
	case wire.STR_EMPTY:
		return
	case wire.STR_ASCII_TINY, wire.STR_ASCII_SHORT, wire.STR_UTF8_TINY, wire.STR_UTF8_SHORT:
		w.buf.U8(uint8(len(b)))
	case wire.STR_ASCII_LONG, wire.STR_UTF8_LONG:
		w.buf.Varint(uint64(len(b)))
	}
	w.buf.Bulk(b)
}

func (w *Writer) emitArray(a *value.Array, tag wire.Tag) error {
	switch tag {
	case wire.ARR_EMPTY:
		return nil
	case wire.ARR_SPARSE:
		w.buf.Varint(uint64(a.Len()))
		w.buf.Varint(uint64(a.FilledCount()))
		for i, e := range a.Elems {
			if e == nil {
				continue
			}
			w.buf.Varint(uint64(i))
			if err := w.emit(e); err != nil {
				return err
			}
		}

		return nil
	case wire.ARR_PACK_I8:
		w.buf.PackedArray(1, a.Len(), func(dst []byte) {
			for i, e := range a.Elems {
				dst[i] = byte(int8(float64(e.(value.Number))))
			}
		})

		return nil
	case wire.ARR_PACK_I16:
		w.buf.PackedArray(2, a.Len(), func(dst []byte) {
			for i, e := range a.Elems {
				putI16(dst[i*2:], int16(float64(e.(value.Number))))
			}
		})

		return nil
	case wire.ARR_PACK_I32:
		w.buf.PackedArray(4, a.Len(), func(dst []byte) {
			for i, e := range a.Elems {
				putI32(dst[i*4:], int32(float64(e.(value.Number))))
			}
		})

		return nil
	case wire.ARR_PACK_F32:
		w.buf.PackedArray(4, a.Len(), func(dst []byte) {
			for i, e := range a.Elems {
				putF32(dst[i*4:], float32(float64(e.(value.Number))))
			}
		})

		return nil
	case wire.ARR_PACK_F64:
		w.buf.PackedArray(8, a.Len(), func(dst []byte) {
			for i, e := range a.Elems {
				putF64(dst[i*8:], float64(e.(value.Number)))
			}
		})

		return nil
	default: // ARR_DENSE
		w.buf.Varint(uint64(a.Len()))
		for _, e := range a.Elems {
			if err := w.emit(e); err != nil {
				return err
			}
		}

		return nil
	}
}

func (w *Writer) emitObject(o *value.Object, tag wire.Tag) error {
	switch tag {
	case wire.OBJ_EMPTY:
		return nil
	case wire.OBJ_WITH_DESCRIPTORS:
		return w.emitDescriptorBody(o)
	case wire.OBJ_WITH_METHODS:
		return w.emitMethodBody(o)
	case wire.OBJ_CONSTRUCTOR:
		if err := w.emit(value.String(o.ConstructorName)); err != nil {
			return err
		}

		return w.emitPlainBody(o)
	default: // OBJ_LITERAL
		return w.emitPlainBody(o)
	}
}

type kvPair struct {
	key string
	val value.Value
}

func (w *Writer) emitPlainBody(o *value.Object) error {
	var items []kvPair
	for _, p := range o.Props {
		if p.Inaccessible() || p.IsCallable() {
			continue
		}
		items = append(items, kvPair{p.Key, p.Value})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].key < items[j].key })

	w.buf.Varint(uint64(len(items)))
	for _, it := range items {
		if err := w.emit(value.String(it.key)); err != nil {
			return err
		}
		if err := w.emit(it.val); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) emitDescriptorBody(o *value.Object) error {
	var kept []value.Property
	for _, p := range o.Props {
		if !p.Inaccessible() {
			kept = append(kept, p)
		}
	}

	w.buf.Varint(uint64(len(kept)))
	for _, p := range kept {
		if err := w.emit(value.String(p.Key)); err != nil {
			return err
		}

		var flag byte
		if p.Enumerable {
			flag |= 1 << 0
		}
		if p.Writable {
			flag |= 1 << 1
		}
		if p.Configurable {
			flag |= 1 << 2
		}
		if p.HasGetter {
			flag |= 1 << 3
		}
		if p.HasSetter {
			flag |= 1 << 4
		}
		w.buf.U8(flag)

		switch {
		case p.HasGetter:
			if err := w.emit(p.Getter); err != nil {
				return err
			}
			if p.HasSetter {
				if err := w.emit(p.Setter); err != nil {
					return err
				}
			}
		case p.HasSetter:
			if err := w.emit(p.Setter); err != nil {
				return err
			}
		default:
			if err := w.emit(p.Value); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *Writer) emitMethodBody(o *value.Object) error {
	var kept []value.Property
	for _, p := range o.Props {
		if !p.Inaccessible() {
			kept = append(kept, p)
		}
	}

	w.buf.Varint(uint64(len(kept)))
	for _, p := range kept {
		if err := w.emit(value.String(p.Key)); err != nil {
			return err
		}

		if !p.IsCallable() {
			w.buf.U8(0)
			if err := w.emit(p.Value); err != nil {
				return err
			}

			continue
		}

		w.buf.U8(1)
		fn := p.Value.(*value.Function)
		if w.opts.SerializeFunctions {
			if err := w.emit(value.String(fn.Source)); err != nil {
				return err
			}
			if err := w.emit(value.String(fn.Name)); err != nil {
				return err
			}
		} else {
			w.buf.U8(byte(wire.FUNCTION_PLACEHOLDER))
		}
	}

	return nil
}

func (w *Writer) emitMap(m *value.Map) error {
	w.buf.Varint(uint64(len(m.Entries)))
	for _, e := range m.Entries {
		if err := w.emit(e.Key); err != nil {
			return err
		}
		if err := w.emit(e.Val); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) emitSet(s *value.Set) error {
	w.buf.Varint(uint64(len(s.Items)))
	for _, it := range s.Items {
		if err := w.emit(it); err != nil {
			return err
		}
	}

	return nil
}

// emitBufferBytes writes a bare ArrayBuffer's full contents and registers
// it in the buffer table, so a later TypedArray/DataView aliasing the same
// *value.ArrayBuffer can resolve to it via BUFFER_REF.
func (w *Writer) emitBufferBytes(buf *value.ArrayBuffer) {
	w.buf.Varint(uint64(len(buf.Data)))
	w.buf.Bulk(buf.Data)

	if w.opts.ShareArrayBuffers {
		if _, ok := w.refs.LookupBuffer(buf); !ok {
			w.refs.AssignBuffer(buf)
		}
	}
}

func (w *Writer) emitTypedArray(t *value.TypedArray) error {
	elemSize := t.Kind.ElemSize()
	total := t.Length * elemSize

	if w.opts.ShareArrayBuffers {
		if id, ok := w.refs.LookupBuffer(t.Buffer); ok {
			w.buf.U8(1)
			w.buf.Varint(uint64(id))
			w.buf.Varint(uint64(t.ByteOffset))
			w.buf.Varint(uint64(t.Length))

			return nil
		}
	}

	w.buf.U8(0)
	w.buf.Varint(uint64(t.ByteOffset))
	w.buf.Varint(uint64(t.Length))

	alignK := elemSize
	if alignK > 8 {
		alignK = 8
	}
	w.buf.Align(alignK)
	w.buf.Bulk(t.Buffer.Data[t.ByteOffset : t.ByteOffset+total])

	if w.opts.ShareArrayBuffers {
		w.refs.AssignBuffer(t.Buffer)
	}

	return nil
}

func (w *Writer) emitDataView(d *value.DataView) error {
	if w.opts.ShareArrayBuffers {
		if id, ok := w.refs.LookupBuffer(d.Buffer); ok {
			w.buf.U8(1)
			w.buf.Varint(uint64(id))
			w.buf.Varint(uint64(d.ByteOffset))
			w.buf.Varint(uint64(d.ByteLength))

			return nil
		}
	}

	w.buf.U8(0)
	w.buf.Varint(uint64(d.ByteOffset))
	w.buf.Varint(uint64(d.ByteLength))
	w.buf.Bulk(d.Buffer.Data[d.ByteOffset : d.ByteOffset+d.ByteLength])

	if w.opts.ShareArrayBuffers {
		w.refs.AssignBuffer(d.Buffer)
	}

	return nil
}

func (w *Writer) emitError(e *value.ErrorValue) error {
	if err := w.emit(value.String(e.Message)); err != nil {
		return err
	}
	if err := w.emit(value.String(e.Stack)); err != nil {
		return err
	}

	if e.Kind == value.ErrorAggregate {
		w.buf.Varint(uint64(len(e.Inner)))
		for _, inner := range e.Inner {
			if err := w.emit(inner); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *Writer) emitSymbol(s *value.Symbol) error {
	switch {
	case s.IsGlobal:
		return w.emit(value.String(s.GlobalKey))
	case s.IsWellKnown:
		return w.emit(value.String(s.WellKnownName))
	case !s.HasDescription:
		return nil
	default:
		return w.emit(value.String(s.Description))
	}
}
