package codec

import (
	"github.com/pixagram-blockchain/turboserial/internal/iobuf"
	"github.com/pixagram-blockchain/turboserial/internal/pool"
	"github.com/pixagram-blockchain/turboserial/refs"
	"github.com/pixagram-blockchain/turboserial/value"
)

// bufPool recycles the growable byte slice backing a Writer across
// repeated Serialize calls (spec.md §5: the buffer is an optimisation
// hint, never required for correctness). Grounded on the teacher's
// internal/pool.ByteBufferPool.
var bufPool = pool.NewByteBufferPool(pool.DefaultSize, pool.DefaultMaxThreshold)

// AcquireWriter returns a Writer backed by a pooled buffer instead of a
// freshly allocated one. Pair with ReleaseWriter once the returned bytes
// from Serialize have been consumed (Serialize always copies its output,
// so the Writer's internal buffer is free to recycle immediately after
// the call returns).
func AcquireWriter() *Writer {
	bb := bufPool.Get()

	return &Writer{
		buf:   iobuf.NewWriterFromBuf(bb.B),
		refs:  refs.NewEncoder(),
		cycle: make(map[value.Value]struct{}),
	}
}

// ReleaseWriter returns w's backing buffer to the pool. w must not be used
// again after this call.
func ReleaseWriter(w *Writer) {
	bufPool.Put(&pool.ByteBuffer{B: w.buf.RawBuf()})
}
