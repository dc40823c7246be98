// Package refs implements the reference tracker (spec.md §3.3, C7): the
// three independent identity-keyed tables — object/array/collection,
// string, and buffer — that both the writer and reader drivers consult to
// deduplicate repeated values and preserve cyclic structure.
//
// Package refs defines two halves of the same contract: Encoder tracks
// identities seen while walking a value graph and hands out ids in
// first-seen order; Decoder is the mirrored vector the reader driver
// appends to, index-addressed by that same id.
package refs

import (
	"github.com/pixagram-blockchain/turboserial/internal/hash"
	"github.com/pixagram-blockchain/turboserial/value"
)

// MinDedupStringLen is the length threshold spec.md §3.3 sets for string
// deduplication: "content-equal strings share an id when their length > 3".
const MinDedupStringLen = 3

// Encoder holds the encode-side reference tables for a single
// serialize() transaction (spec.md §4.7): reset at the start of every
// call, discarded at the end.
type Encoder struct {
	objectIDs map[value.Value]uint32
	objectSeq uint32

	// stringBuckets groups strings by the module's xxhash64 helper
	// (internal/hash, grounded on the teacher's metric-name identification
	// use of the same hash) so lookup stays O(1) even under hash
	// collisions.
	stringBuckets map[uint64][]stringSlot
	stringSeq     uint32

	bufferIDs map[*value.ArrayBuffer]uint32
	bufferSeq uint32
}

type stringSlot struct {
	s  string
	id uint32
}

// NewEncoder returns a fresh, empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{
		objectIDs:     make(map[value.Value]uint32),
		stringBuckets: make(map[uint64][]stringSlot),
		bufferIDs:     make(map[*value.ArrayBuffer]uint32),
	}
}

// Reset clears all three tables, ready for the next serialize() call.
func (e *Encoder) Reset() {
	clear(e.objectIDs)
	clear(e.stringBuckets)
	clear(e.bufferIDs)
	e.objectSeq = 0
	e.stringSeq = 0
	e.bufferSeq = 0
}

// LookupObject returns the id previously assigned to v, if any. v's
// identity is its Go pointer value (every heap Value implementation in
// package value is a pointer type).
func (e *Encoder) LookupObject(v value.Value) (uint32, bool) {
	id, ok := e.objectIDs[v]

	return id, ok
}

// AssignObject assigns the next sequential id to v.
func (e *Encoder) AssignObject(v value.Value) uint32 {
	id := e.objectSeq
	e.objectIDs[v] = id
	e.objectSeq++

	return id
}

// LookupString returns the id previously assigned to content-equal string
// s, if any.
func (e *Encoder) LookupString(s string) (uint32, bool) {
	h := hash.ID(s)
	for _, slot := range e.stringBuckets[h] {
		if slot.s == s {
			return slot.id, true
		}
	}

	return 0, false
}

// AssignString assigns the next sequential string id to s.
func (e *Encoder) AssignString(s string) uint32 {
	h := hash.ID(s)
	id := e.stringSeq
	e.stringBuckets[h] = append(e.stringBuckets[h], stringSlot{s: s, id: id})
	e.stringSeq++

	return id
}

// LookupBuffer returns the id previously assigned to buf's backing store,
// if any.
func (e *Encoder) LookupBuffer(buf *value.ArrayBuffer) (uint32, bool) {
	id, ok := e.bufferIDs[buf]

	return id, ok
}

// AssignBuffer assigns the next sequential buffer id to buf.
func (e *Encoder) AssignBuffer(buf *value.ArrayBuffer) uint32 {
	id := e.bufferSeq
	e.bufferIDs[buf] = id
	e.bufferSeq++

	return id
}

// Decoder holds the decode-side mirrored vectors for a single
// deserialize() transaction: index i of each slice is exactly the value
// the encoder assigned id i to.
type Decoder struct {
	objects []value.Value
	strings []string
	buffers []*value.ArrayBuffer
}

// NewDecoder returns a fresh, empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// RegisterObjectShell appends an (initially empty) container shell and
// returns its id. The reader driver must call this BEFORE descending into
// the container's children (spec.md §4.8 step 4), so that a child's
// CIRCULAR_REF/REFERENCE can resolve to it.
func (d *Decoder) RegisterObjectShell(shell value.Value) uint32 {
	id := uint32(len(d.objects))
	d.objects = append(d.objects, shell)

	return id
}

// ObjectAt returns the object registered at id.
func (d *Decoder) ObjectAt(id uint32) (value.Value, bool) {
	if int(id) >= len(d.objects) {
		return nil, false
	}

	return d.objects[id], true
}

// ObjectCount returns how many ids are currently registered, the bound a
// REFERENCE/CIRCULAR_REF id must be strictly less than.
func (d *Decoder) ObjectCount() uint32 { return uint32(len(d.objects)) }

// RegisterString appends a decoded string and returns its id.
func (d *Decoder) RegisterString(s string) uint32 {
	id := uint32(len(d.strings))
	d.strings = append(d.strings, s)

	return id
}

// StringAt returns the string registered at id.
func (d *Decoder) StringAt(id uint32) (string, bool) {
	if int(id) >= len(d.strings) {
		return "", false
	}

	return d.strings[id], true
}

// StringCount returns how many string ids are currently registered.
func (d *Decoder) StringCount() uint32 { return uint32(len(d.strings)) }

// RegisterBuffer appends a decoded buffer and returns its id.
func (d *Decoder) RegisterBuffer(buf *value.ArrayBuffer) uint32 {
	id := uint32(len(d.buffers))
	d.buffers = append(d.buffers, buf)

	return id
}

// BufferAt returns the buffer registered at id.
func (d *Decoder) BufferAt(id uint32) (*value.ArrayBuffer, bool) {
	if int(id) >= len(d.buffers) {
		return nil, false
	}

	return d.buffers[id], true
}

// BufferCount returns how many buffer ids are currently registered.
func (d *Decoder) BufferCount() uint32 { return uint32(len(d.buffers)) }
