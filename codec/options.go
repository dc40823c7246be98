// Package codec implements the writer and reader drivers (spec.md §4.6,
// §4.7, §4.8, §4.9, C8/C9): the top-level transaction that walks a
// value.Value graph and turns it into a framed byte stream, and its
// mirror that turns the stream back into a graph.
package codec

import "github.com/pixagram-blockchain/turboserial/classify"

// Options mirrors the library's per-instance configuration table (spec.md
// §6.2) in the form the writer driver needs it in. Disabling any field
// only weakens the encoder; Reader has no options of its own and accepts
// a stream produced under any combination of these.
type Options struct {
	Deduplication               bool
	ShareArrayBuffers           bool
	NumericArrayPacking         bool
	DetectCircular              bool
	SerializeFunctions          bool
	PreservePropertyDescriptors bool
}

func (o Options) classifyOptions() classify.Options {
	return classify.Options{
		PreservePropertyDescriptors: o.PreservePropertyDescriptors,
		NumericArrayPacking:         o.NumericArrayPacking,
	}
}
