// Package turboserial implements a dynamic value-graph binary
// serialization codec (spec.md): a tag-based wire format with
// reference/string/buffer deduplication, cycle detection, and a
// numeric-array packing fast path, laid out across classify/, wire/,
// refs/, internal/iobuf, internal/numarray and codec/.
//
// Codec is the public entry point; construct one with New and reuse it
// across Serialize/Deserialize calls the way the teacher's top-level
// encoder/decoder wrappers are meant to be reused.
package turboserial

import (
	"github.com/pixagram-blockchain/turboserial/codec"
	"github.com/pixagram-blockchain/turboserial/internal/options"
	"github.com/pixagram-blockchain/turboserial/value"
)

// config holds the resolved option values an Option mutates. It is
// unexported: callers only ever see it through With* constructors and
// the Codec they configure.
type config struct {
	deduplication       bool
	shareArrayBuffers   bool
	numericArrayPacking bool
	detectCircular      bool
	serializeFunctions  bool
	propertyDescriptors bool
	memoryPoolSize      int
}

// defaultConfig matches spec.md §6.2's documented defaults: every
// space-saving feature on, functions excluded by default (REDESIGN
// FLAGS treats function serialization as opt-in), 64KiB pooled buffers.
func defaultConfig() *config {
	return &config{
		deduplication:       true,
		shareArrayBuffers:   true,
		numericArrayPacking: true,
		detectCircular:      true,
		serializeFunctions:  false,
		propertyDescriptors: true,
		memoryPoolSize:      64 * 1024,
	}
}

// Option configures a Codec at construction time. Built with
// internal/options' generic functional-option helpers, the same pattern
// the teacher's encoder/decoder constructors use.
type Option = options.Option[*config]

// WithDeduplication toggles object/array/collection and string reference
// tracking (spec.md §3.3). Enabled by default.
func WithDeduplication(enabled bool) Option {
	return options.NoError(func(c *config) { c.deduplication = enabled })
}

// WithSharedArrayBuffers toggles buffer-table deduplication for
// ArrayBuffers aliased by multiple typed array views (spec.md scenario
// S5). Enabled by default.
func WithSharedArrayBuffers(enabled bool) Option {
	return options.NoError(func(c *config) { c.shareArrayBuffers = enabled })
}

// WithNumericArrayPacking toggles the numeric-array analyzer's packed
// encoding fast path (spec.md §4.4). Enabled by default; disabling it
// forces every array through the general sparse/dense array encoding.
func WithNumericArrayPacking(enabled bool) Option {
	return options.NoError(func(c *config) { c.numericArrayPacking = enabled })
}

// WithCircularDetection toggles the two-pass cycle pre-walk (spec.md
// §4.7). Enabled by default; disabling it on a graph with real cycles
// causes Serialize to recurse until the Go stack overflows, so only
// disable it when the caller has already ruled cycles out.
func WithCircularDetection(enabled bool) Option {
	return options.NoError(func(c *config) { c.detectCircular = enabled })
}

// WithFunctionSerialization toggles whether callables inside an object
// body are emitted with their source text and name (enabled) or as a
// one-byte FUNCTION_PLACEHOLDER marker (disabled). Decoding never
// evaluates the source (spec.md REDESIGN FLAGS). Disabled by default.
func WithFunctionSerialization(enabled bool) Option {
	return options.NoError(func(c *config) { c.serializeFunctions = enabled })
}

// WithPropertyDescriptors toggles whether objects with accessors or
// non-default property descriptor flags are encoded as
// OBJ_WITH_DESCRIPTORS (spec.md §4.5). When disabled, such objects fall
// through to the method/empty/literal/constructor rules. Enabled by
// default.
func WithPropertyDescriptors(enabled bool) Option {
	return options.NoError(func(c *config) { c.propertyDescriptors = enabled })
}

// WithMemoryPoolSize sets the initial capacity hint, in bytes, for the
// Codec's write buffer (spec.md §6.2 "memoryPoolSize"). Values
// <= 0 are ignored and the default is kept.
func WithMemoryPoolSize(bytes int) Option {
	return options.NoError(func(c *config) {
		if bytes > 0 {
			c.memoryPoolSize = bytes
		}
	})
}

// Codec serializes and deserializes value.Value graphs under a fixed
// set of options. A Codec is not safe for concurrent use: each
// Serialize/Deserialize call resets and reuses its internal Writer and
// Reader rather than allocating fresh ones.
type Codec struct {
	opts   codec.Options
	writer *codec.Writer
	reader *codec.Reader
}

// New builds a Codec from the given options, starting from the
// spec-documented defaults (spec.md §6.2) and applying opts in order.
func New(opts ...Option) (*Codec, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Codec{
		opts: codec.Options{
			Deduplication:               cfg.deduplication,
			ShareArrayBuffers:           cfg.shareArrayBuffers,
			NumericArrayPacking:         cfg.numericArrayPacking,
			DetectCircular:              cfg.detectCircular,
			SerializeFunctions:          cfg.serializeFunctions,
			PreservePropertyDescriptors: cfg.propertyDescriptors,
		},
		writer: codec.NewWriter(cfg.memoryPoolSize),
		reader: codec.NewReader(),
	}, nil
}

// Serialize encodes root into the wire format under the Codec's
// configured options (spec.md §4.7). The returned slice is owned by the
// caller; the Codec's internal buffer is reused on the next call.
func (c *Codec) Serialize(root value.Value) ([]byte, error) {
	return c.writer.Serialize(root, c.opts)
}

// Deserialize decodes a wire-format byte stream back into a value.Value
// graph (spec.md §4.8). The stream's own tags determine which
// deduplication/circular-reference features were active at encode time;
// the Codec's options only govern Serialize.
func (c *Codec) Deserialize(data []byte) (value.Value, error) {
	return c.reader.Deserialize(data)
}
