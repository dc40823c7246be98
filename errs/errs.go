// Package errs defines the sentinel errors returned by the codec's writer
// and reader drivers.
//
// All errors here are fatal to the call in progress: there is no partial
// result on failure, matching the "no partial result returned" rule the
// rest of the codec relies on. Call sites that need extra context wrap
// these with fmt.Errorf("...: %w", ...) rather than defining new error
// types.
package errs

import "errors"

var (
	// ErrBufferUnderflow is returned when a read requested more bytes than
	// remain in the input.
	ErrBufferUnderflow = errors.New("turboserial: buffer underflow")

	// ErrInvalidMagic is returned when the header does not start with the
	// codec's magic number.
	ErrInvalidMagic = errors.New("turboserial: invalid magic number")

	// ErrUnsupportedFormat is returned when the header's version byte does
	// not match the version this reader implements.
	ErrUnsupportedFormat = errors.New("turboserial: unsupported format version")

	// ErrUnknownTag is returned when a tag byte falls outside the wire
	// taxonomy.
	ErrUnknownTag = errors.New("turboserial: unknown tag")

	// ErrInvalidReference is returned when a REFERENCE/STRING_REF/BUFFER_REF/
	// CIRCULAR_REF id is out of range for the table it indexes.
	ErrInvalidReference = errors.New("turboserial: invalid reference id")

	// ErrUnsupportedValue is returned when an encoder-side input is outside
	// the specified domain (e.g. a big integer the host cannot represent).
	ErrUnsupportedValue = errors.New("turboserial: unsupported value")

	// ErrTruncatedVarint is returned when a varint does not terminate
	// within five continuation groups (spec's 32-bit accumulator limit).
	ErrTruncatedVarint = errors.New("turboserial: truncated or oversized varint")

	// ErrCircularNotRegistered is returned when a CIRCULAR_REF resolves to
	// a slot that was never pre-registered as a shell.
	ErrCircularNotRegistered = errors.New("turboserial: circular reference to unregistered slot")
)
