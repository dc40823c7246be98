package value

// Blob and File model the two "opaque file handle" tags spec.md §9 Open
// Question (b) leaves unspecified beyond "the source emits two zero
// varints." This module treats that as a two-field opaque extension slot:
// A and B round-trip whatever two varints were read, with no further
// interpretation — a host that needs real Blob/File content would extend
// this struct and the codec's dispatch, not this module.
type Blob struct {
	A, B uint64
}

func (*Blob) isValue() {}

// File is the BLOB shape plus the FILE tag; kept as a distinct Go type so
// the classifier/writer dispatch on Go type rather than on a Kind field.
type File struct {
	A, B uint64
}

func (*File) isValue() {}
