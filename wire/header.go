package wire

// Magic is the 4-byte little-endian magic number that opens every encoded
// blob, followed by Version.
const (
	Magic   uint32 = 0x54425235
	Version uint8  = 0x05

	// HeaderSize is the fixed byte size of Magic+Version.
	HeaderSize = 5
)
