package leaf256

const (
	// obfuscationMask is XOR'd with every byte of the compressed payload,
	// on both write and read. It is its own inverse.
	obfuscationMask byte = 0xFF

	// ringSize is the size of the circular dictionary.
	ringSize = 4096

	// ringFillByte pre-fills the dictionary before any stream is processed.
	ringFillByte byte = 0x20

	// ringInitialCursor is where the write cursor starts, chosen historically
	// to leave a maxMatch-sized look-ahead region of filler before it wraps.
	ringInitialCursor = 0x0FEE

	// minMatch and maxMatch bound a reference's length. minMatch is the
	// bias subtracted before the length is packed into 4 bits.
	minMatch = 3
	maxMatch = 18

	// opsPerGroup is the number of literal/reference operations covered by
	// a single flag byte.
	opsPerGroup = 8
)

// magic is the 8-byte file signature: "LEAF256" followed by a NUL byte.
var magic = [8]byte{'L', 'E', 'A', 'F', '2', '5', '6', 0}

const headerSize = 0x18 // bytes before the palette begins
