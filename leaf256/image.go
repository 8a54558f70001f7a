package leaf256

// Color is a single palette entry, held in natural R, G, B order in
// memory. frame.go is responsible for translating to and from the
// container's on-disk B, G, R byte order.
type Color struct {
	R, G, B uint8
}

// Image is the decoded form of a LEAF256 container: a paletted bitmap plus
// the handful of placement and transparency fields the original engines
// carried alongside the pixels.
type Image struct {
	XOrigin, YOrigin uint16
	Width, Height    uint16

	// Reserved0 is the two-byte field at 0x10, between Height and
	// Transparent, whose purpose the recovered tooling never settled on. Kept
	// verbatim so round-tripping an untouched file is byte-exact.
	Reserved0 uint16

	Transparent uint8
	// Reserved1 are three bytes of unknown purpose following Transparent,
	// preserved verbatim for the same reason as Reserved0.
	Reserved1 [3]byte

	// ColorCount is the palette size actually present, already resolved
	// from the on-disk 0-means-256 encoding (see frame.go).
	ColorCount int
	// Reserved2 is one further unexplained header byte, preserved verbatim.
	Reserved2 uint8

	Palette []Color // len(Palette) == ColorCount

	// Pixels holds one palette index per pixel, row-major, top-to-bottom,
	// left-to-right — the natural in-memory orientation regardless of the
	// bottom-up order the compressed stream is stored in.
	Pixels []uint8
}

// At returns the palette index at (x, y).
func (img *Image) At(x, y int) uint8 {
	return img.Pixels[y*int(img.Width)+x]
}

// Set stores the palette index at (x, y).
func (img *Image) Set(x, y int, index uint8) {
	img.Pixels[y*int(img.Width)+x] = index
}

// ColorAt resolves a pixel to its RGB color, or false if it is outside the
// declared palette (PaletteOutOfRange territory — Decode rejects such an
// index only when it arrives as a literal; bytes copied by a reference are
// not checked against the palette).
func (img *Image) ColorAt(x, y int) (Color, bool) {
	idx := int(img.At(x, y))
	if idx >= len(img.Palette) {
		return Color{}, false
	}
	return img.Palette[idx], true
}

// pixelCount is the number of pixels the compressed stream must produce,
// i.e. the decode termination budget.
func (img *Image) pixelCount() int {
	return int(img.Width) * int(img.Height)
}
