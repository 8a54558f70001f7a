package leaf256

import "encoding/binary"

// parseHeader reads the fixed 0x18-byte header and the C-entry palette that
// follows it, returning the populated Image (Pixels left nil — the caller
// fills that in from the compressed payload) and the offset of the first
// byte of the compressed payload.
func parseHeader(data []byte) (*Image, int, error) {
	if len(data) < len(magic) {
		return nil, 0, newErr(BadMagic, 0, "file shorter than magic")
	}
	for i, m := range magic {
		if data[i] != m {
			return nil, 0, newErr(BadMagic, 0, "signature mismatch")
		}
	}
	if len(data) < headerSize {
		return nil, 0, newErr(ShortHeader, len(data), "file shorter than fixed header (%d bytes)", headerSize)
	}

	img := &Image{
		XOrigin: binary.LittleEndian.Uint16(data[0x08:0x0A]),
		YOrigin: binary.LittleEndian.Uint16(data[0x0A:0x0C]),
		Width:   binary.LittleEndian.Uint16(data[0x0C:0x0E]),
		Height:  binary.LittleEndian.Uint16(data[0x0E:0x10]),
	}
	img.Reserved0 = binary.LittleEndian.Uint16(data[0x10:0x12])
	img.Transparent = data[0x12]
	copy(img.Reserved1[:], data[0x13:0x16])
	img.ColorCount = decodeColorCount(data[0x16])
	img.Reserved2 = data[0x17]

	if img.Width == 0 || img.Height == 0 {
		return nil, 0, newErr(BadGeometry, 0x0C, "width or height is zero")
	}

	paletteEnd := headerSize + 3*img.ColorCount
	if len(data) < paletteEnd {
		return nil, 0, newErr(ShortHeader, len(data), "file shorter than header+palette (%d bytes)", paletteEnd)
	}

	img.Palette = make([]Color, img.ColorCount)
	for i := 0; i < img.ColorCount; i++ {
		b := data[headerSize+3*i]
		g := data[headerSize+3*i+1]
		r := data[headerSize+3*i+2]
		img.Palette[i] = Color{R: r, G: g, B: b}
	}

	return img, paletteEnd, nil
}

// serializeHeader writes the fixed header and palette for img, in the same
// byte layout parseHeader reads.
func serializeHeader(img *Image) []byte {
	out := make([]byte, headerSize+3*len(img.Palette))
	copy(out[0:8], magic[:])
	binary.LittleEndian.PutUint16(out[0x08:0x0A], img.XOrigin)
	binary.LittleEndian.PutUint16(out[0x0A:0x0C], img.YOrigin)
	binary.LittleEndian.PutUint16(out[0x0C:0x0E], img.Width)
	binary.LittleEndian.PutUint16(out[0x0E:0x10], img.Height)
	binary.LittleEndian.PutUint16(out[0x10:0x12], img.Reserved0)
	out[0x12] = img.Transparent
	copy(out[0x13:0x16], img.Reserved1[:])
	out[0x16] = encodeColorCount(len(img.Palette))
	out[0x17] = img.Reserved2

	for i, c := range img.Palette {
		out[headerSize+3*i] = c.B
		out[headerSize+3*i+1] = c.G
		out[headerSize+3*i+2] = c.R
	}
	return out
}

// decodeColorCount resolves the on-disk color-count byte, where 0 is taken
// to mean 256 (a single byte cannot otherwise address the 257th count a
// full palette would need). This is an assumption pending verification
// against a real 256-color sample file.
func decodeColorCount(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}

// encodeColorCount is decodeColorCount's inverse.
func encodeColorCount(n int) byte {
	if n >= 256 {
		return 0
	}
	return byte(n)
}

// bottomUpToImage scatters a bottom-up, row-major pixel stream (as the
// compressed payload yields it) into the top-down Pixels layout Image
// exposes. k is the 0-based index into the decoded byte sequence.
func bottomUpToImage(stream []byte, width, height int) []uint8 {
	pixels := make([]uint8, width*height)
	for k, b := range stream {
		x := k % width
		yBottom := k / width
		y := height - 1 - yBottom
		pixels[y*width+x] = b
	}
	return pixels
}

// imageToBottomUp is bottomUpToImage's inverse: it produces the pixel
// stream the encoder must feed into the Matcher, in bottom-up, row-major
// order.
func imageToBottomUp(pixels []uint8, width, height int) []byte {
	stream := make([]byte, width*height)
	for k := range stream {
		x := k % width
		yBottom := k / width
		y := height - 1 - yBottom
		stream[k] = pixels[y*width+x]
	}
	return stream
}
