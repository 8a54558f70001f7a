// Package leaf256 implements the LZSS codec for the LEAF256 paletted image
// container: bit framing, the packed reference token, the 4 KiB
// ring-buffer dictionary, the greedy matcher, and the surrounding header
// and palette. It is a pure, synchronous, byte-in/byte-out library: no
// I/O, no logging, no shared state between calls.
package leaf256

// Decode parses a LEAF256 file and fully reconstructs its Image. It
// returns one of the CodecError kinds BadMagic, ShortHeader, BadGeometry,
// PaletteOutOfRange, or TruncatedStream on malformed input; it never
// panics on malformed input.
func Decode(data []byte) (*Image, error) {
	img, payloadStart, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	want := img.pixelCount()
	stream := make([]byte, 0, want)
	rb := newRingBuffer()
	fr := newFrameReader(data[payloadStart:])

	for len(stream) < want {
		switch fr.nextOp() {
		case opEnd:
			return nil, newErr(TruncatedStream, len(data), "stream ended after %d of %d pixels", len(stream), want)

		case opLiteral:
			b, err := fr.readLiteral()
			if err != nil {
				return nil, newErr(TruncatedStream, payloadStart, "truncated literal after %d pixels", len(stream))
			}
			if int(b) >= img.ColorCount {
				return nil, newErr(PaletteOutOfRange, len(stream), "literal %d >= color count %d", b, img.ColorCount)
			}
			rb.writeLiteral(b)
			stream = append(stream, b)

		case opReference:
			u, l, err := fr.readReference()
			if err != nil {
				return nil, newErr(TruncatedStream, payloadStart, "truncated reference after %d pixels", len(stream))
			}
			offset, length := unpackReference(u, l)
			produced := rb.applyReference(offset, length, nil)
			if need := want - len(stream); length > need {
				produced = produced[:need]
			}
			stream = append(stream, produced...)
		}
	}

	img.Pixels = bottomUpToImage(stream, int(img.Width), int(img.Height))
	return img, nil
}

// Encode serializes img per the LEAF256 header and palette layout, then
// feeds its pixels (in bottom-up order) through the Matcher, Reference
// Codec, and Bit-Framer to produce the compressed payload. The palette
// size written to disk is len(img.Palette), not img.ColorCount, which
// exists for decode-side convenience and reserved-byte preservation only.
func Encode(img *Image, opts EncodeOptions) ([]byte, error) {
	if img.Width == 0 || img.Height == 0 {
		return nil, newErr(BadGeometry, -1, "width or height is zero")
	}

	header := serializeHeader(img)
	stream := imageToBottomUp(img.Pixels, int(img.Width), int(img.Height))

	rb := newRingBuffer()
	m := newMatcher(rb, opts)
	fw := newFrameWriter()

	for i := 0; i < len(stream); {
		remaining := stream[i:]
		offset, length, ok := m.bestMatch(remaining)
		if ok {
			if rb.distance(offset) == 0 {
				panic(newErr(SelfReferenceRejected, i, "matcher proposed a d=0 candidate"))
			}
			u, l := packReference(offset, length)
			fw.writeReference(u, l)
			m.emitReference(offset, length)
			i += length
			continue
		}
		b := remaining[0]
		fw.writeLiteral(b)
		m.emitLiteral(b)
		i++
	}

	payload := fw.finish()
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out, nil
}

// MismatchReport describes the first point of disagreement RoundTripCheck
// found between a source file's decoded pixels and the pixels recovered
// from re-encoding it.
type MismatchReport struct {
	// PixelOffset is the index into the row-major pixel array of the
	// first mismatch, or -1 if the pixel arrays differ only in length.
	PixelOffset        int
	Original, ReEncoded uint8
}

// RoundTripCheck decodes data, re-encodes the result with
// BaselineVerifyEncodeOptions, decodes that output again, and compares the
// two pixel arrays. Byte-for-byte equality with an arbitrary historical
// encoder is not the guarantee under test; pixel equivalence after a full
// decode-encode-decode cycle is.
func RoundTripCheck(data []byte) (bool, *MismatchReport, error) {
	original, err := Decode(data)
	if err != nil {
		return false, nil, err
	}
	reencoded, err := Encode(original, BaselineVerifyEncodeOptions())
	if err != nil {
		return false, nil, err
	}
	recovered, err := Decode(reencoded)
	if err != nil {
		return false, nil, err
	}

	if len(original.Pixels) != len(recovered.Pixels) {
		return false, &MismatchReport{PixelOffset: -1}, nil
	}
	for i := range original.Pixels {
		if original.Pixels[i] != recovered.Pixels[i] {
			return false, &MismatchReport{
				PixelOffset: i,
				Original:    original.Pixels[i],
				ReEncoded:   recovered.Pixels[i],
			}, nil
		}
	}
	return true, nil, nil
}
