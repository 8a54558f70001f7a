package leaf256

import (
	"testing"
)

func buildFile(header []byte, payload []byte) []byte {
	return append(append([]byte{}, header...), payload...)
}

func obfuscate(bs ...byte) []byte {
	out := make([]byte, len(bs))
	for i, b := range bs {
		out[i] = b ^ obfuscationMask
	}
	return out
}

func TestDecode_MagicRejection(t *testing.T) {
	data := append([]byte("LEAP256\x00"), make([]byte, headerSize-8)...)
	_, err := Decode(data)
	if err == nil {
		t.Fatal("Decode: want BadMagic error")
	}
	if ce, ok := err.(*CodecError); !ok || ce.Kind != BadMagic {
		t.Fatalf("Decode error = %v, want Kind=BadMagic", err)
	}
}

func TestDecode_EmptyImageOnePixel(t *testing.T) {
	img := &Image{Width: 1, Height: 1, Palette: []Color{{R: 0, G: 0, B: 0}}}
	img.ColorCount = 1
	header := serializeHeader(img)
	// One all-literal flag byte, then one literal byte p=0, both obfuscated.
	payload := obfuscate(0xFF, 0x00)

	decoded, err := Decode(buildFile(header, payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Pixels) != 1 || decoded.Pixels[0] != 0 {
		t.Fatalf("Pixels = %v, want [0]", decoded.Pixels)
	}

	ok, report, err := RoundTripCheck(buildFile(header, payload))
	if err != nil {
		t.Fatalf("RoundTripCheck: %v", err)
	}
	if !ok {
		t.Fatalf("RoundTripCheck: mismatch at %+v", report)
	}
}

func TestDecode_PureLiteral4x1(t *testing.T) {
	img := &Image{Width: 4, Height: 1, Palette: make([]Color, 4)}
	img.ColorCount = 4
	header := serializeHeader(img)

	// All-literal flag byte (first 4 bits literal, remaining 4 unused),
	// followed by 4 literal pixels 1,2,3,0. For H=1, bottom-up == top-down.
	flag := byte(0xF0) // top 4 bits set (literal), bottom 4 bits don't matter (unread)
	payload := obfuscate(flag, 1, 2, 3, 0)

	decoded, err := Decode(buildFile(header, payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []uint8{1, 2, 3, 0}
	for i, b := range want {
		if decoded.Pixels[i] != b {
			t.Fatalf("Pixels[%d] = %d, want %d", i, decoded.Pixels[i], b)
		}
	}

	reencoded, err := Encode(decoded, DefaultEncodeOptions())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	redecoded, err := Decode(reencoded)
	if err != nil {
		t.Fatalf("Decode(reencoded): %v", err)
	}
	for i, b := range want {
		if redecoded.Pixels[i] != b {
			t.Fatalf("redecoded.Pixels[%d] = %d, want %d", i, redecoded.Pixels[i], b)
		}
	}
}

func TestEncodeDecode_RunCompressionEmitsAtLeastOneReference(t *testing.T) {
	img := &Image{Width: 24, Height: 1, Palette: make([]Color, 1)}
	img.ColorCount = 1
	img.Pixels = make([]uint8, 24) // all zero

	encoded, err := Encode(img, DefaultEncodeOptions())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, payloadStart, err := parseHeader(encoded)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	fr := newFrameReader(encoded[payloadStart:])
	sawReference := false
	for {
		op := fr.nextOp()
		if op == opEnd {
			break
		}
		if op == opLiteral {
			if _, err := fr.readLiteral(); err != nil {
				t.Fatalf("readLiteral: %v", err)
			}
		} else {
			if _, _, err := fr.readReference(); err != nil {
				t.Fatalf("readReference: %v", err)
			}
			sawReference = true
		}
	}
	if !sawReference {
		t.Fatal("encoder never emitted a reference for a 24-byte run")
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, b := range decoded.Pixels {
		if b != 0 {
			t.Fatalf("Pixels[%d] = %d, want 0", i, b)
		}
	}
}

func TestMatcher_RejectsHandCraftedSelfReference(t *testing.T) {
	rb := newRingBuffer()
	// A candidate at the cursor itself always has d=0.
	if rb.distance(rb.cur) != 0 {
		t.Fatal("setup invariant broken: distance(cur) should be 0")
	}
	if rb.safe(rb.cur, minMatch, []byte{ringFillByte, ringFillByte, ringFillByte}) {
		t.Fatal("safe() accepted a d=0 candidate")
	}
}

func TestDecode_HandCraftedZeroDistanceReferenceIsDeterministic(t *testing.T) {
	// This locks down the chosen branch of the d=0 open question: the
	// decoder does not special-case it, so the ring buffer's generic
	// interleaved copy runs and reproduces the filler byte deterministically.
	img := &Image{Width: 3, Height: 1, Palette: make([]Color, 1)}
	img.ColorCount = 1
	header := serializeHeader(img)

	// A single reference op whose (offset, length) unpacks to offset ==
	// c0 (the initial cursor) and length 3: d = 0 by construction.
	u, l := packReference(ringInitialCursor, minMatch)
	flag := byte(0x00) // top bit 0: reference
	payload := obfuscate(flag, u, l)

	decoded, err := Decode(buildFile(header, payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, b := range decoded.Pixels {
		if b != ringFillByte {
			t.Fatalf("Pixels[%d] = %d, want fill byte %d", i, b, ringFillByte)
		}
	}
}

func TestBottomUpMapping_RoundTripViaEncodeDecode(t *testing.T) {
	// W=2, H=2, pixels top-down [[A,B],[C,D]] => stream order C,D,A,B.
	img := &Image{Width: 2, Height: 2, Palette: make([]Color, 4)}
	img.ColorCount = 4
	img.Pixels = []uint8{0, 1, 2, 3} // A,B,C,D top-down

	encoded, err := Encode(img, AllLiteralEncodeOptions())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, payloadStart, err := parseHeader(encoded)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	fr := newFrameReader(encoded[payloadStart:])
	var stream []byte
	for len(stream) < 4 {
		op := fr.nextOp()
		if op != opLiteral {
			t.Fatalf("op = %v, want opLiteral under AllLiteralEncodeOptions", op)
		}
		b, err := fr.readLiteral()
		if err != nil {
			t.Fatalf("readLiteral: %v", err)
		}
		stream = append(stream, b)
	}
	want := []byte{2, 3, 0, 1} // C,D,A,B
	for i := range want {
		if stream[i] != want[i] {
			t.Fatalf("stream[%d] = %d, want %d", i, stream[i], want[i])
		}
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, b := range img.Pixels {
		if decoded.Pixels[i] != b {
			t.Fatalf("decoded.Pixels[%d] = %d, want %d", i, decoded.Pixels[i], b)
		}
	}
}

func TestRoundTripCheck_RandomSmallImages(t *testing.T) {
	widths := []int{1, 2, 3, 5, 8}
	heights := []int{1, 2, 4}
	seed := uint32(1)
	nextByte := func(mod int) uint8 {
		seed = seed*1664525 + 1013904223
		return uint8((seed >> 16) % uint32(mod))
	}

	for _, w := range widths {
		for _, h := range heights {
			colorCount := 16
			palette := make([]Color, colorCount)
			for i := range palette {
				palette[i] = Color{R: nextByte(256), G: nextByte(256), B: nextByte(256)}
			}
			pixels := make([]uint8, w*h)
			for i := range pixels {
				pixels[i] = nextByte(colorCount)
			}
			img := &Image{Width: uint16(w), Height: uint16(h), Palette: palette, Pixels: pixels}
			img.ColorCount = colorCount

			encoded, err := Encode(img, DefaultEncodeOptions())
			if err != nil {
				t.Fatalf("Encode(w=%d,h=%d): %v", w, h, err)
			}
			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode(w=%d,h=%d): %v", w, h, err)
			}
			for i, b := range pixels {
				if decoded.Pixels[i] != b {
					t.Fatalf("w=%d,h=%d: Pixels[%d] = %d, want %d", w, h, i, decoded.Pixels[i], b)
				}
			}

			ok, report, err := RoundTripCheck(encoded)
			if err != nil {
				t.Fatalf("RoundTripCheck(w=%d,h=%d): %v", w, h, err)
			}
			if !ok {
				t.Fatalf("RoundTripCheck(w=%d,h=%d): mismatch at %+v", w, h, report)
			}
		}
	}
}

func TestDecode_PaletteOutOfRangeLiteral(t *testing.T) {
	img := &Image{Width: 1, Height: 1, Palette: []Color{{}}}
	img.ColorCount = 1
	header := serializeHeader(img)
	// Literal value 5 with only 1 color declared.
	payload := obfuscate(0xFF, 5)

	_, err := Decode(buildFile(header, payload))
	if err == nil {
		t.Fatal("Decode: want PaletteOutOfRange error")
	}
	if ce, ok := err.(*CodecError); !ok || ce.Kind != PaletteOutOfRange {
		t.Fatalf("Decode error = %v, want Kind=PaletteOutOfRange", err)
	}
}

func TestDecode_TruncatedStream(t *testing.T) {
	img := &Image{Width: 4, Height: 1, Palette: make([]Color, 4)}
	img.ColorCount = 4
	header := serializeHeader(img)
	// Claim 4 pixels but supply only one literal.
	payload := obfuscate(0xFF, 1)

	_, err := Decode(buildFile(header, payload))
	if err == nil {
		t.Fatal("Decode: want TruncatedStream error")
	}
	if ce, ok := err.(*CodecError); !ok || ce.Kind != TruncatedStream {
		t.Fatalf("Decode error = %v, want Kind=TruncatedStream", err)
	}
}

func FuzzDecode_NeverPanics(f *testing.F) {
	f.Add([]byte("LEAF256\x00"))
	f.Add(append([]byte("LEAF256\x00"), make([]byte, 40)...))
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = Decode(data)
	})
}
