package main

import (
	"bytes"
	"testing"

	"github.com/kako-jun/retro-decode/leaf256"
)

func testImage() *leaf256.Image {
	img := &leaf256.Image{
		Width: 2, Height: 1,
		Transparent: 1,
		Palette: []leaf256.Color{
			{R: 10, G: 20, B: 30},
			{R: 40, G: 50, B: 60},
		},
		Pixels: []uint8{0, 1},
	}
	img.ColorCount = len(img.Palette)
	return img
}

func TestToPaletted_AppliesTransparentIndex(t *testing.T) {
	img := testImage()
	p := toPaletted(img)

	if len(p.Palette) != 2 {
		t.Fatalf("palette length = %d, want 2", len(p.Palette))
	}
	_, _, _, a0 := p.Palette[0].RGBA()
	if a0 == 0 {
		t.Fatal("palette[0] (not the transparent index) has alpha 0")
	}
	_, _, _, a1 := p.Palette[1].RGBA()
	if a1 != 0 {
		t.Fatal("palette[1] (the transparent index) does not have alpha 0")
	}
}

func TestWriteRawRGB_EmitsThreeBytesPerPixel(t *testing.T) {
	img := testImage()
	var buf bytes.Buffer
	if err := writeRawRGB(&buf, img); err != nil {
		t.Fatalf("writeRawRGB: %v", err)
	}
	want := []byte{10, 20, 30, 40, 50, 60}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("writeRawRGB = %v, want %v", buf.Bytes(), want)
	}
}

func TestWriteRawRGBA_ZerosAlphaAtTransparentIndex(t *testing.T) {
	img := testImage()
	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, img); err != nil {
		t.Fatalf("writeRawRGBA: %v", err)
	}
	want := []byte{10, 20, 30, 255, 40, 50, 60, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("writeRawRGBA = %v, want %v", buf.Bytes(), want)
	}
}
