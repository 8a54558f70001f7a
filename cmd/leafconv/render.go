package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"

	"github.com/kako-jun/retro-decode/leaf256"
)

// toPaletted builds an *image.Paletted view of img suitable for the PNG
// and BMP renderers, applying the transparent-index convention: A=0 for
// the transparent index, A=255 otherwise.
func toPaletted(img *leaf256.Image) *image.Paletted {
	pal := make(color.Palette, len(img.Palette))
	for i, c := range img.Palette {
		a := uint8(255)
		if uint8(i) == img.Transparent {
			a = 0
		}
		pal[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: a}
	}
	p := image.NewPaletted(image.Rect(0, 0, int(img.Width), int(img.Height)), pal)
	copy(p.Pix, img.Pixels)
	return p
}

// renderRaster writes img to path in one of the four supported output
// formats: paletted-bitmap, png, raw-rgb, raw-rgba.
func renderRaster(img *leaf256.Image, format, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "paletted-bitmap":
		return bmp.Encode(f, toPaletted(img))
	case "png":
		return png.Encode(f, toPaletted(img))
	case "raw-rgb":
		return writeRawRGB(f, img)
	case "raw-rgba":
		return writeRawRGBA(f, img)
	default:
		return fmt.Errorf("leafconv: unknown output format %q", format)
	}
}

func writeRawRGB(w io.Writer, img *leaf256.Image) error {
	buf := make([]byte, 0, int(img.Width)*int(img.Height)*3)
	for _, idx := range img.Pixels {
		c := img.Palette[idx]
		buf = append(buf, c.R, c.G, c.B)
	}
	_, err := w.Write(buf)
	return err
}

func writeRawRGBA(w io.Writer, img *leaf256.Image) error {
	buf := make([]byte, 0, int(img.Width)*int(img.Height)*4)
	for _, idx := range img.Pixels {
		c := img.Palette[idx]
		a := uint8(255)
		if idx == img.Transparent {
			a = 0
		}
		buf = append(buf, c.R, c.G, c.B, a)
	}
	_, err := w.Write(buf)
	return err
}

// loadRaster reads a source raster for the encode subcommand. Only
// already-paletted images are accepted: mapping a truecolor photo down to
// a LEAF256-sized palette is quantization, a separate and fairly involved
// problem this collaborator doesn't take on.
func loadRaster(path, format string) (*leaf256.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var decoded image.Image
	switch format {
	case "paletted-bitmap":
		decoded, err = bmp.Decode(f)
	case "png":
		decoded, err = png.Decode(f)
	default:
		return nil, fmt.Errorf("leafconv: unknown input format %q", format)
	}
	if err != nil {
		return nil, err
	}

	paletted, ok := decoded.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("leafconv: source image is not paletted; quantization is out of scope for this collaborator")
	}
	if len(paletted.Palette) > 256 {
		return nil, fmt.Errorf("leafconv: source palette has %d entries, more than LEAF256's 256-color limit", len(paletted.Palette))
	}

	bounds := paletted.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	img := &leaf256.Image{
		Width:      uint16(width),
		Height:     uint16(height),
		ColorCount: len(paletted.Palette),
		Palette:    make([]leaf256.Color, len(paletted.Palette)),
		Pixels:     make([]uint8, width*height),
	}
	for i, c := range paletted.Palette {
		r, g, b, a := c.RGBA()
		img.Palette[i] = leaf256.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
		if a == 0 {
			img.Transparent = uint8(i)
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, paletted.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return img, nil
}
