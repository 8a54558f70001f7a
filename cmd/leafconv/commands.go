package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kako-jun/retro-decode/leaf256"
)

func runDecode(cmd *cobra.Command, args []string) error {
	logger = newLogger()
	logger.Info("decoding", "input", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	var img *leaf256.Image
	elapsed, err := timed("decode", func() error {
		img, err = leaf256.Decode(data)
		return err
	})
	if err != nil {
		logger.Error("decode failed", "error", err)
		return err
	}
	logger.Debug("decode finished", "elapsed", elapsed, "width", img.Width, "height", img.Height)

	if stepByStep {
		logger.Warn("--step-by-step requested but the visualizer tap is not implemented by this collaborator")
	}

	if err := renderRaster(img, format, outputPath); err != nil {
		return err
	}
	fmt.Println(colorize(color.New(color.FgGreen), "decoded %s -> %s (%dx%d, %d colors)",
		inputPath, outputPath, img.Width, img.Height, len(img.Palette)))

	if benchmark {
		printDecodeBenchmark(img, len(data), elapsed)
	}
	return nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	logger = newLogger()
	logger.Info("encoding", "input", inputPath)

	img, err := loadRaster(inputPath, format)
	if err != nil {
		logger.Error("failed to load source raster", "error", err)
		return err
	}

	var out []byte
	elapsed, err := timed("encode", func() error {
		out, err = leaf256.Encode(img, leaf256.DefaultEncodeOptions())
		return err
	})
	if err != nil {
		logger.Error("encode failed", "error", err)
		return err
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return err
	}
	fmt.Println(colorize(color.New(color.FgGreen), "encoded %s -> %s (%d bytes)", inputPath, outputPath, len(out)))

	if benchmark {
		printEncodeBenchmark(img, out, elapsed)
	}
	return nil
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	logger = newLogger()
	logger.Info("round-trip checking", "input", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	ok, report, err := leaf256.RoundTripCheck(data)
	if err != nil {
		logger.Error("round-trip check errored", "error", err)
		return err
	}
	if !ok {
		fmt.Println(colorize(color.New(color.FgRed), "MISMATCH at pixel %d: original=%d re-encoded=%d",
			report.PixelOffset, report.Original, report.ReEncoded))
		return fmt.Errorf("leafconv: round-trip mismatch")
	}

	fmt.Println(colorize(color.New(color.FgGreen), "round-trip OK: %s", inputPath))
	return nil
}

func printDecodeBenchmark(img *leaf256.Image, fileBytes int, elapsed time.Duration) {
	fmt.Printf("  decode: %s, file size %d bytes, %d pixels\n", elapsed, fileBytes, len(img.Pixels))
}

func printEncodeBenchmark(img *leaf256.Image, encoded []byte, elapsed time.Duration) {
	cmp, err := compareSizes(img.Pixels, len(encoded))
	if err != nil {
		logger.Warn("benchmark comparison failed", "error", err)
		return
	}
	fmt.Printf("  encode: %s\n", elapsed)
	fmt.Printf("  lzss=%d zstd=%d bzip2=%d (informative only; wire format is unaffected)\n",
		cmp.LZSSBytes, cmp.ZstdBytes, cmp.Bzip2Bytes)
}
