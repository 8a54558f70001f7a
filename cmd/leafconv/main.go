// Command leafconv is the CLI collaborator around the leaf256 codec: it
// loads a LEAF256 file and decodes it to a renderable raster, or loads a
// raster and encodes it back to LEAF256, or checks that a file survives a
// full decode-encode-decode cycle.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	inputPath  string
	outputPath string
	format     string
	logLevel   string
	benchmark  bool
	stepByStep bool

	rootCmd *cobra.Command
	logger  hclog.Logger
)

func newLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "leafconv",
		Level:  hclog.LevelFromString(logLevel),
		Output: os.Stderr,
	})
}

func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func init() {
	rootCmd = &cobra.Command{
		Use:     "leafconv",
		Short:   "Decode and re-encode LEAF256 paletted image containers",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a LEAF256 file to a raster",
		RunE:  runDecode,
	}
	decodeCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to a LEAF256 file (required)")
	decodeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to write the rendered raster (required)")
	decodeCmd.Flags().StringVarP(&format, "format", "f", "png", "output format: paletted-bitmap, png, raw-rgb, raw-rgba")
	decodeCmd.Flags().BoolVar(&benchmark, "benchmark", false, "print decode timing, file size and pixel count")
	decodeCmd.Flags().BoolVar(&stepByStep, "step-by-step", false, "invoke the visualizer tap (not implemented by this collaborator)")
	mustMarkRequired(decodeCmd, "input", "output")

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a raster back to a LEAF256 file",
		RunE:  runEncode,
	}
	encodeCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to a source raster (required)")
	encodeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to write the LEAF256 file (required)")
	encodeCmd.Flags().StringVarP(&format, "format", "f", "paletted-bitmap", "input raster format: paletted-bitmap, png")
	encodeCmd.Flags().BoolVar(&benchmark, "benchmark", false, "print timing and size comparison diagnostics")
	mustMarkRequired(encodeCmd, "input", "output")

	roundtripCmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Decode, re-encode with baseline options, and report the first pixel mismatch, if any",
		RunE:  runRoundtrip,
	}
	roundtripCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to a LEAF256 file (required)")
	mustMarkRequired(roundtripCmd, "input")

	rootCmd.AddCommand(decodeCmd, encodeCmd, roundtripCmd)
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func colorize(c *color.Color, format string, args ...any) string {
	if !colorEnabled() {
		return fmt.Sprintf(format, args...)
	}
	return c.Sprintf(format, args...)
}

func timed(label string, fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	logger.Debug("step finished", "step", label, "elapsed", elapsed)
	return elapsed, err
}
