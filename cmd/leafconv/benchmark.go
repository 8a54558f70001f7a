package main

import (
	"bytes"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
)

// sizeComparison reports, purely as an informative ratio, how the LZSS
// stream's size compares against two off-the-shelf general-purpose
// compressors run over the same decoded pixel bytes. Neither participates
// in the wire format; this exists only for --benchmark output.
type sizeComparison struct {
	LZSSBytes  int
	ZstdBytes  int
	Bzip2Bytes int
}

func compareSizes(pixels []byte, lzssBytes int) (sizeComparison, error) {
	result := sizeComparison{LZSSBytes: lzssBytes}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return result, err
	}
	defer enc.Close()
	result.ZstdBytes = len(enc.EncodeAll(pixels, nil))

	var buf bytes.Buffer
	bw, err := bzip2.NewWriter(&buf, nil)
	if err != nil {
		return result, err
	}
	if _, err := bw.Write(pixels); err != nil {
		return result, err
	}
	if err := bw.Close(); err != nil {
		return result, err
	}
	result.Bzip2Bytes = buf.Len()

	return result, nil
}
