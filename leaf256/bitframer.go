package leaf256

import "io"

// op is the kind of operation the flag reader yielded for one slot.
type op int

const (
	opLiteral op = iota
	opReference
	opEnd
)

// frameReader de-obfuscates and groups the compressed payload into the
// literal/reference operation stream described by the flag byte.
//
// A truncated final group (fewer than 8 ops consumed from the last flag
// byte) is not an error: nextOp simply reports opEnd once the byte source
// runs dry, whether between groups or in the middle of one.
type frameReader struct {
	data     []byte
	pos      int
	flag     byte
	bitsLeft uint
}

func newFrameReader(data []byte) *frameReader {
	return &frameReader{data: data}
}

// nextOp reports whether the next operation is a literal or a reference,
// consuming a fresh flag byte from the stream when the current group is
// exhausted. It returns opEnd when the underlying byte source is exhausted,
// either between groups or mid-group (the unused flag bits of a final
// partial group are never reported as operations).
func (fr *frameReader) nextOp() op {
	if fr.bitsLeft > 0 && fr.exhausted() {
		return opEnd
	}
	if fr.bitsLeft == 0 {
		if fr.pos >= len(fr.data) {
			return opEnd
		}
		fr.flag = fr.data[fr.pos] ^ obfuscationMask
		fr.pos++
		fr.bitsLeft = opsPerGroup
	}

	isLiteral := fr.flag&0x80 != 0
	fr.flag <<= 1
	fr.bitsLeft--

	if isLiteral {
		return opLiteral
	}
	return opReference
}

// readLiteral consumes one de-obfuscated literal byte.
func (fr *frameReader) readLiteral() (byte, error) {
	if fr.pos >= len(fr.data) {
		return 0, io.ErrUnexpectedEOF
	}
	b := fr.data[fr.pos] ^ obfuscationMask
	fr.pos++
	return b, nil
}

// readReference consumes the two de-obfuscated bytes of a reference token.
// A single trailing byte with no partner is reported as io.ErrUnexpectedEOF;
// the caller decides (based on whether the pixel budget is already met)
// whether that is TruncatedStream or a tolerated end-of-stream.
func (fr *frameReader) readReference() (u, l byte, err error) {
	if fr.pos+1 >= len(fr.data) {
		return 0, 0, io.ErrUnexpectedEOF
	}
	u = fr.data[fr.pos] ^ obfuscationMask
	l = fr.data[fr.pos+1] ^ obfuscationMask
	fr.pos += 2
	return u, l, nil
}

// exhausted reports whether the underlying byte source has nothing left to
// give, which nextOp uses to end the stream in the middle of a group.
func (fr *frameReader) exhausted() bool {
	return fr.pos >= len(fr.data)
}

// frameWriter buffers up to opsPerGroup ops, reserving a flag byte slot
// ahead of its group and back-patching it once the group is known.
type frameWriter struct {
	out      []byte
	flagAt   int
	flag     byte
	bitsUsed uint
}

func newFrameWriter() *frameWriter {
	fw := &frameWriter{}
	fw.reserveFlag()
	return fw
}

func (fw *frameWriter) reserveFlag() {
	fw.flagAt = len(fw.out)
	fw.out = append(fw.out, 0)
	fw.flag = 0
	fw.bitsUsed = 0
}

// commitFlag XORs and stores the accumulated flag byte into its reserved
// slot. Called once a group fills up or the stream ends.
func (fw *frameWriter) commitFlag() {
	fw.out[fw.flagAt] = fw.flag ^ obfuscationMask
}

func (fw *frameWriter) pushBit(literal bool) {
	fw.flag <<= 1
	if literal {
		fw.flag |= 1
	}
	fw.bitsUsed++
}

// writeLiteral appends one literal op: MSB=1 in the flag, one obfuscated
// payload byte.
func (fw *frameWriter) writeLiteral(b byte) {
	fw.pushBit(true)
	fw.out = append(fw.out, b^obfuscationMask)
	fw.afterOp()
}

// writeReference appends one reference op: MSB=0 in the flag, two
// obfuscated payload bytes.
func (fw *frameWriter) writeReference(u, l byte) {
	fw.pushBit(false)
	fw.out = append(fw.out, u^obfuscationMask, l^obfuscationMask)
	fw.afterOp()
}

func (fw *frameWriter) afterOp() {
	if fw.bitsUsed == opsPerGroup {
		fw.commitFlag()
		fw.reserveFlag()
	}
}

// finish commits whatever partial group remains (padding the unused,
// low-order flag bits with zero, which the decoder never reads because it
// stops once the pixel budget is met) and returns the assembled payload.
func (fw *frameWriter) finish() []byte {
	if fw.bitsUsed > 0 {
		fw.flag <<= opsPerGroup - fw.bitsUsed
		fw.commitFlag()
	} else {
		// Drop the unused, empty reserved flag slot.
		fw.out = fw.out[:fw.flagAt]
	}
	return fw.out
}
