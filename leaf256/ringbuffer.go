package leaf256

// ringBuffer is the 4 KiB circular dictionary shared, in lock-step, by the
// encoder and decoder. Its pre-state (fill byte, starting cursor) and its
// copy semantics are part of the wire contract: any divergence between two
// implementations invalidates every reference that follows.
type ringBuffer struct {
	buf [ringSize]byte
	cur int
}

func newRingBuffer() *ringBuffer {
	rb := &ringBuffer{cur: ringInitialCursor}
	for i := range rb.buf {
		rb.buf[i] = ringFillByte
	}
	return rb
}

// writeLiteral stores one byte at the cursor and advances it.
func (rb *ringBuffer) writeLiteral(b byte) {
	rb.buf[rb.cur] = b
	rb.cur = (rb.cur + 1) % ringSize
}

// applyReference produces length bytes by copying from offset, writing each
// produced byte back into the dictionary at the cursor as it goes and
// appending it to out. Reads and writes are interleaved one byte at a time,
// on purpose: a self-extending reference (0 < d < length) must see the
// bytes it just wrote as part of its own source window, and a d = 0
// reference must see exactly what historical decoders produced for it —
// splitting this into "read all, then write all" would silently change
// both of those behaviors.
func (rb *ringBuffer) applyReference(offset, length int, out []byte) []byte {
	src := offset
	for i := 0; i < length; i++ {
		b := rb.buf[src]
		rb.buf[rb.cur] = b
		out = append(out, b)
		rb.cur = (rb.cur + 1) % ringSize
		src = (src + 1) % ringSize
	}
	return out
}

// distance returns the circular distance d = (cursor - offset) mod
// ringSize from a candidate source offset to the current write cursor.
func (rb *ringBuffer) distance(offset int) int {
	return ((rb.cur - offset) % ringSize + ringSize) % ringSize
}
