package leaf256

// EncodeOptions tunes the matcher's size/fidelity trade-off. The zero value
// is not valid; use DefaultEncodeOptions.
type EncodeOptions struct {
	// SearchCap bounds how many dictionary offsets are probed per source
	// position. Lower values trade size for speed.
	SearchCap int
	// MinMatch is the minimum length the matcher will prefer over emitting
	// literals. It can be raised above the wire minimum (3) to bias toward
	// literals, but is always clamped to at least the wire minimum.
	MinMatch int
	// LiteralBias, in [0,1], makes the matcher emit a literal whenever the
	// best safe match length is at or below ceil(LiteralBias * maxMatch).
	LiteralBias float64
	// SafetyStrict, when true, rejects any candidate whose circular
	// distance is less than the matched length (no self-extending runs),
	// keeping only matches whose source region is already fully settled.
	SafetyStrict bool
}

// DefaultEncodeOptions returns the general tunable defaults: full search,
// wire-minimum match length, no literal bias, and self-extending runs
// permitted — SafetyStrict is false, so bestMatch is free to choose a
// candidate with 0 < d < ℓ whenever the replay simulation confirms it
// reproduces the target bytes exactly.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		SearchCap:    ringSize,
		MinMatch:     minMatch,
		LiteralBias:  0,
		SafetyStrict: false,
	}
}

// BaselineVerifyEncodeOptions returns the configuration used to verify that
// a decoded image survives a re-encode: the same defaults as
// DefaultEncodeOptions, but with SafetyStrict forced on so the re-encode
// never relies on a self-extending run. It is a separate, narrower
// configuration from DefaultEncodeOptions, not an alias for it:
// RoundTripCheck uses this one explicitly because its guarantee only holds
// with safety_strict = true.
func BaselineVerifyEncodeOptions() EncodeOptions {
	opts := DefaultEncodeOptions()
	opts.SafetyStrict = true
	return opts
}

// AllLiteralEncodeOptions returns a configuration that never emits a
// reference. It exists as a known-correct baseline for bisecting a matcher
// regression: if round-trip fails even with every pixel stored as a
// literal, the bug is not in bestMatch.
func AllLiteralEncodeOptions() EncodeOptions {
	opts := DefaultEncodeOptions()
	opts.MinMatch = maxMatch + 1
	return opts
}

// matcher drives the ring buffer on the encode side, maintaining a
// byte-value index over dictionary positions to avoid a full 4096-slot
// linear scan at every source position. This is the same idea as
// flanglet-kanzi-go's LZXCodec hash table (candidate positions keyed by a
// cheap hash, refined by an exact length check) adapted to LEAF256's fixed
// 4096-byte ring: a single byte is already a useful key since the
// dictionary is small.
type matcher struct {
	ring    *ringBuffer
	opts    EncodeOptions
	buckets [256][]int32
}

const bucketCap = 2 * ringSize

func newMatcher(ring *ringBuffer, opts EncodeOptions) *matcher {
	if opts.MinMatch < minMatch {
		opts.MinMatch = minMatch
	}
	if opts.SearchCap <= 0 {
		opts.SearchCap = ringSize
	}
	m := &matcher{ring: ring, opts: opts}
	// Seed the index with the ring's pre-filled state so references into
	// the untouched filler region are discoverable from the very first
	// source position, letting a long run of the fill byte compress
	// immediately instead of waiting for the encoder to write it itself.
	for i := 0; i < ringSize; i++ {
		m.index(i, ring.buf[i])
	}
	return m
}

func (m *matcher) index(pos int, b byte) {
	bucket := m.buckets[b]
	bucket = append(bucket, int32(pos))
	if len(bucket) > bucketCap {
		bucket = bucket[len(bucket)-ringSize:]
	}
	m.buckets[b] = bucket
}

// emitLiteral advances the ring buffer for one literal byte and keeps the
// byte-value index in sync.
func (m *matcher) emitLiteral(b byte) {
	pos := m.ring.cur
	m.ring.writeLiteral(b)
	m.index(pos, b)
}

// emitReference advances the ring buffer for a reference of the given
// offset/length, indexing every byte it writes the same way a literal
// would be, and returns the produced bytes (unused by the caller but handy
// for assertions in tests).
func (m *matcher) emitReference(offset, length int) []byte {
	start := m.ring.cur
	out := m.ring.applyReference(offset, length, nil)
	for i, b := range out {
		m.index((start+i)%ringSize, b)
	}
	return out
}

// safe reports whether a candidate (offset, length) may legally be
// emitted: the encoder must never emit a self-reference, so its circular
// distance to the cursor must be nonzero, and — this is the only
// correctness-guaranteeing check — replaying the copy must reproduce
// exactly target[:length].
func (rb *ringBuffer) safe(offset, length int, target []byte) bool {
	if rb.distance(offset) == 0 {
		return false
	}
	return rb.simulateLen(offset, target) >= length
}

// simulateLen returns the longest prefix length (capped at len(target) and
// maxMatch) for which replaying applyReference(offset, ·) against a
// read-your-writes view of the ring buffer equals target. It never
// mutates the real buffer.
func (rb *ringBuffer) simulateLen(offset int, target []byte) int {
	limit := len(target)
	if limit > maxMatch {
		limit = maxMatch
	}

	var overridePos [maxMatch]int
	var overrideVal [maxMatch]byte
	n := 0

	src := offset
	dst := rb.cur
	matched := 0

	for matched < limit {
		v := rb.buf[src]
		for i := n - 1; i >= 0; i-- {
			if overridePos[i] == src {
				v = overrideVal[i]
				break
			}
		}
		if v != target[matched] {
			break
		}
		overridePos[n] = dst
		overrideVal[n] = v
		n++
		matched++
		src = (src + 1) % ringSize
		dst = (dst + 1) % ringSize
	}
	return matched
}

// bestMatch searches the dictionary for the longest safe reference against
// the remaining source bytes, preferring the nearest offset on a length
// tie. It returns the chosen reference (offset, length, true) or reports
// no match (false), in which case the caller must emit a literal.
func (m *matcher) bestMatch(remaining []byte) (offset, length int, ok bool) {
	if len(remaining) < m.opts.MinMatch {
		return 0, 0, false
	}

	candidates := m.buckets[remaining[0]]
	bestLen, bestDist, bestOffset := 0, 0, -1
	probed := 0

	for i := len(candidates) - 1; i >= 0 && probed < m.opts.SearchCap; i-- {
		pos := int(candidates[i])
		probed++

		if m.ring.buf[pos] != remaining[0] {
			// Stale entry: this slot has since been overwritten.
			continue
		}

		d := m.ring.distance(pos)
		if d == 0 {
			continue
		}

		n := m.ring.simulateLen(pos, remaining)
		if m.opts.SafetyStrict && d < n {
			n = d
		}
		if n < m.opts.MinMatch {
			continue
		}

		if n > bestLen || (n == bestLen && d < bestDist) {
			bestLen, bestDist, bestOffset = n, d, pos
		}
	}

	if bestOffset < 0 {
		return 0, 0, false
	}

	if m.opts.LiteralBias > 0 {
		threshold := int(m.opts.LiteralBias*float64(maxMatch) + 0.999999)
		if bestLen <= threshold {
			return 0, 0, false
		}
	}

	return bestOffset, bestLen, true
}
