package analysis

// hashSampleLimit caps how many leading bytes feed the fingerprint.
// Sampling keeps the hash O(1) on large video buffers while staying
// fully deterministic for identical content.
const hashSampleLimit = 1000

// fingerprint computes a Jenkins one-at-a-time hash over at most the
// first hashSampleLimit bytes of buf, with the standard avalanche
// finalization. All arithmetic is 32-bit wrapping, so the value is
// stable across platforms and runs.
func fingerprint(buf []byte) uint32 {
	n := len(buf)
	if n > hashSampleLimit {
		n = hashSampleLimit
	}

	var h uint32
	for i := 0; i < n; i++ {
		h += uint32(buf[i])
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}

// HashMod reduces the buffer fingerprint to [0, mod). Extractors that
// have no real signal-processing backend derive their output from this
// primitive; each call site uses a distinct modulus to decorrelate the
// outputs nominally (the fingerprint itself is shared per buffer).
// mod must be positive.
func HashMod(buf []byte, mod int) float64 {
	if mod <= 0 {
		return 0
	}
	// Interpret the hash as a signed 32-bit value and take its absolute
	// value before reducing, matching the reference pipeline bit for bit.
	v := int64(int32(fingerprint(buf)))
	if v < 0 {
		v = -v
	}
	return float64(v % int64(mod))
}

// Hash100 is the canonical form of the utility: a stable pseudo-random
// scalar in [0, 100) derived from buffer content.
func Hash100(buf []byte) float64 {
	return HashMod(buf, 100)
}
