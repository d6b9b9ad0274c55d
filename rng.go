package ircore

import "math/rand"

// mix64 derives a deterministic sub-seed from a base seed and an index,
// using the SplitMix64 finaliser. It is the substream-derivation scheme
// referenced by spec.md §5 and §9: keying each path off
// mix64(seed, pathIndex) makes the resulting cube independent of how paths are
// partitioned across goroutines, since every path draws from its own
// stream regardless of which worker executes it or in what order.
func mix64(seed uint64, index int) uint64 {
	z := seed + uint64(index)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// newStream returns a deterministic *rand.Rand for the given base seed and
// index (the generators pass the path index). Two calls
// with identical (seed, index) always produce identical draw sequences.
func newStream(seed uint64, index int) *rand.Rand {
	sub := mix64(seed, index)
	// rand.Source takes an int64 seed; the exact bit pattern only needs
	// to be a deterministic, well-mixed function of (seed, index).
	return rand.New(rand.NewSource(int64(sub)))
}
