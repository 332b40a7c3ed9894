package randutil

import (
	"crypto/sha256"
	"math"
	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15

	// shuffleDomain separates the shuffle key from the published seed commitment,
	// which is a plain sha256 of the same seed.
	shuffleDomain = "fairholdem/shuffle/v1\x00"
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// ForSeed returns a ChaCha8 generator keyed from a textual seed. The ChaCha8
// output stream is fully specified by the standard library, so the same seed
// produces the same words on every platform and Go release.
func ForSeed(seed string) *rand.ChaCha8 {
	key := sha256.Sum256([]byte(shuffleDomain + seed))
	return rand.NewChaCha8(key)
}

// Below returns a uniform value in [0, n) drawn from src. Words at or above
// the largest multiple of n that fits in 64 bits are discarded and the rest
// are reduced modulo n. Shuffle verification depends on this exact mapping,
// so it must never change. n must be positive.
func Below(src rand.Source, n uint64) uint64 {
	rem := (math.MaxUint64%n + 1) % n // 2^64 mod n
	for {
		if x := src.Uint64(); x <= math.MaxUint64-rem {
			return x % n
		}
	}
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
