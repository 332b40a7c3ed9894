package randutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeterministic(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestForSeedDeterministic(t *testing.T) {
	a, b := ForSeed("room-1"), ForSeed("room-1")
	for i := 0; i < 10; i++ {
		assert.Equal(t, Below(a, 52), Below(b, 52))
	}
}

func TestForSeedStreamsAreIndependent(t *testing.T) {
	a, b := ForSeed("room-1"), ForSeed("room-2")
	same := 0
	for i := 0; i < 32; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Less(t, same, 32)
}

func TestForSeedStream(t *testing.T) {
	src := ForSeed("room-1")
	assert.Equal(t, uint64(0x26b4e4db53ff6e2a), src.Uint64())
	assert.Equal(t, uint64(0x9d66606f3dd27d87), src.Uint64())
	assert.Equal(t, uint64(0x6c5325e52ad3cc95), src.Uint64())
}

// words replays a fixed sequence of 64-bit outputs.
type words []uint64

func (w *words) Uint64() uint64 {
	x := (*w)[0]
	*w = (*w)[1:]
	return x
}

func TestBelowRejectsBiasedWords(t *testing.T) {
	// 2^64 mod 3 is 1, so only the top word is outside the last full block.
	src := &words{math.MaxUint64, math.MaxUint64 - 1, 7}
	assert.Equal(t, uint64((math.MaxUint64-1)%3), Below(src, 3))
	assert.Equal(t, uint64(1), Below(src, 3))
	assert.Empty(t, *src)
}

func TestBelowPowerOfTwoKeepsEveryWord(t *testing.T) {
	src := &words{math.MaxUint64, 5}
	assert.Equal(t, uint64(3), Below(src, 4))
	assert.Len(t, *src, 1)
}

func TestBelowRange(t *testing.T) {
	src := ForSeed("range")
	for n := uint64(1); n <= 52; n++ {
		for range 20 {
			assert.Less(t, Below(src, n), n)
		}
	}
}
