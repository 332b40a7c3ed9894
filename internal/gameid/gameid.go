// Package gameid mints sortable hand identifiers: a UUIDv7 rendered as a
// 26-character Crockford base32 string.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID.
const Length = 26

// RandSource lets tests replace crypto/rand with a seeded generator.
// *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator mints IDs from a clock and an optional RandSource.
type Generator struct {
	clock      quartz.Clock
	randSource RandSource
}

// NewGenerator creates a generator. A nil clock means the real clock; a nil
// RandSource means crypto/rand.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, randSource: randSource}
}

// Generate creates an ID using the real clock and crypto/rand.
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate creates a new ID.
func (g *Generator) Generate() string {
	return encodeBase32(g.uuidV7(g.clock.Now()))
}

// uuidV7 lays out 48 bits of unix milliseconds, the version and variant bits,
// and 74 random bits.
func (g *Generator) uuidV7(now time.Time) [16]byte {
	var uuid [16]byte

	ms := now.UnixMilli()
	uuid[0] = byte(ms >> 40)
	uuid[1] = byte(ms >> 32)
	uuid[2] = byte(ms >> 24)
	uuid[3] = byte(ms >> 16)
	uuid[4] = byte(ms >> 8)
	uuid[5] = byte(ms)

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.randSource.IntN(256))
		}
	} else if _, err := rand.Read(uuid[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid
}

// encodeBase32 writes the 128 bits as 26 five-bit groups, most significant
// first, with two zero bits of left padding.
func encodeBase32(data [16]byte) string {
	result := make([]byte, Length)

	// Treat the value as 130 bits: two leading zero bits followed by data.
	bit := func(i int) byte {
		i -= 2
		if i < 0 {
			return 0
		}
		return (data[i/8] >> (7 - uint(i%8))) & 1
	}

	for i := 0; i < Length; i++ {
		var v byte
		for b := 0; b < 5; b++ {
			v = v<<1 | bit(i*5+b)
		}
		result[i] = alphabet[v]
	}

	return string(result)
}

// Validate checks if an ID is well formed (26 characters, valid base32).
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand ID must be exactly %d characters, got %d", Length, len(id))
	}

	// The leading character carries only three significant bits.
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
