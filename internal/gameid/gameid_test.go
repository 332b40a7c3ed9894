package gameid

import (
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairholdem/internal/randutil"
)

func TestGenerateValid(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := Generate()
		require.NoError(t, Validate(id))
		assert.False(t, seen[id], "duplicate hand id %s", id)
		seen[id] = true
	}
}

func TestHandIDsSortByTime(t *testing.T) {
	clock := quartz.NewMock(t)
	gen := NewGenerator(clock, randutil.New(1))

	prev := gen.Generate()
	for range 10 {
		clock.Advance(time.Millisecond)
		next := gen.Generate()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestSeededGeneratorRepeats(t *testing.T) {
	clock := quartz.NewMock(t)

	a := NewGenerator(clock, randutil.New(42)).Generate()
	b := NewGenerator(clock, randutil.New(42)).Generate()
	c := NewGenerator(clock, randutil.New(43)).Generate()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NoError(t, Validate(a))
}

func TestUUIDv7Layout(t *testing.T) {
	gen := NewGenerator(quartz.NewMock(t), randutil.New(7))
	u := gen.uuidV7(time.UnixMilli(0x0102030405))

	assert.Equal(t, []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}, u[:6])
	assert.Equal(t, byte(0x70), u[6]&0xf0, "version 7")
	assert.Equal(t, byte(0x80), u[8]&0xc0, "RFC 4122 variant")
}

func TestEncodeBase32Bounds(t *testing.T) {
	var zero, ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, strings.Repeat("0", Length), encodeBase32(zero))
	assert.Equal(t, "7"+strings.Repeat("z", Length-1), encodeBase32(ones))
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		id    string
		valid bool
	}{
		"ok":              {"01h5n0et5q6mt3v7ms1234abcd", true},
		"short":           {"01h5n0et5q6mt3v7ms123", false},
		"long":            {"01h5n0et5q6mt3v7ms1234abcdef", false},
		"overflowing":     {"81h5n0et5q6mt3v7ms1234abcd", false},
		"excluded letter": {"01h5n0et5q6mt3v7ms1234abci", false},
		"uppercase":       {"01H5N0ET5Q6MT3V7MS1234ABCD", false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
