// Package commitlog publishes per-hand seed commitments so that players can
// audit a hand after the seed is revealed.
package commitlog

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("commitment not found")
	ErrMismatch = errors.New("seed does not match commitment")
)

// DefaultLimit caps how many entries are retained per room.
const DefaultLimit = 100

// Entry is one hand's published commitment and, once revealed, its seed.
type Entry struct {
	RoomID      string     `json:"room_id"`
	HandID      string     `json:"hand_id"`
	HandNumber  int        `json:"hand_number"`
	Commitment  string     `json:"seed_hash"`
	Seed        string     `json:"seed,omitempty"`
	CommittedAt time.Time  `json:"committed_at"`
	RevealedAt  *time.Time `json:"revealed_at,omitempty"`
}

// Log stores commitments. Implementations are safe for concurrent use.
type Log interface {
	// Commit records a commitment before any card of the hand is dealt.
	Commit(ctx context.Context, e Entry) error
	// Reveal attaches the seed to a committed hand. It returns ErrMismatch
	// when the seed does not hash to the commitment.
	Reveal(ctx context.Context, roomID, handID, seed string, at time.Time) error
	// List returns up to limit of the room's most recent entries, oldest first.
	List(ctx context.Context, roomID string, limit int) ([]Entry, error)
}
