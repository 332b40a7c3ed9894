package commitlog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/lox/fairholdem/internal/deck"
)

// MemoryLog keeps the most recent entries per room in process memory.
type MemoryLog struct {
	mu      sync.RWMutex
	limit   int
	entries map[string][]Entry
}

// NewMemoryLog returns a log retaining up to limit entries per room.
func NewMemoryLog(limit int) *MemoryLog {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryLog{limit: limit, entries: make(map[string][]Entry)}
}

func (m *MemoryLog) Commit(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := append(m.entries[e.RoomID], e)
	if len(entries) > m.limit {
		entries = slices.Clone(entries[len(entries)-m.limit:])
	}
	m.entries[e.RoomID] = entries
	return nil
}

func (m *MemoryLog) Reveal(_ context.Context, roomID, handID, seed string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.entries[roomID]
	i := slices.IndexFunc(entries, func(e Entry) bool { return e.HandID == handID })
	if i < 0 {
		return ErrNotFound
	}
	if !deck.VerifyCommitment(seed, entries[i].Commitment) {
		return ErrMismatch
	}
	entries[i].Seed = seed
	entries[i].RevealedAt = &at
	return nil
}

func (m *MemoryLog) List(_ context.Context, roomID string, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.entries[roomID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return slices.Clone(entries), nil
}
