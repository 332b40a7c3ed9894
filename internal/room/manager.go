package room

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/fairholdem/internal/commitlog"
	"github.com/lox/fairholdem/internal/game"
)

// Summary holds lightweight room metadata for listings.
type Summary struct {
	ID         string `json:"id"`
	CreatorID  string `json:"creator_id"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	SmallBlind int    `json:"small_blind"`
	BigBlind   int    `json:"big_blind"`
	State      string `json:"state"`
	HandState  string `json:"hand_state"`
	HandNumber int    `json:"hand_number"`
}

// Manager is the registry of live rooms.
type Manager struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	defaults game.Config
	opts     Options
	logger   *log.Logger
}

// NewManager constructs an empty registry. defaults supplies every setting a
// create request leaves at zero.
func NewManager(defaults game.Config, opts Options) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		rooms:    make(map[string]*Room),
		defaults: defaults,
		opts:     opts,
		logger:   opts.Logger.WithPrefix("rooms"),
	}
}

// Create registers a new room owned by creatorID. If a live room already has
// the id it is returned unchanged, cfg is ignored and created is false.
func (m *Manager) Create(id, creatorID string, cfg game.Config) (r *Room, created bool, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, fmt.Errorf("%w: room id required", ErrInvalidSettings)
	}
	cfg = m.withDefaults(cfg)
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, false, fmt.Errorf("%w: blinds %d/%d", ErrInvalidSettings, cfg.SmallBlind, cfg.BigBlind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A closed room is still registered until its last Leave removes it.
	if existing, ok := m.rooms[id]; ok && !existing.Closed() {
		return existing, false, nil
	}
	r = New(id, creatorID, cfg, m.opts)
	m.rooms[id] = r
	m.logger.Info("Room created", "room", id, "creator", creatorID,
		"blinds", fmt.Sprintf("%d/%d", cfg.SmallBlind, cfg.BigBlind), "timeout", cfg.ActionTimeout)
	return r, true, nil
}

// Get retrieves a room by id.
func (m *Manager) Get(id string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Remove closes a room and deletes it from the registry.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	r, ok := m.rooms[id]
	delete(m.rooms, id)
	m.mu.Unlock()

	if ok {
		r.Close()
		m.logger.Info("Room removed", "room", id)
	}
	return ok
}

// RemoveIfEmpty closes and deletes r if nobody is seated in it.
func (m *Manager) RemoveIfEmpty(r *Room) bool {
	if !r.closeIfEmpty() {
		return false
	}
	m.forget(r)
	return true
}

// forget deletes r from the registry unless the id now names another room.
func (m *Manager) forget(r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[r.ID()] == r {
		delete(m.rooms, r.ID())
		m.logger.Info("Room removed", "room", r.ID())
	}
}

// Leave unseats the player and removes the room once it is empty.
func (m *Manager) Leave(id, playerID string) error {
	r, err := m.Get(id)
	if err != nil {
		return err
	}
	remaining, err := r.Leave(playerID)
	if err != nil {
		return err
	}
	// The room closed itself under its own lock, so no join can slip in
	// between here and the delete.
	if remaining == 0 {
		m.forget(r)
	}
	return nil
}

// List returns a summary of every room, ordered by id.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	summaries := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		snap := r.Snapshot()
		summaries = append(summaries, Summary{
			ID:         snap.RoomID,
			CreatorID:  snap.CreatorID,
			Players:    len(snap.Players),
			MaxPlayers: r.Config().MaxPlayers,
			SmallBlind: snap.SmallBlind,
			BigBlind:   snap.BigBlind,
			State:      snap.State.String(),
			HandState:  snap.HandState.String(),
			HandNumber: snap.HandNumber,
		})
	}
	slices.SortFunc(summaries, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
	return summaries
}

// Commitments returns the room's published commitments, oldest first.
func (m *Manager) Commitments(ctx context.Context, id string, limit int) ([]commitlog.Entry, error) {
	return m.opts.Commitments.List(ctx, id, limit)
}

// Defaults returns the settings applied to rooms created without overrides.
func (m *Manager) Defaults() game.Config { return m.defaults }

// Len returns the number of live rooms.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// CloseAll stops every room's timers.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rooms {
		r.Close()
	}
}

func (m *Manager) withDefaults(cfg game.Config) game.Config {
	if cfg.SmallBlind == 0 {
		cfg.SmallBlind = m.defaults.SmallBlind
	}
	if cfg.BigBlind == 0 {
		cfg.BigBlind = m.defaults.BigBlind
	}
	if cfg.StartingChips == 0 {
		cfg.StartingChips = m.defaults.StartingChips
	}
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = m.defaults.ActionTimeout
	}
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = m.defaults.MaxPlayers
	}
	return cfg
}
