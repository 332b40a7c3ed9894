package game

import (
	"slices"
	"time"

	"github.com/lox/fairholdem/internal/deck"
	"github.com/lox/fairholdem/internal/gameid"
)

// Config holds per-table settings fixed at creation.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingChips int
	ActionTimeout time.Duration
	AutoDeal      bool
	MaxPlayers    int
}

// DefaultConfig returns the settings used when a room is created without overrides.
func DefaultConfig() Config {
	return Config{
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
		ActionTimeout: 30 * time.Second,
		AutoDeal:      true,
		MaxPlayers:    10,
	}
}

// Option configures a Table.
type Option func(*Table)

// WithDealer replaces the table's fair dealer, mainly so tests can inject entropy.
func WithDealer(d *deck.FairDeck) Option {
	return func(t *Table) { t.dealer = d }
}

// WithHandIDs sets the generator used to mint hand IDs.
func WithHandIDs(g *gameid.Generator) Option {
	return func(t *Table) { t.handIDs = g }
}

// Table is the betting state machine for one room. It is not safe for
// concurrent use; callers serialize access (see the room package).
type Table struct {
	id        string
	creatorID string
	cfg       Config

	order   []string // seating order
	players map[string]*Player

	state      State
	phase      Phase
	community  []deck.Card
	pot        int
	currentBet int

	dealerSeat int
	actorSeat  int
	lastRaiser int // -1 when nobody has raised this round
	acted      map[string]bool

	dealer     *deck.FairDeck
	handIDs    *gameid.Generator
	handID     string
	handNumber int
	lastResult *HandResult
}

// New creates an empty table in the waiting state.
func New(id, creatorID string, cfg Config, opts ...Option) *Table {
	t := &Table{
		id:         id,
		creatorID:  creatorID,
		cfg:        cfg,
		players:    make(map[string]*Player),
		lastRaiser: -1,
		acted:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.dealer == nil {
		t.dealer = deck.NewFairDeck()
	}
	if t.handIDs == nil {
		t.handIDs = gameid.NewGenerator(nil, nil)
	}
	return t
}

// ID returns the room identifier.
func (t *Table) ID() string { return t.id }

// CreatorID returns the player allowed to start and pause the table.
func (t *Table) CreatorID() string { return t.creatorID }

// Config returns the table settings.
func (t *Table) Config() Config { return t.cfg }

// State returns the lifecycle state.
func (t *Table) State() State { return t.state }

// Phase returns the hand phase.
func (t *Table) Phase() Phase { return t.phase }

// Pot returns the chips contributed and not yet awarded.
func (t *Table) Pot() int { return t.pot }

// CurrentBet returns the amount every live player must match this round.
func (t *Table) CurrentBet() int { return t.currentBet }

// DealerSeat returns the dealer button's seat index.
func (t *Table) DealerSeat() int { return t.dealerSeat }

// HandID returns the current or most recent hand's ID.
func (t *Table) HandID() string { return t.handID }

// HandNumber counts hands started at this table.
func (t *Table) HandNumber() int { return t.handNumber }

// AutoDeal reports whether a new hand should follow showdown automatically.
func (t *Table) AutoDeal() bool { return t.cfg.AutoDeal }

// SetAutoDeal toggles automatic dealing after showdown.
func (t *Table) SetAutoDeal(on bool) { t.cfg.AutoDeal = on }

// LastResult returns the outcome of the most recent hand, or nil.
func (t *Table) LastResult() *HandResult { return t.lastResult }

// CommunityCards returns a copy of the board.
func (t *Table) CommunityCards() []deck.Card {
	return slices.Clone(t.community)
}

// Commitment returns the published hash of the current hand's seed.
func (t *Table) Commitment() string { return t.dealer.Commitment() }

// Seed returns the current hand's secret seed for audit reveal.
func (t *Table) Seed() string { return t.dealer.Seed() }

// VerifySeed reports whether seed matches the published commitment.
func (t *Table) VerifySeed(seed string) bool { return t.dealer.Verify(seed) }

// Player returns the seated player with the given id.
func (t *Table) Player(id string) (*Player, bool) {
	p, ok := t.players[id]
	return p, ok
}

// Players returns the seated players in seating order.
func (t *Table) Players() []*Player {
	players := make([]*Player, 0, len(t.order))
	for _, id := range t.order {
		players = append(players, t.players[id])
	}
	return players
}

// PlayerCount returns the number of seated players.
func (t *Table) PlayerCount() int { return len(t.order) }

// HandInProgress reports whether a betting round is open.
func (t *Table) HandInProgress() bool { return t.phase.IsBetting() }

// CurrentActor returns the id of the player to act, or "" outside a betting round.
func (t *Table) CurrentActor() string {
	if !t.phase.IsBetting() || len(t.order) == 0 {
		return ""
	}
	return t.order[t.actorSeat]
}

// ActedThisRound reports whether the player has acted in the open round.
func (t *Table) ActedThisRound(id string) bool { return t.acted[id] }

// AddPlayer seats a new player with the starting stack. A player joining
// during a hand sits out (folded, no cards) until the next deal.
func (t *Table) AddPlayer(id, name string) (*Player, error) {
	if p, ok := t.players[id]; ok {
		return p, ErrPlayerExists
	}
	if t.cfg.MaxPlayers > 0 && len(t.order) >= t.cfg.MaxPlayers {
		return nil, ErrTableFull
	}

	p := &Player{
		ID:            id,
		Name:          name,
		Chips:         t.cfg.StartingChips,
		TimeRemaining: t.cfg.ActionTimeout,
		Folded:        t.phase.IsBetting(),
	}
	t.players[id] = p
	t.order = append(t.order, id)
	if t.creatorID == "" {
		t.creatorID = id
	}
	return p, nil
}

// RemovePlayer unseats a player. Chips they already put in the pot stay
// there. Seat indexes are shifted so the actor, dealer and last raiser keep
// pointing at the same people; if the leaver was due to act, or leaving
// closes the round, play advances.
func (t *Table) RemovePlayer(id string) error {
	seat := slices.Index(t.order, id)
	if seat < 0 {
		return ErrUnknownPlayer
	}

	inHand := t.phase.IsBetting()
	wasActor := inHand && seat == t.actorSeat

	t.order = slices.Delete(t.order, seat, seat+1)
	delete(t.players, id)
	delete(t.acted, id)

	if id == t.creatorID {
		t.creatorID = ""
		if len(t.order) > 0 {
			t.creatorID = t.order[0]
		}
	}

	n := len(t.order)
	if n == 0 {
		t.dealerSeat, t.actorSeat, t.lastRaiser = 0, 0, -1
		if inHand {
			t.endHand()
		}
		return nil
	}

	t.dealerSeat = shiftSeat(t.dealerSeat, seat, n)
	switch {
	case t.lastRaiser == seat:
		t.lastRaiser = -1
	case t.lastRaiser > seat:
		t.lastRaiser--
	}
	// The actor index moves back one when the actor leaves so that advancing
	// lands on the seat that followed them.
	if seat <= t.actorSeat {
		t.actorSeat--
	}
	if t.actorSeat < 0 {
		t.actorSeat = n - 1
	}
	t.actorSeat %= n

	if inHand && (wasActor || t.countInHand() <= 1 || t.CheckBettingComplete()) {
		t.advanceAction()
	}
	return nil
}

// shiftSeat maps a seat index across the removal of removed.
func shiftSeat(idx, removed, n int) int {
	if idx > removed {
		idx--
	}
	if idx >= n {
		idx = 0
	}
	return idx
}

// Start moves the table into the playing state.
func (t *Table) Start() {
	t.state = Playing
}

// Pause stops new hands from being dealt.
func (t *Table) Pause() {
	t.state = Paused
}

// BeginNextHand clears a finished hand so the table shows no hand in progress.
func (t *Table) BeginNextHand() {
	if t.phase == Showdown {
		t.phase = PhaseNone
	}
}

func (t *Table) seatOf(id string) int {
	return slices.Index(t.order, id)
}
