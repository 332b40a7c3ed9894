package game

import (
	"slices"
	"time"

	"github.com/lox/fairholdem/internal/deck"
)

// SnapshotVersion is bumped whenever Snapshot changes shape.
const SnapshotVersion = 1

// PlayerView is a player as shown to clients.
type PlayerView struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Chips         int         `json:"chips"`
	Bet           int         `json:"bet"`
	Hand          []deck.Card `json:"hand"`
	CardCount     int         `json:"card_count"`
	Folded        bool        `json:"folded"`
	AllIn         bool        `json:"all_in"`
	TimeRemaining int         `json:"time_remaining"` // seconds
	Description   string      `json:"description,omitempty"`
}

// Snapshot is the complete, serializable view of a table. It carries the
// seed commitment but never the seed.
type Snapshot struct {
	Version         int          `json:"version"`
	RoomID          string       `json:"room_id"`
	CreatorID       string       `json:"creator_id"`
	Players         []PlayerView `json:"players"`
	CommunityCards  []deck.Card  `json:"community_cards"`
	Pot             int          `json:"pot"`
	CurrentBet      int          `json:"current_bet"`
	State           State        `json:"state"`
	HandState       Phase        `json:"hand_state"`
	SeedHash        string       `json:"seed_hash"`
	CurrentPlayerID string       `json:"current_player_id,omitempty"`
	DealerPosition  int          `json:"dealer_position"`
	SmallBlind      int          `json:"small_blind"`
	BigBlind        int          `json:"big_blind"`
	ActionTimer     int          `json:"action_timer"` // seconds
	AutoDeal        bool         `json:"auto_deal"`
	HandID          string       `json:"hand_id,omitempty"`
	HandNumber      int          `json:"hand_number"`
	LastResult      *HandResult  `json:"last_result,omitempty"`

	// Set by the room when an action timer is running.
	ActionDeadline *time.Time `json:"action_deadline,omitempty"`
}

// Snapshot projects the table into a Snapshot. It does not modify the table.
func (t *Table) Snapshot() Snapshot {
	players := make([]PlayerView, 0, len(t.order))
	for _, id := range t.order {
		p := t.players[id]
		players = append(players, PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			Chips:         p.Chips,
			Bet:           p.Bet,
			Hand:          slices.Clone(p.Hand),
			CardCount:     len(p.Hand),
			Folded:        p.Folded,
			AllIn:         p.AllIn,
			TimeRemaining: int(p.TimeRemaining / time.Second),
			Description:   p.Description,
		})
	}

	var result *HandResult
	if t.lastResult != nil {
		r := *t.lastResult
		r.Winners = slices.Clone(r.Winners)
		r.Board = slices.Clone(r.Board)
		result = &r
	}

	return Snapshot{
		Version:         SnapshotVersion,
		RoomID:          t.id,
		CreatorID:       t.creatorID,
		Players:         players,
		CommunityCards:  t.CommunityCards(),
		Pot:             t.pot,
		CurrentBet:      t.currentBet,
		State:           t.state,
		HandState:       t.phase,
		SeedHash:        t.dealer.Commitment(),
		CurrentPlayerID: t.CurrentActor(),
		DealerPosition:  t.dealerSeat,
		SmallBlind:      t.cfg.SmallBlind,
		BigBlind:        t.cfg.BigBlind,
		ActionTimer:     int(t.cfg.ActionTimeout / time.Second),
		AutoDeal:        t.cfg.AutoDeal,
		HandID:          t.handID,
		HandNumber:      t.handNumber,
		LastResult:      result,
	}
}

// ForViewer returns a copy of the snapshot with every other player's hole
// cards hidden. Cards of players still in the hand are shown at showdown.
// An empty viewer hides every hand.
func (s Snapshot) ForViewer(viewerID string) Snapshot {
	out := s
	out.Players = slices.Clone(s.Players)
	for i := range out.Players {
		p := &out.Players[i]
		if p.ID == viewerID {
			continue
		}
		if s.HandState == Showdown && !p.Folded {
			continue
		}
		p.Hand = nil
	}
	return out
}
