package game

import (
	"fmt"
	"slices"

	"github.com/lox/fairholdem/internal/deck"
)

// Winner is one share of an awarded pot.
type Winner struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Amount      int    `json:"amount"`
	Description string `json:"description,omitempty"`
}

// HandResult records how a finished hand's pot was awarded.
type HandResult struct {
	HandID    string      `json:"hand_id"`
	Pot       int         `json:"pot"`
	Winners   []Winner    `json:"winners"`
	Remainder int         `json:"remainder"` // chips left undistributed by an uneven split
	Board     []deck.Card `json:"board"`
}

// StartHand commits to a fresh seed, shuffles, resets per-hand state, deals
// two hole cards to each player in seating order and posts the blinds.
// Players with an empty stack sit the hand out. On error nothing changes.
func (t *Table) StartHand() error {
	if t.state != Playing {
		return ErrNotPlaying
	}
	if err := t.Ready(); err != nil {
		return err
	}

	if _, err := t.dealer.GenerateSeed(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	if _, err := t.dealer.Shuffle(); err != nil {
		return fmt.Errorf("shuffling: %w", err)
	}

	t.handNumber++
	t.handID = t.handIDs.Generate()
	t.lastResult = nil
	t.community = nil
	t.pot = 0
	t.currentBet = 0
	t.lastRaiser = -1
	t.acted = make(map[string]bool)
	t.phase = Preflop
	if t.dealerSeat >= len(t.order) {
		t.dealerSeat = 0
	}

	for _, id := range t.order {
		p := t.players[id]
		p.resetForHand(t.cfg.ActionTimeout)
		if p.Chips == 0 {
			p.Folded = true
		}
	}
	for _, id := range t.order {
		if p := t.players[id]; !p.Folded {
			p.Hand = t.dealer.Deal(2)
		}
	}

	t.postBlinds()
	return nil
}

// Ready reports whether enough players have chips for a hand to be dealt.
func (t *Table) Ready() error {
	funded := 0
	for _, id := range t.order {
		if t.players[id].Chips > 0 {
			funded++
		}
	}
	if len(t.order) < 2 || funded < 2 {
		return ErrNotEnoughPlayers
	}
	return nil
}

// postBlinds posts the small blind from the first dealt-in seat after the
// dealer and the big blind from the next one. Short stacks post what they
// have and are all-in. Both blinds count as having acted.
func (t *Table) postBlinds() {
	n := len(t.order)
	sb := t.nextDealtIn(t.dealerSeat)
	bb := t.nextDealtIn(sb)

	t.post(sb, t.cfg.SmallBlind)
	t.post(bb, t.cfg.BigBlind)

	t.currentBet = t.cfg.BigBlind
	t.lastRaiser = bb
	t.acted[t.order[sb]] = true
	t.acted[t.order[bb]] = true

	t.actorSeat = (bb + 1) % n
	first := t.players[t.order[t.actorSeat]]
	if !first.CanAct() || t.CheckBettingComplete() {
		t.advanceAction()
		return
	}
	first.TimeRemaining = t.cfg.ActionTimeout
}

func (t *Table) post(seat, blind int) {
	p := t.players[t.order[seat]]
	t.pot += p.commit(blind)
}

// nextDealtIn returns the first seat after from holding cards this hand.
func (t *Table) nextDealtIn(from int) int {
	n := len(t.order)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if !t.players[t.order[seat]].Folded {
			return seat
		}
	}
	return (from + 1) % n
}

// advanceAction ends the hand if only one player remains, closes the round
// if betting is complete, and otherwise passes the action to the next
// player who can act.
func (t *Table) advanceAction() {
	if t.countInHand() <= 1 {
		t.endHand()
		return
	}

	if t.CheckBettingComplete() {
		t.nextBettingRound()
		return
	}

	n := len(t.order)
	for i := 0; i < n; i++ {
		t.actorSeat = (t.actorSeat + 1) % n
		p := t.players[t.order[t.actorSeat]]
		if p.CanAct() {
			p.TimeRemaining = t.cfg.ActionTimeout
			return
		}
	}

	// Nobody can act even though the round looked open.
	t.nextBettingRound()
}

// nextBettingRound resets round state and deals the next street, or ends
// the hand after the river.
func (t *Table) nextBettingRound() {
	for _, id := range t.order {
		t.players[id].Bet = 0
	}
	t.currentBet = 0
	t.lastRaiser = -1
	t.acted = make(map[string]bool)

	switch t.phase {
	case Preflop:
		t.community = append(t.community, t.dealer.Deal(3)...)
		t.phase = Flop
	case Flop:
		t.community = append(t.community, t.dealer.Deal(1)...)
		t.phase = Turn
	case Turn:
		t.community = append(t.community, t.dealer.Deal(1)...)
		t.phase = River
	case River:
		t.endHand()
		return
	default:
		return
	}

	t.setFirstToAct()
}

// setFirstToAct gives the action to the first player after the dealer who
// can act. When everyone left is all-in the board is run out.
func (t *Table) setFirstToAct() {
	n := len(t.order)
	for i := 1; i <= n; i++ {
		seat := (t.dealerSeat + i) % n
		p := t.players[t.order[seat]]
		if p.CanAct() {
			t.actorSeat = seat
			p.TimeRemaining = t.cfg.ActionTimeout
			return
		}
	}
	t.nextBettingRound()
}

// endHand moves to showdown, awards the pot and moves the button.
func (t *Table) endHand() {
	t.phase = Showdown

	winners := t.determineWinners()
	result := &HandResult{
		HandID: t.handID,
		Pot:    t.pot,
		Board:  slices.Clone(t.community),
	}

	switch len(winners) {
	case 0:
		result.Remainder = t.pot
	case 1:
		winners[0].Chips += t.pot
		result.Winners = []Winner{{PlayerID: winners[0].ID, Name: winners[0].Name, Amount: t.pot}}
	default:
		t.describeHands(winners)
		share := t.pot / len(winners)
		for _, w := range winners {
			w.Chips += share
			result.Winners = append(result.Winners, Winner{
				PlayerID:    w.ID,
				Name:        w.Name,
				Amount:      share,
				Description: w.Description,
			})
		}
		result.Remainder = t.pot - share*len(winners)
	}

	t.pot = result.Remainder
	t.lastResult = result

	if n := len(t.order); n > 0 {
		t.dealerSeat = (t.dealerSeat + 1) % n
	}
}

// determineWinners returns everyone still in the hand. There is no hand
// ranking: a lone survivor takes the pot and otherwise it is split evenly.
func (t *Table) determineWinners() []*Player {
	var winners []*Player
	for _, id := range t.order {
		if p := t.players[id]; !p.Folded {
			winners = append(winners, p)
		}
	}
	return winners
}
