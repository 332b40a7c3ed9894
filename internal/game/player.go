package game

import (
	"time"

	"github.com/lox/fairholdem/internal/deck"
)

// Player represents a seated player
type Player struct {
	ID            string
	Name          string
	Chips         int
	Bet           int // Chips committed in the current betting round
	Hand          []deck.Card
	Folded        bool
	AllIn         bool
	TimeRemaining time.Duration

	// Showdown label for the player's best hand, if one was computed.
	Description string
}

// CanAct returns true if the player is still in the hand with chips behind.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// commit moves up to amount chips from the stack into the current bet and
// returns how much actually moved. A stack that reaches zero is all-in.
func (p *Player) commit(amount int) int {
	amount = min(amount, p.Chips)
	if amount < 0 {
		amount = 0
	}
	p.Chips -= amount
	p.Bet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}

func (p *Player) resetForHand(timeout time.Duration) {
	p.Bet = 0
	p.Folded = false
	p.AllIn = false
	p.Hand = nil
	p.Description = ""
	p.TimeRemaining = timeout
}
