package game

import "fmt"

// Act applies an action for the player. amount is only used by Raise.
func (t *Table) Act(id string, action Action, amount int) error {
	switch action {
	case Fold:
		return t.Fold(id)
	case Check:
		return t.Check(id)
	case Call:
		return t.Call(id)
	case Raise:
		return t.Raise(id, amount)
	default:
		return ErrUnknownAction
	}
}

// Fold gives up the hand. No chips move.
func (t *Table) Fold(id string) error {
	p, err := t.livePlayer(id)
	if err != nil {
		return err
	}
	p.Folded = true
	t.acted[id] = true
	t.advanceAction()
	return nil
}

// Call matches the current bet, or puts in the whole stack if it is short.
func (t *Table) Call(id string) error {
	p, err := t.livePlayer(id)
	if err != nil {
		return err
	}
	t.pot += p.commit(t.currentBet - p.Bet)
	t.acted[id] = true
	t.advanceAction()
	return nil
}

// Check passes when the player's bet already equals the current bet.
func (t *Table) Check(id string) error {
	p, err := t.livePlayer(id)
	if err != nil {
		return err
	}
	if p.Bet != t.currentBet {
		return fmt.Errorf("%w: must call %d", ErrCannotCheck, t.currentBet-p.Bet)
	}
	t.acted[id] = true
	t.advanceAction()
	return nil
}

// Raise lifts the current bet by amount. The player pays the difference
// between the new total and their bet; everyone else must act again.
func (t *Table) Raise(id string, amount int) error {
	p, err := t.livePlayer(id)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRaise)
	}
	// Compare before adding so a huge amount cannot overflow the total.
	toCall := t.currentBet - p.Bet
	if amount > p.Chips-toCall {
		return fmt.Errorf("%w: raise of %d exceeds the %d chips left after calling", ErrInvalidRaise, amount, p.Chips-toCall)
	}
	total := t.currentBet + amount
	toAdd := total - p.Bet

	t.pot += p.commit(toAdd)
	t.currentBet = total
	t.lastRaiser = t.seatOf(id)
	t.acted = map[string]bool{id: true}
	t.advanceAction()
	return nil
}

// livePlayer returns the player if they may act in the open round.
func (t *Table) livePlayer(id string) (*Player, error) {
	p, ok := t.players[id]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if !t.phase.IsBetting() {
		return nil, ErrNoHandInProgress
	}
	if p.Folded {
		return nil, ErrPlayerFolded
	}
	if p.AllIn {
		return nil, ErrPlayerAllIn
	}
	return p, nil
}
