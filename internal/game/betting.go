package game

import (
	"fmt"
	"strings"
)

// Phase is the stage of the current hand.
type Phase int

const (
	PhaseNone Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// IsBetting reports whether a betting round is open in this phase.
func (p Phase) IsBetting() bool {
	return p >= Preflop && p <= River
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for c := PhaseNone; c <= Showdown; c++ {
		if c.String() == string(text) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// State is the table lifecycle, independent of any hand.
type State int

const (
	Waiting State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for c := Waiting; c <= Paused; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction maps a wire verb to an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// CheckBettingComplete reports whether the open betting round is finished:
// at most one player is left in the hand, nobody left in the hand can act,
// or every player who can still act has acted this round and matched the
// current bet. The last clause holds for any number of all-in players.
func (t *Table) CheckBettingComplete() bool {
	if t.countInHand() <= 1 {
		return true
	}

	if t.countCanAct() == 0 {
		return true
	}

	for _, id := range t.order {
		p := t.players[id]
		if !p.CanAct() {
			continue
		}
		if !t.acted[id] || p.Bet != t.currentBet {
			return false
		}
	}
	return true
}

// countInHand returns the number of seated players who have not folded.
func (t *Table) countInHand() int {
	n := 0
	for _, id := range t.order {
		if !t.players[id].Folded {
			n++
		}
	}
	return n
}

// countCanAct returns the number of players who are neither folded nor all-in.
func (t *Table) countCanAct() int {
	n := 0
	for _, id := range t.order {
		if t.players[id].CanAct() {
			n++
		}
	}
	return n
}
