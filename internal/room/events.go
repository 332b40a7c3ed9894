package room

import "github.com/lox/fairholdem/internal/game"

// Event is published by a room after its state changes.
type Event interface {
	EventType() string
}

// StateChanged carries the full, unmasked snapshot. Subscribers mask it per
// viewer before sending it anywhere.
type StateChanged struct {
	Snapshot game.Snapshot
}

func (StateChanged) EventType() string { return "state_changed" }

// PlayerTimedOut is published when a player's action timer folds them.
type PlayerTimedOut struct {
	RoomID   string
	PlayerID string
	Action   game.Action
}

func (PlayerTimedOut) EventType() string { return "player_timeout" }

// Subscriber receives room events. OnEvent is called with the room locked,
// so it must not call back into the room.
type Subscriber interface {
	OnEvent(Event)
}

// SubscriberFunc adapts a function to a Subscriber.
type SubscriberFunc func(Event)

func (f SubscriberFunc) OnEvent(e Event) { f(e) }

type nopSubscriber struct{}

func (nopSubscriber) OnEvent(Event) {}
