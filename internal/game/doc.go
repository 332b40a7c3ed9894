// Package game implements the Texas Hold'em betting state machine for a
// single table.
//
// A Table seats players, commits to a provably fair shuffle at the start of
// every hand (see the deck package), posts blinds, and walks the hand through
// preflop, flop, turn and river as players fold, check, call and raise. There
// is no hand ranking: when betting ends, a lone survivor takes the pot and
// otherwise the pot is split evenly between everyone still in the hand.
//
// # Basic Usage
//
//	t := game.New("room-1", "alice", game.DefaultConfig())
//	t.AddPlayer("alice", "Alice")
//	t.AddPlayer("bob", "Bob")
//	t.Start()
//	if err := t.StartHand(); err != nil {
//	    return err
//	}
//	commitment := t.Commitment() // publish before play
//	err := t.Act(t.CurrentActor(), game.Call, 0)
//
// A Table is not safe for concurrent use. The room package serializes access
// and adds turn enforcement, timers and broadcast.
//
// Snapshot projects the table into a value that can be sent to clients;
// Snapshot.ForViewer hides hole cards the viewer is not entitled to see.
package game
