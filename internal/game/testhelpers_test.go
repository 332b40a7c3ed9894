package game

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/fairholdem/internal/deck"
)

// newTestTable seats one player per stack with ids p0, p1, ... and a
// deterministic dealer. A zero stack keeps the default starting chips.
func newTestTable(t *testing.T, stacks ...int) *Table {
	t.Helper()
	cfg := DefaultConfig()
	entropy := rand.NewChaCha8([32]byte{7})
	table := New("room", "", cfg, WithDealer(deck.NewFairDeckWithEntropy(entropy)))
	for i, chips := range stacks {
		p, err := table.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
		require.NoError(t, err)
		if chips > 0 {
			p.Chips = chips
		}
	}
	return table
}

// startedTable is newTestTable with the first hand already dealt.
func startedTable(t *testing.T, stacks ...int) *Table {
	t.Helper()
	table := newTestTable(t, stacks...)
	table.Start()
	require.NoError(t, table.StartHand())
	return table
}

func totalChips(table *Table) int {
	total := table.Pot()
	for _, p := range table.Players() {
		total += p.Chips
	}
	return total
}

func player(t *testing.T, table *Table, id string) *Player {
	t.Helper()
	p, ok := table.Player(id)
	require.True(t, ok, "player %s not seated", id)
	return p
}

func mustAct(t *testing.T, table *Table, id string, action Action, amount int) {
	t.Helper()
	require.Equal(t, id, table.CurrentActor(), "unexpected actor")
	require.NoError(t, table.Act(id, action, amount))
}
