package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	table := startedTable(t, 0, 0, 0)
	snap := table.Snapshot()

	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, "room", snap.RoomID)
	assert.Equal(t, "p0", snap.CreatorID)
	assert.Equal(t, 30, snap.Pot)
	assert.Equal(t, 20, snap.CurrentBet)
	assert.Equal(t, Playing, snap.State)
	assert.Equal(t, Preflop, snap.HandState)
	assert.Equal(t, table.Commitment(), snap.SeedHash)
	assert.Equal(t, "p0", snap.CurrentPlayerID)
	assert.Equal(t, 30, snap.ActionTimer)
	assert.True(t, snap.AutoDeal)
	require.Len(t, snap.Players, 3)
	assert.Equal(t, 2, snap.Players[1].CardCount)
	assert.Equal(t, 30, snap.Players[0].TimeRemaining)
}

func TestSnapshotIsDetached(t *testing.T) {
	table := startedTable(t, 0, 0)
	snap := table.Snapshot()
	snap.Players[0].Hand[0].Rank = 0

	assert.NotEqual(t, 0, int(player(t, table, "p0").Hand[0].Rank))
	assert.Equal(t, snap.HandState, table.Snapshot().HandState)
}

func TestSnapshotJSON(t *testing.T) {
	table := startedTable(t, 0, 0)
	data, err := json.Marshal(table.Snapshot())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "preflop", raw["hand_state"])
	assert.Equal(t, "playing", raw["state"])
	assert.Equal(t, table.Commitment(), raw["seed_hash"])
	assert.NotContains(t, string(data), table.Seed(), "seed is never serialized")
}

func TestForViewerHidesOtherHands(t *testing.T) {
	table := startedTable(t, 0, 0, 0)
	view := table.Snapshot().ForViewer("p1")

	for _, p := range view.Players {
		if p.ID == "p1" {
			assert.Len(t, p.Hand, 2)
			continue
		}
		assert.Empty(t, p.Hand, p.ID)
		assert.Equal(t, 2, p.CardCount, "card count stays visible")
	}

	spectator := table.Snapshot().ForViewer("")
	for _, p := range spectator.Players {
		assert.Empty(t, p.Hand)
	}
}

func TestForViewerShowdownReveal(t *testing.T) {
	table := startedTable(t, 0, 0, 0)
	mustAct(t, table, "p0", Fold, 0)
	mustAct(t, table, "p1", Call, 0)
	for range 3 {
		mustAct(t, table, "p1", Check, 0)
		mustAct(t, table, "p2", Check, 0)
	}
	require.Equal(t, Showdown, table.Phase())

	view := table.Snapshot().ForViewer("p0")
	for _, p := range view.Players {
		switch p.ID {
		case "p0":
			assert.Len(t, p.Hand, 2, "own cards are always visible")
		case "p1", "p2":
			assert.Len(t, p.Hand, 2, "live hands are shown at showdown")
		}
	}

	view = table.Snapshot().ForViewer("p1")
	for _, p := range view.Players {
		if p.ID == "p0" {
			assert.Empty(t, p.Hand, "folded hands stay hidden")
		}
	}
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	table := startedTable(t, 0, 0)
	want := table.Snapshot()
	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Preflop, got.HandState)
	assert.Equal(t, Playing, got.State)
	assert.Equal(t, want.Players[0].Hand, got.Players[0].Hand)

	var bad Snapshot
	assert.Error(t, json.Unmarshal([]byte(`{"hand_state":"nope"}`), &bad))
}
