package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairholdem/internal/game"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	opts, _, _, _ := testOptions(t)
	return NewManager(game.DefaultConfig(), opts)
}

func TestManagerCreate(t *testing.T) {
	m := newTestManager(t)

	r, created, err := m.Create("alpha", "creator", game.Config{SmallBlind: 5, BigBlind: 10})
	require.NoError(t, err)
	assert.True(t, created)
	cfg := r.Config()
	assert.Equal(t, 5, cfg.SmallBlind)
	assert.Equal(t, 10, cfg.BigBlind)
	assert.Equal(t, 1000, cfg.StartingChips, "unset fields use defaults")
	assert.Equal(t, 30*time.Second, cfg.ActionTimeout)

	_, _, err = m.Create(" ", "creator", game.Config{})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, _, err = m.Create("beta", "creator", game.Config{SmallBlind: 20, BigBlind: 10})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	got, err := m.Get("alpha")
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestManagerList(t *testing.T) {
	m := newTestManager(t)
	for _, id := range []string{"charlie", "alpha", "bravo"} {
		r, _, err := m.Create(id, "p-"+id, game.Config{})
		require.NoError(t, err)
		require.NoError(t, r.Join("p-"+id, id))
	}

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].ID)
	assert.Equal(t, "charlie", list[2].ID)
	assert.Equal(t, 1, list[0].Players)
	assert.Equal(t, "waiting", list[0].State)
	assert.Equal(t, 10, list[0].MaxPlayers)
}

func TestManagerLeaveRemovesEmptyRoom(t *testing.T) {
	m := newTestManager(t)
	r, _, err := m.Create("alpha", "a", game.Config{})
	require.NoError(t, err)
	require.NoError(t, r.Join("a", "A"))
	require.NoError(t, r.Join("b", "B"))

	require.NoError(t, m.Leave("alpha", "a"))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "b", r.Snapshot().CreatorID)

	assert.ErrorIs(t, m.Leave("alpha", "a"), ErrNotSeated)
	require.NoError(t, m.Leave("alpha", "b"))
	assert.Equal(t, 0, m.Len())
	assert.ErrorIs(t, m.Leave("alpha", "b"), ErrRoomNotFound)
}

func TestManagerCreateExistingRoomJoinsIt(t *testing.T) {
	m := newTestManager(t)
	r, _, err := m.Create("alpha", "a", game.Config{SmallBlind: 5, BigBlind: 10})
	require.NoError(t, err)
	require.NoError(t, r.Join("a", "A"))

	again, created, err := m.Create("alpha", "b", game.Config{SmallBlind: 50, BigBlind: 100})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, r, again)
	assert.Equal(t, 5, again.Config().SmallBlind, "settings are not replaced")
	assert.Equal(t, "a", again.Snapshot().CreatorID)
}

func TestJoinAfterLastPlayerLeaves(t *testing.T) {
	m := newTestManager(t)
	r, _, err := m.Create("alpha", "a", game.Config{})
	require.NoError(t, err)
	require.NoError(t, r.Join("a", "A"))

	// A joiner resolved the room before the last player left.
	stale, err := m.Get("alpha")
	require.NoError(t, err)
	require.NoError(t, m.Leave("alpha", "a"))

	assert.ErrorIs(t, stale.Join("b", "B"), ErrRoomNotFound)
	assert.False(t, stale.IsSeated("b"))
	_, err = m.Get("alpha")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	fresh, created, err := m.Create("alpha", "b", game.Config{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotSame(t, stale, fresh)
	require.NoError(t, fresh.Join("b", "B"))
}

func TestClosedRoomIsReplacedNotDropped(t *testing.T) {
	m := newTestManager(t)
	old, _, err := m.Create("alpha", "a", game.Config{})
	require.NoError(t, err)
	require.NoError(t, old.Join("a", "A"))

	// The room empties but has not been deleted from the registry yet.
	remaining, err := old.Leave("a")
	require.NoError(t, err)
	require.Zero(t, remaining)
	assert.True(t, old.Closed())

	replacement, created, err := m.Create("alpha", "b", game.Config{})
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, replacement.Join("b", "B"))

	// The pending delete for the old room must leave the replacement alone.
	m.forget(old)
	got, err := m.Get("alpha")
	require.NoError(t, err)
	assert.Same(t, replacement, got)
}

func TestRemoveIfEmpty(t *testing.T) {
	m := newTestManager(t)
	r, _, err := m.Create("alpha", "a", game.Config{})
	require.NoError(t, err)
	require.NoError(t, r.Join("a", "A"))

	assert.False(t, m.RemoveIfEmpty(r))
	assert.Equal(t, 1, m.Len())

	empty, _, err := m.Create("beta", "b", game.Config{})
	require.NoError(t, err)
	assert.True(t, m.RemoveIfEmpty(empty))
	assert.True(t, empty.Closed())
	assert.ErrorIs(t, empty.Join("b", "B"), ErrRoomNotFound)
	assert.Equal(t, 1, m.Len())
}
