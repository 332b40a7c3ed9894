// Package room serializes access to a game.Table and owns the timers that
// drive it: the per-turn action timeout and the auto-deal sequence that
// follows a showdown.
package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/fairholdem/internal/commitlog"
	"github.com/lox/fairholdem/internal/deck"
	"github.com/lox/fairholdem/internal/game"
)

const (
	DefaultShowdownDelay = 5 * time.Second
	DefaultDealDelay     = 2 * time.Second

	publishTimeout = 2 * time.Second
)

// Options are shared by every room a Manager creates.
type Options struct {
	Clock       quartz.Clock
	Logger      *log.Logger
	Subscriber  Subscriber
	Commitments commitlog.Log

	// ShowdownDelay is how long a finished hand stays on screen, and
	// DealDelay the pause before the next hand is dealt.
	ShowdownDelay time.Duration
	DealDelay     time.Duration

	// NewDealer, if set, supplies each room's fair dealer.
	NewDealer func() *deck.FairDeck
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = quartz.NewReal()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Subscriber == nil {
		o.Subscriber = nopSubscriber{}
	}
	if o.Commitments == nil {
		o.Commitments = commitlog.NewMemoryLog(0)
	}
	if o.ShowdownDelay <= 0 {
		o.ShowdownDelay = DefaultShowdownDelay
	}
	if o.DealDelay <= 0 {
		o.DealDelay = DefaultDealDelay
	}
	return o
}

// Room owns one table. Every operation, including timer callbacks, runs to
// completion under the room lock in arrival order.
type Room struct {
	mu     sync.Mutex
	id     string
	table  *game.Table
	opts   Options
	logger *log.Logger

	actionTimer *quartz.Timer
	turnGen     uint64
	deadline    time.Time

	dealTimer *quartz.Timer
	dealGen   uint64

	reportedHand string

	// closed is set once the last player leaves or the room is removed.
	// A closed room accepts no new players.
	closed bool
}

// New creates a room with an empty table owned by creatorID.
func New(id, creatorID string, cfg game.Config, opts Options) *Room {
	opts = opts.withDefaults()

	var tableOpts []game.Option
	if opts.NewDealer != nil {
		tableOpts = append(tableOpts, game.WithDealer(opts.NewDealer()))
	}

	return &Room{
		id:     id,
		table:  game.New(id, creatorID, cfg, tableOpts...),
		opts:   opts,
		logger: opts.Logger.WithPrefix("room").With("room", id),
	}
}

// ID returns the room id.
func (r *Room) ID() string { return r.id }

// Join seats a player. Joining a room you are already seated in is a no-op.
// A closed room reports ErrRoomNotFound.
func (r *Room) Join(playerID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}

	if _, err := r.table.AddPlayer(playerID, name); err != nil {
		if errors.Is(err, game.ErrPlayerExists) {
			return nil
		}
		return err
	}
	r.logger.Info("Player joined", "player", playerID, "name", name, "players", r.table.PlayerCount())
	r.publish()
	return nil
}

// Leave unseats a player and reports how many players remain. The room
// closes when the last player leaves.
func (r *Room) Leave(playerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.table.RemovePlayer(playerID); err != nil {
		if errors.Is(err, game.ErrUnknownPlayer) {
			return r.table.PlayerCount(), ErrNotSeated
		}
		return r.table.PlayerCount(), err
	}
	r.logger.Info("Player left", "player", playerID, "players", r.table.PlayerCount())

	if r.table.PlayerCount() == 0 {
		r.closed = true
		r.stopTimers()
		return 0, nil
	}
	r.afterTurn()
	return r.table.PlayerCount(), nil
}

// Start begins play, or resumes a paused hand. Only the creator may start.
func (r *Room) Start(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID != r.table.CreatorID() {
		return ErrNotCreator
	}

	if r.table.HandInProgress() {
		if r.table.State() == game.Paused {
			r.table.Start()
			r.logger.Info("Table resumed", "hand", r.table.HandID())
			r.afterTurn()
		}
		return nil
	}

	if err := r.table.Ready(); err != nil {
		return err
	}
	r.table.Start()
	r.cancelDeal()
	if err := r.startHand(); err != nil {
		return err
	}
	r.afterTurn()
	return nil
}

// Pause stops the clock on the current turn and prevents new hands. Only the
// creator may pause.
func (r *Room) Pause(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID != r.table.CreatorID() {
		return ErrNotCreator
	}
	if r.table.State() == game.Paused {
		return nil
	}
	r.table.Pause()
	r.stopTimers()
	r.logger.Info("Table paused")
	r.publish()
	return nil
}

// Act applies a player's action. Only the current actor may act, and not
// while the table is paused.
func (r *Room) Act(playerID string, action game.Action, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.table.Player(playerID); !ok {
		return ErrNotSeated
	}
	if r.table.State() == game.Paused {
		return ErrTablePaused
	}
	if !r.table.HandInProgress() {
		return game.ErrNoHandInProgress
	}
	if r.table.CurrentActor() != playerID {
		return ErrNotYourTurn
	}

	if err := r.table.Act(playerID, action, amount); err != nil {
		return err
	}
	r.logger.Debug("Player acted", "player", playerID, "action", action, "amount", amount,
		"pot", r.table.Pot(), "phase", r.table.Phase())
	r.afterTurn()
	return nil
}

// SetAutoDeal toggles dealing the next hand automatically. Only the creator
// may change it.
func (r *Room) SetAutoDeal(playerID string, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID != r.table.CreatorID() {
		return ErrNotCreator
	}
	r.table.SetAutoDeal(on)
	if on {
		r.scheduleDeal()
	} else {
		r.cancelDeal()
	}
	r.publish()
	return nil
}

// Reveal holds a revealed seed and the commitment it must match.
type Reveal struct {
	HandID     string `json:"hand_id"`
	Seed       string `json:"seed"`
	Commitment string `json:"seed_hash"`
}

// RevealSeed discloses the most recent hand's seed. It refuses while that
// hand is still being played.
func (r *Room) RevealSeed() (Reveal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.table.HandInProgress() {
		return Reveal{}, ErrHandInProgress
	}
	rev := Reveal{
		HandID:     r.table.HandID(),
		Seed:       r.table.Seed(),
		Commitment: r.table.Commitment(),
	}
	if rev.Seed == "" {
		return Reveal{}, game.ErrNoHandInProgress
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.opts.Commitments.Reveal(ctx, r.id, rev.HandID, rev.Seed, r.opts.Clock.Now()); err != nil {
		r.logger.Warn("Failed to record seed reveal", "hand", rev.HandID, "error", err)
	}
	return rev, nil
}

// Snapshot returns the room's current unmasked snapshot.
func (r *Room) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Config returns the table settings.
func (r *Room) Config() game.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.Config()
}

// IsSeated reports whether the player has a seat at the table.
func (r *Room) IsSeated(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.table.Player(playerID)
	return ok
}

// Close stops the room's timers and refuses further joins.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.stopTimers()
}

// Closed reports whether the room has stopped accepting players.
func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// closeIfEmpty closes the room if nobody is seated.
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.table.PlayerCount() > 0 {
		return false
	}
	r.closed = true
	r.stopTimers()
	return true
}

func (r *Room) snapshot() game.Snapshot {
	snap := r.table.Snapshot()
	if !r.deadline.IsZero() {
		d := r.deadline
		snap.ActionDeadline = &d
	}
	return snap
}

func (r *Room) publish() {
	r.opts.Subscriber.OnEvent(StateChanged{Snapshot: r.snapshot()})
}

// startHand deals a new hand and publishes its commitment.
func (r *Room) startHand() error {
	if err := r.table.StartHand(); err != nil {
		return err
	}
	r.logger.Info("Hand started", "hand", r.table.HandID(), "number", r.table.HandNumber(),
		"players", r.table.PlayerCount(), "seed_hash", r.table.Commitment())

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err := r.opts.Commitments.Commit(ctx, commitlog.Entry{
		RoomID:      r.id,
		HandID:      r.table.HandID(),
		HandNumber:  r.table.HandNumber(),
		Commitment:  r.table.Commitment(),
		CommittedAt: r.opts.Clock.Now(),
	})
	if err != nil {
		r.logger.Warn("Failed to publish commitment", "hand", r.table.HandID(), "error", err)
	}
	return nil
}

// afterTurn re-arms the action timer for whoever is now to act, starts the
// auto-deal sequence if the hand just ended, and publishes the new state.
func (r *Room) afterTurn() {
	r.armActionTimer()
	if r.table.Phase() == game.Showdown {
		if res := r.table.LastResult(); res != nil && res.HandID != r.reportedHand {
			r.reportedHand = res.HandID
			r.logger.Info("Hand finished", "hand", res.HandID, "pot", res.Pot,
				"winners", len(res.Winners), "remainder", res.Remainder)
		}
		r.scheduleDeal()
	}
	r.publish()
}

func (r *Room) armActionTimer() {
	r.stopActionTimer()

	actor := r.table.CurrentActor()
	timeout := r.table.Config().ActionTimeout
	if actor == "" || timeout <= 0 || r.table.State() != game.Playing {
		return
	}

	gen, handID := r.turnGen, r.table.HandID()
	r.deadline = r.opts.Clock.Now().Add(timeout)
	r.actionTimer = r.opts.Clock.AfterFunc(timeout, func() {
		r.onActionTimeout(gen, handID, actor)
	}, "room", "action")
}

func (r *Room) stopActionTimer() {
	r.turnGen++
	r.deadline = time.Time{}
	if r.actionTimer != nil {
		r.actionTimer.Stop()
		r.actionTimer = nil
	}
}

// onActionTimeout folds the actor if the turn it was armed for is still open.
func (r *Room) onActionTimeout(gen uint64, handID, actor string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.turnGen || handID != r.table.HandID() || actor != r.table.CurrentActor() ||
		r.table.State() != game.Playing {
		r.logger.Debug("Ignoring stale action timer", "player", actor)
		return
	}
	r.actionTimer = nil

	if err := r.table.Fold(actor); err != nil {
		r.logger.Warn("Timeout fold rejected", "player", actor, "error", err)
		return
	}
	r.logger.Info("Player timed out", "player", actor, "hand", handID)
	r.opts.Subscriber.OnEvent(PlayerTimedOut{RoomID: r.id, PlayerID: actor, Action: game.Fold})
	r.afterTurn()
}

// scheduleDeal starts the showdown → none → next hand sequence, unless it is
// already running or the table should not deal.
func (r *Room) scheduleDeal() {
	if r.dealTimer != nil || !r.table.AutoDeal() || r.table.State() != game.Playing ||
		r.table.Phase() != game.Showdown {
		return
	}
	r.dealGen++
	gen := r.dealGen
	r.dealTimer = r.opts.Clock.AfterFunc(r.opts.ShowdownDelay, func() {
		r.clearShowdown(gen)
	}, "room", "showdown")
}

func (r *Room) clearShowdown(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.dealGen || r.table.State() != game.Playing {
		return
	}
	r.table.BeginNextHand()
	r.publish()

	r.dealTimer = r.opts.Clock.AfterFunc(r.opts.DealDelay, func() {
		r.dealNext(gen)
	}, "room", "deal")
}

func (r *Room) dealNext(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.dealGen || r.table.State() != game.Playing || !r.table.AutoDeal() ||
		r.table.HandInProgress() {
		return
	}
	r.dealTimer = nil

	if err := r.startHand(); err != nil {
		r.logger.Info("Not dealing next hand", "reason", err)
		r.publish()
		return
	}
	r.afterTurn()
}

func (r *Room) cancelDeal() {
	r.dealGen++
	if r.dealTimer != nil {
		r.dealTimer.Stop()
		r.dealTimer = nil
	}
}

func (r *Room) stopTimers() {
	r.stopActionTimer()
	r.cancelDeal()
}
