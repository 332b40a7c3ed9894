package game

import "errors"

// Errors returned by Table operations. A Table that returns one of these has
// not been modified.
var (
	ErrNotEnoughPlayers = errors.New("at least two players are required")
	ErrNotPlaying       = errors.New("table is not playing")
	ErrUnknownPlayer    = errors.New("player is not seated at this table")
	ErrPlayerExists     = errors.New("player is already seated")
	ErrTableFull        = errors.New("table is full")
	ErrNoHandInProgress = errors.New("no hand in progress")
	ErrPlayerFolded     = errors.New("player has folded")
	ErrPlayerAllIn      = errors.New("player is all-in")
	ErrCannotCheck      = errors.New("cannot check, bet is unmatched")
	ErrInvalidRaise     = errors.New("invalid raise")
	ErrUnknownAction    = errors.New("unknown action")
)
