package room

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotCreator      = errors.New("only the room creator can do that")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrTablePaused     = errors.New("table is paused")
	ErrNotSeated       = errors.New("not seated in this room")
	ErrHandInProgress  = errors.New("seed is revealed after the hand ends")
	ErrInvalidSettings = errors.New("invalid room settings")
)
