package server

import (
	"errors"
	"net/http"

	"github.com/lox/fairholdem/internal/commitlog"
	"github.com/lox/fairholdem/internal/game"
	"github.com/lox/fairholdem/internal/room"
)

// errorCodes maps sentinel errors to stable wire codes and HTTP statuses.
var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{room.ErrRoomNotFound, "room_not_found", http.StatusNotFound},
	{room.ErrNotCreator, "not_creator", http.StatusForbidden},
	{room.ErrNotYourTurn, "not_your_turn", http.StatusConflict},
	{room.ErrTablePaused, "table_paused", http.StatusConflict},
	{room.ErrNotSeated, "not_seated", http.StatusForbidden},
	{room.ErrHandInProgress, "hand_in_progress", http.StatusConflict},
	{room.ErrInvalidSettings, "invalid_settings", http.StatusBadRequest},
	{game.ErrNotEnoughPlayers, "not_enough_players", http.StatusConflict},
	{game.ErrNotPlaying, "not_playing", http.StatusConflict},
	{game.ErrUnknownPlayer, "not_seated", http.StatusForbidden},
	{game.ErrTableFull, "table_full", http.StatusConflict},
	{game.ErrNoHandInProgress, "no_hand_in_progress", http.StatusConflict},
	{game.ErrPlayerFolded, "player_folded", http.StatusConflict},
	{game.ErrPlayerAllIn, "player_all_in", http.StatusConflict},
	{game.ErrCannotCheck, "cannot_check", http.StatusBadRequest},
	{game.ErrInvalidRaise, "invalid_raise", http.StatusBadRequest},
	{game.ErrUnknownAction, "unknown_action", http.StatusBadRequest},
	{commitlog.ErrNotFound, "commitment_not_found", http.StatusNotFound},
}

func errorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return "internal_error"
}

func errorStatus(err error) int {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}
