package server

import (
	"encoding/json"
	"time"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message stamped with now.
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server Messages

type CreateRoomData struct {
	RoomID        string `json:"room_id"`
	PlayerName    string `json:"player_name"`
	SmallBlind    int    `json:"small_blind,omitempty"`
	BigBlind      int    `json:"big_blind,omitempty"`
	ActionTimeout int    `json:"action_timeout,omitempty"` // seconds
}

type JoinGameData struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
}

// RoomData is the payload of messages that only name a room.
type RoomData struct {
	RoomID string `json:"room_id"`
}

type PlayerActionData struct {
	RoomID      string `json:"room_id"`
	Action      string `json:"action"`
	RaiseAmount int    `json:"raise_amount,omitempty"`
}

type SetAutoDealData struct {
	RoomID  string `json:"room_id"`
	Enabled bool   `json:"enabled"`
}

// Server → Client Messages

type JoinedData struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SeedRevealedData struct {
	RoomID   string `json:"room_id"`
	HandID   string `json:"hand_id"`
	Seed     string `json:"seed"`
	SeedHash string `json:"seed_hash"`
}

type PlayerTimeoutData struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Action   string `json:"action"` // The action taken due to timeout
}
