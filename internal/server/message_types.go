package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeCreateRoom   MessageType = "create_room"
	MessageTypeJoinGame     MessageType = "join_game"
	MessageTypeLeaveRoom    MessageType = "leave_room"
	MessageTypeStartGame    MessageType = "start_game"
	MessageTypePauseGame    MessageType = "pause_game"
	MessageTypePlayerAction MessageType = "player_action"
	MessageTypeVerifySeed   MessageType = "verify_seed"
	MessageTypeSetAutoDeal  MessageType = "set_auto_deal"

	// Server to client messages
	MessageTypeJoined        MessageType = "joined"
	MessageTypeLeft          MessageType = "left"
	MessageTypeGameState     MessageType = "game_state"
	MessageTypeError         MessageType = "error"
	MessageTypeSeedRevealed  MessageType = "seed_revealed"
	MessageTypePlayerTimeout MessageType = "player_timeout"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
