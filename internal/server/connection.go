package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/fairholdem/internal/game"
	"github.com/lox/fairholdem/internal/room"
)

// Connection is one client's WebSocket session. Each connection is a player
// with a random id and is seated in at most one room.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	roomID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
}

// NewConnection creates a new connection wrapper with a fresh player id.
func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	playerID := uuid.NewString()

	return &Connection{
		conn:     conn,
		send:     make(chan *Message, 256),
		playerID: playerID,
		logger:   logger.WithPrefix("conn").With("player", playerID),
		ctx:      ctx,
		cancel:   cancel,
		server:   server,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client without blocking. A client
// that cannot keep up is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// PlayerID returns the connection's player id.
func (c *Connection) PlayerID() string {
	return c.playerID
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// RoomID returns the associated room ID
func (c *Connection) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = errors.New("connection closed")

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "room", c.RoomID())

	switch msg.Type {
	case MessageTypeCreateRoom:
		var data CreateRoomData
		if !c.decode(msg, &data) {
			return
		}
		c.handleCreateRoom(data)

	case MessageTypeJoinGame:
		var data JoinGameData
		if !c.decode(msg, &data) {
			return
		}
		c.handleJoinGame(data)

	case MessageTypeLeaveRoom:
		var data RoomData
		if !c.decode(msg, &data) {
			return
		}
		c.handleLeaveRoom(data)

	case MessageTypeStartGame:
		var data RoomData
		if !c.decode(msg, &data) {
			return
		}
		c.withRoom(data.RoomID, func(r *room.Room) error { return r.Start(c.playerID) })

	case MessageTypePauseGame:
		var data RoomData
		if !c.decode(msg, &data) {
			return
		}
		c.withRoom(data.RoomID, func(r *room.Room) error { return r.Pause(c.playerID) })

	case MessageTypePlayerAction:
		var data PlayerActionData
		if !c.decode(msg, &data) {
			return
		}
		c.handlePlayerAction(data)

	case MessageTypeVerifySeed:
		var data RoomData
		if !c.decode(msg, &data) {
			return
		}
		c.handleVerifySeed(data)

	case MessageTypeSetAutoDeal:
		var data SetAutoDealData
		if !c.decode(msg, &data) {
			return
		}
		c.withRoom(data.RoomID, func(r *room.Room) error { return r.SetAutoDeal(c.playerID, data.Enabled) })

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) decode(msg *Message, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.sendError("invalid_message", "Failed to parse "+msg.Type.String()+" data")
		return false
	}
	return true
}

// sendData marshals and queues a message, logging failures.
func (c *Connection) sendData(t MessageType, data any) {
	msg, err := NewMessage(t, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	c.sendData(MessageTypeError, ErrorData{Code: code, Message: message})
}

// replyError maps err to its wire code and tells only this client.
func (c *Connection) replyError(err error) {
	c.logger.Debug("Request rejected", "error", err)
	c.sendError(errorCode(err), err.Error())
}

// withRoom runs fn against the named room and reports any error.
func (c *Connection) withRoom(roomID string, fn func(*room.Room) error) {
	r, err := c.server.rooms.Get(roomID)
	if err != nil {
		c.replyError(err)
		return
	}
	if err := fn(r); err != nil {
		c.replyError(err)
	}
}

func (c *Connection) handleCreateRoom(data CreateRoomData) {
	name := strings.TrimSpace(data.PlayerName)
	if name == "" {
		c.sendError("invalid_message", "Player name required")
		return
	}
	roomID := strings.TrimSpace(data.RoomID)
	if roomID == "" {
		roomID = uuid.NewString()[:8]
	}

	cfg := c.server.rooms.Defaults()
	if data.SmallBlind > 0 {
		cfg.SmallBlind = data.SmallBlind
	}
	if data.BigBlind > 0 {
		cfg.BigBlind = data.BigBlind
	}
	if data.ActionTimeout > 0 {
		cfg.ActionTimeout = time.Duration(data.ActionTimeout) * time.Second
	}

	if c.RoomID() != roomID {
		c.leaveCurrentRoom()
	}
	// An existing room is joined as is, keeping its creator and settings.
	r, created, err := c.server.rooms.Create(roomID, c.playerID, cfg)
	if err != nil {
		c.replyError(err)
		return
	}
	c.logger.Info("Create room request", "room", roomID, "name", name, "created", created)
	c.join(r, name)
}

func (c *Connection) handleJoinGame(data JoinGameData) {
	name := strings.TrimSpace(data.PlayerName)
	if name == "" {
		c.sendError("invalid_message", "Player name required")
		return
	}
	r, err := c.server.rooms.Get(data.RoomID)
	if err != nil {
		c.replyError(err)
		return
	}
	if c.RoomID() != data.RoomID {
		c.leaveCurrentRoom()
	}
	c.logger.Info("Join room request", "room", data.RoomID, "name", name)
	c.join(r, name)
}

// join seats the player, then sends the joined ack and the current state.
// The room is recorded before seating so a concurrent disconnect always
// finds it.
func (c *Connection) join(r *room.Room, name string) {
	c.SetRoom(r.ID())
	if err := r.Join(c.playerID, name); err != nil {
		c.SetRoom("")
		c.server.rooms.RemoveIfEmpty(r)
		c.replyError(err)
		return
	}
	if c.ctx.Err() != nil {
		// Closed while joining; unregister may already have run.
		if r.IsSeated(c.playerID) {
			c.SetRoom("")
			if err := c.server.rooms.Leave(r.ID(), c.playerID); err != nil {
				c.logger.Debug("Leave after close", "room", r.ID(), "error", err)
			}
		}
		return
	}
	c.sendData(MessageTypeJoined, JoinedData{RoomID: r.ID(), PlayerID: c.playerID})
	c.sendData(MessageTypeGameState, r.Snapshot().ForViewer(c.playerID))
}

func (c *Connection) handleLeaveRoom(data RoomData) {
	if err := c.server.rooms.Leave(data.RoomID, c.playerID); err != nil {
		c.replyError(err)
		return
	}
	if c.RoomID() == data.RoomID {
		c.SetRoom("")
	}
	c.sendData(MessageTypeLeft, RoomData{RoomID: data.RoomID})
}

// leaveCurrentRoom unseats the player from the room they are in, if any.
func (c *Connection) leaveCurrentRoom() {
	roomID := c.RoomID()
	if roomID == "" {
		return
	}
	c.SetRoom("")
	if err := c.server.rooms.Leave(roomID, c.playerID); err != nil && !errors.Is(err, room.ErrRoomNotFound) {
		c.logger.Warn("Failed to leave room", "room", roomID, "error", err)
	}
}

func (c *Connection) handlePlayerAction(data PlayerActionData) {
	action, err := game.ParseAction(data.Action)
	if err != nil {
		c.replyError(err)
		return
	}
	c.withRoom(data.RoomID, func(r *room.Room) error {
		return r.Act(c.playerID, action, data.RaiseAmount)
	})
}

func (c *Connection) handleVerifySeed(data RoomData) {
	c.withRoom(data.RoomID, func(r *room.Room) error {
		rev, err := r.RevealSeed()
		if err != nil {
			return err
		}
		c.sendData(MessageTypeSeedRevealed, SeedRevealedData{
			RoomID:   r.ID(),
			HandID:   rev.HandID,
			Seed:     rev.Seed,
			SeedHash: rev.Commitment,
		})
		return nil
	})
}
