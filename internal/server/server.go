// Package server bridges WebSocket sessions and HTTP audit requests to the
// rooms that run the game.
package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/fairholdem/internal/commitlog"
	"github.com/lox/fairholdem/internal/room"
)

const shutdownTimeout = 5 * time.Second

// Server owns the room registry and every client connection.
type Server struct {
	cfg         *Config
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	rooms       *room.Manager
	logger      *log.Logger
	clock       quartz.Clock
	mu          sync.RWMutex
	router      chi.Router
}

// NewServer wires a room manager whose events are broadcast to connected
// clients.
func NewServer(cfg *Config, logger *log.Logger, clock quartz.Clock, commitments commitlog.Log) *Server {
	if clock == nil {
		clock = quartz.NewReal()
	}
	s := &Server{
		cfg:         cfg,
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
		clock:       clock,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	showdown, deal := cfg.Delays()
	s.rooms = room.NewManager(cfg.GameConfig(), room.Options{
		Clock:         clock,
		Logger:        logger,
		Subscriber:    s,
		Commitments:   commitments,
		ShowdownDelay: showdown,
		DealDelay:     deal,
	})
	s.router = s.routes()
	return s
}

// Rooms returns the room registry.
func (s *Server) Rooms() *room.Manager { return s.rooms }

// Handler returns the HTTP handler serving /ws and the audit endpoints.
func (s *Server) Handler() http.Handler { return s.router }

// Serve listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Stop()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Stop closes every connection and stops all room timers.
func (s *Server) Stop() {
	s.rooms.CloseAll()

	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		return true
	}
	return slices.Contains(origins, r.Header.Get("Origin"))
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.register(client)
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "player", conn.PlayerID(), "total", total)
}

// unregister forgets the connection and unseats its player.
func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()

	conn.leaveCurrentRoom()
	s.logger.Info("Client disconnected", "player", conn.PlayerID(), "total", total)
}

// OnEvent broadcasts room events to the room's connections. Every recipient
// gets its own masked snapshot.
func (s *Server) OnEvent(e room.Event) {
	switch e := e.(type) {
	case room.StateChanged:
		s.broadcastState(e)
	case room.PlayerTimedOut:
		msg, err := NewMessage(MessageTypePlayerTimeout, PlayerTimeoutData{
			RoomID:   e.RoomID,
			PlayerID: e.PlayerID,
			Action:   e.Action.String(),
		}, s.clock.Now())
		if err != nil {
			s.logger.Error("Failed to create timeout message", "error", err)
			return
		}
		s.broadcastToRoom(e.RoomID, func(*Connection) *Message { return msg })
	}
}

func (s *Server) broadcastState(e room.StateChanged) {
	now := s.clock.Now()
	s.broadcastToRoom(e.Snapshot.RoomID, func(conn *Connection) *Message {
		msg, err := NewMessage(MessageTypeGameState, e.Snapshot.ForViewer(conn.PlayerID()), now)
		if err != nil {
			s.logger.Error("Failed to create state message", "error", err)
			return nil
		}
		return msg
	})
}

// broadcastToRoom sends a message built per connection to everyone in the room.
func (s *Server) broadcastToRoom(roomID string, build func(*Connection) *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.RoomID() != roomID {
			continue
		}
		msg := build(conn)
		if msg == nil {
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send message to client", "error", err, "player", conn.PlayerID())
			continue
		}
		count++
	}
	s.logger.Debug("Broadcast to room", "room", roomID, "recipients", count)
}
