package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lox/fairholdem/internal/deck"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Post("/verify", s.handleVerify)
	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", s.handleListRooms)
		r.Get("/{roomID}", s.handleGetRoom)
		r.Get("/{roomID}/seed", s.handleRevealSeed)
		r.Get("/{roomID}/commitments", s.handleCommitments)
	})
	return r
}

// VerifyRequest asks whether a seed matches a commitment.
type VerifyRequest struct {
	Seed     string `json:"seed"`
	SeedHash string `json:"seed_hash"`
}

// VerifyResponse carries the verdict and, when valid, the card order the
// seed produces.
type VerifyResponse struct {
	Valid bool        `json:"valid"`
	Deck  []deck.Card `json:"deck,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rooms": s.rooms.Len()})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.rooms.List())
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := s.rooms.Get(chi.URLParam(r, "roomID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Spectator view: no hole cards until showdown.
	s.writeJSON(w, http.StatusOK, rm.Snapshot().ForViewer(""))
}

func (s *Server) handleRevealSeed(w http.ResponseWriter, r *http.Request) {
	rm, err := s.rooms.Get(chi.URLParam(r, "roomID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	rev, err := rm.RevealSeed()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SeedRevealedData{
		RoomID:   rm.ID(),
		HandID:   rev.HandID,
		Seed:     rev.Seed,
		SeedHash: rev.Commitment,
	})
}

func (s *Server) handleCommitments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeJSON(w, http.StatusBadRequest, ErrorData{Code: "invalid_limit", Message: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	entries, err := s.rooms.Commitments(r.Context(), chi.URLParam(r, "roomID"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorData{Code: "invalid_message", Message: "body must be {seed, seed_hash}"})
		return
	}

	resp := VerifyResponse{Valid: deck.VerifyCommitment(req.Seed, req.SeedHash)}
	if resp.Valid {
		resp.Deck = deck.ShuffleSeed(req.Seed)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, ErrorData{Code: errorCode(err), Message: err.Error()})
}
