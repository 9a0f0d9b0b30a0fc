/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions decode JSON requests, validate them, hand the work to the
    game catalog or to a running session, and return JSON responses.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the definition pass validation?)
    - State Modification (Trades and travel are queued on the session goroutine)
    - Error Mapping (Game error codes become HTTP statuses)
*/

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/everforgeworks/galaxies-countdown/internal/game"
	"github.com/everforgeworks/galaxies-countdown/internal/requestctx"
	"github.com/everforgeworks/galaxies-countdown/internal/storage/sqlite"
)

// maxUpload bounds an uploaded game definition.
const maxUpload = 1 << 20

// topScoreLimit is the size of the leaderboard.
const topScoreLimit = 5

// Catalog stores game definitions and the leaderboard.
type Catalog interface {
	CreateGame(ctx context.Context, name string, definition []byte) (string, error)
	GetGame(ctx context.Context, id string) (sqlite.GameRecord, error)
	ListGames(ctx context.Context) ([]sqlite.GameSummary, error)
	TopScores(ctx context.Context, limit int) ([]sqlite.TopScore, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	catalog  Catalog
	sessions *Registry
}

// NewServer wires the handlers to a catalog and a session registry.
func NewServer(catalog Catalog, sessions *Registry) *Server {
	return &Server{catalog: catalog, sessions: sessions}
}

// Request DTOs (Data Transfer Objects)
// These structs define exactly what we expect the client to send us.

type TradeRequest struct {
	Ship string `json:"ship"`
	Item string `json:"item"`
}

type TravelRequest struct {
	Ship   string `json:"ship"`
	Planet string `json:"planet"`
}

// Response DTOs

type TradeResponse struct {
	Price int           `json:"price"`
	State game.Snapshot `json:"state"`
}

type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type ValidationResponse struct {
	Errors []string `json:"errors"`
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// HandleListGames returns the game catalog.
func (s *Server) HandleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.catalog.ListGames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// HandleTopScores returns the best scores across all games.
func (s *Server) HandleTopScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.catalog.TopScores(r.Context(), topScoreLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleCreateGame validates an uploaded definition and adds it to the catalog.
// Accepts a multipart form (field "name", file "state") or a raw YAML/JSON body with ?name=.
func (s *Server) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ValidationResponse{Errors: []string{err.Error()}})
		return
	}

	if _, err := game.ParseDefinition(data); err != nil {
		var gameErr *game.Error
		problems := []string{err.Error()}
		if errors.As(err, &gameErr) && len(gameErr.Problems) > 0 {
			problems = gameErr.Problems
		}
		writeJSON(w, http.StatusBadRequest, ValidationResponse{Errors: problems})
		return
	}

	id, err := s.catalog.CreateGame(r.Context(), name, data)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Catalog: stored game %s (%s)", id, name)
	writeJSON(w, http.StatusCreated, map[string]string{"uuid": id})
}

// HandleGetGame returns a stored definition as JSON.
func (s *Server) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	def, err := s.loadDefinition(r.Context(), mux.Vars(r)["gameID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// HandleStartSession starts a new game of the requested definition for the calling player.
func (s *Server) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	player, err := requestctx.RequirePlayer(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	gameID := mux.Vars(r)["gameID"]
	def, err := s.loadDefinition(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	live, err := s.sessions.Start(gameID, player, def)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("Session %s: started game %s for %s", live.ID, gameID, player)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": live.ID})
}

// HandleGetSession returns the current (or final) state of a session.
func (s *Server) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	live, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	snap, err := live.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleBuy buys one unit of an item with a ship.
func (s *Server) HandleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, (*game.Game).BuyItem)
}

// HandleSell sells one unit of an item from a ship.
func (s *Server) HandleSell(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, (*game.Game).SellItem)
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, trade func(*game.Game, string, string) (int, error)) {
	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Bad Request"})
		return
	}
	live, ok := s.lookupOwnSession(w, r)
	if !ok {
		return
	}

	var resp TradeResponse
	err := live.Do(r.Context(), func(g *game.Game) error {
		price, err := trade(g, req.Ship, req.Item)
		if err != nil {
			return err
		}
		resp = TradeResponse{Price: price, State: g.Snapshot()}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTravel sends a ship to another planet.
func (s *Server) HandleTravel(w http.ResponseWriter, r *http.Request) {
	var req TravelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid Request"})
		return
	}
	live, ok := s.lookupOwnSession(w, r)
	if !ok {
		return
	}

	var snap game.Snapshot
	err := live.Do(r.Context(), func(g *game.Game) error {
		if err := g.Travel(req.Ship, req.Planet); err != nil {
			return err
		}
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleWebSocket subscribes the connection to the session's notifications.
// The first message is the full state.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	live, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	// Attach before the snapshot: later notifications queue up behind the
	// greeting instead of falling between the two.
	client := live.Hub.Attach()
	snap, err := live.Snapshot(r.Context())
	if err != nil {
		client.Detach()
		writeError(w, err)
		return
	}
	greeting, err := encodeMessage(TypeState, snap, live.ID)
	if err != nil {
		client.Detach()
		writeError(w, err)
		return
	}
	live.Hub.ServeWs(w, r, client, greeting)
}

func (s *Server) loadDefinition(ctx context.Context, gameID string) (*game.Definition, error) {
	rec, err := s.catalog.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.ParseDefinition(rec.Definition)
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*LiveSession, bool) {
	live, ok := s.sessions.Get(mux.Vars(r)["sessionID"])
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return nil, false
	}
	return live, true
}

// lookupOwnSession additionally requires the caller to be the session's player.
func (s *Server) lookupOwnSession(w http.ResponseWriter, r *http.Request) (*LiveSession, bool) {
	live, ok := s.lookupSession(w, r)
	if !ok {
		return nil, false
	}
	player, err := requestctx.RequirePlayer(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	if player != live.Player {
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "Session belongs to another player"})
		return nil, false
	}
	return live, true
}

// readUpload extracts the game name and definition bytes from either upload form.
func readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return "", nil, fmt.Errorf("parse form: %w", err)
		}
		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			return "", nil, errors.New("name is required")
		}
		file, _, err := r.FormFile("state")
		if err != nil {
			return "", nil, errors.New("state file is required")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("read state file: %w", err)
		}
		return name, data, nil
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		return "", nil, errors.New("name is required")
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return "", nil, errors.New("definition body is required")
	}
	return name, data, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("HTTP: encode response: %v", err)
	}
}

// writeError maps game and storage errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, sqlite.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Game not found"})
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	code := game.CodeOf(err)
	if code == "" {
		log.Printf("HTTP: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, statusFor(code), ErrorResponse{Code: string(code), Error: err.Error()})
}

func statusFor(code game.Code) int {
	switch code {
	case game.CodeNoSuchItem, game.CodeNoSuchPlanet, game.CodeNoSuchShip:
		return http.StatusNotFound
	case game.CodeGameOver:
		return http.StatusGone
	case game.CodeInvalidDefinition:
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}
