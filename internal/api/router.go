/*
Package api
File: router.go
Description:
    HTTP routing and middleware (CORS, player identity).
*/

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/everforgeworks/galaxies-countdown/internal/requestctx"
)

// PlayerHeader names the calling player.
const PlayerHeader = "X-Player"

// NewRouter registers every route on a gorilla/mux router.
func NewRouter(s *Server) http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware, playerMiddleware)

	r.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)

	// Catalog Endpoints
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", s.HandleListGames).Methods(http.MethodGet)
	api.HandleFunc("/games", s.HandleCreateGame).Methods(http.MethodPost)
	api.HandleFunc("/games/top", s.HandleTopScores).Methods(http.MethodGet)
	api.HandleFunc("/games/{gameID}", s.HandleGetGame).Methods(http.MethodGet)

	// Session Endpoints
	api.HandleFunc("/games/{gameID}/sessions", s.HandleStartSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}", s.HandleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID}/buy", s.HandleBuy).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}/sell", s.HandleSell).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionID}/travel", s.HandleTravel).Methods(http.MethodPost)

	// Real-Time WebSocket Endpoint
	r.HandleFunc("/ws/{sessionID}", s.HandleWebSocket).Methods(http.MethodGet)

	// Preflight requests are answered by corsMiddleware before routing matters.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	return r
}

// corsMiddleware lets browser clients on other origins talk to the server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+PlayerHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// playerMiddleware places the caller's name into the request context.
// The header wins; the query parameter serves WebSocket clients, which cannot set headers.
func playerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := strings.TrimSpace(r.Header.Get(PlayerHeader))
		if player == "" {
			player = r.URL.Query().Get("player")
		}
		r = r.WithContext(requestctx.WithPlayer(r.Context(), player))
		next.ServeHTTP(w, r)
	})
}
