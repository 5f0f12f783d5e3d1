package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/scrimqueue/draftlobby/internal/api/handler"
	"github.com/scrimqueue/draftlobby/internal/api/middleware"
	"github.com/scrimqueue/draftlobby/internal/services/auth"
	lobbysvc "github.com/scrimqueue/draftlobby/internal/services/lobby"
	playersvc "github.com/scrimqueue/draftlobby/internal/services/player"
	"github.com/scrimqueue/draftlobby/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	PlayerService *playersvc.Service
	LobbyService  *lobbysvc.Service
	HubManager    *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.PlayerService)
	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyService)
	eventsHandler := handler.NewEventsHandler(cfg.LobbyService, cfg.HubManager)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me/stats", playerHandler.GetMyStats).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me/stats", playerHandler.AccrueStats).Methods(http.MethodPost)
	playerProtected.HandleFunc("/{id}", playerHandler.GetPlayer).Methods(http.MethodGet)
	playerProtected.HandleFunc("/{id}/matches", playerHandler.GetPlayerMatches).Methods(http.MethodGet)

	// Leaderboard and match history (auth, not lobby-scoped)
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/leaderboard", playerHandler.GetLeaderboard).Methods(http.MethodGet)
	protected.HandleFunc("/matches", playerHandler.GetRecentMatches).Methods(http.MethodGet)
	protected.HandleFunc("/session", playerHandler.GetSession).Methods(http.MethodGet)
	protected.HandleFunc("/events/lobby-list", eventsHandler.LobbyListEvents).Methods(http.MethodGet)

	// Lobby routes (all require auth)
	lobbies := api.PathPrefix("/lobbies").Subrouter()
	lobbies.Use(authMiddleware)
	lobbies.HandleFunc("", lobbyHandler.Create).Methods(http.MethodPost)
	lobbies.HandleFunc("", lobbyHandler.List).Methods(http.MethodGet)
	lobbies.HandleFunc("/{code}", lobbyHandler.Get).Methods(http.MethodGet)
	lobbies.HandleFunc("/{code}", lobbyHandler.Close).Methods(http.MethodDelete)
	lobbies.HandleFunc("/{code}/join", lobbyHandler.Join).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/leave", lobbyHandler.Leave).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/kick", lobbyHandler.Kick).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/start", lobbyHandler.Start).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/captains", lobbyHandler.SelectCaptain).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/captains/{player_id}", lobbyHandler.RemoveCaptain).Methods(http.MethodDelete)
	lobbies.HandleFunc("/{code}/picks", lobbyHandler.DraftPick).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/score", lobbyHandler.AddScore).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/winner", lobbyHandler.DeclareWinner).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/draw", lobbyHandler.DeclareDraw).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/reset", lobbyHandler.Reset).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/events", eventsHandler.LobbyEvents).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
