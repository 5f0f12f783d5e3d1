package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/scrimqueue/draftlobby/internal/api/middleware"
	"github.com/scrimqueue/draftlobby/internal/api/request"
	"github.com/scrimqueue/draftlobby/internal/api/response"
	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/services/auth"
	playersvc "github.com/scrimqueue/draftlobby/internal/services/player"
)

const (
	defaultLeaderboardLimit = 20
	defaultMatchesLimit     = 10
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService *auth.Service
	players     *playersvc.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, players *playersvc.Service) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
		players:     players,
	}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), req.DisplayName, req.AvatarURL)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	me := middleware.MustGetPlayer(r.Context())

	// Re-read so the response reflects rating changes since login
	player, err := h.players.Get(r.Context(), me.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// GetMyStats handles GET /api/v1/players/me/stats
func (h *PlayerHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	me := middleware.MustGetPlayer(r.Context())

	player, err := h.players.Get(r.Context(), me.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	stats := response.PlayerStatsFromModel(player.Stats)
	if stats == nil {
		stats = &response.PlayerStats{}
	}
	response.JSON(w, http.StatusOK, stats)
}

// AccrueStats handles POST /api/v1/players/me/stats
func (h *PlayerHandler) AccrueStats(w http.ResponseWriter, r *http.Request) {
	me := middleware.MustGetPlayer(r.Context())

	var req request.AccrueStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Class == "" {
		WriteError(w, NewInvalidRequestError("class is required"))
		return
	}

	stats := model.ClassStats{
		Kills:   req.Kills,
		Deaths:  req.Deaths,
		Assists: req.Assists,
		Damage:  req.Damage,
		Healing: req.Healing,
	}

	player, err := h.players.AccrueStats(r.Context(), me.ID, model.Class(req.Class), stats)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromModel(player.Stats))
}

// GetPlayer handles GET /api/v1/players/{id}
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.players.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// GetPlayerMatches handles GET /api/v1/players/{id}/matches
func (h *PlayerHandler) GetPlayerMatches(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])
	limit := queryInt(r, "limit", defaultMatchesLimit)

	matches, err := h.players.History(r.Context(), id, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	result := make([]response.Match, len(matches))
	for i, m := range matches {
		result[i] = response.MatchFromModel(m)
	}
	response.JSON(w, http.StatusOK, result)
}

// GetRecentMatches handles GET /api/v1/matches
func (h *PlayerHandler) GetRecentMatches(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultMatchesLimit)

	matches, err := h.players.RecentMatches(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	result := make([]response.Match, len(matches))
	for i, m := range matches {
		result[i] = response.MatchFromModel(m)
	}
	response.JSON(w, http.StatusOK, result)
}

// GetLeaderboard handles GET /api/v1/leaderboard
func (h *PlayerHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultLeaderboardLimit)
	minGames := queryInt(r, "min_games", 0)

	players, err := h.players.Leaderboard(r.Context(), limit, minGames)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(players))
}

// GetSession handles GET /api/v1/session
func (h *PlayerHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	me := middleware.MustGetPlayer(r.Context())

	code, err := h.players.CurrentLobby(r.Context(), me.ID)
	if err != nil && !errors.Is(err, model.ErrSessionNotFound) {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionInfo{LobbyCode: string(code)})
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
