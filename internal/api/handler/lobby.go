package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/scrimqueue/draftlobby/internal/api/middleware"
	"github.com/scrimqueue/draftlobby/internal/api/request"
	"github.com/scrimqueue/draftlobby/internal/api/response"
	"github.com/scrimqueue/draftlobby/internal/model"
	lobbysvc "github.com/scrimqueue/draftlobby/internal/services/lobby"
)

// LobbyHandler handles lobby-related endpoints
type LobbyHandler struct {
	lobbies *lobbysvc.Service
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobbies *lobbysvc.Service) *LobbyHandler {
	return &LobbyHandler{
		lobbies: lobbies,
	}
}

func lobbyCode(r *http.Request) model.LobbyCode {
	return model.LobbyCode(mux.Vars(r)["code"])
}

// Create handles POST /api/v1/lobbies
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for a default private lobby
		req = request.CreateLobbyRequest{}
	}

	lobby, err := h.lobbies.Create(r.Context(), player.ID, player.DisplayName, player.AvatarURL, req.Public, req.Capacity)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LobbyFromModel(lobby))
}

// List handles GET /api/v1/lobbies
func (h *LobbyHandler) List(w http.ResponseWriter, r *http.Request) {
	lobbies := h.lobbies.ListPublic(r.Context())

	summaries := make([]response.LobbySummary, len(lobbies))
	for i, l := range lobbies {
		summaries[i] = response.LobbySummaryFromModel(l)
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/v1/lobbies/{code}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	lobby, err := h.lobbies.Get(r.Context(), lobbyCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// Join handles POST /api/v1/lobbies/{code}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	lobby, err := h.lobbies.Join(r.Context(), lobbyCode(r), player.ID, player.DisplayName, player.AvatarURL)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// Leave handles POST /api/v1/lobbies/{code}/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.lobbies.Leave(r.Context(), lobbyCode(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Kick handles POST /api/v1/lobbies/{code}/kick
func (h *LobbyHandler) Kick(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.KickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.lobbies.Kick(r.Context(), lobbyCode(r), player.ID, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Close handles DELETE /api/v1/lobbies/{code}
func (h *LobbyHandler) Close(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.lobbies.Close(r.Context(), lobbyCode(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Start handles POST /api/v1/lobbies/{code}/start
func (h *LobbyHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	lobby, err := h.lobbies.StartCaptainSelect(r.Context(), lobbyCode(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// SelectCaptain handles POST /api/v1/lobbies/{code}/captains
func (h *LobbyHandler) SelectCaptain(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SelectCaptainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	lobby, err := h.lobbies.SelectCaptain(r.Context(), lobbyCode(r), player.ID, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// RemoveCaptain handles DELETE /api/v1/lobbies/{code}/captains/{player_id}
func (h *LobbyHandler) RemoveCaptain(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	targetID := model.PlayerID(mux.Vars(r)["player_id"])

	lobby, err := h.lobbies.RemoveCaptain(r.Context(), lobbyCode(r), player.ID, targetID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// DraftPick handles POST /api/v1/lobbies/{code}/picks
func (h *LobbyHandler) DraftPick(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.DraftPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	lobby, err := h.lobbies.DraftPick(r.Context(), lobbyCode(r), player.ID, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// AddScore handles POST /api/v1/lobbies/{code}/score
func (h *LobbyHandler) AddScore(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	lobby, err := h.lobbies.AddScore(r.Context(), lobbyCode(r), player.ID, model.TeamID(req.Team))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// DeclareWinner handles POST /api/v1/lobbies/{code}/winner
func (h *LobbyHandler) DeclareWinner(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.DeclareWinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	lobby, err := h.lobbies.DeclareWinner(r.Context(), lobbyCode(r), player.ID, model.TeamID(req.Team))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// DeclareDraw handles POST /api/v1/lobbies/{code}/draw
func (h *LobbyHandler) DeclareDraw(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	lobby, err := h.lobbies.DeclareDraw(r.Context(), lobbyCode(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// Reset handles POST /api/v1/lobbies/{code}/reset
func (h *LobbyHandler) Reset(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	lobby, err := h.lobbies.Reset(r.Context(), lobbyCode(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}
