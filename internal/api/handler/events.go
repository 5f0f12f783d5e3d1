package handler

import (
	"net/http"

	"github.com/scrimqueue/draftlobby/internal/api/middleware"
	"github.com/scrimqueue/draftlobby/internal/sse"
	lobbysvc "github.com/scrimqueue/draftlobby/internal/services/lobby"
)

// EventsHandler handles SSE subscription endpoints
type EventsHandler struct {
	lobbies    *lobbysvc.Service
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(lobbies *lobbysvc.Service, hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		lobbies:    lobbies,
		hubManager: hubManager,
	}
}

// LobbyEvents handles GET /api/v1/lobbies/{code}/events
func (h *EventsHandler) LobbyEvents(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := lobbyCode(r)

	lobby, err := h.lobbies.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(lobby.Code)
	sse.ServeSSE(w, r, hub, player.ID)
}

// LobbyListEvents handles GET /api/v1/events/lobby-list
func (h *EventsHandler) LobbyListEvents(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	sse.ServeSSE(w, r, h.hubManager.ListHub(), player.ID)
}
