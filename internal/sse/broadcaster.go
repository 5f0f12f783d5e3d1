package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/scrimqueue/draftlobby/internal/api/response"
	"github.com/scrimqueue/draftlobby/internal/model"
)

// Broadcaster publishes lobby events to SSE subscribers as JSON payloads
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

func (b *Broadcaster) send(hub *Hub, event model.EventType, payload any) {
	if hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("sse failed to marshal event payload",
			slog.String("event", string(event)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(event, string(data))
}

// LobbyUpdated broadcasts a full lobby snapshot after a committed transition
func (b *Broadcaster) LobbyUpdated(lobby *model.Lobby) {
	hub := b.hubManager.GetHub(lobby.Code)
	if hub == nil {
		return
	}
	b.send(hub, model.EventLobbyUpdate, response.LobbyFromModel(lobby))
}

// LobbyRemoved broadcasts that a lobby no longer exists, then tears down its hub
func (b *Broadcaster) LobbyRemoved(code model.LobbyCode) {
	hub := b.hubManager.GetHub(code)
	if hub != nil {
		b.send(hub, model.EventLobbyRemoved, map[string]string{"code": string(code)})
	}
	b.hubManager.RemoveHub(code)
}

// purgeEvent is the payload for both purge outcomes
type purgeEvent struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

// PurgeEliminated announces a player removed by the purge
func (b *Broadcaster) PurgeEliminated(code model.LobbyCode, member model.RosterMember) {
	hub := b.hubManager.GetHub(code)
	b.send(hub, model.EventPurgeVictim, purgeEvent{
		PlayerID:    string(member.PlayerID),
		DisplayName: member.DisplayName,
	})
}

// PurgeImmunity announces a player who consumed immunity instead of being eliminated
func (b *Broadcaster) PurgeImmunity(code model.LobbyCode, member model.RosterMember) {
	hub := b.hubManager.GetHub(code)
	b.send(hub, model.EventPurgeImmunity, purgeEvent{
		PlayerID:    string(member.PlayerID),
		DisplayName: member.DisplayName,
	})
}

// MatchFinished broadcasts the recorded match with its rating deltas
func (b *Broadcaster) MatchFinished(code model.LobbyCode, match *model.MatchRecord) {
	hub := b.hubManager.GetHub(code)
	b.send(hub, model.EventMatchFinished, response.MatchFromModel(match))
}

// LobbyListChanged broadcasts the refreshed public lobby listing to browser subscribers
func (b *Broadcaster) LobbyListChanged(lobbies []*model.Lobby) {
	summaries := make([]response.LobbySummary, len(lobbies))
	for i, l := range lobbies {
		summaries[i] = response.LobbySummaryFromModel(l)
	}
	b.send(b.hubManager.ListHub(), model.EventLobbyList, summaries)
}
