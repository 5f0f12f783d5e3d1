package model

// EventType identifies a realtime event broadcast to lobby subscribers
type EventType string

const (
	// Per-lobby channel events
	EventLobbyUpdate   EventType = "lobby_update"   // full snapshot after a committed transition
	EventLobbyRemoved  EventType = "lobby_removed"  // lobby destroyed
	EventPurgeVictim   EventType = "purge_eliminated"
	EventPurgeImmunity EventType = "purge_immunity" // immunity consumed instead of elimination
	EventMatchFinished EventType = "match_finished"

	// Lobby-list channel events
	EventLobbyList EventType = "lobby_list" // refreshed public lobby browser listing
)
