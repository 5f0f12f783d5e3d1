package storage

import (
	"context"

	"github.com/scrimqueue/draftlobby/internal/model"
)

// Storage defines the interface for data persistence. Lobbies are not
// stored here: active lobbies live in the in-memory registry, and only
// their durable collaborators (players, sessions, match history) persist.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// Leaderboard returns players ordered by rating descending,
	// filtered to those with at least minGames games played.
	Leaderboard(ctx context.Context, limit, minGames int) ([]*model.Player, error)

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Session index operations: at most one active lobby per player
	SetSession(ctx context.Context, id model.PlayerID, code model.LobbyCode) error
	GetSession(ctx context.Context, id model.PlayerID) (model.LobbyCode, error)
	ClearSession(ctx context.Context, id model.PlayerID) error
	ClearSessionsForLobby(ctx context.Context, code model.LobbyCode) error

	// Match history operations
	AppendMatch(ctx context.Context, record *model.MatchRecord) error
	RecentMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error)
	MatchesInvolving(ctx context.Context, id model.PlayerID, limit int) ([]*model.MatchRecord, error)
}
