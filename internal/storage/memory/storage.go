package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	sessions          map[model.PlayerID]model.LobbyCode
	matches           []*model.MatchRecord // append order, oldest first
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		sessions:          make(map[model.PlayerID]model.LobbyCode),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit, minGames int) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ranked []*model.Player
	for _, p := range s.players {
		if p.GamesPlayed >= minGames {
			ranked = append(ranked, p)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].ID < ranked[j].ID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Session operations

func (s *Storage) SetSession(ctx context.Context, id model.PlayerID, code model.LobbyCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = code
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.PlayerID) (model.LobbyCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.sessions[id]
	if !ok {
		return "", model.ErrSessionNotFound
	}
	return code, nil
}

func (s *Storage) ClearSession(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) ClearSessionsForLobby(ctx context.Context, code model.LobbyCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.sessions {
		if c == code {
			delete(s.sessions, id)
		}
	}
	return nil
}

// Match history operations

func (s *Storage) AppendMatch(ctx context.Context, record *model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, record)
	return nil
}

func (s *Storage) RecentMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.MatchRecord
	for i := len(s.matches) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		result = append(result, s.matches[i])
	}
	return result, nil
}

func (s *Storage) MatchesInvolving(ctx context.Context, id model.PlayerID, limit int) ([]*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.MatchRecord
	for i := len(s.matches) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		if s.matches[i].Involves(id) {
			result = append(result, s.matches[i])
		}
	}
	return result, nil
}
