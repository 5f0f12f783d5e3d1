package player

import (
	"context"
	"errors"

	"github.com/scrimqueue/draftlobby/internal/dependencies/clock"
	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/rating"
	"github.com/scrimqueue/draftlobby/internal/storage"
)

// Service handles player profiles, stats, and history reads
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	startingRating int
}

// New creates a new player Service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage:        storage,
		clock:          clock,
		startingRating: rating.DefaultSettings().StartingRating,
	}
}

// Get returns a player by ID
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// GetOrCreate fetches the player with the given ID, creating a fresh
// profile at the starting rating if none exists. Display name and avatar
// are refreshed on every call so lobby rosters always show current
// identity data.
func (s *Service) GetOrCreate(ctx context.Context, id model.PlayerID, displayName, avatarURL string) (*model.Player, error) {
	p, err := s.storage.GetPlayer(ctx, id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		now := s.clock.Now()
		p = &model.Player{
			ID:          id,
			DisplayName: displayName,
			AvatarURL:   avatarURL,
			Rating:      s.startingRating,
			IsGuest:     true,
			// The rolling purge immunity window starts consumed, so new
			// profiles are eliminable in their first overflow purge
			LastFreeImmunity: now,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.storage.SavePlayer(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	if displayName != "" && displayName != p.DisplayName || avatarURL != "" && avatarURL != p.AvatarURL {
		if displayName != "" {
			p.DisplayName = displayName
		}
		if avatarURL != "" {
			p.AvatarURL = avatarURL
		}
		p.UpdatedAt = s.clock.Now()
		if err := s.storage.SavePlayer(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// AccrueStats adds a post-match stat block to a player's lifetime totals
// under the given class
func (s *Service) AccrueStats(ctx context.Context, id model.PlayerID, class model.Class, stats model.ClassStats) (*model.Player, error) {
	if !model.ValidClass(class) {
		return nil, model.ErrInvalidClass
	}

	p, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	p.AccrueStats(class, stats)
	p.UpdatedAt = s.clock.Now()
	if err := s.storage.SavePlayer(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Leaderboard returns the top players by rating, restricted to those with
// at least minGames rated games
func (s *Service) Leaderboard(ctx context.Context, limit, minGames int) ([]*model.Player, error) {
	return s.storage.Leaderboard(ctx, limit, minGames)
}

// History returns the most recent matches a player took part in
func (s *Service) History(ctx context.Context, id model.PlayerID, limit int) ([]*model.MatchRecord, error) {
	if _, err := s.storage.GetPlayer(ctx, id); err != nil {
		return nil, err
	}
	return s.storage.MatchesInvolving(ctx, id, limit)
}

// RecentMatches returns the most recently recorded matches across all lobbies
func (s *Service) RecentMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	return s.storage.RecentMatches(ctx, limit)
}

// CurrentLobby returns the code of the lobby the player is currently in,
// or ErrSessionNotFound if they are not in one
func (s *Service) CurrentLobby(ctx context.Context, id model.PlayerID) (model.LobbyCode, error) {
	return s.storage.GetSession(ctx, id)
}
