package lobby

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scrimqueue/draftlobby/internal/dependencies/clock"
	"github.com/scrimqueue/draftlobby/internal/dependencies/random"
	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/notify"
	"github.com/scrimqueue/draftlobby/internal/registry"
	playersvc "github.com/scrimqueue/draftlobby/internal/services/player"
	"github.com/scrimqueue/draftlobby/internal/storage"
)

// Broadcaster publishes committed lobby transitions to realtime
// subscribers. Implementations must not block: broadcasts happen after
// the per-lobby lock is released but on the command path.
type Broadcaster interface {
	LobbyUpdated(lobby *model.Lobby)
	LobbyRemoved(code model.LobbyCode)
	PurgeEliminated(code model.LobbyCode, member model.RosterMember)
	PurgeImmunity(code model.LobbyCode, member model.RosterMember)
	MatchFinished(code model.LobbyCode, match *model.MatchRecord)
	LobbyListChanged(lobbies []*model.Lobby)
}

// Service is the lobby state machine. Every mutating command validates
// fully against the current lobby state before applying, under the
// registry's per-lobby lock; rejected commands never leave the lobby
// partially mutated.
type Service struct {
	registry    *registry.Registry
	storage     storage.Storage
	players     *playersvc.Service
	notifier    notify.Notifier
	broadcaster Broadcaster
	clock       clock.Clock
	random      random.Random
	rules       Rules
	logger      *slog.Logger
}

// New creates a new lobby Service
func New(
	reg *registry.Registry,
	store storage.Storage,
	players *playersvc.Service,
	notifier notify.Notifier,
	broadcaster Broadcaster,
	clk clock.Clock,
	rnd random.Random,
	rules Rules,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry:    reg,
		storage:     store,
		players:     players,
		notifier:    notifier,
		broadcaster: broadcaster,
		clock:       clk,
		random:      rnd,
		rules:       rules,
		logger:      logger.With(slog.String("component", "lobby")),
	}
}

// Get returns a snapshot of the lobby
func (s *Service) Get(ctx context.Context, code model.LobbyCode) (*model.Lobby, error) {
	return s.registry.Get(code)
}

// ListPublic returns public lobbies currently gathering players,
// newest first
func (s *Service) ListPublic(ctx context.Context) []*model.Lobby {
	return s.registry.ListPublicWaiting()
}

// Create makes a new lobby with the issuer as host and sole roster
// member. A zero capacity uses the default; otherwise capacity must be
// an even number of at least MinRosterToStart.
func (s *Service) Create(ctx context.Context, hostID model.PlayerID, displayName, avatarURL string, public bool, capacity int) (*model.Lobby, error) {
	if capacity == 0 {
		capacity = s.rules.DefaultCapacity
	}
	if capacity < s.rules.MinRosterToStart || capacity%2 != 0 {
		return nil, model.ErrInvalidCapacity
	}

	if _, err := s.storage.GetSession(ctx, hostID); err == nil {
		return nil, model.ErrAlreadyInLobby
	} else if !errors.Is(err, model.ErrSessionNotFound) {
		return nil, err
	}

	host, err := s.players.GetOrCreate(ctx, hostID, displayName, avatarURL)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	created := s.registry.Create(func(code model.LobbyCode) *model.Lobby {
		return &model.Lobby{
			Code:     code,
			HostID:   hostID,
			Public:   public,
			Capacity: capacity,
			Phase:    model.PhaseWaiting,
			Roster: []model.RosterMember{{
				PlayerID:    hostID,
				DisplayName: host.DisplayName,
				AvatarURL:   host.AvatarURL,
				Rating:      host.Rating,
				JoinedAt:    now,
			}},
			Teams:     map[model.TeamID][]model.PlayerID{},
			Score:     map[model.TeamID]int{model.Team1: 0, model.Team2: 0},
			CreatedAt: now,
			UpdatedAt: now,
		}
	})

	if err := s.storage.SetSession(ctx, hostID, created.Code); err != nil {
		s.logger.ErrorContext(ctx, "failed to index host session",
			slog.String("lobby", string(created.Code)),
			slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "lobby created",
		slog.String("lobby", string(created.Code)),
		slog.String("host", string(hostID)),
		slog.Int("capacity", capacity),
		slog.Bool("public", public))

	s.broadcastList()
	return created, nil
}

// Join adds the issuer to a waiting lobby's roster. Joining the lobby
// you are already in returns the current snapshot unchanged.
func (s *Service) Join(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, displayName, avatarURL string) (*model.Lobby, error) {
	code = registry.NormalizeCode(code)

	if existing, err := s.storage.GetSession(ctx, playerID); err == nil {
		if existing == code {
			return s.registry.Get(code)
		}
		return nil, model.ErrAlreadyInLobby
	} else if !errors.Is(err, model.ErrSessionNotFound) {
		return nil, err
	}

	player, err := s.players.GetOrCreate(ctx, playerID, displayName, avatarURL)
	if err != nil {
		return nil, err
	}

	var snapshot *model.Lobby
	err = s.registry.WithLobby(code, func(l *model.Lobby) error {
		if l.Phase != model.PhaseWaiting {
			return model.ErrWrongPhase
		}
		l.Roster = append(l.Roster, model.RosterMember{
			PlayerID:    playerID,
			DisplayName: player.DisplayName,
			AvatarURL:   player.AvatarURL,
			Rating:      player.Rating,
			JoinedAt:    s.clock.Now(),
		})
		l.UpdatedAt = s.clock.Now()

		// Written under the lobby lock: a concurrent teardown's session
		// sweep cannot run between the roster commit and the index write
		if err := s.storage.SetSession(ctx, playerID, code); err != nil {
			s.logger.ErrorContext(ctx, "failed to index session",
				slog.String("lobby", string(code)),
				slog.Any("error", err))
		}

		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcaster.LobbyUpdated(snapshot)
	s.broadcastList()
	return snapshot, nil
}

// Leave removes the issuer from a waiting lobby. The host leaving
// destroys the lobby for everyone.
func (s *Service) Leave(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) error {
	code = registry.NormalizeCode(code)

	var snapshot *model.Lobby
	hostLeft := false
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if l.Phase != model.PhaseWaiting {
			return model.ErrWrongPhase
		}
		if l.GetMember(playerID) == nil {
			return model.ErrNotInLobby
		}
		if playerID == l.HostID {
			hostLeft = true
			return nil
		}
		l.RemoveMember(playerID)
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return err
	}

	if hostLeft {
		s.teardown(ctx, code, "host left")
		return nil
	}

	if err := s.storage.ClearSession(ctx, playerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear session",
			slog.String("lobby", string(code)),
			slog.Any("error", err))
	}

	s.broadcaster.LobbyUpdated(snapshot)
	s.broadcastList()
	return nil
}

// Kick removes another roster member from a waiting lobby. Host only;
// the host cannot kick themself.
func (s *Service) Kick(ctx context.Context, code model.LobbyCode, hostID, targetID model.PlayerID) error {
	code = registry.NormalizeCode(code)

	var snapshot *model.Lobby
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if hostID != l.HostID {
			return model.ErrNotHost
		}
		if l.Phase != model.PhaseWaiting {
			return model.ErrWrongPhase
		}
		if targetID == l.HostID {
			return model.ErrCannotKickHost
		}
		if !l.RemoveMember(targetID) {
			return model.ErrNotInLobby
		}
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.storage.ClearSession(ctx, targetID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear session",
			slog.String("lobby", string(code)),
			slog.Any("error", err))
	}

	s.broadcaster.LobbyUpdated(snapshot)
	s.broadcastList()
	return nil
}

// Close destroys the lobby outright. Host only, valid in any phase.
func (s *Service) Close(ctx context.Context, code model.LobbyCode, hostID model.PlayerID) error {
	code = registry.NormalizeCode(code)

	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if hostID != l.HostID {
			return model.ErrNotHost
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.teardown(ctx, code, "closed by host")
	return nil
}

// teardown destroys a lobby: deregisters it, cancels its scheduled
// tasks, clears every member session, and notifies subscribers
func (s *Service) teardown(ctx context.Context, code model.LobbyCode, reason string) {
	s.teardownIf(ctx, code, reason, func(*model.Lobby) bool { return true })
}

// teardownIf destroys the lobby only if pred approves, with the check
// and the deregistration atomic with respect to other commands. Returns
// whether the lobby was destroyed.
func (s *Service) teardownIf(ctx context.Context, code model.LobbyCode, reason string, pred func(l *model.Lobby) bool) bool {
	if !s.registry.DestroyIf(code, pred) {
		return false
	}

	if err := s.storage.ClearSessionsForLobby(ctx, code); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear lobby sessions",
			slog.String("lobby", string(code)),
			slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "lobby destroyed",
		slog.String("lobby", string(code)),
		slog.String("reason", reason))

	s.broadcaster.LobbyRemoved(code)
	s.broadcastList()
	return true
}

func (s *Service) broadcastList() {
	s.broadcaster.LobbyListChanged(s.registry.ListPublicWaiting())
}
