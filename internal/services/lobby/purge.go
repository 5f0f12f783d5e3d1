package lobby

import (
	"context"
	"log/slog"

	"github.com/scrimqueue/draftlobby/internal/model"
)

// purgePlan is the outcome of purge victim selection: who survives by
// consuming an immunity, and who will be eliminated
type purgePlan struct {
	victims []model.RosterMember
	immune  []model.RosterMember
}

// planPurge selects roster-size minus capacity non-host players
// uniformly at random for elimination, consuming immunities as it goes.
// A player holding the single-use immunity (granted by a previous
// elimination) or an available rolling-window immunity survives and the
// immunity is spent, single-use first. If too few eliminable players
// exist, the plan eliminates as many as available. Immunity consumption
// persists immediately so a crash cannot grant it twice.
func (s *Service) planPurge(ctx context.Context, l *model.Lobby) *purgePlan {
	excess := len(l.Roster) - l.Capacity
	now := s.clock.Now()

	candidates := make([]model.RosterMember, 0, len(l.Roster)-1)
	for _, m := range l.Roster {
		if m.PlayerID != l.HostID {
			candidates = append(candidates, m)
		}
	}
	for i := len(candidates) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	plan := &purgePlan{}
	for _, m := range candidates {
		if len(plan.victims) == excess {
			break
		}

		p, err := s.storage.GetPlayer(ctx, m.PlayerID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load player for purge",
				slog.String("lobby", string(l.Code)),
				slog.String("player_id", string(m.PlayerID)),
				slog.Any("error", err))
			plan.victims = append(plan.victims, m)
			continue
		}

		switch {
		case p.PurgeImmune:
			p.PurgeImmune = false
			p.UpdatedAt = now
			s.savePlayer(ctx, l.Code, p)
			plan.immune = append(plan.immune, m)

		case now.Sub(p.LastFreeImmunity) >= s.rules.ImmunityWindow:
			p.LastFreeImmunity = now
			p.UpdatedAt = now
			s.savePlayer(ctx, l.Code, p)
			plan.immune = append(plan.immune, m)

		default:
			plan.victims = append(plan.victims, m)
		}
	}

	s.logger.InfoContext(ctx, "purge planned",
		slog.String("lobby", string(l.Code)),
		slog.Int("excess", excess),
		slog.Int("eliminated", len(plan.victims)),
		slog.Int("immune", len(plan.immune)))
	return plan
}

// announceNextElimination is the staged purge announcement task. It
// no-ops if the lobby is gone or has left the purging phase. Announcing
// the last pending victim moves the lobby to captain selection.
func (s *Service) announceNextElimination(code model.LobbyCode) {
	ctx := context.Background()

	var victim *model.RosterMember
	var snapshot *model.Lobby
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if l.Phase != model.PhasePurging || l.Purge == nil || len(l.Purge.Pending) == 0 {
			return nil
		}

		id := l.Purge.Pending[0]
		l.Purge.Pending = l.Purge.Pending[1:]
		l.Purge.Eliminated = append(l.Purge.Eliminated, id)

		if m := l.GetMember(id); m != nil {
			v := *m
			victim = &v
			l.RemoveMember(id)
		}

		if len(l.Purge.Pending) == 0 {
			l.Phase = model.PhaseCaptainSelect
			l.Purge = nil
		}
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil || snapshot == nil {
		return
	}

	if victim != nil {
		// Elimination grants the single-use immunity for their next lobby
		if p, err := s.storage.GetPlayer(ctx, victim.PlayerID); err == nil {
			p.PurgeImmune = true
			p.UpdatedAt = s.clock.Now()
			s.savePlayer(ctx, code, p)
		}
		if err := s.storage.ClearSession(ctx, victim.PlayerID); err != nil {
			s.logger.ErrorContext(ctx, "failed to clear purged session",
				slog.String("lobby", string(code)),
				slog.Any("error", err))
		}
		s.broadcaster.PurgeEliminated(code, *victim)
	}

	s.broadcaster.LobbyUpdated(snapshot)
}

func (s *Service) savePlayer(ctx context.Context, code model.LobbyCode, p *model.Player) {
	if err := s.storage.SavePlayer(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to save player",
			slog.String("lobby", string(code)),
			slog.String("player_id", string(p.ID)),
			slog.Any("error", err))
	}
}
