package lobby

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/registry"
)

// AddScore increments a team's score. Host only, during play. Reaching
// the win threshold ends the match.
func (s *Service) AddScore(ctx context.Context, code model.LobbyCode, hostID model.PlayerID, team model.TeamID) (*model.Lobby, error) {
	if !model.ValidTeam(team) {
		return nil, model.ErrInvalidTeam
	}
	return s.scoreCommand(ctx, code, hostID, func(l *model.Lobby) (model.TeamID, bool) {
		l.Score[team]++
		if l.Score[team] >= s.rules.WinThreshold {
			l.Score[team] = s.rules.WinThreshold
			return team, false
		}
		return "", false
	})
}

// DeclareWinner ends the match immediately in the given team's favour,
// setting their score to the win threshold. Host only, during play.
func (s *Service) DeclareWinner(ctx context.Context, code model.LobbyCode, hostID model.PlayerID, team model.TeamID) (*model.Lobby, error) {
	if !model.ValidTeam(team) {
		return nil, model.ErrInvalidTeam
	}
	return s.scoreCommand(ctx, code, hostID, func(l *model.Lobby) (model.TeamID, bool) {
		l.Score[team] = s.rules.WinThreshold
		l.Score[team.Opponent()] = 0
		return team, false
	})
}

// DeclareDraw ends the match with no winner and no rating change.
// Host only, during play.
func (s *Service) DeclareDraw(ctx context.Context, code model.LobbyCode, hostID model.PlayerID) (*model.Lobby, error) {
	return s.scoreCommand(ctx, code, hostID, func(l *model.Lobby) (model.TeamID, bool) {
		return "", true
	})
}

// scoreCommand runs a host-only playing-phase mutation, finishing the
// match if apply reports a winner or a draw. Commands arriving after the
// match is decided are rejected, never reprocessed.
func (s *Service) scoreCommand(ctx context.Context, code model.LobbyCode, hostID model.PlayerID, apply func(l *model.Lobby) (winner model.TeamID, isDraw bool)) (*model.Lobby, error) {
	code = registry.NormalizeCode(code)

	var snapshot *model.Lobby
	var record *model.MatchRecord
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if hostID != l.HostID {
			return model.ErrNotHost
		}
		if l.Phase == model.PhaseFinished {
			return model.ErrMatchDecided
		}
		if l.Phase != model.PhasePlaying {
			return model.ErrWrongPhase
		}

		winner, isDraw := apply(l)
		if winner != "" || isDraw {
			record = s.finishLocked(ctx, l, winner, isDraw)
		}
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if record != nil {
		s.broadcaster.MatchFinished(code, record)

		// Notification delivery is a best-effort follow-up off the
		// command path; failures never roll back the result
		notifyCtx := context.WithoutCancel(ctx)
		go func() {
			if err := s.notifier.MatchFinished(notifyCtx, record); err != nil {
				s.logger.Error("match notification failed",
					slog.String("lobby", string(code)),
					slog.String("match_id", string(record.ID)),
					slog.Any("error", err))
			}
		}()

		s.registry.Schedule(code, s.rules.FinishedGracePeriod, func() {
			s.destroyAfterGrace(code)
		})
	}

	s.broadcaster.LobbyUpdated(snapshot)
	return snapshot, nil
}

// finishLocked commits the transition to finished and writes the match
// record. For a decisive result it runs the rating update and persists
// every participant; a draw touches no player fields. Persistence
// failures are logged, not rolled back: the transition is already
// committed.
func (s *Service) finishLocked(ctx context.Context, l *model.Lobby, winner model.TeamID, isDraw bool) *model.MatchRecord {
	now := s.clock.Now()
	l.Phase = model.PhaseFinished
	l.Outcome = &model.MatchOutcome{Winner: winner, IsDraw: isDraw, DecidedAt: now}

	teams := map[model.TeamID][]model.PlayerID{
		model.Team1: append([]model.PlayerID(nil), l.Teams[model.Team1]...),
		model.Team2: append([]model.PlayerID(nil), l.Teams[model.Team2]...),
	}
	score := map[model.TeamID]int{
		model.Team1: l.Score[model.Team1],
		model.Team2: l.Score[model.Team2],
	}

	record := &model.MatchRecord{
		ID:        model.MatchID(uuid.NewString()),
		LobbyCode: l.Code,
		PlayedAt:  now,
		Teams:     teams,
		Score:     score,
		Winner:    winner,
		IsDraw:    isDraw,
	}

	if isDraw {
		record.Team1Average = s.rosterAverage(l, model.Team1)
		record.Team2Average = s.rosterAverage(l, model.Team2)
	} else {
		record.Deltas = s.applyRatings(ctx, l, record, winner)
	}

	if err := s.storage.AppendMatch(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to append match record",
			slog.String("lobby", string(l.Code)),
			slog.String("match_id", string(record.ID)),
			slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "match finished",
		slog.String("lobby", string(l.Code)),
		slog.String("match_id", string(record.ID)),
		slog.String("winner", string(winner)),
		slog.Bool("is_draw", isDraw))
	return record
}

// applyRatings loads every participant, runs the rating engine, and
// persists the new ratings and win/loss counts. Roster snapshots are
// refreshed so the finished lobby shows post-match ratings.
func (s *Service) applyRatings(ctx context.Context, l *model.Lobby, record *model.MatchRecord, winner model.TeamID) []model.RatingDelta {
	loser := winner.Opponent()
	now := s.clock.Now()

	winners := s.loadTeam(ctx, l, winner)
	losers := s.loadTeam(ctx, l, loser)

	winnerRatings := make([]int, len(winners))
	for i, p := range winners {
		winnerRatings[i] = p.Rating
	}
	loserRatings := make([]int, len(losers))
	for i, p := range losers {
		loserRatings[i] = p.Rating
	}

	result := s.rules.Rating.Update(winnerRatings, loserRatings)
	if winner == model.Team1 {
		record.Team1Average = result.Winners.Average
		record.Team2Average = result.Losers.Average
	} else {
		record.Team1Average = result.Losers.Average
		record.Team2Average = result.Winners.Average
	}

	deltas := make([]model.RatingDelta, 0, len(winners)+len(losers))
	for i, p := range winners {
		change := result.Winners.Changes[i]
		p.Rating = change.New
		p.Wins++
		p.GamesPlayed++
		p.UpdatedAt = now
		s.savePlayer(ctx, l.Code, p)
		s.refreshRosterRating(l, p.ID, change.New)
		deltas = append(deltas, model.RatingDelta{
			PlayerID: p.ID, Old: change.Old, New: change.New, Change: change.Change,
		})
	}
	for i, p := range losers {
		change := result.Losers.Changes[i]
		p.Rating = change.New
		p.Losses++
		p.GamesPlayed++
		p.UpdatedAt = now
		s.savePlayer(ctx, l.Code, p)
		s.refreshRosterRating(l, p.ID, change.New)
		deltas = append(deltas, model.RatingDelta{
			PlayerID: p.ID, Old: change.Old, New: change.New, Change: change.Change,
		})
	}
	return deltas
}

// loadTeam fetches the stored player record for each team member.
// A member whose record cannot be loaded falls back to their roster
// snapshot so the rating update still covers the whole team.
func (s *Service) loadTeam(ctx context.Context, l *model.Lobby, team model.TeamID) []*model.Player {
	players := make([]*model.Player, 0, len(l.Teams[team]))
	for _, id := range l.Teams[team] {
		p, err := s.storage.GetPlayer(ctx, id)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load player for rating update",
				slog.String("lobby", string(l.Code)),
				slog.String("player_id", string(id)),
				slog.Any("error", err))
			m := l.GetMember(id)
			p = &model.Player{ID: id, Rating: s.rules.Rating.StartingRating}
			if m != nil {
				p.DisplayName = m.DisplayName
				p.Rating = m.Rating
			}
		}
		players = append(players, p)
	}
	return players
}

func (s *Service) refreshRosterRating(l *model.Lobby, id model.PlayerID, rating int) {
	if m := l.GetMember(id); m != nil {
		m.Rating = rating
	}
}

func (s *Service) rosterAverage(l *model.Lobby, team model.TeamID) int {
	members := l.Teams[team]
	if len(members) == 0 {
		return s.rules.Rating.StartingRating
	}
	sum := 0
	for _, id := range members {
		if m := l.GetMember(id); m != nil {
			sum += m.Rating
		} else {
			sum += s.rules.Rating.StartingRating
		}
	}
	return int(math.Round(float64(sum) / float64(len(members))))
}

// destroyAfterGrace is the post-match teardown task. The phase check is
// atomic with the destroy, so a reset landing after the timer fires
// keeps the lobby.
func (s *Service) destroyAfterGrace(code model.LobbyCode) {
	s.teardownIf(context.Background(), code, "post-match grace elapsed",
		func(l *model.Lobby) bool {
			return l.Phase == model.PhaseFinished
		})
}

// Reset returns the lobby to the waiting phase for a rematch, keeping
// the roster but clearing captains, teams, draft and purge state, score,
// and the match outcome. Host only, from any phase after waiting.
// Pending scheduled transitions for the lobby are cancelled.
func (s *Service) Reset(ctx context.Context, code model.LobbyCode, hostID model.PlayerID) (*model.Lobby, error) {
	code = registry.NormalizeCode(code)

	var snapshot *model.Lobby
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if hostID != l.HostID {
			return model.ErrNotHost
		}
		if l.Phase == model.PhaseWaiting {
			return model.ErrWrongPhase
		}

		s.registry.CancelTasks(code)
		l.Phase = model.PhaseWaiting
		l.Captains = nil
		l.Teams = map[model.TeamID][]model.PlayerID{}
		l.Draft = nil
		l.Purge = nil
		l.Score = map[model.TeamID]int{model.Team1: 0, model.Team2: 0}
		l.Outcome = nil
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "lobby reset", slog.String("lobby", string(code)))
	s.broadcaster.LobbyUpdated(snapshot)
	s.broadcastList()
	return snapshot, nil
}
