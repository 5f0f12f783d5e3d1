package lobby

import (
	"context"
	"time"

	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/registry"
)

// StartCaptainSelect leaves the waiting phase. Host only. If the roster
// exceeds capacity the lobby enters the purge sub-protocol first;
// otherwise it moves straight to captain selection.
func (s *Service) StartCaptainSelect(ctx context.Context, code model.LobbyCode, hostID model.PlayerID) (*model.Lobby, error) {
	code = registry.NormalizeCode(code)

	var snapshot *model.Lobby
	var plan *purgePlan
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if hostID != l.HostID {
			return model.ErrNotHost
		}
		if l.Phase != model.PhaseWaiting {
			return model.ErrWrongPhase
		}
		if len(l.Roster) < s.rules.MinRosterToStart {
			return model.ErrRosterTooSmall
		}

		if len(l.Roster) > l.Capacity {
			plan = s.planPurge(ctx, l)
		}

		if plan != nil && len(plan.victims) > 0 {
			pending := make([]model.PlayerID, len(plan.victims))
			for i, v := range plan.victims {
				pending[i] = v.PlayerID
			}
			l.Phase = model.PhasePurging
			l.Purge = &model.PurgeState{Pending: pending}
		} else {
			l.Phase = model.PhaseCaptainSelect
		}
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if plan != nil {
		for _, m := range plan.immune {
			s.broadcaster.PurgeImmunity(code, m)
		}
		for i := range plan.victims {
			s.registry.Schedule(code, s.rules.PurgeAnnounceDelay*time.Duration(i+1), func() {
				s.announceNextElimination(code)
			})
		}
	}

	s.broadcaster.LobbyUpdated(snapshot)
	s.broadcastList()
	return snapshot, nil
}

// SelectCaptain chooses a roster member as a captain. Host only, during
// captain selection. The first captain anchors team1, the second anchors
// team2 and starts the draft with team1 on the clock.
func (s *Service) SelectCaptain(ctx context.Context, code model.LobbyCode, hostID, targetID model.PlayerID) (*model.Lobby, error) {
	code = registry.NormalizeCode(code)

	var snapshot *model.Lobby
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if hostID != l.HostID {
			return model.ErrNotHost
		}
		if l.Phase != model.PhaseCaptainSelect {
			return model.ErrWrongPhase
		}
		if l.GetMember(targetID) == nil {
			return model.ErrNotInLobby
		}
		if l.IsCaptain(targetID) {
			return model.ErrAlreadyCaptain
		}
		if len(l.Captains) >= 2 {
			return model.ErrCaptainsChosen
		}

		team := model.Team1
		if len(l.Captains) == 1 {
			team = model.Team2
		}
		l.Captains = append(l.Captains, targetID)
		l.Teams[team] = append(l.Teams[team], targetID)

		// Second captain starts the draft: team1 on the clock with a
		// single opening pick
		if len(l.Captains) == 2 {
			l.Phase = model.PhaseDrafting
			l.Draft = &model.DraftState{Turn: model.Team1, PicksLeft: 1}
		}
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcaster.LobbyUpdated(snapshot)
	return snapshot, nil
}

// RemoveCaptain un-selects a captain before the draft begins, reverting
// their team membership. Host only, during captain selection.
func (s *Service) RemoveCaptain(ctx context.Context, code model.LobbyCode, hostID, targetID model.PlayerID) (*model.Lobby, error) {
	code = registry.NormalizeCode(code)

	var snapshot *model.Lobby
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if hostID != l.HostID {
			return model.ErrNotHost
		}
		if l.Phase != model.PhaseCaptainSelect {
			return model.ErrWrongPhase
		}
		if !l.IsCaptain(targetID) {
			return model.ErrNotCaptain
		}

		for i, c := range l.Captains {
			if c == targetID {
				l.Captains = append(l.Captains[:i], l.Captains[i+1:]...)
				break
			}
		}
		for team, members := range l.Teams {
			for i, m := range members {
				if m == targetID {
					l.Teams[team] = append(members[:i], members[i+1:]...)
					break
				}
			}
		}
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcaster.LobbyUpdated(snapshot)
	return snapshot, nil
}

// DraftPick assigns an unpicked roster member to the on-turn captain's
// team. Only the on-turn captain may pick. Filling the last seat moves
// the lobby to the playing phase.
func (s *Service) DraftPick(ctx context.Context, code model.LobbyCode, captainID, targetID model.PlayerID) (*model.Lobby, error) {
	code = registry.NormalizeCode(code)

	var snapshot *model.Lobby
	err := s.registry.WithLobby(code, func(l *model.Lobby) error {
		if l.Phase != model.PhaseDrafting {
			return model.ErrWrongPhase
		}
		if !l.IsCaptain(captainID) {
			return model.ErrNotCaptain
		}
		turn := l.Draft.Turn
		if l.CaptainOf(turn) != captainID {
			return model.ErrNotYourTurn
		}
		if l.GetMember(targetID) == nil {
			return model.ErrNotInLobby
		}
		if l.IsPicked(targetID) {
			return model.ErrAlreadyPicked
		}

		l.Teams[turn] = append(l.Teams[turn], targetID)
		l.Draft.PicksLeft--

		if l.PickedCount() == l.Capacity || l.UnpickedCount() == 0 {
			l.Phase = model.PhasePlaying
			l.Draft = nil
			l.Score = map[model.TeamID]int{model.Team1: 0, model.Team2: 0}
		} else if l.Draft.PicksLeft == 0 {
			s.advanceTurn(l)
		}
		l.UpdatedAt = s.clock.Now()
		snapshot = l.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcaster.LobbyUpdated(snapshot)
	return snapshot, nil
}

// advanceTurn passes the draft to the other team with the snake
// allotment: two picks per turn, clamped to the team's open seats and
// the players still unpicked. A team with no room is skipped.
func (s *Service) advanceTurn(l *model.Lobby) {
	next := l.Draft.Turn.Opponent()
	allotment := turnAllotment(l, next)
	if allotment == 0 {
		next = next.Opponent()
		allotment = turnAllotment(l, next)
	}
	l.Draft.Turn = next
	l.Draft.PicksLeft = allotment
}

func turnAllotment(l *model.Lobby, team model.TeamID) int {
	allotment := 2
	if seats := l.SeatsRemaining(team); seats < allotment {
		allotment = seats
	}
	if unpicked := l.UnpickedCount(); unpicked < allotment {
		allotment = unpicked
	}
	if allotment < 0 {
		return 0
	}
	return allotment
}
