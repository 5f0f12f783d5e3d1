package lobby

import (
	"time"

	"github.com/scrimqueue/draftlobby/internal/model"
)

// playingLobby drives a capacity-4 lobby to the playing phase:
// team1 = player2, player4; team2 = player3, player1
func (s *ServiceSuite) playingLobby() *model.Lobby {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 4)
	s.startDraft(l.Code)
	s.pick(l.Code, "player2", "player4")
	got := s.pick(l.Code, "player3", "player1")
	s.Require().Equal(model.PhasePlaying, got.Phase)
	return got
}

func (s *ServiceSuite) TestAddScoreIncrements() {
	l := s.playingLobby()

	got, err := s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	s.Require().NoError(err)

	s.Equal(model.PhasePlaying, got.Phase)
	s.Equal(1, got.Score[model.Team1])
	s.Equal(0, got.Score[model.Team2])
	s.Nil(got.Outcome)
}

func (s *ServiceSuite) TestAddScoreRequiresHost() {
	l := s.playingLobby()
	_, err := s.service.AddScore(s.ctx, l.Code, "player2", model.Team1)
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ServiceSuite) TestAddScoreInvalidTeam() {
	l := s.playingLobby()
	_, err := s.service.AddScore(s.ctx, l.Code, "player1", "team3")
	s.ErrorIs(err, model.ErrInvalidTeam)
}

func (s *ServiceSuite) TestAddScoreWrongPhase() {
	l := s.newLobby(4, true)
	_, err := s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *ServiceSuite) TestReachingThresholdFinishesMatch() {
	l := s.playingLobby()

	_, err := s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	s.Require().NoError(err)
	got, err := s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	s.Require().NoError(err)

	s.Equal(model.PhaseFinished, got.Phase)
	s.Require().NotNil(got.Outcome)
	s.Equal(model.Team1, got.Outcome.Winner)
	s.False(got.Outcome.IsDraw)
	s.Equal(2, got.Score[model.Team1])
}

func (s *ServiceSuite) TestFinishAppliesRatingUpdate() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)

	// Equal 1000-average teams: winners gain the clamped 30, losers pay 20
	for _, id := range []model.PlayerID{"player2", "player4"} {
		p, err := s.storage.GetPlayer(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(1030, p.Rating)
		s.Equal(1, p.Wins)
		s.Equal(0, p.Losses)
		s.Equal(1, p.GamesPlayed)
	}
	for _, id := range []model.PlayerID{"player3", "player1"} {
		p, err := s.storage.GetPlayer(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(980, p.Rating)
		s.Equal(0, p.Wins)
		s.Equal(1, p.Losses)
		s.Equal(1, p.GamesPlayed)
	}
}

func (s *ServiceSuite) TestFinishRefreshesRosterRatings() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team2)
	got, err := s.service.AddScore(s.ctx, l.Code, "player1", model.Team2)
	s.Require().NoError(err)

	s.Equal(1030, got.GetMember("player3").Rating)
	s.Equal(980, got.GetMember("player2").Rating)
}

func (s *ServiceSuite) TestFinishWritesMatchRecord() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)

	matches, err := s.storage.RecentMatches(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)

	rec := matches[0]
	s.NotEmpty(rec.ID)
	s.Equal(l.Code, rec.LobbyCode)
	s.Equal(model.Team1, rec.Winner)
	s.False(rec.IsDraw)
	s.Equal(2, rec.Score[model.Team1])
	s.Equal(1000, rec.Team1Average)
	s.Equal(1000, rec.Team2Average)
	s.Len(rec.Deltas, 4)
	for _, d := range rec.Deltas {
		s.Equal(d.New-d.Old, d.Change)
	}
}

func (s *ServiceSuite) TestFinishNotifiesSink() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)

	s.Eventually(func() bool { return s.notifier.count() == 1 },
		time.Second, 10*time.Millisecond)
	s.Require().Len(s.broadcaster.finishedMatches(), 1)
	s.Equal(l.Code, s.broadcaster.finishedMatches()[0].LobbyCode)
}

func (s *ServiceSuite) TestScoreAfterFinishRejected() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)

	_, err := s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	s.ErrorIs(err, model.ErrMatchDecided)

	_, err = s.service.DeclareWinner(s.ctx, l.Code, "player1", model.Team2)
	s.ErrorIs(err, model.ErrMatchDecided)

	// The single rating update never reruns
	matches, _ := s.storage.RecentMatches(s.ctx, 10)
	s.Len(matches, 1)
	p, _ := s.storage.GetPlayer(s.ctx, "player2")
	s.Equal(1030, p.Rating)
	s.Equal(1, p.GamesPlayed)
}

func (s *ServiceSuite) TestDeclareWinnerShortCircuits() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	got, err := s.service.DeclareWinner(s.ctx, l.Code, "player1", model.Team2)
	s.Require().NoError(err)

	s.Equal(model.PhaseFinished, got.Phase)
	s.Equal(model.Team2, got.Outcome.Winner)
	s.Equal(2, got.Score[model.Team2])
	s.Equal(0, got.Score[model.Team1])
}

func (s *ServiceSuite) TestDeclareDrawLeavesRatingsUntouched() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	got, err := s.service.DeclareDraw(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	s.Equal(model.PhaseFinished, got.Phase)
	s.True(got.Outcome.IsDraw)
	s.Empty(got.Outcome.Winner)

	matches, _ := s.storage.RecentMatches(s.ctx, 10)
	s.Require().Len(matches, 1)
	s.True(matches[0].IsDraw)
	s.Empty(matches[0].Deltas)

	for _, id := range []model.PlayerID{"player1", "player2", "player3", "player4"} {
		p, err := s.storage.GetPlayer(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(1000, p.Rating)
		s.Zero(p.Wins)
		s.Zero(p.Losses)
		s.Zero(p.GamesPlayed)
	}
}

func (s *ServiceSuite) TestFinishedLobbyDestroyedAfterGrace() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)

	s.clock.Advance(DefaultRules().FinishedGracePeriod)

	_, err := s.service.Get(s.ctx, l.Code)
	s.ErrorIs(err, model.ErrLobbyNotFound)
	s.Contains(s.broadcaster.removedCodes(), l.Code)

	_, err = s.storage.GetSession(s.ctx, "player1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Reset tests

func (s *ServiceSuite) TestResetReturnsToWaiting() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	got, err := s.service.Reset(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	s.Equal(model.PhaseWaiting, got.Phase)
	s.Len(got.Roster, 4)
	s.Empty(got.Captains)
	s.Empty(got.Teams[model.Team1])
	s.Empty(got.Teams[model.Team2])
	s.Nil(got.Draft)
	s.Nil(got.Purge)
	s.Nil(got.Outcome)
	s.Equal(0, got.Score[model.Team1])
}

func (s *ServiceSuite) TestResetAfterFinishCancelsDestruction() {
	l := s.playingLobby()

	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)
	_, _ = s.service.AddScore(s.ctx, l.Code, "player1", model.Team1)

	_, err := s.service.Reset(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	s.clock.Advance(DefaultRules().FinishedGracePeriod * 2)

	got, err := s.service.Get(s.ctx, l.Code)
	s.Require().NoError(err)
	s.Equal(model.PhaseWaiting, got.Phase)
}

func (s *ServiceSuite) TestGraceTaskFiringAfterResetKeepsLobby() {
	l := s.playingLobby()

	_, err := s.service.DeclareWinner(s.ctx, l.Code, "player1", model.Team1)
	s.Require().NoError(err)
	_, err = s.service.Reset(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	// A teardown task already in flight when the reset landed must see
	// the reset and keep the lobby
	s.service.destroyAfterGrace(l.Code)

	got, err := s.service.Get(s.ctx, l.Code)
	s.Require().NoError(err)
	s.Equal(model.PhaseWaiting, got.Phase)
	s.NotContains(s.broadcaster.removedCodes(), l.Code)

	_, err = s.storage.GetSession(s.ctx, "player1")
	s.NoError(err)
}

func (s *ServiceSuite) TestResetRejectedWhileWaiting() {
	l := s.newLobby(4, true)
	_, err := s.service.Reset(s.ctx, l.Code, "player1")
	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *ServiceSuite) TestResetRequiresHost() {
	l := s.playingLobby()
	_, err := s.service.Reset(s.ctx, l.Code, "player2")
	s.ErrorIs(err, model.ErrNotHost)
}
