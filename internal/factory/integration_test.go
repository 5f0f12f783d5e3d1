package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/services/auth"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) createGuest(name string) *auth.Session {
	session, err := s.app.AuthService.CreateGuestPlayer(s.ctx, name, "")
	s.Require().NoError(err)
	return session
}

// fullLobby creates a capacity-4 lobby with host plus three joined
// players and returns the code and ordered sessions
func (s *IntegrationSuite) fullLobby() (model.LobbyCode, []*auth.Session) {
	sessions := []*auth.Session{
		s.createGuest("Host"),
		s.createGuest("Ana"),
		s.createGuest("Ben"),
		s.createGuest("Cal"),
	}

	s.app.MockRandom.QueueString("ABC234")
	host := sessions[0].Player
	lobby, err := s.app.LobbyService.Create(s.ctx, host.ID, host.DisplayName, host.AvatarURL, true, 4)
	s.Require().NoError(err)

	for _, sess := range sessions[1:] {
		_, err := s.app.LobbyService.Join(s.ctx, lobby.Code, sess.Player.ID, sess.Player.DisplayName, sess.Player.AvatarURL)
		s.Require().NoError(err)
	}
	return lobby.Code, sessions
}

// playToFinish drives a full lobby through captain selection and the
// draft, then scores team1 to the win threshold
func (s *IntegrationSuite) playToFinish(code model.LobbyCode, sessions []*auth.Session) *model.Lobby {
	hostID := sessions[0].Player.ID

	_, err := s.app.LobbyService.StartCaptainSelect(s.ctx, code, hostID)
	s.Require().NoError(err)

	// Host anchors team1, Ana anchors team2
	_, err = s.app.LobbyService.SelectCaptain(s.ctx, code, hostID, hostID)
	s.Require().NoError(err)
	_, err = s.app.LobbyService.SelectCaptain(s.ctx, code, hostID, sessions[1].Player.ID)
	s.Require().NoError(err)

	// Opening pick of one for team1, then team2 takes the last seat
	_, err = s.app.LobbyService.DraftPick(s.ctx, code, hostID, sessions[2].Player.ID)
	s.Require().NoError(err)
	lobby, err := s.app.LobbyService.DraftPick(s.ctx, code, sessions[1].Player.ID, sessions[3].Player.ID)
	s.Require().NoError(err)
	s.Require().Equal(model.PhasePlaying, lobby.Phase)

	_, err = s.app.LobbyService.AddScore(s.ctx, code, hostID, model.Team1)
	s.Require().NoError(err)
	lobby, err = s.app.LobbyService.AddScore(s.ctx, code, hostID, model.Team1)
	s.Require().NoError(err)
	return lobby
}

func (s *IntegrationSuite) TestFullMatchFlow() {
	code, sessions := s.fullLobby()
	lobby := s.playToFinish(code, sessions)

	s.Equal(model.PhaseFinished, lobby.Phase)
	s.Require().NotNil(lobby.Outcome)
	s.Equal(model.Team1, lobby.Outcome.Winner)
	s.False(lobby.Outcome.IsDraw)
	s.Equal(2, lobby.Score[model.Team1])

	// Equal 1000-average teams: winners +30, losers -20
	for _, id := range lobby.Teams[model.Team1] {
		p, err := s.app.PlayerService.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(1030, p.Rating)
		s.Equal(1, p.Wins)
		s.Equal(1, p.GamesPlayed)
	}
	for _, id := range lobby.Teams[model.Team2] {
		p, err := s.app.PlayerService.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(980, p.Rating)
		s.Equal(1, p.Losses)
		s.Equal(1, p.GamesPlayed)
	}

	// Match is recorded with per-player deltas
	matches, err := s.app.PlayerService.RecentMatches(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(code, matches[0].LobbyCode)
	s.Len(matches[0].Deltas, 4)
}

func (s *IntegrationSuite) TestRematchAfterReset() {
	code, sessions := s.fullLobby()
	s.playToFinish(code, sessions)

	hostID := sessions[0].Player.ID
	lobby, err := s.app.LobbyService.Reset(s.ctx, code, hostID)
	s.Require().NoError(err)

	s.Equal(model.PhaseWaiting, lobby.Phase)
	s.Len(lobby.Roster, 4)
	s.Empty(lobby.Captains)
	s.Nil(lobby.Outcome)

	// The reset lobby can run a second match, compounding ratings
	lobby = s.playToFinish(code, sessions)
	s.Equal(model.PhaseFinished, lobby.Phase)

	p, err := s.app.PlayerService.Get(s.ctx, hostID)
	s.Require().NoError(err)
	s.Equal(2, p.GamesPlayed)
}

func (s *IntegrationSuite) TestFinishedLobbyDestroyedAfterGrace() {
	code, sessions := s.fullLobby()
	s.playToFinish(code, sessions)

	s.app.MockClock.Advance(60 * time.Second)

	_, err := s.app.LobbyService.Get(s.ctx, code)
	s.ErrorIs(err, model.ErrLobbyNotFound)

	// Participants are released from the lobby
	_, err = s.app.PlayerService.CurrentLobby(s.ctx, sessions[0].Player.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *IntegrationSuite) TestPurgeOverCapacity() {
	code, sessions := s.fullLobby()
	hostID := sessions[0].Player.ID

	extra := s.createGuest("Dee")
	_, err := s.app.LobbyService.Join(s.ctx, code, extra.Player.ID, extra.Player.DisplayName, "")
	s.Require().NoError(err)

	lobby, err := s.app.LobbyService.StartCaptainSelect(s.ctx, code, hostID)
	s.Require().NoError(err)
	s.Equal(model.PhasePurging, lobby.Phase)
	s.Require().NotNil(lobby.Purge)
	s.Len(lobby.Purge.Pending, 1)

	victimID := lobby.Purge.Pending[0]
	s.app.MockClock.Advance(2 * time.Second)

	lobby, err = s.app.LobbyService.Get(s.ctx, code)
	s.Require().NoError(err)
	s.Equal(model.PhaseCaptainSelect, lobby.Phase)
	s.Len(lobby.Roster, 4)
	s.Nil(lobby.GetMember(victimID))

	// Elimination grants single-use immunity and releases the session
	victim, err := s.app.PlayerService.Get(s.ctx, victimID)
	s.Require().NoError(err)
	s.True(victim.PurgeImmune)
	_, err = s.app.PlayerService.CurrentLobby(s.ctx, victimID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *IntegrationSuite) TestLeaderboardReflectsResults() {
	code, sessions := s.fullLobby()
	lobby := s.playToFinish(code, sessions)

	board, err := s.app.PlayerService.Leaderboard(s.ctx, 10, 1)
	s.Require().NoError(err)
	s.Require().Len(board, 4)
	s.Equal(1030, board[0].Rating)
	s.Equal(1030, board[1].Rating)
	s.Equal(980, board[2].Rating)
	s.Equal(980, board[3].Rating)

	winners := map[model.PlayerID]bool{}
	for _, id := range lobby.Teams[model.Team1] {
		winners[id] = true
	}
	s.True(winners[board[0].ID])
	s.True(winners[board[1].ID])
}
