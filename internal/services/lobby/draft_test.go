package lobby

import (
	"github.com/scrimqueue/draftlobby/internal/model"
)

// pick is a DraftPick that must succeed
func (s *ServiceSuite) pick(code model.LobbyCode, captain, target model.PlayerID) *model.Lobby {
	got, err := s.service.DraftPick(s.ctx, code, captain, target)
	s.Require().NoError(err)
	return got
}

func (s *ServiceSuite) TestDraftCapacitySixFillsBothTeams() {
	l := s.newLobby(6, true)
	s.fillRoster(l.Code, 6)
	s.startDraft(l.Code)

	// Opening pick: one for team1
	got := s.pick(l.Code, "player2", "player4")
	s.Equal(model.Team2, got.Draft.Turn)
	s.Equal(2, got.Draft.PicksLeft)

	// Team2's double pick fills it
	got = s.pick(l.Code, "player3", "player5")
	s.Equal(1, got.Draft.PicksLeft)
	got = s.pick(l.Code, "player3", "player6")

	// Back to team1, clamped to the single open seat
	s.Equal(model.Team1, got.Draft.Turn)
	s.Equal(1, got.Draft.PicksLeft)

	got = s.pick(l.Code, "player2", "player1")

	s.Equal(model.PhasePlaying, got.Phase)
	s.Nil(got.Draft)
	s.Len(got.Teams[model.Team1], 3)
	s.Len(got.Teams[model.Team2], 3)
	s.Equal(0, got.Score[model.Team1])
	s.Equal(0, got.Score[model.Team2])
}

func (s *ServiceSuite) TestDraftCapacityTenAllotmentSequence() {
	l := s.newLobby(10, true)
	s.fillRoster(l.Code, 10)
	s.startDraft(l.Code)

	// Snake pattern 1,2,2,2,1: team1 opens with a single pick, then
	// alternating double picks clamped at the end
	got := s.pick(l.Code, "player2", "player4")
	s.Equal(model.Team2, got.Draft.Turn)
	s.Equal(2, got.Draft.PicksLeft)

	s.pick(l.Code, "player3", "player5")
	got = s.pick(l.Code, "player3", "player6")
	s.Equal(model.Team1, got.Draft.Turn)
	s.Equal(2, got.Draft.PicksLeft)

	s.pick(l.Code, "player2", "player7")
	got = s.pick(l.Code, "player2", "player8")
	s.Equal(model.Team2, got.Draft.Turn)
	s.Equal(2, got.Draft.PicksLeft)

	s.pick(l.Code, "player3", "player9")
	got = s.pick(l.Code, "player3", "player10")
	// Team2 is full; team1 takes the last unpicked player
	s.Equal(model.Team1, got.Draft.Turn)
	s.Equal(1, got.Draft.PicksLeft)

	got = s.pick(l.Code, "player2", "player1")

	s.Equal(model.PhasePlaying, got.Phase)
	s.Len(got.Teams[model.Team1], 5)
	s.Len(got.Teams[model.Team2], 5)
}

func (s *ServiceSuite) TestDraftShortRosterEndsWhenAllPicked() {
	l := s.newLobby(6, true)
	s.fillRoster(l.Code, 5)
	s.startDraft(l.Code)

	s.pick(l.Code, "player2", "player4")
	s.pick(l.Code, "player3", "player5")
	got := s.pick(l.Code, "player3", "player1")

	// Every roster member is picked even though capacity is not reached
	s.Equal(model.PhasePlaying, got.Phase)
	s.Nil(got.Draft)
	s.Equal(0, got.UnpickedCount())
	s.Len(got.Teams[model.Team1], 2)
	s.Len(got.Teams[model.Team2], 3)
}

func (s *ServiceSuite) TestDraftPickOutOfTurnRejected() {
	l := s.newLobby(6, true)
	s.fillRoster(l.Code, 6)
	s.startDraft(l.Code)

	_, err := s.service.DraftPick(s.ctx, l.Code, "player3", "player4")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ServiceSuite) TestDraftPickByNonCaptainRejected() {
	l := s.newLobby(6, true)
	s.fillRoster(l.Code, 6)
	s.startDraft(l.Code)

	_, err := s.service.DraftPick(s.ctx, l.Code, "player4", "player5")
	s.ErrorIs(err, model.ErrNotCaptain)
}

func (s *ServiceSuite) TestDraftPickAlreadyPickedRejected() {
	l := s.newLobby(6, true)
	s.fillRoster(l.Code, 6)
	s.startDraft(l.Code)

	s.pick(l.Code, "player2", "player4")

	_, err := s.service.DraftPick(s.ctx, l.Code, "player3", "player4")
	s.ErrorIs(err, model.ErrAlreadyPicked)
}

func (s *ServiceSuite) TestDraftPickCaptainRejected() {
	l := s.newLobby(6, true)
	s.fillRoster(l.Code, 6)
	s.startDraft(l.Code)

	// Captains already hold a team slot
	_, err := s.service.DraftPick(s.ctx, l.Code, "player2", "player3")
	s.ErrorIs(err, model.ErrAlreadyPicked)
}

func (s *ServiceSuite) TestDraftPickUnknownTargetRejected() {
	l := s.newLobby(6, true)
	s.fillRoster(l.Code, 6)
	s.startDraft(l.Code)

	_, err := s.service.DraftPick(s.ctx, l.Code, "player2", "stranger")
	s.ErrorIs(err, model.ErrNotInLobby)
}

func (s *ServiceSuite) TestDraftPickWrongPhaseRejected() {
	l := s.newLobby(6, true)
	s.fillRoster(l.Code, 6)

	_, err := s.service.DraftPick(s.ctx, l.Code, "player2", "player4")
	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *ServiceSuite) TestDraftNeverOverfillsTeams() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 4)
	s.startDraft(l.Code)

	got := s.pick(l.Code, "player2", "player4")
	s.Equal(model.Team2, got.Draft.Turn)
	s.Equal(1, got.Draft.PicksLeft)

	got = s.pick(l.Code, "player3", "player1")
	s.Equal(model.PhasePlaying, got.Phase)
	s.Len(got.Teams[model.Team1], 2)
	s.Len(got.Teams[model.Team2], 2)
}
