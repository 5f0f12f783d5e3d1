package lobby

import (
	"time"

	"github.com/scrimqueue/draftlobby/internal/model"
)

func (s *ServiceSuite) setPurgeImmune(id model.PlayerID, immune bool) {
	p, err := s.storage.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	p.PurgeImmune = immune
	s.Require().NoError(s.storage.SavePlayer(s.ctx, p))
}

func (s *ServiceSuite) setLastFreeImmunity(id model.PlayerID, at time.Time) {
	p, err := s.storage.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	p.LastFreeImmunity = at
	s.Require().NoError(s.storage.SavePlayer(s.ctx, p))
}

func (s *ServiceSuite) TestPurgeEliminatesExcess() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 5)

	started, err := s.service.StartCaptainSelect(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	s.Equal(model.PhasePurging, started.Phase)
	s.Require().NotNil(started.Purge)
	s.Len(started.Purge.Pending, 1)
	s.Len(started.Roster, 5)

	s.clock.Advance(DefaultRules().PurgeAnnounceDelay)

	got, err := s.service.Get(s.ctx, l.Code)
	s.Require().NoError(err)
	s.Equal(model.PhaseCaptainSelect, got.Phase)
	s.Nil(got.Purge)
	s.Len(got.Roster, 4)
	s.NotNil(got.GetMember("player1"))

	eliminated := s.broadcaster.eliminatedMembers()
	s.Require().Len(eliminated, 1)
	victim := eliminated[0]
	s.NotEqual(model.PlayerID("player1"), victim.PlayerID)
	s.Nil(got.GetMember(victim.PlayerID))

	// Elimination grants single-use immunity and frees the session
	p, err := s.storage.GetPlayer(s.ctx, victim.PlayerID)
	s.Require().NoError(err)
	s.True(p.PurgeImmune)
	_, err = s.storage.GetSession(s.ctx, victim.PlayerID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestPurgeNeverEliminatesHost() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 7)

	_, err := s.service.StartCaptainSelect(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	// Fire all staged announcements
	s.clock.Advance(DefaultRules().PurgeAnnounceDelay * 3)

	got, err := s.service.Get(s.ctx, l.Code)
	s.Require().NoError(err)
	s.Equal(model.PhaseCaptainSelect, got.Phase)
	s.Len(got.Roster, 4)
	s.NotNil(got.GetMember("player1"))

	for _, victim := range s.broadcaster.eliminatedMembers() {
		s.NotEqual(model.PlayerID("player1"), victim.PlayerID)
	}
}

func (s *ServiceSuite) TestPurgeAnnouncementsAreStaged() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 6)

	_, err := s.service.StartCaptainSelect(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	delay := DefaultRules().PurgeAnnounceDelay

	s.clock.Advance(delay)
	got, _ := s.service.Get(s.ctx, l.Code)
	s.Equal(model.PhasePurging, got.Phase)
	s.Len(got.Roster, 5)
	s.Len(s.broadcaster.eliminatedMembers(), 1)

	s.clock.Advance(delay)
	got, _ = s.service.Get(s.ctx, l.Code)
	s.Equal(model.PhaseCaptainSelect, got.Phase)
	s.Len(got.Roster, 4)
	s.Len(s.broadcaster.eliminatedMembers(), 2)
}

func (s *ServiceSuite) TestPurgeSkipsSingleUseImmunePlayers() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 5)

	// Everyone except player5 survived a previous purge elimination
	for _, id := range []model.PlayerID{"player2", "player3", "player4"} {
		s.setPurgeImmune(id, true)
	}

	_, err := s.service.StartCaptainSelect(s.ctx, l.Code, "player1")
	s.Require().NoError(err)
	s.clock.Advance(DefaultRules().PurgeAnnounceDelay)

	eliminated := s.broadcaster.eliminatedMembers()
	s.Require().Len(eliminated, 1)
	s.Equal(model.PlayerID("player5"), eliminated[0].PlayerID)

	// Immunity consumed, not stacked: every announced survivor spent theirs
	for _, m := range s.broadcaster.immunityMembers() {
		p, err := s.storage.GetPlayer(s.ctx, m.PlayerID)
		s.Require().NoError(err)
		s.False(p.PurgeImmune)
	}

	got, _ := s.service.Get(s.ctx, l.Code)
	s.Len(got.Roster, 4)
	s.NotNil(got.GetMember("player2"))
	s.NotNil(got.GetMember("player3"))
	s.NotNil(got.GetMember("player4"))
}

func (s *ServiceSuite) TestPurgeFreeImmunityWindow() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 5)

	// Everyone except player5 has been idle past the immunity window
	idle := s.clock.Now().Add(-DefaultRules().ImmunityWindow - time.Hour)
	for _, id := range []model.PlayerID{"player2", "player3", "player4"} {
		s.setLastFreeImmunity(id, idle)
	}

	startedAt := s.clock.Now()
	_, err := s.service.StartCaptainSelect(s.ctx, l.Code, "player1")
	s.Require().NoError(err)
	s.clock.Advance(DefaultRules().PurgeAnnounceDelay)

	eliminated := s.broadcaster.eliminatedMembers()
	s.Require().Len(eliminated, 1)
	s.Equal(model.PlayerID("player5"), eliminated[0].PlayerID)

	// Consuming the free immunity restarts the window
	for _, m := range s.broadcaster.immunityMembers() {
		p, err := s.storage.GetPlayer(s.ctx, m.PlayerID)
		s.Require().NoError(err)
		s.Equal(startedAt, p.LastFreeImmunity)
	}
}

func (s *ServiceSuite) TestPurgeAllImmuneProceedsOverCapacity() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 5)

	for _, id := range []model.PlayerID{"player2", "player3", "player4", "player5"} {
		s.setPurgeImmune(id, true)
	}

	started, err := s.service.StartCaptainSelect(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	// Nobody eliminable: skip purging rather than deadlock
	s.Equal(model.PhaseCaptainSelect, started.Phase)
	s.Nil(started.Purge)
	s.Len(started.Roster, 5)
	s.Len(s.broadcaster.immunityMembers(), 4)
	s.Empty(s.broadcaster.eliminatedMembers())
}

func (s *ServiceSuite) TestPurgeTaskNoopsAfterClose() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 5)

	_, err := s.service.StartCaptainSelect(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Close(s.ctx, l.Code, "player1"))
	s.clock.Advance(DefaultRules().PurgeAnnounceDelay * 2)

	s.Empty(s.broadcaster.eliminatedMembers())
}

func (s *ServiceSuite) TestResetDuringPurgeCancelsAnnouncements() {
	l := s.newLobby(4, true)
	s.fillRoster(l.Code, 5)

	_, err := s.service.StartCaptainSelect(s.ctx, l.Code, "player1")
	s.Require().NoError(err)

	got, err := s.service.Reset(s.ctx, l.Code, "player1")
	s.Require().NoError(err)
	s.Equal(model.PhaseWaiting, got.Phase)

	s.clock.Advance(DefaultRules().PurgeAnnounceDelay * 2)

	after, err := s.service.Get(s.ctx, l.Code)
	s.Require().NoError(err)
	s.Len(after.Roster, 5)
	s.Empty(s.broadcaster.eliminatedMembers())
}
