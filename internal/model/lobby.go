package model

import "time"

// LobbyCode is a short human-readable identifier for joining lobbies
type LobbyCode string

// Phase represents the current stage of a lobby's lifecycle
type Phase string

const (
	PhaseWaiting       Phase = "waiting"        // gathering players
	PhasePurging       Phase = "purging"        // eliminating overflow players
	PhaseCaptainSelect Phase = "captain_select" // host choosing the two captains
	PhaseDrafting      Phase = "drafting"       // captains picking teams
	PhasePlaying       Phase = "playing"        // match in progress
	PhaseFinished      Phase = "finished"       // match decided, awaiting teardown
)

// TeamID names one of the two squads
type TeamID string

const (
	Team1 TeamID = "team1"
	Team2 TeamID = "team2"
)

// Opponent returns the other team
func (t TeamID) Opponent() TeamID {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// ValidTeam reports whether t names a known team
func ValidTeam(t TeamID) bool {
	return t == Team1 || t == Team2
}

// RosterMember is a player's seat in a lobby, snapshotted at join time
type RosterMember struct {
	PlayerID    PlayerID
	DisplayName string
	AvatarURL   string
	Rating      int
	JoinedAt    time.Time
}

// DraftState carries the fields that are only meaningful while drafting
type DraftState struct {
	Turn      TeamID // team currently on the clock
	PicksLeft int    // picks remaining this turn
}

// PurgeState carries the fields that are only meaningful while purging.
// Pending players are announced one at a time on a timer before the lobby
// proceeds to captain selection.
type PurgeState struct {
	Pending    []PlayerID // selected for elimination, not yet announced
	Eliminated []PlayerID // announced and removed from the roster
}

// MatchOutcome records how a finished match was decided
type MatchOutcome struct {
	Winner    TeamID // empty on a draw
	IsDraw    bool
	DecidedAt time.Time
}

// Lobby is one matchmaking session. All mutation goes through the lobby
// service under the registry's per-lobby lock.
type Lobby struct {
	Code     LobbyCode
	HostID   PlayerID
	Public   bool
	Capacity int // even, >= 4

	Phase  Phase
	Roster []RosterMember // join order, host first

	Captains []PlayerID          // at most 2; first anchors Team1
	Teams    map[TeamID][]PlayerID
	Draft    *DraftState  // non-nil only while drafting
	Purge    *PurgeState  // non-nil only while purging
	Score    map[TeamID]int
	Outcome  *MatchOutcome // non-nil only once finished

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetMember returns the roster member with the given player ID, or nil
func (l *Lobby) GetMember(id PlayerID) *RosterMember {
	for i := range l.Roster {
		if l.Roster[i].PlayerID == id {
			return &l.Roster[i]
		}
	}
	return nil
}

// RemoveMember drops the player from the roster, preserving join order.
// Returns false if they were not in the roster.
func (l *Lobby) RemoveMember(id PlayerID) bool {
	for i := range l.Roster {
		if l.Roster[i].PlayerID == id {
			l.Roster = append(l.Roster[:i], l.Roster[i+1:]...)
			return true
		}
	}
	return false
}

// IsCaptain reports whether the player is one of the chosen captains
func (l *Lobby) IsCaptain(id PlayerID) bool {
	for _, c := range l.Captains {
		if c == id {
			return true
		}
	}
	return false
}

// TeamOf returns the team the player has been picked onto, or empty
func (l *Lobby) TeamOf(id PlayerID) TeamID {
	for team, members := range l.Teams {
		for _, m := range members {
			if m == id {
				return team
			}
		}
	}
	return ""
}

// IsPicked reports whether the player is on either team
func (l *Lobby) IsPicked(id PlayerID) bool {
	return l.TeamOf(id) != ""
}

// PickedCount returns the total number of players on both teams
func (l *Lobby) PickedCount() int {
	return len(l.Teams[Team1]) + len(l.Teams[Team2])
}

// TeamSize is the number of seats per team
func (l *Lobby) TeamSize() int {
	return l.Capacity / 2
}

// SeatsRemaining returns how many open seats the team has
func (l *Lobby) SeatsRemaining(team TeamID) int {
	return l.TeamSize() - len(l.Teams[team])
}

// UnpickedCount returns how many roster members are on neither team
func (l *Lobby) UnpickedCount() int {
	return len(l.Roster) - l.PickedCount()
}

// CaptainOf returns the captain anchoring the given team, or empty if
// that captain has not been chosen yet
func (l *Lobby) CaptainOf(team TeamID) PlayerID {
	idx := 0
	if team == Team2 {
		idx = 1
	}
	if idx >= len(l.Captains) {
		return ""
	}
	return l.Captains[idx]
}

// Clone returns a deep copy, safe to read after the per-lobby lock is
// released
func (l *Lobby) Clone() *Lobby {
	c := *l
	c.Roster = append([]RosterMember(nil), l.Roster...)
	c.Captains = append([]PlayerID(nil), l.Captains...)
	c.Teams = make(map[TeamID][]PlayerID, len(l.Teams))
	for team, members := range l.Teams {
		c.Teams[team] = append([]PlayerID(nil), members...)
	}
	c.Score = make(map[TeamID]int, len(l.Score))
	for team, score := range l.Score {
		c.Score[team] = score
	}
	if l.Draft != nil {
		draft := *l.Draft
		c.Draft = &draft
	}
	if l.Purge != nil {
		purge := PurgeState{
			Pending:    append([]PlayerID(nil), l.Purge.Pending...),
			Eliminated: append([]PlayerID(nil), l.Purge.Eliminated...),
		}
		c.Purge = &purge
	}
	if l.Outcome != nil {
		outcome := *l.Outcome
		c.Outcome = &outcome
	}
	return &c
}
