package response

import (
	"time"

	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/rating"
	"github.com/scrimqueue/draftlobby/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Rating      int    `json:"rating"`
	Rank        string `json:"rank"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	GamesPlayed int    `json:"games_played"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Rating:      p.Rating,
		Rank:        rating.RankFor(p.Rating).Name,
		Wins:        p.Wins,
		Losses:      p.Losses,
		GamesPlayed: p.GamesPlayed,
		IsGuest:     p.IsGuest,
	}
}

// ClassStats represents per-category stat counters
type ClassStats struct {
	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`
	Damage  int `json:"damage"`
	Healing int `json:"healing"`
}

func classStatsFromModel(s model.ClassStats) ClassStats {
	return ClassStats{
		Kills:   s.Kills,
		Deaths:  s.Deaths,
		Assists: s.Assists,
		Damage:  s.Damage,
		Healing: s.Healing,
	}
}

// PlayerStats represents a player's lifetime stats
type PlayerStats struct {
	Total    ClassStats            `json:"total"`
	PerClass map[string]ClassStats `json:"per_class,omitempty"`
}

// PlayerStatsFromModel converts model.LifetimeStats; returns nil when the
// player has no accrued stats
func PlayerStatsFromModel(s *model.LifetimeStats) *PlayerStats {
	if s == nil {
		return nil
	}
	stats := &PlayerStats{Total: classStatsFromModel(s.Total)}
	if len(s.PerClass) > 0 {
		stats.PerClass = make(map[string]ClassStats, len(s.PerClass))
		for class, cs := range s.PerClass {
			stats.PerClass[string(class)] = classStatsFromModel(cs)
		}
	}
	return stats
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// RosterMember represents a seat in a lobby
type RosterMember struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Rating      int    `json:"rating"`
	IsHost      bool   `json:"is_host"`
	IsCaptain   bool   `json:"is_captain"`
	Team        string `json:"team,omitempty"`
}

// DraftState represents drafting-only fields
type DraftState struct {
	Turn      string `json:"turn"`
	PicksLeft int    `json:"picks_left"`
}

// MatchOutcome represents how a finished match was decided
type MatchOutcome struct {
	Winner string `json:"winner,omitempty"`
	IsDraw bool   `json:"is_draw"`
}

// Lobby is the full lobby snapshot broadcast to subscribers and returned
// from lobby endpoints
type Lobby struct {
	Code     string         `json:"code"`
	HostID   string         `json:"host_id"`
	Public   bool           `json:"public"`
	Capacity int            `json:"capacity"`
	Phase    string         `json:"phase"`
	Roster   []RosterMember `json:"roster"`

	Teams   map[string][]string `json:"teams"`
	Draft   *DraftState         `json:"draft,omitempty"`
	Score   map[string]int      `json:"score"`
	Outcome *MatchOutcome       `json:"outcome,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// LobbyFromModel converts model.Lobby
func LobbyFromModel(l *model.Lobby) Lobby {
	roster := make([]RosterMember, len(l.Roster))
	for i, m := range l.Roster {
		roster[i] = RosterMember{
			PlayerID:    string(m.PlayerID),
			DisplayName: m.DisplayName,
			AvatarURL:   m.AvatarURL,
			Rating:      m.Rating,
			IsHost:      m.PlayerID == l.HostID,
			IsCaptain:   l.IsCaptain(m.PlayerID),
			Team:        string(l.TeamOf(m.PlayerID)),
		}
	}

	teams := make(map[string][]string, len(l.Teams))
	for team, members := range l.Teams {
		ids := make([]string, len(members))
		for i, id := range members {
			ids[i] = string(id)
		}
		teams[string(team)] = ids
	}

	score := make(map[string]int, len(l.Score))
	for team, points := range l.Score {
		score[string(team)] = points
	}

	var draft *DraftState
	if l.Draft != nil {
		draft = &DraftState{Turn: string(l.Draft.Turn), PicksLeft: l.Draft.PicksLeft}
	}

	var outcome *MatchOutcome
	if l.Outcome != nil {
		outcome = &MatchOutcome{Winner: string(l.Outcome.Winner), IsDraw: l.Outcome.IsDraw}
	}

	return Lobby{
		Code:      string(l.Code),
		HostID:    string(l.HostID),
		Public:    l.Public,
		Capacity:  l.Capacity,
		Phase:     string(l.Phase),
		Roster:    roster,
		Teams:     teams,
		Draft:     draft,
		Score:     score,
		Outcome:   outcome,
		CreatedAt: l.CreatedAt,
	}
}

// LobbySummary is the filtered public view for the lobby browser
type LobbySummary struct {
	Code       string    `json:"code"`
	HostName   string    `json:"host_name"`
	RosterSize int       `json:"roster_size"`
	Capacity   int       `json:"capacity"`
	CreatedAt  time.Time `json:"created_at"`
}

// LobbySummaryFromModel converts model.Lobby to its public summary
func LobbySummaryFromModel(l *model.Lobby) LobbySummary {
	hostName := ""
	if host := l.GetMember(l.HostID); host != nil {
		hostName = host.DisplayName
	}
	return LobbySummary{
		Code:       string(l.Code),
		HostName:   hostName,
		RosterSize: len(l.Roster),
		Capacity:   l.Capacity,
		CreatedAt:  l.CreatedAt,
	}
}

// RatingDelta represents one player's rating movement in a match
type RatingDelta struct {
	PlayerID string `json:"player_id"`
	Old      int    `json:"old"`
	New      int    `json:"new"`
	Change   int    `json:"change"`
}

// Match represents a recorded match
type Match struct {
	ID           string              `json:"id"`
	LobbyCode    string              `json:"lobby_code"`
	PlayedAt     time.Time           `json:"played_at"`
	Teams        map[string][]string `json:"teams"`
	Score        map[string]int      `json:"score"`
	Winner       string              `json:"winner,omitempty"`
	IsDraw       bool                `json:"is_draw"`
	Team1Average int                 `json:"team1_average,omitempty"`
	Team2Average int                 `json:"team2_average,omitempty"`
	Deltas       []RatingDelta       `json:"deltas,omitempty"`
}

// MatchFromModel converts model.MatchRecord
func MatchFromModel(m *model.MatchRecord) Match {
	teams := make(map[string][]string, len(m.Teams))
	for team, members := range m.Teams {
		ids := make([]string, len(members))
		for i, id := range members {
			ids[i] = string(id)
		}
		teams[string(team)] = ids
	}

	score := make(map[string]int, len(m.Score))
	for team, points := range m.Score {
		score[string(team)] = points
	}

	deltas := make([]RatingDelta, len(m.Deltas))
	for i, d := range m.Deltas {
		deltas[i] = RatingDelta{
			PlayerID: string(d.PlayerID),
			Old:      d.Old,
			New:      d.New,
			Change:   d.Change,
		}
	}

	return Match{
		ID:           string(m.ID),
		LobbyCode:    string(m.LobbyCode),
		PlayedAt:     m.PlayedAt,
		Teams:        teams,
		Score:        score,
		Winner:       string(m.Winner),
		IsDraw:       m.IsDraw,
		Team1Average: m.Team1Average,
		Team2Average: m.Team2Average,
		Deltas:       deltas,
	}
}

// LeaderboardEntry is one row of the leaderboard
type LeaderboardEntry struct {
	Position int    `json:"position"`
	Player   Player `json:"player"`
}

// LeaderboardFromModel converts an ordered player list
func LeaderboardFromModel(players []*model.Player) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{Position: i + 1, Player: PlayerFromModel(p)}
	}
	return entries
}

// SessionInfo reports the caller's current lobby, if any
type SessionInfo struct {
	LobbyCode string `json:"lobby_code,omitempty"`
}
