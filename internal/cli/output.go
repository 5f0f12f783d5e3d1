package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case Lobby:
		o.printLobby(v)
	case []LobbySummary:
		o.printLobbyList(v)
	case []Match:
		o.printMatches(v)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`
	Rank        string `json:"rank"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	GamesPlayed int    `json:"games_played"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// ClassStats response type
type ClassStats struct {
	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`
	Damage  int `json:"damage"`
	Healing int `json:"healing"`
}

// PlayerStats response type
type PlayerStats struct {
	Total    ClassStats            `json:"total"`
	PerClass map[string]ClassStats `json:"per_class,omitempty"`
}

// RosterMember response type
type RosterMember struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`
	IsHost      bool   `json:"is_host"`
	IsCaptain   bool   `json:"is_captain"`
	Team        string `json:"team,omitempty"`
}

// DraftState response type
type DraftState struct {
	Turn      string `json:"turn"`
	PicksLeft int    `json:"picks_left"`
}

// MatchOutcome response type
type MatchOutcome struct {
	Winner string `json:"winner,omitempty"`
	IsDraw bool   `json:"is_draw"`
}

// Lobby response type
type Lobby struct {
	Code     string              `json:"code"`
	HostID   string              `json:"host_id"`
	Public   bool                `json:"public"`
	Capacity int                 `json:"capacity"`
	Phase    string              `json:"phase"`
	Roster   []RosterMember      `json:"roster"`
	Teams    map[string][]string `json:"teams"`
	Draft    *DraftState         `json:"draft,omitempty"`
	Score    map[string]int      `json:"score"`
	Outcome  *MatchOutcome       `json:"outcome,omitempty"`
}

// LobbySummary response type
type LobbySummary struct {
	Code       string    `json:"code"`
	HostName   string    `json:"host_name"`
	RosterSize int       `json:"roster_size"`
	Capacity   int       `json:"capacity"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingDelta response type
type RatingDelta struct {
	PlayerID string `json:"player_id"`
	Old      int    `json:"old"`
	New      int    `json:"new"`
	Change   int    `json:"change"`
}

// Match response type
type Match struct {
	ID        string              `json:"id"`
	LobbyCode string              `json:"lobby_code"`
	PlayedAt  time.Time           `json:"played_at"`
	Teams     map[string][]string `json:"teams"`
	Score     map[string]int      `json:"score"`
	Winner    string              `json:"winner,omitempty"`
	IsDraw    bool                `json:"is_draw"`
	Deltas    []RatingDelta       `json:"deltas,omitempty"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Position int    `json:"position"`
	Player   Player `json:"player"`
}

// SessionInfo response type
type SessionInfo struct {
	LobbyCode string `json:"lobby_code,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Rating: %d (%s)\n", p.Rating, p.Rank)
	fmt.Printf("Record: %dW-%dL (%d games)\n", p.Wins, p.Losses, p.GamesPlayed)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printPlayerStats(s PlayerStats) {
	fmt.Printf("Total: %d/%d/%d (K/D/A), %d damage, %d healing\n",
		s.Total.Kills, s.Total.Deaths, s.Total.Assists, s.Total.Damage, s.Total.Healing)
	for class, cs := range s.PerClass {
		fmt.Printf("  %s: %d/%d/%d, %d damage, %d healing\n",
			class, cs.Kills, cs.Deaths, cs.Assists, cs.Damage, cs.Healing)
	}
}

func (o *Output) printLobby(l Lobby) {
	fmt.Printf("Lobby: %s\n", l.Code)
	fmt.Printf("Phase: %s\n", l.Phase)
	fmt.Printf("Capacity: %d\n", l.Capacity)
	if l.Public {
		fmt.Println("Visibility: public")
	} else {
		fmt.Println("Visibility: private")
	}

	fmt.Printf("Roster (%d):\n", len(l.Roster))
	for _, m := range l.Roster {
		tags := []string{}
		if m.IsHost {
			tags = append(tags, "host")
		}
		if m.IsCaptain {
			tags = append(tags, "captain")
		}
		if m.Team != "" {
			tags = append(tags, m.Team)
		}
		tagStr := ""
		if len(tags) > 0 {
			tagStr = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s) %d%s\n", m.DisplayName, m.PlayerID, m.Rating, tagStr)
	}

	if l.Draft != nil {
		fmt.Printf("Draft: %s to pick (%d left this turn)\n", l.Draft.Turn, l.Draft.PicksLeft)
	}

	if l.Phase == "playing" || l.Phase == "finished" {
		fmt.Printf("Score: team1 %d - %d team2\n", l.Score["team1"], l.Score["team2"])
	}

	if l.Outcome != nil {
		if l.Outcome.IsDraw {
			fmt.Println("Result: draw")
		} else {
			fmt.Printf("Result: %s wins\n", l.Outcome.Winner)
		}
	}
}

func (o *Output) printLobbyList(lobbies []LobbySummary) {
	if len(lobbies) == 0 {
		fmt.Println("No open lobbies")
		return
	}
	for _, l := range lobbies {
		fmt.Printf("%s  %s  %d/%d\n", l.Code, l.HostName, l.RosterSize, l.Capacity)
	}
}

func (o *Output) printMatches(matches []Match) {
	if len(matches) == 0 {
		fmt.Println("No matches")
		return
	}
	for _, m := range matches {
		result := "draw"
		if !m.IsDraw {
			result = m.Winner + " won"
		}
		fmt.Printf("%s  %s  %d-%d  %s\n",
			m.PlayedAt.Format("2006-01-02 15:04"), m.LobbyCode,
			m.Score["team1"], m.Score["team2"], result)
	}
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}
	for _, e := range entries {
		fmt.Printf("%3d. %-20s %d (%s) %dW-%dL\n",
			e.Position, e.Player.DisplayName, e.Player.Rating, e.Player.Rank,
			e.Player.Wins, e.Player.Losses)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
