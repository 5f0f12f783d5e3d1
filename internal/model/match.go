package model

import "time"

// MatchID uniquely identifies a recorded match
type MatchID string

// RatingDelta is one player's rating movement from a match
type RatingDelta struct {
	PlayerID PlayerID
	Old      int
	New      int
	Change   int
}

// MatchRecord is an immutable snapshot written after a match concludes.
// Append-only; never mutated.
type MatchRecord struct {
	ID        MatchID
	LobbyCode LobbyCode
	PlayedAt  time.Time

	Teams  map[TeamID][]PlayerID
	Score  map[TeamID]int
	Winner TeamID // empty on a draw
	IsDraw bool

	// Rounded team averages for display/audit. On a decisive result
	// these are the rating inputs; on a draw they come from the roster
	// snapshots, since no rating update runs.
	Team1Average int
	Team2Average int

	Deltas []RatingDelta // empty on a draw
}

// Involves reports whether the player was on either team
func (m *MatchRecord) Involves(id PlayerID) bool {
	for _, members := range m.Teams {
		for _, member := range members {
			if member == id {
				return true
			}
		}
	}
	return false
}
