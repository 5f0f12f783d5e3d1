package lobby

import (
	"time"

	"github.com/scrimqueue/draftlobby/internal/rating"
)

// Rules holds the tunable constants of the lobby protocol
type Rules struct {
	// DefaultCapacity is used when a lobby is created without an explicit
	// capacity. Capacity is always even and at least MinRosterToStart.
	DefaultCapacity int

	// MinRosterToStart is the smallest roster that can leave the waiting
	// phase: two non-empty teams need at least 4 players
	MinRosterToStart int

	// WinThreshold is the score a team must reach to win the match
	WinThreshold int

	// PurgeAnnounceDelay is the pause between staged elimination
	// announcements during a purge
	PurgeAnnounceDelay time.Duration

	// ImmunityWindow is the rolling cooldown after which a player's
	// no-cost purge immunity becomes available again
	ImmunityWindow time.Duration

	// FinishedGracePeriod is how long a finished lobby stays visible
	// before it is destroyed
	FinishedGracePeriod time.Duration

	// Rating holds the rating engine constants
	Rating rating.Settings
}

// DefaultRules returns the standard protocol constants
func DefaultRules() Rules {
	return Rules{
		DefaultCapacity:     6,
		MinRosterToStart:    4,
		WinThreshold:        2,
		PurgeAnnounceDelay:  2 * time.Second,
		ImmunityWindow:      5 * time.Hour,
		FinishedGracePeriod: 60 * time.Second,
		Rating:              rating.DefaultSettings(),
	}
}
