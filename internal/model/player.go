package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Class is one of the fixed set of playable classes
type Class string

const (
	ClassTank    Class = "tank"
	ClassDamage  Class = "damage"
	ClassSupport Class = "support"
)

// Classes lists every playable class
var Classes = []Class{ClassTank, ClassDamage, ClassSupport}

// ValidClass reports whether c is a known class
func ValidClass(c Class) bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// ClassStats holds per-category lifetime counters
type ClassStats struct {
	Kills   int
	Deaths  int
	Assists int
	Damage  int
	Healing int
}

// Add accumulates another stat block into this one
func (s *ClassStats) Add(other ClassStats) {
	s.Kills += other.Kills
	s.Deaths += other.Deaths
	s.Assists += other.Assists
	s.Damage += other.Damage
	s.Healing += other.Healing
}

// LifetimeStats aggregates a player's stats overall and per class
type LifetimeStats struct {
	Total    ClassStats
	PerClass map[Class]ClassStats
}

// Player represents a participant with a persistent skill rating.
// Created on first lobby interaction; mutated only through the
// rating-update and stat-accrual operations; never deleted.
type Player struct {
	ID          PlayerID
	DisplayName string
	AvatarURL   string

	// Rating fields. GamesPlayed == Wins + Losses after any
	// rating-affecting update; draws touch none of them.
	Rating      int
	Wins        int
	Losses      int
	GamesPlayed int

	Stats *LifetimeStats // nil until first stat accrual

	// Purge immunity bookkeeping. PurgeImmune is the single-use immunity
	// granted when the player is eliminated in a purge. LastFreeImmunity
	// records when the rolling-window free immunity was last consumed.
	PurgeImmune      bool
	LastFreeImmunity time.Time

	IsGuest   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccrueStats adds a stat block for the given class, initialising the
// lifetime stats container on first use
func (p *Player) AccrueStats(class Class, stats ClassStats) {
	if p.Stats == nil {
		p.Stats = &LifetimeStats{PerClass: make(map[Class]ClassStats)}
	}
	if p.Stats.PerClass == nil {
		p.Stats.PerClass = make(map[Class]ClassStats)
	}
	p.Stats.Total.Add(stats)
	byClass := p.Stats.PerClass[class]
	byClass.Add(stats)
	p.Stats.PerClass[class] = byClass
}

// RegisteredPlayer extends Player with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
