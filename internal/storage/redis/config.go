package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SessionTTL bounds how long a stale identity -> lobby mapping can
	// outlive its lobby if cleanup is missed
	SessionTTL time.Duration

	// GuestPlayerTTL expires guest player records; registered players
	// never expire
	GuestPlayerTTL time.Duration

	// RecentMatchLimit caps the global recent-match list length
	RecentMatchLimit int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		SessionTTL:       12 * time.Hour,
		GuestPlayerTTL:   0, // guests carry ratings, keep them by default
		RecentMatchLimit: 500,
	}
}
