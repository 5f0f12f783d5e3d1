package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccrueStatsRequest is the request body for recording post-game stats
type AccrueStatsRequest struct {
	Class   string `json:"class"`
	Kills   int    `json:"kills"`
	Deaths  int    `json:"deaths"`
	Assists int    `json:"assists"`
	Damage  int    `json:"damage"`
	Healing int    `json:"healing"`
}

// CreateLobbyRequest is the request body for creating a lobby
type CreateLobbyRequest struct {
	Public   bool `json:"public"`
	Capacity int  `json:"capacity,omitempty"`
}

// KickRequest is the request body for kicking a player from a lobby
type KickRequest struct {
	PlayerID string `json:"player_id"`
}

// SelectCaptainRequest is the request body for appointing a captain
type SelectCaptainRequest struct {
	PlayerID string `json:"player_id"`
}

// DraftPickRequest is the request body for a captain's draft pick
type DraftPickRequest struct {
	PlayerID string `json:"player_id"`
}

// ScoreRequest is the request body for crediting a team with a point
type ScoreRequest struct {
	Team string `json:"team"`
}

// DeclareWinnerRequest is the request body for declaring the match winner
type DeclareWinnerRequest struct {
	Team string `json:"team"`
}
