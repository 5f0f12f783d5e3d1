package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidClass   = errors.New("unknown class")

	// Session errors
	ErrSessionNotFound = errors.New("no active session")

	// Lobby errors
	ErrLobbyNotFound    = errors.New("lobby not found")
	ErrNotHost          = errors.New("player is not the host")
	ErrNotInLobby       = errors.New("player is not in lobby")
	ErrAlreadyInLobby   = errors.New("player is already in a lobby")
	ErrWrongPhase       = errors.New("command not valid in current phase")
	ErrRosterTooSmall   = errors.New("not enough players to form two teams")
	ErrInvalidCapacity  = errors.New("capacity must be an even number of at least 4")
	ErrCannotKickHost   = errors.New("the host cannot be kicked")

	// Captain/draft errors
	ErrAlreadyCaptain   = errors.New("player is already a captain")
	ErrNotCaptain       = errors.New("player is not a captain")
	ErrCaptainsChosen   = errors.New("both captains have already been chosen")
	ErrAlreadyPicked    = errors.New("player has already been picked")
	ErrNotYourTurn      = errors.New("not this captain's turn to pick")

	// Match errors
	ErrInvalidTeam   = errors.New("unknown team")
	ErrMatchDecided  = errors.New("match result has already been recorded")
	ErrMatchNotFound = errors.New("match not found")
)
