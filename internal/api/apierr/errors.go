package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotHost            = "NOT_HOST"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeLobbyNotFound      = "LOBBY_NOT_FOUND"
	CodeMatchNotFound      = "MATCH_NOT_FOUND"
	CodeNoActiveSession    = "NO_ACTIVE_SESSION"
	CodeAlreadyInLobby     = "ALREADY_IN_LOBBY"
	CodeNotInLobby         = "NOT_IN_LOBBY"
	CodeWrongPhase         = "WRONG_PHASE"
	CodeRosterTooSmall     = "ROSTER_TOO_SMALL"
	CodeInvalidCapacity    = "INVALID_CAPACITY"
	CodeCannotKickHost     = "CANNOT_KICK_HOST"
	CodeAlreadyCaptain     = "ALREADY_CAPTAIN"
	CodeNotCaptain         = "NOT_CAPTAIN"
	CodeCaptainsChosen     = "CAPTAINS_CHOSEN"
	CodeAlreadyPicked      = "ALREADY_PICKED"
	CodeInvalidTeam        = "INVALID_TEAM"
	CodeInvalidClass       = "INVALID_CLASS"
	CodeMatchDecided       = "MATCH_DECIDED"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrLobbyNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeLobbyNotFound, "Lobby not found"}}
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNoActiveSession, "Not currently in a lobby"}}
	case errors.Is(err, model.ErrAlreadyInLobby):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInLobby, "Already in a lobby"}}
	case errors.Is(err, model.ErrNotInLobby):
		return &httpError{http.StatusNotFound, APIError{CodeNotInLobby, "Not in this lobby"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrWrongPhase):
		return &httpError{http.StatusConflict, APIError{CodeWrongPhase, "Command not valid in the current phase"}}
	case errors.Is(err, model.ErrRosterTooSmall):
		return &httpError{http.StatusConflict, APIError{CodeRosterTooSmall, "Not enough players to form two teams"}}
	case errors.Is(err, model.ErrInvalidCapacity):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCapacity, "Capacity must be an even number of at least 4"}}
	case errors.Is(err, model.ErrCannotKickHost):
		return &httpError{http.StatusForbidden, APIError{CodeCannotKickHost, "The host cannot be kicked"}}
	case errors.Is(err, model.ErrAlreadyCaptain):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyCaptain, "Player is already a captain"}}
	case errors.Is(err, model.ErrNotCaptain):
		return &httpError{http.StatusForbidden, APIError{CodeNotCaptain, "Player is not a captain"}}
	case errors.Is(err, model.ErrCaptainsChosen):
		return &httpError{http.StatusConflict, APIError{CodeCaptainsChosen, "Both captains have already been chosen"}}
	case errors.Is(err, model.ErrAlreadyPicked):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyPicked, "Player has already been picked"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn to pick"}}
	case errors.Is(err, model.ErrInvalidTeam):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTeam, "Team must be team1 or team2"}}
	case errors.Is(err, model.ErrInvalidClass):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidClass, "Unknown class"}}
	case errors.Is(err, model.ErrMatchDecided):
		return &httpError{http.StatusConflict, APIError{CodeMatchDecided, "Match result has already been recorded"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
