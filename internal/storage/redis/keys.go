package redis

import (
	"fmt"

	"github.com/scrimqueue/draftlobby/internal/model"
)

// Key prefix for all stored data
const keyPrefix = "draftlobby"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// ratingIndexKey returns the sorted set indexing players by rating
func ratingIndexKey() string {
	return fmt.Sprintf("%s:idx:rating", keyPrefix)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// sessionKey returns the Redis key for a player's lobby session
func sessionKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// lobbySessionsKey returns the SET of player ids with sessions in a lobby
func lobbySessionsKey(code model.LobbyCode) string {
	return fmt.Sprintf("%s:idx:lobby_sessions:%s", keyPrefix, code)
}

// recentMatchesKey returns the LIST of recent match records, newest first
func recentMatchesKey() string {
	return fmt.Sprintf("%s:matches:recent", keyPrefix)
}

// playerMatchesKey returns the LIST of a player's match records, newest first
func playerMatchesKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:matches:player:%s", keyPrefix, id)
}
