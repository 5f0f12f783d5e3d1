package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scrimqueue/draftlobby/internal/model"
	"github.com/scrimqueue/draftlobby/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}

	// Pipeline the record write with the rating index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, ttl)
	pipe.ZAdd(ctx, ratingIndexKey(), redis.Z{
		Score:  float64(player.Rating),
		Member: string(player.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit, minGames int) ([]*model.Player, error) {
	// Walk the rating index from the top; over-fetch because the
	// min-games filter is applied after loading each record.
	ids, err := s.client.ZRevRange(ctx, ratingIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var ranked []*model.Player
	for _, id := range ids {
		if limit > 0 && len(ranked) >= limit {
			break
		}
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				// Index entry outlived an expired guest record
				continue
			}
			return nil, err
		}
		if player.GamesPlayed >= minGames {
			ranked = append(ranked, player)
		}
	}
	return ranked, nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Session operations

func (s *Storage) SetSession(ctx context.Context, id model.PlayerID, code model.LobbyCode) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(id), string(code), s.cfg.SessionTTL)
	pipe.SAdd(ctx, lobbySessionsKey(code), string(id))
	if s.cfg.SessionTTL > 0 {
		pipe.Expire(ctx, lobbySessionsKey(code), s.cfg.SessionTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.PlayerID) (model.LobbyCode, error) {
	code, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrSessionNotFound
		}
		return "", err
	}
	return model.LobbyCode(code), nil
}

func (s *Storage) ClearSession(ctx context.Context, id model.PlayerID) error {
	code, err := s.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, lobbySessionsKey(code), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ClearSessionsForLobby(ctx context.Context, code model.LobbyCode) error {
	ids, err := s.client.SMembers(ctx, lobbySessionsKey(code)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKey(model.PlayerID(id)))
	}
	pipe.Del(ctx, lobbySessionsKey(code))
	_, err = pipe.Exec(ctx)
	return err
}

// Match history operations

func (s *Storage) AppendMatch(ctx context.Context, record *model.MatchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, recentMatchesKey(), data)
	if s.cfg.RecentMatchLimit > 0 {
		pipe.LTrim(ctx, recentMatchesKey(), 0, int64(s.cfg.RecentMatchLimit-1))
	}
	seen := make(map[model.PlayerID]bool)
	for _, members := range record.Teams {
		for _, id := range members {
			if seen[id] {
				continue
			}
			seen[id] = true
			pipe.LPush(ctx, playerMatchesKey(id), data)
			if s.cfg.RecentMatchLimit > 0 {
				pipe.LTrim(ctx, playerMatchesKey(id), 0, int64(s.cfg.RecentMatchLimit-1))
			}
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RecentMatches(ctx context.Context, limit int) ([]*model.MatchRecord, error) {
	return s.readMatchList(ctx, recentMatchesKey(), limit)
}

func (s *Storage) MatchesInvolving(ctx context.Context, id model.PlayerID, limit int) ([]*model.MatchRecord, error) {
	return s.readMatchList(ctx, playerMatchesKey(id), limit)
}

func (s *Storage) readMatchList(ctx context.Context, key string, limit int) ([]*model.MatchRecord, error) {
	end := int64(-1)
	if limit > 0 {
		end = int64(limit - 1)
	}
	entries, err := s.client.LRange(ctx, key, 0, end).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.MatchRecord, 0, len(entries))
	for _, entry := range entries {
		var record model.MatchRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, nil
}
