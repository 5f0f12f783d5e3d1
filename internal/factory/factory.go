package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/scrimqueue/draftlobby/internal/dependencies/clock"
	"github.com/scrimqueue/draftlobby/internal/dependencies/random"
	"github.com/scrimqueue/draftlobby/internal/notify"
	"github.com/scrimqueue/draftlobby/internal/registry"
	"github.com/scrimqueue/draftlobby/internal/services/auth"
	lobbysvc "github.com/scrimqueue/draftlobby/internal/services/lobby"
	playersvc "github.com/scrimqueue/draftlobby/internal/services/player"
	"github.com/scrimqueue/draftlobby/internal/sse"
	"github.com/scrimqueue/draftlobby/internal/storage"
	"github.com/scrimqueue/draftlobby/internal/storage/memory"
	redisstorage "github.com/scrimqueue/draftlobby/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry      *registry.Registry
	AuthService   *auth.Service
	PlayerService *playersvc.Service
	LobbyService  *lobbysvc.Service
	HubManager    *sse.HubManager
	Broadcaster   *sse.Broadcaster
	Notifier      notify.Notifier
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// LobbyRules holds lobby lifecycle tunables (optional)
	// If zero value, defaults to lobby.DefaultRules()
	LobbyRules lobbysvc.Rules
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// WebhookURL, when set, delivers match-finished notifications via
	// HTTP POST instead of logging them
	WebhookURL string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	// Use default lobby rules if not provided
	rules := cfg.LobbyRules
	if rules.DefaultCapacity == 0 {
		rules = lobbysvc.DefaultRules()
	}

	var notifier notify.Notifier
	if cfg.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.WebhookURL, logger)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	return newWithDependencies(store, clk, rnd, authCfg, rules, notifier, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	rules lobbysvc.Rules,
	notifier notify.Notifier,
	logger *slog.Logger,
) *App {
	reg := registry.New(rnd, clk, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	authService := auth.New(store, clk, authCfg)
	playerService := playersvc.New(store, clk)
	lobbyService := lobbysvc.New(reg, store, playerService, notifier, broadcaster, clk, rnd, rules, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		Registry:      reg,
		AuthService:   authService,
		PlayerService: playerService,
		LobbyService:  lobbyService,
		HubManager:    hubManager,
		Broadcaster:   broadcaster,
		Notifier:      notifier,
	}
}
