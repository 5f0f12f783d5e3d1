// Package registry owns the in-memory collection of active lobbies. It
// serializes all access to a lobby through a per-lobby mutex and hosts
// the deferred tasks (purge pacing, teardown grace) keyed by lobby code.
package registry

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scrimqueue/draftlobby/internal/dependencies/clock"
	"github.com/scrimqueue/draftlobby/internal/dependencies/random"
	"github.com/scrimqueue/draftlobby/internal/model"
)

const (
	// CodeLength is the length of generated lobby codes
	CodeLength = 6
	// CodeAlphabet is the characters used in lobby codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type handle struct {
	mu    sync.Mutex
	lobby *model.Lobby
}

// Registry is the owned collection of active lobbies, keyed by code
type Registry struct {
	mu      sync.RWMutex
	lobbies map[model.LobbyCode]*handle
	tasks   map[model.LobbyCode][]clock.Timer

	random random.Random
	clock  clock.Clock
	logger *slog.Logger
}

// New creates an empty Registry
func New(rnd random.Random, clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		lobbies: make(map[model.LobbyCode]*handle),
		tasks:   make(map[model.LobbyCode][]clock.Timer),
		random:  rnd,
		clock:   clk,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// NormalizeCode folds a user-supplied code to its canonical form
func NormalizeCode(code model.LobbyCode) model.LobbyCode {
	return model.LobbyCode(strings.ToUpper(string(code)))
}

// Create generates a collision-free code, invokes build to construct the
// lobby for that code, and installs it. Generation retries until the code
// is unused among currently-registered lobbies.
func (r *Registry) Create(build func(code model.LobbyCode) *model.Lobby) *model.Lobby {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code model.LobbyCode
	for {
		code = model.LobbyCode(r.random.String(CodeLength, CodeAlphabet))
		if _, exists := r.lobbies[code]; !exists {
			break
		}
	}

	lobby := build(code)
	r.lobbies[code] = &handle{lobby: lobby}
	r.logger.Info("lobby registered", slog.String("code", string(code)))
	return lobby.Clone()
}

// WithLobby runs fn with exclusive ownership of the lobby for the full
// read-modify-write cycle. Returns ErrLobbyNotFound if the code is not
// registered (including when the lobby was destroyed before fn ran).
func (r *Registry) WithLobby(code model.LobbyCode, fn func(lobby *model.Lobby) error) error {
	code = NormalizeCode(code)

	r.mu.RLock()
	h, ok := r.lobbies[code]
	r.mu.RUnlock()
	if !ok {
		return model.ErrLobbyNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// The lobby may have been destroyed while waiting for its lock
	r.mu.RLock()
	current, ok := r.lobbies[code]
	r.mu.RUnlock()
	if !ok || current != h {
		return model.ErrLobbyNotFound
	}

	return fn(h.lobby)
}

// Get returns a snapshot of the lobby, or ErrLobbyNotFound
func (r *Registry) Get(code model.LobbyCode) (*model.Lobby, error) {
	var snapshot *model.Lobby
	err := r.WithLobby(code, func(lobby *model.Lobby) error {
		snapshot = lobby.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ListPublicWaiting returns snapshots of public lobbies in the waiting
// phase, newest first
func (r *Registry) ListPublicWaiting() []*model.Lobby {
	r.mu.RLock()
	handles := make([]*handle, 0, len(r.lobbies))
	for _, h := range r.lobbies {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	var result []*model.Lobby
	for _, h := range handles {
		h.mu.Lock()
		if h.lobby.Public && h.lobby.Phase == model.PhaseWaiting {
			result = append(result, h.lobby.Clone())
		}
		h.mu.Unlock()
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Destroy removes the lobby from the registry and cancels its scheduled
// tasks. Returns false if the code was not registered.
func (r *Registry) Destroy(code model.LobbyCode) bool {
	return r.DestroyIf(code, func(*model.Lobby) bool { return true })
}

// DestroyIf removes the lobby only if pred approves. The decision is
// made under the per-lobby lock, so it cannot interleave with a command
// running inside WithLobby. Must not be called from within WithLobby
// for the same code.
func (r *Registry) DestroyIf(code model.LobbyCode, pred func(l *model.Lobby) bool) bool {
	code = NormalizeCode(code)

	r.mu.RLock()
	h, ok := r.lobbies[code]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r.mu.Lock()
	current, ok := r.lobbies[code]
	if !ok || current != h || !pred(h.lobby) {
		r.mu.Unlock()
		return false
	}
	delete(r.lobbies, code)
	timers := r.tasks[code]
	delete(r.tasks, code)
	r.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
	r.logger.Info("lobby destroyed", slog.String("code", string(code)))
	return true
}

// Schedule registers a deferred task for the lobby. The task re-enters
// per-lobby serialization through WithLobby when it fires, so a lobby
// destroyed first makes it a no-op. Cancelled wholesale by Destroy and
// CancelTasks.
func (r *Registry) Schedule(code model.LobbyCode, d time.Duration, fn func()) {
	code = NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lobbies[code]; !ok {
		return
	}
	timer := r.clock.AfterFunc(d, fn)
	r.tasks[code] = append(r.tasks[code], timer)
}

// CancelTasks stops every scheduled task for the lobby. Used by reset,
// which invalidates pending phase-driven callbacks.
func (r *Registry) CancelTasks(code model.LobbyCode) {
	code = NormalizeCode(code)

	r.mu.Lock()
	timers := r.tasks[code]
	delete(r.tasks, code)
	r.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}

// Count returns the number of registered lobbies
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lobbies)
}
