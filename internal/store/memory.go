// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds the single current quiz session; state is lost when the process restarts.
//
// Characteristics:
//   - Exactly one slot: Save replaces whatever game was there.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Current returns ErrNotFound until the first Save.
//
// Read-modify-write sequences on the returned *game.Game must be serialised by the
// caller (the quiz service holds its own lock for that).

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/borders/apps/go-server/internal/game"
)

// ErrNotFound is returned when no game has been saved yet.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the current session.
// A multi-session variant would key games by ID with the same semantics per key.
type Store interface {
	// Save makes g the current game, discarding the previous one.
	Save(ctx context.Context, g *game.Game) error

	// Current returns the current game or ErrNotFound.
	Current(ctx context.Context) (*game.Game, error)

	// Clear drops the current game.
	Clear(ctx context.Context) error
}

// memory is the single-slot Store implementation.
type memory struct {
	mu  sync.RWMutex // guards cur
	cur *game.Game
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	if g == nil {
		return errors.New("store: nil game")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = g
	return nil
}

func (m *memory) Current(ctx context.Context) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cur == nil {
		return nil, ErrNotFound
	}
	return m.cur, nil
}

func (m *memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = nil
	return nil
}
