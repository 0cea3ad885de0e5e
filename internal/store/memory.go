// internal/store/memory.go
//
// In-memory implementation of the Puzzles interface.
// Used in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores SavedPuzzle values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memory is an in-memory map-based Puzzles implementation.
type memory struct {
	mu      sync.RWMutex           // guards puzzles map
	puzzles map[string]SavedPuzzle // keyed by SavedPuzzle.ID
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Puzzles store.
func NewMemoryStore() Puzzles {
	return &memory{
		puzzles: make(map[string]SavedPuzzle),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create assigns an id and timestamps, then stores a copy of p.
func (m *memory) Create(ctx context.Context, p SavedPuzzle) (SavedPuzzle, error) {
	if err := ctx.Err(); err != nil {
		return SavedPuzzle{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.puzzles[p.ID] = p
	return p, nil
}

// Get looks up a puzzle by ID.
func (m *memory) Get(ctx context.Context, id string) (SavedPuzzle, error) {
	if err := ctx.Err(); err != nil {
		return SavedPuzzle{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.puzzles[id]; ok {
		return p, nil
	}
	return SavedPuzzle{}, ErrNotFound
}
