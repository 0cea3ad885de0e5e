// internal/store/store.go
//
// Remote store contract for authored puzzles.
// A backend is a document store that:
//   - creates a record under a generated id,
//   - looks a record up by id (ErrNotFound when absent),
//   - assigns creation/update timestamps itself.
//
// Only the persist package translates between puzzle definitions and these
// records; nothing else should depend on the stored shape.

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("not found")

// SavedGroup is the persisted form of a group: derived items are never stored.
type SavedGroup struct {
	Title      string `json:"title"`
	ItemsInput string `json:"itemsInput"`
}

// SavedPuzzle is the stored document.
type SavedPuzzle struct {
	ID        string        `json:"id,omitempty"`
	Title     string        `json:"title,omitempty"` // empty means absent
	Groups    [4]SavedGroup `json:"groups"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Puzzles defines the persistence interface for saved puzzles.
// Implementations may be backed by memory (this package), SQLite or Redis.
type Puzzles interface {
	// Create stores p under a new id and returns the record as stored,
	// with ID, CreatedAt and UpdatedAt filled in. Any ID on p is ignored.
	Create(ctx context.Context, p SavedPuzzle) (SavedPuzzle, error)

	// Get retrieves a puzzle by id.
	// Returns ErrNotFound if there is no such record.
	Get(ctx context.Context, id string) (SavedPuzzle, error)
}
