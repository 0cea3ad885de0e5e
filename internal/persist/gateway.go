// internal/persist/gateway.go
//
// Persistence gateway between puzzle definitions and the remote store.
// Responsibilities:
//   - Save: strip derived items, keep {title, itemsInput} per group plus the
//     overall title (blank stored as absent), return the store-assigned id.
//   - Load: fetch by id, distinguish "no such puzzle" from failures, and
//     rebuild the definition by re-deriving items from itemsInput.
//   - Build share and edit links for a saved puzzle.
//
// Store errors are logged here and replaced with a user-facing message;
// callers never see the backend's error text.

package persist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/store"
)

const (
	saveFailedMsg = "Failed to save game. Please try again."
	loadFailedMsg = "Failed to load game. Please check the link and try again."
	// NotFoundMsg is shown when a link points at a puzzle that does not exist.
	NotFoundMsg = "Game not found. Please check the link and try again."
)

// PersistenceError is a recoverable store failure with a message safe to show.
type PersistenceError struct {
	Op  string // "save" or "load"
	msg string
	err error
}

func (e *PersistenceError) Error() string { return e.msg }

// Unwrap exposes the cause to errors.Is/As; it is not part of Error().
func (e *PersistenceError) Unwrap() error { return e.err }

// Loaded is a puzzle reconstructed from the store.
type Loaded struct {
	ID         string
	Title      string
	Definition puzzle.Definition
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Gateway owns translation between definitions and stored records.
type Gateway struct {
	store  store.Puzzles
	origin string
}

// New builds a Gateway over st. origin is the public base URL used in
// share links, e.g. "https://example.com".
func New(st store.Puzzles, origin string) *Gateway {
	return &Gateway{store: st, origin: strings.TrimRight(origin, "/")}
}

// Save stores def with the given overall title and returns the new id.
func (g *Gateway) Save(ctx context.Context, def puzzle.Definition, title string) (string, error) {
	rec := store.SavedPuzzle{Title: strings.TrimSpace(title)}
	for i, grp := range def.Groups() {
		rec.Groups[i] = store.SavedGroup{Title: grp.Title, ItemsInput: grp.ItemsInput}
	}

	saved, err := g.store.Create(ctx, rec)
	if err != nil {
		log.Error().Err(err).Msg("save puzzle")
		return "", &PersistenceError{Op: "save", msg: saveFailedMsg, err: err}
	}
	log.Info().Str("puzzleId", saved.ID).Msg("puzzle saved")
	return saved.ID, nil
}

// Load fetches a puzzle by id. The bool is false, with a nil error, when no
// puzzle has that id.
func (g *Gateway) Load(ctx context.Context, id string) (Loaded, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Loaded{}, false, nil
	}

	rec, err := g.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug().Str("puzzleId", id).Msg("puzzle not found")
		return Loaded{}, false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("puzzleId", id).Msg("load puzzle")
		return Loaded{}, false, &PersistenceError{Op: "load", msg: loadFailedMsg, err: err}
	}

	var groups [puzzle.GroupCount]puzzle.Group
	for i, sg := range rec.Groups {
		groups[i] = puzzle.Group{Title: sg.Title, ItemsInput: sg.ItemsInput}
	}
	return Loaded{
		ID:         rec.ID,
		Title:      rec.Title,
		Definition: puzzle.NewDefinition(groups),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, true, nil
}

// ShareURL is the read-only play link for id.
func (g *Gateway) ShareURL(id string) string { return ShareURL(g.origin, id) }

// EditURL is the link that opens id in the editable builder.
func (g *Gateway) EditURL(id string) string { return EditURL(g.origin, id) }
