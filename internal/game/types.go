// internal/game/types.go
//
// Core type definitions for the Connections game engine.
// Defines:
//   - State: coarse lifecycle of a play session (idle/playing/won/lost).
//   - TileStatus: per-item display state on the grid.
//   - Snapshot: read-only view of a game handed to the play surface.

package game

import (
	"time"

	"github.com/robalobadob/connections/internal/puzzle"
)

const (
	// SelectionSize is how many items make up one guess.
	SelectionSize = 4
	// MaxMistakes ends the game once reached.
	MaxMistakes = 4
	// WrongDisplay is how long a wrong guess stays marked.
	WrongDisplay = time.Second
)

// State represents the lifecycle of a game session.
type State int

const (
	Idle State = iota
	Active
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Active:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "idle"
	}
}

// MarshalText encodes the state as its string form.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// TileStatus is the display state of one grid item.
// Possible values:
//   - "default":  not selected, not found.
//   - "selected": part of the current selection.
//   - "found":    belongs to a group already found.
//   - "wrong":    part of the last incorrect guess (transient).
type TileStatus string

const (
	TileDefault  TileStatus = "default"
	TileSelected TileStatus = "selected"
	TileFound    TileStatus = "found"
	TileWrong    TileStatus = "wrong"
)

// Tile is one cell of the shuffled grid.
type Tile struct {
	Item   string          `json:"item"`
	Status TileStatus      `json:"status"`
	Group  puzzle.GroupKey `json:"group,omitempty"` // set once the group is found
}

// FoundGroup is a solved group, revealed with its title and items.
type FoundGroup struct {
	Key   puzzle.GroupKey `json:"key"`
	Title string          `json:"title"`
	Items []string        `json:"items"`
}

// Snapshot is a point-in-time copy of a game's state.
type Snapshot struct {
	ID                string       `json:"id"`
	State             State        `json:"state"`
	Active            bool         `json:"isGameActive"`
	Won               bool         `json:"isGameWon"`
	Grid              []Tile       `json:"grid"`
	Selected          []string     `json:"selectedItems"`
	Found             []FoundGroup `json:"foundGroups"`
	Mistakes          int          `json:"mistakes"`
	MistakesRemaining int          `json:"mistakesRemaining"`
	Wrong             []string     `json:"wrongItems"`
}

// Outcome describes the result of a submitted guess.
type Outcome struct {
	Correct bool            `json:"correct"`
	Group   puzzle.GroupKey `json:"group,omitempty"`
	State   State           `json:"state"`
}
