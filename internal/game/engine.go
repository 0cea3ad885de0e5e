// internal/game/engine.go
//
// Core game engine for a single Connections play session.
// Responsibilities:
//   - Create new games from a validated puzzle definition (shuffled 16-item grid).
//   - Toggle item selection (max 4, found groups locked).
//   - Evaluate submitted guesses against the item→group index.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - A wrong guess marks its items for WrongDisplay, then a scheduled
//     callback clears them. Each wrong guess gets a token so a late callback
//     from an older guess never clears a newer one.
//   - Timers fire on their own goroutine, so every method takes g.mu.
package game

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/connections/internal/puzzle"
)

var (
	// ErrNotActive is returned when a move is made on a finished game.
	ErrNotActive = errors.New("game finished")
	// ErrIncompleteSelection is returned by Submit with fewer than 4 items selected.
	ErrIncompleteSelection = errors.New("select exactly 4 items")
)

// Scheduler runs f after d. time.AfterFunc satisfies it.
type Scheduler func(d time.Duration, f func())

// Option customises a Game at construction.
type Option func(*Game)

// WithRand makes the grid shuffle use rng.
func WithRand(rng *rand.Rand) Option { return func(g *Game) { g.rng = rng } }

// WithScheduler replaces the timer used to clear wrong items.
func WithScheduler(s Scheduler) Option { return func(g *Game) { g.after = s } }

// WithWrongDisplay overrides how long wrong items stay marked.
func WithWrongDisplay(d time.Duration) Option { return func(g *Game) { g.wrongDisplay = d } }

// Game holds the state of a single play session.
type Game struct {
	mu sync.Mutex

	id    string
	def   puzzle.Definition
	index puzzle.Index
	grid  []string

	selected []string
	found    []puzzle.GroupKey // in the order they were found
	mistakes int
	state    State

	wrong      []string
	wrongToken uint64

	rng          *rand.Rand
	after        Scheduler
	wrongDisplay time.Duration
}

// New validates def and, if it is playable, returns an active game with a
// freshly shuffled grid. Otherwise it returns a *puzzle.ValidationError.
func New(def puzzle.Definition, opts ...Option) (*Game, error) {
	if err := puzzle.Validate(def).Err(); err != nil {
		return nil, err
	}
	g := &Game{
		id:           uuid.NewString(),
		def:          def,
		index:        puzzle.BuildIndex(def),
		state:        Active,
		selected:     []string{},
		wrongDisplay: WrongDisplay,
		after:        func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
	for _, o := range opts {
		o(g)
	}
	g.grid = puzzle.Shuffle(def.AllItems(), g.rng)
	return g, nil
}

// ID returns the session identifier.
func (g *Game) ID() string { return g.id }

// State reports the current lifecycle state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Toggle selects or deselects item.
// Returns true if the selection changed. Items of found groups, unknown
// items, a fifth selection, and any move on a finished game are ignored.
func (g *Game) Toggle(item string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Active {
		return false
	}
	k, ok := g.index.Lookup(item)
	if !ok || g.isFound(k) {
		return false
	}
	if i := slices.Index(g.selected, item); i >= 0 {
		g.selected = slices.Delete(g.selected, i, i+1)
		return true
	}
	if len(g.selected) >= SelectionSize {
		return false
	}
	g.selected = append(g.selected, item)
	return true
}

// DeselectAll clears the current selection.
func (g *Game) DeselectAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Active {
		g.selected = []string{}
	}
}

// Submit evaluates the current selection as a guess.
//
// State transitions:
//   - All four items share a group → group found; 4 found → Won.
//   - Otherwise → mistake recorded, items marked wrong; 4 mistakes → Lost.
func (g *Game) Submit() (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Active {
		return Outcome{State: g.state}, ErrNotActive
	}
	if len(g.selected) != SelectionSize {
		return Outcome{State: g.state}, ErrIncompleteSelection
	}

	guess := g.selected
	g.selected = []string{}

	if k, ok := g.singleGroup(guess); ok {
		g.found = append(g.found, k)
		if len(g.found) == puzzle.GroupCount {
			g.state = Won
		}
		return Outcome{Correct: true, Group: k, State: g.state}, nil
	}

	g.mistakes++
	if g.mistakes >= MaxMistakes {
		g.state = Lost
	}
	g.wrong = guess
	g.wrongToken++
	token := g.wrongToken
	g.after(g.wrongDisplay, func() { g.clearWrong(token) })
	return Outcome{State: g.state}, nil
}

// clearWrong drops the wrong-guess marking if it still belongs to token.
func (g *Game) clearWrong(token uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token == g.wrongToken {
		g.wrong = nil
	}
}

// singleGroup returns the group shared by every item, if there is one.
func (g *Game) singleGroup(items []string) (puzzle.GroupKey, bool) {
	var key puzzle.GroupKey
	for i, it := range items {
		k, ok := g.index.Lookup(it)
		if !ok || (i > 0 && k != key) {
			return 0, false
		}
		key = k
	}
	return key, true
}

func (g *Game) isFound(k puzzle.GroupKey) bool {
	return slices.Contains(g.found, k)
}

// Snapshot returns a copy of the game state for display.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		ID:                g.id,
		State:             g.state,
		Active:            g.state == Active,
		Won:               g.state == Won,
		Grid:              make([]Tile, 0, len(g.grid)),
		Selected:          append([]string{}, g.selected...),
		Found:             make([]FoundGroup, 0, len(g.found)),
		Mistakes:          g.mistakes,
		MistakesRemaining: MaxMistakes - g.mistakes,
		Wrong:             append([]string{}, g.wrong...),
	}
	for _, item := range g.grid {
		s.Grid = append(s.Grid, g.tile(item))
	}
	for _, k := range g.found {
		grp := g.def.Group(k)
		s.Found = append(s.Found, FoundGroup{Key: k, Title: grp.Title, Items: grp.Items})
	}
	return s
}

// tile resolves the display status of item: found > wrong > selected > default.
func (g *Game) tile(item string) Tile {
	k, _ := g.index.Lookup(item)
	switch {
	case g.isFound(k):
		return Tile{Item: item, Status: TileFound, Group: k}
	case slices.Contains(g.wrong, item):
		return Tile{Item: item, Status: TileWrong}
	case slices.Contains(g.selected, item):
		return Tile{Item: item, Status: TileSelected}
	default:
		return Tile{Item: item, Status: TileDefault}
	}
}
