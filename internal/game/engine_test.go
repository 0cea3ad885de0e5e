package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/connections/internal/puzzle"
)

// manualClock collects scheduled callbacks so tests decide when they fire.
type manualClock struct {
	pending []func()
	delays  []time.Duration
}

func (c *manualClock) schedule(d time.Duration, f func()) {
	c.delays = append(c.delays, d)
	c.pending = append(c.pending, f)
}

func (c *manualClock) fire(i int) { c.pending[i]() }

func fourGroups() puzzle.Definition {
	return puzzle.NewDefinition([puzzle.GroupCount]puzzle.Group{
		{Title: "A", ItemsInput: "a1, a2, a3, a4"},
		{Title: "B", ItemsInput: "b1, b2, b3, b4"},
		{Title: "C", ItemsInput: "c1, c2, c3, c4"},
		{Title: "D", ItemsInput: "d1, d2, d3, d4"},
	})
}

func newTestGame(t *testing.T) (*Game, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	g, err := New(fourGroups(), WithRand(rand.New(rand.NewPCG(3, 4))), WithScheduler(clock.schedule))
	require.NoError(t, err)
	return g, clock
}

func selectAll(g *Game, items ...string) {
	for _, it := range items {
		g.Toggle(it)
	}
}

func TestNewRejectsInvalidDefinition(t *testing.T) {
	def := fourGroups()
	def.SetItemsInput(4, "d1, d2, d3")

	g, err := New(def)
	assert.Nil(t, g)
	var verr *puzzle.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations[0], "15 items added")
}

func TestNewGameStartsActive(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.Snapshot()

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, Active, s.State)
	assert.True(t, s.Active)
	assert.False(t, s.Won)
	assert.Len(t, s.Grid, 16)
	assert.Empty(t, s.Selected)
	assert.Empty(t, s.Found)
	assert.Equal(t, 0, s.Mistakes)
	assert.Equal(t, MaxMistakes, s.MistakesRemaining)

	seen := map[string]bool{}
	for _, tile := range s.Grid {
		assert.Equal(t, TileDefault, tile.Status)
		seen[tile.Item] = true
	}
	assert.Len(t, seen, 16)
}

func TestToggleSelection(t *testing.T) {
	g, _ := newTestGame(t)

	assert.True(t, g.Toggle("a1"))
	assert.True(t, g.Toggle("b1"))
	assert.True(t, g.Toggle("a1"), "second click deselects")
	assert.Equal(t, []string{"b1"}, g.Snapshot().Selected)

	selectAll(g, "c1", "d1", "a2")
	assert.False(t, g.Toggle("a3"), "fifth item is ignored")
	assert.Equal(t, []string{"b1", "c1", "d1", "a2"}, g.Snapshot().Selected)

	assert.False(t, g.Toggle("not-in-grid"))

	g.DeselectAll()
	assert.Empty(t, g.Snapshot().Selected)
}

func TestSubmitCorrectGroup(t *testing.T) {
	g, _ := newTestGame(t)
	selectAll(g, "a3", "a1", "a4", "a2")

	out, err := g.Submit()
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, puzzle.GroupKey(1), out.Group)

	s := g.Snapshot()
	assert.Equal(t, 0, s.Mistakes)
	assert.Empty(t, s.Selected)
	require.Len(t, s.Found, 1)
	assert.Equal(t, FoundGroup{Key: 1, Title: "A", Items: []string{"a1", "a2", "a3", "a4"}}, s.Found[0])

	for _, tile := range s.Grid {
		if tile.Item[0] == 'a' {
			assert.Equal(t, TileFound, tile.Status)
			assert.Equal(t, puzzle.GroupKey(1), tile.Group)
		}
	}
}

func TestExampleScenario(t *testing.T) {
	g, clock := newTestGame(t)

	selectAll(g, "a1", "a2", "a3", "a4")
	_, err := g.Submit()
	require.NoError(t, err)

	// a1 belongs to a found group, so the click is ignored.
	selectAll(g, "b1", "c1", "d1", "a1")
	assert.Equal(t, []string{"b1", "c1", "d1"}, g.Snapshot().Selected)

	g.Toggle("b2")
	out, err := g.Submit()
	require.NoError(t, err)
	assert.False(t, out.Correct)

	s := g.Snapshot()
	assert.Equal(t, 1, s.Mistakes)
	assert.Len(t, s.Found, 1)
	assert.Empty(t, s.Selected)
	assert.Equal(t, []string{"b1", "c1", "d1", "b2"}, s.Wrong)
	require.Len(t, clock.delays, 1)
	assert.Equal(t, WrongDisplay, clock.delays[0])
}

func TestSubmitRequiresFourItems(t *testing.T) {
	g, _ := newTestGame(t)
	selectAll(g, "a1", "a2", "a3")

	_, err := g.Submit()
	assert.ErrorIs(t, err, ErrIncompleteSelection)
	s := g.Snapshot()
	assert.Equal(t, 0, s.Mistakes)
	assert.Len(t, s.Selected, 3, "selection untouched")
}

func TestWinIgnoresRemainingMistakeBudget(t *testing.T) {
	g, _ := newTestGame(t)

	selectAll(g, "a1", "b1", "c1", "d1")
	_, _ = g.Submit()

	for _, grp := range [][]string{
		{"a1", "a2", "a3", "a4"},
		{"b1", "b2", "b3", "b4"},
		{"c1", "c2", "c3", "c4"},
		{"d1", "d2", "d3", "d4"},
	} {
		selectAll(g, grp...)
		_, err := g.Submit()
		require.NoError(t, err)
	}

	s := g.Snapshot()
	assert.Equal(t, Won, s.State)
	assert.True(t, s.Won)
	assert.False(t, s.Active)
	assert.Equal(t, 1, s.Mistakes)
	assert.Len(t, s.Found, 4)
}

func TestFourMistakesLoses(t *testing.T) {
	g, _ := newTestGame(t)

	for i := 0; i < MaxMistakes; i++ {
		selectAll(g, "a1", "b1", "c1", "d1")
		out, err := g.Submit()
		require.NoError(t, err)
		assert.False(t, out.Correct)
	}

	s := g.Snapshot()
	assert.Equal(t, Lost, s.State)
	assert.False(t, s.Active)
	assert.False(t, s.Won)
	assert.Equal(t, MaxMistakes, s.Mistakes)
	assert.Equal(t, 0, s.MistakesRemaining)
}

func TestFinishedGameIsTerminal(t *testing.T) {
	g, _ := newTestGame(t)
	for i := 0; i < MaxMistakes; i++ {
		selectAll(g, "a1", "b1", "c1", "d1")
		_, _ = g.Submit()
	}

	assert.False(t, g.Toggle("a1"))
	g.DeselectAll()
	_, err := g.Submit()
	assert.ErrorIs(t, err, ErrNotActive)

	s := g.Snapshot()
	assert.Equal(t, MaxMistakes, s.Mistakes)
	assert.Empty(t, s.Found)
}

func TestWrongItemsClearAfterDisplayWindow(t *testing.T) {
	g, clock := newTestGame(t)

	selectAll(g, "a1", "b1", "c1", "d1")
	_, _ = g.Submit()
	selectAll(g, "a2", "b2", "c2", "d2")
	_, _ = g.Submit()
	require.Len(t, clock.pending, 2)

	// The first guess's timer is stale and must not clear the second guess.
	clock.fire(0)
	assert.Equal(t, []string{"a2", "b2", "c2", "d2"}, g.Snapshot().Wrong)

	var wrongTiles int
	for _, tile := range g.Snapshot().Grid {
		if tile.Status == TileWrong {
			wrongTiles++
		}
	}
	assert.Equal(t, 4, wrongTiles)

	clock.fire(1)
	assert.Empty(t, g.Snapshot().Wrong)

	// Firing again is harmless.
	clock.fire(1)
	assert.Empty(t, g.Snapshot().Wrong)
}

func TestDefaultSchedulerClearsWrongItems(t *testing.T) {
	g, err := New(fourGroups(), WithWrongDisplay(10*time.Millisecond))
	require.NoError(t, err)

	selectAll(g, "a1", "b1", "c1", "d1")
	_, _ = g.Submit()
	assert.Len(t, g.Snapshot().Wrong, 4)

	assert.Eventually(t, func() bool {
		return len(g.Snapshot().Wrong) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "playing", Active.String())
	assert.Equal(t, "won", Won.String())
	assert.Equal(t, "lost", Lost.String())
}
