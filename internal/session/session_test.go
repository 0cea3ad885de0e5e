package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/connections/internal/game"
	"github.com/robalobadob/connections/internal/persist"
	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/store"
)

func noTimers() game.Option {
	return game.WithScheduler(func(time.Duration, func()) {})
}

func validGroups() [puzzle.GroupCount]puzzle.Group {
	return [puzzle.GroupCount]puzzle.Group{
		{Title: "A", ItemsInput: "a1, a2, a3, a4"},
		{Title: "B", ItemsInput: "b1, b2, b3, b4"},
		{Title: "C", ItemsInput: "c1, c2, c3, c4"},
		{Title: "D", ItemsInput: "d1, d2, d3, d4"},
	}
}

func fillValid(t *testing.T, s *Session) {
	t.Helper()
	for i, g := range validGroups() {
		k := puzzle.Keys[i]
		require.NoError(t, s.UpdateGroup(k, FieldTitle, g.Title))
		require.NoError(t, s.UpdateGroup(k, FieldItemsInput, g.ItemsInput))
	}
}

// stubLoader returns a fixed outcome.
type stubLoader struct {
	loaded persist.Loaded
	found  bool
	err    error
}

func (l stubLoader) Load(context.Context, string) (persist.Loaded, bool, error) {
	return l.loaded, l.found, l.err
}

func loadedValid() persist.Loaded {
	return persist.Loaded{ID: "p1", Title: "Shared", Definition: puzzle.NewDefinition(validGroups())}
}

func TestNewSessionStartsWithExampleGroups(t *testing.T) {
	s := New()
	v := s.View()

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "Fruits", v.Groups[0].Title)
	assert.Equal(t, []string{"Mercury", "Venus", "Earth", "Mars"}, v.Groups[1].Items)
	assert.Equal(t, 8, v.ItemCount)
	assert.Equal(t, 16, v.TargetCount)
	assert.False(t, v.TallyMatches)
	assert.Nil(t, v.Game)
	assert.Equal(t, "Connections Game", v.PageTitle)

	_, err := s.Game()
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestGenerateReportsViolations(t *testing.T) {
	s := New()
	violations, err := s.Generate()
	require.NoError(t, err)
	assert.Len(t, violations, 5) // count, 2 empty titles, 2 empty groups
	assert.Equal(t, violations, s.View().Violations)
	assert.Nil(t, s.View().Game)
}

func TestGenerateStartsGameAndEditDropsIt(t *testing.T) {
	s := New(noTimers())
	fillValid(t, s)

	violations, err := s.Generate()
	require.NoError(t, err)
	assert.Empty(t, violations)

	g, err := s.Game()
	require.NoError(t, err)
	assert.Equal(t, game.Active, g.State())
	require.NotNil(t, s.View().Game)
	assert.Len(t, s.View().Game.Grid, 16)

	// A second generation replaces the session's game.
	_, err = s.Generate()
	require.NoError(t, err)
	g2, _ := s.Game()
	assert.NotEqual(t, g.ID(), g2.ID())

	require.NoError(t, s.UpdateGroup(2, FieldItemsInput, "b1, b2, b3, b5"))
	_, err = s.Game()
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestUpdateGroupRejectsBadInput(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.UpdateGroup(0, FieldTitle, "x"), ErrUnknownGroup)
	assert.ErrorIs(t, s.UpdateGroup(5, FieldTitle, "x"), ErrUnknownGroup)
	assert.ErrorIs(t, s.UpdateGroup(1, Field("items"), "x"), ErrUnknownField)
}

func TestViewOnlyLoadAutoStarts(t *testing.T) {
	s := New(noTimers())
	err := s.Load(context.Background(), stubLoader{loaded: loadedValid(), found: true}, persist.LoadRequest{ID: "p1"})
	require.NoError(t, err)

	v := s.View()
	assert.True(t, v.ViewOnly)
	assert.False(t, v.Loading)
	assert.Equal(t, "Shared", v.Title)
	assert.Equal(t, "Shared - Connections Game", v.PageTitle)
	require.NotNil(t, v.Game)
	assert.Equal(t, game.Active, v.Game.State)

	assert.ErrorIs(t, s.UpdateGroup(1, FieldTitle, "x"), ErrReadOnly)
	assert.ErrorIs(t, s.SetTitle("x"), ErrReadOnly)
	_, err = s.Generate()
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = s.Save(context.Background(), persist.New(store.NewMemoryStore(), "http://x"))
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestViewOnlyLoadOfInvalidPuzzleDoesNotStart(t *testing.T) {
	l := loadedValid()
	l.Definition.SetItemsInput(4, "d1, d2, d3, a1")
	s := New(noTimers())
	require.NoError(t, s.Load(context.Background(), stubLoader{loaded: l, found: true}, persist.LoadRequest{ID: "p1"}))

	v := s.View()
	assert.Nil(t, v.Game)
	assert.NotEmpty(t, v.Violations)
}

func TestEditLoadPopulatesBuilderOnly(t *testing.T) {
	s := New(noTimers())
	req := persist.LoadRequest{ID: "p1", Edit: true}
	require.NoError(t, s.Load(context.Background(), stubLoader{loaded: loadedValid(), found: true}, req))

	v := s.View()
	assert.False(t, v.ViewOnly)
	assert.Nil(t, v.Game)
	assert.Equal(t, "A", v.Groups[0].Title)
	assert.Equal(t, "Connections Game", v.PageTitle)
	require.NoError(t, s.UpdateGroup(1, FieldTitle, "AA"))
}

func TestLoadNotFoundKeepsDefinition(t *testing.T) {
	s := New()
	before := s.View().Groups

	require.NoError(t, s.Load(context.Background(), stubLoader{}, persist.LoadRequest{ID: "missing"}))
	v := s.View()
	assert.Equal(t, "Game not found. Please check the link and try again.", v.LoadError)
	assert.False(t, v.ViewOnly)
	assert.False(t, v.Loading)
	assert.Equal(t, before, v.Groups)
	assert.Nil(t, v.Game)
}

func TestLoadFailureSurfacesMessage(t *testing.T) {
	s := New()
	boom := errors.New("Failed to load game. Please check the link and try again.")
	err := s.Load(context.Background(), stubLoader{err: boom}, persist.LoadRequest{ID: "x"})
	assert.ErrorIs(t, err, boom)

	v := s.View()
	assert.Equal(t, boom.Error(), v.LoadError)
	assert.False(t, v.ViewOnly)
}

func TestStaleLoadIsIgnored(t *testing.T) {
	s := New(noTimers())

	first := s.BeginLoad(persist.LoadRequest{ID: "old"})
	second := s.BeginLoad(persist.LoadRequest{ID: "new", Edit: true})
	assert.True(t, s.View().Loading)

	newer := loadedValid()
	newer.Title = "Newer"
	assert.True(t, s.FinishLoad(second, newer, true, nil))

	older := loadedValid()
	older.Title = "Older"
	assert.False(t, s.FinishLoad(first, older, true, nil))

	v := s.View()
	assert.Equal(t, "Newer", v.Title)
	assert.False(t, v.ViewOnly)
	assert.Nil(t, v.Game, "the stale view-only load must not start a game")
}

func TestSaveValidatesThenStores(t *testing.T) {
	ctx := context.Background()
	gw := persist.New(store.NewMemoryStore(), "https://example.com")

	s := New()
	_, err := s.Save(ctx, gw)
	var verr *puzzle.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, s.View().Violations)

	fillValid(t, s)
	require.NoError(t, s.SetTitle("My puzzle"))
	res, err := s.Save(ctx, gw)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "https://example.com/connections?game="+res.ID, res.ShareURL)
	assert.Equal(t, res.ShareURL+"&edit=true", res.EditURL)

	// Loading the saved puzzle in a fresh view-only session plays it.
	viewer := New(noTimers())
	require.NoError(t, viewer.Load(ctx, gw, persist.LoadRequest{ID: res.ID}))
	v := viewer.View()
	assert.Equal(t, "My puzzle", v.Title)
	require.NotNil(t, v.Game)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s := New()
	r.Put(s)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	r.Delete(s.ID())
	_, err = r.Get(s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}
