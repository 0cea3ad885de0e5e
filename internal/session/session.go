// internal/session/session.go
//
// Builder session: one author's (or player's) view of a puzzle.
// Responsibilities:
//   - Hold the editable definition and overall title.
//   - Validate and generate a playable game (replacing any previous game).
//   - Load a shared puzzle by id, in view-only or edit mode, ignoring load
//     results that were overtaken by a newer load.
//   - Save the definition and hand back share/edit links.
//
// Notes:
//   - Editing a group drops the current game; the grid no longer matches.
//   - View-only sessions cannot be edited, generated or saved.
//   - A view-only load that yields a valid puzzle starts a game immediately.

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/game"
	"github.com/robalobadob/connections/internal/persist"
	"github.com/robalobadob/connections/internal/puzzle"
)

var (
	// ErrReadOnly is returned when a view-only session is asked to change.
	ErrReadOnly = errors.New("session is view-only")
	// ErrNoGame is returned by play actions before a game has been generated.
	ErrNoGame = errors.New("no active game")
	// ErrUnknownGroup is returned for group keys outside 1..4.
	ErrUnknownGroup = errors.New("unknown group")
	// ErrUnknownField is returned for group fields other than title/itemsInput.
	ErrUnknownField = errors.New("unknown group field")
)

const (
	defaultPageTitle = "Connections Game"
	pageTitleSuffix  = " - Connections Game"
)

// Field names an editable group attribute.
type Field string

const (
	FieldTitle      Field = "title"
	FieldItemsInput Field = "itemsInput"
)

// Loader fetches saved puzzles; *persist.Gateway satisfies it.
type Loader interface {
	Load(ctx context.Context, id string) (persist.Loaded, bool, error)
}

// Saver stores puzzles and builds their links; *persist.Gateway satisfies it.
type Saver interface {
	Save(ctx context.Context, def puzzle.Definition, title string) (string, error)
	ShareURL(id string) string
	EditURL(id string) string
}

// SaveResult is what an author gets back after saving.
type SaveResult struct {
	ID       string `json:"id"`
	ShareURL string `json:"shareUrl"`
	EditURL  string `json:"editUrl"`
}

// Ticket identifies one load; only the newest ticket may apply its result.
type Ticket struct {
	gen uint64
	Req persist.LoadRequest
}

// Session holds builder and play state for one user.
type Session struct {
	mu sync.Mutex

	id         string
	def        puzzle.Definition
	title      string
	viewOnly   bool
	loading    bool
	loadErr    string
	violations puzzle.Violations
	game       *game.Game

	loadGen  uint64
	gameOpts []game.Option
}

// DefaultGroups is the example puzzle a fresh builder starts with.
func DefaultGroups() [puzzle.GroupCount]puzzle.Group {
	return [puzzle.GroupCount]puzzle.Group{
		{Title: "Fruits", ItemsInput: "Apple, Banana, Cherry, Grape"},
		{Title: "Planets", ItemsInput: "Mercury, Venus, Earth, Mars"},
		{},
		{},
	}
}

// New creates a builder session seeded with DefaultGroups.
// opts are passed to every game the session starts.
func New(opts ...game.Option) *Session {
	return &Session{
		id:         uuid.NewString(),
		def:        puzzle.NewDefinition(DefaultGroups()),
		violations: puzzle.Violations{},
		gameOpts:   opts,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UpdateGroup sets one field of group k and drops the current game.
func (s *Session) UpdateGroup(k puzzle.GroupKey, field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewOnly {
		return ErrReadOnly
	}
	if !k.Valid() {
		return ErrUnknownGroup
	}
	switch field {
	case FieldTitle:
		s.def.SetTitle(k, value)
	case FieldItemsInput:
		s.def.SetItemsInput(k, value)
	default:
		return ErrUnknownField
	}
	s.game = nil
	return nil
}

// SetTitle changes the overall puzzle title.
func (s *Session) SetTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewOnly {
		return ErrReadOnly
	}
	s.title = title
	return nil
}

// Generate validates the definition and, if valid, starts a new game.
// The returned violations are also kept for display; empty means a game started.
func (s *Session) Generate() (puzzle.Violations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewOnly {
		return nil, ErrReadOnly
	}
	s.violations = puzzle.Validate(s.def)
	if !s.violations.OK() {
		s.game = nil
		return s.violations, nil
	}
	g, err := game.New(s.def, s.gameOpts...)
	if err != nil {
		return nil, err
	}
	s.game = g
	log.Debug().Str("session", s.id).Str("gameId", g.ID()).Msg("game generated")
	return s.violations, nil
}

// BeginLoad marks a load of req as in flight and returns its ticket.
// Any earlier ticket becomes stale.
func (s *Session) BeginLoad(req persist.LoadRequest) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadGen++
	s.loading = true
	s.loadErr = ""
	s.viewOnly = !req.Edit
	return Ticket{gen: s.loadGen, Req: req}
}

// FinishLoad applies the outcome of the load identified by t.
// It returns false, changing nothing, when a newer load has started since.
func (s *Session) FinishLoad(t Ticket, l persist.Loaded, found bool, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.gen != s.loadGen {
		log.Debug().Str("session", s.id).Str("puzzleId", t.Req.ID).Msg("dropping stale load")
		return false
	}
	s.loading = false

	switch {
	case err != nil:
		s.loadErr = err.Error()
		s.viewOnly = false
	case !found:
		s.loadErr = persist.NotFoundMsg
		s.viewOnly = false
	default:
		s.def = l.Definition
		s.title = l.Title
		s.game = nil
		if s.viewOnly {
			s.autoStart()
		}
	}
	return true
}

// autoStart begins play on a freshly loaded view-only puzzle if it is valid.
func (s *Session) autoStart() {
	s.violations = puzzle.Validate(s.def)
	if !s.violations.OK() {
		log.Warn().Str("session", s.id).Strs("violations", s.violations).Msg("shared puzzle is not playable")
		return
	}
	g, err := game.New(s.def, s.gameOpts...)
	if err != nil {
		return
	}
	s.game = g
}

// Load fetches req.ID through l and applies the result, unless a newer load
// overtook it. The returned error is the load failure, if any.
func (s *Session) Load(ctx context.Context, l Loader, req persist.LoadRequest) error {
	t := s.BeginLoad(req)
	loaded, found, err := l.Load(ctx, req.ID)
	s.FinishLoad(t, loaded, found, err)
	return err
}

// Save validates the definition and stores it.
// An invalid definition is returned as *puzzle.ValidationError.
func (s *Session) Save(ctx context.Context, sv Saver) (SaveResult, error) {
	s.mu.Lock()
	if s.viewOnly {
		s.mu.Unlock()
		return SaveResult{}, ErrReadOnly
	}
	s.violations = puzzle.Validate(s.def)
	if err := s.violations.Err(); err != nil {
		s.mu.Unlock()
		return SaveResult{}, err
	}
	def, title := s.def, s.title
	s.mu.Unlock()

	id, err := sv.Save(ctx, def, title)
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{ID: id, ShareURL: sv.ShareURL(id), EditURL: sv.EditURL(id)}, nil
}

// Game returns the current game or ErrNoGame.
func (s *Session) Game() (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return nil, ErrNoGame
	}
	return s.game, nil
}

// View is a point-in-time copy of the session for display.
type View struct {
	ID           string                          `json:"id"`
	Title        string                          `json:"title"`
	PageTitle    string                          `json:"pageTitle"`
	ViewOnly     bool                            `json:"viewOnly"`
	Loading      bool                            `json:"loading"`
	LoadError    string                          `json:"loadError,omitempty"`
	Groups       [puzzle.GroupCount]puzzle.Group `json:"groups"`
	ItemCount    int                             `json:"itemCount"`
	TargetCount  int                             `json:"targetCount"`
	TallyMatches bool                            `json:"tallyMatches"`
	Violations   puzzle.Violations               `json:"violations"`
	Game         *game.Snapshot                  `json:"game,omitempty"`
}

// View returns the current session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:           s.id,
		Title:        s.title,
		PageTitle:    s.pageTitle(),
		ViewOnly:     s.viewOnly,
		Loading:      s.loading,
		LoadError:    s.loadErr,
		Groups:       s.def.Groups(),
		ItemCount:    s.def.ItemCount(),
		TargetCount:  puzzle.TotalItems,
		TallyMatches: s.def.TallyMatches(),
		Violations:   append(puzzle.Violations{}, s.violations...),
	}
	if s.game != nil {
		snap := s.game.Snapshot()
		v.Game = &snap
	}
	return v
}

// pageTitle is "<title> - Connections Game" for titled view-only puzzles.
func (s *Session) pageTitle() string {
	if s.viewOnly && strings.TrimSpace(s.title) != "" {
		return s.title + pageTitleSuffix
	}
	return defaultPageTitle
}
