// internal/httpserver/routes_puzzles.go
//
// Stateless puzzle routes under /puzzles:
//   - POST /puzzles/validate → item tally + violations for a definition
//   - POST /puzzles          → validate, then save; returns id and links
//   - GET  /puzzles/{id}     → load a saved puzzle (404 when unknown)

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/persist"
	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/session"
)

// mountPuzzles registers all /puzzles routes.
func (s *Server) mountPuzzles(r chi.Router) {
	r.Route("/puzzles", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/", s.handleSavePuzzle)
		r.Get("/{id}", s.handleLoadPuzzle)
	})
}

// puzzleReq is the body of /puzzles and /puzzles/validate.
type puzzleReq struct {
	Title  string            `json:"title"`
	Groups puzzle.Definition `json:"groups"`
}

// validateRes is returned by /puzzles/validate.
type validateRes struct {
	ItemCount  int               `json:"itemCount"`
	Target     int               `json:"target"`
	Violations puzzle.Violations `json:"violations"`
}

// invalidRes is returned with 422 when a definition fails validation.
type invalidRes struct {
	Error      string            `json:"error"`
	Violations puzzle.Violations `json:"violations"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req puzzleReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	writeJSON(w, http.StatusOK, validateRes{
		ItemCount:  req.Groups.ItemCount(),
		Target:     puzzle.TotalItems,
		Violations: puzzle.Validate(req.Groups),
	})
}

// handleSavePuzzle stores a valid definition and returns its links.
func (s *Server) handleSavePuzzle(w http.ResponseWriter, r *http.Request) {
	var req puzzleReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if v := puzzle.Validate(req.Groups); !v.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, invalidRes{Error: "invalid_puzzle", Violations: v})
		return
	}
	id, err := s.gw.Save(r.Context(), req.Groups, req.Title)
	if err != nil {
		writePersistError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session.SaveResult{ID: id, ShareURL: s.gw.ShareURL(id), EditURL: s.gw.EditURL(id)})
}

// loadRes is returned by GET /puzzles/{id}.
type loadRes struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Groups    puzzle.Definition `json:"groups"`
	ItemCount int               `json:"itemCount"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (s *Server) handleLoadPuzzle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, found, err := s.gw.Load(r.Context(), id)
	if err != nil {
		writePersistError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, persist.NotFoundMsg)
		return
	}
	writeJSON(w, http.StatusOK, loadRes{
		ID:        l.ID,
		Title:     l.Title,
		Groups:    l.Definition,
		ItemCount: l.Definition.ItemCount(),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	})
}

// writePersistError maps gateway failures to 503 with the user-facing message.
func writePersistError(w http.ResponseWriter, err error) {
	var perr *persist.PersistenceError
	if errors.As(err, &perr) {
		writeError(w, http.StatusServiceUnavailable, perr.Error())
		return
	}
	log.Error().Err(err).Msg("unexpected persistence failure")
	writeError(w, http.StatusInternalServerError, "server_error")
}
