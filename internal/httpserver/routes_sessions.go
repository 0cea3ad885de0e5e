// internal/httpserver/routes_sessions.go
//
// HTTP routes for builder/play sessions.
// Exposes, under /sessions:
//   - POST   /sessions                   → new session; ?game=<id>[&edit=true] or
//                                          {"game","edit"} loads a shared puzzle
//   - GET    /sessions/{id}              → session view
//   - DELETE /sessions/{id}              → drop the session
//   - PUT    /sessions/{id}/title        → set overall title
//   - PUT    /sessions/{id}/groups/{key} → set a group's title and/or itemsInput
//   - POST   /sessions/{id}/load         → load a shared puzzle into the session
//   - POST   /sessions/{id}/generate     → validate + shuffle + start a game
//   - POST   /sessions/{id}/select       → toggle one item
//   - POST   /sessions/{id}/deselect     → clear the selection
//   - POST   /sessions/{id}/submit       → evaluate the 4 selected items
//   - POST   /sessions/{id}/save         → validate + save; returns share/edit links
//
// Sessions live in memory only; they are never persisted.

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/game"
	"github.com/robalobadob/connections/internal/persist"
	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/session"
)

type ctxSessionKey struct{}

// mountSessions registers all /sessions routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/title", s.handleSetTitle)
			r.Put("/groups/{key}", s.handleUpdateGroup)
			r.Post("/load", s.handleLoadIntoSession)
			r.Post("/generate", s.handleGenerate)
			r.Post("/select", s.handleSelect)
			r.Post("/deselect", s.handleDeselect)
			r.Post("/submit", s.handleSubmit)
			r.Post("/save", s.handleSaveSession)
		})
	})
}

// withSession resolves {sessionID} and places the session in the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*session.Session)
	return sess
}

// -----------------------------------------------------------------------------
// lifecycle

// handleNewSession creates a session and, when a game id is supplied, loads it.
// A failed or unknown load still creates the session; the view carries loadError.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	req, ok := persist.ParseLink(r.URL.Query())
	if !ok {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	sess := session.New(s.gameOpts...)
	s.sessions.Put(sess)
	if req.ID != "" {
		if err := sess.Load(r.Context(), s.gw, req); err != nil {
			log.Warn().Err(err).Str("session", sess.ID()).Str("puzzleId", req.ID).Msg("session load failed")
		}
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).View())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadIntoSession(w http.ResponseWriter, r *http.Request) {
	var req persist.LoadRequest
	if err := decodeBody(r, &req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "game id required")
		return
	}
	sess := sessionFrom(r)
	if err := sess.Load(r.Context(), s.gw, req); err != nil {
		log.Warn().Err(err).Str("session", sess.ID()).Str("puzzleId", req.ID).Msg("session load failed")
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// -----------------------------------------------------------------------------
// builder

type titleReq struct {
	Title string `json:"title"`
}

func (s *Server) handleSetTitle(w http.ResponseWriter, r *http.Request) {
	var req titleReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess := sessionFrom(r)
	if err := sess.SetTitle(req.Title); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// groupReq carries the fields to change; absent fields are left alone.
type groupReq struct {
	Title      *string `json:"title"`
	ItemsInput *string `json:"itemsInput"`
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	key, ok := puzzle.ParseGroupKey(chi.URLParam(r, "key"))
	if !ok {
		writeError(w, http.StatusBadRequest, "group key must be 1-4")
		return
	}
	var req groupReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess := sessionFrom(r)
	if req.Title != nil {
		if err := sess.UpdateGroup(key, session.FieldTitle, *req.Title); err != nil {
			writeSessionError(w, err)
			return
		}
	}
	if req.ItemsInput != nil {
		if err := sess.UpdateGroup(key, session.FieldItemsInput, *req.ItemsInput); err != nil {
			writeSessionError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// handleGenerate validates and starts a game. Violations come back in the
// view with 422; a valid puzzle returns 200 with the new game.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	v, err := sess.Generate()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	status := http.StatusOK
	if !v.OK() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, sess.View())
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	res, err := sessionFrom(r).Save(r.Context(), s.gw)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// -----------------------------------------------------------------------------
// play

type selectReq struct {
	Item string `json:"item"`
}

// playRes is returned by the play endpoints.
type playRes struct {
	Changed bool          `json:"changed"`
	Outcome *game.Outcome `json:"outcome,omitempty"`
	Game    game.Snapshot `json:"game"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := sessionFrom(r).Game()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	changed := g.Toggle(req.Item)
	writeJSON(w, http.StatusOK, playRes{Changed: changed, Game: g.Snapshot()})
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	g, err := sessionFrom(r).Game()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	g.DeselectAll()
	writeJSON(w, http.StatusOK, playRes{Changed: true, Game: g.Snapshot()})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	g, err := sessionFrom(r).Game()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	out, err := g.Submit()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playRes{Changed: true, Outcome: &out, Game: g.Snapshot()})
}

// writeSessionError maps session, game and gateway errors to status codes.
func writeSessionError(w http.ResponseWriter, err error) {
	var verr *puzzle.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, invalidRes{Error: "invalid_puzzle", Violations: verr.Violations})
	case errors.Is(err, session.ErrReadOnly):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, session.ErrUnknownGroup), errors.Is(err, session.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNoGame),
		errors.Is(err, game.ErrNotActive),
		errors.Is(err, game.ErrIncompleteSelection):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writePersistError(w, err)
	}
}
