// internal/httpserver/server.go
//
// HTTP server wiring for the Connections backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Puzzle endpoints: validate, save, load-by-id (mounted under /puzzles).
//   - Session endpoints: build, generate, play, save (mounted under /sessions).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Error bodies are always {"error": "..."}; persistence failures carry the
//     user-facing message only, never the store's error text.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/connections/internal/game"
	"github.com/robalobadob/connections/internal/persist"
	"github.com/robalobadob/connections/internal/session"
)

// Server bundles router, persistence gateway and live sessions.
type Server struct {
	r        *chi.Mux
	gw       *persist.Gateway
	sessions *session.Registry
	gameOpts []game.Option
}

// Option customises a Server.
type Option func(*Server)

// WithGameOptions passes opts to every game started by a session.
func WithGameOptions(opts ...game.Option) Option {
	return func(s *Server) { s.gameOpts = opts }
}

// New constructs a Server, installs middleware, and registers routes.
// clientOrigin is the single origin allowed by CORS.
func New(gw *persist.Gateway, reg *session.Registry, clientOrigin string, opts ...Option) *Server {
	s := &Server{r: chi.NewRouter(), gw: gw, sessions: reg}
	for _, o := range opts {
		o(s)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // zerolog access line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(clientOrigin))              // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"connections-go","endpoints":["/health","/puzzles","/sessions"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountPuzzles(s.r)
	s.mountSessions(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.r }

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes the request body into v; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
