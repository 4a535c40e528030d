// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logs).
//   - Public endpoints: "/", "/health", "/palettes".
//   - Game endpoints: GET /state, POST /start, POST /guess, POST /reset.
//   - Results archive: GET /results, GET /results/daily.
//   - Live updates: GET /ws (WebSocket).
//
// Notes:
//   - The server is a thin layer over store.Store; every game rule lives in
//     internal/game.
//   - CORS is origin-aware and credentials-enabled.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/live"
	"github.com/robalobadob/mastermind/internal/results"
	"github.com/robalobadob/mastermind/internal/store"
)

// Archive is the read side of the results archive.
type Archive interface {
	Recent(ctx context.Context, limit int) ([]results.Result, error)
	DailyLeaderboard(ctx context.Context, date string, limit int) ([]results.LeaderboardRow, error)
}

// Deps are the collaborators a Server needs. Archive and Hub may be nil.
type Deps struct {
	Store        *store.Store
	Archive      Archive
	Hub          *live.Hub
	Defaults     config.Defaults
	ClientOrigin string
}

// Server bundles the router and its collaborators.
type Server struct {
	r        *chi.Mux
	store    *store.Store
	archive  Archive
	defaults config.Defaults
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{r: chi.NewRouter(), store: d.Store, archive: d.Archive, defaults: d.Defaults}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog()...)  // zerolog request logger
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(cors(d.ClientOrigin))

	// WebSocket upgrades hijack the connection; keep them out of the
	// timeout and JSON middleware.
	if d.Hub != nil {
		s.r.Get("/ws", d.Hub.ServeWS)
	}

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "mastermind-go",
				"endpoints": []string{
					"/health", "/palettes", "GET /state", "POST /start", "POST /guess",
					"POST /reset", "/results", "/results/daily", "/ws",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})

		s.mountGame(r)
		s.mountResults(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
