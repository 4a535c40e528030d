// internal/httpserver/routes_results.go
//
// Read-only views over the results archive:
//   - GET /results             → most recent finished games
//   - GET /results/daily?date= → daily challenge leaderboard (today by default)
//
// Both answer 503 when the server runs without an archive.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/results"
)

const maxLimit = 100

func (s *Server) mountResults(r chi.Router) {
	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.handleRecent)
		r.Get("/daily", s.handleLeaderboard)
	})
}

type recentRes struct {
	Results []results.Result `json:"results"`
}

type leaderboardRes struct {
	Date        string                   `json:"date"`
	Leaderboard []results.LeaderboardRow `json:"leaderboard"`
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if !s.archiveReady(w) {
		return
	}
	rows, err := s.archive.Recent(r.Context(), limitParam(r))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("recent results")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db_error"})
		return
	}
	writeJSON(w, http.StatusOK, recentRes{Results: rows})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !s.archiveReady(w) {
		return
	}
	date := daily.Today()
	if q := r.URL.Query().Get("date"); q != "" {
		var err error
		if date, err = daily.ParseKey(q); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	rows, err := s.archive.DailyLeaderboard(r.Context(), date, limitParam(r))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("date", date).Msg("daily leaderboard")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db_error"})
		return
	}
	writeJSON(w, http.StatusOK, leaderboardRes{Date: date, Leaderboard: rows})
}

func (s *Server) archiveReady(w http.ResponseWriter) bool {
	if s.archive == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "results archive disabled"})
		return false
	}
	return true
}

// limitParam reads ?limit=, clamped to [1, maxLimit]; 0 means the archive default.
func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		return 0
	}
	return min(n, maxLimit)
}
