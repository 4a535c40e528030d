// internal/httpserver/routes_game.go
//
// Game endpoints. Each one forwards to the store and answers with
// {"state": snapshot|null}; rejections answer {"error": "...", "state": ...}
// where state is the unchanged snapshot.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Get("/state", s.handleState)
	r.Post("/start", s.handleStart)
	r.Post("/guess", s.handleGuess)
	r.Post("/reset", s.handleReset)
	r.Get("/palettes", s.handlePalettes)
}

type stateRes struct {
	State *game.Snapshot `json:"state"`
}

type errorRes struct {
	Error string         `json:"error"`
	State *game.Snapshot `json:"state"`
}

// startReq is the payload for POST /start. Missing numbers take the
// configured defaults.
type startReq struct {
	Mode         string   `json:"mode"`
	Length       *int     `json:"length"`
	ColorCount   *int     `json:"color_count"`
	MaxAttempts  *int     `json:"max_attempts"`
	Players      []string `json:"players"`
	Secret       []string `json:"secret"`
	Daily        bool     `json:"daily"`
	LossPolicy   string   `json:"loss_policy"`
	AllowRepeats *bool    `json:"allow_repeats"`
}

type guessReq struct {
	Guess  []string `json:"guess"`
	Player string   `json:"player"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateRes{State: s.store.State(r.Context())})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var body startReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, r, errBadJSON, s.store.State(r.Context()))
		return
	}
	req, err := s.startRequest(body)
	if err != nil {
		s.fail(w, r, err, s.store.State(r.Context()))
		return
	}
	snap, err := s.store.Start(r.Context(), req)
	if err != nil {
		s.fail(w, r, err, snap)
		return
	}
	writeJSON(w, http.StatusOK, stateRes{State: snap})
}

// startRequest fills defaults and checks the parts of the payload that are
// transport concerns.
func (s *Server) startRequest(b startReq) (store.StartRequest, error) {
	mode, err := game.ParseMode(b.Mode)
	if err != nil {
		return store.StartRequest{}, err
	}
	if len(b.Secret) > 0 && mode != game.ModeAISolver {
		return store.StartRequest{}, fmt.Errorf("%w: a secret may only be supplied for %s", game.ErrConfiguration, game.ModeAISolver)
	}
	policy := s.defaults.LossPolicy
	if b.LossPolicy != "" {
		if policy, err = game.ParseLossPolicy(b.LossPolicy); err != nil {
			return store.StartRequest{}, err
		}
	}
	repeats := s.defaults.AllowRepeats
	if b.AllowRepeats != nil {
		repeats = *b.AllowRepeats
	}
	return store.StartRequest{
		Mode:        mode,
		Length:      orDefault(b.Length, s.defaults.Length),
		ColorCount:  orDefault(b.ColorCount, s.defaults.ColorCount),
		MaxAttempts: orDefault(b.MaxAttempts, s.defaults.MaxAttempts),
		Players:     b.Players,
		Secret:      b.Secret,
		LossPolicy:  policy,
		NoRepeats:   !repeats,
		Daily:       b.Daily,
	}, nil
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var body guessReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, r, errBadJSON, s.store.State(r.Context()))
		return
	}
	snap, err := s.store.Guess(r.Context(), body.Guess, body.Player)
	if err != nil {
		s.fail(w, r, err, snap)
		return
	}
	writeJSON(w, http.StatusOK, stateRes{State: snap})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.store.Reset(r.Context())
	writeJSON(w, http.StatusOK, stateRes{State: nil})
}

type modeInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type palettesRes struct {
	Palette       palette.Palette   `json:"palette"`
	MaxColors     int               `json:"max_colors"`
	Modes         []modeInfo        `json:"modes"`
	LossPolicies  []game.LossPolicy `json:"loss_policies"`
	Length        int               `json:"default_length"`
	ColorCount    int               `json:"default_color_count"`
	MaxAttempts   int               `json:"default_max_attempts"`
	AllowRepeats  bool              `json:"default_allow_repeats"`
	DefaultPolicy game.LossPolicy   `json:"default_loss_policy"`
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	pal := s.store.Palette()
	if pal == nil {
		var err error
		if pal, err = palette.Default(); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorRes{Error: err.Error()})
			return
		}
	}
	res := palettesRes{
		Palette:       pal,
		MaxColors:     len(pal),
		LossPolicies:  []game.LossPolicy{game.LossAllExhausted, game.LossFirstExhausted},
		Length:        s.defaults.Length,
		ColorCount:    s.defaults.ColorCount,
		MaxAttempts:   s.defaults.MaxAttempts,
		AllowRepeats:  s.defaults.AllowRepeats,
		DefaultPolicy: s.defaults.LossPolicy,
	}
	for _, m := range game.Modes() {
		res.Modes = append(res.Modes, modeInfo{Key: m.String(), Label: m.Label()})
	}
	writeJSON(w, http.StatusOK, res)
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

var errBadJSON = errors.New("bad_json")

// fail maps engine errors to HTTP statuses and echoes the current state.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, snap *game.Snapshot) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	} else {
		hlog.FromRequest(r).Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, status, errorRes{Error: err.Error(), State: snap})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadJSON),
		errors.Is(err, game.ErrConfiguration),
		errors.Is(err, game.ErrInvalidGuess):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNoAttemptsLeft),
		errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, store.ErrNoGame):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
