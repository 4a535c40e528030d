// internal/store/store.go
//
// Single-session coordinator. Owns the one live game.Session of the process
// and serializes every operation on it behind one mutex.
//
// Characteristics:
//   - Start, Guess, State and Reset are the only ways to touch the session.
//   - Every call returns a snapshot; rejected guesses return the unchanged
//     snapshot next to the error so callers can redisplay it.
//   - A failed Start keeps the previous session.
//   - Finished games are handed to the Recorder once, best effort.
//   - Listeners see every successful change, in order.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
)

// ErrNoGame is returned when guessing while no session is live.
var ErrNoGame = errors.New("no game in progress")

// Events passed to listeners.
const (
	EventStart = "start"
	EventGuess = "guess"
	EventReset = "reset"
)

// Recorder archives finished games.
type Recorder interface {
	Record(ctx context.Context, o game.Outcome) error
}

// Listener observes session changes. snap is nil after a reset.
// Listeners run under the store lock and must not call back into the store.
type Listener func(event string, snap *game.Snapshot)

// Options configure a Store.
type Options struct {
	Palette     palette.Palette
	AIName      string
	NewOpponent game.OpponentFactory
	DailySalt   string
	Recorder    Recorder
	// Today returns the current daily key; nil uses daily.Today.
	Today func() string
}

// StartRequest is a validated start call from a presentation layer.
type StartRequest struct {
	Mode        game.Mode
	Length      int
	ColorCount  int
	MaxAttempts int
	Players     []string
	Secret      []string
	LossPolicy  game.LossPolicy
	NoRepeats   bool
	// Daily draws the secret from today's daily challenge seed.
	Daily bool
}

// Store is the guarded handle to the live session.
type Store struct {
	mu        sync.Mutex // guards everything below
	session   *game.Session
	recorded  bool
	opts      Options
	listeners []Listener
}

// New constructs a Store with no live session.
func New(opts Options) *Store {
	if opts.Today == nil {
		opts.Today = daily.Today
	}
	return &Store{opts: opts}
}

// Subscribe adds a listener.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Start replaces the live session with a new one.
func (s *Store) Start(ctx context.Context, req StartRequest) (*game.Snapshot, error) {
	cfg := game.Config{
		Mode:        req.Mode,
		Length:      req.Length,
		ColorCount:  req.ColorCount,
		MaxAttempts: req.MaxAttempts,
		Players:     req.Players,
		Secret:      req.Secret,
		LossPolicy:  req.LossPolicy,
		NoRepeats:   req.NoRepeats,
		Palette:     s.opts.Palette,
		AIName:      s.opts.AIName,
		NewOpponent: s.opts.NewOpponent,
	}
	if req.Daily {
		if len(req.Secret) > 0 {
			return s.State(ctx), fmt.Errorf("%w: the daily challenge picks its own secret", game.ErrConfiguration)
		}
		cfg.Daily = s.opts.Today()
		cfg.Rand = daily.Rand(cfg.Daily, s.opts.DailySalt)
	} else {
		cfg.Rand = game.NewRand()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := game.New(cfg)
	if err != nil {
		log.Debug().Err(err).Str("mode", req.Mode.String()).Msg("start rejected")
		return s.snapshot(), err
	}
	s.session, s.recorded = sess, false
	log.Debug().
		Str("game", sess.ID()).
		Str("mode", sess.Mode().String()).
		Int("length", req.Length).
		Int("colors", req.ColorCount).
		Str("daily", cfg.Daily).
		Msg("game started")

	s.finish(ctx)
	snap := sess.Snapshot()
	s.notify(EventStart, snap)
	return snap, nil
}

// Guess submits a guess to the live session. On rejection the unchanged
// snapshot is returned with the error.
func (s *Store) Guess(ctx context.Context, guess []string, player string) (*game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, ErrNoGame
	}
	if err := s.session.Guess(guess, player); err != nil {
		log.Debug().Err(err).Str("game", s.session.ID()).Str("player", player).Msg("guess rejected")
		return s.session.Snapshot(), err
	}

	snap := s.session.Snapshot()
	log.Debug().
		Str("game", snap.ID).
		Str("status", string(snap.Status)).
		Int("history", len(snap.History)).
		Msg("guess accepted")
	s.finish(ctx)
	s.notify(EventGuess, snap)
	return snap, nil
}

// State returns the live snapshot, or nil when there is none.
func (s *Store) State(_ context.Context) *game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Reset discards the live session.
func (s *Store) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		log.Debug().Str("game", s.session.ID()).Msg("game discarded")
	}
	s.session, s.recorded = nil, false
	s.notify(EventReset, nil)
}

// Palette returns the global palette sessions draw from.
func (s *Store) Palette() palette.Palette { return s.opts.Palette }

func (s *Store) snapshot() *game.Snapshot {
	if s.session == nil {
		return nil
	}
	return s.session.Snapshot()
}

// finish archives the live session once it is over.
func (s *Store) finish(ctx context.Context) {
	out, ok := s.session.Outcome()
	if !ok || s.recorded {
		return
	}
	s.recorded = true
	log.Info().
		Str("game", out.ID).
		Str("mode", out.Mode.String()).
		Str("status", string(out.Status)).
		Str("winner", out.Winner).
		Int("guesses", out.Guesses).
		Msg("game finished")
	if s.opts.Recorder == nil {
		return
	}
	if err := s.opts.Recorder.Record(context.WithoutCancel(ctx), out); err != nil {
		log.Warn().Err(err).Str("game", out.ID).Msg("archive result")
	}
}

func (s *Store) notify(event string, snap *game.Snapshot) {
	for _, l := range s.listeners {
		l(event, snap)
	}
}
