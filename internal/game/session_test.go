package game_test

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/solver"
)

func pvpConfig(maxAttempts int) game.Config {
	return game.Config{
		Mode:        game.ModePlayerVsPlayer,
		Length:      4,
		ColorCount:  6,
		MaxAttempts: maxAttempts,
		Players:     []string{"Ann", "Bob"},
		Secret:      []string{"R", "G", "B", "Y"},
	}
}

func aiConfig(maxAttempts int) game.Config {
	return game.Config{
		Mode:        game.ModePlayerVsAI,
		Length:      4,
		ColorCount:  6,
		MaxAttempts: maxAttempts,
		Players:     []string{"Ann"},
		Secret:      []string{"R", "G", "B", "Y"},
		Rand:        rand.New(rand.NewPCG(1, 2)),
		NewOpponent: solver.Factory,
	}
}

var miss = []string{"O", "P", "O", "P"}

// stubOpponent replays a fixed list of guesses.
type stubOpponent struct {
	guesses  []game.Code
	observed []game.Evaluation
}

func (s *stubOpponent) Next() game.Code {
	g := s.guesses[0]
	if len(s.guesses) > 1 {
		s.guesses = s.guesses[1:]
	}
	return g
}

func (s *stubOpponent) Observe(_ game.Code, ev game.Evaluation) { s.observed = append(s.observed, ev) }

func stubFactory(op *stubOpponent) game.OpponentFactory {
	return func(game.Rules, *rand.Rand) (game.Opponent, error) { return op, nil }
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	cases := map[string]func(*game.Config){
		"unknown mode":        func(c *game.Config) { c.Mode = 0 },
		"length zero":         func(c *game.Config) { c.Length = 0 },
		"length over colors":  func(c *game.Config) { c.Length = 7 },
		"too many colors":     func(c *game.Config) { c.ColorCount = 9 },
		"no colors":           func(c *game.Config) { c.ColorCount = 0 },
		"no attempts":         func(c *game.Config) { c.MaxAttempts = 0 },
		"missing player":      func(c *game.Config) { c.Players = []string{"Ann"} },
		"blank player":        func(c *game.Config) { c.Players = []string{"Ann", "  "} },
		"same names":          func(c *game.Config) { c.Players = []string{"Ann", "ann"} },
		"bad loss policy":     func(c *game.Config) { c.LossPolicy = "sudden_death" },
		"secret with repeats": func(c *game.Config) { c.Secret = []string{"R", "R", "B", "Y"} },
		"secret wrong length": func(c *game.Config) { c.Secret = []string{"R", "G"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := pvpConfig(3)
			mutate(&cfg)
			_, err := game.New(cfg)
			assert.ErrorIs(t, err, game.ErrConfiguration)
		})
	}
}

func TestNewRejectsAIModesWithoutOpponent(t *testing.T) {
	cfg := aiConfig(5)
	cfg.NewOpponent = nil
	_, err := game.New(cfg)
	assert.ErrorIs(t, err, game.ErrConfiguration)

	cfg = aiConfig(5)
	cfg.Players = []string{"computer"}
	_, err = game.New(cfg)
	assert.ErrorIs(t, err, game.ErrConfiguration, "name clashes with the computer")

	cfg = aiConfig(5)
	cfg.Players = nil
	_, err = game.New(cfg)
	assert.ErrorIs(t, err, game.ErrConfiguration)
}

func TestSecretHiddenUntilFinished(t *testing.T) {
	s, err := game.New(pvpConfig(3))
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Nil(t, snap.Secret)
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"secret"`)

	require.NoError(t, s.Guess([]string{"R", "G", "B", "Y"}, "Ann"))
	snap = s.Snapshot()
	require.NotNil(t, snap.Secret)
	assert.Equal(t, []string{"R", "G", "B", "Y"}, snap.Secret.Code)
	assert.Equal(t, "Red, Green, Blue, Yellow", snap.Secret.Text)
}

func TestPlayerVsPlayerWin(t *testing.T) {
	s, err := game.New(pvpConfig(3))
	require.NoError(t, err)

	require.NoError(t, s.Guess(miss, "Ann"))
	require.NoError(t, s.Guess([]string{"r", "g", "b", "y"}, ""))

	snap := s.Snapshot()
	assert.Equal(t, game.StatusWon, snap.Status)
	assert.Equal(t, "Bob", snap.Winner)
	assert.Equal(t, "Bob", snap.ActivePlayer, "active player freezes on win")
	for _, p := range snap.Players {
		assert.False(t, p.IsActive)
	}
	require.Len(t, snap.History, 2)
	assert.Equal(t, 2, snap.History[1].Index)
	assert.Equal(t, 4, snap.History[1].Exact)
	assert.Equal(t, "Red", snap.History[1].Guess[0].Name)

	err = s.Guess(miss, "Ann")
	assert.ErrorIs(t, err, game.ErrGameOver)
	assert.Len(t, s.History(), 2)
	assert.Equal(t, game.StatusWon, s.Status(), "status never moves backwards")
}

func TestPlayerVsPlayerExhaustion(t *testing.T) {
	s, err := game.New(pvpConfig(3))
	require.NoError(t, err)

	for turn := 0; turn < 5; turn++ {
		require.NoError(t, s.Guess(miss, ""))
		require.Equal(t, game.StatusOngoing, s.Status(), "turn %d", turn)
	}
	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Players[0].Remaining, "Ann used all 3")
	assert.Equal(t, 1, snap.Players[1].Remaining)
	assert.Equal(t, "Bob", snap.ActivePlayer)

	require.NoError(t, s.Guess(miss, "Bob"))
	snap = s.Snapshot()
	assert.Equal(t, game.StatusLost, snap.Status)
	assert.Empty(t, snap.Winner)
	assert.Len(t, snap.History, 6)
	require.NotNil(t, snap.Secret)
}

func TestPlayerVsPlayerUnevenBudgetsKeepGoing(t *testing.T) {
	s, err := game.New(pvpConfig(2))
	require.NoError(t, err)

	// Ann, Bob, Ann: Ann is out, Bob still has one.
	require.NoError(t, s.Guess(miss, "Ann"))
	require.NoError(t, s.Guess(miss, "Bob"))
	require.NoError(t, s.Guess(miss, "Ann"))
	assert.Equal(t, game.StatusOngoing, s.Status())

	before := s.Snapshot()
	err = s.Guess(miss, "Ann")
	assert.ErrorIs(t, err, game.ErrNoAttemptsLeft, "an exhausted player is told so, not just skipped")
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, "Bob", s.Snapshot().ActivePlayer)

	require.NoError(t, s.Guess([]string{"R", "G", "B", "Y"}, "Bob"))
	assert.Equal(t, game.StatusWon, s.Status())
}

func TestFirstExhaustedPolicy(t *testing.T) {
	cfg := pvpConfig(2)
	cfg.LossPolicy = game.LossFirstExhausted
	s, err := game.New(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Guess(miss, "Ann"))
	require.NoError(t, s.Guess(miss, "Bob"))
	require.NoError(t, s.Guess(miss, "Ann"))
	assert.Equal(t, game.StatusLost, s.Status())
	assert.Equal(t, game.LossFirstExhausted, s.Snapshot().LossPolicy)
}

func TestRejectionsLeaveStateUnchanged(t *testing.T) {
	cfg := pvpConfig(3)
	cfg.NoRepeats = true
	s, err := game.New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Guess([]string{"O", "P", "R", "G"}, "Ann"))
	before := s.Snapshot()

	cases := []struct {
		name   string
		guess  []string
		player string
		want   error
	}{
		{"not active player", []string{"O", "P", "R", "G"}, "Ann", game.ErrNotYourTurn},
		{"unknown player", []string{"O", "P", "R", "G"}, "Eve", game.ErrNotYourTurn},
		{"wrong length", []string{"O", "P"}, "Bob", game.ErrInvalidGuess},
		{"unknown color", []string{"O", "P", "R", "X"}, "Bob", game.ErrInvalidGuess},
		{"repeated color", []string{"O", "O", "R", "G"}, "Bob", game.ErrInvalidGuess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Guess(tc.guess, tc.player)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestPlayerVsAIComputerMovesAfterHuman(t *testing.T) {
	s, err := game.New(aiConfig(10))
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "Ann", snap.ActivePlayer)
	assert.True(t, snap.Players[0].IsActive)
	assert.True(t, snap.Players[1].IsAI)
	assert.False(t, snap.Players[1].IsActive)

	require.NoError(t, s.Guess(miss, ""))
	hist := s.History()
	if s.Status() == game.StatusOngoing {
		require.Len(t, hist, 2)
		assert.Equal(t, "Ann", hist[0].Player)
		assert.Equal(t, game.DefaultAIName, hist[1].Player)
		snap = s.Snapshot()
		assert.Equal(t, 9, snap.Players[0].Remaining)
		assert.Equal(t, 9, snap.Players[1].Remaining)
	}

	err = s.Guess(miss, game.DefaultAIName)
	if s.Status() == game.StatusOngoing {
		assert.ErrorIs(t, err, game.ErrNotYourTurn, "only the human submits guesses")
	}
}

func TestPlayerVsAIComputerCanWin(t *testing.T) {
	op := &stubOpponent{guesses: []game.Code{{"O", "P", "R", "G"}, {"R", "G", "B", "Y"}}}
	cfg := aiConfig(5)
	cfg.AIName = "HAL"
	cfg.NewOpponent = stubFactory(op)
	s, err := game.New(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Guess(miss, "Ann"))
	assert.Equal(t, game.StatusOngoing, s.Status())
	require.NoError(t, s.Guess(miss, "Ann"))

	snap := s.Snapshot()
	assert.Equal(t, game.StatusWon, snap.Status)
	assert.Equal(t, "HAL", snap.Winner)
	assert.Len(t, snap.History, 4)
	assert.Equal(t, []game.Evaluation{{Exact: 0, ColorOnly: 2}, {Exact: 4}}, op.observed)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.Equal(t, 2, out.Guesses)
	assert.Equal(t, "HAL", out.Winner)
}

func TestPlayerVsAIHumanWinStopsComputer(t *testing.T) {
	op := &stubOpponent{guesses: []game.Code{{"O", "P", "R", "G"}}}
	cfg := aiConfig(5)
	cfg.NewOpponent = stubFactory(op)
	s, err := game.New(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Guess([]string{"R", "G", "B", "Y"}, "Ann"))
	assert.Equal(t, game.StatusWon, s.Status())
	assert.Equal(t, "Ann", s.Winner())
	assert.Len(t, s.History(), 1)
	assert.Empty(t, op.observed)
}

func TestPlayerVsAILoss(t *testing.T) {
	op := &stubOpponent{guesses: []game.Code{{"O", "P", "R", "G"}}}
	cfg := aiConfig(2)
	cfg.NewOpponent = stubFactory(op)
	s, err := game.New(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Guess(miss, ""))
	require.NoError(t, s.Guess(miss, ""))

	snap := s.Snapshot()
	assert.Equal(t, game.StatusLost, snap.Status)
	assert.Len(t, snap.History, 4)
	for _, p := range snap.Players {
		assert.Zero(t, p.Remaining)
	}
	assert.ErrorIs(t, s.Guess(miss, ""), game.ErrGameOver)
}

func TestAISolverPlaysToCompletion(t *testing.T) {
	secret := []string{"Y", "B", "R", "O"}
	for seed := uint64(0); seed < 20; seed++ {
		s, err := game.New(game.Config{
			Mode:        game.ModeAISolver,
			Length:      4,
			ColorCount:  6,
			MaxAttempts: 10,
			Secret:      secret,
			Rand:        rand.New(rand.NewPCG(seed, seed+1)),
			NewOpponent: solver.Factory,
		})
		require.NoError(t, err)

		snap := s.Snapshot()
		require.Equal(t, game.StatusWon, snap.Status, "seed %d", seed)
		assert.Equal(t, game.DefaultAIName, snap.Winner)
		require.NotNil(t, snap.Secret)
		assert.Equal(t, secret, snap.Secret.Code)

		// Every guess must agree with all feedback received before it.
		hist := s.History()
		for i, h := range hist {
			for _, earlier := range hist[:i] {
				assert.Equal(t, earlier.Evaluation, game.Score(h.Guess, earlier.Guess),
					"guess %d (%s) contradicts feedback on guess %d", h.Index, h.Guess, earlier.Index)
			}
		}
		assert.ErrorIs(t, s.Guess(secret, ""), game.ErrGameOver)
	}
}

func TestAISolverRequiresSecret(t *testing.T) {
	_, err := game.New(game.Config{
		Mode: game.ModeAISolver, Length: 4, ColorCount: 6, MaxAttempts: 10,
		NewOpponent: solver.Factory,
	})
	assert.ErrorIs(t, err, game.ErrConfiguration)
}

func TestAISolverRunsOutOfAttempts(t *testing.T) {
	op := &stubOpponent{guesses: []game.Code{{"O", "P", "R", "G"}}}
	s, err := game.New(game.Config{
		Mode: game.ModeAISolver, Length: 4, ColorCount: 6, MaxAttempts: 3,
		Secret: []string{"R", "G", "B", "Y"}, NewOpponent: stubFactory(op),
	})
	require.NoError(t, err)
	assert.Equal(t, game.StatusLost, s.Status())
	assert.Len(t, s.History(), 3)
}

func TestMalformedComputerGuessSurfaces(t *testing.T) {
	op := &stubOpponent{guesses: []game.Code{{"O", "P", "X"}}}
	_, err := game.New(game.Config{
		Mode: game.ModeAISolver, Length: 4, ColorCount: 6, MaxAttempts: 3,
		Secret: []string{"R", "G", "B", "Y"}, NewOpponent: stubFactory(op),
	})
	assert.ErrorIs(t, err, game.ErrInvalidGuess)

	op = &stubOpponent{guesses: []game.Code{{"O", "P", "R", "W"}}} // W is outside six colors
	cfg := aiConfig(5)
	cfg.NewOpponent = stubFactory(op)
	s, err := game.New(cfg)
	require.NoError(t, err)
	err = s.Guess(miss, "Ann")
	assert.ErrorIs(t, err, game.ErrInvalidGuess)
	assert.Len(t, s.History(), 1, "the computer's bad guess is not recorded")
	assert.Len(t, op.observed, 0)
}

func TestFreshSecretsDiffer(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		cfg := pvpConfig(3)
		cfg.Secret = nil
		cfg.ColorCount = 8
		cfg.Length = 6
		s, err := game.New(cfg)
		require.NoError(t, err)
		require.NoError(t, s.Guess([]string{"R", "G", "B", "Y", "O", "P"}, "Ann"))
		for s.Status() == game.StatusOngoing {
			require.NoError(t, s.Guess([]string{"R", "G", "B", "Y", "O", "P"}, ""))
		}
		snap := s.Snapshot()
		seen[game.Code(snap.Secret.Code).String()] = true
		assert.NotEmpty(t, snap.ID)
	}
	assert.Greater(t, len(seen), 1, "20 games of 8P6 should not share one secret")
}

func TestOutcomeOnlyWhenFinished(t *testing.T) {
	cfg := pvpConfig(1)
	cfg.Daily = "2026-10-17"
	s, err := game.New(cfg)
	require.NoError(t, err)
	_, ok := s.Outcome()
	assert.False(t, ok)

	require.NoError(t, s.Guess(miss, ""))
	require.NoError(t, s.Guess(miss, ""))
	out, ok := s.Outcome()
	require.True(t, ok)
	assert.Equal(t, game.StatusLost, out.Status)
	assert.Equal(t, 2, out.Guesses)
	assert.Equal(t, "2026-10-17", out.Daily)
	assert.Equal(t, game.ModePlayerVsPlayer, out.Mode)
	assert.False(t, out.FinishedAt.Before(out.StartedAt))
}
