package solver

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
)

func testRules(t *testing.T, colors, length int) game.Rules {
	t.Helper()
	p, err := palette.Default()
	require.NoError(t, err)
	p, err = p.Take(colors)
	require.NoError(t, err)
	return game.Rules{Palette: p, Length: length, MaxAttempts: 10}
}

func TestEnumerateCounts(t *testing.T) {
	assert.Len(t, enumerate(6, 4), 360)
	assert.Len(t, enumerate(8, 4), 1680)
	assert.Len(t, enumerate(3, 3), 6)
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}}, enumerate(3, 2))
}

func TestScoreMatchesEngine(t *testing.T) {
	r := testRules(t, 6, 4)
	s, err := New(r, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 4))
	codes := r.Palette.Codes()
	for i := 0; i < 2000; i++ {
		secret := s.decode(s.candidates[rng.IntN(len(s.candidates))])
		guess := make(game.Code, r.Length)
		for j := range guess {
			guess[j] = codes[rng.IntN(len(codes))] // repeats allowed
		}
		want := game.Score(secret, guess)
		got := s.score(s.encode(secret), s.encode(guess))
		require.Equal(t, want, got, "secret %s guess %s", secret, guess)
	}
}

// consistentSet recomputes, independently of the solver, every secret
// consistent with the feedback seen so far.
func consistentSet(all []game.Code, facts []game.HistoryEntry) map[string]bool {
	out := make(map[string]bool)
	for _, c := range all {
		ok := true
		for _, f := range facts {
			if game.Score(c, f.Guess) != f.Evaluation {
				ok = false
				break
			}
		}
		if ok {
			out[c.String()] = true
		}
	}
	return out
}

func TestGuessesNeverContradictFeedback(t *testing.T) {
	for _, tc := range []struct{ colors, length int }{{6, 4}, {8, 4}, {6, 3}, {8, 5}} {
		t.Run(fmt.Sprintf("%dc%dl", tc.colors, tc.length), func(t *testing.T) {
			r := testRules(t, tc.colors, tc.length)
			probe, err := New(r, nil)
			require.NoError(t, err)
			all := make([]game.Code, 0, len(probe.candidates))
			for _, c := range probe.candidates {
				all = append(all, probe.decode(c))
			}

			rng := rand.New(rand.NewPCG(uint64(tc.colors), uint64(tc.length)))
			for round := 0; round < 15; round++ {
				secret := all[rng.IntN(len(all))]
				s, err := New(r, rand.New(rand.NewPCG(uint64(round), 7)))
				require.NoError(t, err)

				var facts []game.HistoryEntry
				solved := false
				for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
					guess := s.Next()
					require.True(t, consistentSet(all, facts)[guess.String()],
						"guess %d %s contradicts earlier feedback", attempt, guess)

					ev := game.Score(secret, guess)
					facts = append(facts, game.HistoryEntry{Index: attempt, Guess: guess, Evaluation: ev})
					s.Observe(guess, ev)
					assert.True(t, s.Consistent(secret), "secret dropped from candidates")
					if ev.Exact == r.Length {
						solved = true
						break
					}
				}
				assert.True(t, solved, "secret %s not found in %d attempts", secret, r.MaxAttempts)
			}
		})
	}
}

func TestObserveNarrows(t *testing.T) {
	r := testRules(t, 6, 4)
	s, err := New(r, rand.New(rand.NewPCG(9, 9)))
	require.NoError(t, err)
	require.Len(t, s.candidates, 360)

	s.Observe(game.Code{"R", "G", "B", "Y"}, game.Evaluation{Exact: 4})
	assert.Len(t, s.candidates, 1)
	assert.Equal(t, game.Code{"R", "G", "B", "Y"}, s.Next())
}

func TestMinimaxPrefersSplittingGuess(t *testing.T) {
	r := testRules(t, 3, 2)
	s, err := New(r, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	s.guesses = 1 // skip the random opening

	// Every 2-of-3 arrangement splits the other five the same way, so the
	// earliest candidate wins the tie.
	assert.Equal(t, game.Code{"R", "G"}, s.Next())
}

func TestSearchSpaceGuard(t *testing.T) {
	lines := []string{"A a", "B b", "C c", "D d", "E e", "F f", "G g", "H h", "I i", "J j", "K k", "L l"}
	p, err := palette.Parse(lines)
	require.NoError(t, err)

	_, err = New(game.Rules{Palette: p, Length: 8, MaxAttempts: 10}, nil)
	assert.ErrorIs(t, err, ErrSearchSpace)

	_, err = New(game.Rules{Palette: p, Length: 4, MaxAttempts: 10}, nil)
	assert.NoError(t, err)
}

func TestGuessesHaveDistinctColors(t *testing.T) {
	r := testRules(t, 8, 6)
	s, err := New(r, rand.New(rand.NewPCG(11, 12)))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		g := s.Next()
		seen := map[string]bool{}
		for _, c := range g {
			require.False(t, seen[c], "repeated color in %s", g)
			seen[c] = true
		}
		s.Observe(g, game.Evaluation{})
	}
}
