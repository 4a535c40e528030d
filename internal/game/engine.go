// internal/game/engine.go
//
// Guess validation and scoring.
// Responsibilities:
//   - Rules: the per-game parameters a guess is checked against.
//   - ParseGuess: normalize and validate raw color codes.
//   - Score: the two-pass exact / color-only evaluation.
//
// Score is a pure function and is also used by the opponent to filter its
// candidate set, so it must stay deterministic and allocation-light.

package game

import (
	"fmt"

	"github.com/robalobadob/mastermind/internal/palette"
)

// Rules are the parameters a guess is validated and scored against.
type Rules struct {
	Palette     palette.Palette // colors in play (first color_count of the global palette)
	Length      int             // code length
	MaxAttempts int             // per-player attempt budget
	NoRepeats   bool            // reject guesses that repeat a color
}

// ParseGuess validates raw codes against the rules and returns a normalized Code.
//
// Validation rules:
//   - Exactly r.Length entries.
//   - Every entry is a code of r.Palette (case-insensitive).
//   - No repeated color when r.NoRepeats is set.
func (r Rules) ParseGuess(raw []string) (Code, error) {
	if len(raw) != r.Length {
		return nil, fmt.Errorf("%w: guess must contain %d colors, got %d", ErrInvalidGuess, r.Length, len(raw))
	}
	out := make(Code, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, c := range raw {
		code := palette.Normalize(c)
		if !r.Palette.Contains(code) {
			return nil, fmt.Errorf("%w: unknown color %q (allowed: %s)", ErrInvalidGuess, c, Code(r.Palette.Codes()))
		}
		if _, dup := seen[code]; dup && r.NoRepeats {
			return nil, fmt.Errorf("%w: color %s used more than once", ErrInvalidGuess, code)
		}
		seen[code] = struct{}{}
		out[i] = code
	}
	return out, nil
}

// Evaluate scores guess against secret after checking both are well formed.
func (r Rules) Evaluate(secret, guess Code) (Evaluation, error) {
	if len(secret) != r.Length || len(guess) != r.Length {
		return Evaluation{}, fmt.Errorf("%w: length mismatch (secret %d, guess %d, want %d)",
			ErrInvalidGuess, len(secret), len(guess), r.Length)
	}
	for i := range guess {
		if !r.Palette.Contains(secret[i]) {
			return Evaluation{}, fmt.Errorf("%w: secret has unknown color %q", ErrInvalidGuess, secret[i])
		}
		if !r.Palette.Contains(guess[i]) {
			return Evaluation{}, fmt.Errorf("%w: unknown color %q", ErrInvalidGuess, guess[i])
		}
	}
	return Score(secret, guess), nil
}

// Solved reports whether ev cracks a code of the configured length.
func (r Rules) Solved(ev Evaluation) bool { return ev.Exact == r.Length }

// Score implements the two-pass evaluation.
//
// Pass 1:
//   - Count positions where guess and secret agree (Exact).
//   - Tally the remaining colors of secret and guess separately.
//
// Pass 2:
//   - ColorOnly = Σ min(secretLeft[c], guessLeft[c]) over colors c.
//
// This keeps repeated colors in the guess from being counted more often
// than the secret holds them. Sequences of different length are compared
// over their common prefix.
func Score(secret, guess Code) Evaluation {
	n := min(len(secret), len(guess))
	var ev Evaluation

	secretLeft := make(map[string]int, n)
	guessLeft := make(map[string]int, n)

	// First pass: exact hits, leftovers for everything else.
	for i := 0; i < n; i++ {
		if secret[i] == guess[i] {
			ev.Exact++
			continue
		}
		secretLeft[secret[i]]++
		guessLeft[guess[i]]++
	}

	// Second pass: multiset intersection of the leftovers.
	for c, g := range guessLeft {
		ev.ColorOnly += min(g, secretLeft[c])
	}
	return ev
}
