// internal/solver/solver.go
//
// Computer opponent for the game engine.
//
// Strategy:
//   - The candidate set starts as every arrangement of Length distinct
//     palette colors (secrets never repeat a color).
//   - Observe drops every candidate that would not have produced the
//     feedback just received.
//   - Next always picks from the candidate set, so no guess ever
//     contradicts earlier feedback. The opening guess is random; after that
//     a Knuth-style minimax (smallest worst-case partition) is used while the
//     set has at most MinimaxLimit entries, and a uniform pick otherwise.
//
// Codes are held as palette indexes to keep filtering allocation free.

package solver

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/robalobadob/mastermind/internal/game"
)

const (
	// MaxCandidates bounds the initial candidate set.
	MaxCandidates = 200_000
	// MinimaxLimit is the largest candidate set scored with minimax.
	MinimaxLimit = 512
)

// ErrSearchSpace is returned when the rules allow too many secrets to enumerate.
var ErrSearchSpace = errors.New("solver: search space too large")

// Solver tracks the secrets still consistent with its own feedback.
type Solver struct {
	length     int
	codes      []string       // palette codes by index
	index      map[string]int // code → palette index
	candidates [][]int
	rng        *rand.Rand
	guesses    int
	left       []int // scratch counts for score
}

// New enumerates the candidate set for r. A nil rng uses a fresh source.
func New(r game.Rules, rng *rand.Rand) (*Solver, error) {
	n, k := len(r.Palette), r.Length
	if k < 1 || k > n {
		return nil, fmt.Errorf("solver: length %d with %d colors", k, n)
	}
	if size := permutations(n, k); size > MaxCandidates {
		return nil, fmt.Errorf("%w: %d colors choose %d exceeds %d codes", ErrSearchSpace, n, k, MaxCandidates)
	}
	if rng == nil {
		rng = game.NewRand()
	}
	s := &Solver{
		length: k,
		codes:  r.Palette.Codes(),
		index:  make(map[string]int, n),
		rng:    rng,
		left:   make([]int, n),
	}
	for i, c := range s.codes {
		s.index[c] = i
	}
	s.candidates = enumerate(n, k)
	return s, nil
}

// Factory adapts New to game.OpponentFactory.
func Factory(r game.Rules, rng *rand.Rand) (game.Opponent, error) {
	return New(r, rng)
}

// Next returns the next guess.
func (s *Solver) Next() game.Code {
	var pick []int
	switch {
	case len(s.candidates) == 0:
		// Only reachable if feedback was inconsistent with any secret.
		pick = s.rng.Perm(len(s.codes))[:s.length]
	case s.guesses == 0 || len(s.candidates) > MinimaxLimit:
		pick = s.candidates[s.rng.IntN(len(s.candidates))]
	default:
		pick = s.minimax()
	}
	s.guesses++
	return s.decode(pick)
}

// Observe narrows the candidate set to codes that would have scored ev
// against guess.
func (s *Solver) Observe(guess game.Code, ev game.Evaluation) {
	g := s.encode(guess)
	if g == nil {
		return
	}
	kept := s.candidates[:0]
	for _, c := range s.candidates {
		if s.score(c, g) == ev {
			kept = append(kept, c)
		}
	}
	s.candidates = kept
}

// Consistent reports whether code is still in the candidate set.
func (s *Solver) Consistent(code game.Code) bool {
	c := s.encode(code)
	if c == nil {
		return false
	}
	for _, cand := range s.candidates {
		if slices.Equal(cand, c) {
			return true
		}
	}
	return false
}

// minimax picks the candidate whose worst feedback class is smallest.
// Ties go to the earliest candidate.
func (s *Solver) minimax() []int {
	classes := make([]int, (s.length+1)*(s.length+1))
	best, bestWorst := s.candidates[0], len(s.candidates)+1
	for _, g := range s.candidates {
		clear(classes)
		worst := 0
		for _, c := range s.candidates {
			ev := s.score(c, g)
			k := ev.Exact*(s.length+1) + ev.ColorOnly
			classes[k]++
			worst = max(worst, classes[k])
			if worst >= bestWorst {
				break
			}
		}
		if worst < bestWorst {
			best, bestWorst = g, worst
		}
	}
	return best
}

// score is game.Score over palette indexes.
func (s *Solver) score(secret, guess []int) game.Evaluation {
	var ev game.Evaluation
	for i := range secret {
		if secret[i] == guess[i] {
			ev.Exact++
			continue
		}
		s.left[secret[i]]++
	}
	for i := range guess {
		if secret[i] == guess[i] || guess[i] < 0 {
			continue
		}
		if s.left[guess[i]] > 0 {
			ev.ColorOnly++
			s.left[guess[i]]--
		}
	}
	for _, c := range secret {
		s.left[c] = 0
	}
	return ev
}

// encode maps codes to palette indexes; unknown colors become -1.
// Returns nil on a length mismatch.
func (s *Solver) encode(code game.Code) []int {
	if len(code) != s.length {
		return nil
	}
	out := make([]int, len(code))
	for i, c := range code {
		idx, ok := s.index[c]
		if !ok {
			idx = -1
		}
		out[i] = idx
	}
	return out
}

func (s *Solver) decode(idx []int) game.Code {
	out := make(game.Code, len(idx))
	for i, v := range idx {
		out[i] = s.codes[v]
	}
	return out
}

// permutations returns n!/(n-k)!, saturating just past MaxCandidates.
func permutations(n, k int) int {
	total := 1
	for i := 0; i < k; i++ {
		total *= n - i
		if total > MaxCandidates {
			return MaxCandidates + 1
		}
	}
	return total
}

// enumerate lists every arrangement of k distinct indexes out of n in
// lexicographic order.
func enumerate(n, k int) [][]int {
	var out [][]int
	cur := make([]int, 0, k)
	used := make([]bool, n)
	var walk func()
	walk = func() {
		if len(cur) == k {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			used[i] = true
			cur = append(cur, i)
			walk()
			cur = cur[:len(cur)-1]
			used[i] = false
		}
	}
	walk()
	return out
}
