package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/robalobadob/mastermind/internal/palette"
)

// NewRand returns a process-local random source seeded from the runtime.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// GenerateSecret draws length distinct colors uniformly at random, without
// replacement, from pal. A nil rng uses a fresh source.
func GenerateSecret(rng *rand.Rand, length int, pal palette.Palette) (Code, error) {
	if len(pal) < 1 {
		return nil, fmt.Errorf("%w: empty palette", ErrConfiguration)
	}
	if length < 1 || length > len(pal) {
		return nil, fmt.Errorf("%w: length %d needs 1-%d distinct colors", ErrConfiguration, length, len(pal))
	}
	if rng == nil {
		rng = NewRand()
	}
	perm := rng.Perm(len(pal))
	out := make(Code, length)
	for i := range out {
		out[i] = pal[perm[i]].Code
	}
	return out, nil
}

// parseSecret validates a caller supplied secret: right length, palette
// codes only, no repeated color.
func parseSecret(raw []string, r Rules) (Code, error) {
	strict := r
	strict.NoRepeats = true
	code, err := strict.ParseGuess(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: secret: %v", ErrConfiguration, err)
	}
	return code, nil
}
