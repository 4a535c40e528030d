package game

import "errors"

// Every rejection leaves the session untouched. Details are wrapped around
// these sentinels with fmt.Errorf("%w: ...") so callers can use errors.Is.
var (
	ErrConfiguration  = errors.New("invalid configuration")
	ErrInvalidGuess   = errors.New("invalid guess")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrNoAttemptsLeft = errors.New("no attempts left")
	ErrGameOver       = errors.New("game over")
)
