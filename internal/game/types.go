// internal/game/types.go
//
// Core type definitions for the Mastermind game engine.
// Defines:
//   - Code: an ordered sequence of palette color codes (secret or guess).
//   - Evaluation: exact / color-only match counts for one guess.
//   - Status: ongoing → won | lost.
//   - Mode: which kind of game a session runs.
//   - LossPolicy: when running out of attempts ends the game.

package game

import (
	"fmt"
	"strings"
)

// Code is an ordered sequence of color codes.
type Code []string

// String renders the code as space separated color codes.
func (c Code) String() string { return strings.Join(c, " ") }

