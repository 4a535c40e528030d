// internal/console/play.go
//
// Interactive terminal play over the same store the HTTP server uses.
// Commands at the prompt:
//   - a guess such as "rgby" or "R G B Y"
//   - "board" redraws the board, "help" shows the colors
//   - "quit" leaves

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/store"
)

// ErrQuit is returned by Play when the user quits mid-game.
var ErrQuit = errors.New("quit")

// Play starts req and reads guesses from in until the game ends, then
// offers a rematch with the same settings.
func Play(ctx context.Context, st *store.Store, req store.StartRequest, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		snap, err := st.Start(ctx, req)
		if err != nil {
			return err
		}
		Legend(out, snap.Palette)
		Board(out, snap)

		if err := turns(ctx, st, sc, out); err != nil {
			return err
		}

		fmt.Fprint(out, "Play again? [y/N] ")
		if !sc.Scan() {
			return sc.Err()
		}
		if a := strings.ToLower(strings.TrimSpace(sc.Text())); a != "y" && a != "yes" {
			return nil
		}
	}
}

// turns runs the prompt loop of one game.
func turns(ctx context.Context, st *store.Store, sc *bufio.Scanner, out io.Writer) error {
	for {
		snap := st.State(ctx)
		if snap == nil || snap.Status.Finished() {
			return nil
		}
		fmt.Fprintf(out, "%s > ", snap.ActivePlayer)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return ErrQuit
		}
		line := strings.TrimSpace(sc.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			return ErrQuit
		case "board":
			Board(out, snap)
			continue
		case "help", "?":
			Legend(out, snap.Palette)
			fmt.Fprintf(out, "Enter %d colors, e.g. %q.\n", snap.Length, example(snap))
			continue
		}

		next, err := st.Guess(ctx, palette.SplitInput(line), snap.ActivePlayer)
		if err != nil {
			log.Debug().Err(err).Msg("console guess rejected")
			C.Warn.Fprintln(out, "✖ "+err.Error())
			continue
		}
		Board(out, next)
	}
}

func example(s *game.Snapshot) string {
	var b strings.Builder
	for i := 0; i < s.Length && i < len(s.Palette); i++ {
		b.WriteString(strings.ToLower(s.Palette[i].Code))
	}
	return b.String()
}

// Solve runs an ai_solver game for secret and prints the result.
func Solve(ctx context.Context, st *store.Store, req store.StartRequest, out io.Writer) (*game.Snapshot, error) {
	req.Mode = game.ModeAISolver
	snap, err := st.Start(ctx, req)
	if err != nil {
		return nil, err
	}
	Board(out, snap)
	return snap, nil
}
