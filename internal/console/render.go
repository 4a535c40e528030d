// internal/console/render.go
//
// Terminal rendering of game snapshots: a history table drawn with go-pretty
// and colored pegs from fatih/color. Colors switch off automatically when
// stdout is not a terminal.

package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
)

// Styles for everything that is not a peg.
var C = struct {
	Exact, ColorOnly, Info, Warn, Win, Lose, Header *color.Color
}{
	Exact:     color.New(color.FgHiWhite, color.Bold),
	ColorOnly: color.New(color.FgWhite),
	Info:      color.New(color.FgCyan),
	Warn:      color.New(color.FgHiYellow),
	Win:       color.New(color.FgGreen, color.Bold),
	Lose:      color.New(color.FgRed, color.Bold),
	Header:    color.New(color.FgWhite, color.Bold),
}

// pegColors maps palette names to terminal colors.
var pegColors = map[string]*color.Color{
	"red":    color.New(color.FgRed),
	"green":  color.New(color.FgGreen),
	"blue":   color.New(color.FgBlue),
	"yellow": color.New(color.FgYellow),
	"orange": color.New(color.FgHiRed),
	"purple": color.New(color.FgMagenta),
	"cyan":   color.New(color.FgCyan),
	"white":  color.New(color.FgHiWhite),
}

// Peg renders one color as its code, colored when the name is known.
func Peg(c palette.Color) string {
	if col, ok := pegColors[strings.ToLower(c.Name)]; ok {
		return col.Sprint(c.Code)
	}
	return c.Code
}

// Pegs renders a code as space separated pegs.
func Pegs(colors []palette.Color) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = Peg(c)
	}
	return strings.Join(parts, " ")
}

// KeyPegs renders feedback as ● per exact and ○ per color-only match.
func KeyPegs(exact, colorOnly int) string {
	return C.Exact.Sprint(strings.Repeat("●", exact)) + C.ColorOnly.Sprint(strings.Repeat("○", colorOnly))
}

// Board writes the full board for s.
func Board(out io.Writer, s *game.Snapshot) {
	if s == nil {
		fmt.Fprintln(out, "No game in progress.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	title := s.ModeLabel
	if s.Daily != "" {
		title += " · daily " + s.Daily
	}
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Player", "Guess", "Exact", "Color only", "Keys"})
	for _, h := range s.History {
		t.AppendRow(table.Row{h.Index, h.Player, Pegs(h.Guess), h.Exact, h.ColorOnly, KeyPegs(h.Exact, h.ColorOnly)})
	}
	if len(s.History) == 0 {
		t.AppendRow(table.Row{"", "no guesses yet", "", "", "", ""})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()

	players := make([]string, len(s.Players))
	for i, p := range s.Players {
		entry := fmt.Sprintf("%s %d/%d", p.Name, p.Remaining, p.Total)
		if p.IsActive {
			entry = C.Info.Sprint("▶ " + entry)
		}
		players[i] = entry
	}
	fmt.Fprintf(out, "Players: %s\n", strings.Join(players, "   "))

	switch s.Status {
	case game.StatusWon:
		C.Win.Fprintln(out, s.Message)
	case game.StatusLost:
		C.Lose.Fprintln(out, s.Message)
	default:
		fmt.Fprintln(out, s.Message)
	}
	if s.Secret != nil {
		pal := palette.Palette(s.Palette)
		fmt.Fprintf(out, "Secret: %s (%s)\n", Pegs(pal.Colors(s.Secret.Code)), s.Secret.Text)
	}
}

// Legend writes the colors in play.
func Legend(out io.Writer, colors []palette.Color) {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = Peg(c) + "=" + c.Name
	}
	fmt.Fprintf(out, "Colors: %s\n", strings.Join(parts, "  "))
}
