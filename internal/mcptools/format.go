package mcptools

import (
	"fmt"
	"strings"

	"github.com/robalobadob/mastermind/internal/game"
)

// FormatState renders a snapshot as a plain text board.
func FormatState(s *game.Snapshot) string {
	if s == nil {
		return "No game in progress. Call start_game to begin."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", s.ModeLabel, strings.ToUpper(string(s.Status)))
	if s.Daily != "" {
		fmt.Fprintf(&b, "Daily challenge %s\n", s.Daily)
	}
	fmt.Fprintf(&b, "Code length %d, colors: ", s.Length)
	for i, c := range s.Palette {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", c.Code, c.Name)
	}
	b.WriteString("\n\nPlayers:\n")
	for _, p := range s.Players {
		marker := " "
		if p.IsActive {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %s: %d/%d attempts left\n", marker, p.Name, p.Remaining, p.Total)
	}
	if len(s.History) > 0 {
		b.WriteString("\nHistory:\n")
		for _, h := range s.History {
			codes := make([]string, len(h.Guess))
			for i, c := range h.Guess {
				codes[i] = c.Code
			}
			fmt.Fprintf(&b, "%2d. %-10s %s  exact %d, color only %d\n",
				h.Index, h.Player, strings.Join(codes, " "), h.Exact, h.ColorOnly)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", s.Message)
	if s.Secret != nil {
		fmt.Fprintf(&b, "Secret: %s (%s)\n", strings.Join(s.Secret.Code, " "), s.Secret.Text)
	}
	return b.String()
}
