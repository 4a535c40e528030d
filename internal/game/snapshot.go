package game

import (
	"time"

	"github.com/robalobadob/mastermind/internal/palette"
)

// Snapshot is the serializable view of a session handed to presentation
// layers. Secret is only set once the game is finished.
type Snapshot struct {
	ID           string          `json:"id"`
	Mode         string          `json:"mode"`
	ModeLabel    string          `json:"mode_label"`
	Status       Status          `json:"status"`
	ActivePlayer string          `json:"active_player"`
	Message      string          `json:"message"`
	Winner       string          `json:"winner,omitempty"`
	Players      []PlayerState   `json:"players"`
	Palette      []palette.Color `json:"palette"`
	History      []HistoryView   `json:"history"`
	Length       int             `json:"length"`
	ColorCount   int             `json:"color_count"`
	MaxAttempts  int             `json:"max_attempts"`
	LossPolicy   LossPolicy      `json:"loss_policy"`
	AllowRepeats bool            `json:"allow_repeats"`
	Daily        string          `json:"daily,omitempty"`
	Secret       *SecretView     `json:"secret,omitempty"`
}

// PlayerState is one player's budget as shown to clients.
type PlayerState struct {
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
	IsActive  bool   `json:"is_active"`
	IsAI      bool   `json:"is_ai"`
}

// HistoryView is a history entry with colors expanded for display.
type HistoryView struct {
	Index     int             `json:"index"`
	Player    string          `json:"player"`
	Guess     []palette.Color `json:"guess"`
	Exact     int             `json:"exact"`
	ColorOnly int             `json:"color_only"`
}

// SecretView discloses the secret of a finished game.
type SecretView struct {
	Code []string `json:"code"`
	Text string   `json:"text"`
}

// Snapshot renders the current state.
func (s *Session) Snapshot() *Snapshot {
	active := s.turns.current()
	snap := &Snapshot{
		ID:           s.id,
		Mode:         s.mode.String(),
		ModeLabel:    s.mode.Label(),
		Status:       s.status,
		ActivePlayer: active.name,
		Message:      s.message,
		Winner:       s.winner,
		Players:      make([]PlayerState, 0, len(s.turns.seats)),
		Palette:      append([]palette.Color(nil), s.rules.Palette...),
		History:      make([]HistoryView, 0, s.history.Len()),
		Length:       s.rules.Length,
		ColorCount:   len(s.rules.Palette),
		MaxAttempts:  s.rules.MaxAttempts,
		LossPolicy:   s.policy,
		AllowRepeats: !s.rules.NoRepeats,
		Daily:        s.daily,
	}
	for _, st := range s.turns.seats {
		snap.Players = append(snap.Players, PlayerState{
			Name:      st.name,
			Remaining: st.remaining,
			Total:     st.total,
			IsActive:  s.status == StatusOngoing && st == active,
			IsAI:      st.ai,
		})
	}
	for _, e := range s.history.entries {
		snap.History = append(snap.History, HistoryView{
			Index:     e.Index,
			Player:    e.Player,
			Guess:     s.rules.Palette.Colors(e.Guess),
			Exact:     e.Exact,
			ColorOnly: e.ColorOnly,
		})
	}
	if s.status.Finished() {
		snap.Secret = &SecretView{
			Code: append([]string(nil), s.secret...),
			Text: s.rules.Palette.Text(s.secret),
		}
	}
	return snap
}

// Outcome summarizes a finished game for archival.
type Outcome struct {
	ID          string
	Mode        Mode
	Status      Status
	Winner      string
	Guesses     int
	Length      int
	ColorCount  int
	MaxAttempts int
	Secret      Code
	Daily       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Outcome returns the archival summary; ok is false while the game is ongoing.
func (s *Session) Outcome() (Outcome, bool) {
	if !s.status.Finished() {
		return Outcome{}, false
	}
	guesses := s.history.Len()
	if s.winner != "" {
		guesses = len(s.history.By(s.winner))
	}
	return Outcome{
		ID:          s.id,
		Mode:        s.mode,
		Status:      s.status,
		Winner:      s.winner,
		Guesses:     guesses,
		Length:      s.rules.Length,
		ColorCount:  len(s.rules.Palette),
		MaxAttempts: s.rules.MaxAttempts,
		Secret:      append(Code(nil), s.secret...),
		Daily:       s.daily,
		StartedAt:   s.startedAt,
		FinishedAt:  s.finishedAt,
	}, true
}
