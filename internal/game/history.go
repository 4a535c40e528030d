package game

// HistoryEntry records one submitted guess. Index is 1-based and monotonic.
type HistoryEntry struct {
	Index  int
	Player string
	Guess  Code
	Evaluation
}

// History is the append-only log of every guess in a session.
type History struct {
	entries []HistoryEntry
}

// Append records a guess and returns the stored entry.
func (h *History) Append(player string, guess Code, ev Evaluation) HistoryEntry {
	e := HistoryEntry{
		Index:      len(h.entries) + 1,
		Player:     player,
		Guess:      append(Code(nil), guess...),
		Evaluation: ev,
	}
	h.entries = append(h.entries, e)
	return e
}

// Len is the number of guesses recorded.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the log in submission order.
func (h *History) Entries() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

// By returns the entries submitted by player.
func (h *History) By(player string) []HistoryEntry {
	var out []HistoryEntry
	for _, e := range h.entries {
		if e.Player == player {
			out = append(out, e)
		}
	}
	return out
}
