package game

import "fmt"

// seat is one player's attempt budget.
type seat struct {
	name      string
	remaining int
	total     int
	ai        bool
}

// tracker owns the per-player budgets and whose turn it is.
type tracker struct {
	seats  []*seat
	active int
}

func newTracker(maxAttempts int, seats ...*seat) *tracker {
	for _, s := range seats {
		s.remaining, s.total = maxAttempts, maxAttempts
	}
	return &tracker{seats: seats}
}

// current returns the seat whose turn it is.
func (t *tracker) current() *seat { return t.seats[t.active] }

// byName looks a player up by name; nil when nobody sits under it.
func (t *tracker) byName(name string) *seat {
	for _, s := range t.seats {
		if s.name == name {
			return s
		}
	}
	return nil
}

// computer returns the AI seat, if any.
func (t *tracker) computer() *seat {
	for _, s := range t.seats {
		if s.ai {
			return s
		}
	}
	return nil
}

// spend consumes one attempt of s.
func (t *tracker) spend(s *seat) error {
	if s.remaining <= 0 {
		return fmt.Errorf("%w: %s has used all %d attempts", ErrNoAttemptsLeft, s.name, s.total)
	}
	s.remaining--
	return nil
}

// advance hands the turn to the next seat that still has attempts, in
// seating order. Exhausted seats are skipped; if nobody has attempts left
// the turn stays where it is.
func (t *tracker) advance() {
	for step := 1; step <= len(t.seats); step++ {
		next := (t.active + step) % len(t.seats)
		if t.seats[next].remaining > 0 {
			t.active = next
			return
		}
	}
}

// over reports whether attempt exhaustion ends the game under policy.
func (t *tracker) over(policy LossPolicy) bool {
	exhausted := 0
	for _, s := range t.seats {
		if s.remaining == 0 {
			exhausted++
		}
	}
	if policy == LossFirstExhausted {
		return exhausted > 0
	}
	return exhausted == len(t.seats)
}
