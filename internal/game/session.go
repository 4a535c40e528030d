// internal/game/session.go
//
// Game Session: the state machine that owns a secret, the players' attempt
// budgets, the history log and the status.
//
// State transitions:
//   - ongoing → won:  any guess (human or computer) scores Exact == Length.
//   - ongoing → lost: attempt exhaustion under the configured LossPolicy.
//   - won/lost are terminal; a new Session replaces a finished one.
//
// A Session is not safe for concurrent use; the store serializes access.

package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/mastermind/internal/palette"
)

// DefaultAIName is the computer player's name unless configured otherwise.
const DefaultAIName = "Computer"

// Opponent produces the computer's guesses. Observe is called with the
// evaluation of every guess Next returned.
type Opponent interface {
	Next() Code
	Observe(guess Code, ev Evaluation)
}

// OpponentFactory builds an Opponent for the given rules.
type OpponentFactory func(r Rules, rng *rand.Rand) (Opponent, error)

// Config holds the start parameters of a session.
type Config struct {
	Mode        Mode
	Length      int
	ColorCount  int
	MaxAttempts int
	// Players are the human names in turn order.
	Players []string
	// Secret is required for ModeAISolver and fixes the secret otherwise.
	Secret     []string
	LossPolicy LossPolicy
	NoRepeats  bool
	// Palette is the global palette; nil uses palette.Default().
	Palette palette.Palette
	AIName  string
	// Daily is the date key when the secret is the daily challenge.
	Daily       string
	Rand        *rand.Rand
	NewOpponent OpponentFactory
}

// Session is a single game.
type Session struct {
	id         string
	mode       Mode
	rules      Rules
	policy     LossPolicy
	daily      string
	secret     Code
	turns      *tracker
	history    History
	opponent   Opponent
	status     Status
	winner     string
	message    string
	startedAt  time.Time
	finishedAt time.Time
}

// New validates cfg and starts a session. In ModeAISolver the computer
// plays to completion before New returns.
func New(cfg Config) (*Session, error) {
	if _, ok := modeKeys[cfg.Mode]; !ok {
		return nil, fmt.Errorf("%w: unsupported mode %d", ErrConfiguration, int(cfg.Mode))
	}
	global := cfg.Palette
	if global == nil {
		var err error
		if global, err = palette.Default(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}
	colors, err := global.Take(cfg.ColorCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if cfg.Length < 1 || cfg.Length > cfg.ColorCount {
		return nil, fmt.Errorf("%w: length must be between 1 and %d, got %d", ErrConfiguration, cfg.ColorCount, cfg.Length)
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrConfiguration, cfg.MaxAttempts)
	}
	policy, err := ParseLossPolicy(string(cfg.LossPolicy))
	if err != nil {
		return nil, err
	}
	rules := Rules{Palette: colors, Length: cfg.Length, MaxAttempts: cfg.MaxAttempts, NoRepeats: cfg.NoRepeats}

	aiName := strings.TrimSpace(cfg.AIName)
	if aiName == "" {
		aiName = DefaultAIName
	}
	seats, err := seatsFor(cfg.Mode, cfg.Players, aiName)
	if err != nil {
		return nil, err
	}

	rng := cfg.Rand
	if rng == nil {
		rng = NewRand()
	}

	var secret Code
	switch {
	case len(cfg.Secret) > 0:
		if secret, err = parseSecret(cfg.Secret, rules); err != nil {
			return nil, err
		}
	case cfg.Mode == ModeAISolver:
		return nil, fmt.Errorf("%w: a secret is required for %s", ErrConfiguration, cfg.Mode)
	default:
		if secret, err = GenerateSecret(rng, rules.Length, colors); err != nil {
			return nil, err
		}
	}

	var opp Opponent
	if cfg.Mode.HasOpponent() {
		if cfg.NewOpponent == nil {
			return nil, fmt.Errorf("%w: %s needs a computer opponent", ErrConfiguration, cfg.Mode)
		}
		if opp, err = cfg.NewOpponent(rules, rng); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}

	s := &Session{
		id:        uuid.NewString(),
		mode:      cfg.Mode,
		rules:     rules,
		policy:    policy,
		daily:     cfg.Daily,
		secret:    secret,
		turns:     newTracker(rules.MaxAttempts, seats...),
		opponent:  opp,
		status:    StatusOngoing,
		startedAt: time.Now().UTC(),
	}

	switch s.mode {
	case ModePlayerVsAI:
		s.message = fmt.Sprintf("%s, you have %d attempts to crack the code. %s is racing you.",
			seats[0].name, rules.MaxAttempts, aiName)
	case ModePlayerVsPlayer:
		s.message = fmt.Sprintf("Game started! %s guesses first.", seats[0].name)
	case ModeAISolver:
		if err := s.solve(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// seatsFor builds the seating for a mode. Blank or clashing names are
// configuration errors; names past the ones a mode needs are ignored.
func seatsFor(mode Mode, players []string, aiName string) ([]*seat, error) {
	name := func(i int) (string, error) {
		if i >= len(players) || strings.TrimSpace(players[i]) == "" {
			return "", fmt.Errorf("%w: %s needs a name for player %d", ErrConfiguration, mode, i+1)
		}
		return strings.TrimSpace(players[i]), nil
	}

	switch mode {
	case ModePlayerVsAI:
		human, err := name(0)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(human, aiName) {
			return nil, fmt.Errorf("%w: %q is reserved for the computer", ErrConfiguration, human)
		}
		return []*seat{{name: human}, {name: aiName, ai: true}}, nil
	case ModePlayerVsPlayer:
		first, err := name(0)
		if err != nil {
			return nil, err
		}
		second, err := name(1)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(first, second) {
			return nil, fmt.Errorf("%w: player names must differ", ErrConfiguration)
		}
		return []*seat{{name: first}, {name: second}}, nil
	default:
		return []*seat{{name: aiName, ai: true}}, nil
	}
}

// Guess submits a guess for player. An empty player means whoever is on
// turn. A rejected guess leaves the session unchanged.
func (s *Session) Guess(raw []string, player string) error {
	if s.status.Finished() {
		return fmt.Errorf("%w: the game is %s, start a new one", ErrGameOver, s.status)
	}
	st, err := s.resolve(strings.TrimSpace(player))
	if err != nil {
		return err
	}
	guess, err := s.rules.ParseGuess(raw)
	if err != nil {
		return err
	}

	ev, err := s.play(st, guess)
	if err != nil {
		return err
	}
	if s.status.Finished() {
		return nil
	}

	switch s.mode {
	case ModePlayerVsPlayer:
		if s.turns.over(s.policy) {
			s.lose()
			return nil
		}
		s.turns.advance()
		next := s.turns.current()
		s.message = fmt.Sprintf("%s: exact %d, color only %d. Next up: %s (%d attempts left).",
			st.name, ev.Exact, ev.ColorOnly, next.name, next.remaining)
	case ModePlayerVsAI:
		s.message = fmt.Sprintf("Exact %d, color only %d. %d attempts left.", ev.Exact, ev.ColorOnly, st.remaining)
		return s.respond(st)
	}
	return nil
}

// resolve maps the submitting player to a seat. A named player who is out
// of attempts hears that before any turn-order complaint.
func (s *Session) resolve(player string) (*seat, error) {
	if named := s.turns.byName(player); named != nil && named.remaining <= 0 {
		return nil, fmt.Errorf("%w: %s has used all %d attempts", ErrNoAttemptsLeft, named.name, named.total)
	}
	switch s.mode {
	case ModePlayerVsAI:
		human := s.turns.seats[0]
		if player != "" && player != human.name {
			return nil, fmt.Errorf("%w: only %s guesses in this game", ErrNotYourTurn, human.name)
		}
		return human, nil
	case ModePlayerVsPlayer:
		cur := s.turns.current()
		if player != "" && player != cur.name {
			return nil, fmt.Errorf("%w: it is %s's turn", ErrNotYourTurn, cur.name)
		}
		return cur, nil
	default:
		return nil, fmt.Errorf("%w: the computer plays this game alone", ErrNotYourTurn)
	}
}

// play scores guess for st, spends one of its attempts and records it.
// Nothing changes when it returns an error.
func (s *Session) play(st *seat, guess Code) (Evaluation, error) {
	ev, err := s.rules.Evaluate(s.secret, guess)
	if err != nil {
		return Evaluation{}, err
	}
	if err := s.turns.spend(st); err != nil {
		return Evaluation{}, err
	}
	s.history.Append(st.name, guess, ev)
	if st.ai {
		s.opponent.Observe(guess, ev)
	}
	if s.rules.Solved(ev) {
		s.win(st.name)
	}
	return ev, nil
}

// respond runs the computer's move after a human guess. Once the human is
// out of attempts the computer keeps going on its own turns, unless the
// loss policy ends the game at the first exhausted player.
func (s *Session) respond(human *seat) error {
	ai := s.turns.computer()
	for ai.remaining > 0 && !s.status.Finished() {
		guess := s.opponent.Next()
		ev, err := s.play(ai, guess)
		if err != nil {
			return fmt.Errorf("computer move: %w", err)
		}
		if s.status.Finished() {
			return nil
		}
		s.message += fmt.Sprintf(" %s guessed %s: exact %d, color only %d.", ai.name, guess, ev.Exact, ev.ColorOnly)
		if human.remaining > 0 || s.policy == LossFirstExhausted {
			break
		}
	}
	if s.turns.over(s.policy) {
		s.lose()
	}
	return nil
}

// solve lets the computer play until it wins or runs out of attempts.
func (s *Session) solve() error {
	ai := s.turns.current()
	for ai.remaining > 0 && !s.status.Finished() {
		if _, err := s.play(ai, s.opponent.Next()); err != nil {
			return fmt.Errorf("computer move: %w", err)
		}
	}
	if !s.status.Finished() {
		s.lose()
	}
	return nil
}

func (s *Session) win(player string) {
	s.status = StatusWon
	s.winner = player
	s.finishedAt = time.Now().UTC()
	n := len(s.history.By(player))
	unit := "guesses"
	if n == 1 {
		unit = "guess"
	}
	s.message = fmt.Sprintf("%s cracked the code in %d %s!", player, n, unit)
}

func (s *Session) lose() {
	s.status = StatusLost
	s.finishedAt = time.Now().UTC()
	s.message = fmt.Sprintf("Out of attempts. Nobody cracked the code: %s (%s).",
		s.secret, s.rules.Palette.Text(s.secret))
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the session's mode.
func (s *Session) Mode() Mode { return s.mode }

// Status returns the current status.
func (s *Session) Status() Status { return s.status }

// Rules returns the rules guesses are checked against.
func (s *Session) Rules() Rules { return s.rules }

// Winner returns the winning player's name, empty unless won.
func (s *Session) Winner() string { return s.winner }

// History returns a copy of the guess log.
func (s *Session) History() []HistoryEntry { return s.history.Entries() }
