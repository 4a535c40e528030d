// internal/results/store.go
//
// Archive of finished games.
// Responsibilities:
//   - Record one row per game that reached won or lost.
//   - List recent results and per-date daily challenge leaderboards.
//
// The archive is write-behind for the live game: callers treat Record
// failures as warnings. It never holds an in-progress session.

package results

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/game"
)

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const tsLayout = "2006-01-02T15:04:05.000Z"

// DefaultLimit caps list queries when the caller passes no limit.
const DefaultLimit = 20

// Result is one archived game.
type Result struct {
	ID          string    `json:"id"`
	Mode        string    `json:"mode"`
	Status      string    `json:"status"`
	Winner      string    `json:"winner,omitempty"`
	Guesses     int       `json:"guesses"`
	Length      int       `json:"length"`
	ColorCount  int       `json:"color_count"`
	MaxAttempts int       `json:"max_attempts"`
	Secret      []string  `json:"secret"`
	Daily       string    `json:"daily,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// LeaderboardRow is one winning daily challenge entry.
type LeaderboardRow struct {
	Rank       int       `json:"rank"`
	Player     string    `json:"player"`
	Guesses    int       `json:"guesses"`
	Mode       string    `json:"mode"`
	Length     int       `json:"length"`
	ColorCount int       `json:"color_count"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store persists results in SQLite.
type Store struct{ db *sql.DB }

// Open opens the database at path and applies migrations.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate results db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record archives o. Recording the same game twice is a no-op.
func (s *Store) Record(ctx context.Context, o game.Outcome) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (id, mode, status, winner, guesses, length, color_count, max_attempts,
             secret, daily_date, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Mode.String(), string(o.Status), nullable(o.Winner), o.Guesses,
		o.Length, o.ColorCount, o.MaxAttempts, strings.Join(o.Secret, ","),
		nullable(o.Daily), o.StartedAt.UTC().Format(tsLayout), o.FinishedAt.UTC().Format(tsLayout),
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", o.ID, err)
	}
	return nil
}

// Recent returns the latest results, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, mode, status, COALESCE(winner,''), guesses, length, color_count,
               max_attempts, secret, COALESCE(daily_date,''), started_at, finished_at
        FROM results
        ORDER BY finished_at DESC, id
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r                 Result
			secret            string
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Mode, &r.Status, &r.Winner, &r.Guesses, &r.Length,
			&r.ColorCount, &r.MaxAttempts, &secret, &r.Daily, &started, &finished); err != nil {
			return nil, err
		}
		r.Secret = strings.Split(secret, ",")
		if r.StartedAt, err = time.Parse(tsLayout, started); err != nil {
			return nil, fmt.Errorf("result %s started_at: %w", r.ID, err)
		}
		if r.FinishedAt, err = time.Parse(tsLayout, finished); err != nil {
			return nil, fmt.Errorf("result %s finished_at: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DailyLeaderboard ranks the winners of the daily challenge on date:
// fewest guesses first, then whoever finished earliest.
func (s *Store) DailyLeaderboard(ctx context.Context, date string, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT winner, guesses, mode, length, color_count, finished_at
        FROM results
        WHERE daily_date=? AND status=? AND winner IS NOT NULL
        ORDER BY guesses ASC, finished_at ASC
        LIMIT ?`, date, string(game.StatusWon), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var (
			r        LeaderboardRow
			finished string
		)
		if err := rows.Scan(&r.Player, &r.Guesses, &r.Mode, &r.Length, &r.ColorCount, &finished); err != nil {
			return nil, err
		}
		if r.FinishedAt, err = time.Parse(tsLayout, finished); err != nil {
			return nil, err
		}
		r.Rank = len(out) + 1
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
