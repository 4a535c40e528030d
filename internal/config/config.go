// internal/config/config.go
//
// Environment configuration for the server and the console commands.
// Responsibilities:
//   - Read every setting from the process environment (.env is loaded by main
//     through godotenv before Load runs).
//   - Provide game defaults that fill the gaps in a start request.
//   - Validate values up front so a bad deployment fails at boot, not on the
//     first request.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/mastermind/internal/game"
)

// Config holds all application configuration.
type Config struct {
	Port         string
	LogLevel     string
	ClientOrigin string
	// DBPath locates the results archive; empty disables it.
	DBPath      string
	PaletteFile string
	DailySalt   string
	Defaults    Defaults
}

// Defaults are the start parameters used when a caller leaves them out.
type Defaults struct {
	Length       int
	ColorCount   int
	MaxAttempts  int
	LossPolicy   game.LossPolicy
	AllowRepeats bool
	AIName       string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DBPath:       getEnv("DB_PATH", "./data/mastermind.db"),
		PaletteFile:  getEnv("PALETTE_FILE", ""),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		Defaults: Defaults{
			Length:       getEnvInt("DEFAULT_LENGTH", 4),
			ColorCount:   getEnvInt("DEFAULT_COLOR_COUNT", 6),
			MaxAttempts:  getEnvInt("DEFAULT_MAX_ATTEMPTS", 10),
			LossPolicy:   game.LossPolicy(getEnv("LOSS_POLICY", string(game.LossAllExhausted))),
			AllowRepeats: getEnvBool("ALLOW_REPEATS", true),
			AIName:       getEnv("AI_NAME", game.DefaultAIName),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Defaults.LossPolicy, _ = game.ParseLossPolicy(string(cfg.Defaults.LossPolicy))
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.DailySalt == "" {
		return fmt.Errorf("DAILY_SALT cannot be empty")
	}
	d := c.Defaults
	if d.ColorCount < 1 {
		return fmt.Errorf("DEFAULT_COLOR_COUNT must be > 0")
	}
	if d.Length < 1 || d.Length > d.ColorCount {
		return fmt.Errorf("DEFAULT_LENGTH must be between 1 and DEFAULT_COLOR_COUNT (%d)", d.ColorCount)
	}
	if d.MaxAttempts < 1 {
		return fmt.Errorf("DEFAULT_MAX_ATTEMPTS must be > 0")
	}
	if _, err := game.ParseLossPolicy(string(d.LossPolicy)); err != nil {
		return fmt.Errorf("LOSS_POLICY: %w", err)
	}
	if strings.TrimSpace(d.AIName) == "" {
		return fmt.Errorf("AI_NAME cannot be blank")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

// ArchiveEnabled reports whether finished games are written to SQLite.
func (c *Config) ArchiveEnabled() bool { return c.DBPath != "" }

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
