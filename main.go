// main.go
//
// Entry point for the Mastermind server and console.
// Responsibilities:
//   - Load .env (when present) and environment configuration.
//   - Configure the global zerolog level.
//   - Run the command tree in cli.go until interrupted.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/console"
)

// Version is reported by --version and the MCP handshake.
const Version = "0.3.0"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand(cfg).Run(ctx, os.Args); err != nil && !errors.Is(err, console.ErrQuit) {
		log.Fatal().Err(err).Msg("exited")
	}
}
