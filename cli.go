// cli.go
//
// Command tree (urfave/cli/v3):
//   - serve (default) → HTTP + WebSocket server
//   - play            → interactive terminal game
//   - solve           → the computer cracks a code you give it
//   - mcp             → MCP tool server on stdio
//
// Every command shares one wiring path: palette → store (+ results archive).

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/console"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/live"
	"github.com/robalobadob/mastermind/internal/mcptools"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/results"
	"github.com/robalobadob/mastermind/internal/solver"
	"github.com/robalobadob/mastermind/internal/store"
)

func rootCommand(cfg *config.Config) *cli.Command {
	dbFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "db",
			Usage:   "results archive path (empty disables it)",
			Value:   cfg.DBPath,
			Sources: cli.EnvVars("DB_PATH"),
		}
	}
	return &cli.Command{
		Name:           "mastermind",
		Usage:          "Mastermind code-breaking game server and console",
		Version:        Version,
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP and WebSocket server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Value: cfg.Port, Sources: cli.EnvVars("PORT")},
					&cli.StringFlag{Name: "origin", Value: cfg.ClientOrigin, Sources: cli.EnvVars("CLIENT_ORIGIN")},
					dbFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return serve(ctx, cfg, cmd.String("port"), cmd.String("origin"), cmd.String("db"))
				},
			},
			{
				Name:  "play",
				Usage: "play in the terminal",
				Flags: append(gameFlags(cfg),
					&cli.StringFlag{Name: "mode", Value: game.ModePlayerVsAI.String(), Usage: "player_vs_ai or pvp_one_by_one"},
					&cli.StringSliceFlag{Name: "player", Value: []string{"Player"}, Usage: "player name, repeat for two players"},
					&cli.BoolFlag{Name: "daily", Usage: "play today's daily challenge code"},
					&cli.StringFlag{Name: "loss-policy", Value: string(cfg.Defaults.LossPolicy)},
					&cli.BoolFlag{Name: "no-repeats", Value: !cfg.Defaults.AllowRepeats, Usage: "reject guesses that repeat a color"},
					dbFlag(),
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					quietConsole(cmd)
					mode, err := game.ParseMode(cmd.String("mode"))
					if err != nil {
						return err
					}
					policy, err := game.ParseLossPolicy(cmd.String("loss-policy"))
					if err != nil {
						return err
					}
					st, _, closeStore, err := newStore(cfg, cmd.String("db"))
					if err != nil {
						return err
					}
					defer closeStore()

					players := cmd.StringSlice("player")
					if mode == game.ModePlayerVsPlayer && len(players) < 2 {
						players = []string{"Player 1", "Player 2"}
					}
					return console.Play(ctx, st, store.StartRequest{
						Mode:        mode,
						Length:      cmd.Int("length"),
						ColorCount:  cmd.Int("colors"),
						MaxAttempts: cmd.Int("attempts"),
						Players:     players,
						LossPolicy:  policy,
						NoRepeats:   cmd.Bool("no-repeats"),
						Daily:       cmd.Bool("daily"),
					}, os.Stdin, os.Stdout)
				},
			},
			{
				Name:      "solve",
				Usage:     "let the computer crack a code",
				ArgsUsage: "CODE (e.g. RGBY)",
				Flags:     append(gameFlags(cfg), dbFlag()),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					quietConsole(cmd)
					secret := palette.SplitInput(cmd.Args().First())
					if len(secret) == 0 {
						return fmt.Errorf("solve needs a code, e.g. %s solve RGBY", cmd.Root().Name)
					}
					st, _, closeStore, err := newStore(cfg, cmd.String("db"))
					if err != nil {
						return err
					}
					defer closeStore()

					length := len(secret)
					if cmd.IsSet("length") {
						length = cmd.Int("length")
					}
					_, err = console.Solve(ctx, st, store.StartRequest{
						Length:      length,
						ColorCount:  cmd.Int("colors"),
						MaxAttempts: cmd.Int("attempts"),
						Secret:      secret,
					}, os.Stdout)
					return err
				},
			},
			{
				Name:  "mcp",
				Usage: "serve MCP tools on stdin/stdout",
				Flags: []cli.Flag{dbFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					// stdout carries the protocol; the global logger already
					// writes to stderr.
					st, _, closeStore, err := newStore(cfg, cmd.String("db"))
					if err != nil {
						return err
					}
					defer closeStore()
					log.Info().Msg("mcp server on stdio")
					return mcptools.New(st, cfg.Defaults, Version).ServeStdio()
				},
			},
		},
	}
}

func gameFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "length", Value: cfg.Defaults.Length, Usage: "code length"},
		&cli.IntFlag{Name: "colors", Value: cfg.Defaults.ColorCount, Usage: "colors in play"},
		&cli.IntFlag{Name: "attempts", Value: cfg.Defaults.MaxAttempts, Usage: "attempts per player"},
		&cli.BoolFlag{Name: "verbose", Usage: "keep info logs in the terminal"},
	}
}

// quietConsole keeps info logs from interleaving with the board.
func quietConsole(cmd *cli.Command) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if !cmd.Bool("verbose") && zerolog.GlobalLevel() < zerolog.WarnLevel {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// newStore loads the palette, opens the archive at dbPath when one is set
// and builds the store every command plays through.
func newStore(cfg *config.Config, dbPath string) (*store.Store, *results.Store, func(), error) {
	run := *cfg
	run.DBPath = dbPath
	pal, err := palette.Load(cfg.PaletteFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load palette: %w", err)
	}
	opts := store.Options{
		Palette:     pal,
		AIName:      cfg.Defaults.AIName,
		NewOpponent: solver.Factory,
		DailySalt:   cfg.DailySalt,
	}
	var arch *results.Store
	closeFn := func() {}
	if run.ArchiveEnabled() {
		if arch, err = results.Open(run.DBPath); err != nil {
			return nil, nil, nil, err
		}
		opts.Recorder = arch
		closeFn = func() {
			if err := arch.Close(); err != nil {
				log.Warn().Err(err).Msg("close results db")
			}
		}
	}
	return store.New(opts), arch, closeFn, nil
}

func serve(ctx context.Context, cfg *config.Config, port, origin, dbPath string) error {
	run := *cfg
	run.Port, run.ClientOrigin, run.DBPath = port, origin, dbPath
	st, arch, closeStore, err := newStore(&run, run.DBPath)
	if err != nil {
		return err
	}
	defer closeStore()

	hub := live.NewHub(origin, func() *game.Snapshot { return st.State(context.Background()) })
	st.Subscribe(hub.Broadcast)
	go hub.Run(ctx)

	deps := httpserver.Deps{Store: st, Hub: hub, Defaults: cfg.Defaults, ClientOrigin: origin}
	if arch != nil {
		deps.Archive = arch
	}

	log.Info().Str("addr", run.Addr()).Bool("archive", run.ArchiveEnabled()).Msg("starting mastermind server")
	return httpserver.New(deps).Start(ctx, run.Addr())
}
