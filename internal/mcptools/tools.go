// internal/mcptools/tools.go
//
// MCP tool surface over the game store, so an assistant can play.
// Tools:
//   - start_game   → start a session (same parameters as POST /start)
//   - submit_guess → guess for the active player
//   - game_state   → current board
//   - reset_game   → discard the session
//   - palette      → list the colors and modes
//
// Results are plain text boards; rejections come back as tool errors that
// still include the unchanged board.

package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/store"
)

// Tools binds MCP handlers to a store.
type Tools struct {
	store     *store.Store
	defaults  config.Defaults
	mcpServer *server.MCPServer
}

// New builds the MCP server and registers every tool.
func New(st *store.Store, defaults config.Defaults, version string) *Tools {
	t := &Tools{store: st, defaults: defaults}
	t.mcpServer = server.NewMCPServer(
		"mastermind",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mastermind - MCP Interface

Crack a hidden sequence of distinct colors. After every guess you get two
numbers: exact (right color, right place) and color only (right color,
wrong place).

1. Call palette to see the colors and modes.
2. Call start_game (mode player_vs_ai races the computer, pvp_one_by_one
   alternates two named players, ai_solver lets the computer crack a secret
   you provide).
3. Call submit_guess with codes such as "RGBY" or "R G B Y".
4. Call game_state at any time; reset_game discards the game.`),
	)
	t.registerTools()
	return t
}

// Server exposes the MCP server.
func (t *Tools) Server() *server.MCPServer { return t.mcpServer }

// ServeStdio runs the MCP protocol over stdin/stdout until EOF.
func (t *Tools) ServeStdio() error { return server.ServeStdio(t.mcpServer) }

func (t *Tools) registerTools() {
	t.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a new game, replacing any game in progress",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"player_vs_ai", "pvp_one_by_one", "ai_solver"},
					"description": "Game mode",
				},
				"players": map[string]interface{}{
					"type":        "string",
					"description": "Comma separated player names (one for player_vs_ai, two for pvp_one_by_one)",
				},
				"length": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Code length (default %d)", t.defaults.Length),
				},
				"color_count": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Colors in play (default %d)", t.defaults.ColorCount),
				},
				"max_attempts": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Attempts per player (default %d)", t.defaults.MaxAttempts),
				},
				"secret": map[string]interface{}{
					"type":        "string",
					"description": "Secret for ai_solver, e.g. \"RGBY\"",
				},
				"daily": map[string]interface{}{
					"type":        "boolean",
					"description": "Play today's daily challenge code",
				},
				"loss_policy": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(game.LossAllExhausted), string(game.LossFirstExhausted)},
					"description": "When running out of attempts ends the game",
				},
				"allow_repeats": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether guesses may repeat a color",
				},
			},
			Required: []string{"mode"},
		},
	}, t.handleStart)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_guess",
		Description: "Submit a guess for the player on turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"guess": map[string]interface{}{
					"type":        "string",
					"description": "Color codes, e.g. \"RGBY\" or \"R G B Y\"",
				},
				"player": map[string]interface{}{
					"type":        "string",
					"description": "Submitting player (optional, defaults to whoever is on turn)",
				},
			},
			Required: []string{"guess"},
		},
	}, t.handleGuess)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the current board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, t.handleState)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Discard the current game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, t.handleReset)

	t.mcpServer.AddTool(mcp.Tool{
		Name:        "palette",
		Description: "List the available colors and game modes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, t.handlePalette)
}

func (t *Tools) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mode, err := game.ParseMode(str(args, "mode"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	policy := t.defaults.LossPolicy
	if p := str(args, "loss_policy"); p != "" {
		if policy, err = game.ParseLossPolicy(p); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	repeats := t.defaults.AllowRepeats
	if v, ok := args["allow_repeats"].(bool); ok {
		repeats = v
	}
	secret := palette.SplitInput(str(args, "secret"))
	if len(secret) > 0 && mode != game.ModeAISolver {
		err := fmt.Errorf("%w: a secret may only be supplied for %s", game.ErrConfiguration, game.ModeAISolver)
		return mcp.NewToolResultError(err.Error()), nil
	}
	daily, _ := args["daily"].(bool)

	snap, err := t.store.Start(ctx, store.StartRequest{
		Mode:        mode,
		Length:      num(args, "length", t.defaults.Length),
		ColorCount:  num(args, "color_count", t.defaults.ColorCount),
		MaxAttempts: num(args, "max_attempts", t.defaults.MaxAttempts),
		Players:     names(str(args, "players")),
		Secret:      secret,
		LossPolicy:  policy,
		NoRepeats:   !repeats,
		Daily:       daily,
	})
	if err != nil {
		return rejected(err, snap), nil
	}
	return mcp.NewToolResultText(FormatState(snap)), nil
}

func (t *Tools) handleGuess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	snap, err := t.store.Guess(ctx, palette.SplitInput(str(args, "guess")), str(args, "player"))
	if err != nil {
		return rejected(err, snap), nil
	}
	return mcp.NewToolResultText(FormatState(snap)), nil
}

func (t *Tools) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatState(t.store.State(ctx))), nil
}

func (t *Tools) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.store.Reset(ctx)
	return mcp.NewToolResultText("Game discarded. Call start_game to play again."), nil
}

func (t *Tools) handlePalette(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pal := t.store.Palette()
	if pal == nil {
		var err error
		if pal, err = palette.Default(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Colors (%d): %s\n", len(pal), pal.Describe())
	fmt.Fprintf(&b, "Defaults: length %d, %d colors, %d attempts\n",
		t.defaults.Length, t.defaults.ColorCount, t.defaults.MaxAttempts)
	b.WriteString("Modes:\n")
	for _, m := range game.Modes() {
		fmt.Fprintf(&b, "  %s: %s\n", m, m.Label())
	}
	return mcp.NewToolResultText(b.String()), nil
}

func rejected(err error, snap *game.Snapshot) *mcp.CallToolResult {
	msg := "Error: " + err.Error()
	if snap != nil {
		msg += "\n\n" + FormatState(snap)
	}
	return mcp.NewToolResultError(msg)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

func str(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// num reads a JSON number argument; absent or non-numeric values give def.
func num(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func names(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
