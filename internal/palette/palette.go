// internal/palette/palette.go
//
// Color palette management for the game engine.
//
// Responsibilities:
//   - Load the global palette from a file (PALETTE_FILE) or fall back to the
//     embedded default shipped in assets/palette.txt.
//   - Expose the first color_count entries for a game.
//   - Normalize and look up color codes, render display names.
//
// File format:
//   One color per line: "<CODE> <Display name>". Blank lines and lines
//   starting with '#' are ignored. Codes are upper-cased.

package palette

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/robalobadob/mastermind/assets"
)

// Color is a single palette entry.
type Color struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Palette is an ordered list of colors with unique codes.
type Palette []Color

// ErrOutOfBounds is returned when more colors are requested than exist.
var ErrOutOfBounds = errors.New("palette: color count out of bounds")

var (
	defaultOnce sync.Once
	defaultPal  Palette
	defaultErr  error
)

// Default returns the embedded palette, parsed once.
func Default() (Palette, error) {
	defaultOnce.Do(func() {
		lines, err := assets.PaletteLines()
		if err != nil {
			defaultErr = err
			return
		}
		defaultPal, defaultErr = Parse(lines)
	})
	return defaultPal, defaultErr
}

// Load reads a palette file; an empty path yields the embedded default.
func Load(path string) (Palette, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines, err := assets.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(lines)
}

// Parse builds a palette from "CODE Name" lines.
func Parse(lines []string) (Palette, error) {
	out := make(Palette, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		code, name, _ := strings.Cut(strings.TrimSpace(line), " ")
		code = Normalize(code)
		name = strings.TrimSpace(name)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("palette: duplicate code %q", code)
		}
		if name == "" {
			name = code
		}
		seen[code] = struct{}{}
		out = append(out, Color{Code: code, Name: name})
	}
	if len(out) == 0 {
		return nil, errors.New("palette: no colors defined")
	}
	return out, nil
}

// Normalize trims and upper-cases a color code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Take returns the first n colors.
func (p Palette) Take(n int) (Palette, error) {
	if n < 1 || n > len(p) {
		return nil, fmt.Errorf("%w: %d (supported 1-%d)", ErrOutOfBounds, n, len(p))
	}
	return p[:n:n], nil
}

// Codes lists the color codes in palette order.
func (p Palette) Codes() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Code
	}
	return out
}

// Index reports the position of code in the palette, or -1.
func (p Palette) Index(code string) int {
	for i, c := range p {
		if c.Code == code {
			return i
		}
	}
	return -1
}

// Contains reports whether code is part of the palette.
func (p Palette) Contains(code string) bool { return p.Index(code) >= 0 }

// Name returns the display name for code, or the code itself when unknown.
func (p Palette) Name(code string) string {
	if i := p.Index(code); i >= 0 {
		return p[i].Name
	}
	return code
}

// Colors expands codes into palette entries.
func (p Palette) Colors(codes []string) []Color {
	out := make([]Color, len(codes))
	for i, c := range codes {
		out[i] = Color{Code: c, Name: p.Name(c)}
	}
	return out
}

// Text renders codes as a comma separated list of display names.
func (p Palette) Text(codes []string) string {
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = p.Name(c)
	}
	return strings.Join(names, ", ")
}

// Describe renders "R = Red, G = Green, ..." for prompts.
func (p Palette) Describe() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.Code + " = " + c.Name
	}
	return strings.Join(parts, ", ")
}

// SplitInput breaks typed input into codes. Codes may be separated by
// spaces or commas; a single unseparated word is read one character per
// code, so "rgby" and "R, G, B, Y" both give four codes.
func SplitInput(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) != 1 {
		return fields
	}
	out := make([]string, 0, len(fields[0]))
	for _, r := range fields[0] {
		out = append(out, string(r))
	}
	return out
}
