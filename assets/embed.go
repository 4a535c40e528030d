// Package assets embeds the static data the server ships with: the default
// color palette and the SQL migrations for the results archive.
package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed palette.txt sql/*.sql
var FS embed.FS

// ReadLines returns the non-empty, non-comment lines of r, trimmed.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// PaletteLines returns the embedded palette definition, one "CODE Name" per entry.
func PaletteLines() ([]string, error) {
	f, err := FS.Open("palette.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// Migrations exposes the embedded sql/ directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is part of the embed pattern; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
