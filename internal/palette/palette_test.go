package palette

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "G", "B", "Y", "O", "P", "C", "W"}, p.Codes())
	assert.Equal(t, "Red", p.Name("R"))
	assert.Equal(t, "Z", p.Name("Z"))
}

func TestTake(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	six, err := p.Take(6)
	require.NoError(t, err)
	assert.Len(t, six, 6)
	assert.False(t, six.Contains("C"))

	_, err = p.Take(0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = p.Take(len(p) + 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestParse(t *testing.T) {
	p, err := Parse([]string{"r Rouge", "v", "b  Bleu"})
	require.NoError(t, err)
	assert.Equal(t, Palette{{"R", "Rouge"}, {"V", "V"}, {"B", "Bleu"}}, p)

	_, err = Parse([]string{"R Red", "r Again"})
	assert.Error(t, err)

	_, err = Parse(nil)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom\nK Black\n\nS Silver\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"K", "S"}, p.Codes())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "Red, Blue", p.Text([]string{"R", "B"}))
	assert.Equal(t, []Color{{"G", "Green"}}, p.Colors([]string{"G"}))
	assert.Contains(t, p.Describe(), "W = White")
}

func TestSplitInput(t *testing.T) {
	cases := map[string][]string{
		"rgby":       {"r", "g", "b", "y"},
		"R G B Y":    {"R", "G", "B", "Y"},
		"R, G,B , Y": {"R", "G", "B", "Y"},
		"  ":         {},
		"DK LT":      {"DK", "LT"},
	}
	for in, want := range cases {
		assert.Equal(t, want, SplitInput(in), in)
	}
}
