package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/bmpdither/internal/bayer"
	"github.com/AnyUserName/bmpdither/internal/quantize"
)

func TestBuiltinProfilesAreValid(t *testing.T) {
	for name := range Builtin() {
		t.Run(name, func(t *testing.T) {
			p := Get(name)
			assert.Equal(t, name, p.Name)
			cfg, err := p.Config()
			require.NoError(t, err)
			assert.Equal(t, p.Dim, cfg.Dim)
			assert.NotEmpty(t, cfg.Palette)
			assert.NotZero(t, cfg.Thresholds[0])
		})
	}
}

func TestReferenceProfile(t *testing.T) {
	cfg, err := Get("reference").Config()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Dim)
	assert.Len(t, cfg.Palette, 18)
	assert.Equal(t, [3]float64{64, 64, 64}, cfg.Thresholds)
}

func TestGetFallsBack(t *testing.T) {
	p := Get("nope")
	assert.Equal(t, "nope", p.Name)
	assert.Equal(t, 4, p.Dim)
	assert.Equal(t, quantize.Reference, p.Palette)
	assert.False(t, Exists("nope"))
	assert.True(t, Exists("mono"))

	assert.Equal(t, DefaultName, Get("").Name)
}

func TestBuiltinReturnsCopy(t *testing.T) {
	s := Builtin()
	delete(s, "mono")
	assert.True(t, Exists("mono"))
}

func TestConfigErrors(t *testing.T) {
	p := Get("reference")
	p.Dim = 6
	_, err := p.Config()
	assert.ErrorIs(t, err, bayer.ErrInvalidDimension)

	p = Get("reference")
	p.Palette = nil
	_, err = p.Config()
	assert.ErrorIs(t, err, quantize.ErrEmptyPalette)
}

func TestEffectiveWidths(t *testing.T) {
	p := Profile{PreviewWidths: []int{320, 640, 320, 0}}
	assert.Equal(t, []int{320, 640}, p.EffectiveWidths(1000))
	assert.Equal(t, []int{320}, p.EffectiveWidths(500))
	assert.Equal(t, []int{100}, p.EffectiveWidths(100))
	assert.Empty(t, p.EffectiveWidths(0))
}

const profilesYAML = `
profiles:
  - name: poster
    base: coarse
    dim: 8
    colors: ["000000", "#FF8000", "0xFFFFFF"]
    thresholds: [16, 32, 48]
    previews: [jpeg]
    quality: 70
  - name: mono
    palette: cube
    thresholds: [100]
  - name: lanczos
    filter: lanczos
    preview_widths: [64]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(profilesYAML))
	require.NoError(t, err)

	poster := s.Get("poster")
	assert.Equal(t, 8, poster.Dim)
	assert.Equal(t, quantize.Palette{0x000000, 0xFF8000, 0xFFFFFF}, poster.Palette)
	assert.Empty(t, poster.PaletteName)
	assert.Equal(t, [3]float64{16, 32, 48}, poster.Thresholds)
	assert.Equal(t, []string{"jpeg"}, poster.Previews)
	assert.Equal(t, 70, poster.Quality)
	assert.Equal(t, Get("coarse").PreviewWidths, poster.PreviewWidths)

	mono := s.Get("mono")
	assert.Equal(t, "cube", mono.PaletteName)
	assert.Equal(t, quantize.Cube, mono.Palette)
	assert.Equal(t, [3]float64{100, 100, 100}, mono.Thresholds)
	assert.Equal(t, 4, mono.Dim)

	l := s.Get("lanczos")
	assert.Equal(t, "lanczos", l.Filter)
	assert.Equal(t, []int{64}, l.PreviewWidths)

	// Built-ins survive alongside file entries.
	assert.Equal(t, Get("fine"), s.Get("fine"))
	assert.Equal(t, Get("reference"), Get("reference"), "built-ins must not be modified")
	assert.Equal(t, "gray", Get("mono").PaletteName)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"missing name":   "profiles:\n  - dim: 4\n",
		"bad dim":        "profiles:\n  - name: x\n    dim: 5\n",
		"bad colour":     "profiles:\n  - name: x\n    colors: [zzzzzz]\n",
		"unknown base":   "profiles:\n  - name: x\n    base: nope\n",
		"both palettes":  "profiles:\n  - name: x\n    palette: gray\n    colors: [000000]\n",
		"two thresholds": "profiles:\n  - name: x\n    thresholds: [1, 2]\n",
		"unknown field":  "profiles:\n  - name: x\n    dims: 4\n",
		"unknown palette": "profiles:\n  - name: x\n    palette: sepia\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yml")
	require.NoError(t, os.WriteFile(path, []byte(profilesYAML), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, s, "poster")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
