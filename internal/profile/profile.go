// Package profile holds named dithering setups: matrix size, palette,
// threshold scale and the previews generated next to each output.
package profile

import (
	"fmt"

	"github.com/AnyUserName/bmpdither/internal/bayer"
	"github.com/AnyUserName/bmpdither/internal/dither"
	"github.com/AnyUserName/bmpdither/internal/quantize"
)

// MaxPaletteSize keeps previews representable as indexed images.
const MaxPaletteSize = 256

// DefaultName is the profile used when none is given or the name is unknown.
const DefaultName = "reference"

// Profile defines dithering and preview parameters.
type Profile struct {
	Name          string
	Dim           int              // Bayer matrix size, power of two
	PaletteName   string           // named palette, empty when Palette is custom
	Palette       quantize.Palette // colours output pixels are snapped to
	Thresholds    [3]float64       // per channel scale; zero means 256/Dim
	PreviewWidths []int            // preview widths, never upscaled
	Previews      []string         // preview formats in priority order
	Filter        string           // preview resample filter
	Quality       int              // preview quality 1-100 (jpeg)
}

// Built-in profiles.
var profiles = map[string]Profile{
	"reference": {
		Name:          "reference",
		Dim:           4,
		PaletteName:   "reference",
		Palette:       quantize.Reference,
		PreviewWidths: []int{320},
		Previews:      []string{"png"},
		Filter:        "nearest",
		Quality:       90,
	},
	"fine": {
		Name:          "fine",
		Dim:           8,
		PaletteName:   "reference",
		Palette:       quantize.Reference,
		PreviewWidths: []int{320, 640},
		Previews:      []string{"png"},
		Filter:        "nearest",
		Quality:       90,
	},
	"coarse": {
		Name:          "coarse",
		Dim:           2,
		PaletteName:   "cube",
		Palette:       quantize.Cube,
		PreviewWidths: []int{320},
		Previews:      []string{"png", "jpeg"},
		Filter:        "nearest",
		Quality:       85,
	},
	"mono": {
		Name:          "mono",
		Dim:           4,
		PaletteName:   "gray",
		Palette:       quantize.Gray,
		PreviewWidths: []int{320},
		Previews:      []string{"png"},
		Filter:        "nearest",
		Quality:       90,
	},
}

// Get returns a built-in profile by name. Falls back to reference if unknown.
func Get(name string) Profile {
	return Builtin().Get(name)
}

// Exists reports whether name is a built-in profile.
func Exists(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Set is a collection of profiles by name.
type Set map[string]Profile

// Builtin returns a fresh copy of the built-in profiles.
func Builtin() Set {
	s := make(Set, len(profiles))
	for name, p := range profiles {
		s[name] = p
	}
	return s
}

// Get returns the named profile, or the reference profile under the
// requested name.
func (s Set) Get(name string) Profile {
	if name == "" {
		name = DefaultName
	}
	if p, ok := s[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Config converts the profile into dithering parameters.
func (p Profile) Config() (dither.Config, error) {
	if len(p.Palette) == 0 {
		return dither.Config{}, fmt.Errorf("profile %s: %w", p.Name, quantize.ErrEmptyPalette)
	}
	if len(p.Palette) > MaxPaletteSize {
		return dither.Config{}, fmt.Errorf("profile %s: %d colours, at most %d allowed", p.Name, len(p.Palette), MaxPaletteSize)
	}
	if _, err := bayer.Generate(p.Dim); err != nil {
		return dither.Config{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	th := p.Thresholds
	if th == [3]float64{} {
		th = dither.DefaultThresholds(p.Dim)
	}
	return dither.Config{Palette: p.Palette, Dim: p.Dim, Thresholds: th}, nil
}

// EffectiveWidths returns the preview widths that do not exceed the
// original, or the original width when none fit.
func (p Profile) EffectiveWidths(originalWidth int) []int {
	seen := map[int]bool{}
	var result []int
	for _, w := range p.PreviewWidths {
		if w <= 0 || w > originalWidth || seen[w] {
			continue
		}
		seen[w] = true
		result = append(result, w)
	}
	if len(result) == 0 && originalWidth > 0 {
		result = append(result, originalWidth)
	}
	return result
}
