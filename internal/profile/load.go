package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/AnyUserName/bmpdither/internal/quantize"
)

// file is the YAML layout of a profiles file:
//
//	profiles:
//	  - name: poster
//	    base: coarse
//	    dim: 8
//	    palette: cube
//	    colors: ["000000", "FF8000"]
//	    thresholds: [32, 32, 32]
//	    preview_widths: [320, 640]
//	    previews: [png, jpeg]
//	    filter: lanczos
//	    quality: 85
type file struct {
	Profiles []entry `yaml:"profiles"`
}

type entry struct {
	Name          string    `yaml:"name"`
	Base          string    `yaml:"base"`
	Dim           int       `yaml:"dim"`
	Palette       string    `yaml:"palette"`
	Colors        []string  `yaml:"colors"`
	Thresholds    []float64 `yaml:"thresholds"`
	PreviewWidths []int     `yaml:"preview_widths"`
	Previews      []string  `yaml:"previews"`
	Filter        string    `yaml:"filter"`
	Quality       int       `yaml:"quality"`
}

// Load reads a YAML profiles file and returns the built-in profiles with the
// file's entries added or overriding them.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (Set, error) {
	var f file
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	s := Builtin()
	for i, e := range f.Profiles {
		if e.Name == "" {
			return nil, fmt.Errorf("profile #%d: missing name", i+1)
		}
		p, err := e.profile(s)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", e.Name, err)
		}
		if _, err := p.Config(); err != nil {
			return nil, err
		}
		s[p.Name] = p
	}
	return s, nil
}

// profile applies the entry on top of its base (reference by default).
func (e entry) profile(s Set) (Profile, error) {
	base := e.Base
	if base == "" {
		base = DefaultName
	}
	p, ok := s[base]
	if !ok {
		return Profile{}, fmt.Errorf("unknown base profile %q", base)
	}
	p.Name = e.Name

	if e.Dim != 0 {
		p.Dim = e.Dim
		p.Thresholds = [3]float64{}
	}
	switch {
	case len(e.Colors) > 0 && e.Palette != "":
		return Profile{}, fmt.Errorf("palette and colors are exclusive")
	case len(e.Colors) > 0:
		pal, err := quantize.ParsePalette(e.Colors)
		if err != nil {
			return Profile{}, err
		}
		p.Palette, p.PaletteName = pal, ""
	case e.Palette != "":
		pal, err := quantize.Named(e.Palette)
		if err != nil {
			return Profile{}, err
		}
		p.Palette, p.PaletteName = pal, e.Palette
	}

	switch len(e.Thresholds) {
	case 0:
	case 1:
		p.Thresholds = [3]float64{e.Thresholds[0], e.Thresholds[0], e.Thresholds[0]}
	case 3:
		copy(p.Thresholds[:], e.Thresholds)
	default:
		return Profile{}, fmt.Errorf("thresholds: want 1 or 3 values, got %d", len(e.Thresholds))
	}

	if e.PreviewWidths != nil {
		p.PreviewWidths = e.PreviewWidths
	}
	if e.Previews != nil {
		p.Previews = e.Previews
	}
	if e.Filter != "" {
		p.Filter = e.Filter
	}
	if e.Quality != 0 {
		p.Quality = e.Quality
	}
	return p, nil
}
