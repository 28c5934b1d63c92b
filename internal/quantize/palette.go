package quantize

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
)

var ErrEmptyPalette = errors.New("quantize: empty palette")

// Palette is an ordered set of allowed output colours. Order matters: ties
// in NearestColor resolve to the earliest entry.
type Palette []Color

// Reference is the 18-colour palette used by the default profile.
var Reference = Palette{
	0x000000, 0x008000, 0x00FF00,
	0x0000FF, 0x0080FF, 0x00FFFF,
	0x800000, 0x808000, 0x80FF00,
	0x8000FF, 0x8080FF, 0x80FFFF,
	0xFF0000, 0xFF8000, 0xFFFF00,
	0xFF00FF, 0xFF80FF, 0xFFFFFF,
}

// Cube holds the eight corners of the RGB cube.
var Cube = Palette{
	0x000000, 0x0000FF, 0x00FF00, 0x00FFFF,
	0xFF0000, 0xFF00FF, 0xFFFF00, 0xFFFFFF,
}

// Gray is black, white and the two mid greys.
var Gray = Palette{0x000000, 0x555555, 0xAAAAAA, 0xFFFFFF}

var named = map[string]Palette{
	"reference": Reference,
	"cube":      Cube,
	"gray":      Gray,
}

// Named returns a built-in palette.
func Named(name string) (Palette, error) {
	p, ok := named[name]
	if !ok {
		return nil, fmt.Errorf("quantize: unknown palette %q", name)
	}
	return p, nil
}

// Names lists the built-in palettes in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParsePalette parses a list of hex colours.
func ParsePalette(hex []string) (Palette, error) {
	p := make(Palette, 0, len(hex))
	for _, s := range hex {
		c, err := ParseHex(s)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}
	return p, nil
}

// Index returns the position of c in p, or -1.
func (p Palette) Index(c Color) int {
	for i, pc := range p {
		if pc == c {
			return i
		}
	}
	return -1
}

// Contains reports whether c is a palette entry.
func (p Palette) Contains(c Color) bool {
	return p.Index(c) >= 0
}

// ColorPalette converts p for use with image.Paletted.
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xff}
	}
	return cp
}
