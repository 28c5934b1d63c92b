// Package quantize snaps 24-bit colours onto a fixed palette.
package quantize

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB value laid out as 0x00RRGGBB.
type Color uint32

// RGB builds a Color from its channels.
func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// Hex returns the colour as six upper-case hex digits.
func (c Color) Hex() string {
	return fmt.Sprintf("%06X", uint32(c)&0xffffff)
}

// RGBA implements color.Color (opaque).
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xff}.RGBA()
}

// ParseHex parses "RRGGBB", "#RRGGBB" or "0xRRGGBB".
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(h) != 6 {
		return 0, fmt.Errorf("quantize: invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("quantize: invalid colour %q: %w", s, err)
	}
	return Color(v), nil
}
