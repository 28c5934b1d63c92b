package quantize

import "math"

// NearestColor returns the palette entry closest to c by Euclidean RGB
// distance. The first entry reaching the minimum wins.
func NearestColor(c Color, p Palette) (Color, error) {
	if len(p) == 0 {
		return 0, ErrEmptyPalette
	}
	best, bestDist := p[0], distance(c, p[0])
	for _, pc := range p[1:] {
		if d := distance(c, pc); d < bestDist {
			best, bestDist = pc, d
		}
	}
	return best, nil
}

// distance is the squared Euclidean distance; only the order matters.
func distance(a, b Color) int {
	dr := int(a.R()) - int(b.R())
	dg := int(a.G()) - int(b.G())
	db := int(a.B()) - int(b.B())
	return dr*dr + dg*dg + db*db
}

// ApplyThreshold pushes every channel of c by th[k]*(matrixValue-offset) and
// snaps the result to the nearest multiple of 255, clamped to 0 or 255.
// Channels are ordered R, G, B.
func ApplyThreshold(c Color, matrixValue int, offset float64, th [3]float64) Color {
	f := float64(matrixValue) - offset
	return RGB(
		snap(float64(c.R())+th[0]*f),
		snap(float64(c.G())+th[1]*f),
		snap(float64(c.B())+th[2]*f),
	)
}

// snap rounds half away from zero; any multiple of 255 other than 0 and 255
// clamps into that pair.
func snap(v float64) uint8 {
	if math.Round(v/255) <= 0 {
		return 0
	}
	return 255
}
