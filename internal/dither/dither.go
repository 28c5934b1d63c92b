// Package dither applies ordered (Bayer) dithering to a tight BMP sample
// stream, snapping every pixel to a fixed palette.
//
// The stream is walked in groups of four pixels (three storage words). The
// threshold for each pixel is taken from the flattened matrix at the index of
// a storage word rather than at the pixel's image coordinate, so the result is
// a stream dither, not a positional 2-D one. Existing output depends on this
// indexing and it is kept as is.
package dither

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/bmpdither/internal/bayer"
	"github.com/AnyUserName/bmpdither/internal/pixel"
	"github.com/AnyUserName/bmpdither/internal/quantize"
)

var ErrNilImage = errors.New("dither: nil image")

// Config selects the palette and threshold matrix.
type Config struct {
	Palette    quantize.Palette
	Dim        int
	Thresholds [3]float64 // per channel scale, R G B

	matrix *bayer.Matrix
}

// DefaultThresholds spreads adjustments over the full 0..255 range for a
// dim x dim matrix: 256/dim per channel.
func DefaultThresholds(dim int) [3]float64 {
	t := 256 / float64(dim)
	return [3]float64{t, t, t}
}

// DefaultConfig is the reference setup: 4x4 matrix, 18 colour palette.
func DefaultConfig() Config {
	return Config{
		Palette:    quantize.Reference,
		Dim:        4,
		Thresholds: DefaultThresholds(4),
	}
}

// WithMatrix returns a copy of c that uses m instead of generating a matrix
// from Dim.
func (c Config) WithMatrix(m bayer.Matrix) Config {
	c.matrix = &m
	c.Dim = m.Dim
	return c
}

// Dither quantizes img in place.
func Dither(img *pixel.Image, cfg Config) error {
	d, err := newDitherer(img, cfg)
	if err != nil {
		return err
	}
	d.run(img, 0, img.Groups())
	return nil
}

type ditherer struct {
	matrix  bayer.Matrix
	offset  float64
	th      [3]float64
	palette quantize.Palette
}

func newDitherer(img *pixel.Image, cfg Config) (*ditherer, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if len(cfg.Palette) == 0 {
		return nil, quantize.ErrEmptyPalette
	}
	var m bayer.Matrix
	if cfg.matrix != nil {
		m = *cfg.matrix
	} else {
		var err error
		if m, err = bayer.Generate(cfg.Dim); err != nil {
			return nil, err
		}
	}
	if m.Len() == 0 {
		return nil, fmt.Errorf("%w: empty matrix", bayer.ErrInvalidDimension)
	}
	return &ditherer{
		matrix:  m,
		offset:  m.Offset(),
		th:      cfg.Thresholds,
		palette: cfg.Palette,
	}, nil
}

// run processes groups [from, to).
func (d *ditherer) run(img *pixel.Image, from, to int) {
	for g := from; g < to; g++ {
		d.group(img, g)
	}
}

func (d *ditherer) group(img *pixel.Image, g int) {
	t, _ := img.Triple(g)
	q := pixel.Unpack(t)
	n := img.GroupLen(g)
	px := q[:n]

	// 0x00BBGGRR -> 0x00RRGGBB; indices are constant and valid.
	_ = pixel.SwapChannels(px, pixel.RedByte, pixel.BlueByte)
	f := d.factors(g, len(img.Pix))
	for k, v := range px {
		c := quantize.ApplyThreshold(quantize.Color(v), f[k], d.offset, d.th)
		nearest, _ := quantize.NearestColor(c, d.palette)
		px[k] = uint32(nearest)
	}
	_ = pixel.SwapChannels(px, pixel.RedByte, pixel.BlueByte)

	for k := n; k < len(q); k++ {
		q[k] = 0
	}
	img.SetTriple(g, pixel.Pack(q))
}

// factors returns the matrix values for the four pixels of group g. Pixel k
// uses the value at the index of storage word 3g+k; the fourth pixel reuses
// the third word's index when the stream ends before word 3g+3.
func (d *ditherer) factors(g, words int) [4]int {
	base := 3 * g
	var f [4]int
	for k := 0; k < 3; k++ {
		f[k] = d.matrix.Flat(base + k)
	}
	if base+3 < words {
		f[3] = d.matrix.Flat(base + 3)
	} else {
		f[3] = d.matrix.Flat(base + 2)
	}
	return f
}
