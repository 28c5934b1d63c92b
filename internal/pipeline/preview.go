package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/AnyUserName/bmpdither/internal/pixel"
	"github.com/AnyUserName/bmpdither/internal/quantize"
)

// filters maps profile filter names to resample filters.
var filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
}

// Filters lists the accepted filter names.
func Filters() []string {
	names := make([]string, 0, len(filters))
	for n := range filters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func resolveFilter(name string) (imaging.ResampleFilter, error) {
	if name == "" {
		name = "nearest"
	}
	f, ok := filters[name]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown preview filter %q", name)
	}
	return f, nil
}

// previewSize scales h to width w keeping the aspect ratio.
func previewSize(origW, origH, w int) (int, int) {
	h := int(float64(origH) * float64(w) / float64(origW))
	if h < 1 {
		h = 1
	}
	return w, h
}

// resize scales img to w x h. With nearest sampling every output pixel is
// still a palette colour, so the result is re-indexed against p.
func resize(img image.Image, w, h int, filter string, p color.Palette) (image.Image, error) {
	f, err := resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(img, w, h, f)
	if filter != "" && filter != "nearest" {
		return resized, nil
	}
	return toPaletted(resized, p), nil
}

func toPaletted(img image.Image, p color.Palette) *image.Paletted {
	b := img.Bounds()
	dst := image.NewPaletted(b, p)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// RenderPreview scales a dithered raster to width w (keeping the aspect
// ratio, never upscaling) for encoding as a preview.
func RenderPreview(img *pixel.Image, p quantize.Palette, w int, filter string) (image.Image, error) {
	if img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("preview of empty %dx%d image", img.Width, img.Height)
	}
	if w <= 0 || w > img.Width {
		w = img.Width
	}
	src := indexedImage(img, p)
	pw, ph := previewSize(img.Width, img.Height, w)
	return resize(src, pw, ph, filter, src.Palette)
}

// indexedImage views a dithered raster as an indexed image, top row first.
// Every sample must be a colour of p.
func indexedImage(img *pixel.Image, p quantize.Palette) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, img.Width, img.Height), p.ColorPalette())
	for i, v := range pixel.Expand(img) {
		c := quantize.RGB(pixel.SplitBGR(v))
		x, row := i%img.Width, i/img.Width
		m.SetColorIndex(x, img.Height-1-row, uint8(p.Index(c)))
	}
	return m
}
