//go:build ignore

// gen_fixtures writes a small input tree for a build smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "tiles"), 0o755); err != nil {
		fail(err)
	}

	// Widths 1..3 mod 4 exercise every row padding.
	write(filepath.Join(dir, "gradient.bmp"), gradient(320, 180))
	for i, w := range []int{61, 62, 63, 64} {
		write(filepath.Join(dir, "tiles", fmt.Sprintf("tile-%d.bmp", i+1)), checker(w, 40, uint8(i*60)))
	}

	// Named like a bitmap, skipped by the scanner.
	if err := os.WriteFile(filepath.Join(dir, "decoy.bmp"), []byte("not a bitmap\n"), 0o644); err != nil {
		fail(err)
	}

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 6 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func checker(w, h int, base uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if (x/8+y/8)%2 == 0 {
				c = color.RGBA{R: 255 - base, G: 200, B: base / 2, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func write(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fail(err)
	}
	defer f.Close()
	if err := bmp.Encode(f, img); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "[gen_fixtures]", err)
	os.Exit(1)
}
