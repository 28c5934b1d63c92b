// Package encoder turns dithered rasters into preview files.
package encoder

import (
	"image"
)

// Encoder encodes a preview image to one file format.
type Encoder interface {
	// Format returns the format name ("png", "jpeg", "bmp").
	Format() string

	// Encode converts the image to bytes. quality (1-100) is ignored by
	// lossless formats.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}
