package encoder

import (
	"bytes"
	"image"

	"golang.org/x/image/bmp"
)

// BMPEncoder writes previews as plain bitmaps, for viewers without PNG
// support.
type BMPEncoder struct{}

func (e *BMPEncoder) Format() string    { return "bmp" }
func (e *BMPEncoder) Extension() string { return "bmp" }

func (e *BMPEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
