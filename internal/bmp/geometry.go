package bmp

import (
	"math"

	"github.com/AnyUserName/bmpdither/internal/pixel"
)

// Geometry describes the payload layout of a bitmap.
type Geometry struct {
	Width       int // pixels per row
	PaddedWidth int // Width plus RowPadding(Width)
	Height      int // rows
	Stride      int // bytes per stored row, a multiple of 4
}

// RowPadding returns the number of bytes appended to a row of w pixels so it
// ends on a 4 byte boundary.
func RowPadding(w int) int {
	return (4 - pixel.BytesPerPixel*w%4) % 4
}

// ImageGeometry derives the payload layout from a validated info header.
func ImageGeometry(ih InfoHeader) Geometry {
	return geometry(int(ih.Width), int(ih.Height))
}

func geometry(w, h int) Geometry {
	return Geometry{
		Width:       w,
		PaddedWidth: w + RowPadding(w),
		Height:      h,
		Stride:      pixel.BytesPerPixel*w + RowPadding(w),
	}
}

// RowBytes is the number of sample bytes per row, without padding.
func (g Geometry) RowBytes() int {
	return pixel.BytesPerPixel * g.Width
}

// PayloadSize is the size of the stored pixel payload in bytes.
func (g Geometry) PayloadSize() int {
	return g.Stride * g.Height
}

// Grid addresses the padded payload by byte coordinate.
func (g Geometry) Grid() pixel.Grid {
	return pixel.Grid{Stride: g.Stride, Height: g.Height}
}

// payloadSize is PayloadSize computed from raw header fields without
// overflowing. ok is false when the payload could not be held in memory.
func payloadSize(ih InfoHeader) (n int64, ok bool) {
	w, h := int64(ih.Width), int64(ih.Height)
	stride := pixel.BytesPerPixel*w + (4-pixel.BytesPerPixel*w%4)%4
	if h != 0 && stride > math.MaxInt64/h {
		return 0, false
	}
	n = stride * h
	return n, n <= math.MaxInt
}
