package bmp

import (
	"fmt"
	"io"
	"os"

	"github.com/AnyUserName/bmpdither/internal/pixel"
)

// ReadHeadersFile returns the headers of the bitmap at path.
func ReadHeadersFile(path string) (FileHeader, InfoHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileHeader{}, InfoHeader{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadHeaders(f)
}

// ProbeGeometry returns the padded width and height of the bitmap at path.
func ProbeGeometry(path string) (paddedWidth, height int, err error) {
	_, ih, err := ReadHeadersFile(path)
	if err != nil {
		return 0, 0, err
	}
	g := ImageGeometry(ih)
	return g.PaddedWidth, g.Height, nil
}

// ReadPixels decodes the bitmap at path.
func ReadPixels(path string) (*pixel.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}

// Decode reads a bitmap from rs into a newly allocated image.
func Decode(rs io.ReadSeeker) (*pixel.Image, error) {
	_, ih, err := ReadHeaders(rs)
	if err != nil {
		return nil, err
	}
	g := ImageGeometry(ih)
	m := pixel.NewImage(g.Width, g.Height)
	if err := DecodeInto(rs, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeInto reads a bitmap from rs into dst, whose dimensions must match
// the header. dst is only written once the whole payload has been read.
func DecodeInto(rs io.ReadSeeker, dst *pixel.Image) error {
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrInvalidArgument)
	}
	fh, ih, err := ReadHeaders(rs)
	if err != nil {
		return err
	}
	g := ImageGeometry(ih)
	if g.Width != dst.Width || g.Height != dst.Height || len(dst.Pix) != pixel.WordsFor(dst.Len()) {
		return fmt.Errorf("%w: header %dx%d, buffer %dx%d", ErrGeometryMismatch, g.Width, g.Height, dst.Width, dst.Height)
	}

	if _, err := rs.Seek(int64(fh.Offset), io.SeekStart); err != nil {
		return err
	}
	raw := make([]byte, g.PayloadSize())
	if err := readFull(rs, raw); err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	m, err := pixel.FromBytes(g.Width, g.Height, stripPadding(raw, g))
	if err != nil {
		return err
	}
	copy(dst.Pix, m.Pix)
	return nil
}

// stripPadding drops the row padding from a raw payload.
func stripPadding(raw []byte, g Geometry) []byte {
	tight := make([]byte, 0, g.RowBytes()*g.Height)
	grid := g.Grid()
	for y := 0; y < g.Height; y++ {
		start, ok := grid.Word(0, y)
		if !ok {
			break
		}
		tight = append(tight, raw[4*start:4*start+g.RowBytes()]...)
	}
	return tight
}
