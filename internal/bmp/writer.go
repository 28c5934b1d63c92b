package bmp

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/AnyUserName/bmpdither/internal/pixel"
)

// WritePixels writes img to destPath, copying the headers from the bitmap at
// headerSrcPath. The source must describe an image of the same size.
func WritePixels(headerSrcPath string, img *pixel.Image, destPath string) error {
	src, err := os.Open(headerSrcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", headerSrcPath, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	if err := Encode(&buf, src, img); err != nil {
		return fmt.Errorf("encode %s: %w", destPath, err)
	}
	if err := os.WriteFile(destPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return nil
}

// Encode writes img using the headers of headerSrc. Whatever sits between the
// info header and the payload offset in the source (larger info headers,
// colour masks) is copied verbatim.
func Encode(w io.Writer, headerSrc io.ReadSeeker, img *pixel.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	fh, ih, err := ReadHeaders(headerSrc)
	if err != nil {
		return err
	}
	gap := make([]byte, int(fh.Offset)-HeaderLen)
	if _, err := headerSrc.Seek(HeaderLen, io.SeekStart); err != nil {
		return err
	}
	if err := readFull(headerSrc, gap); err != nil {
		return fmt.Errorf("header gap: %w", err)
	}
	return Write(w, fh, ih, gap, img)
}

// EncodeNew writes img with freshly built headers.
func EncodeNew(w io.Writer, img *pixel.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	fh, ih := NewHeaders(img.Width, img.Height)
	return Write(w, fh, ih, nil, img)
}

// Write emits the headers, gap bytes up to fh.Offset (zero filled when gap is
// short) and the row-padded payload of img.
func Write(w io.Writer, fh FileHeader, ih InfoHeader, gap []byte, img *pixel.Image) error {
	if int(fh.Offset) < HeaderLen {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, fh.Offset)
	}
	g := ImageGeometry(ih)
	if g.Width != img.Width || g.Height != img.Height || len(img.Pix) != pixel.WordsFor(img.Len()) {
		return fmt.Errorf("%w: header %dx%d, image %dx%d", ErrGeometryMismatch, g.Width, g.Height, img.Width, img.Height)
	}

	if err := WriteHeaders(w, fh, ih); err != nil {
		return err
	}
	pad := make([]byte, int(fh.Offset)-HeaderLen)
	copy(pad, gap)
	if _, err := w.Write(pad); err != nil {
		return err
	}
	_, err := w.Write(addPadding(img.Bytes(), g))
	return err
}

// addPadding lays tight rows out at the payload stride with zero padding.
func addPadding(tight []byte, g Geometry) []byte {
	raw := make([]byte, g.PayloadSize())
	grid := g.Grid()
	for y := 0; y < g.Height; y++ {
		start, ok := grid.Word(0, y)
		if !ok {
			break
		}
		copy(raw[4*start:], tight[y*g.RowBytes():(y+1)*g.RowBytes()])
	}
	return raw
}
