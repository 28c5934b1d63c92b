/*
Package bmp reads and writes uncompressed 24-bit Windows bitmaps.

A file starts with a 14 byte file header followed by a 40 byte
BITMAPINFOHEADER, all integers little-endian:

	offset  size  field
	0       2     signature "BM"
	2       4     file size
	6       2     reserved1
	8       2     reserved2
	10      4     payload offset
	14      40    info header (width, height, bit count, ...)

The payload starts at the offset and holds height rows of 3 bytes per pixel
in B,G,R order, each row padded to a multiple of 4 bytes, bottom row first.
Pixels are handed out as a pixel.Image holding the rows without padding in
the order they are stored.
*/
package bmp

import (
	"errors"
	"fmt"
	"io"
)

const (
	FileHeaderLen = 14
	InfoHeaderLen = 40
	HeaderLen     = FileHeaderLen + InfoHeaderLen

	bitCount = 24
	biRGB    = 0
)

// Signature is the magic at the start of every BMP file.
var Signature = [2]byte{'B', 'M'}

var (
	ErrInvalidArgument   = errors.New("bmp: invalid argument")
	ErrUnsupportedFormat = errors.New("bmp: unsupported format")
	ErrTruncatedInput    = errors.New("bmp: truncated input")
	ErrInvalidOffset     = errors.New("bmp: invalid payload offset")
	ErrGeometryMismatch  = errors.New("bmp: image does not match header geometry")
)

// Format classifies a byte stream by its leading signature.
type Format int

const (
	FormatUnknown Format = iota
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// ProbeFormat classifies the first bytes of a file.
func ProbeFormat(prefix []byte) Format {
	if len(prefix) >= 2 && prefix[0] == Signature[0] && prefix[1] == Signature[1] {
		return FormatBMP
	}
	return FormatUnknown
}

// Probe reads the signature of rs and restores its position.
func Probe(rs io.ReadSeeker) (Format, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return FormatUnknown, err
	}
	var b [2]byte
	n, err := io.ReadFull(rs, b[:])
	if _, serr := rs.Seek(pos, io.SeekStart); serr != nil {
		return FormatUnknown, serr
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatUnknown, err
	}
	return ProbeFormat(b[:n]), nil
}

// readFull is io.ReadFull reporting short reads as ErrTruncatedInput.
func readFull(r io.Reader, b []byte) error {
	n, err := io.ReadFull(r, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedInput, n, len(b))
	}
	return err
}
