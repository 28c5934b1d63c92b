// Package pixel holds the in-memory representations of 24-bit samples.
//
// Two layouts are used:
//   - tight: the on-disk byte stream, 3 bytes per pixel with no gaps, viewed
//     as big-endian uint32 storage words. Four pixels occupy exactly three
//     words (a "triple").
//   - expanded: one uint32 per pixel, sample in the low three bytes, most
//     significant byte zero. Four expanded words form a "quad".
//
// Image owns a tight buffer. Unpack/Pack convert one triple/quad at a time,
// Expand/Compact convert whole images.
package pixel

import (
	"errors"
	"fmt"
)

// BytesPerPixel is the sample width of a tight pixel.
const BytesPerPixel = 3

var (
	ErrInvalidByteIndex = errors.New("pixel: byte index out of range [0,3]")
	ErrSizeMismatch     = errors.New("pixel: buffer size does not match dimensions")
)

// Image is a width x height raster stored in the tight layout. Rows follow
// each other in storage order with no padding. Bytes of the last word beyond
// the final sample are zero.
type Image struct {
	Width  int
	Height int
	Pix    []uint32
}

// WordsFor returns the number of tight storage words needed for n pixels.
func WordsFor(n int) int {
	return (BytesPerPixel*n + 3) / 4
}

// NewImage allocates a zeroed w x h image.
func NewImage(w, h int) *Image {
	return &Image{
		Width:  w,
		Height: h,
		Pix:    make([]uint32, WordsFor(w*h)),
	}
}

// FromBytes builds an image from a tight sample stream of exactly 3*w*h bytes.
func FromBytes(w, h int, b []byte) (*Image, error) {
	if w < 0 || h < 0 || len(b) != BytesPerPixel*w*h {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrSizeMismatch, len(b), w, h)
	}
	m := NewImage(w, h)
	for k, v := range b {
		m.Pix[k>>2] |= uint32(v) << byteShift(k)
	}
	return m, nil
}

// Len returns the number of pixels.
func (m *Image) Len() int {
	return m.Width * m.Height
}

// Groups returns the number of 4-pixel groups, counting a trailing short
// group.
func (m *Image) Groups() int {
	return (m.Len() + 3) / 4
}

// Bytes returns the tight sample stream (3 bytes per pixel).
func (m *Image) Bytes() []byte {
	b := make([]byte, BytesPerPixel*m.Len())
	for k := range b {
		b[k] = m.byteAt(k)
	}
	return b
}

// At returns pixel i as an expanded word in storage order (0x00BBGGRR for
// BMP data).
func (m *Image) At(i int) uint32 {
	k := BytesPerPixel * i
	return uint32(m.byteAt(k))<<16 | uint32(m.byteAt(k+1))<<8 | uint32(m.byteAt(k+2))
}

// SplitBGR splits an expanded word holding a bitmap sample, stored B,G,R,
// into its red, green and blue channels.
func SplitBGR(v uint32) (r, g, b uint8) {
	return uint8(v), uint8(v >> 8), uint8(v >> 16)
}

// RGB returns the channels of pixel i of a bitmap raster.
func (m *Image) RGB(i int) (r, g, b uint8) {
	return SplitBGR(m.At(i))
}

// Set stores the low three bytes of v as pixel i.
func (m *Image) Set(i int, v uint32) {
	k := BytesPerPixel * i
	m.setByte(k, byte(v>>16))
	m.setByte(k+1, byte(v>>8))
	m.setByte(k+2, byte(v))
}

// Triple returns the tight words of group g. Words past the end of the
// buffer read as zero; n reports how many words were really present.
func (m *Image) Triple(g int) (t [3]uint32, n int) {
	n = copy(t[:], m.Pix[min(3*g, len(m.Pix)):])
	return t, n
}

// SetTriple writes group g back, dropping words past the end of the buffer.
func (m *Image) SetTriple(g int, t [3]uint32) {
	copy(m.Pix[min(3*g, len(m.Pix)):], t[:])
}

// GroupLen returns the number of real pixels in group g (4 except for a
// trailing short group).
func (m *Image) GroupLen(g int) int {
	return min(4, m.Len()-4*g)
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	dup := *m
	dup.Pix = append([]uint32(nil), m.Pix...)
	return &dup
}

func (m *Image) byteAt(k int) byte {
	return byte(m.Pix[k>>2] >> byteShift(k))
}

func (m *Image) setByte(k int, v byte) {
	s := byteShift(k)
	m.Pix[k>>2] = m.Pix[k>>2]&^(0xff<<s) | uint32(v)<<s
}

// byteShift is the shift of stream byte k inside its big-endian word.
func byteShift(k int) uint {
	return uint(24 - 8*(k&3))
}
