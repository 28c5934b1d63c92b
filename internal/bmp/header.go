package bmp

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FileHeader is the 14 byte BITMAPFILEHEADER.
type FileHeader struct {
	Signature [2]byte
	FileSize  uint32
	Reserved1 uint16
	Reserved2 uint16
	Offset    uint32 // start of the pixel payload
}

// InfoHeader is the 40 byte BITMAPINFOHEADER. Larger header versions keep
// these fields at the same offsets.
type InfoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	ImageSize       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// MarshalBinary encodes the header field by field.
func (h FileHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, FileHeaderLen)
	le := binary.LittleEndian
	copy(b[0:2], h.Signature[:])
	le.PutUint32(b[2:], h.FileSize)
	le.PutUint16(b[6:], h.Reserved1)
	le.PutUint16(b[8:], h.Reserved2)
	le.PutUint32(b[10:], h.Offset)
	return b, nil
}

// UnmarshalBinary decodes the header and checks the signature.
func (h *FileHeader) UnmarshalBinary(b []byte) error {
	if len(b) < FileHeaderLen {
		return fmt.Errorf("%w: file header needs %d bytes, got %d", ErrTruncatedInput, FileHeaderLen, len(b))
	}
	if ProbeFormat(b) != FormatBMP {
		return fmt.Errorf("%w: signature %q", ErrUnsupportedFormat, b[:2])
	}
	le := binary.LittleEndian
	copy(h.Signature[:], b[0:2])
	h.FileSize = le.Uint32(b[2:])
	h.Reserved1 = le.Uint16(b[6:])
	h.Reserved2 = le.Uint16(b[8:])
	h.Offset = le.Uint32(b[10:])
	return nil
}

// MarshalBinary encodes the header field by field.
func (h InfoHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, InfoHeaderLen)
	le := binary.LittleEndian
	le.PutUint32(b[0:], h.Size)
	le.PutUint32(b[4:], uint32(h.Width))
	le.PutUint32(b[8:], uint32(h.Height))
	le.PutUint16(b[12:], h.Planes)
	le.PutUint16(b[14:], h.BitCount)
	le.PutUint32(b[16:], h.Compression)
	le.PutUint32(b[20:], h.ImageSize)
	le.PutUint32(b[24:], uint32(h.XPelsPerMeter))
	le.PutUint32(b[28:], uint32(h.YPelsPerMeter))
	le.PutUint32(b[32:], h.ColorsUsed)
	le.PutUint32(b[36:], h.ColorsImportant)
	return b, nil
}

// UnmarshalBinary decodes the header without validating it.
func (h *InfoHeader) UnmarshalBinary(b []byte) error {
	if len(b) < InfoHeaderLen {
		return fmt.Errorf("%w: info header needs %d bytes, got %d", ErrTruncatedInput, InfoHeaderLen, len(b))
	}
	le := binary.LittleEndian
	h.Size = le.Uint32(b[0:])
	h.Width = int32(le.Uint32(b[4:]))
	h.Height = int32(le.Uint32(b[8:]))
	h.Planes = le.Uint16(b[12:])
	h.BitCount = le.Uint16(b[14:])
	h.Compression = le.Uint32(b[16:])
	h.ImageSize = le.Uint32(b[20:])
	h.XPelsPerMeter = int32(le.Uint32(b[24:]))
	h.YPelsPerMeter = int32(le.Uint32(b[28:]))
	h.ColorsUsed = le.Uint32(b[32:])
	h.ColorsImportant = le.Uint32(b[36:])
	return nil
}

// Validate rejects anything other than an uncompressed bottom-up 24-bit
// bitmap.
func (h InfoHeader) Validate() error {
	switch {
	case h.Size < InfoHeaderLen:
		return fmt.Errorf("%w: info header size %d", ErrUnsupportedFormat, h.Size)
	case h.BitCount != bitCount:
		return fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, h.BitCount)
	case h.Compression != biRGB:
		return fmt.Errorf("%w: compression %d", ErrUnsupportedFormat, h.Compression)
	case h.Width < 0 || h.Height < 0:
		return fmt.Errorf("%w: dimensions %dx%d", ErrUnsupportedFormat, h.Width, h.Height)
	}
	return nil
}

// NewHeaders describes a fresh w x h bitmap with the payload right after
// the headers.
func NewHeaders(w, h int) (FileHeader, InfoHeader) {
	g := geometry(w, h)
	ih := InfoHeader{
		Size:          InfoHeaderLen,
		Width:         int32(w),
		Height:        int32(h),
		Planes:        1,
		BitCount:      bitCount,
		Compression:   biRGB,
		ImageSize:     uint32(g.PayloadSize()),
		XPelsPerMeter: 2835,
		YPelsPerMeter: 2835,
	}
	fh := FileHeader{
		Signature: Signature,
		FileSize:  uint32(HeaderLen + g.PayloadSize()),
		Offset:    HeaderLen,
	}
	return fh, ih
}

// ReadHeaders decodes both headers from the start of rs and seeks rs back to
// the start. The payload offset and the payload implied by the dimensions are
// checked against the length of rs, so callers can allocate from the header.
func ReadHeaders(rs io.ReadSeeker) (fh FileHeader, ih InfoHeader, err error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return fh, ih, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return fh, ih, err
	}
	defer func() {
		if _, serr := rs.Seek(0, io.SeekStart); serr != nil && err == nil {
			err = serr
		}
	}()

	var b [HeaderLen]byte
	n, rerr := io.ReadFull(rs, b[:])
	// A foreign file shorter than the headers is still a format mismatch.
	if ProbeFormat(b[:n]) != FormatBMP {
		return fh, ih, fmt.Errorf("%w: not a bitmap", ErrUnsupportedFormat)
	}
	if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
		return fh, ih, fmt.Errorf("%w: headers need %d bytes, got %d", ErrTruncatedInput, HeaderLen, n)
	}
	if rerr != nil {
		return fh, ih, rerr
	}

	if err := fh.UnmarshalBinary(b[:FileHeaderLen]); err != nil {
		return fh, ih, err
	}
	if err := ih.UnmarshalBinary(b[FileHeaderLen:]); err != nil {
		return fh, ih, err
	}
	if err := ih.Validate(); err != nil {
		return fh, ih, err
	}
	if fh.Offset < HeaderLen || int64(fh.Offset) > size {
		return fh, ih, fmt.Errorf("%w: %d (file is %d bytes)", ErrInvalidOffset, fh.Offset, size)
	}
	need, ok := payloadSize(ih)
	if !ok || need > size-int64(fh.Offset) {
		return fh, ih, fmt.Errorf("%w: %dx%d payload at offset %d (file is %d bytes)",
			ErrTruncatedInput, ih.Width, ih.Height, fh.Offset, size)
	}
	return fh, ih, nil
}

// WriteHeaders emits both headers exactly as given.
func WriteHeaders(w io.Writer, fh FileHeader, ih InfoHeader) error {
	fb, _ := fh.MarshalBinary()
	ib, _ := ih.MarshalBinary()
	if _, err := w.Write(fb); err != nil {
		return err
	}
	_, err := w.Write(ib)
	return err
}
