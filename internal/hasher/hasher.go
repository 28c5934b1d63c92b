// Package hasher derives content addresses for output files.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/AnyUserName/bmpdither/internal/pixel"
)

// NameLen is the number of hex digits used in output file names.
const NameLen = 8

// ContentHash returns the xxHash64 of data as hex, truncated to hexLen
// digits (0 keeps all 16).
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// ContentHashReader is ContentHash over a stream.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64(), hexLen), nil
}

// PixelHash hashes the sample stream of img, independent of the container
// it came from. Two images hash equal iff they have the same size and
// samples.
func PixelHash(img *pixel.Image, hexLen int) string {
	h := xxhash.New()
	var b [8]byte
	binary.BigEndian.PutUint32(b[0:], uint32(img.Width))
	binary.BigEndian.PutUint32(b[4:], uint32(img.Height))
	h.Write(b[:])
	h.Write(img.Bytes())
	return format(h.Sum64(), hexLen)
}

func format(sum uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
