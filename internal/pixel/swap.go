package pixel

import "fmt"

// Byte positions (0 = least significant) of the samples in an expanded word
// unpacked from BMP data, which reads 0x00BBGGRR. Swapping RedByte and
// BlueByte turns it into 0x00RRGGBB and back.
const (
	RedByte    = 0
	GreenByte  = 1
	BlueByte   = 2
	UnusedByte = 3
)

// SwapChannels exchanges byte i and byte j of every word in words.
func SwapChannels(words []uint32, i, j int) error {
	if i < 0 || i > 3 || j < 0 || j > 3 {
		return fmt.Errorf("%w: swap %d<->%d", ErrInvalidByteIndex, i, j)
	}
	if i == j {
		return nil
	}
	si, sj := uint(8*i), uint(8*j)
	for k, w := range words {
		d := (w>>si ^ w>>sj) & 0xff
		words[k] = w ^ (d<<si | d<<sj)
	}
	return nil
}
