package pixel

import "fmt"

// slot addresses one byte inside a small word array.
type slot struct {
	word  uint8
	shift uint8
}

// tightSlots[k] is where byte k of a 12-byte group lives in a triple.
//
//	word 0: 0x(s0 s1 s2)(s3        pixel 0, first byte of pixel 1
//	word 1: 0x s4 s5)(s6 s7        rest of pixel 1, start of pixel 2
//	word 2: 0x s8)(s9 s10 s11)     end of pixel 2, pixel 3
var tightSlots = [12]slot{
	{0, 24}, {0, 16}, {0, 8}, {0, 0},
	{1, 24}, {1, 16}, {1, 8}, {1, 0},
	{2, 24}, {2, 16}, {2, 8}, {2, 0},
}

// expandedSlots[k] is where byte k of a 12-byte group lives in a quad. The
// top byte of every expanded word is never addressed.
var expandedSlots = [12]slot{
	{0, 16}, {0, 8}, {0, 0},
	{1, 16}, {1, 8}, {1, 0},
	{2, 16}, {2, 8}, {2, 0},
	{3, 16}, {3, 8}, {3, 0},
}

// Unpack spreads a tight triple over four expanded words.
func Unpack(t [3]uint32) (q [4]uint32) {
	for k := range tightSlots {
		src, dst := tightSlots[k], expandedSlots[k]
		b := byte(t[src.word] >> src.shift)
		q[dst.word] |= uint32(b) << dst.shift
	}
	return q
}

// Pack is the inverse of Unpack. The top byte of each expanded word is
// ignored.
func Pack(q [4]uint32) (t [3]uint32) {
	for k := range expandedSlots {
		src, dst := expandedSlots[k], tightSlots[k]
		b := byte(q[src.word] >> src.shift)
		t[dst.word] |= uint32(b) << dst.shift
	}
	return t
}

// Expand converts the whole image to one expanded word per pixel.
func Expand(m *Image) []uint32 {
	out := make([]uint32, m.Len())
	for g := 0; g < m.Groups(); g++ {
		t, _ := m.Triple(g)
		q := Unpack(t)
		copy(out[4*g:], q[:m.GroupLen(g)])
	}
	return out
}

// Compact packs one expanded word per pixel into a new w x h tight image.
func Compact(words []uint32, w, h int) (*Image, error) {
	if w < 0 || h < 0 || len(words) != w*h {
		return nil, fmt.Errorf("%w: %d words for %dx%d", ErrSizeMismatch, len(words), w, h)
	}
	m := NewImage(w, h)
	for g := 0; g < m.Groups(); g++ {
		var q [4]uint32
		copy(q[:], words[4*g:4*g+m.GroupLen(g)])
		m.SetTriple(g, Pack(q))
	}
	return m, nil
}
