package pixel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackLayout(t *testing.T) {
	// Stream bytes 0x00..0x0b: pixel p holds bytes 3p, 3p+1, 3p+2.
	tight := [3]uint32{0x00010203, 0x04050607, 0x08090a0b}
	want := [4]uint32{0x00000102, 0x00030405, 0x00060708, 0x00090a0b}

	assert.Equal(t, want, Unpack(tight))
	assert.Equal(t, tight, Pack(want))
}

func TestPackIgnoresTopByte(t *testing.T) {
	q := [4]uint32{0xff112233, 0xee445566, 0xdd778899, 0xccaabbcc}
	assert.Equal(t, [3]uint32{0x11223344, 0x55667788, 0x99aabbcc}, Pack(q))
}

func TestPackUnpackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		x := [3]uint32{rng.Uint32(), rng.Uint32(), rng.Uint32()}
		require.Equal(t, x, Pack(Unpack(x)))

		q := Unpack(x)
		for _, w := range q {
			require.Zero(t, w>>24, "top byte must be clear")
		}
		require.Equal(t, q, Unpack(Pack(q)))
	}
}

func TestExpandCompactRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, dims := range [][2]int{{4, 1}, {4, 3}, {1, 1}, {2, 1}, {3, 1}, {5, 3}, {7, 7}, {0, 0}} {
		w, h := dims[0], dims[1]
		raw := make([]byte, 3*w*h)
		rng.Read(raw)

		m, err := FromBytes(w, h, raw)
		require.NoError(t, err)
		require.Len(t, m.Pix, WordsFor(w*h))

		words := Expand(m)
		require.Len(t, words, w*h)
		for i, v := range words {
			require.Equal(t, m.At(i), v, "pixel %d of %dx%d", i, w, h)
		}

		back, err := Compact(words, w, h)
		require.NoError(t, err)
		assert.Equal(t, m.Pix, back.Pix, "%dx%d", w, h)
		assert.Equal(t, raw, back.Bytes())
	}
}

func TestShortGroupLeavesStoragePaddingZero(t *testing.T) {
	// 5 pixels = 15 bytes = 4 words, the last byte of word 3 is padding.
	m, err := FromBytes(5, 1, []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12,
		13, 14, 15,
	})
	require.NoError(t, err)
	require.Equal(t, 2, m.Groups())
	assert.Equal(t, 1, m.GroupLen(1))

	tr, n := m.Triple(1)
	assert.Equal(t, 1, n)
	assert.Equal(t, [3]uint32{0x0d0e0f00, 0, 0}, tr)

	m.SetTriple(1, [3]uint32{0xaabbcc00, 0x11111111, 0x22222222})
	assert.Len(t, m.Pix, 4)
	assert.Equal(t, uint32(0xaabbcc), m.At(4))
}

func TestAtSet(t *testing.T) {
	m := NewImage(3, 2)
	for i := 0; i < m.Len(); i++ {
		m.Set(i, uint32(0x10101*(i+1)))
	}
	for i := 0; i < m.Len(); i++ {
		assert.Equal(t, uint32(0x10101*(i+1)), m.At(i))
	}
	assert.Equal(t, []byte{1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5, 5, 5, 6, 6, 6}, m.Bytes())
}

func TestRGB(t *testing.T) {
	// Bitmap data stores blue first.
	m, err := FromBytes(2, 1, []byte{0x33, 0x22, 0x11, 0xcc, 0xbb, 0xaa})
	require.NoError(t, err)

	r, g, b := m.RGB(0)
	assert.Equal(t, [3]uint8{0x11, 0x22, 0x33}, [3]uint8{r, g, b})
	r, g, b = m.RGB(1)
	assert.Equal(t, [3]uint8{0xaa, 0xbb, 0xcc}, [3]uint8{r, g, b})

	words := Expand(m)
	require.NoError(t, SwapChannels(words, RedByte, BlueByte))
	assert.Equal(t, []uint32{0x112233, 0xaabbcc}, words, "swapped words read as 0x00RRGGBB")
}

func TestFromBytesSizeMismatch(t *testing.T) {
	_, err := FromBytes(2, 2, make([]byte, 11))
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = Compact(make([]uint32, 3), 2, 2)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestSwapChannels(t *testing.T) {
	words := []uint32{0x00112233, 0xaabbccdd}
	require.NoError(t, SwapChannels(words, RedByte, BlueByte))
	assert.Equal(t, []uint32{0x00332211, 0xaaddccbb}, words)

	require.NoError(t, SwapChannels(words, 0, 3))
	assert.Equal(t, []uint32{0x11332200, 0xbbddccaa}, words)
}

func TestSwapChannelsInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	orig := make([]uint32, 64)
	for i := range orig {
		orig[i] = rng.Uint32()
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			b := append([]uint32(nil), orig...)
			require.NoError(t, SwapChannels(b, i, j))
			require.NoError(t, SwapChannels(b, i, j))
			assert.Equal(t, orig, b, "swap %d<->%d", i, j)
		}
	}
}

func TestSwapChannelsInvalidIndex(t *testing.T) {
	words := []uint32{0x00112233}
	for _, ij := range [][2]int{{4, 0}, {0, 4}, {-1, 2}, {2, 7}} {
		err := SwapChannels(words, ij[0], ij[1])
		assert.ErrorIs(t, err, ErrInvalidByteIndex)
	}
	assert.Equal(t, []uint32{0x00112233}, words, "buffer must be untouched")
}

func TestGridWord(t *testing.T) {
	// 4x4 byte raster: one storage word per row.
	g := Grid{Stride: 4, Height: 4}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i, ok := g.Word(x, y)
			require.True(t, ok)
			assert.Equal(t, y, i, "(%d,%d)", x, y)
		}
	}

	for _, xy := range [][2]int{{4, 0}, {0, 4}, {4, 4}} {
		i, ok := g.Word(xy[0], xy[1])
		assert.False(t, ok, "(%d,%d)", xy[0], xy[1])
		assert.Equal(t, -1, i)
	}

	var rows []int
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Stride; x += 4 {
			i, _ := g.Word(x, y)
			rows = append(rows, i)
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3}, rows)
	assert.Equal(t, 4, g.Words())
}

func TestGridWordWideRows(t *testing.T) {
	g := Grid{Stride: 12, Height: 2}
	i, ok := g.Word(11, 1)
	require.True(t, ok)
	assert.Equal(t, 5, i)
}
