package bmp

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/fs"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbmp "golang.org/x/image/bmp"

	"github.com/AnyUserName/bmpdither/internal/pixel"
)

// randomImage returns a w x h image filled with deterministic noise.
func randomImage(t *testing.T, w, h int, seed int64) *pixel.Image {
	t.Helper()
	raw := make([]byte, pixel.BytesPerPixel*w*h)
	rand.New(rand.NewSource(seed)).Read(raw)
	m, err := pixel.FromBytes(w, h, raw)
	require.NoError(t, err)
	return m
}

func encodeNew(t *testing.T, m *pixel.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, EncodeNew(&buf, m))
	return buf.Bytes()
}

func TestHeaderByteOffsets(t *testing.T) {
	fh, ih := NewHeaders(3, 2)
	fb, err := fh.MarshalBinary()
	require.NoError(t, err)
	ib, err := ih.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, fb, FileHeaderLen)
	require.Len(t, ib, InfoHeaderLen)

	le := binary.LittleEndian
	assert.Equal(t, []byte("BM"), fb[0:2])
	assert.Equal(t, uint16(0x4d42), le.Uint16(fb[0:]))
	assert.Equal(t, uint32(54+24), le.Uint32(fb[2:]))
	assert.Equal(t, uint32(54), le.Uint32(fb[10:]))

	assert.Equal(t, uint32(40), le.Uint32(ib[0:]))
	assert.Equal(t, uint32(3), le.Uint32(ib[4:]))
	assert.Equal(t, uint32(2), le.Uint32(ib[8:]))
	assert.Equal(t, uint16(1), le.Uint16(ib[12:]))
	assert.Equal(t, uint16(24), le.Uint16(ib[14:]))
	assert.Equal(t, uint32(0), le.Uint32(ib[16:]))
	assert.Equal(t, uint32(24), le.Uint32(ib[20:]))

	var fh2 FileHeader
	var ih2 InfoHeader
	require.NoError(t, fh2.UnmarshalBinary(fb))
	require.NoError(t, ih2.UnmarshalBinary(ib))
	assert.Equal(t, fh, fh2)
	assert.Equal(t, ih, ih2)
}

func TestProbeFormat(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		want   Format
	}{
		{"bmp", []byte("BM\x00\x00"), FormatBMP},
		{"exact", []byte("BM"), FormatBMP},
		{"png", []byte("\x89PNG"), FormatUnknown},
		{"lowercase", []byte("bm"), FormatUnknown},
		{"short", []byte("B"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProbeFormat(tt.prefix))
		})
	}
	assert.Equal(t, "bmp", FormatBMP.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}

func TestProbeRestoresPosition(t *testing.T) {
	r := bytes.NewReader([]byte("xxBM"))
	_, err := r.Seek(2, io.SeekStart)
	require.NoError(t, err)

	f, err := Probe(r)
	require.NoError(t, err)
	assert.Equal(t, FormatBMP, f)

	pos, _ := r.Seek(0, io.SeekCurrent)
	assert.Equal(t, int64(2), pos)
}

func TestGeometry(t *testing.T) {
	tests := []struct {
		w, padding, stride int
	}{
		{0, 0, 0},
		{1, 1, 4},
		{2, 2, 8},
		{3, 3, 12},
		{4, 0, 12},
		{5, 1, 16},
		{8, 0, 24},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.padding, RowPadding(tt.w), "padding w=%d", tt.w)
		g := geometry(tt.w, 3)
		assert.Equal(t, tt.stride, g.Stride, "stride w=%d", tt.w)
		assert.Equal(t, tt.w+tt.padding, g.PaddedWidth)
		assert.Equal(t, 3*tt.stride, g.PayloadSize())
		assert.Zero(t, g.Stride%4)
	}
}

func TestReadHeadersRejectsForeignData(t *testing.T) {
	inputs := map[string][]byte{
		"png":   append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 80)...),
		"short": []byte("GIF"),
		"empty": nil,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			dst := pixel.NewImage(2, 2)
			for i := range dst.Pix {
				dst.Pix[i] = 0xdeadbeef
			}
			before := append([]uint32(nil), dst.Pix...)

			err := DecodeInto(bytes.NewReader(in), dst)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
			assert.Equal(t, before, dst.Pix, "destination must be untouched")

			_, _, err = ReadHeaders(bytes.NewReader(in))
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestReadHeadersValidation(t *testing.T) {
	valid := encodeNew(t, randomImage(t, 2, 2, 1))

	patch := func(off int, v uint32, size int) []byte {
		b := append([]byte(nil), valid...)
		if size == 2 {
			binary.LittleEndian.PutUint16(b[off:], uint16(v))
		} else {
			binary.LittleEndian.PutUint32(b[off:], v)
		}
		return b
	}
	negative := uint32(0xffffffff)

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"truncated header", valid[:30], ErrTruncatedInput},
		{"bit count", patch(28, 32, 2), ErrUnsupportedFormat},
		{"compression", patch(30, 1, 4), ErrUnsupportedFormat},
		{"info size", patch(14, 12, 4), ErrUnsupportedFormat},
		{"negative height", patch(22, negative, 4), ErrUnsupportedFormat},
		{"negative width", patch(18, negative, 4), ErrUnsupportedFormat},
		{"offset inside headers", patch(10, 20, 4), ErrInvalidOffset},
		{"offset past end", patch(10, uint32(len(valid)+1), 4), ErrInvalidOffset},
		{"payload short", valid[:len(valid)-1], ErrTruncatedInput},
		{"payload past offset", patch(10, HeaderLen+4, 4), ErrTruncatedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadHeaders(bytes.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	r := bytes.NewReader(valid)
	_, ih, err := ReadHeaders(r)
	require.NoError(t, err)
	assert.Equal(t, int32(2), ih.Width)
	pos, _ := r.Seek(0, io.SeekCurrent)
	assert.Zero(t, pos, "reader must be rewound")
}

func TestDecodeOversizedDimensions(t *testing.T) {
	for _, dim := range []int32{1 << 30, math.MaxInt32} {
		fh, ih := NewHeaders(1, 1)
		ih.Width, ih.Height = dim, dim

		var buf bytes.Buffer
		require.NoError(t, WriteHeaders(&buf, fh, ih))
		buf.Write(make([]byte, 4))
		data := buf.Bytes()
		require.Len(t, data, HeaderLen+4)

		_, _, err := ReadHeaders(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrTruncatedInput, "%dx%d", dim, dim)

		_, err = Decode(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrTruncatedInput, "%dx%d", dim, dim)

		err = DecodeInto(bytes.NewReader(data), pixel.NewImage(1, 1))
		assert.ErrorIs(t, err, ErrTruncatedInput, "%dx%d", dim, dim)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	full := encodeNew(t, randomImage(t, 4, 4, 2))
	short := full[:HeaderLen+10]

	dst := pixel.NewImage(4, 4)
	err := DecodeInto(bytes.NewReader(short), dst)
	assert.ErrorIs(t, err, ErrTruncatedInput)
	assert.Equal(t, make([]uint32, len(dst.Pix)), dst.Pix)
}

func TestDecodeIntoGeometryMismatch(t *testing.T) {
	data := encodeNew(t, randomImage(t, 3, 3, 3))
	err := DecodeInto(bytes.NewReader(data), pixel.NewImage(3, 2))
	assert.ErrorIs(t, err, ErrGeometryMismatch)

	assert.ErrorIs(t, DecodeInto(bytes.NewReader(data), nil), ErrInvalidArgument)
}

func TestRoundTrip(t *testing.T) {
	for i, dims := range [][2]int{{1, 1}, {2, 3}, {3, 2}, {4, 4}, {5, 3}, {7, 5}, {0, 0}} {
		w, h := dims[0], dims[1]
		m := randomImage(t, w, h, int64(10+i))
		data := encodeNew(t, m)
		require.Len(t, data, HeaderLen+geometry(w, h).PayloadSize())

		got, err := Decode(bytes.NewReader(data))
		require.NoError(t, err, "%dx%d", w, h)
		assert.Equal(t, m.Pix, got.Pix, "%dx%d", w, h)
	}
}

func TestPaddingBytesAreZero(t *testing.T) {
	m := randomImage(t, 1, 3, 4)
	data := encodeNew(t, m)
	payload := data[HeaderLen:]
	require.Len(t, payload, 12)
	for row := 0; row < 3; row++ {
		assert.Equal(t, []byte{0}, payload[4*row+3:4*row+4], "row %d", row)
	}
}

func TestEncodeMatchesReferenceDecoder(t *testing.T) {
	const w, h = 5, 3
	m := randomImage(t, w, h, 5)
	data := encodeNew(t, m)

	img, err := xbmp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, w, img.Bounds().Dx())
	require.Equal(t, h, img.Bounds().Dy())

	// Rows are stored bottom-up; At reads 0x00BBGGRR.
	for row := 0; row < h; row++ {
		for x := 0; x < w; x++ {
			v := m.At(row*w + x)
			r, g, b, _ := img.At(x, h-1-row).RGBA()
			assert.Equal(t, uint32(byte(v)), r>>8, "r at %d,%d", x, row)
			assert.Equal(t, uint32(byte(v>>8)), g>>8, "g at %d,%d", x, row)
			assert.Equal(t, uint32(byte(v>>16)), b>>8, "b at %d,%d", x, row)
		}
	}
}

func TestEncodeCopiesHeaderGap(t *testing.T) {
	m := randomImage(t, 3, 2, 6)
	fh, ih := NewHeaders(3, 2)
	fh.Offset = HeaderLen + 4
	fh.FileSize += 4
	gap := []byte("mask")

	var src bytes.Buffer
	require.NoError(t, Write(&src, fh, ih, gap, m))

	other := randomImage(t, 3, 2, 7)
	var out bytes.Buffer
	require.NoError(t, Encode(&out, bytes.NewReader(src.Bytes()), other))

	b := out.Bytes()
	assert.Equal(t, src.Bytes()[:HeaderLen], b[:HeaderLen])
	assert.Equal(t, gap, b[HeaderLen:HeaderLen+4])

	got, err := Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, other.Pix, got.Pix)
}

func TestEncodeGeometryMismatch(t *testing.T) {
	src := encodeNew(t, randomImage(t, 4, 2, 8))
	var out bytes.Buffer
	err := Encode(&out, bytes.NewReader(src), pixel.NewImage(2, 4))
	assert.ErrorIs(t, err, ErrGeometryMismatch)
	assert.Zero(t, out.Len())
}

func TestFileOperations(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.bmp")
	dstPath := filepath.Join(dir, "dst.bmp")

	m := randomImage(t, 5, 4, 9)
	require.NoError(t, os.WriteFile(srcPath, encodeNew(t, m), 0o644))

	pw, h, err := ProbeGeometry(srcPath)
	require.NoError(t, err)
	assert.Equal(t, 6, pw)
	assert.Equal(t, 4, h)

	got, err := ReadPixels(srcPath)
	require.NoError(t, err)
	assert.Equal(t, m.Pix, got.Pix)

	for i := 0; i < got.Len(); i++ {
		got.Set(i, ^got.At(i))
	}
	require.NoError(t, WritePixels(srcPath, got, dstPath))

	back, err := ReadPixels(dstPath)
	require.NoError(t, err)
	assert.Equal(t, got.Pix, back.Pix)

	_, err = ReadPixels(filepath.Join(dir, "missing.bmp"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake.bmp"), []byte("not a bitmap at all"), 0o644))
	_, _, err = ProbeGeometry(filepath.Join(dir, "fake.bmp"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
