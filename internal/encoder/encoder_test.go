package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() image.Image {
	pal := color.Palette{color.Black, color.White, color.RGBA{R: 0xff, A: 0xff}}
	m := image.NewPaletted(image.Rect(0, 0, 8, 4), pal)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			m.SetColorIndex(x, y, uint8((x+y)%len(pal)))
		}
	}
	return m
}

func TestEncodersDecodeBack(t *testing.T) {
	r := NewRegistry()
	decoders := map[string]func([]byte) (image.Image, error){
		"png":  func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) },
		"jpeg": func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) },
		"bmp":  func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) },
	}
	src := testImage()
	for _, f := range r.Available() {
		t.Run(f, func(t *testing.T) {
			enc := r.Get(f)
			require.NotNil(t, enc)
			data, err := enc.Encode(src, 0)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			got, err := decoders[f](data)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), got.Bounds())
		})
	}
}

func TestPNGIsLossless(t *testing.T) {
	src := testImage()
	data, err := (&PNGEncoder{}).Encode(src, 0)
	require.NoError(t, err)
	got, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	_, paletted := got.(*image.Paletted)
	assert.True(t, paletted, "paletted input should stay indexed")
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			r1, g1, b1, _ := src.At(x, y).RGBA()
			r2, g2, b2, _ := got.At(x, y).RGBA()
			assert.Equal(t, [3]uint32{r1, g1, b1}, [3]uint32{r2, g2, b2})
		}
	}
}

func TestRegistryResolveFormats(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"png", "jpeg", "bmp"}, r.Available())
	assert.NotNil(t, r.Get("JPG"))
	assert.Nil(t, r.Get("webp"))

	got, err := r.ResolveFormats([]string{"jpg", "PNG", "jpeg", " "})
	require.NoError(t, err)
	assert.Equal(t, []string{"jpeg", "png"}, got)

	_, err = r.ResolveFormats([]string{"png", "avif"})
	assert.Error(t, err)

	got, err = r.ResolveFormats(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, "preview encoders: png, jpeg, bmp", r.String())
}
