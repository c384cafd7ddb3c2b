package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/heightcast/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}

// buildTGAHeader builds a true-colour header, bottom-up unless topDown is set.
func buildTGAHeader(imageType byte, w, h int, bpp byte, topDown bool) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	if topDown {
		hdr[17] = 0x20
	}
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	data := buildTGAHeader(TGATypeUncompressed, 2, 2, 24, false)
	// BGR, bottom row first
	data = append(data,
		0, 0, 255, 0, 255, 0, // bottom: red, green
		255, 0, 0, 255, 255, 255, // top: blue, white
	)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	rgba := img.(*image.RGBA)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, rgba.RGBAAt(1, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	data := buildTGAHeader(TGATypeRLE, 3, 1, 32, true)
	data = append(data,
		0x81, 10, 20, 30, 200, // run of two
		0x00, 1, 2, 3, 4, // one raw pixel
	)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	rgba := img.(*image.RGBA)
	assert.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 200}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 200}, rgba.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{R: 3, G: 2, B: 1, A: 4}, rgba.RGBAAt(2, 0))
}

func TestDecodeTGAErrors(t *testing.T) {
	_, err := DecodeTGA([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, ErrTGATruncated))

	_, err = DecodeTGA(buildTGAHeader(TGATypeUncompressed, 4, 4, 24, false))
	assert.True(t, errors.Is(err, ErrTGATruncated))

	_, err = DecodeTGA(buildTGAHeader(3, 1, 1, 8, false))
	assert.True(t, errors.Is(err, ErrTGAUnsupported))

	_, err = DecodeTGA(buildTGAHeader(TGATypeUncompressed, 1, 1, 16, false))
	assert.True(t, errors.Is(err, ErrTGAUnsupported))
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestNewTexture(t *testing.T) {
	img := solid(4, 2, color.RGBA{R: 100, G: 50, B: 10, A: 255})
	img.SetRGBA(0, 0, color.RGBA{R: 255, B: 255, A: 255})

	tex := New(7, img, true)
	assert.Equal(t, uint16(7), tex.ID)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, uint8(0), tex.At(0, 0).A, "magenta is keyed out")
	assert.Equal(t, color.RGBA{R: 100, G: 50, B: 10, A: 255}, tex.Mean, "mean ignores transparent texels")
	assert.Equal(t, tex.At(1, 1), tex.At(5, -1), "coordinates wrap")
}

func TestStoreFallbacks(t *testing.T) {
	s := NewStore()

	_, ok := s.Lookup(3)
	assert.False(t, ok)
	assert.Equal(t, Placeholder(3), s.Color(3))
	w, h := s.Size(3)
	assert.Equal(t, [2]int{DefaultSize, DefaultSize}, [2]int{w, h})

	s.Add(New(3, solid(16, 32, color.RGBA{G: 200, A: 255}), false))
	tex, ok := s.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, 16, tex.Width)
	assert.Equal(t, color.RGBA{G: 200, A: 255}, s.Color(3))
	w, h = s.Size(3)
	assert.Equal(t, [2]int{16, 32}, [2]int{w, h})
}

func TestPlaceholders(t *testing.T) {
	assert.NotEqual(t, Placeholder(1), Placeholder(2))
	assert.Equal(t, Placeholder(9), Placeholder(9))
	assert.Equal(t, uint8(255), Placeholder(0).A)

	s := NewStore()
	s.Add(New(2, solid(1, 1, color.RGBA{R: 1, A: 255}), false))
	s.AddPlaceholders(4)
	assert.Equal(t, []uint16{0, 1, 2, 3}, s.IDs())
	assert.Equal(t, color.RGBA{R: 1, A: 255}, s.Color(2), "existing textures are kept")

	m := Marker(5, 16)
	assert.Equal(t, uint8(0), m.At(0, 0).A)
	assert.Equal(t, uint8(255), m.At(8, 8).A)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, solid(8, 8, color.RGBA{R: 200, A: 255})))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1_brick.png"), pngBuf.Bytes(), 0644))

	var bmpBuf bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpBuf, solid(4, 4, color.RGBA{B: 200, A: 255})))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.bmp"), bmpBuf.Bytes(), 0644))

	tga := buildTGAHeader(TGATypeUncompressed, 1, 1, 24, false)
	tga = append(tga, 0, 128, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10.TGA"), tga, 0644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "11.gif"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "12.png"), []byte("broken"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "13"), 0755))

	s := NewStore()
	n, err := s.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []uint16{1, 2, 10}, s.IDs())
	assert.Equal(t, color.RGBA{R: 200, A: 255}, s.Color(1))
	assert.Equal(t, color.RGBA{B: 200, A: 255}, s.Color(2))
	assert.Equal(t, color.RGBA{G: 128, A: 255}, s.Color(10))

	_, err = s.LoadDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDecodeUnknown(t *testing.T) {
	_, err := Decode("a.jpg", nil)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name string
		id   uint16
		ok   bool
	}{
		{"12.png", 12, true},
		{"0_sky.tga", 0, true},
		{"65535.bmp", 65535, true},
		{"65536.bmp", 0, false},
		{"brick.png", 0, false},
	}
	for _, tt := range tests {
		id, ok := parseID(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.id, id, tt.name)
	}
}
