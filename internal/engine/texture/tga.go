package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// TGA decoding errors.
var (
	ErrTGATruncated   = errors.New("TGA data truncated")
	ErrTGAUnsupported = errors.New("unsupported TGA variant")
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // true-color
	TGATypeRLE          = 10 // run-length encoded true-color

	tgaHeaderSize = 18
	tgaTopDown    = 0x20 // descriptor bit: first row is the top row
)

type tgaHeader struct {
	IDLength     uint8
	ColorMapType uint8
	ImageType    uint8
	ColorMap     [5]byte
	OriginX      uint16
	OriginY      uint16
	Width        uint16
	Height       uint16
	Depth        uint8
	Descriptor   uint8
}

// DecodeTGA decodes a 24 or 32 bit true-color TGA, raw or run-length encoded.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTGATruncated
	}
	var h tgaHeader
	if _, err := binary.Decode(data, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header", ErrTGATruncated)
	}

	switch {
	case h.ColorMapType != 0:
		return nil, fmt.Errorf("%w: color-mapped", ErrTGAUnsupported)
	case h.ImageType != TGATypeUncompressed && h.ImageType != TGATypeRLE:
		return nil, fmt.Errorf("%w: image type %d", ErrTGAUnsupported, h.ImageType)
	case h.Depth != 24 && h.Depth != 32:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrTGAUnsupported, h.Depth)
	}

	offset := tgaHeaderSize + int(h.IDLength)
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	d := tgaDecoder{
		src:   data[offset:],
		bpp:   int(h.Depth) / 8,
		w:     int(h.Width),
		h:     int(h.Height),
		flip:  h.Descriptor&tgaTopDown == 0,
		img:   image.NewRGBA(image.Rect(0, 0, int(h.Width), int(h.Height))),
		total: int(h.Width) * int(h.Height),
	}
	var err error
	if h.ImageType == TGATypeRLE {
		err = d.rle()
	} else {
		err = d.raw(d.total)
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

// tgaDecoder writes pixels in file order, flipping rows for bottom-up files.
type tgaDecoder struct {
	src   []byte
	bpp   int
	w, h  int
	flip  bool
	img   *image.RGBA
	n     int // pixels written
	total int
}

func (d *tgaDecoder) pixel() (color.RGBA, error) {
	if len(d.src) < d.bpp {
		return color.RGBA{}, fmt.Errorf("%w: pixel data", ErrTGATruncated)
	}
	c := color.RGBA{B: d.src[0], G: d.src[1], R: d.src[2], A: 255}
	if d.bpp == 4 {
		c.A = d.src[3]
	}
	d.src = d.src[d.bpp:]
	return c, nil
}

func (d *tgaDecoder) put(c color.RGBA) {
	x, y := d.n%d.w, d.n/d.w
	if d.flip {
		y = d.h - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.n++
}

func (d *tgaDecoder) raw(count int) error {
	for i := 0; i < count && d.n < d.total; i++ {
		c, err := d.pixel()
		if err != nil {
			return err
		}
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle() error {
	for d.n < d.total {
		if len(d.src) == 0 {
			return fmt.Errorf("%w: rle packets", ErrTGATruncated)
		}
		packet := d.src[0]
		d.src = d.src[1:]
		count := int(packet&0x7F) + 1

		if packet&0x80 == 0 {
			if err := d.raw(count); err != nil {
				return err
			}
			continue
		}
		c, err := d.pixel()
		if err != nil {
			return err
		}
		for i := 0; i < count && d.n < d.total; i++ {
			d.put(c)
		}
	}
	return nil
}

// IsMagentaKey reports whether an RGB color is the magenta transparency key
// of paletted sprite art. The tolerance absorbs BMP decoding variations.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ImageToRGBA copies img into a new *image.RGBA. With key set, magenta
// pixels become transparent black.
func ImageToRGBA(img image.Image, key bool) *image.RGBA {
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Rect, img, img.Bounds().Min, draw.Src)
	if !key {
		return rgba
	}
	for i := 0; i+3 < len(rgba.Pix); i += 4 {
		if IsMagentaKey(rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2]) {
			copy(rgba.Pix[i:i+4], []byte{0, 0, 0, 0})
		}
	}
	return rgba
}
