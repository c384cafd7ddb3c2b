package texture

import (
	"image"
	"image/color"
)

// Placeholder returns a stable, distinct colour for a texture id so that maps
// stay readable without art.
func Placeholder(id uint16) color.RGBA {
	hue := int(id) * 47 % 360
	r, g, b := hueToRGB(hue, 150, 200)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// hueToRGB converts a hue in degrees with saturation and value in [0, 255].
func hueToRGB(hue, sat, val int) (uint8, uint8, uint8) {
	c := val * sat / 255
	h := hue % 360
	x := c * (60 - abs(h%120-60)) / 60
	m := val - c

	var r, g, b int
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return uint8(r + m), uint8(g + m), uint8(b + m)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Checker generates a two-tone checkerboard in the placeholder colour of id.
func Checker(id uint16, size, cell int) *Texture {
	if cell < 1 {
		cell = 1
	}
	base := Placeholder(id)
	dark := color.RGBA{R: uint8(int(base.R) * 3 / 4), G: uint8(int(base.G) * 3 / 4), B: uint8(int(base.B) * 3 / 4), A: 255}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := base
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			img.SetRGBA(x, y, c)
		}
	}
	return New(id, img, false)
}

// Marker generates a sprite stand-in: a filled disc on a transparent square.
func Marker(id uint16, size int) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := Placeholder(id)
	r := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-r, y-r
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return New(id, img, false)
}

// AddPlaceholders fills ids [0, n) that have no texture with checkerboards.
func (s *Store) AddPlaceholders(n int) {
	for id := 0; id < n && id <= 0xFFFF; id++ {
		if _, ok := s.textures[uint16(id)]; !ok {
			s.Add(Checker(uint16(id), DefaultSize, DefaultSize/8))
		}
	}
}
