// Package framebuffer is a software RGBA rasterizer. The renderer draws
// column spans and overlay lines into it and the host presents its pixels.
package framebuffer

import (
	"image"
	"image/color"
)

// Frame is an RGBA pixel buffer.
type Frame struct {
	img *image.RGBA
}

// New creates a frame of the given size.
func New(width, height int) *Frame {
	return &Frame{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.img.Rect.Dx()
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.img.Rect.Dy()
}

// Resize reallocates the frame when the size changes.
func (f *Frame) Resize(width, height int) {
	if width == f.Width() && height == f.Height() {
		return
	}
	f.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Image returns the backing image.
func (f *Frame) Image() *image.RGBA {
	return f.img
}

// Pixels returns the raw RGBA bytes, row-major with Stride bytes per row.
func (f *Frame) Pixels() []byte {
	return f.img.Pix
}

// Stride returns the byte length of one row.
func (f *Frame) Stride() int {
	return f.img.Stride
}

// At returns the pixel at (x, y), or transparent black outside the frame.
func (f *Frame) At(x, y int) color.RGBA {
	return f.img.RGBAAt(x, y)
}

// Clear fills the frame with c.
func (f *Frame) Clear(c color.RGBA) {
	pix := f.img.Pix
	if len(pix) < 4 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}

// DrawSpan fills rows [top, bottom) of column x. Out-of-frame parts are
// clipped.
func (f *Frame) DrawSpan(x, top, bottom int, c color.RGBA) {
	if x < 0 || x >= f.Width() {
		return
	}
	if top < 0 {
		top = 0
	}
	if h := f.Height(); bottom > h {
		bottom = h
	}
	i := f.img.PixOffset(x, top)
	for y := top; y < bottom; y++ {
		f.img.Pix[i] = c.R
		f.img.Pix[i+1] = c.G
		f.img.Pix[i+2] = c.B
		f.img.Pix[i+3] = c.A
		i += f.img.Stride
	}
}

// DrawLine draws a one-pixel line from (x0, y0) to (x1, y1) inclusive.
func (f *Frame) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	// Lines far outside the frame are not walked pixel by pixel.
	limit := 4 * (f.Width() + f.Height())
	if dx > limit || -dy > limit {
		return
	}

	err := dx + dy
	for {
		f.img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillRect fills the rectangle with top-left (x, y) and the given size.
func (f *Frame) FillRect(x, y, w, h int, c color.RGBA) {
	r := image.Rect(x, y, x+w, y+h).Intersect(f.img.Rect)
	for col := r.Min.X; col < r.Max.X; col++ {
		f.DrawSpan(col, r.Min.Y, r.Max.Y, c)
	}
}

// Blend mixes c over the pixel at (x, y) with alpha a in [0, 255].
func (f *Frame) Blend(x, y int, c color.RGBA, a uint8) {
	if !(image.Point{X: x, Y: y}.In(f.img.Rect)) {
		return
	}
	i := f.img.PixOffset(x, y)
	p := f.img.Pix[i : i+3 : i+3]
	p[0] = mix(p[0], c.R, a)
	p[1] = mix(p[1], c.G, a)
	p[2] = mix(p[2], c.B, a)
}

func mix(dst, src, a uint8) uint8 {
	return uint8((int(src)*int(a) + int(dst)*(255-int(a))) / 255)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
