// Package ui draws editor overlays into the framebuffer.
package ui

import (
	"image/color"

	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/framebuffer"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// ColorSource maps a texture id to a representative colour.
type ColorSource interface {
	Color(tex uint16) color.RGBA
}

// Minimap renders an overhead view of the grid with the camera and markers.
type Minimap struct {
	Size     int   // Side of the minimap in pixels
	Margin   int   // Distance from the top-right corner of the frame
	Alpha    uint8 // Opacity of the map cells
	ShowGrid bool  // Darken every tenth row and column

	colors  ColorSource
	markers []MinimapMarker

	// layout of the last Render
	left, top int
	cellPx    int
	originX   int
	originY   int
	cols      int
	rows      int
}

// MinimapMarker is a point of interest on the minimap.
type MinimapMarker struct {
	Pos   fixed.Vec2
	Type  MarkerType
	Color color.RGBA
}

// MarkerType defines the type of minimap marker.
type MarkerType uint8

const (
	MarkerTypeSprite MarkerType = iota
	MarkerTypeSelected
	MarkerTypeHover
)

var (
	borderColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	cameraColor = color.RGBA{R: 50, G: 255, B: 50, A: 255}
	gridColor   = color.RGBA{A: 255}
	skyColor    = color.RGBA{R: 110, G: 150, B: 210, A: 255}
)

// NewMinimap creates a minimap that colours cells with colors.
func NewMinimap(colors ColorSource) *Minimap {
	return &Minimap{
		Size:   64,
		Margin: 4,
		Alpha:  220,
		colors: colors,
	}
}

// AddMarker adds a marker to the minimap.
func (m *Minimap) AddMarker(marker MinimapMarker) {
	m.markers = append(m.markers, marker)
}

// ClearMarkers removes all markers from the minimap.
func (m *Minimap) ClearMarkers() {
	m.markers = m.markers[:0]
}

// Markers returns the current markers.
func (m *Minimap) Markers() []MinimapMarker {
	return m.markers
}

// layout fits the grid into Size pixels. Maps larger than Size cells show the
// window around the camera at one pixel per cell.
func (m *Minimap) layout(frameW int, g *terrain.Grid, cam *camera.Camera) {
	gw, gh := int(g.Width), int(g.Height)
	m.cellPx = max(1, m.Size/max(gw, gh, 1))
	m.cols = min(gw, m.Size/m.cellPx)
	m.rows = min(gh, m.Size/m.cellPx)

	cx, cy := cam.Cell()
	m.originX = clampInt(cx-m.cols/2, 0, gw-m.cols)
	m.originY = clampInt(cy-m.rows/2, 0, gh-m.rows)

	m.left = frameW - m.Margin - m.cols*m.cellPx
	m.top = m.Margin
}

// Render draws the minimap into the top-right corner of dst.
func (m *Minimap) Render(dst *framebuffer.Frame, g *terrain.Grid, cam *camera.Camera) {
	m.layout(dst.Width(), g, cam)
	if m.cols == 0 || m.rows == 0 {
		return
	}

	lo, hi := g.HeightRange()
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			x, y := m.originX+col, m.originY+row
			c := m.cellColor(g, x, y, lo, hi)
			if m.ShowGrid && (x%10 == 0 || y%10 == 0) {
				c = darken(c)
			}
			px, py := m.left+col*m.cellPx, m.top+row*m.cellPx
			for dy := 0; dy < m.cellPx; dy++ {
				for dx := 0; dx < m.cellPx; dx++ {
					dst.Blend(px+dx, py+dy, c, m.Alpha)
				}
			}
		}
	}

	for _, mk := range m.markers {
		m.renderMarker(dst, mk)
	}
	m.renderCamera(dst, cam)

	w, h := m.cols*m.cellPx, m.rows*m.cellPx
	x0, y0, x1, y1 := m.left-1, m.top-1, m.left+w, m.top+h
	dst.DrawLine(x0, y0, x1, y0, borderColor)
	dst.DrawLine(x1, y0, x1, y1, borderColor)
	dst.DrawLine(x1, y1, x0, y1, borderColor)
	dst.DrawLine(x0, y1, x0, y0, borderColor)
}

// cellColor tints the floor texture colour by floor height: low cells darker.
func (m *Minimap) cellColor(g *terrain.Grid, x, y int, lo, hi fixed.Scalar) color.RGBA {
	cell := g.Cell(x, y)
	if g.IsSky(x, y) {
		return skyColor
	}
	c := m.colors.Color(cell.FloorTex)
	if hi <= lo {
		return c
	}
	f := 96 + int(int64(cell.FloorHeight-lo)*160/int64(hi-lo))
	return color.RGBA{
		R: uint8(int(c.R) * f / 256),
		G: uint8(int(c.G) * f / 256),
		B: uint8(int(c.B) * f / 256),
		A: 255,
	}
}

func (m *Minimap) renderMarker(dst *framebuffer.Frame, mk MinimapMarker) {
	px, py, ok := m.Point(mk.Pos)
	if !ok {
		return
	}
	switch mk.Type {
	case MarkerTypeSelected:
		dst.FillRect(px-1, py-1, 3, 3, mk.Color)
	case MarkerTypeHover:
		dst.DrawLine(px-1, py-1, px+1, py+1, mk.Color)
		dst.DrawLine(px-1, py+1, px+1, py-1, mk.Color)
	default:
		dst.FillRect(px, py, 1, 1, mk.Color)
	}
}

func (m *Minimap) renderCamera(dst *framebuffer.Frame, cam *camera.Camera) {
	px, py, ok := m.Point(cam.Pos.XY())
	if !ok {
		return
	}
	dst.FillRect(px-1, py-1, 3, 3, cameraColor)
	f := cam.Forward()
	tx := px + int(int64(f.X)*5>>fixed.Shift)
	ty := py + int(int64(f.Y)*5>>fixed.Shift)
	dst.DrawLine(px, py, tx, ty, cameraColor)
}

// Point maps a world position to minimap pixels using the last layout.
func (m *Minimap) Point(p fixed.Vec2) (x, y int, ok bool) {
	if m.cellPx == 0 {
		return 0, 0, false
	}
	fx := int64(p.X) - int64(fixed.FromInt(m.originX))
	fy := int64(p.Y) - int64(fixed.FromInt(m.originY))
	x = m.left + int(fixed.DivFloor(fx*int64(m.cellPx), int64(fixed.One)))
	y = m.top + int(fixed.DivFloor(fy*int64(m.cellPx), int64(fixed.One)))
	ok = x >= m.left && y >= m.top && x < m.left+m.cols*m.cellPx && y < m.top+m.rows*m.cellPx
	return x, y, ok
}

// CellAt returns the grid cell under minimap pixel (px, py) of the last
// Render.
func (m *Minimap) CellAt(px, py int) (x, y int, ok bool) {
	if m.cellPx == 0 || px < m.left || py < m.top {
		return 0, 0, false
	}
	col, row := (px-m.left)/m.cellPx, (py-m.top)/m.cellPx
	if col >= m.cols || row >= m.rows {
		return 0, 0, false
	}
	return m.originX + col, m.originY + row, true
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
