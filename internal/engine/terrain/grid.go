package terrain

import (
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Grid is the map store. Cells are stored row-major.
type Grid struct {
	Width  uint16
	Height uint16

	// Sky is the ceiling texture id rendered as open sky. NoSky disables it.
	Sky uint16

	cells []Cell
}

// NewGrid creates a width x height grid with every cell set to fill.
func NewGrid(width, height uint16, fill Cell) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		Sky:    NoSky,
		cells:  make([]Cell, int(width)*int(height)),
	}
	for i := range g.cells {
		g.cells[i] = fill
	}
	return g
}

// FromCells wraps a row-major cell slice. It returns nil when the slice length
// does not match the dimensions.
func FromCells(width, height uint16, sky uint16, cells []Cell) *Grid {
	if len(cells) != int(width)*int(height) {
		return nil
	}
	return &Grid{Width: width, Height: height, Sky: sky, cells: cells}
}

// Cells returns the row-major cell slice. It aliases the grid.
func (g *Grid) Cells() []Cell {
	return g.cells
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < int(g.Width) && y < int(g.Height)
}

// Cell returns the cell at (x, y), or nil if out of bounds.
func (g *Grid) Cell(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[y*int(g.Width)+x]
}

// HeightAt returns the height surface s of cell (x, y) is attached to, or
// OutsideHeight when out of bounds.
func (g *Grid) HeightAt(s Surface, x, y int) fixed.Scalar {
	c := g.Cell(x, y)
	if c == nil {
		return OutsideHeight
	}
	return c.Height(s)
}

// TextureAt returns the texture of surface s of cell (x, y), or OutsideTexture
// when out of bounds.
func (g *Grid) TextureAt(s Surface, x, y int) uint16 {
	c := g.Cell(x, y)
	if c == nil {
		return OutsideTexture
	}
	return c.Texture(s)
}

// SetHeight writes a height. It returns false when (x, y) is out of bounds.
func (g *Grid) SetHeight(s Surface, x, y int, h fixed.Scalar) bool {
	c := g.Cell(x, y)
	if c == nil {
		return false
	}
	c.SetHeight(s, h)
	return true
}

// SetTexture writes a texture id. It returns false when (x, y) is out of bounds.
func (g *Grid) SetTexture(s Surface, x, y int, tex uint16) bool {
	c := g.Cell(x, y)
	if c == nil {
		return false
	}
	c.SetTexture(s, tex)
	return true
}

// TileEqual reports whether cell (x, y) is in bounds and matches all four
// attributes exactly.
func (g *Grid) TileEqual(x, y int, floorTex, ceilTex uint16, floorH, ceilH fixed.Scalar) bool {
	c := g.Cell(x, y)
	if c == nil {
		return false
	}
	return c.FloorTex == floorTex && c.CeilTex == ceilTex &&
		c.FloorHeight == floorH && c.CeilHeight == ceilH
}

// Matches is TileEqual for a captured Signature.
func (g *Grid) Matches(x, y int, sig Signature) bool {
	return g.TileEqual(x, y, sig.FloorTex, sig.CeilTex, sig.FloorHeight, sig.CeilHeight)
}

// IsSky reports whether cell (x, y) has the sky texture on its ceiling.
func (g *Grid) IsSky(x, y int) bool {
	c := g.Cell(x, y)
	return c != nil && g.Sky != NoSky && c.CeilTex == g.Sky
}

// HeightRange returns the lowest floor and the highest ceiling in the grid.
func (g *Grid) HeightRange() (min, max fixed.Scalar) {
	if len(g.cells) == 0 {
		return 0, 0
	}

	min = g.cells[0].FloorHeight
	max = g.cells[0].CeilHeight
	for i := range g.cells {
		if g.cells[i].FloorHeight < min {
			min = g.cells[i].FloorHeight
		}
		if g.cells[i].CeilHeight > max {
			max = g.cells[i].CeilHeight
		}
	}
	return min, max
}

// CountTexture returns how many cells use tex on surface s.
func (g *Grid) CountTexture(s Surface, tex uint16) int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Texture(s) == tex {
			n++
		}
	}
	return n
}
