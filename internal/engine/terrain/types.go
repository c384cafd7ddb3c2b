// Package terrain holds the grid map: per-cell floor and ceiling heights and the
// four texture references of each cell.
package terrain

import (
	"fmt"
	"math"

	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Surface selects one of the four textured surfaces of a cell.
type Surface uint8

// Surface kinds.
const (
	SurfaceFloor       Surface = iota // Horizontal floor plane
	SurfaceCeiling                    // Horizontal ceiling plane
	SurfaceWallFloor                  // Vertical face below a raised floor
	SurfaceWallCeiling                // Vertical face above a lowered ceiling
)

// SurfaceCount is the number of surface kinds.
const SurfaceCount = 4

// String returns a human-readable surface name.
func (s Surface) String() string {
	switch s {
	case SurfaceFloor:
		return "Floor"
	case SurfaceCeiling:
		return "Ceiling"
	case SurfaceWallFloor:
		return "WallFloor"
	case SurfaceWallCeiling:
		return "WallCeiling"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// FloorSide reports whether s is drawn from the bottom of the screen upward.
func (s Surface) FloorSide() bool {
	return s == SurfaceFloor || s == SurfaceWallFloor
}

// IsWall reports whether s is a vertical face.
func (s Surface) IsWall() bool {
	return s == SurfaceWallFloor || s == SurfaceWallCeiling
}

// Sentinels returned for coordinates outside the grid.
const (
	OutsideHeight  fixed.Scalar = math.MinInt32
	OutsideTexture uint16       = math.MaxUint16
)

// NoSky is the Grid.Sky value of a map without open sky.
const NoSky uint16 = math.MaxUint16

// Cell is a single grid cell.
type Cell struct {
	FloorHeight  fixed.Scalar
	CeilHeight   fixed.Scalar
	FloorTex     uint16
	CeilTex      uint16
	WallFloorTex uint16
	WallCeilTex  uint16
}

// Height returns the height that surface s is attached to. Wall-floor faces
// share the floor height, wall-ceiling faces the ceiling height.
func (c *Cell) Height(s Surface) fixed.Scalar {
	if s.FloorSide() {
		return c.FloorHeight
	}
	return c.CeilHeight
}

// SetHeight sets the height that surface s is attached to.
func (c *Cell) SetHeight(s Surface, h fixed.Scalar) {
	if s.FloorSide() {
		c.FloorHeight = h
	} else {
		c.CeilHeight = h
	}
}

// Texture returns the texture id of surface s.
func (c *Cell) Texture(s Surface) uint16 {
	switch s {
	case SurfaceFloor:
		return c.FloorTex
	case SurfaceCeiling:
		return c.CeilTex
	case SurfaceWallFloor:
		return c.WallFloorTex
	case SurfaceWallCeiling:
		return c.WallCeilTex
	}
	return OutsideTexture
}

// SetTexture sets the texture id of surface s.
func (c *Cell) SetTexture(s Surface, tex uint16) {
	switch s {
	case SurfaceFloor:
		c.FloorTex = tex
	case SurfaceCeiling:
		c.CeilTex = tex
	case SurfaceWallFloor:
		c.WallFloorTex = tex
	case SurfaceWallCeiling:
		c.WallCeilTex = tex
	}
}

// Signature is the attribute tuple compared by TileEqual and flood fill.
type Signature struct {
	FloorTex    uint16
	CeilTex     uint16
	FloorHeight fixed.Scalar
	CeilHeight  fixed.Scalar
}

// Signature returns the comparable attributes of c.
func (c *Cell) Signature() Signature {
	return Signature{
		FloorTex:    c.FloorTex,
		CeilTex:     c.CeilTex,
		FloorHeight: c.FloorHeight,
		CeilHeight:  c.CeilHeight,
	}
}
