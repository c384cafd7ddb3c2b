package raycast

import (
	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Span is a vertical run of one surface in a screen column.
// Rows are [Top, Bottom).
type Span struct {
	Surface terrain.Surface
	X, Y    int // cell owning the surface
	Top     int
	Bottom  int
	Depth   fixed.Scalar
	Hit     int // index into the march hits
	Dir     Dir
	Horizon bool
}

// Decompose walks the hits of one column front to back and reports the
// visible spans in draw order. Floor-side spans grow the column upward from
// the bottom of the screen and ceiling-side spans grow it downward from the
// top; the walk ends when the two meet. visit returning false stops the walk
// and Decompose then returns false.
//
// Floors and ceilings belong to the cell the ray leaves. Wall faces belong to
// the cell it enters; a face into a cell outside the grid closes the column.
func (v View) Decompose(cam *camera.Camera, g *terrain.Grid, hits []Hit, visit func(Span) bool) bool {
	top, bottom := 0, v.Height
	camZ := cam.Pos.Z

	for i, h := range hits {
		if top >= bottom {
			return true
		}

		if h.Horizon {
			mid := clampInt(v.Horizon(cam), top, bottom)
			if mid < bottom {
				s := Span{Surface: terrain.SurfaceFloor, X: h.X, Y: h.Y, Top: mid, Bottom: bottom, Depth: h.Depth, Hit: i, Dir: h.Dir, Horizon: true}
				if !visit(s) {
					return false
				}
			}
			if top < mid {
				s := Span{Surface: terrain.SurfaceCeiling, X: h.X, Y: h.Y, Top: top, Bottom: mid, Depth: h.Depth, Hit: i, Dir: h.Dir, Horizon: true}
				if !visit(s) {
					return false
				}
			}
			return true
		}

		a := g.Cell(h.X, h.Y)
		if a == nil {
			continue
		}

		if camZ > a.FloorHeight {
			y := clampInt(v.RowAt(cam, a.FloorHeight, h.Depth), top, bottom)
			if y < bottom {
				if !visit(Span{Surface: terrain.SurfaceFloor, X: h.X, Y: h.Y, Top: y, Bottom: bottom, Depth: h.Depth, Hit: i, Dir: h.Dir}) {
					return false
				}
				bottom = y
			}
		}
		if camZ < a.CeilHeight {
			y := clampInt(v.RowAt(cam, a.CeilHeight, h.Depth), top, bottom)
			if y > top {
				if !visit(Span{Surface: terrain.SurfaceCeiling, X: h.X, Y: h.Y, Top: top, Bottom: y, Depth: h.Depth, Hit: i, Dir: h.Dir}) {
					return false
				}
				top = y
			}
		}

		nx, ny := h.Next()
		nextFloor, nextCeil := a.CeilHeight, a.CeilHeight
		if b := g.Cell(nx, ny); b != nil {
			nextFloor, nextCeil = b.FloorHeight, b.CeilHeight
		}

		if nextFloor > a.FloorHeight {
			y := clampInt(v.RowAt(cam, nextFloor, h.Depth), top, bottom)
			if y < bottom {
				if !visit(Span{Surface: terrain.SurfaceWallFloor, X: nx, Y: ny, Top: y, Bottom: bottom, Depth: h.Depth, Hit: i, Dir: h.Dir}) {
					return false
				}
				bottom = y
			}
		}
		if nextCeil < a.CeilHeight {
			y := clampInt(v.RowAt(cam, nextCeil, h.Depth), top, bottom)
			if y > top {
				if !visit(Span{Surface: terrain.SurfaceWallCeiling, X: nx, Y: ny, Top: top, Bottom: y, Depth: h.Depth, Hit: i, Dir: h.Dir}) {
					return false
				}
				top = y
			}
		}
	}
	return true
}
