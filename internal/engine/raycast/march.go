package raycast

import (
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// MaxSteps is the most real cell-boundary hits a single march records.
const MaxSteps = 64

// HorizonDepth is the depth of the pseudo-hit appended after the last real
// hit. Planes projected there land on the horizon row.
const HorizonDepth fixed.Scalar = 1 << 24

// Dir is the side of a cell a ray leaves through.
type Dir uint8

// Exit directions, indexing Offsets.
const (
	DirSouth Dir = iota // +y
	DirEast             // +x
	DirNorth            // -y
	DirWest             // -x
)

// Offsets maps an exit direction to the neighbouring cell.
var Offsets = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Offset returns the cell delta for d.
func (d Dir) Offset() (dx, dy int) {
	o := Offsets[d&3]
	return o[0], o[1]
}

// Hit is one cell-boundary crossing of a ray.
type Hit struct {
	X, Y    int          // cell the ray leaves
	Dir     Dir          // side it leaves through
	Depth   fixed.Scalar // distance along the view direction
	Horizon bool         // synthetic hit past the last real one
}

// Next returns the cell the ray enters.
func (h Hit) Next() (x, y int) {
	dx, dy := h.Dir.Offset()
	return h.X + dx, h.Y + dy
}

// March steps a ray from origin along dir through cell boundaries. It appends
// up to MaxSteps hits to hits[:0], stopping early when the ray leaves the
// grid, then appends the horizon pseudo-hit.
func March(g *terrain.Grid, origin, dir fixed.Vec2, hits []Hit) []Hit {
	hits = hits[:0]

	px, py := int64(origin.X), int64(origin.Y)
	cx, cy := origin.Cell()
	dx := int64(fixed.NonZero(dir.X))
	dy := int64(fixed.NonZero(dir.Y))

	stepX, exitX := 1, DirEast
	bx := int64(cx+1) << fixed.Shift
	if dx < 0 {
		stepX, exitX = -1, DirWest
		bx = int64(cx) << fixed.Shift
	}
	stepY, exitY := 1, DirSouth
	by := int64(cy+1) << fixed.Shift
	if dy < 0 {
		stepY, exitY = -1, DirNorth
		by = int64(cy) << fixed.Shift
	}

	last := exitX
	for len(hits) < MaxSteps {
		tx := fixed.DivFloor((bx-px)<<fixed.Shift, dx)
		ty := fixed.DivFloor((by-py)<<fixed.Shift, dy)

		h := Hit{X: cx, Y: cy}
		if tx <= ty {
			h.Dir = exitX
			h.Depth = fixed.Scalar(fixed.Clamp64(tx))
			cx += stepX
			bx += int64(stepX) << fixed.Shift
		} else {
			h.Dir = exitY
			h.Depth = fixed.Scalar(fixed.Clamp64(ty))
			cy += stepY
			by += int64(stepY) << fixed.Shift
		}
		last = h.Dir
		hits = append(hits, h)

		if g.InBounds(h.X, h.Y) && !g.InBounds(cx, cy) {
			break
		}
	}

	return append(hits, Hit{X: cx, Y: cy, Dir: last, Depth: HorizonDepth, Horizon: true})
}
