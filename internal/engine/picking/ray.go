// Package picking maps a screen position back to the grid cell surface or
// sprite drawn there.
package picking

import (
	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/raycast"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Result identifies a picked cell surface.
type Result struct {
	X, Y    int
	Surface terrain.Surface
	Depth   fixed.Scalar
}

// Picker reuses its hit buffer across calls.
type Picker struct {
	hits []raycast.Hit
}

// Pick casts the ray for column mx and returns the surface whose span holds
// row my. Floor and ceiling spans name the cell the ray leaves; wall faces
// name the cell whose raised floor or lowered ceiling forms them. ok is false
// when the cursor is off screen, over the horizon fill, or over a surface of
// a cell outside the grid.
func (p *Picker) Pick(v raycast.View, cam *camera.Camera, g *terrain.Grid, mx, my int) (Result, bool) {
	if mx < 0 || mx >= v.Width || my < 0 || my >= v.Height {
		return Result{}, false
	}

	p.hits = raycast.March(g, cam.Pos.XY(), v.RayDir(cam, mx), p.hits)

	var (
		res   Result
		found bool
	)
	v.Decompose(cam, g, p.hits, func(s raycast.Span) bool {
		if my < s.Top || my >= s.Bottom {
			return true
		}
		if s.Horizon {
			return false
		}
		res = Result{X: s.X, Y: s.Y, Surface: s.Surface, Depth: s.Depth}
		found = true
		return false
	})

	if !found || !g.InBounds(res.X, res.Y) {
		return Result{}, false
	}
	return res, true
}

// Pick is a convenience wrapper that allocates a fresh hit buffer.
func Pick(v raycast.View, cam *camera.Camera, g *terrain.Grid, mx, my int) (Result, bool) {
	var p Picker
	return p.Pick(v, cam, g, mx, my)
}
