package renderer

import (
	"image/color"

	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/picking"
	"github.com/Faultbox/heightcast/internal/engine/sprite"
	"github.com/Faultbox/heightcast/internal/engine/terrain"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Editor overlay colours.
var (
	HoverColor    = color.RGBA{R: 255, G: 230, B: 80, A: 255}
	SelectedColor = color.RGBA{R: 90, G: 255, B: 120, A: 255}
)

// HighlightCell outlines the plane of the picked surface: the floor for floor
// and floor-wall picks, the ceiling otherwise. Edges with a corner behind the
// camera are skipped.
func (r *Renderer) HighlightCell(dst Rasterizer, g *terrain.Grid, cam *camera.Camera, res picking.Result, c color.RGBA) {
	cell := g.Cell(res.X, res.Y)
	if cell == nil {
		return
	}
	h := cell.Height(res.Surface)

	x0, y0 := fixed.FromInt(res.X), fixed.FromInt(res.Y)
	corners := [4]fixed.Vec3{
		{X: x0, Y: y0, Z: h},
		{X: x0 + fixed.One, Y: y0, Z: h},
		{X: x0 + fixed.One, Y: y0 + fixed.One, Z: h},
		{X: x0, Y: y0 + fixed.One, Z: h},
	}
	for i := range corners {
		r.line3(dst, cam, corners[i], corners[(i+1)%4], c)
	}
}

// HighlightSprite draws the screen rectangle of a sprite.
func (r *Renderer) HighlightSprite(dst Rasterizer, cam *camera.Camera, reg *sprite.Registry, id sprite.ID, c color.RGBA) {
	s := reg.Get(id)
	if s == nil || !s.Active() {
		return
	}
	rect, ok := picking.SpriteRect(r.view, cam, s, r.textures)
	if !ok {
		return
	}
	left, right := rect.Left, rect.Right-1
	top, bottom := rect.Top, rect.Bottom-1
	dst.DrawLine(left, top, right, top, c)
	dst.DrawLine(right, top, right, bottom, c)
	dst.DrawLine(right, bottom, left, bottom, c)
	dst.DrawLine(left, bottom, left, top, c)
}

// Crosshair marks the screen centre.
func (r *Renderer) Crosshair(dst Rasterizer, c color.RGBA) {
	cx, cy := r.view.Width/2, r.view.Height/2
	dst.DrawLine(cx-3, cy, cx+3, cy, c)
	dst.DrawLine(cx, cy-3, cx, cy+3, c)
}

func (r *Renderer) line3(dst Rasterizer, cam *camera.Camera, a, b fixed.Vec3, c color.RGBA) {
	pa, ok := r.view.Project(cam, a)
	if !ok {
		return
	}
	pb, ok := r.view.Project(cam, b)
	if !ok {
		return
	}
	dst.DrawLine(pa.Column(), pa.Row(), pb.Column(), pb.Row(), c)
}
