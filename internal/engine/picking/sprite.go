package picking

import (
	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/internal/engine/occlusion"
	"github.com/Faultbox/heightcast/internal/engine/raycast"
	"github.com/Faultbox/heightcast/internal/engine/sprite"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// Sizer reports the texel size of a texture.
type Sizer interface {
	Size(tex uint16) (w, h int)
}

// SpriteRect projects a sprite to its screen rectangle.
func SpriteRect(v raycast.View, cam *camera.Camera, s *sprite.Sprite, sizes Sizer) (raycast.Billboard, bool) {
	tw, th := sizes.Size(s.Texture)
	w, h := sprite.WorldSize(tw, th)
	return v.ProjectBillboard(cam, s.Pos, w, h)
}

// PickSprite returns the nearest sprite drawn under (mx, my). When depth is
// non-nil, sprite rectangles are clipped against the terrain recorded there
// during the last render.
func PickSprite(v raycast.View, cam *camera.Camera, reg *sprite.Registry, sizes Sizer,
	depth *occlusion.Buffer, mx, my int, editing bool) (sprite.ID, fixed.Scalar, bool) {

	best := sprite.Nil
	var bestDepth fixed.Scalar

	reg.Each(func(id sprite.ID, s *sprite.Sprite) bool {
		if !s.Visible(editing) {
			return true
		}
		r, ok := SpriteRect(v, cam, s, sizes)
		if !ok || mx < r.Left || mx >= r.Right || my < r.Top || my >= r.Bottom {
			return true
		}
		if depth != nil && !depth.Covers(mx, my, r.Depth, r.Top, r.Bottom) {
			return true
		}
		if best == sprite.Nil || r.Depth < bestDepth {
			best, bestDepth = id, r.Depth
		}
		return true
	})

	return best, bestDepth, best != sprite.Nil
}
