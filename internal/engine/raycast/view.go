// Package raycast implements the projection engine: frustum ray directions,
// multi-hit grid marching, world-to-screen projection and the per-column
// decomposition of a march into floor, ceiling and wall-face spans.
package raycast

import (
	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// DefaultHalfFOV is half of the default 90 degree field of view.
const DefaultHalfFOV = fixed.Angle45

// rowLimit bounds projected rows so that far-off values stay in int range.
const rowLimit = 1 << 20

// View describes the screen the camera projects onto.
type View struct {
	Width   int
	Height  int
	HalfFOV fixed.Angle

	focal int64 // pixels from the eye to the projection plane
}

// NewView creates a view. Out-of-range field-of-view angles fall back to
// DefaultHalfFOV.
func NewView(width, height int, halfFOV fixed.Angle) View {
	if halfFOV <= 0 || halfFOV >= fixed.Angle90 {
		halfFOV = DefaultHalfFOV
	}
	tanHalf := fixed.NonZero(fixed.Tan(halfFOV))
	focal := fixed.DivFloor(int64(width/2)<<fixed.Shift, int64(tanHalf))
	return View{
		Width:   width,
		Height:  height,
		HalfFOV: halfFOV,
		focal:   fixed.NonZero64(focal),
	}
}

// Focal returns the projection-plane distance in pixels.
func (v View) Focal() int64 {
	return v.focal
}

// Horizon returns the screen row of the horizon for cam.
func (v View) Horizon(cam *camera.Camera) int {
	return v.Height/2 + cam.Shear
}

// RowAt returns the screen row where a plane at height h appears at the
// given depth.
func (v View) RowAt(cam *camera.Camera, h fixed.Scalar, depth fixed.Scalar) int {
	dz := int64(cam.Pos.Z) - int64(h)
	off := fixed.DivFloor(dz*v.focal, fixed.NonZero64(int64(depth)))
	return v.Horizon(cam) + int(clamp64(off, -rowLimit, rowLimit))
}

// RayDir returns the march direction for a screen column. It interpolates
// between the two frustum edge directions and divides by cos(HalfFOV), so
// the forward component is one unit and the ray parameter equals depth.
func (v View) RayDir(cam *camera.Camera, column int) fixed.Vec2 {
	left := fixed.FromAngle(cam.Angle - v.HalfFOV)
	right := fixed.FromAngle(cam.Angle + v.HalfFOV)

	num := int64(2*column + 1)
	den := fixed.NonZero64(int64(2 * v.Width))
	dx := int64(left.X) + fixed.DivFloor(int64(right.X-left.X)*num, den)
	dy := int64(left.Y) + fixed.DivFloor(int64(right.Y-left.Y)*num, den)

	inv := int64(fixed.NonZero(fixed.Cos(v.HalfFOV)))
	return fixed.Vec2{
		X: fixed.Scalar(fixed.DivFloor(dx<<fixed.Shift, inv)),
		Y: fixed.Scalar(fixed.DivFloor(dy<<fixed.Shift, inv)),
	}
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
