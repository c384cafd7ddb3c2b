package raycast

import (
	"github.com/Faultbox/heightcast/internal/engine/camera"
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// ScreenPoint is a projected position. X and Y are fixed-point pixels.
type ScreenPoint struct {
	X, Y  int64
	Depth fixed.Scalar
}

// Column returns the pixel column containing the point.
func (p ScreenPoint) Column() int {
	return int(fixed.DivFloor(p.X, int64(fixed.One)))
}

// Row returns the pixel row containing the point.
func (p ScreenPoint) Row() int {
	return int(fixed.DivFloor(p.Y, int64(fixed.One)))
}

// Project maps a world position to the screen. ok is false when the point is
// behind the camera or far outside the view horizontally.
func (v View) Project(cam *camera.Camera, pos fixed.Vec3) (ScreenPoint, bool) {
	rel := pos.XY().Sub(cam.Pos.XY())
	depth := rel.Dot(cam.Forward())
	if depth <= 0 {
		return ScreenPoint{}, false
	}
	lateral := rel.Dot(cam.Right())

	x := int64(v.Width)<<fixed.Shift/2 - int64(fixed.Half) +
		fixed.DivFloor(int64(lateral)*v.focal<<fixed.Shift, int64(depth))
	if x < -int64(2*v.Width)<<fixed.Shift || x > int64(4*v.Width)<<fixed.Shift {
		return ScreenPoint{}, false
	}

	dz := int64(cam.Pos.Z) - int64(pos.Z)
	y := int64(v.Horizon(cam))<<fixed.Shift + fixed.DivFloor(dz*v.focal<<fixed.Shift, int64(depth))

	return ScreenPoint{X: x, Y: y, Depth: depth}, true
}

// Billboard is the screen rectangle of an upright sprite.
// Columns are [Left, Right) and rows [Top, Bottom).
type Billboard struct {
	Left, Right int
	Top, Bottom int
	Depth       fixed.Scalar
}

// ProjectBillboard projects a camera-facing quad of the given world size whose
// bottom centre sits at pos.
func (v View) ProjectBillboard(cam *camera.Camera, pos fixed.Vec3, width, height fixed.Scalar) (Billboard, bool) {
	p, ok := v.Project(cam, pos)
	if !ok {
		return Billboard{}, false
	}
	d := int64(p.Depth)
	halfW := fixed.DivFloor(int64(width/2)*v.focal<<fixed.Shift, d)
	h := fixed.DivFloor(int64(height)*v.focal<<fixed.Shift, d)

	b := Billboard{
		Left:   int(fixed.DivFloor(p.X-halfW, int64(fixed.One))),
		Right:  int(fixed.DivFloor(p.X+halfW, int64(fixed.One))) + 1,
		Top:    int(clamp64(fixed.DivFloor(p.Y-h, int64(fixed.One)), -rowLimit, rowLimit)),
		Bottom: int(clamp64(fixed.DivFloor(p.Y, int64(fixed.One)), -rowLimit, rowLimit)),
		Depth:  p.Depth,
	}
	if b.Bottom <= b.Top {
		b.Bottom = b.Top + 1
	}
	return b, true
}
