// Package camera provides the fixed-point first-person camera shared by the
// projection engine, the renderer and the editor.
package camera

import (
	"github.com/Faultbox/heightcast/pkg/fixed"
)

// MaxShear bounds the vertical screen shear, in pixels.
const MaxShear = 400

// Camera is a position, a facing angle and a vertical screen shear that
// emulates pitch without rotating the view.
type Camera struct {
	Pos   fixed.Vec3
	Angle fixed.Angle
	Shear int
}

// New creates a camera at pos facing angle.
func New(pos fixed.Vec3, angle fixed.Angle) *Camera {
	return &Camera{Pos: pos, Angle: angle.Norm()}
}

// Forward returns the unit view direction on the map plane.
func (c *Camera) Forward() fixed.Vec2 {
	return fixed.FromAngle(c.Angle)
}

// Right returns the unit direction towards the right edge of the screen.
func (c *Camera) Right() fixed.Vec2 {
	return fixed.FromAngle(c.Angle + fixed.Angle90)
}

// Cell returns the grid cell under the camera.
func (c *Camera) Cell() (x, y int) {
	return c.Pos.Cell()
}

// Move translates the camera along its forward and right directions and
// vertically by rise.
func (c *Camera) Move(forward, strafe, rise fixed.Scalar) {
	f := c.Forward().Scale(forward)
	r := c.Right().Scale(strafe)
	c.Pos.X += f.X + r.X
	c.Pos.Y += f.Y + r.Y
	c.Pos.Z += rise
}

// Turn rotates the camera by delta.
func (c *Camera) Turn(delta fixed.Angle) {
	c.Angle = (c.Angle + delta).Norm()
}

// AddShear tilts the view up (negative) or down (positive), clamped to MaxShear.
func (c *Camera) AddShear(delta int) {
	c.Shear += delta
	if c.Shear > MaxShear {
		c.Shear = MaxShear
	}
	if c.Shear < -MaxShear {
		c.Shear = -MaxShear
	}
}

// Clamp keeps the camera inside a width x height grid, margin units from the
// edges.
func (c *Camera) Clamp(width, height int, margin fixed.Scalar) {
	maxX := fixed.FromInt(width) - margin
	maxY := fixed.FromInt(height) - margin
	c.Pos.X = clamp(c.Pos.X, margin, maxX)
	c.Pos.Y = clamp(c.Pos.Y, margin, maxY)
}

// FitToGrid places the camera at the centre of a width x height grid at height
// z, facing east with no shear.
func (c *Camera) FitToGrid(width, height int, z fixed.Scalar) {
	c.Pos = fixed.Vec3{
		X: fixed.FromInt(width) / 2,
		Y: fixed.FromInt(height) / 2,
		Z: z,
	}
	c.Angle = 0
	c.Shear = 0
}

func clamp(v, lo, hi fixed.Scalar) fixed.Scalar {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
