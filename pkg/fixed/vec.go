package fixed

// Vec2 is a 2D fixed-point vector on the map plane.
type Vec2 struct {
	X, Y Scalar
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s Scalar) Vec2 {
	return Vec2{Mul(v.X, s), Mul(v.Y, s)}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) Scalar {
	return Scalar(Clamp64((int64(v.X)*int64(other.X) + int64(v.Y)*int64(other.Y)) >> Shift))
}

// Cell returns the grid cell containing v.
func (v Vec2) Cell() (x, y int) {
	return v.X.Int(), v.Y.Int()
}

// FromAngle returns the unit direction of a.
func FromAngle(a Angle) Vec2 {
	return Vec2{Cos(a), Sin(a)}
}

// Vec3 is a 3D fixed-point position. Z is up.
type Vec3 struct {
	X, Y, Z Scalar
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// XY returns the map-plane components as Vec2.
func (v Vec3) XY() Vec2 {
	return Vec2{v.X, v.Y}
}

// Cell returns the grid cell below v.
func (v Vec3) Cell() (x, y int) {
	return v.X.Int(), v.Y.Int()
}

// CellCenter returns the centre of cell (x, y) at height z.
func CellCenter(x, y int, z Scalar) Vec3 {
	return Vec3{FromInt(x) + Half, FromInt(y) + Half, z}
}
