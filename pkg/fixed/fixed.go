// Package fixed provides the fixed-point scalar, angle and trig primitives used by
// the grid, the projection engine and the sprite registry.
//
// One world tile and the real number 1.0 are both 1024 units. Angles run from 0 to
// 1023 for a full turn.
package fixed

import gomath "math"

// Shift is the number of fractional bits in a Scalar.
const Shift = 10

// Scalar is a signed fixed-point number with Shift fractional bits.
type Scalar int32

// Common scalar values.
const (
	One  Scalar = 1 << Shift
	Half Scalar = One / 2
)

// FromInt converts a whole number to a Scalar.
func FromInt(i int) Scalar {
	return Scalar(i << Shift)
}

// Int returns the whole part of s, rounding toward negative infinity.
func (s Scalar) Int() int {
	return int(s >> Shift)
}

// Frac returns the fractional part of s in [0, One).
func (s Scalar) Frac() Scalar {
	return s & (One - 1)
}

// Float returns s as a float64, for logging and tools.
func (s Scalar) Float() float64 {
	return float64(s) / float64(One)
}

// Mul multiplies two scalars.
func Mul(a, b Scalar) Scalar {
	return Scalar((int64(a) * int64(b)) >> Shift)
}

// Div divides a by b, rounding toward negative infinity. A zero b is replaced
// by the smallest non-zero magnitude.
func Div(a, b Scalar) Scalar {
	return Scalar(Clamp64(DivFloor(int64(a)<<Shift, int64(NonZero(b)))))
}

// NonZero returns v, or the smallest representable non-zero magnitude with the
// sign of v when v is zero. Zero is treated as positive.
func NonZero(v Scalar) Scalar {
	if v == 0 {
		return 1
	}
	return v
}

// NonZero64 is NonZero for intermediate 64-bit products.
func NonZero64(v int64) int64 {
	if v == 0 {
		return 1
	}
	return v
}

// DivFloor divides a by b rounding toward negative infinity.
// b must be non-zero; pass it through NonZero64 when it may not be.
func DivFloor(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Clamp64 narrows v into the Scalar range.
func Clamp64(v int64) int64 {
	if v > gomath.MaxInt32 {
		return gomath.MaxInt32
	}
	if v < gomath.MinInt32 {
		return gomath.MinInt32
	}
	return v
}

// Abs returns the absolute value of s.
func Abs(s Scalar) Scalar {
	if s < 0 {
		return -s
	}
	return s
}
