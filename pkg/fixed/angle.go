package fixed

import gomath "math"

// Angle is a direction in 1/1024ths of a full turn.
type Angle int32

// Angle constants.
const (
	AngleSteps Angle = 1024
	Angle45    Angle = AngleSteps / 8
	Angle90    Angle = AngleSteps / 4
	Angle180   Angle = AngleSteps / 2
	Angle270   Angle = Angle90 * 3
)

var sinTable [AngleSteps]Scalar

func init() {
	for i := range sinTable {
		rad := 2 * gomath.Pi * float64(i) / float64(AngleSteps)
		sinTable[i] = Scalar(gomath.Round(gomath.Sin(rad) * float64(One)))
	}
}

// Norm wraps a into [0, AngleSteps).
func (a Angle) Norm() Angle {
	return a & (AngleSteps - 1)
}

// Degrees returns a in degrees, for logging.
func (a Angle) Degrees() float64 {
	return float64(a.Norm()) * 360 / float64(AngleSteps)
}

// Sin returns the sine of a.
func Sin(a Angle) Scalar {
	return sinTable[a.Norm()]
}

// Cos returns the cosine of a.
func Cos(a Angle) Scalar {
	return sinTable[(a + Angle90).Norm()]
}

// Tan returns the tangent of a. The cosine is clamped away from zero, so the
// result near 90 degrees is large but finite.
func Tan(a Angle) Scalar {
	return Scalar(Clamp64(DivFloor(int64(Sin(a))<<Shift, int64(NonZero(Cos(a))))))
}
