package lightbox

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// CubicBezier is an easing curve from (0,0) to (1,1) with two control points,
// matching CSS cubic-bezier(). X values should stay within [0, 1]; Y values
// may leave it for overshoot.
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// Standard curves.
var (
	Linear       = CubicBezier{0, 0, 1, 1}
	EaseOut      = CubicBezier{0, 0, 0.58, 1}
	EaseInOut    = CubicBezier{0.42, 0, 0.58, 1}
	EaseOutCubic = CubicBezier{0.33, 1, 0.68, 1}
	// EaseInOutCubic approximates the piecewise cubic used by keyframe
	// interpolators.
	EaseInOutCubic = CubicBezier{0.65, 0, 0.35, 1}
)

// IsLinear reports whether the curve maps t to itself.
func (c CubicBezier) IsLinear() bool {
	return c.X1 == c.Y1 && c.X2 == c.Y2
}

// String formats the curve the way a CSS renderer expects it.
func (c CubicBezier) String() string {
	if c.IsLinear() {
		return "linear"
	}
	return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", c.X1, c.Y1, c.X2, c.Y2)
}

// Lerp blends the control points of c toward o. k=0 returns c, k=1 returns o.
func (c CubicBezier) Lerp(o CubicBezier, k float64) CubicBezier {
	return CubicBezier{
		X1: lerp(c.X1, o.X1, k),
		Y1: lerp(c.Y1, o.Y1, k),
		X2: lerp(c.X2, o.X2, k),
		Y2: lerp(c.Y2, o.Y2, k),
	}
}

// At returns the eased progress for linear progress t in [0, 1].
func (c CubicBezier) At(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if c.IsLinear() {
		return t
	}

	u := t
	// Newton-Raphson converges quickly for most values.
	for range 8 {
		x := bezierSample(c.X1, c.X2, u) - t
		if math.Abs(x) < 1e-7 {
			return bezierSample(c.Y1, c.Y2, clamp(u, 0, 1))
		}
		dx := bezierDerivative(c.X1, c.X2, u)
		if math.Abs(dx) < 1e-7 {
			break
		}
		u -= x / dx
	}

	// Fall back to bisection for a stable solution in [0,1].
	lo, hi := 0.0, 1.0
	u = clamp(u, 0, 1)
	for range 20 {
		x := bezierSample(c.X1, c.X2, u) - t
		if math.Abs(x) < 1e-7 {
			break
		}
		if x > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) * 0.5
	}
	return bezierSample(c.Y1, c.Y2, u)
}

// InitialSlope returns dy/dx at t=0.
func (c CubicBezier) InitialSlope() float64 {
	if c.X1 == 0 {
		if c.Y1 == 0 {
			// Degenerate first handle; the second handle sets the slope.
			if c.X2 == 0 {
				return math.Inf(1)
			}
			return c.Y2 / c.X2
		}
		return math.Inf(1)
	}
	return c.Y1 / c.X1
}

// TweenFunc adapts the curve to gween's easing signature.
func (c CubicBezier) TweenFunc() ease.TweenFunc {
	return func(t, b, ch, d float32) float32 {
		if d <= 0 {
			return b + ch
		}
		return b + ch*float32(c.At(float64(t/d)))
	}
}

// CurveForVelocity returns a curve for animating a value over distance units
// in duration seconds such that it starts moving at velocity units/s, then
// eases out into the target. A velocity of zero or against the direction of
// travel starts from rest.
func CurveForVelocity(distance, duration, velocity float64) CubicBezier {
	distance = math.Abs(distance)
	if distance < 1e-9 || duration <= 0 {
		return EaseOut
	}

	// Normalized slope: how much faster than a linear animation the value
	// needs to leave its start point.
	slope := velocity * duration / distance
	if slope <= 0 {
		return CubicBezier{1.0 / 3, 0, EaseOut.X2, 1}
	}

	x1 := 1.0 / 3
	y1 := x1 * slope
	if y1 > 1 {
		// Keep the handle inside the unit square so the curve never
		// overshoots the target. A shorter handle keeps the same slope.
		x1 = 1 / slope
		y1 = 1
	}
	return CubicBezier{x1, y1, EaseOut.X2, 1}
}

func bezierSample(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func bezierDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}
