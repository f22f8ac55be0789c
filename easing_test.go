package lightbox

import (
	"math"
	"testing"
)

func TestCubicBezierEndpoints(t *testing.T) {
	curves := map[string]CubicBezier{
		"linear":         Linear,
		"ease-out":       EaseOut,
		"ease-in-out":    EaseInOut,
		"ease-out-cubic": EaseOutCubic,
	}
	for name, c := range curves {
		t.Run(name, func(t *testing.T) {
			if got := c.At(0); got != 0 {
				t.Errorf("At(0) = %v, want 0", got)
			}
			if got := c.At(1); got != 1 {
				t.Errorf("At(1) = %v, want 1", got)
			}
		})
	}
}

func TestCubicBezierMonotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseInOut.At(float64(i) / 100)
		if v < prev-1e-9 {
			t.Fatalf("At(%v) = %v decreased from %v", float64(i)/100, v, prev)
		}
		prev = v
	}
}

func TestCubicBezierSymmetric(t *testing.T) {
	// ease-in-out is symmetric about (0.5, 0.5).
	for _, x := range []float64{0.1, 0.25, 0.4} {
		a := EaseInOut.At(x)
		b := EaseInOut.At(1 - x)
		if !approxEqual(a+b, 1, 1e-5) {
			t.Errorf("At(%v)+At(%v) = %v, want 1", x, 1-x, a+b)
		}
	}
	if got := EaseInOut.At(0.5); !approxEqual(got, 0.5, 1e-5) {
		t.Errorf("At(0.5) = %v, want 0.5", got)
	}
}

func TestCubicBezierString(t *testing.T) {
	if Linear.String() != "linear" {
		t.Errorf("Linear.String() = %q", Linear.String())
	}
	if got := EaseOut.String(); got != "cubic-bezier(0, 0, 0.58, 1)" {
		t.Errorf("EaseOut.String() = %q", got)
	}
}

func TestCubicBezierLerp(t *testing.T) {
	if got := Linear.Lerp(EaseOutCubic, 0); got != Linear {
		t.Errorf("Lerp(0) = %v, want Linear", got)
	}
	if got := Linear.Lerp(EaseOutCubic, 1); got != EaseOutCubic {
		t.Errorf("Lerp(1) = %v, want EaseOutCubic", got)
	}
}

func TestCurveForVelocity(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		duration  float64
		velocity  float64
		wantSlope float64
	}{
		{"matches linear", 100, 1, 100, 1},
		{"faster than linear", 100, 1, 150, 1.5},
		{"handle shortened", 100, 1, 1000, 10},
		{"negative distance", -100, 1, 200, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CurveForVelocity(tt.distance, tt.duration, tt.velocity)
			if got := c.InitialSlope(); !approxEqual(got, tt.wantSlope, 1e-9) {
				t.Errorf("InitialSlope = %v, want %v", got, tt.wantSlope)
			}
			if c.X1 < 0 || c.X1 > 1 || c.Y1 < 0 || c.Y1 > 1 {
				t.Errorf("first handle %v,%v outside the unit square", c.X1, c.Y1)
			}
			if c.X2 != EaseOut.X2 || c.Y2 != 1 {
				t.Errorf("second handle = %v,%v, want ease-out's", c.X2, c.Y2)
			}
		})
	}
}

func TestCurveForVelocityAtRest(t *testing.T) {
	if got := CurveForVelocity(0, 1, 100); got != EaseOut {
		t.Errorf("zero distance = %v, want EaseOut", got)
	}
	if got := CurveForVelocity(100, 0, 100); got != EaseOut {
		t.Errorf("zero duration = %v, want EaseOut", got)
	}
	c := CurveForVelocity(100, 1, -50)
	if c.Y1 != 0 {
		t.Errorf("opposing velocity Y1 = %v, want 0", c.Y1)
	}
}

func TestTweenFuncScales(t *testing.T) {
	fn := EaseOut.TweenFunc()
	got := fn(0.5, 10, 20, 1)
	want := 10 + 20*EaseOut.At(0.5)
	if math.Abs(float64(got)-want) > 1e-4 {
		t.Errorf("TweenFunc(0.5) = %v, want %v", got, want)
	}
}
