package lightbox

import (
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// fakeClock is a manually advanced clock for components that sample time.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRangeClamp(t *testing.T) {
	r := Range{Min: -1, Max: 3}
	tests := []struct {
		in, want float64
	}{
		{-5, -1},
		{0, 0},
		{3, 3},
		{10, 3},
	}
	for _, tt := range tests {
		if got := r.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if r.Mid() != 1 {
		t.Errorf("Mid = %v, want 1", r.Mid())
	}
	if r.Span() != 4 {
		t.Errorf("Span = %v, want 4", r.Span())
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	if !r.Contains(10, 20) {
		t.Error("top-left corner should be inside")
	}
	if !r.Contains(110, 70) {
		t.Error("bottom-right corner should be inside")
	}
	if r.Contains(9, 30) {
		t.Error("point left of the rect should be outside")
	}
	c := r.Center()
	if c.X != 60 || c.Y != 45 {
		t.Errorf("Center = %v, want (60, 45)", c)
	}
}

func TestSizeAspect(t *testing.T) {
	if got := (Size{1920, 1080}).Aspect(); !approxEqual(got, 16.0/9, epsilon) {
		t.Errorf("Aspect = %v, want 16/9", got)
	}
	if got := (Size{0, 100}).Aspect(); got != 0 {
		t.Errorf("empty Aspect = %v, want 0", got)
	}
}

func TestVec2(t *testing.T) {
	v := Vec2{3, 4}
	if v.Len() != 5 {
		t.Errorf("Len = %v, want 5", v.Len())
	}
	if got := v.Add(Vec2{1, 1}).Sub(Vec2{2, 2}).Mul(2); got != (Vec2{4, 6}) {
		t.Errorf("got %v, want (4, 6)", got)
	}
}
