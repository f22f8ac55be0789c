package lightbox

import "github.com/tanema/gween"

// Tween animates a single float64 from one value to another over a duration
// using a CubicBezier curve. Call Update(dt) each frame. A Tween can be
// stopped at any point; Value always reports the last rendered value, which
// is what lets a new drag resume from exactly where an animation left off.
//
// There is no global animation manager; owners call Update themselves.
type Tween struct {
	tween   *gween.Tween
	from    float64
	to      float64
	value   float64
	done    bool
	stopped bool
}

// NewTween creates a tween from 'from' to 'to' over duration seconds.
// A non-positive duration finishes on the first Update.
func NewTween(from, to, duration float64, curve CubicBezier) *Tween {
	return &Tween{
		tween: gween.New(float32(from), float32(to), float32(duration), curve.TweenFunc()),
		from:  from,
		to:    to,
		value: from,
	}
}

// Update advances the tween by dt seconds and returns the current value and
// whether the tween has finished. A stopped tween no longer advances.
func (t *Tween) Update(dt float64) (float64, bool) {
	if t.done || t.stopped {
		return t.value, t.done
	}
	val, finished := t.tween.Update(float32(dt))
	if finished {
		// Land exactly on the target rather than its float32 rounding.
		t.value = t.to
		t.done = true
	} else {
		t.value = float64(val)
	}
	return t.value, t.done
}

// Value returns the last computed value.
func (t *Tween) Value() float64 { return t.value }

// Target returns the value the tween is heading toward.
func (t *Tween) Target() float64 { return t.to }

// Start returns the value the tween started from.
func (t *Tween) Start() float64 { return t.from }

// Done reports whether the tween ran to completion.
func (t *Tween) Done() bool { return t.done }

// Stopped reports whether Stop was called before completion.
func (t *Tween) Stopped() bool { return t.stopped }

// Stop freezes the tween in place and returns its instantaneous value.
func (t *Tween) Stop() float64 {
	if !t.done {
		t.stopped = true
	}
	return t.value
}
