package lightbox

import "time"

// DefaultVelocityWindow is how far back FlingVelocity looks when estimating
// velocity.
const DefaultVelocityWindow = 150 * time.Millisecond

type velocitySample struct {
	delta Vec2
	at    time.Time
}

// FlingVelocity estimates the instantaneous velocity of a pointer (or any
// other moving value) from the movement samples received over a short
// trailing window. Samples older than the window are dropped as new samples
// arrive and whenever the velocity is read.
type FlingVelocity struct {
	window  time.Duration
	samples []velocitySample
}

// NewFlingVelocity returns an estimator with the given window. A zero or
// negative window uses DefaultVelocityWindow.
func NewFlingVelocity(window time.Duration) *FlingVelocity {
	if window <= 0 {
		window = DefaultVelocityWindow
	}
	return &FlingVelocity{window: window}
}

// AddSample records a movement of delta observed at the given time.
func (f *FlingVelocity) AddSample(delta Vec2, at time.Time) {
	f.samples = append(f.samples, velocitySample{delta: delta, at: at})
	f.purge(at)
}

// Reset discards all samples.
func (f *FlingVelocity) Reset() {
	f.samples = f.samples[:0]
}

// Len returns the number of retained samples.
func (f *FlingVelocity) Len() int { return len(f.samples) }

// Distance returns the total movement recorded within the window ending at
// now.
func (f *FlingVelocity) Distance(now time.Time) Vec2 {
	f.purge(now)
	var total Vec2
	for _, s := range f.samples {
		total = total.Add(s.delta)
	}
	return total
}

// Velocity returns the average velocity over the window ending at now, in
// units per second. The distance is divided by the full window rather than
// the span of the samples, so a single late sample doesn't read as a huge
// velocity.
func (f *FlingVelocity) Velocity(now time.Time) Vec2 {
	d := f.Distance(now)
	if len(f.samples) == 0 {
		return Vec2{}
	}
	secs := f.window.Seconds()
	return Vec2{d.X / secs, d.Y / secs}
}

// purge drops samples older than the window relative to now.
func (f *FlingVelocity) purge(now time.Time) {
	cutoff := now.Add(-f.window)
	i := 0
	for i < len(f.samples) && f.samples[i].at.Before(cutoff) {
		i++
	}
	if i == 0 {
		return
	}
	n := copy(f.samples, f.samples[i:])
	f.samples = f.samples[:n]
}
