package input

// syntheticPointerEvent is one queued injected sample for the mouse pointer.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	blur    bool
}

// InjectPress queues a press at (x, y). Injected events are consumed one per
// frame by Frame or Poll.
func (t *Tracker) InjectPress(x, y float64) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a move to (x, y) with the button held. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (t *Tracker) InjectMove(x, y float64) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a release at (x, y).
func (t *Tracker) InjectRelease(x, y float64) {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press and release at the same point. Consumes two
// frames.
func (t *Tracker) InjectClick(x, y float64) {
	t.InjectPress(x, y)
	t.InjectRelease(x, y)
}

// InjectBlur queues a focus loss.
func (t *Tracker) InjectBlur() {
	t.injectQueue = append(t.injectQueue, syntheticPointerEvent{blur: true})
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced moves
// and a release at (toX, toY). The sequence consumes frames frames; the
// minimum is 2.
func (t *Tracker) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	t.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		k := float64(i) / float64(steps+1)
		t.InjectMove(fromX+(toX-fromX)*k, fromY+(toY-fromY)*k)
	}
	t.InjectRelease(toX, toY)
}

// Pending returns the number of queued injected events.
func (t *Tracker) Pending() int { return len(t.injectQueue) }

// Frame advances an attached Runner and feeds one injected event, without
// reading any device. It reports whether an event was consumed. Poll calls
// it; headless hosts and tests can call it directly.
func (t *Tracker) Frame() bool {
	if t.runner != nil {
		t.runner.step(t)
	}
	if len(t.injectQueue) == 0 {
		return false
	}
	evt := t.injectQueue[0]
	copy(t.injectQueue, t.injectQueue[1:])
	t.injectQueue = t.injectQueue[:len(t.injectQueue)-1]

	if evt.blur {
		t.Blur()
		return true
	}
	t.Feed(0, evt.x, evt.y, evt.pressed)
	return true
}
