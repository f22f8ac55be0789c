package input

import (
	"math"
	"time"

	"github.com/phanxgames/lightbox"
)

const (
	// MaxPointers is the number of tracked pointers: 0 is the mouse, 1-9
	// are touches.
	MaxPointers = 10
	// DefaultDragDeadZone is how far, in pixels, a pointer must move from
	// its press position before a drag starts.
	DefaultDragDeadZone = 4.0
)

// PinchEvent describes a two-finger gesture relative to its start.
type PinchEvent struct {
	CenterX, CenterY float64
	// Scale is the finger distance relative to the start of the pinch;
	// ScaleDelta is the change since the previous event.
	Scale, ScaleDelta float64
	// Rotation and RotDelta are in radians.
	Rotation, RotDelta float64
}

// Handler receives gestures recognised by a Tracker.
type Handler interface {
	Press(ev lightbox.PointerEvent)
	// Move is delivered for every position change, pressed or not.
	Move(ev lightbox.PointerEvent)
	Release(ev lightbox.PointerEvent)
	// Click follows a press and release that never left the dead zone.
	Click(ev lightbox.PointerEvent)
	// DragStart returns false to refuse the drag; the pointer then gets no
	// Drag or DragEnd until it is pressed again.
	DragStart(ev lightbox.DragEvent) bool
	Drag(ev lightbox.DragEvent)
	DragEnd(ev lightbox.DragEvent)
	Pinch(ev PinchEvent)
	// Blur is delivered when the window loses focus, after any drags were
	// ended as cancelled.
	Blur()
}

// NopHandler implements Handler with no-ops. Embed it to implement only
// some methods.
type NopHandler struct{}

func (NopHandler) Press(lightbox.PointerEvent)       {}
func (NopHandler) Move(lightbox.PointerEvent)        {}
func (NopHandler) Release(lightbox.PointerEvent)     {}
func (NopHandler) Click(lightbox.PointerEvent)       {}
func (NopHandler) DragStart(lightbox.DragEvent) bool { return true }
func (NopHandler) Drag(lightbox.DragEvent)           {}
func (NopHandler) DragEnd(lightbox.DragEvent)        {}
func (NopHandler) Pinch(PinchEvent)                  {}
func (NopHandler) Blur()                             {}

// Options configures a Tracker.
type Options struct {
	// DragDeadZone in pixels; zero uses DefaultDragDeadZone.
	DragDeadZone float64
	// Classify reports what a point lands on. Nil treats everything as the
	// image.
	Classify func(x, y float64) lightbox.HitTarget
	// Now is the clock used to stamp drag events.
	Now func() time.Time
}

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	target   lightbox.HitTarget
	dragging bool
	// refused is set once a handler turned down the drag.
	refused bool
}

type pinchState struct {
	active       bool
	pointer0     int
	pointer1     int
	initialDist  float64
	initialAngle float64
	prevDist     float64
	prevAngle    float64
}

// Tracker turns raw pointer samples into presses, clicks, drags and pinches.
// Samples come from Poll (Ebitengine devices), from Feed, or from the inject
// queue. All methods must be called from the game loop goroutine.
type Tracker struct {
	handler Handler
	opts    Options

	pointers [MaxPointers]pointerState
	captured [MaxPointers]bool
	pinch    pinchState

	touch   touchSlots
	focused bool

	injectQueue []syntheticPointerEvent
	runner      *Runner
}

// NewTracker returns a tracker delivering to h.
func NewTracker(h Handler, opts Options) *Tracker {
	if opts.DragDeadZone <= 0 {
		opts.DragDeadZone = DefaultDragDeadZone
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{handler: h, opts: opts, focused: true}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (t *Tracker) SetDragDeadZone(pixels float64) {
	t.opts.DragDeadZone = pixels
}

// Capture keeps the press-time hit target for pointerID until release,
// wherever the pointer moves. It reports whether the pointer is tracked.
func (t *Tracker) Capture(pointerID int) bool {
	if pointerID < 0 || pointerID >= MaxPointers {
		return false
	}
	t.captured[pointerID] = true
	return true
}

// Release undoes Capture.
func (t *Tracker) Release(pointerID int) {
	if pointerID >= 0 && pointerID < MaxPointers {
		t.captured[pointerID] = false
	}
}

// Captured reports whether pointerID is captured.
func (t *Tracker) Captured(pointerID int) bool {
	return pointerID >= 0 && pointerID < MaxPointers && t.captured[pointerID]
}

// Down reports whether pointerID is pressed.
func (t *Tracker) Down(pointerID int) bool {
	return pointerID >= 0 && pointerID < MaxPointers && t.pointers[pointerID].down
}

// Dragging reports whether pointerID is dragging.
func (t *Tracker) Dragging(pointerID int) bool {
	return pointerID >= 0 && pointerID < MaxPointers && t.pointers[pointerID].dragging
}

// Feed runs the pointer state machine for one sample.
func (t *Tracker) Feed(pointerID int, x, y float64, pressed bool) {
	if pointerID < 0 || pointerID >= MaxPointers {
		return
	}
	ps := &t.pointers[pointerID]

	target := t.classify(x, y)
	if t.captured[pointerID] && ps.down {
		target = ps.target
	}

	switch {
	case pressed && !ps.down:
		*ps = pointerState{down: true, startX: x, startY: y, lastX: x, lastY: y, target: target}
		t.handler.Press(lightbox.PointerEvent{PointerID: pointerID, X: x, Y: y, Target: target})

	case !pressed && ps.down:
		ev := lightbox.PointerEvent{PointerID: pointerID, X: x, Y: y, Movement: lightbox.Vec2{X: x - ps.lastX, Y: y - ps.lastY}, Target: target}
		if ev.Movement != (lightbox.Vec2{}) {
			t.handler.Move(ev)
		}
		switch {
		case ps.dragging:
			if ev.Movement != (lightbox.Vec2{}) {
				t.handler.Drag(t.dragEvent(pointerID, x, y, ev.Movement, false))
			}
			t.handler.DragEnd(t.dragEvent(pointerID, x, y, lightbox.Vec2{}, false))
		case !ps.refused && ps.target == target && !t.beyondDeadZone(ps, x, y):
			t.handler.Click(ev)
		}
		t.handler.Release(ev)

		t.captured[pointerID] = false
		*ps = pointerState{lastX: x, lastY: y}

	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			return
		}
		move := lightbox.Vec2{X: x - ps.lastX, Y: y - ps.lastY}
		t.handler.Move(lightbox.PointerEvent{PointerID: pointerID, X: x, Y: y, Movement: move, Target: target})

		if !ps.dragging && !ps.refused && !t.pinching(pointerID) && t.beyondDeadZone(ps, x, y) {
			start := t.dragEvent(pointerID, ps.startX, ps.startY, lightbox.Vec2{}, false)
			if t.handler.DragStart(start) {
				ps.dragging = true
			} else {
				ps.refused = true
			}
		}
		if ps.dragging {
			t.handler.Drag(t.dragEvent(pointerID, x, y, move, false))
		}
		ps.lastX, ps.lastY = x, y

	default:
		// Hover.
		if x == ps.lastX && y == ps.lastY {
			return
		}
		move := lightbox.Vec2{X: x - ps.lastX, Y: y - ps.lastY}
		ps.lastX, ps.lastY = x, y
		t.handler.Move(lightbox.PointerEvent{PointerID: pointerID, X: x, Y: y, Movement: move, Target: target})
	}
}

// Cancel ends a pointer's interaction without a click. A drag in progress
// ends with Cancelled set.
func (t *Tracker) Cancel(pointerID int) {
	if pointerID < 0 || pointerID >= MaxPointers {
		return
	}
	ps := &t.pointers[pointerID]
	if !ps.down {
		return
	}
	if ps.dragging {
		t.handler.DragEnd(t.dragEvent(pointerID, ps.lastX, ps.lastY, lightbox.Vec2{}, true))
	}
	t.handler.Release(lightbox.PointerEvent{PointerID: pointerID, X: ps.lastX, Y: ps.lastY, Target: ps.target})
	t.captured[pointerID] = false
	*ps = pointerState{lastX: ps.lastX, lastY: ps.lastY}
}

// Blur cancels every pressed pointer and notifies the handler.
func (t *Tracker) Blur() {
	for i := range t.pointers {
		t.Cancel(i)
	}
	t.pinch.active = false
	t.handler.Blur()
}

func (t *Tracker) classify(x, y float64) lightbox.HitTarget {
	if t.opts.Classify == nil {
		return lightbox.TargetImage
	}
	return t.opts.Classify(x, y)
}

func (t *Tracker) beyondDeadZone(ps *pointerState, x, y float64) bool {
	return math.Hypot(x-ps.startX, y-ps.startY) > t.opts.DragDeadZone
}

func (t *Tracker) dragEvent(pointerID int, x, y float64, move lightbox.Vec2, cancelled bool) lightbox.DragEvent {
	return lightbox.DragEvent{
		PointerID: pointerID,
		X:         x,
		Y:         y,
		Movement:  move,
		Cancelled: cancelled,
		Time:      t.opts.Now(),
	}
}

func (t *Tracker) pinching(pointerID int) bool {
	return t.pinch.active && (pointerID == t.pinch.pointer0 || pointerID == t.pinch.pointer1)
}

// detectPinch starts, continues or ends a pinch from the pressed touch
// pointers. Drags on the two pinch pointers are ended as cancelled.
func (t *Tracker) detectPinch() {
	var active [2]int
	count := 0
	for i := 1; i < MaxPointers; i++ {
		if t.pointers[i].down {
			if count < 2 {
				active[count] = i
			}
			count++
		}
	}

	if count != 2 {
		t.pinch.active = false
		return
	}

	p0, p1 := active[0], active[1]
	ps0, ps1 := &t.pointers[p0], &t.pointers[p1]
	cx := (ps0.lastX + ps1.lastX) / 2
	cy := (ps0.lastY + ps1.lastY) / 2
	dx := ps1.lastX - ps0.lastX
	dy := ps1.lastY - ps0.lastY
	dist := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	if !t.pinch.active || t.pinch.pointer0 != p0 || t.pinch.pointer1 != p1 {
		t.pinch = pinchState{
			active:       true,
			pointer0:     p0,
			pointer1:     p1,
			initialDist:  dist,
			initialAngle: angle,
			prevDist:     dist,
			prevAngle:    angle,
		}
		for _, id := range active {
			ps := &t.pointers[id]
			if ps.dragging {
				t.handler.DragEnd(t.dragEvent(id, ps.lastX, ps.lastY, lightbox.Vec2{}, true))
				ps.dragging = false
			}
			ps.refused = true
		}
		return
	}

	if dist == t.pinch.prevDist && angle == t.pinch.prevAngle {
		return
	}
	ev := PinchEvent{
		CenterX:  cx,
		CenterY:  cy,
		Scale:    1,
		Rotation: angle - t.pinch.initialAngle,
		RotDelta: angle - t.pinch.prevAngle,
	}
	if t.pinch.initialDist > 0 {
		ev.Scale = dist / t.pinch.initialDist
	}
	if t.pinch.prevDist > 0 {
		ev.ScaleDelta = dist/t.pinch.prevDist - 1
	}
	t.handler.Pinch(ev)
	t.pinch.prevDist = dist
	t.pinch.prevAngle = angle
}
