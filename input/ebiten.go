package input

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/lightbox"
)

// touchSlots maps Ebitengine touch IDs onto pointer slots 1-9.
type touchSlots struct {
	ids  [MaxPointers]ebiten.TouchID
	used [MaxPointers]bool
	buf  []ebiten.TouchID
}

// slot returns the existing slot for tid or allocates one. It returns -1
// when every slot is taken.
func (ts *touchSlots) slot(tid ebiten.TouchID) int {
	for i := 1; i < MaxPointers; i++ {
		if ts.used[i] && ts.ids[i] == tid {
			return i
		}
	}
	for i := 1; i < MaxPointers; i++ {
		if !ts.used[i] {
			ts.used[i] = true
			ts.ids[i] = tid
			return i
		}
	}
	return -1
}

// Poll reads the mouse and touch devices and runs one frame of input.
// Call it once from the game's Update. While a script or injected events
// are queued, they replace the mouse for that frame.
func (t *Tracker) Poll() {
	if !ebiten.IsFocused() {
		if t.focused {
			logger.Debug().Msg("focus lost")
			t.Blur()
		}
		t.focused = false
		return
	}
	t.focused = true

	if !t.Frame() {
		mx, my := ebiten.CursorPosition()
		t.Feed(0, float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	}
	t.pollTouches()
	t.detectPinch()
}

func (t *Tracker) pollTouches() {
	ts := &t.touch
	ts.buf = ebiten.AppendTouchIDs(ts.buf[:0])

	var active [MaxPointers]bool
	for _, tid := range ts.buf {
		slot := ts.slot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		x, y := ebiten.TouchPosition(tid)
		t.Feed(slot, float64(x), float64(y), true)
	}

	for i := 1; i < MaxPointers; i++ {
		if ts.used[i] && !active[i] {
			ps := &t.pointers[i]
			if ps.down {
				t.Feed(i, ps.lastX, ps.lastY, false)
			}
			ts.used[i] = false
			ts.ids[i] = 0
		}
	}
}

// Surface adapts a Tracker to lightbox.Surface: capture pins the press-time
// hit target, and the cursor is hidden through Ebitengine's cursor mode.
type Surface struct {
	Tracker *Tracker
}

var _ lightbox.Surface = Surface{}

// CapturePointer implements lightbox.Surface.
func (s Surface) CapturePointer(pointerID int) bool {
	if s.Tracker == nil {
		return false
	}
	return s.Tracker.Capture(pointerID)
}

// ReleasePointer implements lightbox.Surface.
func (s Surface) ReleasePointer(pointerID int) {
	if s.Tracker != nil {
		s.Tracker.Release(pointerID)
	}
}

// SetCursorVisible implements lightbox.Surface.
func (s Surface) SetCursorVisible(visible bool) {
	if visible {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
}
