package lightbox

import (
	"errors"
	"testing"
	"time"
)

// recordingDelegate logs callback names in order.
type recordingDelegate struct {
	NopDraggerDelegate
	events []string
}

func (r *recordingDelegate) OnActive()            { r.events = append(r.events, "active") }
func (r *recordingDelegate) OnInactive()          { r.events = append(r.events, "inactive") }
func (r *recordingDelegate) OnDragStart()         { r.events = append(r.events, "dragstart") }
func (r *recordingDelegate) OnDragEnd()           { r.events = append(r.events, "dragend") }
func (r *recordingDelegate) OnAnimationStart()    { r.events = append(r.events, "animstart") }
func (r *recordingDelegate) OnAnimationFinished() { r.events = append(r.events, "animfinished") }
func (r *recordingDelegate) OnVisibilityChanged(v bool) {
	if v {
		r.events = append(r.events, "shown")
	} else {
		r.events = append(r.events, "hidden")
	}
}

func (r *recordingDelegate) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func newTestDragger(t *testing.T, opts DraggerOptions) (*Dragger, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	if opts.Direction == "" {
		opts.Direction = DirectionDown
	}
	if opts.Size == nil {
		opts.Size = func() float64 { return 1000 }
	}
	opts.Now = clock.Now
	d, err := NewDragger(opts)
	if err != nil {
		t.Fatalf("NewDragger: %v", err)
	}
	return d, clock
}

// dragTo starts a drag, moves to pos (in a 1000px dragger) and then feeds
// three 10ms-spaced movements totalling tail pixels.
func dragTo(d *Dragger, clock *fakeClock, pos, tail float64) {
	d.DragStart(DragEvent{})
	d.Drag(DragEvent{Time: clock.Now()})
	d.Drag(DragEvent{Movement: Vec2{Y: pos*1000 - tail}, Time: clock.Now()})
	clock.Advance(time.Second)
	for range 3 {
		clock.Advance(10 * time.Millisecond)
		d.Drag(DragEvent{Movement: Vec2{Y: tail / 3}, Time: clock.Now()})
	}
}

func TestNewDraggerErrors(t *testing.T) {
	size := func() float64 { return 100 }
	tests := []struct {
		name string
		opts DraggerOptions
		want error
	}{
		{"bad direction", DraggerOptions{Direction: "sideways", Size: size}, ErrInvalidDirection},
		{"empty direction", DraggerOptions{Size: size}, ErrInvalidDirection},
		{"unknown track", DraggerOptions{Direction: DirectionUp, Size: size, VelocityTrack: "opacity"}, ErrUnknownTrack},
		{"no size", DraggerOptions{Direction: DirectionUp}, ErrMissingSize},
		{"inverted range", DraggerOptions{Direction: DirectionUp, Size: size, Range: Range{Min: 1, Max: 0}}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDragger(tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDraggerFlingOpens(t *testing.T) {
	d, clock := newTestDragger(t, DraggerOptions{})
	// 30px in the last 150ms is 200px/s toward open.
	dragTo(d, clock, 0.2, 30)
	if !approxEqual(d.Position(), 0.2, 1e-9) {
		t.Fatalf("Position = %v, want 0.2", d.Position())
	}

	d.DragEnd(DragEvent{Time: clock.Now()})
	if d.State() != StateAnimating || !d.Opening() {
		t.Fatalf("state=%v opening=%v, want animating toward open", d.State(), d.Opening())
	}
	d.Update(1)
	if d.State() != StateIdle || d.Position() != 1 || !d.Visible() {
		t.Errorf("state=%v pos=%v visible=%v, want idle open visible", d.State(), d.Position(), d.Visible())
	}
}

func TestDraggerSlowReleaseCloses(t *testing.T) {
	d, clock := newTestDragger(t, DraggerOptions{})
	// 7.5px in the last 150ms is 50px/s, under the fling threshold.
	dragTo(d, clock, 0.2, 7.5)

	d.DragEnd(DragEvent{Time: clock.Now()})
	if d.Opening() {
		t.Fatal("slow release below the midpoint should close")
	}
	d.Update(1)
	if d.Position() != 0 || d.Visible() {
		t.Errorf("pos=%v visible=%v, want closed and hidden", d.Position(), d.Visible())
	}
}

func TestDraggerFlingAgainstPosition(t *testing.T) {
	d, clock := newTestDragger(t, DraggerOptions{StartOpen: true})
	// Start open, drag up to 0.8 and fling upward (toward closed).
	d.DragStart(DragEvent{})
	d.Drag(DragEvent{Time: clock.Now()})
	d.Drag(DragEvent{Movement: Vec2{Y: -200}, Time: clock.Now()})
	d.DragEnd(DragEvent{Time: clock.Now()})
	if d.Opening() {
		t.Error("fast upward release should close even above the midpoint")
	}
}

func TestDraggerFirstMoveIgnored(t *testing.T) {
	d, clock := newTestDragger(t, DraggerOptions{})
	d.DragStart(DragEvent{})
	d.Drag(DragEvent{Movement: Vec2{Y: 300}, Time: clock.Now()})
	if d.Position() != 0 {
		t.Errorf("Position = %v after first move, want 0", d.Position())
	}
	d.Drag(DragEvent{Movement: Vec2{Y: 300}, Time: clock.Now()})
	if !approxEqual(d.Position(), 0.3, epsilon) {
		t.Errorf("Position = %v, want 0.3", d.Position())
	}
}

func TestDraggerDirections(t *testing.T) {
	tests := []struct {
		dir  Direction
		move Vec2
	}{
		{DirectionDown, Vec2{Y: 100}},
		{DirectionUp, Vec2{Y: -100}},
		{DirectionRight, Vec2{X: 100}},
		{DirectionLeft, Vec2{X: -100}},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			d, clock := newTestDragger(t, DraggerOptions{Direction: tt.dir})
			d.DragStart(DragEvent{})
			d.Drag(DragEvent{Time: clock.Now()})
			d.Drag(DragEvent{Movement: tt.move, Time: clock.Now()})
			if !approxEqual(d.Position(), 0.1, epsilon) {
				t.Errorf("Position = %v, want 0.1", d.Position())
			}
			d.Drag(DragEvent{Movement: tt.move.Mul(-5), Time: clock.Now()})
			if d.Position() != 0 {
				t.Errorf("Position = %v, want clamped to 0", d.Position())
			}
		})
	}
}

func TestDraggerCancelRestores(t *testing.T) {
	d, clock := newTestDragger(t, DraggerOptions{StartOpen: true})
	d.DragStart(DragEvent{})
	d.Drag(DragEvent{Time: clock.Now()})
	d.Drag(DragEvent{Movement: Vec2{Y: -700}, Time: clock.Now()})
	clock.Advance(time.Second)

	d.DragEnd(DragEvent{Cancelled: true, Time: clock.Now()})
	if !d.Opening() {
		t.Fatal("cancelled drag should return to open")
	}
	d.Update(1)
	if d.Position() != 1 {
		t.Errorf("Position = %v, want 1", d.Position())
	}
}

func TestDraggerCallbacksBracket(t *testing.T) {
	rec := &recordingDelegate{}
	d, clock := newTestDragger(t, DraggerOptions{Delegate: rec})

	dragTo(d, clock, 0.7, 0)
	d.DragEnd(DragEvent{Time: clock.Now()})
	d.Update(0.1)
	d.Update(1)

	want := []string{"shown", "active", "dragstart", "dragend", "animstart", "animfinished", "inactive"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", rec.events, want)
		}
	}
}

func TestDraggerCallbacksBalancedAcrossInterleavings(t *testing.T) {
	type env struct {
		d        *Dragger
		hub      *Hub
		clock    *fakeClock
		accepted int
	}
	start := func(e *env) {
		if e.d.DragStart(DragEvent{}) {
			e.accepted++
		}
	}
	move := func(e *env) {
		e.clock.Advance(10 * time.Millisecond)
		e.d.Drag(DragEvent{Movement: Vec2{Y: 200}, Time: e.clock.Now()})
	}
	end := func(e *env) {
		e.clock.Advance(time.Second)
		e.d.DragEnd(DragEvent{Time: e.clock.Now()})
	}
	cancel := func(e *env) { e.d.DragEnd(DragEvent{Cancelled: true, Time: e.clock.Now()}) }
	show := func(e *env) { e.d.Show() }
	hide := func(e *env) { e.d.Hide() }
	toggle := func(e *env) { e.d.Toggle() }
	outside := func(e *env) { e.hub.Dispatch(PointerEvent{X: 5000, Y: 5000}) }
	tick := func(e *env) { e.d.Update(0.1) }
	settle := func(e *env) { e.d.Update(10) }
	dispose := func(e *env) { e.d.Dispose() }

	tests := []struct {
		name  string
		steps []func(*env)
	}{
		{"show during drag", []func(*env){start, move, move, show, move, end, tick, settle}},
		{"hide during drag", []func(*env){start, move, move, hide, end, settle}},
		{"outside press during drag", []func(*env){start, move, move, outside, move, end, settle}},
		{"outside press at rest position", []func(*env){start, move, outside, end, settle}},
		{"dispose while dragging", []func(*env){start, move, move, dispose, end, show, settle}},
		{"dispose while animating", []func(*env){show, tick, dispose, settle}},
		{"drag end without drag", []func(*env){end, cancel, move, settle}},
		{"second start while dragging", []func(*env){start, move, start, move, end, settle}},
		{"restart during settle", []func(*env){start, move, move, end, tick, start, move, cancel, tick, start, end, settle}},
		{"toggles and drags", []func(*env){toggle, tick, toggle, start, move, toggle, tick, start, move, move, move, end, toggle, settle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingDelegate{}
			hub := &Hub{}
			d, clock := newTestDragger(t, DraggerOptions{
				Delegate:       rec,
				Hub:            hub,
				CloseIfOutside: []Region{Rect{Width: 100, Height: 100}},
			})
			e := &env{d: d, hub: hub, clock: clock}

			for i, step := range tt.steps {
				step(e)

				state := d.State()
				if state != StateIdle && state != StateDragging && state != StateAnimating {
					t.Fatalf("step %d: state = %v", i, state)
				}
				starts, ends := rec.count("dragstart"), rec.count("dragend")
				if starts != e.accepted {
					t.Fatalf("step %d: %d dragstart callbacks for %d accepted drags", i, starts, e.accepted)
				}
				open := 0
				if state == StateDragging {
					open = 1
				}
				if starts-ends != open {
					t.Fatalf("step %d: state %v with %d dragstart and %d dragend: %v", i, state, starts, ends, rec.events)
				}
				animOpen := 0
				if state == StateAnimating {
					animOpen = 1
				}
				if rec.count("animstart")-rec.count("animfinished") != animOpen {
					t.Fatalf("step %d: unbalanced animation callbacks in state %v: %v", i, state, rec.events)
				}
				idleOpen := 1
				if state == StateIdle {
					idleOpen = 0
				}
				if rec.count("active")-rec.count("inactive") != idleOpen {
					t.Fatalf("step %d: unbalanced active callbacks in state %v: %v", i, state, rec.events)
				}
			}
		})
	}
}

func TestDraggerInterruptAnimation(t *testing.T) {
	rec := &recordingDelegate{}
	d, clock := newTestDragger(t, DraggerOptions{Delegate: rec})

	d.Show()
	d.Update(0.1)
	mid := d.Position()
	if mid <= 0 || mid >= 1 {
		t.Fatalf("Position = %v, want mid-animation", mid)
	}

	if !d.DragStart(DragEvent{}) {
		t.Fatal("DragStart rejected during animation")
	}
	if d.State() != StateDragging || d.Position() != mid {
		t.Errorf("state=%v pos=%v, want dragging from %v", d.State(), d.Position(), mid)
	}
	d.Update(1)
	if d.Position() != mid {
		t.Errorf("cancelled animation still moving: %v", d.Position())
	}
	d.DragEnd(DragEvent{Time: clock.Now()})

	if rec.count("animfinished") != 1 || rec.count("dragstart") != 1 || rec.count("dragend") != 1 {
		t.Errorf("events = %v", rec.events)
	}
	if rec.count("active") != 1 {
		t.Errorf("active fired %d times; the dragger never went idle", rec.count("active"))
	}
}

func TestDraggerShowHideNoOps(t *testing.T) {
	rec := &recordingDelegate{}
	d, _ := newTestDragger(t, DraggerOptions{Delegate: rec})

	d.Hide()
	if len(rec.events) != 0 || d.State() != StateIdle {
		t.Errorf("Hide on a closed dragger produced %v", rec.events)
	}

	d.Show()
	d.Update(0.05)
	d.Show()
	if rec.count("animstart") != 1 {
		t.Errorf("second Show restarted the animation: %v", rec.events)
	}

	d.Toggle()
	if d.Opening() {
		t.Error("Toggle while opening should close")
	}
}

func TestDraggerConfirmDrag(t *testing.T) {
	rec := &recordingDelegate{}
	d, clock := newTestDragger(t, DraggerOptions{
		Delegate:    rec,
		ConfirmDrag: func(ev DragEvent) bool { return ev.X > 20 },
	})
	if d.DragStart(DragEvent{X: 5}) {
		t.Fatal("edge drag should be rejected")
	}
	d.Drag(DragEvent{Movement: Vec2{Y: 500}, Time: clock.Now()})
	d.DragEnd(DragEvent{})
	if len(rec.events) != 0 || d.Position() != 0 {
		t.Errorf("rejected drag had effects: %v pos=%v", rec.events, d.Position())
	}
	if !d.DragStart(DragEvent{X: 100}) {
		t.Error("drag away from the edge should be accepted")
	}
}

func TestDraggerTracks(t *testing.T) {
	var opacity, offset float64
	d, clock := newTestDragger(t, DraggerOptions{
		Tracks: []Track{
			{Name: "opacity", From: 0, To: 1, Apply: func(v float64) { opacity = v }},
			{Name: "offset", From: -400, To: 0, Apply: func(v float64) { offset = v }},
		},
		VelocityTrack: "offset",
	})
	if opacity != 0 || offset != -400 {
		t.Fatalf("initial tracks = %v, %v", opacity, offset)
	}

	d.DragStart(DragEvent{})
	d.Drag(DragEvent{Time: clock.Now()})
	d.Drag(DragEvent{Movement: Vec2{Y: 250}, Time: clock.Now()})
	if !approxEqual(opacity, 0.25, epsilon) || !approxEqual(offset, -300, epsilon) {
		t.Errorf("tracks = %v, %v; want 0.25, -300", opacity, offset)
	}
}

func TestDraggerCloseIfOutside(t *testing.T) {
	hub := &Hub{}
	d, _ := newTestDragger(t, DraggerOptions{
		StartOpen:      true,
		Hub:            hub,
		CloseIfOutside: []Region{Rect{X: 0, Y: 0, Width: 100, Height: 100}},
	})
	if hub.Len() != 1 {
		t.Fatalf("hub.Len = %d, want 1 while open", hub.Len())
	}

	hub.Dispatch(PointerEvent{X: 50, Y: 50})
	if d.State() != StateIdle {
		t.Fatal("press inside the region closed the dragger")
	}

	hub.Dispatch(PointerEvent{X: 500, Y: 500})
	if d.State() != StateAnimating || d.Opening() {
		t.Fatal("press outside the region should close")
	}
	d.Update(1)
	if d.Visible() || hub.Len() != 0 {
		t.Errorf("visible=%v hub.Len=%d, want hidden and unregistered", d.Visible(), hub.Len())
	}

	d.Show()
	if hub.Len() != 1 {
		t.Errorf("hub.Len = %d after Show, want 1", hub.Len())
	}
}

func TestDraggerDispose(t *testing.T) {
	rec := &recordingDelegate{}
	hub := &Hub{}
	d, clock := newTestDragger(t, DraggerOptions{
		Delegate:       rec,
		Hub:            hub,
		CloseIfOutside: []Region{Rect{Width: 10, Height: 10}},
	})
	d.DragStart(DragEvent{})
	d.Drag(DragEvent{Time: clock.Now()})
	d.Dispose()

	if rec.count("dragend") != 1 || d.State() != StateIdle {
		t.Errorf("events=%v state=%v after Dispose", rec.events, d.State())
	}
	if hub.Len() != 0 {
		t.Errorf("hub.Len = %d after Dispose, want 0", hub.Len())
	}
	if d.DragStart(DragEvent{}) {
		t.Error("disposed dragger accepted a drag")
	}
	d.Show()
	if d.State() != StateIdle {
		t.Error("disposed dragger animated")
	}
}

func TestDraggerStateString(t *testing.T) {
	if StateAnimating.String() != "animating" || DraggerState(9).String() != "DraggerState(9)" {
		t.Error("unexpected DraggerState names")
	}
}
