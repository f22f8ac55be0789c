package lightbox

import (
	"errors"
	"fmt"
	"time"
)

// Direction is the direction a drag moves to open a dragger.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// axis returns the component of m along the open direction.
func (d Direction) axis(m Vec2) float64 {
	switch d {
	case DirectionUp:
		return -m.Y
	case DirectionDown:
		return m.Y
	case DirectionLeft:
		return -m.X
	default:
		return m.X
	}
}

// DraggerState is the stable state of a Dragger.
type DraggerState uint8

const (
	StateIdle DraggerState = iota
	StateDragging
	StateAnimating
)

// String returns the state's name.
func (s DraggerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateAnimating:
		return "animating"
	default:
		return fmt.Sprintf("DraggerState(%d)", uint8(s))
	}
}

// Defaults for DraggerOptions.
const (
	DefaultDraggerDuration = 0.35
	// DefaultDraggerFlingThreshold is the pointer velocity, in pixels per
	// second, above which a release commits in the fling direction.
	DefaultDraggerFlingThreshold = 150.0
)

// Construction errors.
var (
	ErrInvalidDirection = errors.New("lightbox: invalid drag direction")
	ErrUnknownTrack     = errors.New("lightbox: unknown track")
	ErrInvalidRange     = errors.New("lightbox: invalid dragger range")
	ErrMissingSize      = errors.New("lightbox: dragger needs a Size function")
)

// DragEvent is one step of a drag gesture.
type DragEvent struct {
	PointerID int
	X, Y      float64
	// Movement since the previous event of the same drag.
	Movement Vec2
	// Cancelled is set on the final event when the input system took the
	// gesture away, such as a host navigation swipe.
	Cancelled bool
	// Time is when the event happened. Zero uses the dragger's clock.
	Time time.Time
}

// Track maps the dragger position onto an external animated property.
// Apply receives From at the closed end of the range and To at the open end.
type Track struct {
	Name     string
	From, To float64
	Apply    func(value float64)
}

func (t Track) valueAt(k float64) float64 { return lerp(t.From, t.To, k) }

// DraggerDelegate receives a Dragger's state transitions. OnActive and
// OnInactive bracket every excursion out of idle; OnDragStart/OnDragEnd
// bracket dragging and OnAnimationStart/OnAnimationFinished bracket
// animating. Embed NopDraggerDelegate to implement only some methods.
type DraggerDelegate interface {
	OnActive()
	OnInactive()
	OnDragStart()
	OnDragEnd()
	OnAnimationStart()
	OnAnimationFinished()
	OnPosition(position float64)
	OnVisibilityChanged(visible bool)
}

// NopDraggerDelegate implements DraggerDelegate with no-ops.
type NopDraggerDelegate struct{}

func (NopDraggerDelegate) OnActive()                {}
func (NopDraggerDelegate) OnInactive()              {}
func (NopDraggerDelegate) OnDragStart()             {}
func (NopDraggerDelegate) OnDragEnd()               {}
func (NopDraggerDelegate) OnAnimationStart()        {}
func (NopDraggerDelegate) OnAnimationFinished()     {}
func (NopDraggerDelegate) OnPosition(float64)       {}
func (NopDraggerDelegate) OnVisibilityChanged(bool) {}

// DraggerOptions configures a Dragger.
type DraggerOptions struct {
	// Direction is the drag direction that opens. Required.
	Direction Direction
	// Size returns the drag distance in pixels for a full close-to-open
	// traversal. Required.
	Size func() float64
	// Range is the position range; the zero value means [0, 1].
	Range Range
	// StartOpen starts at Range.Max, visible.
	StartOpen bool
	// Duration of show/hide animations in seconds.
	Duration float64
	// Easing overrides the velocity-matched curve for show/hide.
	Easing *CubicBezier
	// ConfirmDrag can reject a drag before it starts, leaving the gesture to
	// another owner.
	ConfirmDrag func(DragEvent) bool
	Delegate    DraggerDelegate
	// Tracks are the properties driven by the position.
	Tracks []Track
	// VelocityTrack names the track whose rate of change seeds show/hide
	// easing. Empty tracks the position itself.
	VelocityTrack string
	// CloseIfOutside lists regions; while visible, a pointer-down delivered
	// through Hub outside all of them hides the dragger.
	CloseIfOutside []Region
	Hub            *Hub
	// FlingThreshold is the release velocity, in pixels per second, that
	// commits in the fling direction regardless of position.
	FlingThreshold float64
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// Dragger turns drags on a surface into a position between closed and open,
// settles released drags with an animation, and exposes Show/Hide for
// programmatic use. A drag that starts during an animation takes over from
// the animation's current position.
type Dragger struct {
	opts     DraggerOptions
	delegate DraggerDelegate
	now      func() time.Time

	state    DraggerState
	position float64
	visible  bool

	anim *Tween

	pointer   *FlingVelocity
	property  *FlingVelocity
	propTrack int

	dragStart float64
	firstMove bool

	outside  CallbackHandle
	disposed bool
}

// NewDragger validates opts and returns a Dragger in the idle state.
func NewDragger(opts DraggerOptions) (*Dragger, error) {
	if !opts.Direction.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, opts.Direction)
	}
	if opts.Size == nil {
		return nil, ErrMissingSize
	}
	if opts.Range == (Range{}) {
		opts.Range = Range{0, 1}
	}
	if opts.Range.Max <= opts.Range.Min {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, opts.Range.Min, opts.Range.Max)
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDraggerDuration
	}
	if opts.FlingThreshold <= 0 {
		opts.FlingThreshold = DefaultDraggerFlingThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := &Dragger{
		opts:      opts,
		delegate:  opts.Delegate,
		now:       opts.Now,
		pointer:   NewFlingVelocity(DefaultVelocityWindow),
		property:  NewFlingVelocity(DefaultVelocityWindow),
		propTrack: -1,
		position:  opts.Range.Min,
	}
	if d.delegate == nil {
		d.delegate = NopDraggerDelegate{}
	}
	if opts.VelocityTrack != "" {
		for i, t := range opts.Tracks {
			if t.Name == opts.VelocityTrack {
				d.propTrack = i
			}
		}
		if d.propTrack < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, opts.VelocityTrack)
		}
	}

	if opts.StartOpen {
		d.position = opts.Range.Max
		d.setVisible(true)
	}
	d.applyTracks()
	return d, nil
}

// State returns the current state.
func (d *Dragger) State() DraggerState { return d.state }

// Position returns the current position within the range.
func (d *Dragger) Position() float64 { return d.position }

// Visible reports whether the controlled surface should be shown.
func (d *Dragger) Visible() bool { return d.visible }

// Opening reports whether the dragger is open or heading toward open.
func (d *Dragger) Opening() bool {
	if d.state == StateAnimating && d.anim != nil {
		return d.anim.Target() == d.opts.Range.Max
	}
	return d.position > d.opts.Range.Mid()
}

// DragStart begins a drag. It returns false if the drag was rejected, in
// which case no other drag callbacks should be delivered for the gesture.
func (d *Dragger) DragStart(ev DragEvent) bool {
	if d.disposed || d.state == StateDragging {
		return false
	}
	if d.opts.ConfirmDrag != nil && !d.opts.ConfirmDrag(ev) {
		logger.Debug().Msg("dragger: drag rejected")
		return false
	}

	// Take over from a running animation at its last rendered value.
	if d.anim != nil {
		d.position = d.anim.Stop()
		d.anim = nil
	}
	d.pointer.Reset()
	d.dragStart = d.position
	d.firstMove = true

	// Dragging toward open needs the content rendered already.
	d.setVisible(true)
	d.setState(StateDragging)
	return true
}

// Drag applies pointer movement to the position.
func (d *Dragger) Drag(ev DragEvent) {
	if d.disposed || d.state != StateDragging {
		return
	}
	at := d.eventTime(ev)
	d.pointer.AddSample(ev.Movement, at)

	// The first movement is often the input system's drag threshold being
	// crossed; it counts for velocity but doesn't move the position.
	if d.firstMove {
		d.firstMove = false
		return
	}

	size := d.opts.Size()
	if size <= 0 {
		return
	}
	delta := d.opts.Direction.axis(ev.Movement) / size * d.opts.Range.Span()
	d.setPosition(d.opts.Range.Clamp(d.position+delta), at)
}

// DragEnd finishes a drag and settles open or closed.
func (d *Dragger) DragEnd(ev DragEvent) {
	if d.disposed || d.state != StateDragging {
		return
	}
	if ev.Cancelled {
		// Undo a drag hijacked by the host: go back to where it started.
		if d.dragStart > d.opts.Range.Mid() {
			d.Show()
		} else {
			d.Hide()
		}
		return
	}

	v := d.opts.Direction.axis(d.pointer.Velocity(d.eventTime(ev)))
	switch {
	case v > d.opts.FlingThreshold:
		d.Show()
	case v < -d.opts.FlingThreshold:
		d.Hide()
	case d.position > d.opts.Range.Mid():
		d.Show()
	default:
		d.Hide()
	}
}

// Show animates to fully open. It does nothing if already open or opening.
func (d *Dragger) Show() { d.animateTo(d.opts.Range.Max, d.opts.Easing) }

// Hide animates to fully closed. It does nothing if already closed or
// closing.
func (d *Dragger) Hide() { d.animateTo(d.opts.Range.Min, d.opts.Easing) }

// ShowWith is Show with an explicit easing curve.
func (d *Dragger) ShowWith(curve CubicBezier) { d.animateTo(d.opts.Range.Max, &curve) }

// HideWith is Hide with an explicit easing curve.
func (d *Dragger) HideWith(curve CubicBezier) { d.animateTo(d.opts.Range.Min, &curve) }

// Toggle hides an open or opening dragger and shows a closed or closing one.
func (d *Dragger) Toggle() {
	if d.Opening() {
		d.Hide()
	} else {
		d.Show()
	}
}

func (d *Dragger) animateTo(target float64, easing *CubicBezier) {
	if d.disposed {
		return
	}
	if d.state == StateAnimating && d.anim != nil && d.anim.Target() == target {
		return
	}
	if d.position == target {
		if d.anim != nil {
			d.anim.Stop()
			d.anim = nil
		}
		d.setState(StateIdle)
		d.settleVisibility()
		return
	}

	curve := EaseOut
	if easing != nil {
		curve = *easing
	} else {
		// Continue at the rate the property is already changing, so a
		// released fling flows into its settle.
		dir := 1.0
		if target < d.position {
			dir = -1
		}
		curve = CurveForVelocity(target-d.position, d.opts.Duration, d.propertyVelocity()*dir)
	}

	if d.anim != nil {
		d.position = d.anim.Stop()
	}
	d.anim = NewTween(d.position, target, d.opts.Duration, curve)
	d.setVisible(true)
	d.setState(StateAnimating)
}

// Update advances a running animation by dt seconds.
func (d *Dragger) Update(dt float64) {
	if d.disposed || d.state != StateAnimating || d.anim == nil {
		return
	}
	val, done := d.anim.Update(dt)
	d.setPosition(val, d.now())
	if !done {
		return
	}
	d.anim = nil
	d.setState(StateIdle)
	d.settleVisibility()
}

// Dispose ends any drag or animation and removes all registrations. Further
// calls are no-ops.
func (d *Dragger) Dispose() {
	if d.disposed {
		return
	}
	if d.anim != nil {
		d.anim.Stop()
		d.anim = nil
	}
	d.setState(StateIdle)
	d.outside.Remove()
	d.outside = CallbackHandle{}
	d.disposed = true
}

// propertyVelocity returns how fast the position has recently been
// changing, in position units per second, as seen through the velocity
// track when one is configured.
func (d *Dragger) propertyVelocity() float64 {
	v := d.property.Velocity(d.now()).X
	if d.propTrack < 0 {
		return v
	}
	t := d.opts.Tracks[d.propTrack]
	if t.To == t.From {
		return 0
	}
	return v / (t.To - t.From) * d.opts.Range.Span()
}

func (d *Dragger) setPosition(p float64, at time.Time) {
	prev := d.position
	d.position = p

	delta := p - prev
	if d.propTrack >= 0 {
		t := d.opts.Tracks[d.propTrack]
		delta = t.valueAt(d.unit(p)) - t.valueAt(d.unit(prev))
	}
	d.property.AddSample(Vec2{X: delta}, at)

	d.applyTracks()
	d.delegate.OnPosition(p)
}

func (d *Dragger) unit(p float64) float64 {
	return (p - d.opts.Range.Min) / d.opts.Range.Span()
}

func (d *Dragger) applyTracks() {
	k := d.unit(d.position)
	for _, t := range d.opts.Tracks {
		if t.Apply != nil {
			t.Apply(t.valueAt(k))
		}
	}
}

// setState moves between stable states, running the exit callbacks of the
// old state before the entry callbacks of the new one.
func (d *Dragger) setState(next DraggerState) {
	prev := d.state
	if prev == next {
		return
	}

	switch prev {
	case StateDragging:
		d.delegate.OnDragEnd()
	case StateAnimating:
		d.delegate.OnAnimationFinished()
	case StateIdle:
		d.delegate.OnActive()
	}

	d.state = next

	switch next {
	case StateDragging:
		d.delegate.OnDragStart()
	case StateAnimating:
		d.delegate.OnAnimationStart()
	case StateIdle:
		d.delegate.OnInactive()
	}
}

// settleVisibility hides the surface once it rests fully closed.
func (d *Dragger) settleVisibility() {
	if d.position <= d.opts.Range.Min {
		d.setVisible(false)
	}
}

func (d *Dragger) setVisible(visible bool) {
	if d.visible == visible {
		return
	}
	d.visible = visible
	if visible {
		d.watchOutside()
	} else {
		d.outside.Remove()
		d.outside = CallbackHandle{}
	}
	d.delegate.OnVisibilityChanged(visible)
}

func (d *Dragger) watchOutside() {
	if d.opts.Hub == nil || len(d.opts.CloseIfOutside) == 0 || d.outside.Valid() {
		return
	}
	d.outside = d.opts.Hub.OnPointerDown(func(ev PointerEvent) {
		for _, r := range d.opts.CloseIfOutside {
			if r.Contains(ev.X, ev.Y) {
				return
			}
		}
		d.Hide()
	})
}

func (d *Dragger) eventTime(ev DragEvent) time.Time {
	if ev.Time.IsZero() {
		return d.now()
	}
	return ev.Time
}
