package lightbox

import (
	"context"
	"math"
	"time"
)

// MediaInfo is what the coordinator knows about a neighbor when creating its
// viewer. Early lookups may have only the ID.
type MediaInfo struct {
	ID            string
	Width, Height float64
	URL           string
	// Full is set when the info came from a full lookup rather than a
	// cached early one.
	Full bool
}

// NeighborResolver finds the media before or after id. It returns "" at
// either end of the sequence and must be safe to call repeatedly.
type NeighborResolver interface {
	NeighborMediaID(ctx context.Context, id string, forward bool) (string, error)
}

// MediaInfoSource returns cached media info. ok is false while the lookup is
// still pending.
type MediaInfoSource interface {
	MediaInfo(id string, full bool) (info MediaInfo, ok bool)
}

// ViewerFactory creates viewers for neighbors.
type ViewerFactory interface {
	CreateViewer(id string, info MediaInfo) SlotViewer
}

// SlotViewer is a viewer placed in the swipe strip.
type SlotViewer interface {
	MediaID() string
	// SetOffset moves the viewer horizontally, in pixels from its resting
	// position.
	SetOffset(x float64)
	SetVisible(visible bool)
	Shutdown()
}

// Defaults for SwipeOptions.
const (
	DefaultSwipeDuration       = 0.3
	DefaultSwipeFlingThreshold = 200.0
	DefaultSwipeFriction       = 0.97
)

// SwipeOptions configures a SwipeCoordinator.
type SwipeOptions struct {
	// Width is the container width in pixels.
	Width float64
	// Gap is the space between neighboring viewers.
	Gap float64
	// Duration of the settle animation in seconds.
	Duration float64
	// FlingThreshold is the release velocity, in pixels per second, that
	// moves to the adjacent viewer regardless of position.
	FlingThreshold float64
	// Friction is the per-pixel decay applied to movement past a known end.
	Friction float64
	// ConfirmDrag can reject a drag that belongs to another gesture owner.
	ConfirmDrag func(DragEvent) bool
	// OnMainChanged receives the new main viewer when a release commits to
	// a neighbor. It runs before the settle animation.
	OnMainChanged func(SlotViewer)
	Now           func() time.Time
}

type swipeSlot struct {
	viewer SlotViewer
	x      float64
	anim   *Tween
}

type neighborResult struct {
	gen     uint64
	from    string
	forward bool
	id      string
	err     error
}

// SwipeCoordinator lays viewers out in a horizontal strip around a main
// viewer, fetches neighbors as a drag exposes them, and settles on a viewer
// when the drag is released. The main viewer belongs to the caller and is
// never shut down by the coordinator.
type SwipeCoordinator struct {
	opts     SwipeOptions
	resolver NeighborResolver
	info     MediaInfoSource
	factory  ViewerFactory

	main     SlotViewer
	slots    []*swipeSlot
	mainIdx  int
	distance float64

	dragging  bool
	animating bool
	sampler   *FlingVelocity

	atStart, atEnd bool

	gen       uint64
	fetching  bool
	fetchStop context.CancelFunc
	results   chan neighborResult

	ctx      context.Context
	cancel   context.CancelFunc
	disposed bool
}

// NewSwipeCoordinator returns a coordinator with no main viewer.
func NewSwipeCoordinator(opts SwipeOptions, resolver NeighborResolver, info MediaInfoSource, factory ViewerFactory) *SwipeCoordinator {
	if opts.Duration <= 0 {
		opts.Duration = DefaultSwipeDuration
	}
	if opts.FlingThreshold <= 0 {
		opts.FlingThreshold = DefaultSwipeFlingThreshold
	}
	if opts.Friction <= 0 || opts.Friction >= 1 {
		opts.Friction = DefaultSwipeFriction
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SwipeCoordinator{
		opts:     opts,
		resolver: resolver,
		info:     info,
		factory:  factory,
		sampler:  NewFlingVelocity(DefaultVelocityWindow),
		results:  make(chan neighborResult, 4),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetMain replaces the main viewer, discarding any neighbors.
func (s *SwipeCoordinator) SetMain(v SlotViewer) {
	s.Stop()
	s.main = v
	s.resetSlots()
}

// Main returns the main viewer.
func (s *SwipeCoordinator) Main() SlotViewer { return s.main }

// SetWidth updates the container width.
func (s *SwipeCoordinator) SetWidth(w float64) {
	s.opts.Width = w
	s.layout()
}

// Slots returns the viewers in strip order.
func (s *SwipeCoordinator) Slots() []SlotViewer {
	out := make([]SlotViewer, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.viewer
	}
	return out
}

// DragDistance is the main viewer's horizontal offset in pixels.
func (s *SwipeCoordinator) DragDistance() float64 { return s.distance }

// Dragging reports whether a drag is in progress.
func (s *SwipeCoordinator) Dragging() bool { return s.dragging }

// Animating reports whether a settle animation is running.
func (s *SwipeCoordinator) Animating() bool { return s.animating }

func (s *SwipeCoordinator) stride() float64 { return s.opts.Width + s.opts.Gap }

// DragStart begins a swipe. It returns false when there is no main viewer
// or ConfirmDrag rejects the gesture.
func (s *SwipeCoordinator) DragStart(ev DragEvent) bool {
	if s.disposed || s.main == nil || s.dragging {
		return false
	}
	if s.opts.ConfirmDrag != nil && !s.opts.ConfirmDrag(ev) {
		return false
	}

	if s.animating {
		// Pick up where the settle animation is now. Every slot moves by
		// the same amount, so the main slot's offset places the whole strip.
		for _, sl := range s.slots {
			if sl.anim != nil {
				sl.x = sl.anim.Stop()
				sl.anim = nil
			}
		}
		s.distance = s.slots[s.mainIdx].x
		s.animating = false
	} else {
		s.resetSlots()
	}

	s.sampler.Reset()
	s.dragging = true
	return true
}

// Drag moves the strip horizontally.
func (s *SwipeCoordinator) Drag(ev DragEvent) {
	if s.disposed || !s.dragging {
		return
	}
	at := ev.Time
	if at.IsZero() {
		at = s.opts.Now()
	}
	s.sampler.AddSample(ev.Movement, at)

	dx := ev.Movement.X
	if over := s.overscroll(); over > 0 && s.deeper(dx) {
		dx *= math.Pow(s.opts.Friction, over)
	}
	s.distance += dx
	s.layout()
	s.requestNeighbor()
}

// overscroll returns how far past a known end the strip has been dragged.
func (s *SwipeCoordinator) overscroll() float64 {
	if s.atStart {
		if x := s.slotX(0); x > 0 {
			return x
		}
	}
	if s.atEnd {
		if x := s.slotX(len(s.slots) - 1); x < 0 {
			return -x
		}
	}
	return 0
}

// deeper reports whether dx moves further into the overscroll.
func (s *SwipeCoordinator) deeper(dx float64) bool {
	if s.atStart && s.slotX(0) > 0 {
		return dx > 0
	}
	return dx < 0
}

// DragEnd releases the swipe and settles on a viewer.
func (s *SwipeCoordinator) DragEnd(ev DragEvent) {
	if s.disposed || !s.dragging {
		return
	}
	s.dragging = false

	at := ev.Time
	if at.IsZero() {
		at = s.opts.Now()
	}
	v := s.sampler.Velocity(at).X

	target := s.mainIdx
	if !ev.Cancelled && s.stride() > 0 {
		// Position in slots relative to main; positive means a later image
		// is centred.
		pos := -s.distance / s.stride()
		var rel float64
		switch {
		case v > s.opts.FlingThreshold:
			rel = math.Ceil(pos) - 1
		case v < -s.opts.FlingThreshold:
			rel = math.Floor(pos) + 1
		default:
			rel = math.Round(pos)
		}
		target = s.mainIdx + int(rel)
	}
	if target < 0 {
		target = 0
	}
	if target > len(s.slots)-1 {
		target = len(s.slots) - 1
	}
	s.commit(target, v)
}

func (s *SwipeCoordinator) commit(target int, velocity float64) {
	if target != s.mainIdx {
		s.distance += float64(target-s.mainIdx) * s.stride()
		s.mainIdx = target
		s.main = s.slots[target].viewer
		logger.Debug().Str("media", s.main.MediaID()).Msg("swipe: main changed")
		if s.opts.OnMainChanged != nil {
			s.opts.OnMainChanged(s.main)
		}
	}

	travel := -s.distance
	if travel == 0 {
		s.finish()
		return
	}

	curve := EaseOut
	if travel*velocity > 0 {
		curve = CurveForVelocity(math.Abs(travel), s.opts.Duration, math.Abs(velocity))
	}
	for i, sl := range s.slots {
		sl.anim = NewTween(sl.x, float64(i-s.mainIdx)*s.stride(), s.opts.Duration, curve)
	}
	s.animating = true
}

// Update delivers finished neighbor lookups and advances the settle
// animation by dt seconds.
func (s *SwipeCoordinator) Update(dt float64) {
	if s.disposed {
		return
	}
	s.drainResults()
	if !s.animating {
		return
	}

	done := true
	for _, sl := range s.slots {
		if sl.anim == nil {
			continue
		}
		x, finished := sl.anim.Update(dt)
		sl.x = x
		if finished {
			sl.anim = nil
		} else {
			done = false
		}
	}
	s.distance = s.slots[s.mainIdx].x
	for i, sl := range s.slots {
		// Neighbors that arrived after release have no tween of their own
		// and follow the main slot.
		if sl.anim == nil && i != s.mainIdx {
			sl.x = s.slotX(i)
		}
		sl.viewer.SetOffset(sl.x)
		sl.viewer.SetVisible(sl.x > -s.opts.Width && sl.x < s.opts.Width)
	}
	if done {
		s.finish()
	}
}

// finish ends a settle and tears down every viewer except main.
func (s *SwipeCoordinator) finish() {
	s.animating = false
	s.resetSlots()
}

// Stop ends any drag or animation at once and discards every viewer except
// main.
func (s *SwipeCoordinator) Stop() {
	for _, sl := range s.slots {
		if sl.anim != nil {
			sl.anim.Stop()
			sl.anim = nil
		}
	}
	s.dragging = false
	s.animating = false
	s.resetSlots()
}

// Dispose stops the coordinator and cancels outstanding lookups. The main
// viewer is left to its owner.
func (s *SwipeCoordinator) Dispose() {
	if s.disposed {
		return
	}
	s.Stop()
	s.cancel()
	s.disposed = true
}

// resetSlots shuts down every viewer but main and starts a new generation,
// so outstanding lookups are ignored when they return.
func (s *SwipeCoordinator) resetSlots() {
	for _, sl := range s.slots {
		if sl.viewer != s.main {
			sl.viewer.Shutdown()
		}
	}
	s.slots = s.slots[:0]
	s.mainIdx = 0
	s.distance = 0
	s.atStart, s.atEnd = false, false

	s.gen++
	s.fetching = false
	if s.fetchStop != nil {
		s.fetchStop()
		s.fetchStop = nil
	}

	if s.main != nil {
		s.slots = append(s.slots, &swipeSlot{viewer: s.main})
		s.main.SetOffset(0)
		s.main.SetVisible(true)
	}
}

func (s *SwipeCoordinator) slotX(i int) float64 {
	return float64(i-s.mainIdx)*s.stride() + s.distance
}

func (s *SwipeCoordinator) layout() {
	for i, sl := range s.slots {
		sl.x = s.slotX(i)
		sl.viewer.SetOffset(sl.x)
		sl.viewer.SetVisible(sl.x > -s.opts.Width && sl.x < s.opts.Width)
	}
}

// requestNeighbor starts a lookup when the strip exposes empty space, or
// when the drag has already passed the last materialized viewer.
func (s *SwipeCoordinator) requestNeighbor() {
	if s.fetching || s.resolver == nil || len(s.slots) == 0 || s.stride() <= 0 {
		return
	}
	target := s.mainIdx + int(math.Round(-s.distance/s.stride()))
	needBack := !s.atStart && (s.slotX(0) > 0 || target < 0)
	needFwd := !s.atEnd && (s.slotX(len(s.slots)-1) < 0 || target > len(s.slots)-1)

	switch {
	case needBack && (s.distance > 0 || !needFwd):
		s.fetch(s.slots[0].viewer.MediaID(), false)
	case needFwd:
		s.fetch(s.slots[len(s.slots)-1].viewer.MediaID(), true)
	}
}

func (s *SwipeCoordinator) fetch(from string, forward bool) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.fetchStop = cancel
	s.fetching = true
	gen := s.gen
	go func() {
		id, err := s.resolver.NeighborMediaID(ctx, from, forward)
		select {
		case s.results <- neighborResult{gen: gen, from: from, forward: forward, id: id, err: err}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *SwipeCoordinator) drainResults() {
	for {
		select {
		case r := <-s.results:
			s.applyNeighbor(r)
		default:
			return
		}
	}
}

func (s *SwipeCoordinator) applyNeighbor(r neighborResult) {
	if r.gen != s.gen {
		logger.Debug().Str("from", r.from).Msg("swipe: discarding stale neighbor")
		return
	}
	s.fetching = false
	if s.fetchStop != nil {
		s.fetchStop()
		s.fetchStop = nil
	}

	edge := len(s.slots) - 1
	if !r.forward {
		edge = 0
	}
	if len(s.slots) == 0 || s.slots[edge].viewer.MediaID() != r.from {
		return
	}

	if r.err != nil || r.id == "" {
		if r.err != nil {
			logger.Warn().Err(r.err).Str("from", r.from).Bool("forward", r.forward).Msg("swipe: neighbor lookup failed")
		}
		if r.forward {
			s.atEnd = true
		} else {
			s.atStart = true
		}
		return
	}

	var info MediaInfo
	if s.info != nil {
		info, _ = s.info.MediaInfo(r.id, false)
	}
	if info.ID == "" {
		info.ID = r.id
	}
	sl := &swipeSlot{viewer: s.factory.CreateViewer(r.id, info)}
	if r.forward {
		s.slots = append(s.slots, sl)
	} else {
		s.slots = append([]*swipeSlot{sl}, s.slots...)
		s.mainIdx++
	}
	s.layout()

	// A fast drag may already need the next one.
	if s.dragging {
		s.requestNeighbor()
	}
}
