package lightbox

import "math"

// ZoomLevel is one entry of a viewport's zoom table. A Cover level scales the
// image to fill the container; otherwise Factor multiplies the screen-fit
// scale.
type ZoomLevel struct {
	Cover  bool
	Factor float64
}

// DefaultZoomLevels is the standard table: fill, 2x, 4x, 8x.
var DefaultZoomLevels = []ZoomLevel{
	{Cover: true},
	{Factor: 2},
	{Factor: 4},
	{Factor: 8},
}

// DefaultPanMultiplier inverts and amplifies pointer movement so a small drag
// produces a larger pan.
const DefaultPanMultiplier = -3.0

// HitTarget identifies what a pointer-down landed on.
type HitTarget uint8

const (
	TargetImage      HitTarget = iota // the displayed image
	TargetContainer                   // the viewer's container, outside the image
	TargetDescendant                  // UI layered inside the container
)

// PointerEvent is a pointer sample in container coordinates.
type PointerEvent struct {
	PointerID int
	X, Y      float64
	// Movement is the change in position since the previous event for this
	// pointer.
	Movement Vec2
	Target   HitTarget
}

// Surface is the host element a viewport draws into. It provides pointer
// capture and cursor visibility.
type Surface interface {
	// CapturePointer routes all further events for the pointer to the
	// viewport. It returns false if fine-grained capture isn't available.
	CapturePointer(pointerID int) bool
	ReleasePointer(pointerID int)
	SetCursorVisible(visible bool)
}

// CoarseCapturer is implemented by surfaces that can't capture a single
// pointer but can grab all pointer input. Viewports fall back to it when
// CapturePointer fails.
type CoarseCapturer interface {
	CaptureAll()
	ReleaseAll()
}

// SizeSource reports an image's intrinsic size once it is known.
type SizeSource interface {
	IntrinsicSize() (width, height float64, ok bool)
}

// SizeFunc adapts a function to SizeSource.
type SizeFunc func() (width, height float64, ok bool)

// IntrinsicSize implements SizeSource.
func (f SizeFunc) IntrinsicSize() (float64, float64, bool) { return f() }

// FixedSize is a SizeSource whose size is known up front.
type FixedSize Size

// IntrinsicSize implements SizeSource.
func (s FixedSize) IntrinsicSize() (float64, float64, bool) {
	return s.Width, s.Height, !Size(s).Empty()
}

// ViewportState is the zoom and pan of one displayed image.
type ViewportState struct {
	Scale          float64
	Translation    Vec2
	ZoomLevelIndex int
	// ZoomCenterUnit is the image point, in unit coordinates, the zoom is
	// anchored on in click-to-pan mode.
	ZoomCenterUnit Vec2
	LockedZoom     bool
}

// Placement is where the image is drawn inside the container.
type Placement struct {
	X, Y, Width, Height float64
	// Scale maps image pixels to container pixels.
	Scale float64
	// Visible is false until the image's size is known.
	Visible bool
}

// ViewportConfig configures a Viewport. Zero values take defaults.
type ViewportConfig struct {
	ZoomLevels    []ZoomLevel
	PanMultiplier float64
	// Prefs is the shared persisted record the viewport reads its initial
	// zoom level and mode from, and writes changes back to.
	Prefs *ViewerPrefs
	// OnPrefsChanged is called after Prefs is updated.
	OnPrefsChanged func(ViewerPrefs)
	// OnClick is called when the pointer is released without having moved.
	OnClick func()
	// OnChange is called after every reposition.
	OnChange func(Placement)
}

const (
	captureNone = iota
	captureFine
	captureCoarse
)

// Viewport owns the zoom and pan of one image inside a fixed-size container.
// Pointer drags pan the image; the zoom table selects the magnification.
//
// In click-to-pan mode the image is only zoomed while a pointer is held,
// anchored on the point that was pressed. In locked mode the image stays
// zoomed and drags move it around.
type Viewport struct {
	cfg     ViewportConfig
	surface Surface

	container Size
	image     Size
	hasImage  bool
	pending   SizeSource
	imageGen  uint64

	zoomLevel      int
	locked         bool
	zoomed         bool
	zoomCenter     Vec2
	zoomCenterUnit Vec2
	pan            Vec2

	dragging    bool
	dragPointer int
	capture     int
	moved       bool

	placement Placement
	disposed  bool
}

// NewViewport creates a viewport drawing into surface. surface may be nil
// for headless use.
func NewViewport(cfg ViewportConfig, surface Surface) *Viewport {
	if len(cfg.ZoomLevels) == 0 {
		cfg.ZoomLevels = DefaultZoomLevels
	}
	if cfg.PanMultiplier == 0 {
		cfg.PanMultiplier = DefaultPanMultiplier
	}
	if cfg.Prefs == nil {
		cfg.Prefs = &ViewerPrefs{}
	}
	v := &Viewport{
		cfg:            cfg,
		surface:        surface,
		locked:         cfg.Prefs.LockedZoom,
		zoomCenterUnit: Vec2{0.5, 0.5},
	}
	v.zoomLevel = v.clampLevel(cfg.Prefs.ZoomLevel)
	return v
}

// SetContainerSize sets the size of the container the image is shown in.
func (v *Viewport) SetContainerSize(width, height float64) {
	if v.disposed {
		return
	}
	v.container = Size{width, height}
	v.reposition()
}

// SetImage switches to a new image whose size may not be known yet. Output is
// hidden until the size is available, so the previous image's geometry is
// never applied to the new one. The size is polled from Update; hosts that
// learn the size from an event can call ImageSizeKnown with the returned
// generation instead.
func (v *Viewport) SetImage(src SizeSource) uint64 {
	if v.disposed {
		return 0
	}
	v.imageGen++
	v.hasImage = false
	v.image = Size{}
	v.pending = src
	v.pan = Vec2{}
	v.zoomCenterUnit = Vec2{0.5, 0.5}
	v.pollImage()
	v.reposition()
	return v.imageGen
}

// SetImageSize is SetImage for an image whose size is already known.
func (v *Viewport) SetImageSize(width, height float64) {
	v.SetImage(FixedSize{width, height})
}

// ImageSizeKnown delivers an asynchronously discovered size for the image
// set by the SetImage call that returned gen. Results for an image that has
// since been replaced are discarded.
func (v *Viewport) ImageSizeKnown(gen uint64, width, height float64) {
	if v.disposed {
		return
	}
	if gen != v.imageGen {
		logger.Debug().Uint64("gen", gen).Uint64("current", v.imageGen).Msg("discarding stale image size")
		return
	}
	if (Size{width, height}).Empty() {
		return
	}
	v.pending = nil
	v.image = Size{width, height}
	v.hasImage = true
	v.reposition()
}

// Update polls for a pending image size.
func (v *Viewport) Update(dt float64) {
	if v.disposed || v.pending == nil {
		return
	}
	if v.pollImage() {
		v.reposition()
	}
}

func (v *Viewport) pollImage() bool {
	if v.pending == nil {
		return false
	}
	w, h, ok := v.pending.IntrinsicSize()
	if !ok || (Size{w, h}).Empty() {
		return false
	}
	v.pending = nil
	v.image = Size{w, h}
	v.hasImage = true
	return true
}

// ZoomLevel returns the index of the selected zoom table entry.
func (v *Viewport) ZoomLevel() int { return v.zoomLevel }

// SetZoomLevel selects a zoom table entry, clamped to the table, and
// remembers it for the next image.
func (v *Viewport) SetZoomLevel(level int) {
	if v.disposed {
		return
	}
	v.zoomLevel = v.clampLevel(level)
	v.cfg.Prefs.ZoomLevel = v.zoomLevel
	v.prefsChanged()
	v.reposition()
}

// StepZoom moves delta entries through the zoom table.
func (v *Viewport) StepZoom(delta int) {
	v.SetZoomLevel(v.zoomLevel + delta)
}

// LockedZoom reports whether the viewport is in locked (sticky) zoom mode.
func (v *Viewport) LockedZoom() bool { return v.locked }

// SetLockedZoom switches between click-to-pan and locked zoom. The pan
// position is reset.
func (v *Viewport) SetLockedZoom(locked bool) {
	if v.disposed {
		return
	}
	v.locked = locked
	v.pan = Vec2{}
	v.zoomCenterUnit = Vec2{0.5, 0.5}
	if !v.dragging {
		v.zoomed = false
	}
	v.cfg.Prefs.LockedZoom = locked
	v.prefsChanged()
	v.reposition()
}

// Dragging reports whether a pointer drag is in progress.
func (v *Viewport) Dragging() bool { return v.dragging }

// Zoomed reports whether the image is currently shown magnified.
func (v *Viewport) Zoomed() bool { return v.zoomActive() }

// PointerDown starts a drag if the pointer landed on the image or the
// container itself. It returns whether the event was consumed.
func (v *Viewport) PointerDown(ev PointerEvent) bool {
	if v.disposed || v.dragging || ev.Target == TargetDescendant {
		return false
	}

	v.capturePointer(ev.PointerID)
	if v.surface != nil {
		v.surface.SetCursorVisible(false)
	}
	v.dragging = true
	v.dragPointer = ev.PointerID
	v.moved = false

	if !v.locked {
		// Zoom in around the pressed point. Its image position is taken from
		// the unzoomed placement currently on screen.
		v.zoomCenter = Vec2{ev.X, ev.Y}
		v.zoomCenterUnit = v.unitAt(ev.X, ev.Y)
		v.pan = Vec2{}
		v.zoomed = true
	}
	v.reposition()
	return true
}

// PointerMove pans the image while dragging.
func (v *Viewport) PointerMove(ev PointerEvent) {
	if v.disposed || !v.dragging || ev.PointerID != v.dragPointer {
		return
	}
	if ev.Movement == (Vec2{}) {
		return
	}
	v.moved = true
	v.pan = v.pan.Add(ev.Movement.Mul(v.cfg.PanMultiplier))
	v.reposition()
}

// PointerUp ends the drag. If the pointer never moved, OnClick is called.
func (v *Viewport) PointerUp(ev PointerEvent) {
	if v.disposed || !v.dragging || ev.PointerID != v.dragPointer {
		return
	}
	moved := v.moved
	v.endDrag()
	if !moved && v.cfg.OnClick != nil {
		v.cfg.OnClick()
	}
}

// Blur ends any drag in progress, for example when the window loses focus.
func (v *Viewport) Blur() {
	if v.disposed || !v.dragging {
		return
	}
	v.endDrag()
}

func (v *Viewport) endDrag() {
	v.releasePointer()
	if v.surface != nil {
		v.surface.SetCursorVisible(true)
	}
	v.dragging = false
	v.moved = false
	if !v.locked {
		v.zoomed = false
	}
	v.reposition()
}

func (v *Viewport) capturePointer(id int) {
	v.capture = captureNone
	if v.surface == nil {
		return
	}
	if v.surface.CapturePointer(id) {
		v.capture = captureFine
		return
	}
	if cc, ok := v.surface.(CoarseCapturer); ok {
		cc.CaptureAll()
		v.capture = captureCoarse
	}
}

func (v *Viewport) releasePointer() {
	switch v.capture {
	case captureFine:
		v.surface.ReleasePointer(v.dragPointer)
	case captureCoarse:
		v.surface.(CoarseCapturer).ReleaseAll()
	}
	v.capture = captureNone
}

// Placement returns where the image is currently drawn.
func (v *Viewport) Placement() Placement { return v.placement }

// State returns the current zoom and pan.
func (v *Viewport) State() ViewportState {
	return ViewportState{
		Scale:          v.placement.Scale,
		Translation:    Vec2{v.placement.X, v.placement.Y},
		ZoomLevelIndex: v.zoomLevel,
		ZoomCenterUnit: v.zoomCenterUnit,
		LockedZoom:     v.locked,
	}
}

// Dispose detaches the viewport. Any drag is ended and all further calls
// are no-ops.
func (v *Viewport) Dispose() {
	if v.disposed {
		return
	}
	if v.dragging {
		v.releasePointer()
		if v.surface != nil {
			v.surface.SetCursorVisible(true)
		}
		v.dragging = false
	}
	v.pending = nil
	v.disposed = true
}

// Disposed reports whether Dispose has been called.
func (v *Viewport) Disposed() bool { return v.disposed }

func (v *Viewport) clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if n := len(v.cfg.ZoomLevels); level >= n {
		return n - 1
	}
	return level
}

func (v *Viewport) prefsChanged() {
	if v.cfg.OnPrefsChanged != nil {
		v.cfg.OnPrefsChanged(*v.cfg.Prefs)
	}
}

func (v *Viewport) zoomActive() bool {
	return v.locked || v.zoomed
}

// unitAt converts a container point to unit image coordinates using the
// current placement.
func (v *Viewport) unitAt(x, y float64) Vec2 {
	p := v.placement
	if p.Width <= 0 || p.Height <= 0 {
		return Vec2{0.5, 0.5}
	}
	return Vec2{
		X: clamp((x-p.X)/p.Width, 0, 1),
		Y: clamp((y-p.Y)/p.Height, 0, 1),
	}
}

// reposition recomputes the placement from the current state.
func (v *Viewport) reposition() {
	if v.disposed {
		return
	}
	if !v.hasImage || v.container.Empty() {
		v.placement.Visible = false
		v.changed()
		return
	}

	cw, ch := v.container.Width, v.container.Height
	iw, ih := v.image.Width, v.image.Height

	// Screen-fit scale: the whole image fits inside the container.
	base := math.Min(cw/iw, ch/ih)
	active := v.zoomActive()
	level := v.cfg.ZoomLevels[v.zoomLevel]

	factor := 1.0
	if active {
		if level.Cover {
			factor = math.Max(cw/iw, ch/ih) / base
		} else if level.Factor > 0 {
			factor = level.Factor
		}
	}
	scale := base * factor
	w, h := iw*scale, ih*scale

	var x, y float64
	switch {
	case !active:
		x, y = (cw-w)/2, (ch-h)/2
	case v.locked:
		x = (cw-w)/2 + v.pan.X
		y = (ch-h)/2 + v.pan.Y
	default:
		// Keep the pressed image point under the press position.
		x = v.zoomCenter.X - v.zoomCenterUnit.X*w + v.pan.X
		y = v.zoomCenter.Y - v.zoomCenterUnit.Y*h + v.pan.Y
	}

	if active {
		clampEdges := level.Cover || v.locked
		nx := fitAxis(x, w, cw, clampEdges)
		ny := fitAxis(y, h, ch, clampEdges)

		// Feed the adjustment back into the pan so the next drag moves the
		// image immediately instead of first unwinding the overshoot.
		v.pan.X += nx - x
		v.pan.Y += ny - y
		x, y = nx, ny
	}

	v.placement = Placement{X: x, Y: y, Width: w, Height: h, Scale: scale, Visible: true}
	v.changed()
}

func (v *Viewport) changed() {
	if v.cfg.OnChange != nil {
		v.cfg.OnChange(v.placement)
	}
}

// fitAxis centres an axis smaller than the container, and optionally clamps a
// larger one so its edges never come inside the container.
func fitAxis(pos, size, container float64, clampEdges bool) float64 {
	if size <= container {
		return (container - size) / 2
	}
	if clampEdges {
		return clamp(pos, container-size, 0)
	}
	return pos
}
