package lightbox

import (
	"fmt"
	"math"
)

// Mode selects how a pan animation is used. The modes differ only in a few
// numeric and easing choices.
type Mode uint8

const (
	ModeSlideshow Mode = iota // one pass per image, cross-faded between images
	ModeLoop                  // the same image panned repeatedly
	ModeAutoPan               // a single pan that settles on its end framing
)

// String returns the mode's name.
func (m Mode) String() string {
	switch m {
	case ModeSlideshow:
		return "slideshow"
	case ModeLoop:
		return "loop"
	case ModeAutoPan:
		return "auto-pan"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses a mode name as returned by String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "slideshow":
		return ModeSlideshow, nil
	case "loop":
		return ModeLoop, nil
	case "auto-pan":
		return ModeAutoPan, nil
	}
	return 0, fmt.Errorf("lightbox: unknown pan mode %q", s)
}

const (
	// Orientation thresholds: how much wider than the container an image
	// must be, relative to the container's aspect ratio, before the
	// horizontal default is used.
	landscapeThreshold         = 1.1
	portraitContainerThreshold = 1.5

	// Speed cap, as a fraction of the container diagonal per second.
	speedCapShort = 0.5
	speedCapLong  = 0.25
	// Target durations the speed cap interpolates between.
	speedCapShortDuration = 5.0
	speedCapLongDuration  = 15.0

	// Easing strength is full up to easeFullDuration and decays to linear
	// by easeLinearDuration.
	easeFullDuration   = 5.0
	easeLinearDuration = 30.0
	// Loops always keep at least this much of their ease-in-out.
	loopMinEaseStrength = 0.5

	fadeFraction = 0.1
	maxFade      = 2.5

	// Plans shorter than this get no fades; a tenth of them would only
	// flicker.
	minFadedDuration = 2.0
)

// Default pan descriptors.
var (
	// DefaultSlideshowPan is a corner-to-corner pan with a slight zoom out.
	DefaultSlideshowPan = PanDescriptor{X1: 0, Y1: 0, X2: 1, Y2: 1, StartZoom: 1.25, EndZoom: 1}
	// DefaultPortraitPan pans top to bottom while zooming in a little.
	DefaultPortraitPan = PanDescriptor{X1: 0.5, Y1: 0, X2: 0.5, Y2: 1, StartZoom: 1, EndZoom: 1.1}
	// DefaultLandscapePan pans left to right.
	DefaultLandscapePan = PanDescriptor{X1: 0, Y1: 0.5, X2: 1, Y2: 0.5, StartZoom: 1, EndZoom: 1}
)

// PlanRequest is the input to GeneratePlan.
type PlanRequest struct {
	// Descriptor is the framing to animate. Nil selects the built-in default
	// for the mode.
	Descriptor *PanDescriptor

	ImageWidth, ImageHeight         float64
	ContainerWidth, ContainerHeight float64

	// MinimumZoom is the smallest zoom either keyframe may use, relative to
	// the screen-fit scale.
	MinimumZoom float64
	Mode        Mode
	// Duration is the target duration in seconds.
	Duration float64
	// NoClamp disables keeping the image covering the container, so an
	// editor can show the true position of an anchor.
	NoClamp bool
}

// KeyframePoint is one end of a pan: the image's top-left translation in
// container pixels, its displayed size, and the image-to-container scale.
type KeyframePoint struct {
	TX, TY       float64
	ZoomedWidth  float64
	ZoomedHeight float64
	Scale        float64
}

// AnimationPlan is a two-keyframe camera animation.
type AnimationPlan struct {
	Pan [2]KeyframePoint
	// Duration is in seconds.
	Duration float64
	// Easing is the curve in CSS syntax; Curve is the same curve for
	// evaluation.
	Easing  string
	Curve   CubicBezier
	FadeIn  float64
	FadeOut float64
}

// GeneratePlan converts a pan descriptor and geometry into an animation.
// It is a pure function of its input.
func GeneratePlan(req PlanRequest) AnimationPlan {
	image := Size{req.ImageWidth, req.ImageHeight}
	container := Size{req.ContainerWidth, req.ContainerHeight}
	if image.Empty() || container.Empty() {
		return AnimationPlan{Duration: math.Max(req.Duration, 0), Easing: Linear.String(), Curve: Linear}
	}

	desc := DefaultPan(req.Mode, image, container)
	if req.Descriptor != nil {
		desc = *req.Descriptor
	}
	anchor := desc.AnchorPoint()

	var plan AnimationPlan
	plan.Pan[0] = keyframe(desc.X1, desc.Y1, desc.StartZoom, anchor, image, container, req)
	plan.Pan[1] = keyframe(desc.X2, desc.Y2, desc.EndZoom, anchor, image, container, req)

	plan.Duration = cappedDuration(req.Duration, plan.Pan, image, container)
	plan.Curve = modeCurve(req.Mode, plan.Duration)
	plan.Easing = plan.Curve.String()

	if req.Mode == ModeSlideshow || req.Mode == ModeLoop {
		fade := math.Min(plan.Duration*fadeFraction, maxFade)
		if plan.Duration >= minFadedDuration && fade*2 <= plan.Duration {
			plan.FadeIn, plan.FadeOut = fade, fade
		}
	}
	return plan
}

// DefaultPan returns the built-in descriptor for a mode. Slideshows use a
// diagonal pan; other modes pick a horizontal or vertical pan by comparing
// the image's aspect ratio with the container's.
func DefaultPan(mode Mode, image, container Size) PanDescriptor {
	if mode == ModeSlideshow {
		return DefaultSlideshowPan
	}
	if container.Empty() || image.Empty() {
		return DefaultLandscapePan
	}
	threshold := landscapeThreshold
	if container.Height > container.Width {
		// Portrait screens suit the vertical pan even for mildly wide
		// images.
		threshold = portraitContainerThreshold
	}
	if image.Aspect()/container.Aspect() > threshold {
		return DefaultLandscapePan
	}
	return DefaultPortraitPan
}

// CoverZoom returns the zoom, relative to the screen-fit scale, at which the
// image fills the container.
func CoverZoom(image, container Size) float64 {
	if image.Empty() || container.Empty() {
		return 1
	}
	sx := container.Width / image.Width
	sy := container.Height / image.Height
	return math.Max(sx, sy) / math.Min(sx, sy)
}

func keyframe(x, y, zoom float64, anchor Vec2, image, container Size, req PlanRequest) KeyframePoint {
	zoom = math.Max(zoom, req.MinimumZoom)
	if zoom <= 0 {
		zoom = 1
	}
	base := math.Min(container.Width/image.Width, container.Height/image.Height)
	scale := base * zoom
	zw, zh := image.Width*scale, image.Height*scale

	// Put the descriptor's image point under the container's anchor point.
	tx := anchor.X*container.Width - x*zw
	ty := anchor.Y*container.Height - y*zh
	if !req.NoClamp {
		tx = fitAxis(tx, zw, container.Width, true)
		ty = fitAxis(ty, zh, container.Height, true)
	}
	return KeyframePoint{TX: tx, TY: ty, ZoomedWidth: zw, ZoomedHeight: zh, Scale: scale}
}

// cappedDuration lengthens the target duration when the fastest-moving image
// corner would exceed the speed cap. Longer targets get a lower cap.
func cappedDuration(target float64, pan [2]KeyframePoint, image, container Size) float64 {
	target = math.Max(target, 0)
	corners := [4]Vec2{{0, 0}, {image.Width, 0}, {0, image.Height}, {image.Width, image.Height}}
	maxDist := 0.0
	for _, c := range corners {
		p0 := Vec2{pan[0].TX + c.X*pan[0].Scale, pan[0].TY + c.Y*pan[0].Scale}
		p1 := Vec2{pan[1].TX + c.X*pan[1].Scale, pan[1].TY + c.Y*pan[1].Scale}
		maxDist = math.Max(maxDist, p1.Sub(p0).Len())
	}

	k := clamp((target-speedCapShortDuration)/(speedCapLongDuration-speedCapShortDuration), 0, 1)
	diag := math.Hypot(container.Width, container.Height)
	maxSpeed := diag * lerp(speedCapShort, speedCapLong, k)
	if maxSpeed <= 0 {
		return target
	}
	return math.Max(target, maxDist/maxSpeed)
}

func modeCurve(mode Mode, duration float64) CubicBezier {
	strength := 1 - clamp((duration-easeFullDuration)/(easeLinearDuration-easeFullDuration), 0, 1)
	switch mode {
	case ModeAutoPan:
		return Linear.Lerp(EaseOutCubic, strength)
	case ModeLoop:
		return Linear.Lerp(EaseInOutCubic, math.Max(strength, loopMinEaseStrength))
	default:
		// Cross-fades carry slideshows.
		return Linear
	}
}

// At returns the camera at t seconds into the plan.
func (p AnimationPlan) At(t float64) KeyframePoint {
	progress := 1.0
	if p.Duration > 0 {
		progress = p.Curve.At(clamp(t/p.Duration, 0, 1))
	}
	a, b := p.Pan[0], p.Pan[1]
	return KeyframePoint{
		TX:           lerp(a.TX, b.TX, progress),
		TY:           lerp(a.TY, b.TY, progress),
		ZoomedWidth:  lerp(a.ZoomedWidth, b.ZoomedWidth, progress),
		ZoomedHeight: lerp(a.ZoomedHeight, b.ZoomedHeight, progress),
		Scale:        lerp(a.Scale, b.Scale, progress),
	}
}

// Opacity returns the fade multiplier at t seconds into the plan.
func (p AnimationPlan) Opacity(t float64) float64 {
	alpha := 1.0
	if p.FadeIn > 0 && t < p.FadeIn {
		alpha = math.Max(t, 0) / p.FadeIn
	}
	if p.FadeOut > 0 && t > p.Duration-p.FadeOut {
		alpha = math.Min(alpha, math.Max(p.Duration-t, 0)/p.FadeOut)
	}
	return alpha
}
