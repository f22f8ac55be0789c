// Package lightbox is the pointer-driven transform and animation engine of a
// media viewer, for [Ebitengine] hosts.
//
// It has no rendering of its own. Hosts feed pointer events and frame ticks
// in and read positions, placements and visibility out, then draw however
// they like. Every component is frame-driven: call Update(dt) once per tick
// from the game loop.
//
// # Quick start
//
// A host game wires a [Viewport] for the current image and a
// [SwipeCoordinator] to move between images:
//
//	vp := lightbox.NewViewport(lightbox.ViewportConfig{}, input.Surface{Tracker: tr})
//	vp.SetContainerSize(800, 600)
//	vp.SetImage(lightbox.FixedSize{Width: 1600, Height: 1200})
//
//	func (g *Game) Update() error {
//		g.tracker.Poll()
//		g.viewport.Update(1.0 / 60)
//		g.swipe.Update(1.0 / 60)
//		return nil
//	}
//
// The input subpackage turns Ebitengine mouse and touch state into the
// press, drag and click events these components consume.
//
// # Components
//
// [FlingVelocity] estimates release velocity over a short time window.
//
// [CubicBezier] and [CurveForVelocity] build easing curves whose initial
// slope matches the velocity a gesture was released with, so an animation
// continues a fling without a visible jolt. [Tween] runs a curve over time
// using [gween].
//
// [Viewport] fits an image into a container and handles the zoom table,
// click-to-pan and locked zoom modes.
//
// [GeneratePlan] produces the keyframes for the slideshow, auto-pan and loop
// modes from a [PanDescriptor], and [PanStore] persists descriptors per
// media item.
//
// [Dragger] maps a one-dimensional drag onto a property range for panels
// and drawers, and settles open or closed on release.
//
// [SwipeCoordinator] lays out the current viewer and its neighbours side by
// side and commits the swipe to the next or previous item.
//
// [Settings] is the YAML-backed preference file.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package lightbox
