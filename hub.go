package lightbox

type pointerHandler struct {
	id uint32
	fn func(PointerEvent)
}

// Hub is a scene-level registry of pointer-down listeners. The host forwards
// every pointer-down to Dispatch; components that need to see presses
// anywhere in the scene (such as a dragger that closes on outside clicks)
// register while they need them and remove their handle afterwards.
type Hub struct {
	pointerDown []pointerHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	hub *Hub
}

// OnPointerDown registers a callback for pointer-down events.
func (h *Hub) OnPointerDown(fn func(PointerEvent)) CallbackHandle {
	h.nextID++
	id := h.nextID
	h.pointerDown = append(h.pointerDown, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, hub: h}
}

// Dispatch calls every registered pointer-down callback. Callbacks may
// remove themselves or others while running.
func (h *Hub) Dispatch(ev PointerEvent) {
	handlers := append([]pointerHandler(nil), h.pointerDown...)
	for _, ph := range handlers {
		if h.registered(ph.id) {
			ph.fn(ev)
		}
	}
}

// Len returns the number of registered callbacks.
func (h *Hub) Len() int { return len(h.pointerDown) }

func (h *Hub) registered(id uint32) bool {
	for i := range h.pointerDown {
		if h.pointerDown[i].id == id {
			return true
		}
	}
	return false
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// harmless.
func (c CallbackHandle) Remove() {
	if c.hub == nil {
		return
	}
	s := c.hub.pointerDown
	for i := range s {
		if s[i].id == c.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			c.hub.pointerDown = s[:len(s)-1]
			return
		}
	}
}

// Valid reports whether the handle refers to a registration.
func (c CallbackHandle) Valid() bool { return c.hub != nil }
