package lightbox

import "testing"

func TestHubDispatch(t *testing.T) {
	var h Hub
	var got []int
	a := h.OnPointerDown(func(PointerEvent) { got = append(got, 1) })
	h.OnPointerDown(func(PointerEvent) { got = append(got, 2) })

	h.Dispatch(PointerEvent{})
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("calls = %v, want [1 2]", got)
	}

	a.Remove()
	a.Remove()
	got = nil
	h.Dispatch(PointerEvent{})
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("calls after Remove = %v, want [2]", got)
	}
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

func TestHubRemoveDuringDispatch(t *testing.T) {
	var h Hub
	var second CallbackHandle
	calls := 0
	h.OnPointerDown(func(PointerEvent) {
		calls++
		second.Remove()
	})
	second = h.OnPointerDown(func(PointerEvent) { calls++ })

	h.Dispatch(PointerEvent{})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCallbackHandleZeroValue(t *testing.T) {
	var c CallbackHandle
	if c.Valid() {
		t.Error("zero handle should not be valid")
	}
	c.Remove()
}
