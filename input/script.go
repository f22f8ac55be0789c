package input

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a gesture script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// Runner plays a gesture script through a Tracker's inject queue, one step
// per frame once the previous step's events are consumed. Attach it with
// Tracker.SetRunner.
//
// Actions: press, move, release, click and blur take x/y; drag takes
// fromX/fromY/toX/toY/frames; wait takes frames; mark logs its label.
type Runner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON gesture script.
func LoadScript(data []byte) (*Runner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("input: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("input: parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "press", "move", "release", "click", "blur", "drag", "wait", "mark":
		default:
			return nil, fmt.Errorf("input: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Runner{steps: s.Steps}, nil
}

// SetRunner attaches a script runner. Pass nil to detach.
func (t *Tracker) SetRunner(r *Runner) {
	t.runner = r
}

// Done reports whether every step has run and its events were consumed.
func (r *Runner) Done() bool {
	return r.done
}

func (r *Runner) step(t *Tracker) {
	if r.done {
		return
	}
	// Let queued events drain first.
	if len(t.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		t.InjectPress(st.X, st.Y)
	case "move":
		t.InjectMove(st.X, st.Y)
	case "release":
		t.InjectRelease(st.X, st.Y)
	case "click":
		t.InjectClick(st.X, st.Y)
	case "blur":
		t.InjectBlur()
	case "drag":
		t.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "mark":
		logger.Info().Str("label", st.Label).Int("step", r.cursor).Msg("script mark")
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(t.injectQueue) == 0 {
		r.done = true
	}
}
