package strata

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string   `json:"action"`
	Layer  string   `json:"layer,omitempty"`
	Label  string   `json:"label,omitempty"`
	Mode   string   `json:"mode,omitempty"`
	Value  float64  `json:"value,omitempty"`
	Layers []string `json:"layers,omitempty"`
	Frames int      `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure of a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences layer changes and screenshots across frames for
// automated visual checks. Call Step once per frame; a frame ends at the
// next screenshot or wait.
//
// Actions: "show", "hide", "opacity" (value), "blend" (mode), "z" (value),
// "move" (value), "reorder" (layers, bottom first), "wait" (frames) and
// "screenshot" (label). Layers are referenced by name.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// ScreenshotFunc captures the current frame under label.
type ScreenshotFunc func(label string)

var errEmptyScript = errors.New("no steps")

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", errEmptyScript)
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has executed.
func (r *Script) Done() bool {
	return r.done
}

// Step runs one frame of the script against sys: consecutive actions
// execute until a screenshot (handed to shot), a wait or the end of the
// script. A wait of n frames covers this frame and the next n-1. Unknown
// actions and layers are logged and skipped.
func (r *Script) Step(sys *System, shot ScreenshotFunc) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.done = r.cursor >= len(r.steps) && r.waitCount == 0
		return
	}
	for r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		r.cursor++
		if r.run(sys, st, shot) {
			break
		}
	}
	r.done = r.cursor >= len(r.steps) && r.waitCount == 0
}

// run executes st and reports whether it ends the frame.
func (r *Script) run(sys *System, st scriptStep, shot ScreenshotFunc) bool {
	ref := Name(st.Layer)
	switch st.Action {
	case "screenshot":
		if shot != nil {
			shot(st.Label)
		}
		return true
	case "wait":
		if st.Frames > 1 {
			r.waitCount = st.Frames - 1
		}
		return true
	case "show":
		sys.Show(ref)
	case "hide":
		sys.Hide(ref)
	case "opacity":
		sys.SetOpacity(ref, st.Value)
	case "blend":
		sys.SetBlendMode(ref, ParseBlendMode(st.Mode))
	case "z":
		sys.SetLayerIndex(ref, int(st.Value))
	case "move":
		sys.MoveLayer(ref, int(st.Value))
	case "reorder":
		r.reorder(sys, st.Layers)
	default:
		Logger().Warn("script: unknown action", zap.String("action", st.Action), zap.Int("step", r.cursor-1))
	}
	return false
}

func (r *Script) reorder(sys *System, names []string) {
	ids := make([]int, 0, len(names))
	for _, n := range names {
		l := sys.resolve("script reorder", Name(n))
		if l == nil {
			return
		}
		ids = append(ids, l.id)
	}
	// ReorderLayers logs the rejection itself.
	_ = sys.ReorderLayers(ids)
}
