package strata_test

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/phanxgames/strata"
	"github.com/phanxgames/strata/softhost"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newTestSystem returns a system on a 4x4 CPU host.
func newTestSystem(t *testing.T) (*strata.System, *softhost.Host) {
	t.Helper()
	host := softhost.New(4, 4, 1)
	sys, err := strata.NewSystem(host)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	t.Cleanup(sys.Dispose)
	return sys, host
}

// captureLogs routes strata diagnostics into an in-memory observer for the
// duration of the test.
func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	strata.SetLogger(zap.New(core))
	t.Cleanup(func() { strata.SetLogger(nil) })
	return logs
}

func warnings(logs *observer.ObservedLogs) int {
	return logs.FilterLevelExact(zapcore.WarnLevel).Len()
}

func mustCreate(t *testing.T, sys *strata.System, name string, opts ...strata.LayerOption) *strata.Layer {
	t.Helper()
	l, err := sys.CreateLayer(name, opts...)
	if err != nil {
		t.Fatalf("CreateLayer(%q): %v", name, err)
	}
	return l
}

func TestLayerDefaults(t *testing.T) {
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	if !l.Visible() {
		t.Error("layer should be visible by default")
	}
	if l.Opacity() != 1 {
		t.Errorf("Opacity = %v, want 1", l.Opacity())
	}
	if l.BlendMode() != strata.BlendNormal {
		t.Errorf("BlendMode = %v, want NORMAL", l.BlendMode())
	}
	if l.ZIndex() != l.ID() {
		t.Errorf("ZIndex = %d, want ID %d", l.ZIndex(), l.ID())
	}
	if l.CustomSize() {
		t.Error("layer without size options should track the host")
	}
	if l.Width() != 4 || l.Height() != 4 || l.Density() != 1 {
		t.Errorf("size = %dx%d@%v, want 4x4@1", l.Width(), l.Height(), l.Density())
	}
	if l.HasMask() || l.HasBeenDrawnTo() {
		t.Error("new layer should have no mask and no content")
	}
}

func TestSetOpacityClamps(t *testing.T) {
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{1.5, 1},
		{0.3, 0.3},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		l.SetOpacity(tt.in)
		if l.Opacity() != tt.want {
			t.Errorf("SetOpacity(%v) stored %v, want %v", tt.in, l.Opacity(), tt.want)
		}
	}
}

func TestSetBlendModeInvalidFallsBack(t *testing.T) {
	logs := captureLogs(t)
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	l.SetBlendMode(strata.BlendScreen)
	if l.BlendMode() != strata.BlendScreen {
		t.Fatalf("BlendMode = %v, want SCREEN", l.BlendMode())
	}
	l.SetBlendMode(strata.BlendMode(99))
	if l.BlendMode() != strata.BlendNormal {
		t.Errorf("BlendMode = %v, want NORMAL after invalid value", l.BlendMode())
	}
	if warnings(logs) != 1 {
		t.Errorf("warnings = %d, want 1", warnings(logs))
	}
}

func TestParseBlendModeInvalidStrings(t *testing.T) {
	logs := captureLogs(t)
	for _, name := range []string{"", "vivid_light", "MULTIPLYY", "42"} {
		if got := strata.ParseBlendMode(name); got != strata.BlendNormal {
			t.Errorf("ParseBlendMode(%q) = %v, want NORMAL", name, got)
		}
	}
	if warnings(logs) != 4 {
		t.Errorf("warnings = %d, want 4", warnings(logs))
	}
	if got := strata.ParseBlendMode("color_burn"); got != strata.BlendColorBurn {
		t.Errorf("ParseBlendMode(color_burn) = %v, want COLOR_BURN", got)
	}
}

func TestGetBlendModeIndex(t *testing.T) {
	if got := strata.GetBlendModeIndex("EXCLUSION"); got != 13 {
		t.Errorf("EXCLUSION = %d, want 13", got)
	}
	if got := strata.GetBlendModeIndex("unknown"); got != 0 {
		t.Errorf("unknown = %d, want 0", got)
	}
}

func TestChaining(t *testing.T) {
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	l.Hide().SetOpacity(0.4).SetBlendMode(strata.BlendDarken).SetZIndex(9).Show()
	if !l.Visible() || l.Opacity() != 0.4 || l.BlendMode() != strata.BlendDarken || l.ZIndex() != 9 {
		t.Errorf("chained setters not applied: %+v", l.Info())
	}
}

func TestSetMaskNilIsNoOp(t *testing.T) {
	logs := captureLogs(t)
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	mask := softhost.NewImage(image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	l.SetMask(mask)
	l.SetMask(nil)
	if !l.HasMask() {
		t.Error("SetMask(nil) must not clear the mask")
	}
	if warnings(logs) != 1 {
		t.Errorf("warnings = %d, want 1", warnings(logs))
	}
	l.ClearMask()
	if l.HasMask() {
		t.Error("ClearMask should remove the mask")
	}
}

func TestLayerBeginEnd(t *testing.T) {
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	c := l.Begin()
	if c == nil {
		t.Fatal("Begin returned nil canvas")
	}
	fb := l.Buffer().(*softhost.Framebuffer)
	if !fb.Drawing() {
		t.Error("buffer should be drawing after Begin")
	}
	c.Fill(color.NRGBA{1, 2, 3, 255})
	l.End()
	if fb.Drawing() {
		t.Error("buffer should not be drawing after End")
	}
	if !l.HasBeenDrawnTo() {
		t.Error("HasBeenDrawnTo should be true after End")
	}
}

func TestLayerBeginAfterDispose(t *testing.T) {
	logs := captureLogs(t)
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	l.Dispose()
	if c := l.Begin(); c != nil {
		t.Error("Begin on disposed layer should return nil")
	}
	l.End()
	if warnings(logs) != 2 {
		t.Errorf("warnings = %d, want 2", warnings(logs))
	}
}

func TestLayerDisposeIdempotent(t *testing.T) {
	sys, host := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	live := host.LiveBuffers()
	l.Dispose()
	l.Dispose()
	if !l.Disposed() || l.Buffer() != nil {
		t.Error("layer should be disposed with nil buffer")
	}
	if host.LiveBuffers() != live-1 {
		t.Errorf("live buffers = %d, want %d", host.LiveBuffers(), live-1)
	}
}

func TestLayerResizeCustomSize(t *testing.T) {
	sys, host := newTestSystem(t)
	l := mustCreate(t, sys, "a")

	if err := l.Resize(8, 2, 0); err != nil {
		t.Fatal(err)
	}
	if !l.CustomSize() {
		t.Error("resize away from host size should set CustomSize")
	}
	if b := l.Buffer().Bounds(); b.Dx() != 8 || b.Dy() != 2 {
		t.Errorf("buffer bounds = %v, want 8x2", b)
	}

	if err := l.Resize(host.Width(), host.Height(), host.PixelDensity()); err != nil {
		t.Fatal(err)
	}
	if l.CustomSize() {
		t.Error("resize to exact host size should clear CustomSize")
	}
}

func TestLayerResizeFailure(t *testing.T) {
	captureLogs(t)
	sys, host := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	host.FailAllocations(1)
	err := l.Resize(2, 2, 1)
	if !errors.Is(err, softhost.ErrAllocation) {
		t.Fatalf("err = %v, want ErrAllocation", err)
	}
	if l.Buffer() != nil {
		t.Error("failed resize should leave no buffer")
	}
	if l.Disposed() {
		t.Error("failed resize should not dispose the layer")
	}
	if err := l.Resize(3, 3, 1); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if b := l.Buffer(); b == nil || b.Bounds().Dx() != 3 {
		t.Errorf("buffer after retry = %v, want 3x3", b)
	}
}

func TestResizeDisposedLayer(t *testing.T) {
	captureLogs(t)
	tests := []struct {
		name    string
		dispose func(*strata.System, *strata.Layer)
	}{
		{"removed", func(s *strata.System, _ *strata.Layer) { s.RemoveLayer(strata.Name("a")) }},
		{"disposed", func(_ *strata.System, l *strata.Layer) { l.Dispose() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, host := newTestSystem(t)
			l := mustCreate(t, sys, "a")
			tt.dispose(sys, l)
			live, allocs := host.LiveBuffers(), host.Allocations()

			err := l.Resize(4, 4, 1)
			if !errors.Is(err, strata.ErrDisposed) {
				t.Errorf("err = %v, want ErrDisposed", err)
			}
			if !l.Disposed() || l.Buffer() != nil {
				t.Error("layer must stay disposed without a buffer")
			}
			if host.LiveBuffers() != live || host.Allocations() != allocs {
				t.Errorf("live/allocs = %d/%d, want %d/%d",
					host.LiveBuffers(), host.Allocations(), live, allocs)
			}
			if l.Begin() != nil {
				t.Error("Begin on a disposed layer should return nil")
			}
		})
	}
}

func TestResizeWhileDrawing(t *testing.T) {
	logs := captureLogs(t)
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "a")
	if sys.Begin(strata.Name("a")) == nil {
		t.Fatal("Begin returned nil")
	}
	buf := l.Buffer()

	err := l.Resize(8, 8, 1)
	if !errors.Is(err, strata.ErrLayerActive) {
		t.Errorf("err = %v, want ErrLayerActive", err)
	}
	if l.Buffer() != buf || l.Width() != 4 {
		t.Error("refused resize must leave the buffer and size alone")
	}
	if !buf.(*softhost.Framebuffer).Drawing() || !l.Drawing() {
		t.Error("layer should still be drawing")
	}
	if warnings(logs) != 1 {
		t.Errorf("warnings = %d, want 1", warnings(logs))
	}

	sys.End()
	if l.Drawing() || !l.HasBeenDrawnTo() {
		t.Error("End should finish drawing into the original buffer")
	}
	if err := l.Resize(8, 8, 1); err != nil {
		t.Errorf("resize after End: %v", err)
	}
}

func TestCreateLayerExplicitSize(t *testing.T) {
	sys, _ := newTestSystem(t)
	tests := []struct {
		name string
		opt  strata.LayerOption
		w, h int
		d    float64
	}{
		{"size", strata.WithSize(2, 3), 2, 3, 1},
		{"width", strata.WithWidth(2), 2, 4, 1},
		{"height", strata.WithHeight(3), 4, 3, 1},
		{"density", strata.WithDensity(2), 4, 4, 2},
	}
	for _, tt := range tests {
		l := mustCreate(t, sys, tt.name, tt.opt)
		if !l.CustomSize() {
			t.Errorf("%s: CustomSize should be true", tt.name)
		}
		if l.Width() != tt.w || l.Height() != tt.h || l.Density() != tt.d {
			t.Errorf("%s: size = %dx%d@%v, want %dx%d@%v",
				tt.name, l.Width(), l.Height(), l.Density(), tt.w, tt.h, tt.d)
		}
	}
}

func TestCreateLayerAllocationFailure(t *testing.T) {
	sys, host := newTestSystem(t)
	host.FailAllocations(1)
	_, err := sys.CreateLayer("a")
	if !errors.Is(err, softhost.ErrAllocation) {
		t.Fatalf("err = %v, want ErrAllocation", err)
	}
	if len(sys.Layers()) != 0 {
		t.Error("failed layer must not be registered")
	}
	l := mustCreate(t, sys, "b")
	if l.ID() != 0 {
		t.Errorf("ID = %d, want 0 (failed creation does not consume an ID)", l.ID())
	}
}

func TestCreateLayerInvalidSize(t *testing.T) {
	sys, _ := newTestSystem(t)
	_, err := sys.CreateLayer("a", strata.WithSize(-1, 4))
	if !errors.Is(err, strata.ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestLayerInfoJSON(t *testing.T) {
	sys, _ := newTestSystem(t)
	l := mustCreate(t, sys, "fg", strata.WithOpacity(0.5), strata.WithBlendMode(strata.BlendOverlay))
	data, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"id":             0.0,
		"name":           "fg",
		"visible":        true,
		"opacity":        0.5,
		"blendMode":      "OVERLAY",
		"zIndex":         0.0,
		"hasMask":        false,
		"hasBeenDrawnTo": false,
		"width":          4.0,
		"height":         4.0,
		"density":        1.0,
		"customSize":     false,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if len(got) != len(want) {
		t.Errorf("got %d keys, want %d", len(got), len(want))
	}
}
