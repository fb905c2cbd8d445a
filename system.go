package strata

import (
	"fmt"

	"go.uber.org/zap"
)

// System owns a stack of layers and composites them once per frame.
//
// A System is not safe for concurrent use. Begin/End pairs and Render are
// expected on the thread that drives the host's frame loop, and Begin/End
// must not straddle a Render.
type System struct {
	host       Host
	compositor *Compositor
	observer   Observer

	layers map[int]*Layer
	// order holds live layers in creation order; stable sorting over it
	// breaks zIndex ties.
	order  []*Layer
	names  map[string]int
	nextID int
	active *Layer

	autoResize bool
	lastWidth  int
	lastHeight int
	lastDens   float64

	disposed bool
}

// NewSystem creates a layer system drawing through host. It fails with
// ErrUnsupportedHost when host cannot allocate off-screen buffers or compile
// programs.
func NewSystem(host Host, opts ...SystemOption) (*System, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: nil host", ErrUnsupportedHost)
	}
	if caps := host.Capabilities(); !caps.Has(CapRequired) {
		return nil, fmt.Errorf("%w: capabilities %#x", ErrUnsupportedHost, uint8(caps))
	}
	s := &System{
		host:       host,
		compositor: NewCompositor(host),
		layers:     make(map[int]*Layer),
		names:      make(map[string]int),
		autoResize: true,
		lastWidth:  host.Width(),
		lastHeight: host.Height(),
		lastDens:   host.PixelDensity(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.observer != nil {
		s.observer.Update(s.Layers())
	}
	return s, nil
}

// Host returns the render host.
func (s *System) Host() Host { return s.host }

// Compositor returns the system's compositor.
func (s *System) Compositor() *Compositor { return s.compositor }

// Disposed reports whether Dispose has been called.
func (s *System) Disposed() bool { return s.disposed }

// CreateLayer allocates a new layer on top of the stack (its zIndex is its
// ID unless WithZIndex is given). A non-empty name is registered for lookup,
// replacing any earlier layer registered under the same name; that layer
// stays reachable by ID.
func (s *System) CreateLayer(name string, opts ...LayerOption) (*Layer, error) {
	if s.disposed {
		return nil, ErrDisposed
	}
	cfg := defaultLayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	id := s.nextID
	l, err := newLayer(s.host, id, name, cfg)
	if err != nil {
		return nil, err
	}
	s.nextID++
	s.layers[id] = l
	s.order = append(s.order, l)
	if name != "" {
		if prev, ok := s.names[name]; ok {
			Logger().Debug("layer name reassigned",
				zap.String("name", name),
				zap.Int("from", prev),
				zap.Int("to", id))
		}
		s.names[name] = id
	}
	Logger().Debug("created layer",
		zap.Int("layer", id),
		zap.String("name", name),
		zap.Int("width", l.width),
		zap.Int("height", l.height),
		zap.Bool("customSize", l.customSize))
	s.notifyUpdate()
	return l, nil
}

// resolve looks up ref, logging a warning naming op when it is unknown.
func (s *System) resolve(op string, ref LayerRef) *Layer {
	if ref == nil {
		Logger().Warn(op+": nil layer reference")
		return nil
	}
	l := ref.lookup(s)
	if l == nil {
		Logger().Warn(op+": layer not found", zap.Stringer("ref", ref))
	}
	return l
}

// Layer returns the referenced layer, or nil.
func (s *System) Layer(ref LayerRef) *Layer {
	if ref == nil {
		return nil
	}
	return ref.lookup(s)
}

// Layers returns all layers sorted ascending by zIndex. Ties keep creation
// order. The slice is freshly allocated.
func (s *System) Layers() []*Layer {
	out := make([]*Layer, len(s.order))
	copy(out, s.order)
	sortByZIndex(out)
	return out
}

// LayerInfo returns snapshots of all layers in Layers order.
func (s *System) LayerInfo() []LayerInfo {
	layers := s.Layers()
	out := make([]LayerInfo, len(layers))
	for i, l := range layers {
		out[i] = l.Info()
	}
	return out
}

// RemoveLayer disposes the referenced layer and forgets it. An active layer
// is ended first. It reports whether a layer was removed.
func (s *System) RemoveLayer(ref LayerRef) bool {
	l := s.resolve("remove layer", ref)
	if l == nil {
		return false
	}
	if s.active == l {
		s.End()
	}
	if l.name != "" && s.names[l.name] == l.id {
		delete(s.names, l.name)
	}
	l.Dispose()
	delete(s.layers, l.id)
	for i, o := range s.order {
		if o == l {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	Logger().Debug("removed layer", zap.Int("layer", l.id), zap.String("name", l.name))
	s.notifyUpdate()
	return true
}

// Begin makes the referenced layer the drawing target and returns its
// canvas. If another layer is active it is ended first. Unknown references
// log a warning, change nothing and return nil.
func (s *System) Begin(ref LayerRef) Canvas {
	if s.active != nil {
		Logger().Warn("begin: layer already active, ending it",
			zap.Int("active", s.active.id),
			zap.Stringer("requested", ref))
		s.End()
	}
	l := s.resolve("begin", ref)
	if l == nil {
		return nil
	}
	c := l.Begin()
	if c == nil {
		return nil
	}
	s.active = l
	return c
}

// End finishes drawing into the active layer and tells the observer its
// pixels changed.
func (s *System) End() {
	if s.active == nil {
		Logger().Warn("end: no active layer")
		return
	}
	l := s.active
	s.active = nil
	l.End()
	if s.observer != nil {
		s.observer.ScheduleThumbnailUpdate(l.id, ThumbnailOptions{NeedsCapture: true})
	}
}

// Active returns the layer between Begin and End, or nil.
func (s *System) Active() *Layer { return s.active }

// Show makes the referenced layer visible.
func (s *System) Show(ref LayerRef) *Layer {
	l := s.resolve("show", ref)
	if l == nil {
		return nil
	}
	return l.Show()
}

// Hide excludes the referenced layer from compositing.
func (s *System) Hide(ref LayerRef) *Layer {
	l := s.resolve("hide", ref)
	if l == nil {
		return nil
	}
	return l.Hide()
}

// SetOpacity sets the referenced layer's opacity, clamped to [0, 1].
func (s *System) SetOpacity(ref LayerRef, v float64) *Layer {
	l := s.resolve("set opacity", ref)
	if l == nil {
		return nil
	}
	return l.SetOpacity(v)
}

// SetBlendMode sets the referenced layer's blend mode.
func (s *System) SetBlendMode(ref LayerRef, m BlendMode) *Layer {
	l := s.resolve("set blend mode", ref)
	if l == nil {
		return nil
	}
	return l.SetBlendMode(m)
}

// SetLayerIndex sets the referenced layer's zIndex.
func (s *System) SetLayerIndex(ref LayerRef, z int) *Layer {
	l := s.resolve("set layer index", ref)
	if l == nil {
		return nil
	}
	return l.SetZIndex(z)
}

// MoveLayer shifts the referenced layer's zIndex by delta.
func (s *System) MoveLayer(ref LayerRef, delta int) *Layer {
	l := s.resolve("move layer", ref)
	if l == nil {
		return nil
	}
	return l.SetZIndex(l.zIndex + delta)
}

// SetMask sets the referenced layer's mask.
func (s *System) SetMask(ref LayerRef, t Texture) *Layer {
	l := s.resolve("set mask", ref)
	if l == nil {
		return nil
	}
	return l.SetMask(t)
}

// ClearMask removes the referenced layer's mask.
func (s *System) ClearMask(ref LayerRef) *Layer {
	l := s.resolve("clear mask", ref)
	if l == nil {
		return nil
	}
	return l.ClearMask()
}

// ReorderLayers assigns zIndex 0, 1, 2, ... to the layers with the given IDs
// in order. Every ID must belong to this system and appear once; otherwise
// nothing changes and ErrInvalidOrder is returned. Layers not named keep
// their zIndex.
func (s *System) ReorderLayers(ids []int) error {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.layers[id]; !ok {
			Logger().Warn("reorder: unknown layer", zap.Int("layer", id))
			return fmt.Errorf("%w: unknown layer %d", ErrInvalidOrder, id)
		}
		if seen[id] {
			Logger().Warn("reorder: duplicate layer", zap.Int("layer", id))
			return fmt.Errorf("%w: duplicate layer %d", ErrInvalidOrder, id)
		}
		seen[id] = true
	}
	for i, id := range ids {
		s.layers[id].zIndex = i
	}
	s.notifyUpdate()
	return nil
}

// SetAutoResize sets whether canvas-synced layers follow host size changes.
func (s *System) SetAutoResize(enabled bool) {
	s.autoResize = enabled
}

// AutoResize reports whether auto-resize is enabled.
func (s *System) AutoResize() bool { return s.autoResize }

// Render composites every layer onto the host screen. Call once per frame,
// outside any Begin/End pair. clear may be nil.
func (s *System) Render(clear ClearFunc) {
	if s.disposed {
		return
	}
	if s.autoResize {
		s.syncHostSize()
	}
	layers := s.Layers()
	s.compositor.Render(layers, clear)
	if s.observer != nil {
		s.observer.SyncState(layers)
	}
}

// syncHostSize resizes canvas-synced layers whose size no longer matches
// the host surface. A layer left without a buffer by a failed allocation is
// retried every frame until it gets one.
func (s *System) syncHostSize() {
	w, h, d := s.host.Width(), s.host.Height(), s.host.PixelDensity()
	if w != s.lastWidth || h != s.lastHeight || d != s.lastDens {
		Logger().Debug("host surface changed",
			zap.Int("width", w),
			zap.Int("height", h),
			zap.Float64("density", d))
		s.lastWidth, s.lastHeight, s.lastDens = w, h, d
	}
	for _, l := range s.order {
		if l.customSize || l.disposed || l.drawing {
			continue
		}
		if l.buffer != nil && l.matchesHost(w, h, d) {
			continue
		}
		// Resize logs its own failure; the layer is skipped this frame.
		_ = l.Resize(w, h, d)
	}
}

// CreateUI attaches an observer, replacing and disposing any previous one,
// and gives it the current layer list.
func (s *System) CreateUI(o Observer) {
	if s.disposed {
		return
	}
	if s.observer != nil && s.observer != o {
		s.observer.Dispose()
	}
	s.observer = o
	s.notifyUpdate()
}

// UpdateUI asks the observer to rebuild from the current layers.
func (s *System) UpdateUI() {
	s.notifyUpdate()
}

func (s *System) notifyUpdate() {
	if s.observer != nil {
		s.observer.Update(s.Layers())
	}
}

// Dispose ends the active layer, disposes the observer, every layer and the
// compositor. The System is unusable afterwards. Safe to call twice.
func (s *System) Dispose() {
	if s.disposed {
		return
	}
	if s.active != nil {
		s.End()
	}
	if s.observer != nil {
		s.observer.Dispose()
		s.observer = nil
	}
	for _, l := range s.order {
		l.Dispose()
	}
	clear(s.layers)
	clear(s.names)
	s.order = nil
	s.compositor.Dispose()
	s.disposed = true
	Logger().Debug("layer system disposed")
}
