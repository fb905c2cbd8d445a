package strata

import (
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Layer is an off-screen drawable with its own visibility, opacity, blend
// mode, stacking position and optional mask. Layers are created by
// System.CreateLayer and owned by that System.
type Layer struct {
	id   int
	name string
	host Host

	visible   bool
	opacity   float64
	blendMode BlendMode
	zIndex    int
	mask      Texture

	width      int
	height     int
	density    float64
	depth      bool
	antialias  bool
	customSize bool
	drawnTo    bool
	drawing    bool
	disposed   bool

	// buffer is nil after Dispose or a failed Resize.
	buffer Framebuffer
}

// LayerInfo is a point-in-time snapshot of a layer's attributes.
type LayerInfo struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Visible        bool      `json:"visible"`
	Opacity        float64   `json:"opacity"`
	BlendMode      BlendMode `json:"blendMode"`
	ZIndex         int       `json:"zIndex"`
	HasMask        bool      `json:"hasMask"`
	HasBeenDrawnTo bool      `json:"hasBeenDrawnTo"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Density        float64   `json:"density"`
	CustomSize     bool      `json:"customSize"`
}

// newLayer allocates the layer's buffer. Omitted sizes follow the host; the
// layer is canvas-synced unless some size was given explicitly.
func newLayer(host Host, id int, name string, cfg layerConfig) (*Layer, error) {
	l := &Layer{
		id:         id,
		name:       name,
		host:       host,
		visible:    cfg.visible,
		opacity:    clamp01(cfg.opacity),
		blendMode:  validBlendMode(cfg.blendMode),
		zIndex:     id,
		width:      cfg.width,
		height:     cfg.height,
		density:    cfg.density,
		depth:      cfg.depth,
		antialias:  cfg.antialias,
		customSize: cfg.sizeSet,
	}
	if cfg.zSet {
		l.zIndex = cfg.zIndex
	}
	if l.width == 0 {
		l.width = host.Width()
	}
	if l.height == 0 {
		l.height = host.Height()
	}
	if l.density == 0 {
		l.density = host.PixelDensity()
	}
	if err := l.allocate(); err != nil {
		return nil, fmt.Errorf("create layer %d: %w", id, err)
	}
	return l, nil
}

func (l *Layer) allocate() error {
	if l.width <= 0 || l.height <= 0 || l.density <= 0 {
		return fmt.Errorf("%w: %dx%d@%g", ErrInvalidSize, l.width, l.height, l.density)
	}
	fb, err := l.host.NewFramebuffer(FramebufferOptions{
		Width:     l.width,
		Height:    l.height,
		Density:   l.density,
		Depth:     l.depth,
		Antialias: l.antialias,
	})
	if err != nil {
		return err
	}
	l.buffer = fb
	return nil
}

// ID returns the layer's immutable identity.
func (l *Layer) ID() int { return l.id }

// Name returns the name the layer was created with, possibly empty.
func (l *Layer) Name() string { return l.name }

// Visible reports whether the layer takes part in compositing.
func (l *Layer) Visible() bool { return l.visible }

// Opacity returns the opacity in [0, 1].
func (l *Layer) Opacity() float64 { return l.opacity }

// BlendMode returns the layer's blend mode.
func (l *Layer) BlendMode() BlendMode { return l.blendMode }

// ZIndex returns the stacking position; lower is drawn first.
func (l *Layer) ZIndex() int { return l.zIndex }

// Mask returns the mask texture or nil.
func (l *Layer) Mask() Texture { return l.mask }

// HasMask reports whether a mask is set.
func (l *Layer) HasMask() bool { return l.mask != nil }

// Width returns the logical width.
func (l *Layer) Width() int { return l.width }

// Height returns the logical height.
func (l *Layer) Height() int { return l.height }

// Density returns the pixel density the buffer was allocated at.
func (l *Layer) Density() float64 { return l.density }

// CustomSize reports whether the layer is exempt from automatic resizing.
func (l *Layer) CustomSize() bool { return l.customSize }

// HasBeenDrawnTo reports whether End has been called since the buffer was
// last allocated.
func (l *Layer) HasBeenDrawnTo() bool { return l.drawnTo }

// Buffer returns the layer's framebuffer. It is nil once disposed and
// after a failed Resize until the next successful one.
func (l *Layer) Buffer() Framebuffer { return l.buffer }

// Disposed reports whether Dispose has been called.
func (l *Layer) Disposed() bool { return l.disposed }

// Drawing reports whether the layer is between Begin and End.
func (l *Layer) Drawing() bool { return l.drawing }

// Show makes the layer visible.
func (l *Layer) Show() *Layer {
	l.visible = true
	return l
}

// Hide excludes the layer from compositing.
func (l *Layer) Hide() *Layer {
	l.visible = false
	return l
}

// SetOpacity stores v clamped to [0, 1].
func (l *Layer) SetOpacity(v float64) *Layer {
	l.opacity = clamp01(v)
	return l
}

// SetBlendMode stores m, or BlendNormal with a warning if m is not a
// declared mode.
func (l *Layer) SetBlendMode(m BlendMode) *Layer {
	l.blendMode = validBlendMode(m)
	return l
}

// SetZIndex stores z as is. Ties are allowed.
func (l *Layer) SetZIndex(z int) *Layer {
	l.zIndex = z
	return l
}

// SetMask sets a texture whose red channel multiplies the layer's alpha.
// A nil texture is ignored with a warning; use ClearMask to remove a mask.
func (l *Layer) SetMask(t Texture) *Layer {
	if t == nil {
		Logger().Warn("set mask: nil source ignored, use ClearMask", zap.Int("layer", l.id))
		return l
	}
	l.mask = t
	return l
}

// ClearMask removes the mask.
func (l *Layer) ClearMask() *Layer {
	l.mask = nil
	return l
}

// Resize replaces the buffer with one of the given logical size. A density
// of 0 or less uses the host's density. The old contents are lost. The layer
// stays canvas-synced only if the new size matches the host exactly.
//
// Resize fails with ErrDisposed on a disposed layer and with ErrLayerActive
// between Begin and End; the layer is left untouched in both cases. If the
// new buffer cannot be allocated the layer keeps the new size without a
// buffer and is skipped by the compositor until resized again.
func (l *Layer) Resize(width, height int, density float64) error {
	if l.disposed {
		Logger().Warn("resize: layer disposed", zap.Int("layer", l.id))
		return fmt.Errorf("resize layer %d: %w", l.id, ErrDisposed)
	}
	if l.drawing {
		Logger().Warn("resize: layer is being drawn, call End first", zap.Int("layer", l.id))
		return fmt.Errorf("resize layer %d: %w", l.id, ErrLayerActive)
	}
	if density <= 0 {
		density = l.host.PixelDensity()
	}
	if l.buffer != nil {
		l.buffer.Dispose()
		l.buffer = nil
	}
	l.width, l.height, l.density = width, height, density
	l.drawnTo = false
	l.customSize = width != l.host.Width() ||
		height != l.host.Height() ||
		density != l.host.PixelDensity()
	if err := l.allocate(); err != nil {
		Logger().Error("resize layer", zap.Int("layer", l.id), zap.Error(err))
		return fmt.Errorf("resize layer %d: %w", l.id, err)
	}
	Logger().Debug("resized layer",
		zap.Int("layer", l.id),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("density", density))
	return nil
}

// Begin directs drawing at the layer and returns the canvas to draw on.
// It returns nil if the layer has no buffer. Begin/End pairs do not nest;
// System.Begin enforces that.
func (l *Layer) Begin() Canvas {
	if l.buffer == nil {
		Logger().Warn("begin: layer has no buffer",
			zap.Int("layer", l.id),
			zap.Bool("disposed", l.disposed))
		return nil
	}
	l.buffer.Begin()
	l.drawing = true
	return l.buffer
}

// End finalizes drawing started with Begin.
func (l *Layer) End() {
	if l.buffer == nil {
		Logger().Warn("end: layer has no buffer", zap.Int("layer", l.id))
		return
	}
	l.buffer.End()
	l.drawing = false
	l.drawnTo = true
}

// Dispose releases the buffer. The layer is unusable afterwards: Resize
// fails and Begin returns nil. Safe to call more than once.
func (l *Layer) Dispose() {
	if l.disposed {
		return
	}
	l.disposed = true
	l.drawing = false
	if l.buffer != nil {
		l.buffer.Dispose()
		l.buffer = nil
	}
	l.mask = nil
}

// Info returns a snapshot of the layer's attributes.
func (l *Layer) Info() LayerInfo {
	return LayerInfo{
		ID:             l.id,
		Name:           l.name,
		Visible:        l.visible,
		Opacity:        l.opacity,
		BlendMode:      l.blendMode,
		ZIndex:         l.zIndex,
		HasMask:        l.mask != nil,
		HasBeenDrawnTo: l.drawnTo,
		Width:          l.width,
		Height:         l.height,
		Density:        l.density,
		CustomSize:     l.customSize,
	}
}

// MarshalJSON encodes the layer's Info.
func (l *Layer) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Info())
}

// matchesHost reports whether the layer's size equals the host surface.
func (l *Layer) matchesHost(w, h int, d float64) bool {
	return l.width == w && l.height == h && l.density == d
}

func validBlendMode(m BlendMode) BlendMode {
	if !m.Valid() {
		Logger().Warn("invalid blend mode, using NORMAL", zap.Int("mode", int(m)))
		return BlendNormal
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
