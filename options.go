package strata

// LayerOption configures a layer at creation.
//
// Example:
//
//	fg, err := sys.CreateLayer("fg",
//		strata.WithOpacity(0.5),
//		strata.WithBlendMode(strata.BlendMultiply),
//	)
type LayerOption func(*layerConfig)

// layerConfig collects LayerOptions. Zero size fields mean "track the host".
type layerConfig struct {
	visible   bool
	opacity   float64
	blendMode BlendMode
	width     int
	height    int
	density   float64
	depth     bool
	antialias bool
	zIndex    int
	zSet      bool
	sizeSet   bool
}

func defaultLayerConfig() layerConfig {
	return layerConfig{
		visible:   true,
		opacity:   1,
		blendMode: BlendNormal,
	}
}

// Visible sets the initial visibility. Layers are visible by default.
func Visible(v bool) LayerOption {
	return func(c *layerConfig) { c.visible = v }
}

// WithOpacity sets the initial opacity, clamped to [0, 1].
func WithOpacity(v float64) LayerOption {
	return func(c *layerConfig) { c.opacity = v }
}

// WithBlendMode sets the initial blend mode.
func WithBlendMode(m BlendMode) LayerOption {
	return func(c *layerConfig) { c.blendMode = m }
}

// WithZIndex sets the initial stacking position. Without it a layer's
// zIndex equals its ID.
func WithZIndex(z int) LayerOption {
	return func(c *layerConfig) {
		c.zIndex = z
		c.zSet = true
	}
}

// WithSize gives the layer an explicit logical size. The layer is then
// exempt from automatic resizing.
func WithSize(w, h int) LayerOption {
	return func(c *layerConfig) {
		c.width, c.height = w, h
		c.sizeSet = true
	}
}

// WithWidth sets an explicit width; the height follows the host.
func WithWidth(w int) LayerOption {
	return func(c *layerConfig) {
		c.width = w
		c.sizeSet = true
	}
}

// WithHeight sets an explicit height; the width follows the host.
func WithHeight(h int) LayerOption {
	return func(c *layerConfig) {
		c.height = h
		c.sizeSet = true
	}
}

// WithDensity sets an explicit pixel density.
func WithDensity(d float64) LayerOption {
	return func(c *layerConfig) {
		c.density = d
		c.sizeSet = true
	}
}

// WithDepth requests a depth buffer.
func WithDepth() LayerOption {
	return func(c *layerConfig) { c.depth = true }
}

// WithAntialias requests antialiased drawing into the layer.
func WithAntialias() LayerOption {
	return func(c *layerConfig) { c.antialias = true }
}

// SystemOption configures a System.
type SystemOption func(*System)

// WithAutoResize sets whether layers follow host surface size changes.
// Enabled by default.
func WithAutoResize(enabled bool) SystemOption {
	return func(s *System) { s.autoResize = enabled }
}

// WithObserver attaches an observer at construction, same as CreateUI.
func WithObserver(o Observer) SystemOption {
	return func(s *System) { s.observer = o }
}
