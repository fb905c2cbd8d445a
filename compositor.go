package strata

import (
	"cmp"
	"slices"

	"go.uber.org/zap"
)

// Compositor merges an ordered list of layers into the host's main surface.
// It ping-pongs between two accumulation buffers: each pass reads the
// current accumulator and writes the blended result into the other buffer,
// then the two swap roles.
//
// The Compositor keeps no reference to layers between calls.
type Compositor struct {
	host Host

	// accum holds the composite so far; scratch receives the next pass.
	accum   Framebuffer
	scratch Framebuffer

	// Host size the buffers were last allocated for.
	width   int
	height  int
	density float64

	program    Program
	programErr error

	sorted   []*Layer
	passes   int
	disposed bool
}

// NewCompositor creates a compositor drawing through host. Buffers and the
// blend program are allocated on first Render.
func NewCompositor(host Host) *Compositor {
	return &Compositor{host: host}
}

// Passes returns the number of layer passes executed by the last Render.
func (c *Compositor) Passes() int {
	return c.passes
}

// ensureBuffers (re)allocates both accumulation buffers when the host
// surface changed size or density since the last allocation.
func (c *Compositor) ensureBuffers() bool {
	w, h, d := c.host.Width(), c.host.Height(), c.host.PixelDensity()
	if c.accum != nil && c.scratch != nil && w == c.width && h == c.height && d == c.density {
		return true
	}
	c.releaseBuffers()

	opts := FramebufferOptions{Width: w, Height: h, Density: d}
	a, err := c.host.NewFramebuffer(opts)
	if err != nil {
		Logger().Error("allocate accumulation buffer", zap.Error(err))
		return false
	}
	b, err := c.host.NewFramebuffer(opts)
	if err != nil {
		a.Dispose()
		Logger().Error("allocate accumulation buffer", zap.Error(err))
		return false
	}
	c.accum, c.scratch = a, b
	c.width, c.height, c.density = w, h, d
	Logger().Debug("allocated accumulation buffers",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float64("density", d))
	return true
}

func (c *Compositor) releaseBuffers() {
	if c.accum != nil {
		c.accum.Dispose()
		c.accum = nil
	}
	if c.scratch != nil {
		c.scratch.Dispose()
		c.scratch = nil
	}
}

// ensureProgram compiles the blend program once. A failed compile is not
// retried.
func (c *Compositor) ensureProgram() Program {
	if c.program != nil || c.programErr != nil {
		return c.program
	}
	p, err := c.host.CompileProgram(BlendProgramSource())
	if err != nil {
		c.programErr = err
		Logger().Error("compile blend program, layers will be skipped", zap.Error(err))
		return nil
	}
	c.program = p
	Logger().Debug("compiled blend program")
	return p
}

// Render composites layers in ascending zIndex order and draws the result
// onto the host's screen. clear is called to clear the screen first; nil
// uses Screen.Clear. The caller's slice is not reordered.
//
// Render never fails: allocation or program errors are logged and the
// affected passes are skipped.
func (c *Compositor) Render(layers []*Layer, clear ClearFunc) {
	c.passes = 0
	if c.disposed {
		return
	}
	screen := c.host.Screen()
	if !c.ensureBuffers() {
		clearScreen(screen, clear)
		return
	}

	c.sorted = append(c.sorted[:0], layers...)
	sortByZIndex(c.sorted)

	c.accum.Clear()
	program := c.ensureProgram()
	if program != nil {
		for _, l := range c.sorted {
			if c.pass(program, l) {
				c.passes++
			}
		}
	}
	for i := range c.sorted {
		c.sorted[i] = nil
	}

	clearScreen(screen, clear)
	screen.Push()
	screen.ResetTransform()
	screen.ResetBlendMode()
	screen.Blit(c.accum)
	screen.Pop()
}

// pass blends one layer over the accumulator. It reports whether the
// accumulator changed.
func (c *Compositor) pass(program Program, l *Layer) bool {
	if !l.visible || l.opacity <= 0 || l.buffer == nil {
		return false
	}
	c.scratch.Clear()

	program.SetTexture(slotLayer, l.buffer)
	program.SetTexture(slotBackground, c.accum)
	hasMask := float32(0)
	if l.mask != nil {
		program.SetTexture(slotMask, l.mask)
		hasMask = 1
	} else {
		// Some texture must be bound; HasMask=0 makes it irrelevant.
		program.SetTexture(slotMask, l.buffer)
	}
	program.SetUniform(uniformHasMask, hasMask)
	program.SetUniform(uniformOpacity, float32(l.opacity))
	program.SetUniform(uniformMode, l.blendMode.Index())

	if err := program.Run(c.scratch); err != nil {
		Logger().Error("composite pass failed, skipping layer",
			zap.Int("layer", l.id),
			zap.String("name", l.name),
			zap.Error(err))
		return false
	}
	c.accum, c.scratch = c.scratch, c.accum
	return true
}

// Dispose releases the accumulation buffers and the program. Safe to call
// more than once.
func (c *Compositor) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.releaseBuffers()
	if c.program != nil {
		c.program.Dispose()
		c.program = nil
	}
	c.sorted = nil
}

func clearScreen(s Screen, clear ClearFunc) {
	if clear != nil {
		clear(s)
		return
	}
	s.Clear()
}

// sortByZIndex orders layers ascending by zIndex, keeping the existing
// order of ties.
func sortByZIndex(layers []*Layer) {
	slices.SortStableFunc(layers, func(a, b *Layer) int {
		return cmp.Compare(a.zIndex, b.zIndex)
	})
}
