package strata

import (
	"image"
	"image/color"
)

// Capability is a bitmask of features a Host provides.
type Capability uint8

const (
	CapOffscreen Capability = 1 << iota // off-screen color buffers usable as textures
	CapShaders                          // compiled per-pixel programs

	// CapRequired is what NewSystem demands of a host.
	CapRequired = CapOffscreen | CapShaders
)

// Has reports whether every bit of want is set in c.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Host is the render host strata draws through. It owns the main surface and
// knows how to allocate buffers and compile programs. Sizes are logical; the
// device pixel size of a buffer is its logical size times its density.
type Host interface {
	Width() int
	Height() int
	PixelDensity() float64
	Capabilities() Capability
	NewFramebuffer(opts FramebufferOptions) (Framebuffer, error)
	CompileProgram(src ProgramSource) (Program, error)
	Screen() Screen
}

// FramebufferOptions describes an off-screen buffer. Depth and Antialias are
// fixed for the lifetime of the buffer.
type FramebufferOptions struct {
	Width, Height int
	Density       float64
	Depth         bool
	Antialias     bool
}

// PixelSize returns the device pixel dimensions for the options, never less
// than 1x1.
func (o FramebufferOptions) PixelSize() (int, int) {
	return PixelSize(o.Width, o.Height, o.Density)
}

// PixelSize converts a logical size at density d into device pixels.
func PixelSize(w, h int, d float64) (int, int) {
	if d <= 0 {
		d = 1
	}
	pw := int(float64(w)*d + 0.5)
	ph := int(float64(h)*d + 0.5)
	return max(pw, 1), max(ph, 1)
}

// Texture is anything a Program can sample.
type Texture interface {
	// Bounds returns the texture size in device pixels.
	Bounds() image.Rectangle
}

// Canvas receives drawing commands. Coordinates are logical units.
type Canvas interface {
	Clear()
	Fill(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
}

// Framebuffer is an off-screen color buffer owned by exactly one Layer or
// by the Compositor.
type Framebuffer interface {
	Texture
	Canvas
	// Begin directs subsequent drawing at this buffer.
	Begin()
	// End finalizes drawing into this buffer.
	End()
	// Dispose releases the GPU resource. Safe to call twice.
	Dispose()
}

// ProgramSource is the text of a per-pixel program. Name identifies the
// program for hosts that provide a built-in implementation instead of
// compiling Fragment.
type ProgramSource struct {
	Name     string
	Vertex   []byte
	Fragment []byte
}

// Program is a compiled per-pixel program. Textures bound to slots are
// sampled with normalized coordinates, so a texture of any size covers the
// whole destination.
type Program interface {
	SetUniform(name string, value any)
	SetTexture(slot int, t Texture)
	// Run draws a full-surface quad into dst.
	Run(dst Framebuffer) error
	Dispose()
}

// Screen is the host's main surface.
type Screen interface {
	Canvas
	Push()
	Pop()
	ResetTransform()
	ResetBlendMode()
	// Blit draws t stretched over the whole surface.
	Blit(t Texture)
}

// ClearFunc clears the main surface before the composite is drawn onto it.
type ClearFunc func(s Screen)
