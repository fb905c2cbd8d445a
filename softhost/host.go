package softhost

import (
	"fmt"

	"github.com/phanxgames/strata"
	"github.com/phanxgames/strata/blend"
)

// Host is a CPU render host with a fixed-size main surface.
type Host struct {
	width   int
	height  int
	density float64
	caps    strata.Capability
	kernels map[string]Kernel
	screen  *Screen

	allocs int
	live   int
	// failAllocs makes the next n NewFramebuffer calls fail.
	failAllocs int
}

// New creates a host whose surface is width x height logical units at the
// given density.
func New(width, height int, density float64) *Host {
	if density <= 0 {
		density = 1
	}
	h := &Host{
		width:   width,
		height:  height,
		density: density,
		caps:    strata.CapRequired,
		kernels: map[string]Kernel{blend.ProgramName: BlendKernel},
	}
	pw, ph := strata.PixelSize(width, height, density)
	h.screen = newScreen(pw, ph, density)
	return h
}

// Width implements strata.Host.
func (h *Host) Width() int { return h.width }

// Height implements strata.Host.
func (h *Host) Height() int { return h.height }

// PixelDensity implements strata.Host.
func (h *Host) PixelDensity() float64 { return h.density }

// Capabilities implements strata.Host.
func (h *Host) Capabilities() strata.Capability { return h.caps }

// SetCapabilities overrides the advertised capabilities.
func (h *Host) SetCapabilities(c strata.Capability) { h.caps = c }

// Screen implements strata.Host.
func (h *Host) Screen() strata.Screen { return h.screen }

// Surface returns the main surface with its concrete type.
func (h *Host) Surface() *Screen { return h.screen }

// SetSize changes the surface size, reallocating the screen image. Layers
// and accumulation buffers notice on the next Render.
func (h *Host) SetSize(width, height int, density float64) {
	if density <= 0 {
		density = 1
	}
	h.width, h.height, h.density = width, height, density
	pw, ph := strata.PixelSize(width, height, density)
	h.screen.resize(pw, ph, density)
}

// RegisterKernel binds a kernel to a program name, replacing any earlier
// binding.
func (h *Host) RegisterKernel(name string, k Kernel) {
	h.kernels[name] = k
}

// FailAllocations makes the next n framebuffer allocations fail.
func (h *Host) FailAllocations(n int) { h.failAllocs = n }

// Allocations returns how many framebuffers were allocated so far.
func (h *Host) Allocations() int { return h.allocs }

// LiveBuffers returns how many framebuffers are allocated and not disposed.
func (h *Host) LiveBuffers() int { return h.live }

// NewFramebuffer implements strata.Host.
func (h *Host) NewFramebuffer(opts strata.FramebufferOptions) (strata.Framebuffer, error) {
	if h.failAllocs > 0 {
		h.failAllocs--
		return nil, ErrAllocation
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("softhost: framebuffer %dx%d: %w", opts.Width, opts.Height, strata.ErrInvalidSize)
	}
	if opts.Density <= 0 {
		opts.Density = h.density
	}
	h.allocs++
	h.live++
	return newFramebuffer(h, opts), nil
}

// CompileProgram implements strata.Host. Only Name is consulted.
func (h *Host) CompileProgram(src strata.ProgramSource) (strata.Program, error) {
	k, ok := h.kernels[src.Name]
	if !ok {
		return nil, fmt.Errorf("softhost: program %q: %w", src.Name, ErrUnknownProgram)
	}
	return &program{kernel: k, uniforms: make(Uniforms, 4)}, nil
}
