// Package strata composites a stack of off-screen layers into a single
// image every frame.
//
// Each [Layer] owns one off-screen buffer plus display attributes:
// visibility, opacity, [BlendMode], zIndex and an optional mask. A [System]
// owns the layers, assigns their IDs, keeps track of the one layer being
// drawn to, follows the host surface size and drives a [Compositor] once per
// frame.
//
// All drawing goes through a [Host]. The ebitenhost package renders with
// Ebitengine and Kage shaders; the softhost package renders on the CPU and
// is what the tests use.
//
// # Quick start
//
//	host := ebitenhost.New(640, 480)
//	sys, err := strata.NewSystem(host)
//	if err != nil {
//		log.Fatal(err)
//	}
//	bg, _ := sys.CreateLayer("bg")
//	fx, _ := sys.CreateLayer("fx", strata.WithBlendMode(strata.BlendScreen), strata.WithOpacity(0.6))
//
//	// Update:
//	c := sys.Begin(strata.Name("bg"))
//	c.Fill(color.RGBA{40, 20, 60, 255})
//	sys.End()
//
//	// Draw(screen):
//	host.SetScreen(screen)
//	sys.Render(nil)
//
// # Compositing
//
// Layers are drawn bottom to top by ascending zIndex. Two accumulation
// buffers alternate: every visible layer is blended over the current
// accumulator into the other buffer, and the buffers swap. The blend
// function is chosen by the layer's blend mode, weighted by the layer's
// alpha, opacity and the red channel of its mask. The accumulator is kept
// opaque between passes, so the final image is always opaque.
//
// # Diagnostics
//
// Misuse such as an unknown layer reference or a second Begin without End
// never panics; it is logged through the zap logger set with [SetLogger]
// and resolved to a safe default.
package strata
