// Package ebitenhost runs strata on Ebitengine.
//
// Framebuffers are *ebiten.Image values sized in device pixels, the blend
// program is compiled as a Kage shader, and the main surface is the screen
// image Ebitengine passes to Game.Draw.
//
// # Frame loop
//
// A Game owns one Host and one strata.System. Route Layout through the host
// so it knows the logical surface size, and hand it the screen at the top of
// Draw:
//
//	func (g *Game) Layout(w, h int) (int, int) { return g.host.Layout(w, h) }
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.host.SetScreen(screen)
//		// Begin/End on layers...
//		g.sys.Render(nil)
//		g.host.FlushScreenshots()
//	}
//
// # Textures of different sizes
//
// DrawRectShader wants every source image to match the destination size.
// Layers with a custom size and masks are stretched into pooled scratch
// images before each pass, so any texture can be bound to any slot.
//
// # Screenshots
//
// Screenshot queues a label; FlushScreenshots writes the current screen as
// straight-alpha PNG files into ScreenshotDir. Pixels can only be read while
// the game loop runs.
package ebitenhost
