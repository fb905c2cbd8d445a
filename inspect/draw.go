package inspect

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	rowPadding = 4
	// debug font cell height used by ebitenutil.DebugPrint
	lineHeight = 16
)

var panelBackground = color.RGBA{0, 0, 0, 160}

// Line formats a row the way Draw prints it.
func (r *Row) Line() string {
	vis := "on "
	if !r.Visible {
		vis = "off"
	}
	mask := ""
	if r.HasMask {
		mask = " mask"
	}
	name := r.Name
	if name == "" {
		name = "-"
	}
	return fmt.Sprintf("[%s] #%d %s z=%d %s %.2f%s", vis, r.ID, name, r.ZIndex, r.BlendMode, r.Opacity, mask)
}

// Lines returns the panel text top-down.
func (in *Inspector) Lines() []string {
	out := make([]string, 0, len(in.rows)+1)
	if in.opts.ShowFPS && in.fpsText != "" {
		out = append(out, in.fpsText)
	}
	for _, r := range in.rows {
		out = append(out, r.Line())
	}
	return out
}

// Tick advances the FPS readout by dt seconds. The text refreshes every
// half second.
func (in *Inspector) Tick(dt float64) {
	if !in.opts.ShowFPS {
		return
	}
	in.fpsClock += dt
	if in.fpsText != "" && in.fpsClock < 0.5 {
		return
	}
	in.fpsClock = 0
	in.fpsText = fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

// Draw paints the panel onto screen: a translucent background, then per
// row its thumbnail and a text line.
func (in *Inspector) Draw(screen *ebiten.Image) {
	if in.disposed || screen == nil {
		return
	}
	rowH := max(in.opts.ThumbHeight, lineHeight) + rowPadding
	textX := in.opts.X + in.opts.ThumbWidth + 2*rowPadding
	y := in.opts.Y + rowPadding

	height := len(in.rows)*rowH + 2*rowPadding
	if in.opts.ShowFPS && in.fpsText != "" {
		height += lineHeight
	}
	bg := screen.SubImage(imageRect(in.opts.X, in.opts.Y, panelWidth, height)).(*ebiten.Image)
	bg.Fill(panelBackground)

	if in.opts.ShowFPS && in.fpsText != "" {
		ebitenutil.DebugPrintAt(screen, in.fpsText, in.opts.X+rowPadding, y)
		y += lineHeight
	}
	for _, r := range in.rows {
		if r.thumb != nil {
			var op ebiten.DrawImageOptions
			op.GeoM.Translate(float64(in.opts.X+rowPadding), float64(y))
			if !r.Visible {
				op.ColorScale.ScaleAlpha(0.35)
			}
			screen.DrawImage(r.thumb, &op)
		}
		ebitenutil.DebugPrintAt(screen, r.Line(), textX, y)
		y += rowH
	}
}

// panelWidth is wide enough for a thumbnail and a typical row line.
const panelWidth = 360
