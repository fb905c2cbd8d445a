package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/strata"
	"github.com/phanxgames/strata/blend"
	"github.com/phanxgames/strata/ebitenhost"
	"github.com/phanxgames/strata/inspect"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// stripeWidth and checkerSize are in logical units.
const (
	stripeWidth = 24
	checkerSize = 32
)

var digitKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// pulse fades a layer between its configured opacity and zero.
type pulse struct {
	layer    *strata.Layer
	high     float64
	seconds  float32
	fadingIn bool
	tween    *strata.TweenGroup
}

func (p *pulse) update(dt float32) {
	if p.tween == nil || p.tween.Done {
		to := 0.0
		if p.fadingIn {
			to = p.high
		}
		p.fadingIn = !p.fadingIn
		p.tween = strata.TweenOpacity(p.layer, to, p.seconds/2, ease.InOutSine)
	}
	p.tween.Update(dt)
}

// Game runs a layer system inside Ebitengine.
type Game struct {
	cfg       Config
	host      *ebitenhost.Host
	sys       *strata.System
	inspector *inspect.Inspector
	script    *strata.Script
	layers    []*strata.Layer
	patterns  map[int]LayerConfig
	pulses    []*pulse
	selected  int
	fade      *strata.TweenGroup
	showPanel bool
	log       *zap.Logger
}

// NewGame builds the layer stack described by cfg. script may be nil.
func NewGame(cfg Config, script *strata.Script, log *zap.Logger) (*Game, error) {
	host := ebitenhost.New(cfg.Width, cfg.Height, cfg.Density)
	host.ScreenshotDir = cfg.ScreenshotDir
	sys, err := strata.NewSystem(host)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:       cfg,
		host:      host,
		sys:       sys,
		script:    script,
		patterns:  make(map[int]LayerConfig, len(cfg.Layers)),
		showPanel: cfg.Inspector.Enabled,
		log:       log,
	}
	for _, lc := range cfg.Layers {
		l, err := sys.CreateLayer(lc.Name, lc.Options()...)
		if err != nil {
			sys.Dispose()
			return nil, fmt.Errorf("create layer %q: %w", lc.Name, err)
		}
		g.layers = append(g.layers, l)
		g.patterns[l.ID()] = lc
		if lc.Pulse > 0 {
			g.pulses = append(g.pulses, &pulse{layer: l, high: l.Opacity(), seconds: lc.Pulse})
		}
	}
	if cfg.Inspector.Enabled {
		g.inspector = inspect.New(inspect.Options{
			X:       8,
			Y:       8,
			Budget:  time.Duration(cfg.Inspector.BudgetMS * float64(time.Millisecond)),
			ShowFPS: cfg.Inspector.ShowFPS,
		})
		sys.CreateUI(g.inspector)
	}
	log.Info("layer stack ready",
		zap.Int("layers", len(g.layers)),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Float64("density", cfg.Density))
	return g, nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	g.handleInput()

	for _, p := range g.pulses {
		p.update(dt)
	}
	if g.fade != nil {
		g.fade.Update(dt)
		if g.fade.Done {
			g.fade = nil
		}
	}
	if g.script != nil && !g.script.Done() {
		g.script.Step(g.sys, g.host.Screenshot)
	}
	if g.inspector != nil {
		g.inspector.Flush()
		g.inspector.Tick(float64(dt))
	}
	return nil
}

func (g *Game) handleInput() {
	if len(g.layers) == 0 {
		return
	}
	for i := 0; i < len(g.layers) && i < len(digitKeys); i++ {
		if inpututil.IsKeyJustPressed(digitKeys[i]) {
			g.selected = i
			g.log.Debug("selected layer", zap.String("name", g.layers[i].Name()))
		}
	}
	l := g.layers[g.selected]
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		if l.Visible() {
			l.Hide()
		} else {
			l.Show()
		}
		g.sys.UpdateUI()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		modes := blend.Modes()
		l.SetBlendMode(modes[(l.BlendMode().Index()+1)%len(modes)])
		g.sys.UpdateUI()
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.sys.MoveLayer(strata.ID(l.ID()), 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.sys.MoveLayer(strata.ID(l.ID()), -1)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		l.SetOpacity(l.Opacity() + 0.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		l.SetOpacity(l.Opacity() - 0.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.crossFade()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.host.Screenshot(fmt.Sprintf("frame-%s", time.Now().Format("150405")))
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		g.showPanel = !g.showPanel
	}
}

// crossFade swaps the selected layer with the next one up.
func (g *Game) crossFade() {
	next := g.layers[(g.selected+1)%len(g.layers)]
	cur := g.layers[g.selected]
	if next == cur {
		return
	}
	g.fade = strata.CrossFade(cur, next, 1, ease.InOutQuad)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.host.SetScreen(screen)
	for _, l := range g.layers {
		if !l.HasBeenDrawnTo() && l.Buffer() != nil {
			g.paint(l)
		}
	}
	bg := g.cfg.Background.NRGBA()
	g.sys.Render(func(s strata.Screen) { s.Fill(bg) })
	if g.inspector != nil && g.showPanel {
		g.inspector.Draw(screen)
	}
	g.host.FlushScreenshots()
}

// paint draws a layer's configured pattern. It runs again after a resize
// discards the layer's contents.
func (g *Game) paint(l *strata.Layer) {
	lc := g.patterns[l.ID()]
	c := g.sys.Begin(strata.ID(l.ID()))
	if c == nil {
		return
	}
	defer g.sys.End()
	c.Clear()
	drawPattern(c, lc.Pattern, float64(l.Width()), float64(l.Height()), lc.Color.NRGBA())
}

func drawPattern(c strata.Canvas, pattern string, w, h float64, col color.NRGBA) {
	switch pattern {
	case "stripes":
		for x := 0.0; x < w; x += 2 * stripeWidth {
			c.FillRect(x, 0, stripeWidth, h, col)
		}
	case "checker":
		row := 0
		for y := 0.0; y < h; y += checkerSize {
			start := float64(row%2) * checkerSize
			for x := start; x < w; x += 2 * checkerSize {
				c.FillRect(x, y, checkerSize, checkerSize, col)
			}
			row++
		}
	default:
		c.Fill(col)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.host.Layout(outsideWidth, outsideHeight)
}

// Close releases the layer system and the host's scratch images.
func (g *Game) Close() {
	g.sys.Dispose()
	g.host.Dispose()
}
