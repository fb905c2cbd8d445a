package strata

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates the opacity of up to 2 layers simultaneously. Create
// one with TweenOpacity or CrossFade and call Update(dt) each frame. Values
// go through Layer.SetOpacity, so they stay clamped. If any target layer is
// disposed the group stops immediately.
//
// There is no global animation manager; callers own their tweens.
type TweenGroup struct {
	tweens  [2]*gween.Tween
	targets [2]*Layer
	count   int
	Done    bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target layers. If a target has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	for i := 0; i < g.count; i++ {
		if g.targets[i].Disposed() {
			g.Done = true
			return
		}
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.targets[i].SetOpacity(float64(val))
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Reset rewinds every tween to its start. The layers keep their current
// opacity until the next Update.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenOpacity creates a TweenGroup that animates l's opacity from its
// current value to `to` over duration seconds.
func TweenOpacity(l *Layer, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(l.opacity), float32(clamp01(to)), duration, fn)
	g.targets[0] = l
	return g
}

// CrossFade creates a TweenGroup that fades out to 0 while fading in to 1.
func CrossFade(out, in *Layer, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(out.opacity), 0, duration, fn)
	g.tweens[1] = gween.New(float32(in.opacity), 1, duration, fn)
	g.targets[0] = out
	g.targets[1] = in
	return g
}
