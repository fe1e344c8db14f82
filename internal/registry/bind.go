package registry

import (
	"time"

	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/loop"
)

// Binding connects a scene to a loop.Loop: input is drained once per frame
// in Update and Render draws into Screen.
type Binding struct {
	Scene  Scene
	Screen *core.Screen

	// Input returns the actions collected since the last frame. Nil means
	// no input.
	Input func() core.InputFrame

	// AfterRender runs after the scene has drawn, with the frame's alpha.
	AfterRender func(alpha float64)
}

// Options fills the loop callbacks of base from the binding and returns it.
// Timing, refresher, clock and logger are taken from base unchanged.
func (b Binding) Options(base loop.Options) loop.Options {
	base.Update = func(dt time.Duration) {
		var in core.InputFrame
		if b.Input != nil {
			in = b.Input()
		}
		b.Scene.Update(in, dt)
	}
	base.FixedUpdate = b.Scene.FixedUpdate
	base.Render = func(alpha float64) {
		if b.Screen != nil {
			b.Screen.Clear()
			b.Scene.Render(b.Screen, alpha)
		}
		if b.AfterRender != nil {
			b.AfterRender(alpha)
		}
	}
	return base
}
