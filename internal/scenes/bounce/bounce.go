// Package bounce implements a bouncing balls scene.
// Balls fall under gravity inside a bordered arena and lose a little speed
// on every wall hit. Positions are integrated in FixedUpdate only, so the
// trajectory depends on the fixed step and never on the refresh rate.
package bounce

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/registry"
)

// BallChar is the glyph drawn for every ball.
const BallChar = '●'

// Impulses applied from input, in cells per second
const (
	KickImpulse = 25.0
	PushImpulse = 8.0
)

type ball struct {
	prev, curr core.Vec2
	vel        core.Vec2
	color      core.Color
}

// Scene implements the bouncing balls workload.
type Scene struct {
	params config.BounceConfig
	cfg    core.RuntimeConfig
	rng    *rand.Rand
	arena  core.Rect
	balls  []ball
	steps  int
	simT   time.Duration
	bounce int // wall hits since Reset
}

// New creates a bounce scene with the given parameters.
func New(params config.BounceConfig) *Scene {
	return &Scene{params: params}
}

// ID returns the unique identifier for this scene.
func (s *Scene) ID() string {
	return "bounce"
}

// Title returns the display name for this scene.
func (s *Scene) Title() string {
	return "Bouncing Balls"
}

// Reset places the balls at random positions with random velocities.
func (s *Scene) Reset(cfg core.RuntimeConfig) {
	s.cfg = cfg
	s.rng = rand.New(rand.NewSource(cfg.Seed))
	s.arena = core.NewRect(0, 0, cfg.ScreenW, cfg.ScreenH).Inset(1)
	s.steps = 0
	s.simT = 0
	s.bounce = 0

	s.balls = make([]ball, s.params.Balls)
	for i := range s.balls {
		pos := core.Vec2{
			X: float64(s.arena.X) + s.rng.Float64()*float64(max(s.arena.W-1, 0)),
			Y: float64(s.arena.Y) + s.rng.Float64()*float64(max(s.arena.H-1, 0))/2,
		}
		angle := s.rng.Float64() * 2 * math.Pi
		s.balls[i] = ball{
			prev:  pos,
			curr:  pos,
			vel:   core.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(s.params.Speed),
			color: core.PaletteColor(i),
		}
	}
}

// Update applies input impulses. It runs once per frame.
func (s *Scene) Update(in core.InputFrame, _ time.Duration) {
	if in.Has(core.ActionRestart) {
		s.Reset(s.cfg)
		return
	}

	var push core.Vec2
	if in.Has(core.ActionKick) || in.Has(core.ActionUp) {
		push.Y -= KickImpulse
	}
	if in.Has(core.ActionDown) {
		push.Y += PushImpulse
	}
	if in.Has(core.ActionLeft) {
		push.X -= PushImpulse
	}
	if in.Has(core.ActionRight) {
		push.X += PushImpulse
	}
	if push == (core.Vec2{}) {
		return
	}
	for i := range s.balls {
		s.balls[i].vel = s.balls[i].vel.Add(push)
	}
}

// FixedUpdate integrates one step with semi-implicit Euler.
func (s *Scene) FixedUpdate(fixedDeltaTime time.Duration) {
	dt := fixedDeltaTime.Seconds()
	minX, maxX := float64(s.arena.X), float64(s.arena.Right()-1)
	minY, maxY := float64(s.arena.Y), float64(s.arena.Bottom()-1)

	for i := range s.balls {
		b := &s.balls[i]
		b.prev = b.curr

		b.vel.Y += s.params.Gravity * dt
		b.curr = b.curr.Add(b.vel.Scale(dt))

		if b.curr.X < minX || b.curr.X > maxX {
			b.curr.X = core.ClampF(b.curr.X, minX, maxX)
			b.vel.X = -b.vel.X * s.params.Restitution
			s.bounce++
		}
		if b.curr.Y < minY || b.curr.Y > maxY {
			b.curr.Y = core.ClampF(b.curr.Y, minY, maxY)
			b.vel.Y = -b.vel.Y * s.params.Restitution
			s.bounce++
		}
	}

	s.steps++
	s.simT += fixedDeltaTime
}

// Render draws the arena and every ball blended between its last two
// fixed-step positions.
func (s *Scene) Render(dst *core.Screen, alpha float64) {
	dst.DrawBox(core.NewRect(0, 0, dst.Width(), dst.Height()), core.ColorGray)

	for _, b := range s.balls {
		x, y := b.at(alpha).Round()
		dst.SetCell(x, y, BallChar, b.color)
	}

	dst.DrawText(2, 0, fmt.Sprintf(" hits %d ", s.bounce))
}

// Positions returns every ball blended by alpha.
func (s *Scene) Positions(alpha float64) []core.Vec2 {
	out := make([]core.Vec2, len(s.balls))
	for i, b := range s.balls {
		out[i] = b.at(alpha)
	}
	return out
}

func (b ball) at(alpha float64) core.Vec2 {
	return core.Lerp(b.prev, b.curr, alpha)
}

// State reports simulation progress.
func (s *Scene) State() core.SceneState {
	return core.SceneState{Steps: s.steps, SimTime: s.simT}
}

// Bounces returns the number of wall hits since Reset.
func (s *Scene) Bounces() int {
	return s.bounce
}

func init() {
	registry.Register("bounce", func(cfg config.ScenesConfig) registry.Scene {
		return New(cfg.Bounce)
	})
}
