// Package orbit implements concentric bodies circling the screen center at
// different rates. Angles advance only in FixedUpdate and are blended by
// alpha in Render.
package orbit

import (
	"math"
	"time"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/registry"
)

// Visual characters for rendering
const (
	BodyChar   = '◉'
	CenterChar = '✶'
	RingChar   = '·'
)

// aspect compensates for terminal cells being about twice as tall as wide.
const aspect = 0.5

// SpeedStep is the multiplier change applied by Up/Down.
const SpeedStep = 0.25

type body struct {
	prev, curr float64 // angle in radians
	radius     float64
	color      core.Color
}

// Scene implements the orbit workload.
type Scene struct {
	params    config.OrbitConfig
	cfg       core.RuntimeConfig
	center    core.Vec2
	bodies    []body
	direction float64
	speed     float64
	steps     int
	simT      time.Duration
}

// New creates an orbit scene with the given parameters.
func New(params config.OrbitConfig) *Scene {
	return &Scene{params: params}
}

// ID returns the unique identifier for this scene.
func (s *Scene) ID() string {
	return "orbit"
}

// Title returns the display name for this scene.
func (s *Scene) Title() string {
	return "Orbits"
}

// Reset spreads the bodies evenly around their rings.
func (s *Scene) Reset(cfg core.RuntimeConfig) {
	s.cfg = cfg
	s.center = core.NewRect(0, 0, cfg.ScreenW, cfg.ScreenH).Center()
	s.direction = 1
	s.speed = 1
	s.steps = 0
	s.simT = 0

	// Seed rotates the starting phase so different runs look different
	phase := float64(cfg.Seed%360) * math.Pi / 180

	s.bodies = make([]body, s.params.Bodies)
	for i := range s.bodies {
		a := phase + float64(i)*2*math.Pi/float64(len(s.bodies))
		s.bodies[i] = body{
			prev:   a,
			curr:   a,
			radius: float64(i+1) * s.params.RadiusStep,
			color:  core.PaletteColor(i),
		}
	}
}

// Update reverses direction on Kick and changes speed on Up/Down.
func (s *Scene) Update(in core.InputFrame, _ time.Duration) {
	if in.Has(core.ActionRestart) {
		s.Reset(s.cfg)
		return
	}
	if in.Has(core.ActionKick) {
		s.direction = -s.direction
	}
	if in.Has(core.ActionUp) {
		s.speed += SpeedStep
	}
	if in.Has(core.ActionDown) {
		s.speed = max(s.speed-SpeedStep, 0)
	}
}

// FixedUpdate advances every body by its angular velocity. Outer rings move
// slower, in proportion to their index.
func (s *Scene) FixedUpdate(fixedDeltaTime time.Duration) {
	dt := fixedDeltaTime.Seconds()
	for i := range s.bodies {
		b := &s.bodies[i]
		b.prev = b.curr
		b.curr += s.direction * s.speed * s.AngularSpeed(i) * dt
	}
	s.steps++
	s.simT += fixedDeltaTime
}

// AngularSpeed returns the base angular speed of ring i in radians per second.
func (s *Scene) AngularSpeed(i int) float64 {
	return s.params.AngularSpeed / float64(i+1)
}

// Render draws the rings, the center and the bodies at their blended angles.
func (s *Scene) Render(dst *core.Screen, alpha float64) {
	for _, b := range s.bodies {
		samples := int(b.radius * 8)
		for k := 0; k < samples; k++ {
			x, y := s.point(b.radius, float64(k)*2*math.Pi/float64(samples)).Round()
			dst.SetCell(x, y, RingChar, core.ColorGray)
		}
	}

	cx, cy := s.center.Round()
	dst.SetCell(cx, cy, CenterChar, core.ColorYellow)

	for i, p := range s.Positions(alpha) {
		x, y := p.Round()
		dst.SetCell(x, y, BodyChar, s.bodies[i].color)
	}
}

// Positions returns every body's screen position blended by alpha.
func (s *Scene) Positions(alpha float64) []core.Vec2 {
	out := make([]core.Vec2, len(s.bodies))
	for i, b := range s.bodies {
		angle := b.prev + (b.curr-b.prev)*alpha
		out[i] = s.point(b.radius, angle)
	}
	return out
}

// Angles returns the current angle of every body.
func (s *Scene) Angles() []float64 {
	out := make([]float64, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.curr
	}
	return out
}

func (s *Scene) point(radius, angle float64) core.Vec2 {
	return core.Vec2{
		X: s.center.X + radius*math.Cos(angle),
		Y: s.center.Y + radius*math.Sin(angle)*aspect,
	}
}

// State reports simulation progress.
func (s *Scene) State() core.SceneState {
	return core.SceneState{Steps: s.steps, SimTime: s.simT}
}

func init() {
	registry.Register("orbit", func(cfg config.ScenesConfig) registry.Scene {
		return New(cfg.Orbit)
	})
}
