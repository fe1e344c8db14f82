// Package config provides YAML-based configuration for the frame loop, its
// demo scenes and headless simulations.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/frameloop/internal/loop"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of frameloop.yaml.
type Config struct {
	Loop       LoopConfig       `yaml:"loop"`
	Scenes     ScenesConfig     `yaml:"scenes"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// LoopConfig defines the scheduler timing.
type LoopConfig struct {
	FixedDeltaMS   float64 `yaml:"fixed_delta_ms"`
	MaximumDeltaMS float64 `yaml:"maximum_delta_ms"` // 0 = unbounded
	RefreshRate    int     `yaml:"refresh_rate"`     // Hz
}

// FixedDelta returns the fixed step as a duration.
func (c LoopConfig) FixedDelta() time.Duration {
	return msToDuration(c.FixedDeltaMS)
}

// MaximumDelta returns the accumulator cap, or loop.Unbounded when unset.
func (c LoopConfig) MaximumDelta() time.Duration {
	if c.MaximumDeltaMS == 0 {
		return loop.Unbounded
	}
	return msToDuration(c.MaximumDeltaMS)
}

// ScenesConfig holds per-scene parameters.
type ScenesConfig struct {
	Bounce BounceConfig `yaml:"bounce"`
	Orbit  OrbitConfig  `yaml:"orbit"`
}

// BounceConfig defines the bouncing balls scene.
type BounceConfig struct {
	Balls       int     `yaml:"balls"`
	Speed       float64 `yaml:"speed"`       // cells per second
	Gravity     float64 `yaml:"gravity"`     // cells per second squared
	Restitution float64 `yaml:"restitution"` // velocity kept on wall hits, 0..1
}

// OrbitConfig defines the orbiting bodies scene.
type OrbitConfig struct {
	Bodies       int     `yaml:"bodies"`
	AngularSpeed float64 `yaml:"angular_speed"` // radians per second of the innermost body
	RadiusStep   float64 `yaml:"radius_step"`   // cells between rings
}

// SimulationConfig defines a headless run.
type SimulationConfig struct {
	Frames  int     `yaml:"frames"`
	Profile Profile `yaml:"profile"`
	Seed    int64   `yaml:"seed"`
}

// Validate reports the first invalid setting, wrapped with ErrInvalid.
func (c Config) Validate() error {
	switch {
	case c.Loop.FixedDeltaMS <= 0:
		return fmt.Errorf("%w: loop.fixed_delta_ms must be positive, got %v", ErrInvalid, c.Loop.FixedDeltaMS)
	case c.Loop.MaximumDeltaMS < 0:
		return fmt.Errorf("%w: loop.maximum_delta_ms must not be negative, got %v", ErrInvalid, c.Loop.MaximumDeltaMS)
	case c.Loop.MaximumDeltaMS != 0 && c.Loop.MaximumDeltaMS < c.Loop.FixedDeltaMS:
		return fmt.Errorf("%w: loop.maximum_delta_ms %v is less than fixed_delta_ms %v",
			ErrInvalid, c.Loop.MaximumDeltaMS, c.Loop.FixedDeltaMS)
	case c.Loop.RefreshRate <= 0:
		return fmt.Errorf("%w: loop.refresh_rate must be positive, got %d", ErrInvalid, c.Loop.RefreshRate)
	case c.Scenes.Bounce.Balls < 1:
		return fmt.Errorf("%w: scenes.bounce.balls must be at least 1", ErrInvalid)
	case c.Scenes.Bounce.Restitution < 0 || c.Scenes.Bounce.Restitution > 1:
		return fmt.Errorf("%w: scenes.bounce.restitution must be within [0, 1]", ErrInvalid)
	case c.Scenes.Orbit.Bodies < 1:
		return fmt.Errorf("%w: scenes.orbit.bodies must be at least 1", ErrInvalid)
	case c.Simulation.Frames < 1:
		return fmt.Errorf("%w: simulation.frames must be at least 1", ErrInvalid)
	}
	if _, ok := Profiles[c.Simulation.Profile]; !ok {
		return fmt.Errorf("%w: unknown simulation.profile %q", ErrInvalid, c.Simulation.Profile)
	}
	return nil
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
