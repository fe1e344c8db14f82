package config

import (
	_ "embed"
)

//go:embed defaults/frameloop.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration: a 60 Hz fixed step and
// refresh with a 250 ms accumulator cap.
func Default() Config {
	return Config{
		Loop: LoopConfig{
			FixedDeltaMS:   1000.0 / 60,
			MaximumDeltaMS: 250,
			RefreshRate:    60,
		},
		Scenes: ScenesConfig{
			Bounce: BounceConfig{
				Balls:       5,
				Speed:       18,
				Gravity:     30,
				Restitution: 0.9,
			},
			Orbit: OrbitConfig{
				Bodies:       4,
				AngularSpeed: 2.0,
				RadiusStep:   3,
			},
		},
		Simulation: SimulationConfig{
			Frames:  600,
			Profile: ProfileSteady,
			Seed:    1,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
