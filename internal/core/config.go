package core

import "time"

// RuntimeConfig is passed to scenes on Reset so they can adapt to the
// viewport and run deterministically.
type RuntimeConfig struct {
	ScreenW    int           // Screen width in characters
	ScreenH    int           // Screen height in characters
	FixedDelta time.Duration // Length of one fixed simulation step
	Seed       int64         // RNG seed; 0 means pick one in the platform layer
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:    80,
		ScreenH:    24,
		FixedDelta: time.Second / 60,
	}
}

// SceneState summarizes what a scene has simulated so far.
type SceneState struct {
	Steps   int           // Fixed steps applied since Reset
	SimTime time.Duration // Simulated time, Steps * FixedDelta
	Paused  bool
}
