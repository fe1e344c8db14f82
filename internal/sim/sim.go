// Package sim runs a scene headlessly on a fixed-step loop driven by a
// manual refresher, so a whole run is reproducible from its configuration
// and seed. It is used to study how a refresh-timing profile interacts with
// the fixed step and the accumulator cap.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/loop"
	"github.com/vovakirdan/frameloop/internal/refresh"
	"github.com/vovakirdan/frameloop/internal/registry"
)

// Options configures one run.
type Options struct {
	Loop    config.LoopConfig
	Profile config.Profile
	Frames  int // total frames, including the one run by Start
	Seed    int64

	// Screen size of the off-screen buffer; scenes are rendered every frame.
	ScreenW, ScreenH int

	Logger *log.Logger
}

// OptionsFromConfig builds run options from a loaded configuration.
func OptionsFromConfig(cfg config.Config) Options {
	rc := core.DefaultConfig()
	return Options{
		Loop:    cfg.Loop,
		Profile: cfg.Simulation.Profile,
		Frames:  cfg.Simulation.Frames,
		Seed:    cfg.Simulation.Seed,
		ScreenW: rc.ScreenW,
		ScreenH: rc.ScreenH,
	}
}

// Summary describes a finished run.
type Summary struct {
	Scene            string
	Profile          config.Profile
	Seed             int64
	FixedDelta       time.Duration
	MaximumDelta     time.Duration
	Frames           int
	FixedSteps       int
	MaxStepsPerFrame int
	CappedFrames     int
	Dropped          time.Duration // time discarded by the accumulator cap
	Elapsed          time.Duration // total refresh time fed to the loop
	Leftover         time.Duration // accumulator after the last frame
	SimTime          time.Duration // time simulated by the scene
	MeanAlpha        float64
	FinalFPS         float64
}

// Run simulates scene for opts.Frames frames. The scene is reset with
// opts.Seed first. Run returns early with the context error if ctx is done.
func Run(ctx context.Context, scene registry.Scene, opts Options) (Summary, error) {
	spec, ok := config.Profiles[opts.Profile]
	if !ok {
		return Summary{}, fmt.Errorf("sim: unknown profile %q", opts.Profile)
	}
	if opts.Frames < 1 {
		return Summary{}, fmt.Errorf("sim: frames must be at least 1, got %d", opts.Frames)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	fixed, maximum := opts.Loop.FixedDelta(), opts.Loop.MaximumDelta()
	scene.Reset(core.RuntimeConfig{
		ScreenW:    opts.ScreenW,
		ScreenH:    opts.ScreenH,
		FixedDelta: fixed,
		Seed:       opts.Seed,
	})

	sum := Summary{
		Scene:        scene.ID(),
		Profile:      opts.Profile,
		Seed:         opts.Seed,
		FixedDelta:   fixed,
		MaximumDelta: maximum,
	}
	var (
		stepsThisFrame int
		alphaTotal     float64
	)

	pump := refresh.NewManual(time.Unix(0, 0))
	binding := registry.Binding{
		Scene:  scene,
		Screen: core.NewScreen(opts.ScreenW, opts.ScreenH),
		AfterRender: func(alpha float64) {
			sum.Frames++
			sum.MaxStepsPerFrame = max(sum.MaxStepsPerFrame, stepsThisFrame)
			stepsThisFrame = 0
			alphaTotal += alpha
		},
	}
	lopts := binding.Options(loop.Options{
		FixedDeltaTime:   fixed,
		MaximumDeltaTime: maximum,
		Refresher:        pump,
		Clock:            pump.Clock(),
		Logger:           logger,
	})
	fixedUpdate := lopts.FixedUpdate
	lopts.FixedUpdate = func(dt time.Duration) {
		stepsThisFrame++
		sum.FixedSteps++
		fixedUpdate(dt)
	}

	l, err := loop.New(lopts)
	if err != nil {
		return sum, fmt.Errorf("sim: %w", err)
	}
	if err := l.Start(); err != nil {
		return sum, fmt.Errorf("sim: %w", err)
	}
	defer l.Stop()

	timeline := NewTimeline(spec, opts.Loop.RefreshRate, opts.Seed)
	for sum.Frames < opts.Frames {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("sim: interrupted after %d frames: %w", sum.Frames, err)
		}

		d := timeline.Next()
		if headroom := maximum - l.Accumulator(); d > headroom {
			sum.CappedFrames++
			sum.Dropped += d - headroom
		}
		sum.Elapsed += d

		if pump.Advance(d) == 0 {
			return sum, fmt.Errorf("sim: loop stopped ticking after %d frames", sum.Frames)
		}
	}

	sum.SimTime = scene.State().SimTime
	sum.MeanAlpha = alphaTotal / float64(sum.Frames)
	sum.FinalFPS = l.FramesPerSecond()
	sum.Leftover = l.Accumulator()

	logger.Debug("simulation finished",
		"scene", sum.Scene,
		"profile", sum.Profile,
		"frames", sum.Frames,
		"steps", sum.FixedSteps,
		"capped", sum.CappedFrames,
	)
	return sum, nil
}
