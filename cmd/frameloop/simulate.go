package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/registry"
	"github.com/vovakirdan/frameloop/internal/sim"
	"github.com/vovakirdan/frameloop/internal/storage"
)

var (
	flagFrames  int
	flagProfile string
	flagNoSave  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scene>",
	Short: "Run a scene headlessly and report loop statistics",
	Long: `Run a scene on the fixed-step loop without a terminal. Refreshes are
generated by a timing profile instead of a real timer, so a run is
reproducible from its configuration and seed.

Profiles:
  steady  - Refresh exactly at the configured rate
  jitter  - Refresh intervals vary randomly around the rate
  stall   - Jitter plus a long stall every couple of seconds
  slow    - Refresh at a quarter of the rate

The summary is stored in the run history unless --no-save is given.

Examples:
  frameloop simulate bounce
  frameloop simulate orbit --profile stall --frames 1200
  frameloop simulate bounce --profile slow --seed 42 --no-save`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagFrames, "frames", 0, "Frames to simulate (0 = from config)")
	simulateCmd.Flags().StringVar(&flagProfile, "profile", "", "Refresh profile: "+strings.Join(config.ProfileNames(), ", "))
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the run summary")
}

func runSimulate(cmd *cobra.Command, args []string) {
	sceneID := args[0]
	if !registry.Exists(sceneID) {
		exitUnknownScene(sceneID)
	}

	cfg := loadConfig()
	if flagProfile != "" {
		p, err := config.ParseProfile(flagProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.ApplyProfile(&cfg, p)
	}
	if flagFrames > 0 {
		cfg.Simulation.Frames = flagFrames
	}

	logger := newLogger(os.Stderr, "frameloop")

	scene, err := registry.Create(sceneID, cfg.Scenes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := sim.OptionsFromConfig(cfg)
	opts.Logger = logger

	sum, err := sim.Run(ctx, scene, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(sum)

	if flagNoSave {
		return
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database, run not saved", "error", err)
		return
	}
	defer store.Close()

	id, err := store.SaveRun(sum)
	if err != nil {
		logger.Warn("could not save run", "error", err)
		return
	}
	fmt.Printf("\nSaved as run #%d. Run 'frameloop runs %s' to compare.\n", id, sceneID)
}

func printSummary(sum sim.Summary) {
	fmt.Printf("Scene %s, profile %s, seed %d\n", sum.Scene, sum.Profile, sum.Seed)
	fmt.Println()
	fmt.Printf("  %-18s %v\n", "Fixed step", sum.FixedDelta)
	fmt.Printf("  %-18s %s\n", "Accumulator cap", formatMaximum(sum.MaximumDelta))
	fmt.Printf("  %-18s %d\n", "Frames", sum.Frames)
	fmt.Printf("  %-18s %d\n", "Fixed steps", sum.FixedSteps)
	fmt.Printf("  %-18s %d\n", "Max steps/frame", sum.MaxStepsPerFrame)
	fmt.Printf("  %-18s %d\n", "Capped frames", sum.CappedFrames)
	fmt.Printf("  %-18s %v\n", "Elapsed", sum.Elapsed)
	fmt.Printf("  %-18s %v\n", "Simulated", sum.SimTime)
	fmt.Printf("  %-18s %v\n", "Dropped", sum.Dropped)
	fmt.Printf("  %-18s %v\n", "Leftover", sum.Leftover)
	fmt.Printf("  %-18s %.3f\n", "Mean alpha", sum.MeanAlpha)
	fmt.Printf("  %-18s %.1f\n", "Final FPS", sum.FinalFPS)
}
