// frameloop plays and measures fixed-timestep frame loops in the terminal.
//
// Usage:
//
//	frameloop list                 - List available scenes
//	frameloop play [scene]         - Play a scene, or pick one from the menu
//	frameloop serve                - Start SSH server for remote sessions
//	frameloop simulate <scene>     - Run a scene headlessly and store a summary
//	frameloop runs [scene]         - Show stored simulation runs
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.frameloop/configs, ./configs)
//	--db <path>         - Run history database (default: ~/.frameloop/runs.db)
//	--seed <value>      - RNG seed (0 = config or time based)
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/storage"

	// Import scenes to register them
	_ "github.com/vovakirdan/frameloop/internal/scenes/bounce"
	_ "github.com/vovakirdan/frameloop/internal/scenes/orbit"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "frameloop",
	Short: "Fixed-timestep frame loops in your terminal",
	Long: `frameloop drives demo scenes with a fixed-timestep frame loop: logic runs
in fixed steps while rendering interpolates between them.

Available commands:
  list      - Show all available scenes
  play      - Play a scene interactively
  serve     - Start SSH server for remote sessions
  simulate  - Run a scene headlessly over a refresh-timing profile
  runs      - View stored simulation runs

Examples:
  frameloop list
  frameloop play bounce
  frameloop simulate orbit --profile stall --frames 1200
  frameloop runs bounce`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to frameloop.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to run history database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = from config or time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runsCmd)
}

// loadConfig loads the configuration or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagSeed != 0 {
		cfg.Simulation.Seed = flagSeed
	}
	return cfg
}

// newLogger builds the command logger writing to w.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// exitUnknownScene reports an unregistered scene and exits.
func exitUnknownScene(sceneID string) {
	fmt.Fprintf(os.Stderr, "Error: unknown scene %q\n", sceneID)
	fmt.Fprintln(os.Stderr, "Run 'frameloop list' to see available scenes.")
	os.Exit(1)
}
