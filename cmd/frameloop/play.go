package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/platform/tui"
	"github.com/vovakirdan/frameloop/internal/registry"
	"github.com/vovakirdan/frameloop/internal/storage"
)

var (
	flagDebug    bool
	flagDebugLog string
)

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Play a scene",
	Long: `Play a scene driven by the fixed-step loop. Without a scene, opens the
scene menu.

Controls:
  Arrows/WASD  - Push
  Space        - Kick
  P            - Pause (stops the loop) / resume (starts it again)
  R            - Restart the scene
  ?            - Toggle help
  Q/Ctrl+C     - Quit

The bottom line shows the measured FPS, the interpolation factor (alpha) and
the number of fixed steps simulated.

Examples:
  frameloop play
  frameloop play bounce
  frameloop play orbit --config ./my-frameloop.yaml
  frameloop play bounce --debug --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagDebug, "debug", false, "Write logs to a file while playing")
	playCmd.Flags().StringVar(&flagDebugLog, "debug-log", "frameloop-debug.log", "Log file used with --debug")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	// The alt screen owns stdout; logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if flagDebug {
		f, err := tea.LogToFile(flagDebugLog, "frameloop")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "frameloop")

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rc := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}

	if len(args) == 0 {
		// Menu shows stored run counts; works without them
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open runs database", "error", err)
		}
		runErr := tui.RunSession(cfg, rc, store, logger)
		if store != nil {
			store.Close()
		}
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
			os.Exit(1)
		}
		return
	}

	sceneID := args[0]
	if !registry.Exists(sceneID) {
		exitUnknownScene(sceneID)
	}

	scene, err := registry.Create(sceneID, cfg.Scenes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("playing", "scene", sceneID, "fixed", cfg.Loop.FixedDelta(), "maximum", cfg.Loop.MaximumDelta())
	err = tui.Run(scene, tui.PlayerConfig{
		Loop:    cfg.Loop,
		Runtime: rc,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running scene: %v\n", err)
		os.Exit(1)
	}
}
