package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameloop/internal/loop"
	"github.com/vovakirdan/frameloop/internal/registry"
	"github.com/vovakirdan/frameloop/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsStats bool
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scene]",
	Short: "Show stored simulation runs",
	Long: `Show the most recent simulation runs, optionally for one scene.

Examples:
  frameloop runs                  # Recent runs of all scenes
  frameloop runs bounce           # Recent runs of the bounce scene
  frameloop runs bounce --stats   # Aggregated statistics
  frameloop runs bounce --clear   # Delete stored runs of a scene`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsStats, "stats", false, "Show aggregated statistics per scene")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete stored runs of the given scene")
}

func runRuns(cmd *cobra.Command, args []string) {
	var sceneID string
	if len(args) > 0 {
		sceneID = args[0]
		if !registry.Exists(sceneID) {
			exitUnknownScene(sceneID)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagRunsClear:
		if sceneID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a scene")
			os.Exit(1)
		}
		if err := store.ClearRuns(sceneID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs of %s.\n", sceneID)
	case flagRunsStats:
		showStats(store, sceneID)
	default:
		showRuns(store, sceneID)
	}
}

func showRuns(store *storage.Store, sceneID string) {
	var (
		runs []storage.Run
		err  error
	)
	if sceneID == "" {
		runs, err = store.RecentRuns(flagRunsLimit)
	} else {
		runs, err = store.RunsForScene(sceneID, flagRunsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("Run 'frameloop simulate <scene>' to record one.")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-7s  %-6s  %-6s  %-6s  %-6s  %-10s  %s\n",
		"#", "Scene", "Profile", "Fixed", "Frames", "Steps", "Capped", "Dropped", "Date")
	fmt.Printf("  %-4s  %-8s  %-7s  %-6s  %-6s  %-6s  %-6s  %-10s  %s\n",
		"-", "-----", "-------", "-----", "------", "-----", "------", "-------", "----")

	for _, r := range runs {
		fmt.Printf("  %-4d  %-8s  %-7s  %-6s  %-6d  %-6d  %-6d  %-10s  %s\n",
			r.ID,
			r.Scene,
			r.Profile,
			formatStep(r.FixedDelta),
			r.Frames,
			r.FixedSteps,
			r.CappedFrames,
			r.Dropped.Round(time.Millisecond),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}

func showStats(store *storage.Store, sceneID string) {
	ids := []string{sceneID}
	if sceneID == "" {
		ids = ids[:0]
		for _, info := range registry.List() {
			ids = append(ids, info.ID)
		}
	}

	fmt.Printf("  %-8s  %-5s  %-8s  %-8s  %-7s  %-6s  %s\n",
		"Scene", "Runs", "Frames", "Steps", "Capped", "Alpha", "Last run")
	fmt.Printf("  %-8s  %-5s  %-8s  %-8s  %-7s  %-6s  %s\n",
		"-----", "----", "------", "-----", "------", "-----", "--------")

	for _, id := range ids {
		stats, err := store.GetSceneStats(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching stats: %v\n", err)
			os.Exit(1)
		}
		last := "-"
		if !stats.LastRun.IsZero() {
			last = stats.LastRun.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-8s  %-5d  %-8d  %-8d  %-7d  %-6.3f  %s\n",
			stats.Scene, stats.Runs, stats.TotalFrames, stats.TotalSteps,
			stats.CappedFrames, stats.MeanAlpha, last)
	}
}

// formatStep prints a fixed step compactly, e.g. "16.7ms".
func formatStep(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}

// formatMaximum prints an accumulator cap.
func formatMaximum(d time.Duration) string {
	if d == loop.Unbounded {
		return "unbounded"
	}
	return d.String()
}
