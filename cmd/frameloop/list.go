package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/frameloop/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenes",
	Long: `Shows every registered scene with the loop settings it would run with.
Scene parameters come from the loaded configuration.`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func runList(cmd *cobra.Command, args []string) {
	scenes := registry.List()
	if len(scenes) == 0 {
		fmt.Println("No scenes registered.")
		return
	}

	cfg := loadConfig()

	idWidth := len("Scene")
	for _, s := range scenes {
		idWidth = max(idWidth, len(s.ID))
	}

	fmt.Printf("  %-*s  %s\n", idWidth, "Scene", "Title")
	for _, s := range scenes {
		fmt.Printf("  %-*s  %s\n", idWidth, s.ID, s.Title)
	}

	fmt.Println()
	fmt.Printf("Fixed step %v, accumulator cap %s, refresh %d Hz.\n",
		cfg.Loop.FixedDelta(), formatMaximum(cfg.Loop.MaximumDelta()), cfg.Loop.RefreshRate)
	fmt.Println("Run 'frameloop play <scene>' to play one.")
}
