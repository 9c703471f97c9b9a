package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/companion-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available games",
	Long:  "Display all registered games with their difficulty tiers.",
	Run: func(_ *cobra.Command, _ []string) {
		games := registry.List()
		if len(games) == 0 {
			fmt.Println("No games available.")
			return
		}

		fmt.Println("Available games:")
		fmt.Println()
		for _, g := range games {
			tiers := make([]string, len(g.Tiers))
			for i, t := range g.Tiers {
				tiers[i] = string(t)
			}
			fmt.Printf("  %-8s %-22s [%s]\n", g.ID, g.Title, strings.Join(tiers, ", "))
			fmt.Printf("           %s\n", g.Blurb)
		}
		fmt.Println()
		fmt.Println("Use 'arcade play <game>' to start a game.")
	},
}
