package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/games/puzzle"
)

var flagDate string

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Print the daily constellation puzzle",
	Long: `Print the constellation puzzle for a calendar day. Everyone gets the
same board on the same day.

Examples:
  arcade daily
  arcade daily --date 2025-01-15 --difficulty hard`,
	RunE: runDaily,
}

func init() {
	dailyCmd.Flags().StringVar(&flagDate, "date", "", "Day in YYYY-MM-DD (default today)")
	dailyCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: beginner, easy, medium, hard, master")
	dailyCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game tunables YAML")
}

func runDaily(_ *cobra.Command, _ []string) error {
	date := time.Now()
	if flagDate != "" {
		parsed, err := time.Parse("2006-01-02", flagDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", flagDate, err)
		}
		date = parsed
	}

	d, err := difficulty()
	if err != nil {
		return err
	}
	table, err := config.LoadPuzzle(flagConfig)
	if err != nil {
		return err
	}
	tier, err := table.Tier(d)
	if err != nil {
		return err
	}

	board, par := puzzle.Daily(date, tier.Size, tier.Scramble)
	fmt.Printf("Constellation for %s (%s, %dx%d)\n\n", date.Format("Monday, January 2 2006"), d, tier.Size, tier.Size)
	fmt.Println(board.String())
	fmt.Printf("\nPar: %d moves. Play it with 'arcade play puzzle --difficulty %s'.\n", par, d)
	return nil
}
