package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/storage"
)

var (
	flagScoreLimit int
	flagClear      bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores for a game",
	Long: `Display the top scores for a specific game, or the latest sessions
across every game when no game is given.

Examples:
  arcade scores
  arcade scores rhythm
  arcade scores snake --limit 20
  arcade scores dodge --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoreLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded result for the game")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("could not open scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClear {
			return errors.New("--clear needs a game")
		}
		return printRecent(store)
	}

	gameID := args[0]
	info, ok := registry.Lookup(gameID)
	if !ok {
		return fmt.Errorf("unknown game: %s (use 'arcade list' to see available games)", gameID)
	}

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return fmt.Errorf("could not clear scores: %w", err)
		}
		fmt.Printf("Cleared scores for %s.\n", info.Title)
		return nil
	}

	scores, err := store.TopScores(gameID, flagScoreLimit)
	if err != nil {
		return fmt.Errorf("could not load scores: %w", err)
	}

	fmt.Printf("High scores for %s:\n\n", info.Title)
	if len(scores) == 0 {
		fmt.Println("  No scores yet. Be the first to play!")
		return nil
	}

	fmt.Printf("  %-4s  %8s  %-8s  %5s  %-8s  %s\n", "#", "Score", "Result", "Acc", "Level", "Date")
	fmt.Println("  ----  --------  --------  -----  --------  ----------------")
	for i, r := range scores {
		fmt.Printf("  %-4d  %8d  %-8s  %4.0f%%  %-8s  %s\n",
			i+1, r.Score, r.Tier, r.Accuracy, r.Difficulty, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Printf("\n  %d played, %d won, average accuracy %.0f%%, %d XP earned\n",
			stats.GamesCount, stats.Wins, stats.AvgAccuracy, stats.TotalXP)
	}

	ratings, err := store.Ratings(gameID)
	if err == nil && len(ratings) > 0 {
		fmt.Println("\n  Song ratings:")
		for _, r := range ratings {
			fmt.Printf("    %-24s %.1f★ (%d)\n", r.Subject, r.Average, r.Count)
		}
	}
	return nil
}

func printRecent(store *storage.Store) error {
	recent, err := store.RecentResults(flagScoreLimit)
	if err != nil {
		return fmt.Errorf("could not load results: %w", err)
	}
	fmt.Println("Recent sessions:")
	fmt.Println()
	if len(recent) == 0 {
		fmt.Println("  Nothing played yet.")
		return nil
	}
	for _, r := range recent {
		title := r.GameID
		if info, ok := registry.Lookup(r.GameID); ok {
			title = info.Title
		}
		fmt.Printf("  %-16s  %-22s  %8d  %-8s  %4.0f%%\n",
			r.CreatedAt.Format("2006-01-02 15:04"), title, r.Score, r.Tier, r.Accuracy)
	}
	return nil
}
