package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/companion-arcade/internal/platform/tui"
	"github.com/vovakirdan/companion-arcade/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing a specific game.

Use 'arcade list' to see available games.

Examples:
  arcade play rhythm
  arcade play snake --difficulty easy --soul 60
  arcade play dodge --input tilt --max-timer 20
  arcade play puzzle --practice`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	addSessionFlags(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game: %s (use 'arcade list' to see available games)", gameID)
	}
	d, err := difficulty()
	if err != nil {
		return err
	}

	store, writer := openStore()
	defer closeStore(store, writer)

	l := newLauncher(cmd, store, writer)
	logger.Info("playing", "game", gameID, "difficulty", d, "practice", flagPractice)
	return tui.Run(l, gameID, d, flagPractice)
}
