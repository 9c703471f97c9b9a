package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/companion-arcade/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the game picker menu",
	Long: `Launch an interactive menu to browse and select games.

Use arrow keys to pick a game and its difficulty, p for practice,
Enter to play and Tab for the scoreboard. After each game you return
to the menu.`,
	RunE: runMenu,
}

func init() {
	addSessionFlags(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	d, err := difficulty()
	if err != nil {
		return err
	}

	store, writer := openStore()
	defer closeStore(store, writer)

	l := newLauncher(cmd, store, writer)
	width, height := l.Config.ScreenW, l.Config.ScreenH

	for {
		result, err := tui.RunMenu(width, height, d, l.Theme)
		if err != nil {
			return err
		}
		if result.Width > 0 && result.Height > 0 {
			width, height = result.Width, result.Height
		}

		switch {
		case result.Quit:
			return nil

		case result.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, width, height, l.Theme)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		case result.Selection != nil:
			sel := result.Selection
			l.Config.ScreenW, l.Config.ScreenH = width, height
			logger.Info("playing", "game", sel.GameID, "difficulty", sel.Difficulty, "practice", sel.Practice)
			if err := tui.Run(l, sel.GameID, sel.Difficulty, sel.Practice); err != nil {
				return err
			}
		}
	}
}
