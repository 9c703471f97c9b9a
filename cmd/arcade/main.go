// arcade runs the companion mini-games in the terminal.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu to pick games interactively
//	arcade serve             - Start SSH server for remote play
//	arcade scores <game>     - Show high scores for a game
//	arcade daily             - Print today's constellation puzzle
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Set database path (default: ~/.arcade/scores.db)
//	--log <path>      - Set log file (default: ~/.arcade/arcade.log)
//	--profile <path>  - Set player profile (default: ~/.arcade/profile.toml)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/companion-arcade/internal/games/dodge"
	_ "github.com/vovakirdan/companion-arcade/internal/games/pulse"
	_ "github.com/vovakirdan/companion-arcade/internal/games/puzzle"
	_ "github.com/vovakirdan/companion-arcade/internal/games/rhythm"
	_ "github.com/vovakirdan/companion-arcade/internal/games/runes"
	_ "github.com/vovakirdan/companion-arcade/internal/games/snake"
	_ "github.com/vovakirdan/companion-arcade/internal/games/tuning"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogPath string
	flagProfile string
	flagTheme   string
	flagDebug   bool
)

func main() {
	err := rootCmd.Execute()
	closeLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Companion Arcade - mini-games for your companion, in the terminal",
	Long: `Companion Arcade is a set of short real-time mini-games. Your
companion's Mind, Body and Soul soften each game a little: wider timing
windows, slower hazards and extra lives.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores
  daily    - Print today's constellation puzzle

Examples:
  arcade list
  arcade play rhythm --difficulty hard
  arcade play dodge --practice
  arcade menu
  arcade serve --ssh :2222 --metrics :9090
  arcade scores runes`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.arcade/arcade.log", "Path to log file")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Path to player profile (default ~/.arcade/profile.toml)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "Color theme: default, mono")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(dailyCmd)
}
