package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/companion-arcade/internal/audio"
	"github.com/vovakirdan/companion-arcade/internal/config"
	"github.com/vovakirdan/companion-arcade/internal/content"
	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
	"github.com/vovakirdan/companion-arcade/internal/input"
	"github.com/vovakirdan/companion-arcade/internal/platform/tui"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/session"
	"github.com/vovakirdan/companion-arcade/internal/storage"
)

// Session flags shared by play, menu and serve.
var (
	flagConfig        string
	flagDifficulty    string
	flagPractice      bool
	flagMaxTimer      float64
	flagIntervalScale float64
	flagInput         string
	flagAudio         bool
	flagTrackURL      string
	flagTiltSensor    bool
	flagMind          int
	flagBody          int
	flagSoul          int
)

var (
	profile config.Profile
	logger  = log.New(io.Discard)
	logFile *os.File
)

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game tunables YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: beginner, easy, medium, hard, master")
	cmd.Flags().BoolVar(&flagPractice, "practice", false, "Practice mode: half time, no XP, no high score")
	cmd.Flags().Float64Var(&flagMaxTimer, "max-timer", 0, "Cap every time limit at this many seconds (0 = no cap)")
	cmd.Flags().Float64Var(&flagIntervalScale, "interval-scale", 1, "Scale the interval between random events")
	cmd.Flags().StringVar(&flagInput, "input", "", "Position source for steering games: touch, tilt")
	cmd.Flags().BoolVar(&flagAudio, "audio", false, "Play backing tracks on the system speaker")
	cmd.Flags().StringVar(&flagTrackURL, "track-url", "", "Generated track service URL")
	cmd.Flags().BoolVar(&flagTiltSensor, "tilt-sensor", false, "Emulate a tilt sensor with the mouse (use with --input tilt)")
	cmd.Flags().IntVar(&flagMind, "mind", 0, "Companion Mind (0-100), widens timing windows")
	cmd.Flags().IntVar(&flagBody, "body", 0, "Companion Body (0-100), slows hazards")
	cmd.Flags().IntVar(&flagSoul, "soul", 0, "Companion Soul (0-100), grants extra lives")
}

// loadEnvironment reads the profile and opens the log before any command runs.
func loadEnvironment(cmd *cobra.Command, _ []string) error {
	path := flagProfile
	if path == "" {
		path = config.DefaultProfilePath()
	}
	p, err := config.LoadProfile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	profile = p

	if !cmd.Flags().Changed("fps") && p.Preferences.FPS > 0 {
		flagFPS = p.Preferences.FPS
	}
	logger = openLogger(flagLogPath)
	logger.Debug("starting", "command", cmd.Name(), "profile", path)
	return nil
}

// openLogger logs to a file so the terminal stays clean for the game.
func openLogger(path string) *log.Logger {
	if path == "" {
		return log.New(io.Discard)
	}
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard)
	}
	logFile = f

	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
		Level:           level,
	})
}

func closeLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// difficulty resolves --difficulty, then the profile, then medium.
func difficulty() (core.Difficulty, error) {
	s := flagDifficulty
	if s == "" {
		s = profile.Preferences.Difficulty
	}
	return core.ParseDifficulty(s)
}

// companion applies --mind/--body/--soul over the profile.
func companion(cmd *cobra.Command) core.CompanionStats {
	stats := profile.Companion
	if cmd.Flags().Changed("mind") {
		stats.Mind = flagMind
	}
	if cmd.Flags().Changed("body") {
		stats.Body = flagBody
	}
	if cmd.Flags().Changed("soul") {
		stats.Soul = flagSoul
	}
	return stats
}

// runtimeConfig sizes the screen to the terminal when it can be probed.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the score database and its writer. Both are nil when
// the database is unavailable; games still work without it.
func openStore() (*storage.Store, *storage.AsyncWriter) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores database unavailable", "path", flagDBPath, "error", err)
		return nil, nil
	}
	return store, storage.NewAsyncWriter(store, 0, logger)
}

func closeStore(store *storage.Store, writer *storage.AsyncWriter) {
	if writer != nil {
		writer.Close()
	}
	if store != nil {
		store.Close()
	}
}

// newLauncher assembles everything a session needs from flags and profile.
func newLauncher(cmd *cobra.Command, store *storage.Store, writer *storage.AsyncWriter) *tui.Launcher {
	source := flagInput
	if source == "" {
		source = profile.Preferences.Input
	}
	setup := registry.Setup{
		ConfigPath: flagConfig,
		Input:      input.ParseSource(source),
		TiltSensor: flagTiltSensor,
		Date:       time.Now(),
	}

	trackURL := flagTrackURL
	if trackURL == "" {
		trackURL = profile.Content.TrackURL
	}
	if trackURL != "" {
		timeout := time.Duration(profile.Content.TimeoutMS) * time.Millisecond
		setup.Tracks = content.NewClient(trackURL, timeout, logger)
	}

	if flagAudio || profile.Preferences.Audio {
		sp := &audio.Speaker{}
		if err := sp.Open(); err != nil {
			logger.Warn("audio disabled", "error", err)
		} else {
			setup.Audio = sp
		}
	}

	var haptics engine.Haptics = engine.LogHaptics{Logger: logger}
	if profile.Preferences.Haptics {
		haptics = engine.NewBellHaptics(os.Stdout)
	}

	opts := session.Options{
		Stats:              companion(cmd),
		QuestIntervalScale: flagIntervalScale,
		MaxTimer:           flagMaxTimer,
		Haptics:            haptics,
		Logger:             logger,
		OnDamage: func(e core.DamageEvent) {
			logger.Debug("damage", "target", e.Target, "amount", e.Amount, "source", e.Source)
		},
	}
	if writer != nil {
		opts.Feedback = writer
	}

	return &tui.Launcher{
		Config:  runtimeConfig(),
		Setup:   setup,
		Options: opts,
		Store:   store,
		Theme:   tui.ThemeByName(flagTheme),
	}
}
