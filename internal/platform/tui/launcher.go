package tui

import (
	"time"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/metrics"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/session"
	"github.com/vovakirdan/companion-arcade/internal/storage"
)

// Launcher creates sessions with the host's shared setup. One launcher
// serves every session a host runs; it is safe to share between SSH
// connections because Start copies everything it changes.
type Launcher struct {
	Config  core.RuntimeConfig
	Setup   registry.Setup  // factory inputs; Difficulty and Seed are per session
	Options session.Options // session inputs; Feedback should not block
	Store   *storage.Store  // high scores for the result screen, may be nil
	Metrics *metrics.Recorder
	Theme   Theme
}

// Start creates a session of gameID at difficulty d, or the nearest tier
// the game offers. A zero seed in Config draws a fresh one from the clock.
func (l *Launcher) Start(gameID string, d core.Difficulty, practice bool) (*session.Session, error) {
	if d == "" {
		d = core.DifficultyMedium
	}
	if info, ok := registry.Lookup(gameID); ok {
		d = d.Within(info.Tiers)
	}
	setup := l.Setup
	setup.Difficulty = d
	setup.Seed = l.Config.Seed
	if setup.Seed == 0 {
		setup.Seed = time.Now().UnixNano()
	}

	game, err := registry.Create(gameID, setup)
	if err != nil {
		return nil, err
	}

	opts := l.Options
	opts.Seed = setup.Seed
	opts.Practice = practice
	opts.Difficulty = d
	next := opts.OnComplete
	rec := l.Metrics
	opts.OnComplete = func(r core.MiniGameResult) {
		rec.SessionCompleted(gameID, r)
		if next != nil {
			next(r)
		}
	}

	rec.SessionStarted(gameID)
	return session.New(game, opts), nil
}

// Release closes a session and marks it inactive. It is safe to call
// more than once.
func (l *Launcher) Release(s *session.Session) {
	if s == nil || s.Closed() {
		return
	}
	s.Close()
	l.Metrics.SessionClosed()
}

// HighScore returns the best recorded score for gameID, or 0.
func (l *Launcher) HighScore(gameID string) int {
	if l.Store == nil {
		return 0
	}
	high, err := l.Store.HighScore(gameID)
	if err != nil {
		return 0
	}
	return high
}

func (l *Launcher) fps() int {
	if l.Config.TickRate <= 0 {
		return DefaultFPS
	}
	return l.Config.TickRate
}
