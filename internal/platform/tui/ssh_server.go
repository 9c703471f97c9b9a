package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/engine"
	"github.com/vovakirdan/companion-arcade/internal/metrics"
	"github.com/vovakirdan/companion-arcade/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// MetricsAddress serves Prometheus metrics on /metrics when set.
	MetricsAddress string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arcade/scores.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the arcade.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	metrics  *http.Server
	store    *storage.Store
	writer   *storage.AsyncWriter
	recorder *metrics.Recorder
	launcher Launcher
	logger   *log.Logger
}

// NewSSHServer creates a server whose sessions start from base. The
// server owns storage and metrics; base's Store, Metrics and Feedback
// are replaced.
func NewSSHServer(cfg SSHServerConfig, base Launcher, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		recorder: metrics.NewRecorder(),
		launcher: base,
		logger:   logger,
	}
	srv.launcher.Store = store
	srv.launcher.Metrics = srv.recorder
	srv.launcher.Options.Feedback = nil
	if store != nil {
		srv.writer = storage.NewAsyncWriter(store, 0, logger)
		srv.launcher.Options.Feedback = srv.writer
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			srv.closeStorage()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		srv.closeStorage()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStorage()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", srv.recorder.Handler())
		srv.metrics = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return srv, nil
}

// teaHandler creates an arcade for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	l := s.launcher
	l.Config = core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.launcher.Config.TickRate,
		Seed:     s.launcher.Config.Seed,
	}
	l.Options.Logger = s.logger.With("user", sshSession.User())
	l.Options.Haptics = engine.NewBellHaptics(sshSession)

	return NewArcadeModel(&l, s.launcher.Setup.Difficulty), []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("connection opened",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("connection closed",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()
	if s.metrics != nil {
		s.logger.Info("serving metrics", "address", s.config.MetricsAddress)
		go func() {
			if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("metrics server error", "error", err)
			}
		}()
	}

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server and flushes pending writes.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.metrics != nil {
		if mErr := s.metrics.Shutdown(ctx); mErr != nil && err == nil {
			err = mErr
		}
	}
	s.closeStorage()
	return err
}

func (s *SSHServer) closeStorage() {
	if s.writer != nil {
		s.writer.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Recorder returns the server's metrics.
func (s *SSHServer) Recorder() *metrics.Recorder {
	return s.recorder
}

type arcadeScreen int

const (
	screenMenu arcadeScreen = iota
	screenGame
	screenScores
)

// ArcadeModel runs the full arcade flow in one program:
// menu -> game -> menu, with the scoreboard one key away.
type ArcadeModel struct {
	launcher   *Launcher
	difficulty core.Difficulty
	screen     arcadeScreen
	menu       MenuModel
	game       GameModel
	scores     ScoreboardModel
	width      int
	height     int
	quitting   bool
}

// NewArcadeModel creates the arcade flow for one player.
func NewArcadeModel(l *Launcher, d core.Difficulty) ArcadeModel {
	return ArcadeModel{
		launcher:   l,
		difficulty: d,
		menu:       NewMenuModel(l.Config.ScreenW, l.Config.ScreenH, d, l.Theme),
		width:      l.Config.ScreenW,
		height:     l.Config.ScreenH,
	}
}

// Init initializes the arcade.
func (m ArcadeModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen. Children end their own
// programs with tea.Quit when run standalone; here those commands are
// dropped and the arcade switches screens instead.
func (m ArcadeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = wsm.Width, wsm.Height
		m.launcher.Config.ScreenW, m.launcher.Config.ScreenH = wsm.Width, wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m ArcadeModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.menu = m.menu.Reset()
		m.scores = NewScoreboardModel(m.launcher.Store, m.width, m.height, m.launcher.Theme)
		m.screen = screenScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		sel := *m.menu.Selected()
		m.menu = m.menu.Reset()
		game, err := NewGameModel(m.launcher, sel.GameID, sel.Difficulty, sel.Practice)
		if err != nil {
			if lg := m.launcher.Options.Logger; lg != nil {
				lg.Error("cannot start game", "game", sel.GameID, "error", err)
			}
			return m, nil
		}
		m.game = game
		m.screen = screenGame
		return m, m.game.Init()
	}
	return m, cmd
}

func (m ArcadeModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(GameModel)

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		m.screen = screenMenu
		return m, nil
	}
	return m, cmd
}

func (m ArcadeModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		m.screen = screenMenu
		return m, nil
	}
	return m, cmd
}

// View renders the active screen.
func (m ArcadeModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}
