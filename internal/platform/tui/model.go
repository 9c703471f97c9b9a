package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

// GameModel is the Bubble Tea model for one game. It owns the current
// session and replaces it when the player asks for a replay.
type GameModel struct {
	launcher   *Launcher
	gameID     string
	difficulty core.Difficulty
	practice   bool

	sess   *session.Session
	screen *core.Screen
	input  core.InputFrame
	keys   GameKeyMap
	help   help.Model

	width  int
	height int

	best     int
	newBest  bool
	recorded bool
	status   string

	standalone bool
	quitting   bool
	backToMenu bool
}

// NewGameModel starts a session of gameID and wraps it in a model.
func NewGameModel(l *Launcher, gameID string, d core.Difficulty, practice bool) (GameModel, error) {
	sess, err := l.Start(gameID, d, practice)
	if err != nil {
		return GameModel{}, err
	}
	w, h := l.Config.ScreenW, l.Config.ScreenH
	return GameModel{
		launcher:   l,
		gameID:     gameID,
		difficulty: d,
		practice:   practice,
		sess:       sess,
		screen:     core.NewScreen(w, max(h-1, 1)),
		input:      core.NewInputFrame(),
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
		width:      w,
		height:     h,
		best:       l.HighScore(gameID),
	}, nil
}

// Init starts the frame tick.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.launcher.fps())
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.sess.State() == session.StatePlaying {
			MapMouse(msg, m.screen.Width(), m.screen.Height(), &m.input)
			if m.launcher.Setup.TiltSensor && m.input.Pointer.Set {
				m.input.SetTilt(MouseTilt(m.input.Pointer.Value))
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	k := m.keys.MapKey(msg, m.sess.State(), &m.input)
	switch k.Command {
	case CommandPause:
		m.sess.TogglePause()
	case CommandRate:
		if m.sess.Rate(k.Stars) {
			m.status = fmt.Sprintf("Rated %d★", k.Stars)
		}
	case CommandContinue:
		m.sess.Continue()
		m.status = ""
	case CommandFinish:
		m.sess.Finish()
	case CommandForfeit:
		m.sess.Forfeit()
	case CommandReplay:
		return m.replay()
	case CommandBack:
		m.launcher.Release(m.sess)
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	case CommandQuit:
		m.launcher.Release(m.sess)
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick advances the session by one frame.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.sess.Closed() {
		return m, nil
	}
	m.sess.Frame(now, m.input)
	m.input = core.NewInputFrame()

	if r, ok := m.sess.Result(); ok && m.sess.Emitted() && !m.recorded {
		m.recorded = true
		if !m.practice && r.HighScoreValue > m.best {
			m.best = r.HighScoreValue
			m.newBest = true
		}
	}
	return m, tickCmd(m.launcher.fps())
}

// replay closes the finished session and starts a fresh one with the
// same game, difficulty and practice flag.
func (m GameModel) replay() (tea.Model, tea.Cmd) {
	next, err := m.launcher.Start(m.gameID, m.difficulty, m.practice)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.launcher.Release(m.sess)
	m.sess = next
	m.recorded = false
	m.newBest = false
	m.status = ""
	return m, nil
}

// saveScreenshot writes the current frame to ~/.arcade/screenshots.
func (m *GameModel) saveScreenshot() {
	m.sess.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	//nolint:errcheck // best-effort
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.gameID, timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err == nil {
		m.status = "Saved " + filepath.Base(path)
	}
}

// View renders the session and a one-line footer.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.sess.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.footer()
}

func (m GameModel) footer() string {
	theme := m.launcher.Theme
	if m.status != "" {
		return theme.Status.Render(fitLine(m.status, m.width))
	}
	switch m.sess.State() {
	case session.StateComplete:
		r, _ := m.sess.Result()
		line := fmt.Sprintf("%s  XP +%d  Best %d", session.TierBanner(r.Result), r.BonusXP, m.best)
		if m.newBest {
			line += "  NEW BEST!"
		}
		if m.practice {
			line += "  (practice)"
		}
		return theme.TierStyle(r.Result).Render(fitLine(line, m.width)) +
			theme.Footer.Render("  r replay · enter menu · q quit")
	case session.StateRating:
		return theme.Footer.Render(fitLine("1-5 rate · c continue · f finish · q forfeit", m.width))
	}
	return theme.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// Session returns the current session.
func (m GameModel) Session() *session.Session {
	return m.sess
}

// IsQuitting returns true if the player asked to leave the arcade.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the player asked for the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays gameID in its own Bubble Tea program. It returns when the
// player quits or goes back to the menu.
func Run(l *Launcher, gameID string, d core.Difficulty, practice bool) error {
	model, err := NewGameModel(l, gameID, d, practice)
	if err != nil {
		return err
	}
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	final, err := p.Run()
	if gm, ok := final.(GameModel); ok {
		l.Release(gm.sess)
	}
	return err
}
