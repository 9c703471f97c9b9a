package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/registry"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

// tapGame ends on the first tap.
type tapGame struct{ taps int }

func (g *tapGame) ID() string          { return "zz-tap" }
func (g *tapGame) Title() string       { return "Tap Test" }
func (g *tapGame) Begin(*session.Env)  {}
func (g *tapGame) Render(*core.Screen) {}

func (g *tapGame) Tick(_ float64, in core.InputFrame) bool {
	if in.Has(core.ActionTap) {
		g.taps++
	}
	return g.taps > 0
}

func (g *tapGame) Result() core.MiniGameResult {
	r := core.NewResult(true, 100, core.TierPerfect, map[string]int{"score": 42})
	r.HighScoreValue = 42
	r.BonusXP = 50
	return r
}

func init() {
	registry.Register(registry.Info{ID: "zz-tap", Title: "Tap Test"}, func(registry.Setup) (session.Game, error) {
		return &tapGame{}, nil
	})
}

type recordingFeedback struct {
	mu      sync.Mutex
	results []core.MiniGameResult
	ratings []int
}

func (f *recordingFeedback) SaveResult(_, _ string, _ core.Difficulty, _ bool, r core.MiniGameResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
}

func (f *recordingFeedback) SaveRating(_, _, _ string, stars int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings = append(f.ratings, stars)
}

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testLauncher(fb session.Feedback) *Launcher {
	return &Launcher{
		Config: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7},
		Options: session.Options{
			Countdown:     1,
			CompleteDelay: -1,
			Feedback:      fb,
		},
		Theme: DefaultTheme(),
	}
}

// tick advances the model n frames of 100ms starting at *now.
func tick(m GameModel, now *time.Time, n int) GameModel {
	for range n {
		next, _ := m.Update(TickMsg(*now))
		m = next.(GameModel)
		*now = now.Add(100 * time.Millisecond)
	}
	return m
}

func press(m GameModel, msg tea.KeyMsg) GameModel {
	next, _ := m.Update(msg)
	return next.(GameModel)
}

func TestGameModelPlaysToResult(t *testing.T) {
	fb := &recordingFeedback{}
	m, err := NewGameModel(testLauncher(fb), "zz-tap", core.DifficultyEasy, false)
	if err != nil {
		t.Fatalf("NewGameModel() error: %v", err)
	}

	now := epoch
	m = tick(m, &now, 15)
	if m.Session().State() != session.StatePlaying {
		t.Fatalf("state = %v, expected playing after the countdown", m.Session().State())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = tick(m, &now, 1)

	if m.Session().State() != session.StateComplete || !m.Session().Emitted() {
		t.Fatalf("state = %v, expected an emitted result", m.Session().State())
	}
	if len(fb.results) != 1 || fb.results[0].HighScoreValue != 42 {
		t.Errorf("feedback got %+v, expected one result", fb.results)
	}
	if !m.newBest || m.best != 42 {
		t.Errorf("best = %d newBest = %v, expected a new best", m.best, m.newBest)
	}
	if !strings.Contains(m.View(), "PERFECT") {
		t.Error("result screen should show the tier banner")
	}
}

func TestGameModelForfeit(t *testing.T) {
	fb := &recordingFeedback{}
	m, _ := NewGameModel(testLauncher(fb), "zz-tap", core.DifficultyEasy, false)
	now := epoch
	m = tick(m, &now, 3)

	m = press(m, runeKey('q'))
	m = tick(m, &now, 1)

	r, ok := m.Session().Result()
	if !ok || r.Success || r.Result != core.TierFail || r.BonusXP != 0 {
		t.Errorf("Result() = %+v, expected a forfeited failure", r)
	}
	if len(fb.results) != 1 {
		t.Errorf("forfeit emitted %d results, expected 1", len(fb.results))
	}
}

func TestGameModelPauseFreezesPlay(t *testing.T) {
	m, _ := NewGameModel(testLauncher(nil), "zz-tap", core.DifficultyEasy, false)
	now := epoch
	m = tick(m, &now, 15)

	m = press(m, runeKey('p'))
	if m.Session().State() != session.StatePaused {
		t.Fatalf("state = %v, expected paused", m.Session().State())
	}
	// taps while paused never reach the game
	m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = tick(m, &now, 5)
	if m.Session().State() != session.StatePaused {
		t.Errorf("state = %v, expected still paused", m.Session().State())
	}

	m = press(m, runeKey('p'))
	if m.Session().State() != session.StatePlaying {
		t.Errorf("state = %v, expected playing after resume", m.Session().State())
	}
}

func TestGameModelReplayStartsNewSession(t *testing.T) {
	fb := &recordingFeedback{}
	m, _ := NewGameModel(testLauncher(fb), "zz-tap", core.DifficultyEasy, true)
	now := epoch
	m = tick(m, &now, 15)
	m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = tick(m, &now, 1)

	first := m.Session()
	if m.newBest {
		t.Error("practice runs never set a best")
	}
	m = press(m, runeKey('r'))
	if m.Session() == first || !first.Closed() {
		t.Fatal("replay should close the old session and start another")
	}
	if m.Session().ID() == first.ID() {
		t.Error("sessions must not share an ID")
	}
	if m.Session().State() != session.StateLoading {
		t.Errorf("new session state = %v, expected it not yet started", m.Session().State())
	}
}

func TestGameModelBackToMenu(t *testing.T) {
	m, _ := NewGameModel(testLauncher(nil), "zz-tap", core.DifficultyEasy, false)
	now := epoch
	m = tick(m, &now, 15)
	m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = tick(m, &now, 1)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(GameModel)
	if !m.BackToMenu() || cmd != nil {
		t.Errorf("BackToMenu() = %v, expected menu without quitting", m.BackToMenu())
	}
	if !m.Session().Closed() {
		t.Error("leaving should close the session")
	}
}

func TestGameModelMouseFeedsTiltWhenEmulated(t *testing.T) {
	for _, sensor := range []bool{false, true} {
		l := testLauncher(nil)
		l.Setup.TiltSensor = sensor
		m, _ := NewGameModel(l, "zz-tap", core.DifficultyEasy, false)
		now := epoch
		m = tick(m, &now, 15)

		next, _ := m.Update(tea.MouseMsg{X: 79, Y: 10, Action: tea.MouseActionMotion})
		m = next.(GameModel)
		if !m.input.Pointer.Set {
			t.Fatalf("sensor=%v: pointer should always follow the mouse", sensor)
		}
		if m.input.Tilt.Set != sensor {
			t.Errorf("sensor=%v: Tilt.Set = %v", sensor, m.input.Tilt.Set)
		}
		if sensor && m.input.Tilt.Value != 30 {
			t.Errorf("Tilt = %v, expected 30 at the right edge", m.input.Tilt.Value)
		}
	}
}

func TestLauncherUnknownGame(t *testing.T) {
	if _, err := NewGameModel(testLauncher(nil), "nope", core.DifficultyEasy, false); err == nil {
		t.Error("expected an error for an unknown game")
	}
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel(80, 24, core.DifficultyHard, DefaultTheme())
	idx := -1
	for i, it := range m.items {
		if it.Info.ID == "zz-tap" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("registered game missing from the menu")
	}
	m.cursor = idx
	if got := m.items[idx].Difficulty(); got != core.DifficultyHard {
		t.Errorf("starting tier = %q, expected hard", got)
	}

	for _, msg := range []tea.KeyMsg{{Type: tea.KeyLeft}, runeKey('p'), {Type: tea.KeyEnter}} {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}
	sel := m.Selected()
	if sel == nil || sel.GameID != "zz-tap" || sel.Difficulty != core.DifficultyMedium || !sel.Practice {
		t.Errorf("Selected() = %+v", sel)
	}
}
