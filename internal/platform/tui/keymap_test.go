package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKeyCommands(t *testing.T) {
	keys := DefaultGameKeyMap()
	tests := []struct {
		name  string
		msg   tea.KeyMsg
		state session.State
		want  Key
	}{
		{"pause while playing", tea.KeyMsg{Type: tea.KeyEsc}, session.StatePlaying, Key{Command: CommandPause}},
		{"resume while paused", runeKey('p'), session.StatePaused, Key{Command: CommandPause}},
		{"quit forfeits play", runeKey('q'), session.StatePlaying, Key{Command: CommandForfeit}},
		{"quit forfeits countdown", runeKey('q'), session.StateCountdown, Key{Command: CommandForfeit}},
		{"rate stars", runeKey('3'), session.StateRating, Key{Command: CommandRate, Stars: 3}},
		{"six is not a rating", runeKey('6'), session.StateRating, Key{}},
		{"continue", runeKey('c'), session.StateRating, Key{Command: CommandContinue}},
		{"finish", runeKey('f'), session.StateRating, Key{Command: CommandFinish}},
		{"replay", runeKey('r'), session.StateComplete, Key{Command: CommandReplay}},
		{"back to menu", tea.KeyMsg{Type: tea.KeyEnter}, session.StateComplete, Key{Command: CommandBack}},
		{"quit after result", runeKey('q'), session.StateComplete, Key{Command: CommandQuit}},
		{"ctrl+c always quits", tea.KeyMsg{Type: tea.KeyCtrlC}, session.StatePlaying, Key{Command: CommandQuit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := core.NewInputFrame()
			got := keys.MapKey(tt.msg, tt.state, &frame)
			if got != tt.want {
				t.Errorf("MapKey() = %+v, expected %+v", got, tt.want)
			}
			if !frame.Empty() {
				t.Errorf("control key leaked into the frame: %v", frame.Order)
			}
		})
	}
}

func TestMapKeyActions(t *testing.T) {
	keys := DefaultGameKeyMap()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []core.Action
	}{
		{"space taps", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []core.Action{core.ActionTap}},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, []core.Action{core.ActionUp}},
		{"d steers and strikes", runeKey('d'), []core.Action{core.ActionRight, core.ActionLane0}},
		{"lane k", runeKey('k'), []core.Action{core.ActionLane3}},
		{"restart", runeKey('r'), []core.Action{core.ActionRestart}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := core.NewInputFrame()
			if got := keys.MapKey(tt.msg, session.StatePlaying, &frame); got.Command != CommandNone {
				t.Fatalf("MapKey() command = %v", got.Command)
			}
			if len(frame.Order) != len(tt.want) {
				t.Fatalf("actions = %v, expected %v", frame.Order, tt.want)
			}
			for _, a := range tt.want {
				if !frame.Has(a) {
					t.Errorf("expected %v in %v", a, frame.Order)
				}
			}
		})
	}
}

func TestMapKeyPick(t *testing.T) {
	frame := core.NewInputFrame()
	DefaultGameKeyMap().MapKey(runeKey('3'), session.StatePlaying, &frame)
	if len(frame.Picks) != 1 || frame.Picks[0] != 2 {
		t.Errorf("Picks = %v, expected [2]", frame.Picks)
	}
}

func TestMapKeyIgnoresActionsOutsidePlay(t *testing.T) {
	for _, state := range []session.State{session.StateLoading, session.StateCountdown, session.StatePaused} {
		frame := core.NewInputFrame()
		DefaultGameKeyMap().MapKey(runeKey('d'), state, &frame)
		if !frame.Empty() {
			t.Errorf("%v: actions = %v, expected none", state, frame.Order)
		}
	}
}

func TestMapMouse(t *testing.T) {
	// 80x24 puts the play area at (1,2) with size 78x21
	frame := core.NewInputFrame()
	MapMouse(tea.MouseMsg{X: 1, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 80, 24, &frame)
	if !frame.Click.Set || frame.Click.X != 0 || frame.Click.Y != 0 {
		t.Errorf("Click = %+v, expected top-left corner", frame.Click)
	}

	frame = core.NewInputFrame()
	MapMouse(tea.MouseMsg{X: 78, Y: 22, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 80, 24, &frame)
	if frame.Click.X != 100 || frame.Click.Y != 100 {
		t.Errorf("Click = %+v, expected bottom-right corner", frame.Click)
	}

	frame = core.NewInputFrame()
	MapMouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 80, 24, &frame)
	if frame.Click.Set {
		t.Error("click on the border should be ignored")
	}

	frame = core.NewInputFrame()
	MapMouse(tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionMotion}, 80, 24, &frame)
	if !frame.Pointer.Set || frame.Click.Set {
		t.Errorf("motion should move the pointer only: %+v", frame)
	}
}

func TestMapMouseMatchesScreenColumns(t *testing.T) {
	scr := core.NewScreen(80, 24)
	area := session.PlayArea(80, 24)
	for x := area.X; x < area.Right(); x++ {
		frame := core.NewInputFrame()
		MapMouse(tea.MouseMsg{X: x, Y: area.Y, Action: tea.MouseActionMotion}, 80, 24, &frame)
		if got := scr.MapX(area, frame.Pointer.Value); got != x {
			t.Errorf("column %d maps to pointer %.2f which draws at column %d", x, frame.Pointer.Value, got)
		}
	}

	// outside the area clamps to the edges
	frame := core.NewInputFrame()
	MapMouse(tea.MouseMsg{X: 79, Y: area.Y, Action: tea.MouseActionMotion}, 80, 24, &frame)
	if frame.Pointer.Value != 100 {
		t.Errorf("Pointer.X = %f, expected 100 past the right edge", frame.Pointer.Value)
	}
}

func TestMouseTilt(t *testing.T) {
	tests := []struct {
		pct, want float64
	}{
		{50, 0},
		{100, 30},
		{0, -30},
		{75, 15},
		{150, 30},
	}
	for _, tt := range tests {
		if got := MouseTilt(tt.pct); got != tt.want {
			t.Errorf("MouseTilt(%v) = %v, expected %v", tt.pct, got, tt.want)
		}
	}
}
