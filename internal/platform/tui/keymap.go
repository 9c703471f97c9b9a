package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/input"
	"github.com/vovakirdan/companion-arcade/internal/session"
)

// GameKeyMap holds the in-game key bindings. A key may feed several
// actions: D steers right in the field games and strikes the first lane
// in the rhythm game. Each game reads only the actions it knows.
type GameKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Tap     key.Binding
	Confirm key.Binding
	Lanes   [4]key.Binding
	Pick    key.Binding
	Pause   key.Binding
	Restart key.Binding
	Quit    key.Binding

	// rating prompt
	Continue key.Binding
	Finish   key.Binding
	Back     key.Binding
}

// DefaultGameKeyMap returns the standard bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),
		Tap:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "tap")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Lanes: [4]key.Binding{
			key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "lane 1")),
			key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "lane 2")),
			key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "lane 3")),
			key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "lane 4")),
		},
		Pick:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "pick")),
		Pause:    key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p/esc", "pause")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Continue: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continue")),
		Finish:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Back:     key.NewBinding(key.WithKeys("b", "esc", "enter"), key.WithHelp("enter/b", "menu")),
	}
}

// ShortHelp returns the bindings shown under the play field.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.Pick, k.Pause, k.Quit}
}

// FullHelp returns every gameplay binding.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Tap, k.Confirm, k.Pick},
		{k.Lanes[0], k.Lanes[1], k.Lanes[2], k.Lanes[3]},
		{k.Pause, k.Restart, k.Quit},
	}
}

// Command is a session control derived from a key press.
type Command int

const (
	CommandNone Command = iota
	CommandPause
	CommandRate
	CommandContinue
	CommandFinish
	CommandForfeit
	CommandReplay
	CommandBack
	CommandQuit
)

// Key is the outcome of one key press: a session command, or actions
// folded into the pending input frame.
type Key struct {
	Command Command
	Stars   int // for CommandRate
}

// MapKey interprets msg for a session in state, adding gameplay actions
// to frame. Session controls take priority over gameplay actions.
func (k GameKeyMap) MapKey(msg tea.KeyMsg, state session.State, frame *core.InputFrame) Key {
	if msg.String() == "ctrl+c" {
		return Key{Command: CommandQuit}
	}

	switch state {
	case session.StateRating:
		switch {
		case key.Matches(msg, k.Pick):
			if n := digit(msg); n >= 1 && n <= 5 {
				return Key{Command: CommandRate, Stars: n}
			}
		case key.Matches(msg, k.Continue):
			return Key{Command: CommandContinue}
		case key.Matches(msg, k.Finish):
			return Key{Command: CommandFinish}
		case key.Matches(msg, k.Quit):
			return Key{Command: CommandForfeit}
		}
		return Key{}

	case session.StateComplete:
		switch {
		case key.Matches(msg, k.Restart):
			return Key{Command: CommandReplay}
		case key.Matches(msg, k.Back):
			return Key{Command: CommandBack}
		case key.Matches(msg, k.Quit):
			return Key{Command: CommandQuit}
		}
		return Key{}
	}

	switch {
	case key.Matches(msg, k.Quit):
		return Key{Command: CommandForfeit}
	case key.Matches(msg, k.Pause):
		return Key{Command: CommandPause}
	}
	if state != session.StatePlaying {
		return Key{}
	}

	for _, b := range []struct {
		binding key.Binding
		action  core.Action
	}{
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.Left, core.ActionLeft},
		{k.Right, core.ActionRight},
		{k.Tap, core.ActionTap},
		{k.Confirm, core.ActionConfirm},
		{k.Restart, core.ActionRestart},
		{k.Lanes[0], core.LaneActions[0]},
		{k.Lanes[1], core.LaneActions[1]},
		{k.Lanes[2], core.LaneActions[2]},
		{k.Lanes[3], core.LaneActions[3]},
	} {
		if key.Matches(msg, b.binding) {
			frame.Set(b.action)
		}
	}
	if key.Matches(msg, k.Pick) {
		frame.Pick(digit(msg) - 1)
	}
	return Key{}
}

// MapMouse converts a mouse event on a w×h screen into pointer and
// click input relative to the play area. The axis spans cell indices, so
// the first and last columns map to 0 and 100 the way Screen.MapX draws.
func MapMouse(msg tea.MouseMsg, w, h int, frame *core.InputFrame) {
	area := session.PlayArea(w, h)
	x := input.PointerAxis(float64(msg.X), float64(area.X), float64(area.W-1))
	y := input.PointerAxis(float64(msg.Y), float64(area.Y), float64(area.H-1))

	switch msg.Action {
	case tea.MouseActionMotion:
		frame.SetPointer(x)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if msg.X < area.X || msg.Y < area.Y || msg.X >= area.Right() || msg.Y >= area.Bottom() {
			return
		}
		frame.SetPointer(x)
		frame.SetClick(x, y)
	}
}

func digit(msg tea.KeyMsg) int {
	s := msg.String()
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0
	}
	return int(s[0] - '0')
}

// MenuKeyMap holds the bindings shared by the picker screens.
type MenuKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	Practice   key.Binding
	Scoreboard key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// DefaultMenuKeyMap returns the menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/h", "easier")),
		Right:      key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/l", "harder")),
		Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play")),
		Practice:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "practice")),
		Scoreboard: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scores")),
		Back:       key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the menu footer.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Practice, k.Select, k.Scoreboard, k.Quit}
}

// FullHelp returns the menu bindings in columns.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Left, k.Right, k.Practice},
		{k.Scoreboard, k.Back, k.Quit},
	}
}

// MouseTilt stands in for an orientation sensor: the pointer's offset
// from the centre becomes a tilt angle, with the edges at the default
// tilt range.
func MouseTilt(pct float64) float64 {
	return (core.Percent(pct) - 50) / 50 * input.DefaultTilt().MaxAngle
}
