// Package tui is the Bubble Tea host for arcade sessions. It maps keys
// and mouse events to session input, drives sessions from a frame tick,
// and serves the menu, scoreboard and SSH front end.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// TickMsg is sent to trigger a session frame.
type TickMsg time.Time

// tickCmd returns a command that sends one tick after a frame at fps.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = DefaultFPS
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
