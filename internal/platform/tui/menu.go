package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/companion-arcade/internal/core"
	"github.com/vovakirdan/companion-arcade/internal/registry"
)

// MenuItem is a selectable game with its chosen tier.
type MenuItem struct {
	Info registry.Info
	Tier int // index into Info.Tiers
}

// Difficulty returns the item's chosen difficulty.
func (it MenuItem) Difficulty() core.Difficulty {
	return it.Info.Tiers[it.Tier]
}

// MenuSelection is what the player picked.
type MenuSelection struct {
	GameID     string
	Difficulty core.Difficulty
	Practice   bool
}

// MenuModel is the Bubble Tea model for the game picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	practice bool
	width    int
	height   int
	theme    Theme
	keys     MenuKeyMap
	help     help.Model

	selected       *MenuSelection
	openScoreboard bool
	quitting       bool
}

// NewMenuModel lists every registered game, each starting at d or the
// nearest tier it offers.
func NewMenuModel(width, height int, d core.Difficulty, theme Theme) MenuModel {
	if d == "" {
		d = core.DifficultyMedium
	}
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{Info: g}
		want := d.Within(g.Tiers)
		for i, t := range g.Tiers {
			if t == want {
				item.Tier = i
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
		theme:  theme,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Left):
		if len(m.items) > 0 && m.items[m.cursor].Tier > 0 {
			m.items[m.cursor].Tier--
		}

	case key.Matches(msg, m.keys.Right):
		if len(m.items) > 0 && m.items[m.cursor].Tier < len(m.items[m.cursor].Info.Tiers)-1 {
			m.items[m.cursor].Tier++
		}

	case key.Matches(msg, m.keys.Practice):
		m.practice = !m.practice

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			item := m.items[m.cursor]
			m.selected = &MenuSelection{
				GameID:     item.Info.ID,
				Difficulty: item.Difficulty(),
				Practice:   m.practice,
			}
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Scoreboard):
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Title.Render("✦  C O M P A N I O N   A R C A D E  ✦"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.Subtitle.Render("Pick a game and a difficulty"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := m.theme.ItemNormal
		if i == m.cursor {
			cursor = "> "
			style = m.theme.ItemActive
		}
		line := fmt.Sprintf("%s%-22s", cursor, item.Info.Title)
		b.WriteString(centerText(style.Render(line)+" "+m.theme.Badge.Render(string(item.Difficulty())), m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		blurb := m.items[m.cursor].Info.Blurb
		b.WriteString(centerText(m.theme.Description.Render(fitLine(blurb, m.width-4)), m.width))
		b.WriteString("\n")
	}
	if m.practice {
		b.WriteString("\n")
		b.WriteString(centerText(m.theme.Practice.Render("PRACTICE · half time, no XP, no high score"), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp())), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the selection, or nil if none was made.
func (m MenuModel) Selected() *MenuSelection {
	return m.selected
}

// IsQuitting returns true if the player asked to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if the player asked for the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Reset clears the last selection so the menu can be shown again.
func (m MenuModel) Reset() MenuModel {
	m.selected = nil
	m.openScoreboard = false
	m.quitting = false
	return m
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selection       *MenuSelection
	WantsScoreboard bool
	Quit            bool
	Width, Height   int
}

// RunMenu runs the menu in its own program and returns the choice.
func RunMenu(width, height int, d core.Difficulty, theme Theme) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(width, height, d, theme), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Quit: true, Width: width, Height: height}, nil
	}

	result := MenuResult{Width: m.width, Height: m.height}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.Selection = m.Selected()
	}
	return result, nil
}
