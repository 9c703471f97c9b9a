package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

// Theme contains the styles used by the menu, scoreboard and result
// screens. Game fields are drawn cell by cell through the color table
// in render.go and do not use it.
type Theme struct {
	// Menu
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	ItemNormal  lipgloss.Style
	ItemActive  lipgloss.Style
	Description lipgloss.Style
	Badge       lipgloss.Style
	Practice    lipgloss.Style

	// Footer and status line
	Footer lipgloss.Style
	Status lipgloss.Style

	// Scoreboard panels
	Panel lipgloss.Style
	Empty lipgloss.Style

	// Result tiers
	Tiers map[core.ResultTier]lipgloss.Style
}

// DefaultTheme returns the standard night-sky theme.
func DefaultTheme() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		ItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Badge:       lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1),
		Practice:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),

		Footer: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Empty: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),

		Tiers: map[core.ResultTier]lipgloss.Style{
			core.TierPerfect: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
			core.TierGood:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
			core.TierPartial: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
			core.TierFail:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}

// MonochromeTheme returns a grayscale theme for terminals without color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.Title = lipgloss.NewStyle().Bold(true)
	theme.ItemActive = lipgloss.NewStyle().Bold(true).Underline(true)
	theme.Badge = lipgloss.NewStyle().Reverse(true).Padding(0, 1)
	theme.Practice = lipgloss.NewStyle().Bold(true)
	for tier := range theme.Tiers {
		theme.Tiers[tier] = lipgloss.NewStyle().Bold(tier == core.TierPerfect)
	}
	return theme
}

// ThemeByName returns the named theme, falling back to the default.
func ThemeByName(name string) Theme {
	if name == "mono" || name == "monochrome" {
		return MonochromeTheme()
	}
	return DefaultTheme()
}

// TierStyle returns the style for a result tier.
func (t Theme) TierStyle(tier core.ResultTier) lipgloss.Style {
	if s, ok := t.Tiers[tier]; ok {
		return s
	}
	return t.Status
}
