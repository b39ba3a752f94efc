package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary   = lipgloss.Color("42")
	colorSecondary = lipgloss.Color("214")
	colorMuted     = lipgloss.Color("245")
	colorError     = lipgloss.Color("203")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	successStyle  = lipgloss.NewStyle().Foreground(colorPrimary)
	accentStyle   = lipgloss.NewStyle().Foreground(colorSecondary)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorPrimary)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	errorBannerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorError).
				Foreground(colorError).
				Padding(0, 1)

	successBannerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorPrimary).
				Padding(0, 1)

	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorSecondary)
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
)

func errorBanner(msg string) string {
	if msg == "" {
		return ""
	}
	return errorBannerStyle.Render("✗ " + msg)
}

func successBanner(msg string) string {
	if msg == "" {
		return ""
	}
	return successBannerStyle.Render("✓ " + msg)
}

// stack joins the non-empty blocks with blank lines between them.
func stack(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}

func help(keys ...string) string {
	return mutedStyle.Render(strings.Join(keys, " • "))
}
