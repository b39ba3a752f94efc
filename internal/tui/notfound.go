package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutrigen/nutri/internal/routes"
)

type notFoundPage struct {
	env  *env
	path string
}

func newNotFoundPage(e *env, path string) *notFoundPage {
	return &notFoundPage{env: e, path: path}
}

func (p *notFoundPage) enter() tea.Cmd { return nil }
func (p *notFoundPage) typing() bool   { return false }

func (p *notFoundPage) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "enter" || key.String() == "esc") {
		return Navigate(routes.Landing)
	}
	return nil
}

func (p *notFoundPage) view() string {
	return stack(
		titleStyle.Render("404"),
		headingStyle.Render("Page Not Found"),
		mutedStyle.Render("Nothing lives at "+p.path+"."),
		help("enter back home"),
	)
}
