package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutrigen/nutri/internal/routes"
)

type landingPage struct {
	env *env
}

func newLandingPage(e *env) *landingPage { return &landingPage{env: e} }

func (p *landingPage) enter() tea.Cmd { return nil }
func (p *landingPage) typing() bool   { return false }

func (p *landingPage) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "l":
		return Navigate(routes.Login)
	case "r":
		return Navigate(routes.Register)
	case "enter", "d":
		return Navigate(routes.Dashboard)
	}
	return nil
}

func (p *landingPage) view() string {
	features := boxStyle.Render(
		headingStyle.Render("Three Powerful Solutions") + "\n\n" +
			"• Personalized weekly meal plans\n" +
			"• Instant nutrition insights for any food\n" +
			"• A virtual coach for your questions",
	)

	var actions string
	if p.env.snap.Auth.IsAuthenticated {
		actions = help("enter go to dashboard")
	} else {
		actions = help("l login", "r register")
	}
	return stack(
		titleStyle.Render("Transform Your Nutrition")+"\n"+headingStyle.Render("Science Through AI"),
		features,
		actions,
	)
}
