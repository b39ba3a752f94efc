package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutrigen/nutri/internal/api"
)

type profilePage struct {
	env *env
}

func newProfilePage(e *env) *profilePage {
	return &profilePage{env: e}
}

func (p *profilePage) enter() tea.Cmd {
	if p.env.snap.Auth.User == nil {
		p.env.ops.LoadUser(p.env.ctx)
	}
	return nil
}

func (p *profilePage) typing() bool { return false }

func (p *profilePage) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "o":
		if !p.env.snap.Auth.IsLoading {
			p.env.ops.Logout(p.env.ctx)
		}
	case "r":
		p.env.ops.LoadUser(p.env.ctx)
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return mutedStyle.Render("—")
	}
	return s
}

func measure(m api.Measure, unit string) string {
	if m == "" {
		return orDash("")
	}
	if _, ok := m.Float(); ok && unit != "" {
		return string(m) + " " + unit
	}
	return string(m)
}

func (p *profilePage) view() string {
	auth := p.env.snap.Auth
	header := titleStyle.Render("Profile")

	if auth.User == nil {
		status := ""
		if auth.IsLoading {
			status = p.env.loading("Loading your profile…")
		}
		return stack(header, errorBanner(auth.Error), status, help("r reload", "o sign out"))
	}

	u := auth.User
	h := u.HealthDetails
	row := func(k, v string) string { return mutedStyle.Render(fmt.Sprintf("%-16s", k)) + " " + v }

	account := strings.Join([]string{
		headingStyle.Render("Account"),
		row("Name", orDash(u.Name)),
		row("Email", orDash(u.Email)),
	}, "\n")

	allergies := ""
	if len(h.Allergies) > 0 {
		allergies = h.Allergies.String()
	}
	health := strings.Join([]string{
		headingStyle.Render("Health Details"),
		row("Age", measure(h.Age, "years")),
		row("Gender", orDash(h.Gender)),
		row("Height", measure(h.Height, "cm")),
		row("Weight", measure(h.Weight, "kg")),
		row("Diet", orDash(h.DietPreference)),
		row("Goal", orDash(h.Goal)),
		row("Activity level", orDash(h.ActivityLevel)),
		row("Allergies", orDash(allergies)),
	}, "\n")

	status := ""
	if auth.IsLoading {
		status = p.env.loading("Working…")
	}

	return stack(
		header,
		errorBanner(auth.Error),
		status,
		boxStyle.Render(account),
		boxStyle.Render(health),
		help("r reload", "o sign out"),
	)
}
