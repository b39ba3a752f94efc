package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
)

type quickAction struct {
	key, title, blurb, path string
}

var quickActions = []quickAction{
	{"1", "Generate Meal Plan", "Create a personalized weekly plan", routes.MealPlanner},
	{"2", "Analyze Food", "Look up nutrients for any food", routes.Insights},
	{"3", "Ask Coach", "Get answers from the virtual coach", routes.Coach},
}

// dismissMsg expires the banner shown as number seq.
type dismissMsg struct{ seq int }

type dashboardPage struct {
	env    *env
	banner string
	seq    int
}

func newDashboardPage(e *env) *dashboardPage {
	return &dashboardPage{env: e}
}

func (p *dashboardPage) enter() tea.Cmd {
	if p.env.snap.Auth.User == nil {
		p.env.ops.LoadUser(p.env.ctx)
	}
	p.env.ops.FetchStreak(p.env.ctx)
	return p.watchBanner(p.env.snap)
}

func (p *dashboardPage) typing() bool { return false }

// watchBanner arms a dismissal timer whenever a new banner appears.
func (p *dashboardPage) watchBanner(s state.State) tea.Cmd {
	text := bannerText(s.Progress)
	if text == p.banner {
		return nil
	}
	p.banner = text
	p.seq++
	if text == "" {
		return nil
	}
	seq := p.seq
	return tea.Tick(p.env.bannerDuration, func(time.Time) tea.Msg {
		return dismissMsg{seq: seq}
	})
}

func bannerText(s state.ProgressState) string {
	if s.Error != "" {
		return s.Error
	}
	return s.Notice
}

func (p *dashboardPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case stateMsg:
		return p.watchBanner(state.State(msg))
	case dismissMsg:
		if msg.seq == p.seq && p.banner != "" {
			p.env.store.Dispatch(state.DismissNotice{})
		}
		return nil
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "m":
			if !p.env.snap.Progress.IsLoading {
				p.env.ops.LogMeal(p.env.ctx)
			}
		case "r":
			p.env.ops.FetchStreak(p.env.ctx)
		case "p":
			return Navigate(routes.Profile)
		default:
			for _, a := range quickActions {
				if a.key == key {
					return Navigate(a.path)
				}
			}
		}
	}
	return nil
}

func (p *dashboardPage) view() string {
	s := p.env.snap
	name := "there"
	if s.Auth.User != nil && s.Auth.User.Name != "" {
		name = s.Auth.User.Name
	}

	var streak string
	switch {
	case s.Progress.IsLoading:
		streak = p.env.loading("Updating your streak…")
	case s.Progress.StreakLoaded:
		unit := "days"
		if s.Progress.Streak == 1 {
			unit = "day"
		}
		streak = accentStyle.Render(fmt.Sprintf("🔥 %d %s", s.Progress.Streak, unit)) + mutedStyle.Render(" logging streak")
	default:
		streak = mutedStyle.Render("Streak not loaded yet")
	}

	var banner string
	if s.Progress.Error != "" {
		banner = errorBanner(s.Progress.Error)
	} else {
		banner = successBanner(s.Progress.Notice)
	}

	cards := make([]string, len(quickActions))
	for i, a := range quickActions {
		cards[i] = boxStyle.Width(26).Render(headingStyle.Render(a.key+" "+a.title) + "\n" + mutedStyle.Render(a.blurb))
	}

	return stack(
		titleStyle.Render(fmt.Sprintf("Welcome back, %s!", name)),
		banner,
		streak,
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		help("m log today's meal", "r refresh streak", "1/2/3 quick actions", "p profile"),
	)
}
