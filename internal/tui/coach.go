package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/state"
	"github.com/nutrigen/nutri/internal/termui/scrollbar"
)

// SuggestedQuestions are offered while the transcript is empty.
var SuggestedQuestions = []string{
	"How can I lose weight healthily?",
	"What should I eat before a workout?",
	"How much water should I drink daily?",
	"What are good protein sources for vegetarians?",
}

const coachWelcome = "Hi! I'm your virtual nutrition coach. Ask me anything about diet, meals or healthy habits."

type coachPage struct {
	env        *env
	input      textinput.Model
	transcript viewport.Model
	bar        scrollbar.Model
	suggest    int
	rendered   int
}

func newCoachPage(e *env) *coachPage {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "Ask the coach…"
	in.CharLimit = 500
	in.Focus()

	p := &coachPage{env: e, input: in, bar: scrollbar.New(), suggest: -1, rendered: -1}
	p.transcript = viewport.New(1, 1)
	p.resize()
	p.refresh()
	return p
}

func (p *coachPage) enter() tea.Cmd {
	p.env.store.Dispatch(state.ClearCoachError{})
	return textinput.Blink
}

func (p *coachPage) typing() bool { return true }

// resize fits the transcript between the header and the input line.
func (p *coachPage) resize() {
	p.transcript.Width = max(p.env.width-4, 20)
	p.transcript.Height = max(p.env.height-14, 5)
	p.input.Width = max(p.env.width-6, 10)
}

// refresh re-renders the transcript, following the bottom when it grew.
func (p *coachPage) refresh() {
	c := p.env.snap.Coach
	p.transcript.SetContent(renderTranscript(c.History, p.transcript.Width))
	if len(c.History) != p.rendered {
		p.transcript.GotoBottom()
		p.rendered = len(c.History)
	}
	p.syncBar()
}

func (p *coachPage) syncBar() {
	p.bar.Sync(p.transcript.TotalLineCount(), p.transcript.Height, p.transcript.YOffset)
}

func renderTranscript(history []api.Message, width int) string {
	if len(history) == 0 {
		return assistantStyle.Render("Coach") + "\n" + wrap(coachWelcome, width)
	}
	blocks := make([]string, len(history))
	for i, m := range history {
		who := assistantStyle.Render("Coach")
		if m.Role == api.RoleUser {
			who = userStyle.Render("You")
		}
		blocks[i] = who + "\n" + wrap(m.Content, width)
	}
	return strings.Join(blocks, "\n\n")
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func (p *coachPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.resize()
		p.refresh()
		return nil
	case stateMsg:
		p.refresh()
		return nil
	case tea.KeyMsg:
		history := p.env.snap.Coach.History
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(p.input.Value())
			if text == "" && len(history) == 0 && p.suggest >= 0 {
				text = SuggestedQuestions[p.suggest]
			}
			p.ask(text)
			return nil
		case "ctrl+n":
			p.env.store.Dispatch(state.ResetChat{})
			p.input.Reset()
			p.suggest = -1
			return nil
		case "up":
			if len(history) == 0 {
				p.suggest = max(p.suggest-1, 0)
				return nil
			}
			p.scroll(-1)
			return nil
		case "down":
			if len(history) == 0 {
				p.suggest = min(p.suggest+1, len(SuggestedQuestions)-1)
				return nil
			}
			p.scroll(1)
			return nil
		case "pgup":
			p.scroll(-p.transcript.Height)
			return nil
		case "pgdown":
			p.scroll(p.transcript.Height)
			return nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *coachPage) scroll(lines int) {
	p.transcript.SetYOffset(p.transcript.YOffset + lines)
	p.syncBar()
}

// ask sends text unless it is blank or a reply is still pending.
func (p *coachPage) ask(text string) {
	// env.snap lags behind the store until the next update arrives
	if text == "" || p.env.store.Snapshot().Coach.IsTyping {
		return
	}
	p.input.Reset()
	p.suggest = -1
	p.env.ops.Ask(p.env.ctx, text)
}

func (p *coachPage) view() string {
	c := p.env.snap.Coach

	body := lipgloss.JoinHorizontal(lipgloss.Top, p.transcript.View(), " ", p.bar.View())

	var suggestions string
	if len(c.History) == 0 {
		rows := make([]string, len(SuggestedQuestions))
		for i, q := range SuggestedQuestions {
			if i == p.suggest {
				rows[i] = selectedStyle.Render("› " + q)
			} else {
				rows[i] = mutedStyle.Render("  " + q)
			}
		}
		suggestions = headingStyle.Render("Try asking") + "\n" + strings.Join(rows, "\n")
	}

	typing := ""
	if c.IsTyping {
		typing = p.env.loading("Coach is typing…")
	}

	return stack(
		titleStyle.Render("Virtual Coach"),
		errorBanner(c.Error),
		body,
		suggestions,
		typing,
		p.input.View(),
		help("enter send", "↑/↓ scroll or pick a question", "pgup/pgdown page", "ctrl+n new chat"),
	)
}
