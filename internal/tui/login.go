package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutrigen/nutri/internal/forms"
	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
)

type loginPage struct {
	env      *env
	email    textinput.Model
	password textinput.Model
	focus    int
	invalid  *forms.ValidationError
}

func newLoginPage(e *env) *loginPage {
	email := textinput.New()
	email.Prompt = "Email     "
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := textinput.New()
	password.Prompt = "Password  "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	p := &loginPage{env: e, email: email, password: password}
	p.setFocus(0)
	return p
}

func (p *loginPage) enter() tea.Cmd {
	p.env.store.Dispatch(state.ClearAuthError{})
	return textinput.Blink
}

func (p *loginPage) typing() bool { return true }

func (p *loginPage) inputs() []*textinput.Model {
	return []*textinput.Model{&p.email, &p.password}
}

func (p *loginPage) setFocus(i int) tea.Cmd {
	fields := p.inputs()
	p.focus = (i + len(fields)) % len(fields)
	var cmd tea.Cmd
	for j, f := range fields {
		if j == p.focus {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

func (p *loginPage) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return p.setFocus(p.focus + 1)
		case "shift+tab", "up":
			return p.setFocus(p.focus - 1)
		case "ctrl+t":
			if p.password.EchoMode == textinput.EchoPassword {
				p.password.EchoMode = textinput.EchoNormal
			} else {
				p.password.EchoMode = textinput.EchoPassword
			}
			return nil
		case "ctrl+r":
			return Navigate(routes.Register)
		case "enter":
			if p.focus == 0 {
				return p.setFocus(1)
			}
			p.submit()
			return nil
		}
	}

	var cmd tea.Cmd
	field := p.inputs()[p.focus]
	*field, cmd = field.Update(msg)
	return cmd
}

// submit validates locally and only then dispatches the login.
func (p *loginPage) submit() {
	if p.env.snap.Auth.IsLoading {
		return
	}
	form := forms.Login{Email: p.email.Value(), Password: p.password.Value()}
	if err := forms.Validate(form); err != nil {
		p.invalid = nil
		errors.As(err, &p.invalid)
		return
	}
	p.invalid = nil
	p.env.ops.Login(p.env.ctx, strings.TrimSpace(form.Email), form.Password)
}

func (p *loginPage) fieldError(field string) string {
	if p.invalid == nil {
		return ""
	}
	if msg := p.invalid.For(field); msg != "" {
		return "\n" + errorStyle.Render("  "+msg)
	}
	return ""
}

func (p *loginPage) view() string {
	auth := p.env.snap.Auth

	form := p.email.View() + p.fieldError("email") + "\n" +
		p.password.View() + p.fieldError("password")

	status := ""
	if auth.IsLoading {
		status = p.env.loading("Signing in…")
	}

	return stack(
		titleStyle.Render("Welcome Back")+"\n"+mutedStyle.Render("Sign in to continue"),
		errorBanner(auth.Error),
		boxStyle.Render(form),
		status,
		help("tab next field", "enter sign in", "ctrl+t show/hide password", "ctrl+r create an account"),
	)
}
