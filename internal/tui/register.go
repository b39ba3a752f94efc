package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutrigen/nutri/internal/forms"
	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
)

type fieldKind int

const (
	textField fieldKind = iota
	choiceField
	multiField
)

// regField is one row of the registration form. Text rows use input; choice
// rows pick one of options (or none); multi rows toggle any of options.
type regField struct {
	label   string // validation label, also the error key
	title   string
	kind    fieldKind
	input   textinput.Model
	options []string
	choice  int
	picked  []bool
	cursor  int
}

const (
	regName = iota
	regEmail
	regPassword
	regConfirm
	regAge
	regGender
	regHeight
	regWeight
	regDiet
	regGoal
	regActivity
	regAllergies
)

type registerPage struct {
	env     *env
	fields  []*regField
	focus   int
	invalid *forms.ValidationError
}

func newRegisterPage(e *env) *registerPage {
	text := func(label, title, placeholder string, secret bool) *regField {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		if secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		return &regField{label: label, title: title, kind: textField, input: in}
	}
	choice := func(label, title string, options []string) *regField {
		return &regField{label: label, title: title, kind: choiceField, options: options, choice: -1}
	}

	p := &registerPage{env: e}
	p.fields = []*regField{
		regName:      text("name", "Full name", "Jane Doe", false),
		regEmail:     text("email", "Email", "you@example.com", false),
		regPassword:  text("password", "Password", "", true),
		regConfirm:   text("password confirmation", "Confirm password", "", true),
		regAge:       text("age", "Age", "30", false),
		regGender:    choice("gender", "Gender", forms.GenderOptions),
		regHeight:    text("height", "Height (cm)", "170", false),
		regWeight:    text("weight", "Weight (kg)", "65", false),
		regDiet:      choice("diet preference", "Diet", forms.DietOptions),
		regGoal:      choice("goal", "Goal", forms.GoalOptions),
		regActivity:  choice("activity level", "Activity level", forms.ActivityLevelOptions),
		regAllergies: {label: "allergies", title: "Allergies", kind: multiField, options: forms.AllergyOptions, picked: make([]bool, len(forms.AllergyOptions))},
	}
	p.setFocus(0)
	return p
}

func (p *registerPage) enter() tea.Cmd {
	p.env.store.Dispatch(state.ClearAuthError{})
	return textinput.Blink
}

func (p *registerPage) typing() bool { return true }

func (p *registerPage) setFocus(i int) tea.Cmd {
	p.focus = (i + len(p.fields)) % len(p.fields)
	var cmd tea.Cmd
	for j, f := range p.fields {
		if f.kind != textField {
			continue
		}
		if j == p.focus {
			cmd = f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
	return cmd
}

func (p *registerPage) update(msg tea.Msg) tea.Cmd {
	f := p.fields[p.focus]
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return p.setFocus(p.focus + 1)
		case "shift+tab", "up":
			return p.setFocus(p.focus - 1)
		case "ctrl+l":
			return Navigate(routes.Login)
		case "ctrl+t":
			for _, i := range []int{regPassword, regConfirm} {
				in := &p.fields[i].input
				if in.EchoMode == textinput.EchoPassword {
					in.EchoMode = textinput.EchoNormal
				} else {
					in.EchoMode = textinput.EchoPassword
				}
			}
			return nil
		case "ctrl+s":
			p.submit()
			return nil
		case "enter":
			if p.focus == len(p.fields)-1 {
				p.submit()
				return nil
			}
			return p.setFocus(p.focus + 1)
		}

		switch f.kind {
		case choiceField:
			switch key.String() {
			case "right", "l", " ":
				f.choice = (f.choice+2)%(len(f.options)+1) - 1
			case "left", "h":
				f.choice = (f.choice+len(f.options)+1)%(len(f.options)+1) - 1
			}
			return nil
		case multiField:
			switch key.String() {
			case "right", "l":
				f.cursor = (f.cursor + 1) % len(f.options)
			case "left", "h":
				f.cursor = (f.cursor + len(f.options) - 1) % len(f.options)
			case " ", "x":
				f.picked[f.cursor] = !f.picked[f.cursor]
			}
			return nil
		}
	}

	if f.kind != textField {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *regField) value() string {
	switch f.kind {
	case choiceField:
		if f.choice < 0 {
			return ""
		}
		return f.options[f.choice]
	default:
		return f.input.Value()
	}
}

// selected returns the picked allergies, dropping "None".
func (f *regField) selected() []string {
	var out []string
	for i, ok := range f.picked {
		if ok && f.options[i] != "None" {
			out = append(out, f.options[i])
		}
	}
	return out
}

func (p *registerPage) form() forms.Register {
	v := func(i int) string { return p.fields[i].value() }
	return forms.Register{
		Name:            v(regName),
		Email:           v(regEmail),
		Password:        v(regPassword),
		ConfirmPassword: v(regConfirm),
		Age:             v(regAge),
		Gender:          v(regGender),
		Height:          v(regHeight),
		Weight:          v(regWeight),
		DietPreference:  v(regDiet),
		Goal:            v(regGoal),
		ActivityLevel:   v(regActivity),
		Allergies:       p.fields[regAllergies].selected(),
	}
}

func (p *registerPage) submit() {
	if p.env.snap.Auth.IsLoading {
		return
	}
	form := p.form()
	if err := forms.Validate(form); err != nil {
		p.invalid = nil
		errors.As(err, &p.invalid)
		return
	}
	p.invalid = nil
	p.env.ops.Register(p.env.ctx, form.Request())
}

func (p *registerPage) view() string {
	auth := p.env.snap.Auth

	var rows []string
	for i, f := range p.fields {
		marker := "  "
		title := fmt.Sprintf("%-17s", f.title)
		if i == p.focus {
			marker = selectedStyle.Render("› ")
			title = selectedStyle.Render(title)
		}
		rows = append(rows, marker+title+" "+f.render(i == p.focus))
		if i == regPassword && f.input.Value() != "" {
			rows = append(rows, "   "+strengthMeter(f.input.Value()))
		}
		if p.invalid != nil {
			if msg := p.invalid.For(f.label); msg != "" {
				rows = append(rows, "   "+errorStyle.Render(msg))
			}
		}
	}

	status := ""
	if auth.IsLoading {
		status = p.env.loading("Creating your account…")
	}

	return stack(
		titleStyle.Render("Create Account")+"\n"+mutedStyle.Render("Tell us about yourself for a personalized plan"),
		errorBanner(auth.Error),
		boxStyle.Render(strings.Join(rows, "\n")),
		status,
		help("tab next field", "←/→ choose", "space toggle allergy", "ctrl+s create account", "ctrl+l sign in instead"),
	)
}

func (f *regField) render(focused bool) string {
	switch f.kind {
	case choiceField:
		if f.choice < 0 {
			return mutedStyle.Render("‹ select ›")
		}
		return "‹ " + f.options[f.choice] + " ›"
	case multiField:
		parts := make([]string, len(f.options))
		for i, opt := range f.options {
			box := "[ ]"
			if f.picked[i] {
				box = "[x]"
			}
			item := box + " " + opt
			if focused && i == f.cursor {
				item = selectedStyle.Render(item)
			}
			parts[i] = item
		}
		return strings.Join(parts, "  ")
	default:
		return f.input.View()
	}
}

func strengthMeter(pw string) string {
	checks := forms.CheckPassword(pw)
	mark := func(ok bool, label string) string {
		if ok {
			return successStyle.Render("✓ " + label)
		}
		return mutedStyle.Render("✗ " + label)
	}
	style := errorStyle
	switch checks.Label() {
	case "Medium":
		style = accentStyle
	case "Strong":
		style = successStyle
	}
	return style.Render(fmt.Sprintf("Strength: %s (%d/5)", checks.Label(), checks.Strength())) + "  " +
		strings.Join([]string{
			mark(checks.Length, "8+ chars"),
			mark(checks.Uppercase, "upper"),
			mark(checks.Lowercase, "lower"),
			mark(checks.Number, "number"),
			mark(checks.Special, "symbol"),
		}, " ")
}
