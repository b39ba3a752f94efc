package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/forms"
	"github.com/nutrigen/nutri/internal/state"
)

// insightsHistoryCap bounds the recent searches kept by this page.
const insightsHistoryCap = 5

const (
	focusQuery = iota
	focusResults
	focusHistory
)

type insightsPage struct {
	env     *env
	query   textinput.Model
	barcode bool
	focus   int
	result  int
	recent  int
	invalid string
}

func newInsightsPage(e *env) *insightsPage {
	q := textinput.New()
	q.Prompt = "🔍 "
	q.Placeholder = "Search for a food, e.g. banana"
	q.CharLimit = 100
	q.Focus()
	return &insightsPage{env: e, query: q}
}

func (p *insightsPage) enter() tea.Cmd {
	p.env.store.Dispatch(state.ClearNutritionError{})
	return textinput.Blink
}

func (p *insightsPage) typing() bool { return p.focus == focusQuery }

func (p *insightsPage) setFocus(f int) tea.Cmd {
	p.focus = f
	if f == focusQuery {
		return p.query.Focus()
	}
	p.query.Blur()
	return nil
}

func (p *insightsPage) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.focus != focusQuery {
			return nil
		}
		var cmd tea.Cmd
		p.query, cmd = p.query.Update(msg)
		return cmd
	}

	n := p.env.snap.Nutrition
	switch key.String() {
	case "tab":
		return p.setFocus((p.focus + 1) % 3)
	case "shift+tab":
		return p.setFocus((p.focus + 2) % 3)
	case "ctrl+b":
		p.barcode = !p.barcode
		p.invalid = ""
		if p.barcode {
			p.query.Placeholder = "Barcode digits (8 to 14)"
		} else {
			p.query.Placeholder = "Search for a food, e.g. banana"
		}
		return nil
	case "esc":
		p.env.store.Dispatch(state.ClearSelection{})
		return p.setFocus(focusQuery)
	}

	switch p.focus {
	case focusQuery:
		if key.String() == "enter" {
			p.submit(p.query.Value())
			return nil
		}
		var cmd tea.Cmd
		p.query, cmd = p.query.Update(msg)
		return cmd

	case focusResults:
		switch key.String() {
		case "up", "k":
			p.result = max(p.result-1, 0)
		case "down", "j":
			p.result = min(p.result+1, max(len(n.Results)-1, 0))
		case "enter":
			if p.result < len(n.Results) && !n.IsLoading {
				p.env.ops.SelectFood(p.env.ctx, n.Results[p.result])
			}
		}

	case focusHistory:
		switch key.String() {
		case "up", "k":
			p.recent = max(p.recent-1, 0)
		case "down", "j":
			p.recent = min(p.recent+1, max(len(n.History)-1, 0))
		case "enter":
			if p.recent < len(n.History) {
				name := n.History[p.recent].Name
				p.query.SetValue(name)
				p.barcode = false
				p.submit(name)
			}
		}
	}
	return nil
}

// submit validates the query and starts a search or a barcode scan.
func (p *insightsPage) submit(text string) {
	if p.env.snap.Nutrition.IsLoading {
		return
	}
	var form interface{} = forms.Search{Query: text}
	if p.barcode {
		form = forms.Barcode{Code: text}
	}
	if err := forms.Validate(form); err != nil {
		var invalid *forms.ValidationError
		if errors.As(err, &invalid) && len(invalid.Fields) > 0 {
			p.invalid = invalid.Fields[0].Message
		} else {
			p.invalid = err.Error()
		}
		return
	}
	p.invalid = ""
	text = strings.TrimSpace(text)

	if p.barcode {
		p.env.ops.ScanBarcode(p.env.ctx, text)
		return
	}
	p.env.store.Dispatch(state.AddToHistory{Name: text, Cap: insightsHistoryCap})
	p.env.store.Dispatch(state.ClearSelection{})
	p.env.ops.SearchFood(p.env.ctx, text)
	p.result = 0
	p.setFocus(focusResults)
}

func (p *insightsPage) view() string {
	n := p.env.snap.Nutrition
	width := max(p.env.width-6, 20)

	input := p.query.View()
	if p.barcode {
		input = accentStyle.Render("[barcode] ") + input
	}
	if p.invalid != "" {
		input += "\n" + errorStyle.Render(p.invalid)
	}

	status := ""
	if n.IsLoading {
		status = p.env.loading("Looking that up…")
	}

	var body string
	switch {
	case n.Detail != nil:
		body = foodDetailView(n.Detail)
	case n.Selected != nil:
		body = boxStyle.Render(headingStyle.Render(n.Selected.Name))
	case len(n.Scan) > 0 && p.barcode:
		body = scanView(n.Scan, width)
	case len(n.Results) > 0:
		rows := make([]string, len(n.Results))
		for i, r := range n.Results {
			line := r.Name
			if r.Brand != "" {
				line += " · " + r.Brand
			}
			line = Truncate(line, width-2)
			if p.focus == focusResults && i == p.result {
				rows[i] = selectedStyle.Render("› " + line)
			} else {
				rows[i] = "  " + line
			}
		}
		body = boxStyle.Render(headingStyle.Render("Results") + "\n" + strings.Join(rows, "\n"))
	}

	history := ""
	if len(n.History) > 0 {
		rows := make([]string, len(n.History))
		for i, h := range n.History {
			if p.focus == focusHistory && i == p.recent {
				rows[i] = selectedStyle.Render("› " + h.Name)
			} else {
				rows[i] = mutedStyle.Render("  " + h.Name)
			}
		}
		history = headingStyle.Render("Recent searches") + "\n" + strings.Join(rows, "\n")
	}

	return stack(
		titleStyle.Render("Nutrition Insights")+"\n"+mutedStyle.Render("Search any food to see its nutrients per 100 g"),
		errorBanner(n.Error),
		input,
		status,
		body,
		history,
		help("enter search/select", "tab switch pane", "ctrl+b barcode mode", "esc clear selection"),
	)
}

// foodDetailView shows macros with each one's share of the macro calories.
func foodDetailView(d *api.FoodDetail) string {
	nu := d.Nutrients
	macroKcal := nu.Protein*4 + nu.Carbs*4 + nu.Fat*9

	title := headingStyle.Render(d.Name)
	if d.Brand != "" {
		title += mutedStyle.Render(" · " + d.Brand)
	}

	lines := []string{
		title,
		accentStyle.Render(FormatCalories(nu.Calories)),
		"",
		fmt.Sprintf("%-9s %8s  %4s", "Protein", FormatWeight(nu.Protein), FormatPercentage(nu.Protein*4, macroKcal)),
		fmt.Sprintf("%-9s %8s  %4s", "Carbs", FormatWeight(nu.Carbs), FormatPercentage(nu.Carbs*4, macroKcal)),
		fmt.Sprintf("%-9s %8s  %4s", "Fat", FormatWeight(nu.Fat), FormatPercentage(nu.Fat*9, macroKcal)),
		fmt.Sprintf("%-9s %8s", "Fiber", FormatWeight(nu.Fiber)),
	}

	if len(nu.Micronutrients) > 0 {
		keys := make([]string, 0, len(nu.Micronutrients))
		for k := range nu.Micronutrients {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines = append(lines, "", headingStyle.Render("Micronutrient Details"))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%-20s %s", Label(k), nu.Micronutrients[k]))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func scanView(scan api.ScanResult, width int) string {
	keys := make([]string, 0, len(scan))
	for k := range scan {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := []string{headingStyle.Render("Scan Result")}
	for _, k := range keys {
		lines = append(lines, Truncate(fmt.Sprintf("%-16s %v", Label(k), scan[k]), width-2))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
