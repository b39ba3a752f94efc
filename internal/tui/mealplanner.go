package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nutrigen/nutri/internal/state"
)

type mealPlannerPage struct {
	env      *env
	day      int
	showList bool
}

func newMealPlannerPage(e *env) *mealPlannerPage {
	return &mealPlannerPage{env: e}
}

func (p *mealPlannerPage) enter() tea.Cmd {
	p.env.ops.FetchMealPlan(p.env.ctx)
	return nil
}

func (p *mealPlannerPage) typing() bool { return false }

func (p *mealPlannerPage) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	days := p.env.snap.MealPlan.Plan.Days()
	switch key.String() {
	case "right", "l", "tab":
		if len(days) > 0 {
			p.day = (p.day + 1) % len(days)
		}
	case "left", "h", "shift+tab":
		if len(days) > 0 {
			p.day = (p.day + len(days) - 1) % len(days)
		}
	case "g":
		if !p.env.snap.MealPlan.IsLoading {
			p.env.store.Dispatch(state.ClearMealPlanError{})
			p.env.ops.GenerateMealPlan(p.env.ctx)
		}
	case "c":
		if p.showList {
			p.showList = false
			return nil
		}
		p.env.store.Dispatch(state.UpdateGroceryList{Items: p.env.snap.MealPlan.Plan.GroceryList()})
		p.showList = true
	case "esc":
		p.showList = false
	}
	return nil
}

func (p *mealPlannerPage) view() string {
	mp := p.env.snap.MealPlan
	header := titleStyle.Render("Meal Planner") + "\n" + mutedStyle.Render("Your personalized weekly plan")

	status := ""
	if mp.IsLoading {
		status = p.env.loading("Preparing your meal plan…")
	}

	days := mp.Plan.Days()
	if len(days) == 0 {
		empty := ""
		if !mp.IsLoading {
			empty = boxStyle.Render(headingStyle.Render("No meal plan yet") + "\n" +
				mutedStyle.Render("Press g to generate a plan tailored to your profile."))
		}
		return stack(header, errorBanner(mp.Error), status, empty, help("g generate"))
	}
	sel := p.day
	if sel >= len(days) {
		sel = 0
	}
	day := days[sel]

	tabs := make([]string, len(days))
	for i, d := range days {
		label := d
		if len(label) > 3 {
			label = label[:3]
		}
		if i == sel {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}

	var meals []string
	for _, slot := range mp.Plan[day].Slots() {
		meal := mp.Plan[day][slot]
		lines := []string{
			headingStyle.Render(slot) + "  " + meal.Name,
			mutedStyle.Render(fmt.Sprintf("%s • %s P • %s C • %s F",
				FormatCalories(meal.Calories), FormatWeight(meal.Protein), FormatWeight(meal.Carbs), FormatWeight(meal.Fat))),
		}
		if meal.PortionSize != "" {
			lines = append(lines, mutedStyle.Render("Portion: "+meal.PortionSize))
		}
		if meal.Ingredients != "" {
			lines = append(lines, Truncate("Ingredients: "+meal.Ingredients, max(p.env.width-8, 20)))
		}
		meals = append(meals, strings.Join(lines, "\n"))
	}

	t := mp.Plan.DailyTotals(day)
	totals := accentStyle.Render(fmt.Sprintf("%s total • %s protein • %s carbs • %s fat",
		FormatCalories(t.Calories), FormatWeight(t.Protein), FormatWeight(t.Carbs), FormatWeight(t.Fat)))

	list := ""
	if p.showList {
		items := mp.GroceryList
		if len(items) == 0 {
			list = boxStyle.Render(headingStyle.Render("Grocery List") + "\n" + mutedStyle.Render("Nothing to buy"))
		} else {
			rows := make([]string, len(items))
			for i, it := range items {
				rows[i] = "• " + it
			}
			list = boxStyle.Render(headingStyle.Render("Grocery List") + "\n" + strings.Join(rows, "\n"))
		}
	}

	return stack(
		header,
		errorBanner(mp.Error),
		status,
		strings.Join(tabs, ""),
		boxStyle.Render(headingStyle.Render(day)+"\n\n"+strings.Join(meals, "\n\n")),
		totals,
		list,
		help("←/→ change day", "g regenerate", "c grocery list"),
	)
}
