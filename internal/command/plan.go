package command

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
	"github.com/nutrigen/nutri/internal/tui"
)

func mealPlanError(s state.State) string { return s.MealPlan.Error }

// PlanCommand shows, or generates, the weekly meal plan.
type PlanCommand struct {
	*BaseCommand
	app      *App
	generate bool
	day      string
	grocery  bool
}

// NewPlanCommand creates a new plan command.
func NewPlanCommand(app *App) *PlanCommand {
	return &PlanCommand{
		BaseCommand: NewBaseCommand("plan", "Show or generate your weekly meal plan", "plan [--generate] [--day name] [--grocery]"),
		app:         app,
	}
}

// SetupFlags configures the flags for the plan command.
func (c *PlanCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.generate, "generate", false, "Generate a new plan from your profile")
	fs.StringVar(&c.day, "day", "", "Only show this day (default from [plan] day)")
	fs.BoolVar(&c.grocery, "grocery", false, "Print the grocery list for the plan")
}

// Execute loads or generates the plan and prints it.
func (c *PlanCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		return usageErrorf("unexpected arguments: %v", args)
	}
	if err := c.app.requireAuth(routes.MealPlanner); err != nil {
		return err
	}

	req := c.app.ops.FetchMealPlan
	if c.generate {
		_, _ = fmt.Fprintln(stderr, "Generating your meal plan, this can take a while…")
		req = c.app.ops.GenerateMealPlan
	}
	if _, err := await(c.app, req(c.app.ctx), mealPlanError); err != nil {
		return err
	}

	plan := c.app.store.Snapshot().MealPlan.Plan
	if len(plan) == 0 {
		_, _ = fmt.Fprintln(stdout, "No meal plan yet. Run 'nutri plan --generate' to create one.")
		return nil
	}

	if c.grocery {
		items := plan.GroceryList()
		c.app.store.Dispatch(state.UpdateGroceryList{Items: items})
		for _, it := range c.app.store.Snapshot().MealPlan.GroceryList {
			_, _ = fmt.Fprintf(stdout, "- %s\n", it)
		}
		return nil
	}

	days := plan.Days()
	day := c.day
	if day == "" {
		day = c.app.schema.ResolveCommand(c.app.cfg, "plan", "day")
	}
	if day != "" {
		match, err := findDay(days, day)
		if err != nil {
			return err
		}
		days = []string{match}
	}

	for i, d := range days {
		if i > 0 {
			_, _ = fmt.Fprintln(stdout)
		}
		printDay(stdout, d, plan)
	}
	return nil
}

// findDay matches name against the plan's days, ignoring case.
func findDay(days []string, name string) (string, error) {
	for _, d := range days {
		if strings.EqualFold(d, strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return "", &UsageError{Message: fmt.Sprintf("no %q in the meal plan (have %s)", name, strings.Join(days, ", "))}
}

func printDay(stdout io.Writer, day string, plan api.MealPlan) {
	_, _ = fmt.Fprintf(stdout, "%s\n", day)
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	for _, slot := range plan[day].Slots() {
		m := plan[day][slot]
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\tP %s\tC %s\tF %s\n", slot, m.Name,
			tui.FormatCalories(m.Calories), tui.FormatWeight(m.Protein), tui.FormatWeight(m.Carbs), tui.FormatWeight(m.Fat))
		if m.PortionSize != "" {
			_, _ = fmt.Fprintf(w, "  \tPortion: %s\n", m.PortionSize)
		}
		if m.Ingredients != "" {
			_, _ = fmt.Fprintf(w, "  \tIngredients: %s\n", m.Ingredients)
		}
	}
	t := plan.DailyTotals(day)
	_, _ = fmt.Fprintf(w, "  Total\t\t%s\tP %s\tC %s\tF %s\n",
		tui.FormatCalories(t.Calories), tui.FormatWeight(t.Protein), tui.FormatWeight(t.Carbs), tui.FormatWeight(t.Fat))
	_ = w.Flush()
}
