package command

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/forms"
	"github.com/nutrigen/nutri/internal/state"
	"github.com/nutrigen/nutri/internal/tui"
)

func nutritionError(s state.State) string { return s.Nutrition.Error }

// SearchCommand searches the food database.
type SearchCommand struct {
	*BaseCommand
	app *App
}

// NewSearchCommand creates a new search command.
func NewSearchCommand(app *App) *SearchCommand {
	return &SearchCommand{
		BaseCommand: NewBaseCommand("search", "Search foods by name", "search <query>"),
		app:         app,
	}
}

// Execute runs the search and lists the hits.
func (c *SearchCommand) Execute(args []string, stdout, stderr io.Writer) error {
	form := forms.Search{Query: strings.Join(args, " ")}
	if err := forms.Validate(form); err != nil {
		return validationError(err)
	}
	query := strings.TrimSpace(form.Query)
	c.app.store.Dispatch(state.AddToHistory{Name: query})
	if _, err := await(c.app, c.app.ops.SearchFood(c.app.ctx, query), nutritionError); err != nil {
		return err
	}

	results := c.app.store.Snapshot().Nutrition.Results
	if len(results) == 0 {
		_, _ = fmt.Fprintf(stdout, "No foods found for %q.\n", query)
		return nil
	}
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tBRAND\tTYPE")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, orNone(r.Brand), orNone(r.DataType))
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(stdout, "\nUse 'nutri food <id>' for details.")
	return nil
}

// FoodCommand shows the nutrients of one food.
type FoodCommand struct {
	*BaseCommand
	app *App
}

// NewFoodCommand creates a new food command.
func NewFoodCommand(app *App) *FoodCommand {
	return &FoodCommand{
		BaseCommand: NewBaseCommand("food", "Show nutrients of a food per 100 g", "food <id>"),
		app:         app,
	}
}

// Execute fetches and prints the food's nutrient record.
func (c *FoodCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return usageErrorf("expected exactly one food id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return usageErrorf("invalid food id: %q", args[0])
	}
	if _, err := await(c.app, c.app.ops.SelectFood(c.app.ctx, api.FoodSummary{ID: id}), nutritionError); err != nil {
		return err
	}
	printFood(stdout, c.app.store.Snapshot().Nutrition.Detail)
	return nil
}

func printFood(stdout io.Writer, d *api.FoodDetail) {
	if d == nil {
		return
	}
	nu := d.Nutrients
	macroKcal := nu.Protein*4 + nu.Carbs*4 + nu.Fat*9

	title := d.Name
	if d.Brand != "" {
		title += " (" + d.Brand + ")"
	}
	_, _ = fmt.Fprintln(stdout, title)
	_, _ = fmt.Fprintf(stdout, "%s per 100 g\n\n", tui.FormatCalories(nu.Calories))

	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Protein\t%s\t%s\n", tui.FormatWeight(nu.Protein), tui.FormatPercentage(nu.Protein*4, macroKcal))
	_, _ = fmt.Fprintf(w, "Carbs\t%s\t%s\n", tui.FormatWeight(nu.Carbs), tui.FormatPercentage(nu.Carbs*4, macroKcal))
	_, _ = fmt.Fprintf(w, "Fat\t%s\t%s\n", tui.FormatWeight(nu.Fat), tui.FormatPercentage(nu.Fat*9, macroKcal))
	_, _ = fmt.Fprintf(w, "Fiber\t%s\t\n", tui.FormatWeight(nu.Fiber))
	_ = w.Flush()

	if len(nu.Micronutrients) == 0 {
		return
	}
	keys := make([]string, 0, len(nu.Micronutrients))
	for k := range nu.Micronutrients {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	_, _ = fmt.Fprintln(stdout, "\nMicronutrient Details")
	w = tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", tui.Label(k), nu.Micronutrients[k])
	}
	_ = w.Flush()
}

// ScanCommand looks up a product by barcode.
type ScanCommand struct {
	*BaseCommand
	app *App
}

// NewScanCommand creates a new scan command.
func NewScanCommand(app *App) *ScanCommand {
	return &ScanCommand{
		BaseCommand: NewBaseCommand("scan", "Look up a product by barcode", "scan <barcode>"),
		app:         app,
	}
}

// Execute validates the barcode and prints the scan result.
func (c *ScanCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return usageErrorf("expected exactly one barcode")
	}
	form := forms.Barcode{Code: args[0]}
	if err := forms.Validate(form); err != nil {
		return validationError(err)
	}
	if _, err := await(c.app, c.app.ops.ScanBarcode(c.app.ctx, strings.TrimSpace(form.Code)), nutritionError); err != nil {
		return err
	}

	scan := c.app.store.Snapshot().Nutrition.Scan
	keys := make([]string, 0, len(scan))
	for k := range scan {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "%s\t%v\n", tui.Label(k), scan[k])
	}
	return w.Flush()
}
