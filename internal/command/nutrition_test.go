package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/state"
)

func TestSearchCommand(t *testing.T) {
	f := newFixture(t, false)
	f.srv.Foods = []api.FoodSummary{
		{ID: 11, Name: "Greek Yogurt", Brand: "Fage", DataType: "Branded"},
		{ID: 12, Name: "Yogurt, plain"},
		{ID: 13, Name: "Apple"},
	}
	app := f.app("")

	out, _, err := f.run(app, "search", "yogurt")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Greek Yogurt")
	assert.Contains(t, out, "Fage")
	assert.NotContains(t, out, "Apple")

	out, _, err = f.run(app, "search", "durian")
	require.NoError(t, err)
	assert.Equal(t, "No foods found for \"durian\".\n", out)

	assert.Equal(t, []string{"durian", "yogurt"}, historyNames(app.Store().Snapshot()))
}

func historyNames(s state.State) []string {
	names := make([]string, len(s.Nutrition.History))
	for i, h := range s.Nutrition.History {
		names[i] = h.Name
	}
	return names
}

func TestSearchCommand_EmptyQuery(t *testing.T) {
	f := newFixture(t, false)
	_, _, err := f.run(f.app(""), "search", "  ")
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Empty(t, f.srv.Requests())
}

func TestFoodCommand(t *testing.T) {
	f := newFixture(t, false)
	f.srv.Details[42] = api.FoodDetail{
		FdcID: 42,
		Name:  "Almonds",
		Brand: "Blue Diamond",
		Nutrients: api.Nutrients{
			Calories: 579, Protein: 21, Carbs: 22, Fat: 50, Fiber: 12.5,
			Micronutrients: map[string]string{"vitaminE": "25.6 mg", "calcium": "269 mg"},
		},
	}
	app := f.app("")

	out, _, err := f.run(app, "food", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Almonds (Blue Diamond)")
	assert.Contains(t, out, "per 100 g")
	assert.Contains(t, out, "Micronutrient Details")
	assert.Contains(t, out, "25.6 mg")
	assert.Equal(t, int64(42), app.Store().Snapshot().Nutrition.Detail.FdcID)

	_, _, err = f.run(app, "food", "404")
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "Food not found or API error", opErr.Message)
}

func TestFoodCommand_BadID(t *testing.T) {
	f := newFixture(t, false)
	app := f.app("")

	for _, args := range [][]string{nil, {"abc"}, {"0"}, {"1", "2"}} {
		_, _, err := f.run(app, "food", args...)
		var usage *UsageError
		require.ErrorAs(t, err, &usage, "args %v", args)
	}
}

func TestScanCommand(t *testing.T) {
	f := newFixture(t, false)
	app := f.app("")

	out, _, err := f.run(app, "scan", "012345678905")
	require.NoError(t, err)
	assert.Contains(t, out, "012345678905")
	assert.Contains(t, out, "false")

	_, _, err = f.run(app, "scan", "12ab")
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
}
