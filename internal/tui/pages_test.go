package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/routes"
	"github.com/nutrigen/nutri/internal/state"
	"github.com/nutrigen/nutri/internal/testutil"
)

func countRequests(h *harness, path string) int {
	n := 0
	for _, r := range h.srv.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func TestLogin_InvalidFormSendsNothing(t *testing.T) {
	h := newHarness(t, false)
	m := h.model(WithStartPath(routes.Login))

	m.Update(key("not-an-email"))
	m.Update(key("enter"))
	m.Update(key("enter"))

	view := m.View()
	assert.Contains(t, view, "Invalid email address")
	assert.Contains(t, view, "password is required")
	assert.Zero(t, countRequests(h, "/api/auth/login"))
	assert.False(t, h.store.Snapshot().Auth.IsLoading)
}

func TestLogin_ServerErrorShown(t *testing.T) {
	h := newHarness(t, false)
	m := h.model(WithStartPath(routes.Login))

	m.Update(key(h.email))
	m.Update(key("tab"))
	m.Update(key("wrong"))
	m.Update(key("enter"))

	s := h.settle(m, func(s state.State) bool { return !s.Auth.IsLoading && s.Auth.Error != "" })
	assert.False(t, s.Auth.IsAuthenticated)
	assert.Equal(t, routes.PageLogin, m.Route().Page)
	assert.Contains(t, m.View(), s.Auth.Error)
}

func TestRegister(t *testing.T) {
	h := newHarness(t, false)
	m := h.model(WithStartPath(routes.Register))
	p := m.page.(*registerPage)

	email := testutil.NewTestEmail(t.Name())
	p.fields[regName].input.SetValue("Grace")
	p.fields[regEmail].input.SetValue(email)
	p.fields[regPassword].input.SetValue("Secret1!")
	p.fields[regConfirm].input.SetValue("Secret2!")
	p.fields[regAge].input.SetValue("36")

	m.Update(key("ctrl+s"))
	require.NotNil(t, p.invalid)
	assert.Equal(t, "Passwords do not match", p.invalid.For("password confirmation"))
	assert.Contains(t, m.View(), "Strength: Strong")
	assert.Zero(t, countRequests(h, "/api/auth/register"))

	p.fields[regConfirm].input.SetValue("Secret1!")
	p.setFocus(regGender)
	m.Update(key("right"))
	p.setFocus(regAllergies)
	m.Update(key(" "))
	m.Update(key("ctrl+s"))

	h.settle(m, func(s state.State) bool { return s.Auth.IsAuthenticated && !s.Auth.IsLoading })
	assert.Equal(t, routes.PageDashboard, m.Route().Page)

	req, ok := h.srv.LastRequest("/api/auth/register")
	require.True(t, ok)
	body := string(req.Body)
	assert.Contains(t, body, `"gender":"Male"`)
	assert.Contains(t, body, `"allergies":"Gluten"`)
	assert.Contains(t, body, `"age":"36"`)
}

func TestRegister_ChoiceCycles(t *testing.T) {
	f := &regField{kind: choiceField, options: []string{"a", "b"}, choice: -1}
	p := &registerPage{env: &env{}, fields: []*regField{f}}

	var got []string
	for i := 0; i < 4; i++ {
		p.update(key("right"))
		got = append(got, f.value())
	}
	assert.Equal(t, []string{"a", "b", "", "a"}, got)

	p.update(key("left"))
	assert.Equal(t, "", f.value())
	p.update(key("left"))
	assert.Equal(t, "b", f.value())
}

func TestRegister_NoneIsNotAnAllergy(t *testing.T) {
	f := &regField{kind: multiField, options: []string{"Nuts", "None"}, picked: []bool{false, true}}
	assert.Empty(t, f.selected())
	f.picked[0] = true
	assert.Equal(t, []string{"Nuts"}, f.selected())
}

func TestDashboard(t *testing.T) {
	h := newHarness(t, true)
	m := h.model(WithStartPath(routes.Dashboard))
	follow(m, Navigate(routes.Dashboard))

	h.settle(m, func(s state.State) bool {
		return s.Auth.User != nil && s.Progress.StreakLoaded && !s.Progress.IsLoading
	})
	view := m.View()
	assert.Contains(t, view, "Welcome back, Ada!")
	assert.Contains(t, view, "0 days")

	m.Update(key("m"))
	h.settle(m, func(s state.State) bool { return s.Progress.Notice == state.MealLoggedNotice })
	view = m.View()
	assert.Contains(t, view, state.MealLoggedNotice)
	assert.Contains(t, view, "1 day")

	p := m.page.(*dashboardPage)
	seq := p.seq
	m.Update(dismissMsg{seq: seq - 1})
	assert.Equal(t, state.MealLoggedNotice, h.store.Snapshot().Progress.Notice, "stale timer")

	m.Update(dismissMsg{seq: seq})
	assert.Empty(t, h.store.Snapshot().Progress.Notice)

	_, cmd := m.Update(key("2"))
	follow(m, cmd)
	assert.Equal(t, routes.PageInsights, m.Route().Page)
}

func TestDashboard_WatchBanner(t *testing.T) {
	p := newDashboardPage(&env{bannerDuration: DefaultBannerDuration})

	var s state.State
	assert.Nil(t, p.watchBanner(s))

	s.Progress.Notice = "hello"
	assert.NotNil(t, p.watchBanner(s))
	assert.Nil(t, p.watchBanner(s), "same banner keeps its timer")
	assert.Equal(t, 1, p.seq)

	s.Progress.Error = "boom"
	assert.NotNil(t, p.watchBanner(s), "errors take over the banner")
	assert.Equal(t, "boom", p.banner)

	assert.Nil(t, p.watchBanner(state.State{}))
	assert.Equal(t, 3, p.seq)
}

func TestMealPlanner(t *testing.T) {
	h := newHarness(t, true)
	h.srv.SetPlan(h.email, api.MealPlan{
		"Monday": {
			"Breakfast": {Name: "Oats", Ingredients: "oats, milk", Calories: 300, Protein: 10, Carbs: 50, Fat: 5},
			"Dinner":    {Name: "Curry", Ingredients: "Rice, Milk, lentils", Calories: 200, Protein: 15, Carbs: 30, Fat: 4},
		},
		"Sunday": {
			"Lunch": {Name: "Toast", Ingredients: "Bread", Calories: 100},
		},
	})
	m := h.model(WithStartPath(routes.Dashboard))
	follow(m, Navigate(routes.MealPlanner))

	h.settle(m, func(s state.State) bool { return len(s.MealPlan.Plan) == 2 && !s.MealPlan.IsLoading })
	view := m.View()
	assert.Contains(t, view, "Toast")
	assert.Contains(t, view, "100 kcal total")

	m.Update(key("right"))
	view = m.View()
	assert.Contains(t, view, "Oats")
	assert.Contains(t, view, "500 kcal total • 25.0g protein • 80.0g carbs • 9.0g fat")
	assert.Less(t, strings.Index(view, "Oats"), strings.Index(view, "Curry"), "breakfast before dinner")

	m.Update(key("c"))
	assert.Equal(t, []string{"Bread", "lentils", "milk", "oats", "Rice"}, h.store.Snapshot().MealPlan.GroceryList)
}

func TestMealPlanner_EmptyThenGenerate(t *testing.T) {
	h := newHarness(t, true)
	h.srv.GeneratedPlan = api.MealPlan{"Friday": {"Snack": {Name: "Nuts", Calories: 180}}}
	m := h.model(WithStartPath(routes.Dashboard))
	follow(m, Navigate(routes.MealPlanner))

	h.settle(m, func(s state.State) bool { return !s.MealPlan.IsLoading })
	assert.Contains(t, m.View(), "No meal plan yet")

	m.Update(key("g"))
	h.settle(m, func(s state.State) bool { return len(s.MealPlan.Plan) == 1 && !s.MealPlan.IsLoading })
	assert.Contains(t, m.View(), "Nuts")
	assert.Contains(t, m.View(), "180 kcal total")
}

func TestInsights_Search(t *testing.T) {
	h := newHarness(t, true)
	h.srv.Foods = []api.FoodSummary{{ID: 1, Name: "Apple"}, {ID: 2, Name: "Banana"}}
	h.srv.Details[1] = api.FoodDetail{FdcID: 1, Name: "Apple", Nutrients: api.Nutrients{
		Calories: 52, Protein: 0.3, Carbs: 14, Fat: 0.2, Fiber: 2.4,
		Micronutrients: map[string]string{"vitamin_c": "4.6 mg"},
	}}
	m := h.model(WithStartPath(routes.Insights))

	m.Update(key("enter"))
	assert.Contains(t, m.View(), "search query is required")
	assert.Zero(t, countRequests(h, "/api/nutrition/search"))

	m.Update(key("apple"))
	m.Update(key("enter"))
	h.settle(m, func(s state.State) bool { return len(s.Nutrition.Results) == 1 && !s.Nutrition.IsLoading })
	assert.Contains(t, m.View(), "Apple")
	assert.Equal(t, "apple", h.store.Snapshot().Nutrition.History[0].Name)

	m.Update(key("enter"))
	h.settle(m, func(s state.State) bool { return s.Nutrition.Detail != nil })
	view := m.View()
	assert.Contains(t, view, "52 kcal")
	assert.Contains(t, view, "Micronutrient Details")
	assert.Contains(t, view, "Vitamin C")
	assert.Contains(t, view, "4.6 mg")

	// a search from the history leaves the detail view
	m.Update(key("tab"))
	m.Update(key("enter"))
	s := h.settle(m, func(s state.State) bool { return len(s.Nutrition.Results) == 1 && !s.Nutrition.IsLoading })
	assert.Nil(t, s.Nutrition.Selected)
	assert.Nil(t, s.Nutrition.Detail)
	assert.NotContains(t, m.View(), "Micronutrient Details")

	m.Update(key("enter"))
	h.settle(m, func(s state.State) bool { return s.Nutrition.Detail != nil })
	m.Update(key("esc"))
	assert.Nil(t, h.store.Snapshot().Nutrition.Selected)
}

func TestInsights_HistoryCap(t *testing.T) {
	h := newHarness(t, true)
	m := h.model(WithStartPath(routes.Insights))
	p := m.page.(*insightsPage)

	for _, q := range []string{"a", "b", "c", "d", "e", "f", "F"} {
		p.setFocus(focusQuery)
		p.query.SetValue(q)
		m.Update(key("enter"))
	}

	var names []string
	for _, e := range h.store.Snapshot().Nutrition.History {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"f", "e", "d", "c", "b"}, names)
}

func TestInsights_Barcode(t *testing.T) {
	h := newHarness(t, true)
	m := h.model(WithStartPath(routes.Insights))

	m.Update(key("ctrl+b"))
	m.Update(key("123"))
	m.Update(key("enter"))
	assert.Contains(t, m.View(), "barcode must be at least 8 characters")
	assert.Zero(t, countRequests(h, "/api/nutrition/scan"))

	p := m.page.(*insightsPage)
	p.query.SetValue("12345678")
	m.Update(key("enter"))
	h.settle(m, func(s state.State) bool { return len(s.Nutrition.Scan) > 0 })
	view := m.View()
	assert.Contains(t, view, "Scan Result")
	assert.Contains(t, view, "12345678")
	assert.Empty(t, h.store.Snapshot().Nutrition.History, "scans are not searches")
}

func TestCoach(t *testing.T) {
	h := newHarness(t, true)
	m := h.model(WithStartPath(routes.Coach))
	assert.Contains(t, m.View(), SuggestedQuestions[0])

	m.Update(key("hi"))
	m.Update(key("enter"))
	h.settle(m, func(s state.State) bool { return len(s.Coach.History) == 2 && !s.Coach.IsTyping })
	view := m.View()
	assert.Contains(t, view, "You said: hi")
	assert.NotContains(t, view, SuggestedQuestions[0])

	m.Update(key("ctrl+n"))
	h.settle(m, func(s state.State) bool { return len(s.Coach.History) == 0 })

	m.Update(key("down"))
	m.Update(key("down"))
	m.Update(key("enter"))
	s := h.settle(m, func(s state.State) bool { return len(s.Coach.History) == 2 && !s.Coach.IsTyping })
	assert.Equal(t, SuggestedQuestions[1], s.Coach.History[0].Content)
}

func TestCoach_SecondEnterWhileTyping(t *testing.T) {
	h := newHarness(t, true)
	h.srv.Delay("POST", "/api/chat", 200*time.Millisecond)
	m := h.model(WithStartPath(routes.Coach))

	m.Update(key("one"))
	m.Update(key("enter"))
	m.Update(key("two"))
	m.Update(key("enter"))

	s := h.settle(m, func(s state.State) bool { return len(s.Coach.History) == 2 && !s.Coach.IsTyping })
	assert.Equal(t, "one", s.Coach.History[0].Content)
	assert.Equal(t, 1, countRequests(h, "/api/chat"))
}

func TestCoach_FailureInTranscript(t *testing.T) {
	h := newHarness(t, true)
	h.srv.Fail("POST", "/api/chat", 500, `{"message":"model offline"}`)
	m := h.model(WithStartPath(routes.Coach))

	m.Update(key("hello"))
	m.Update(key("enter"))
	h.settle(m, func(s state.State) bool { return len(s.Coach.History) == 2 && !s.Coach.IsTyping })
	assert.Contains(t, m.View(), "Sorry, something went wrong. Please try again.")
}

func TestProfile(t *testing.T) {
	h := newHarness(t, true)
	m := h.model(WithStartPath(routes.Dashboard))
	follow(m, Navigate(routes.Profile))

	h.settle(m, func(s state.State) bool { return s.Auth.User != nil && !s.Auth.IsLoading })
	view := m.View()
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, h.email)
	assert.Contains(t, view, "Health Details")

	m.Update(key("o"))
	h.settle(m, func(s state.State) bool { return !s.Auth.IsAuthenticated && !s.Auth.IsLoading })
	assert.Equal(t, routes.PageLogin, m.Route().Page)
	assert.Equal(t, routes.Profile, m.From())
}
