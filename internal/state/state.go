// Package state holds the client's application state: one owned Store made
// of per-domain slices, updated by local actions and by the lifecycle of
// asynchronous API operations.
package state

import (
	"maps"
	"slices"

	"github.com/nutrigen/nutri/internal/api"
)

// DefaultHistoryCap bounds the nutrition search history.
const DefaultHistoryCap = 10

// State is the whole application state. Values returned by Store.Snapshot
// are deep copies and may be read freely.
type State struct {
	Auth      AuthState
	MealPlan  MealPlanState
	Nutrition NutritionState
	Coach     CoachState
	Progress  ProgressState
}

// AuthState is the session slice.
type AuthState struct {
	User            *api.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// MealPlanState is the meal plan slice. An empty Plan means no plan exists.
type MealPlanState struct {
	Plan        api.MealPlan
	GroceryList []string
	IsLoading   bool
	Error       string
}

// NutritionState is the food search slice.
type NutritionState struct {
	Results    []api.FoodSummary
	Selected   *api.FoodSummary
	Detail     *api.FoodDetail
	Scan       api.ScanResult
	History    []HistoryEntry
	HistoryCap int
	IsLoading  bool
	Error      string
}

// HistoryEntry is one remembered search, most recent first.
type HistoryEntry struct {
	ID   string
	Name string
}

// CoachState is the virtual coach slice.
type CoachState struct {
	History  []api.Message
	IsTyping bool
	Error    string
}

// ProgressState is the meal logging slice shown on the dashboard.
type ProgressState struct {
	Streak       int
	StreakLoaded bool
	Notice       string
	IsLoading    bool
	Error        string
}

func (s *AuthState) setBusy(b bool)         { s.IsLoading = b }
func (s *AuthState) setError(e string)      { s.Error = e }
func (s *MealPlanState) setBusy(b bool)     { s.IsLoading = b }
func (s *MealPlanState) setError(e string)  { s.Error = e }
func (s *NutritionState) setBusy(b bool)    { s.IsLoading = b }
func (s *NutritionState) setError(e string) { s.Error = e }
func (s *CoachState) setBusy(b bool)        { s.IsTyping = b }
func (s *CoachState) setError(e string)     { s.Error = e }
func (s *ProgressState) setBusy(b bool)     { s.IsLoading = b }
func (s *ProgressState) setError(e string)  { s.Error = e }

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s

	if s.Auth.User != nil {
		u := *s.Auth.User
		u.HealthDetails.Allergies = slices.Clone(u.HealthDetails.Allergies)
		out.Auth.User = &u
	}

	out.MealPlan.Plan = s.MealPlan.Plan.Clone()
	out.MealPlan.GroceryList = slices.Clone(s.MealPlan.GroceryList)

	out.Nutrition.Results = slices.Clone(s.Nutrition.Results)
	if s.Nutrition.Selected != nil {
		sel := *s.Nutrition.Selected
		out.Nutrition.Selected = &sel
	}
	if s.Nutrition.Detail != nil {
		d := *s.Nutrition.Detail
		d.Nutrients.Micronutrients = maps.Clone(d.Nutrients.Micronutrients)
		out.Nutrition.Detail = &d
	}
	out.Nutrition.Scan = maps.Clone(s.Nutrition.Scan)
	out.Nutrition.History = slices.Clone(s.Nutrition.History)

	out.Coach.History = slices.Clone(s.Coach.History)
	return out
}
