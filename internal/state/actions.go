package state

import (
	"slices"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/nutrigen/nutri/internal/api"
)

// Action is a local, synchronous state change.
type Action interface {
	apply(*State)
}

// resetter is an Action that resets a slice; requests in flight under the
// returned keys are discarded when they complete.
type resetter interface {
	resets() []string
}

// ClearAuthError clears the auth slice error.
type ClearAuthError struct{}

func (ClearAuthError) apply(s *State) { s.Auth.Error = "" }

// ClearMealPlanError clears the meal plan slice error.
type ClearMealPlanError struct{}

func (ClearMealPlanError) apply(s *State) { s.MealPlan.Error = "" }

// UpdateGroceryList replaces the grocery list.
type UpdateGroceryList struct {
	Items []string
}

func (a UpdateGroceryList) apply(s *State) {
	s.MealPlan.GroceryList = slices.Clone(a.Items)
}

// ClearNutritionError clears the nutrition slice error.
type ClearNutritionError struct{}

func (ClearNutritionError) apply(s *State) { s.Nutrition.Error = "" }

// ClearSearchResults empties the search results.
type ClearSearchResults struct{}

func (ClearSearchResults) apply(s *State) { s.Nutrition.Results = nil }

// ClearSelection drops the selected food and its detail.
type ClearSelection struct{}

func (ClearSelection) apply(s *State) {
	s.Nutrition.Selected = nil
	s.Nutrition.Detail = nil
}

// AddToHistory records a search at the front of the history. A name already
// present (compared case-insensitively) leaves the history unchanged. Cap,
// when positive and below the slice cap, bounds the history further.
type AddToHistory struct {
	Name string
	Cap  int
}

func (a AddToHistory) apply(s *State) {
	if a.Name == "" {
		return
	}
	fold := cases.Fold()
	key := fold.String(a.Name)
	for _, h := range s.Nutrition.History {
		if fold.String(h.Name) == key {
			return
		}
	}

	limit := s.Nutrition.HistoryCap
	if limit <= 0 {
		limit = DefaultHistoryCap
	}
	if a.Cap > 0 && a.Cap < limit {
		limit = a.Cap
	}

	history := make([]HistoryEntry, 0, limit)
	history = append(history, HistoryEntry{ID: uuid.NewString(), Name: a.Name})
	for _, h := range s.Nutrition.History {
		if len(history) == limit {
			break
		}
		history = append(history, h)
	}
	s.Nutrition.History = history
}

// AddUserMessage appends a user message to the coach transcript ahead of the
// server reply.
type AddUserMessage struct {
	Content string
}

func (a AddUserMessage) apply(s *State) {
	s.Coach.History = append(slices.Clip(s.Coach.History), api.Message{Role: api.RoleUser, Content: a.Content})
}

// ClearCoachError clears the coach slice error.
type ClearCoachError struct{}

func (ClearCoachError) apply(s *State) { s.Coach.Error = "" }

// ResetChat empties the transcript and clears typing and error.
type ResetChat struct{}

func (ResetChat) apply(s *State) {
	s.Coach = CoachState{}
}

func (ResetChat) resets() []string { return []string{coachKey} }

// DismissNotice clears the dashboard notice and error banners.
type DismissNotice struct{}

func (DismissNotice) apply(s *State) {
	s.Progress.Notice = ""
	s.Progress.Error = ""
}
