package api

import (
	"context"
	"errors"
)

// MealPlanService generates and fetches the weekly meal plan.
type MealPlanService struct {
	client *Client
}

type generateResponse struct {
	Message  string `json:"message"`
	MealPlan struct {
		MealPlan MealPlan `json:"mealPlan"`
	} `json:"meal_plan"`
}

type mealPlanResponse struct {
	MealPlan MealPlan `json:"mealPlan"`
}

// Generate asks the server to build and save a new plan for the signed-in
// user.
func (s *MealPlanService) Generate(ctx context.Context) (MealPlan, error) {
	var resp generateResponse
	if err := s.client.post(ctx, "/api/generate-meal-plan", nil, &resp); err != nil {
		return nil, err
	}
	return resp.MealPlan.MealPlan, nil
}

// Get fetches the saved plan. ErrNoMealPlan is returned (wrapping the API
// error) when none exists yet.
func (s *MealPlanService) Get(ctx context.Context) (MealPlan, error) {
	var resp mealPlanResponse
	if err := s.client.get(ctx, "/api/meal-plan", &resp); err != nil {
		if apiErr, ok := IsAPIError(err); ok && apiErr.IsNotFound() {
			return nil, errors.Join(ErrNoMealPlan, err)
		}
		return nil, err
	}
	return resp.MealPlan, nil
}
