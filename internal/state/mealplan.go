package state

import (
	"context"
	"errors"

	"github.com/nutrigen/nutri/internal/api"
)

// Operation types.
const (
	TypeGenerateMealPlan = "mealPlan/generate"
	TypeFetchMealPlan    = "mealPlan/fetch"
)

func selectMealPlan(s *State) *MealPlanState { return &s.MealPlan }

func planReplaced(s *MealPlanState, plan api.MealPlan) {
	s.Plan = plan
}

// GenerateMealPlanOp asks the server for a new plan.
func GenerateMealPlanOp(svc MealPlanService) AsyncOp[*MealPlanState, struct{}, api.MealPlan] {
	return AsyncOp[*MealPlanState, struct{}, api.MealPlan]{
		Type:   TypeGenerateMealPlan,
		Select: selectMealPlan,
		Call: func(ctx context.Context, _ struct{}) (api.MealPlan, error) {
			return svc.Generate(ctx)
		},
		Fallback:  "Failed to generate meal plan",
		Fulfilled: planReplaced,
	}
}

// FetchMealPlanOp loads the saved plan. A missing plan is not an error: the
// plan becomes empty.
func FetchMealPlanOp(svc MealPlanService) AsyncOp[*MealPlanState, struct{}, api.MealPlan] {
	return AsyncOp[*MealPlanState, struct{}, api.MealPlan]{
		Type:   TypeFetchMealPlan,
		Select: selectMealPlan,
		Call: func(ctx context.Context, _ struct{}) (api.MealPlan, error) {
			plan, err := svc.Get(ctx)
			if errors.Is(err, api.ErrNoMealPlan) {
				return api.MealPlan{}, nil
			}
			return plan, err
		},
		Fallback:  "Failed to fetch meal plan.",
		Fulfilled: planReplaced,
	}
}

// GenerateMealPlan dispatches GenerateMealPlanOp.
func (o *Ops) GenerateMealPlan(ctx context.Context) *Request[api.MealPlan] {
	return Run(ctx, o.store, GenerateMealPlanOp(o.svc.MealPlans), struct{}{})
}

// FetchMealPlan dispatches FetchMealPlanOp.
func (o *Ops) FetchMealPlan(ctx context.Context) *Request[api.MealPlan] {
	return Run(ctx, o.store, FetchMealPlanOp(o.svc.MealPlans), struct{}{})
}
