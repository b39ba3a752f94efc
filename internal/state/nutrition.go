package state

import (
	"context"

	"github.com/nutrigen/nutri/internal/api"
)

// Operation types.
const (
	TypeSearchFood  = "nutrition/search"
	TypeSelectFood  = "nutrition/getData"
	TypeScanBarcode = "nutrition/scanBarcode"
)

// lookupKey is shared by search and select: a late search result must not
// repopulate the results once a food has been selected.
const lookupKey = "nutrition/lookup"

func selectNutrition(s *State) *NutritionState { return &s.Nutrition }

// SearchFoodOp searches foods by name. A failed search keeps the previous
// results and selection.
func SearchFoodOp(svc NutritionService) AsyncOp[*NutritionState, string, []api.FoodSummary] {
	return AsyncOp[*NutritionState, string, []api.FoodSummary]{
		Type:     TypeSearchFood,
		Key:      lookupKey,
		Select:   selectNutrition,
		Call:     svc.Search,
		Fallback: "Search failed",
		Fulfilled: func(s *NutritionState, results []api.FoodSummary) {
			s.Results = results
		},
	}
}

// SelectFoodOp selects a search hit and fetches its nutrient record.
func SelectFoodOp(svc NutritionService) AsyncOp[*NutritionState, api.FoodSummary, *api.FoodDetail] {
	return AsyncOp[*NutritionState, api.FoodSummary, *api.FoodDetail]{
		Type:   TypeSelectFood,
		Key:    lookupKey,
		Select: selectNutrition,
		Call: func(ctx context.Context, food api.FoodSummary) (*api.FoodDetail, error) {
			return svc.Food(ctx, food.ID)
		},
		Fallback: "Failed to get nutrition data",
		Pending: func(s *NutritionState, food api.FoodSummary) {
			s.Selected = &food
			s.Detail = nil
			s.Results = nil
		},
		Fulfilled: func(s *NutritionState, detail *api.FoodDetail) {
			// the selection was dismissed while loading
			if s.Selected == nil {
				return
			}
			s.Detail = detail
		},
		Rejected: func(s *NutritionState, _ string) {
			s.Detail = nil
		},
	}
}

// ScanBarcodeOp looks up a product by barcode.
func ScanBarcodeOp(svc NutritionService) AsyncOp[*NutritionState, string, api.ScanResult] {
	return AsyncOp[*NutritionState, string, api.ScanResult]{
		Type:     TypeScanBarcode,
		Select:   selectNutrition,
		Call:     svc.Scan,
		Fallback: "Barcode scan failed",
		Fulfilled: func(s *NutritionState, result api.ScanResult) {
			s.Scan = result
		},
	}
}

// SearchFood dispatches SearchFoodOp.
func (o *Ops) SearchFood(ctx context.Context, query string) *Request[[]api.FoodSummary] {
	return Run(ctx, o.store, SearchFoodOp(o.svc.Nutrition), query)
}

// SelectFood dispatches SelectFoodOp.
func (o *Ops) SelectFood(ctx context.Context, food api.FoodSummary) *Request[*api.FoodDetail] {
	return Run(ctx, o.store, SelectFoodOp(o.svc.Nutrition), food)
}

// ScanBarcode dispatches ScanBarcodeOp.
func (o *Ops) ScanBarcode(ctx context.Context, barcode string) *Request[api.ScanResult] {
	return Run(ctx, o.store, ScanBarcodeOp(o.svc.Nutrition), barcode)
}
