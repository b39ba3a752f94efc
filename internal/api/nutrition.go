package api

import (
	"context"
	"net/url"
	"strconv"
)

// NutritionService searches foods, fetches nutrient details and scans
// barcodes.
type NutritionService struct {
	client *Client
}

// Search returns the foods matching query.
func (s *NutritionService) Search(ctx context.Context, query string) ([]FoodSummary, error) {
	var results []FoodSummary
	if err := s.client.get(ctx, "/api/nutrition/search?q="+url.QueryEscape(query), &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []FoodSummary{}
	}
	return results, nil
}

// Food returns the nutrient record of one food.
func (s *NutritionService) Food(ctx context.Context, id int64) (*FoodDetail, error) {
	var detail FoodDetail
	if err := s.client.get(ctx, "/api/nutrition/food/"+strconv.FormatInt(id, 10), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Scan looks up a product by barcode.
func (s *NutritionService) Scan(ctx context.Context, barcode string) (ScanResult, error) {
	var result ScanResult
	body := map[string]string{"barcode": barcode}
	if err := s.client.post(ctx, "/api/nutrition/scan", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}
