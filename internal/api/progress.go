package api

import "context"

// ProgressService records logged meals and reads the logging streak.
type ProgressService struct {
	client *Client
}

type streakResponse struct {
	Message string `json:"message,omitempty"`
	Streak  int    `json:"streak"`
}

// LogMeal records a meal for today and returns the updated streak. Logging
// twice on one day leaves the streak unchanged.
func (s *ProgressService) LogMeal(ctx context.Context) (int, error) {
	var resp streakResponse
	if err := s.client.post(ctx, "/api/log-meal", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Streak, nil
}

// Streak returns the number of consecutive days with a logged meal.
func (s *ProgressService) Streak(ctx context.Context) (int, error) {
	var resp streakResponse
	if err := s.client.get(ctx, "/api/streak", &resp); err != nil {
		return 0, err
	}
	return resp.Streak, nil
}
