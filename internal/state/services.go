package state

import (
	"context"

	"github.com/nutrigen/nutri/internal/api"
)

// AuthService is the subset of api.AuthService the auth slice needs.
type AuthService interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.User, error)
	Login(ctx context.Context, email, password string) (*api.User, error)
	CurrentUser(ctx context.Context) (*api.User, error)
	Logout(ctx context.Context) error
}

// MealPlanService is the subset of api.MealPlanService the meal plan slice needs.
type MealPlanService interface {
	Generate(ctx context.Context) (api.MealPlan, error)
	Get(ctx context.Context) (api.MealPlan, error)
}

// NutritionService is the subset of api.NutritionService the nutrition slice needs.
type NutritionService interface {
	Search(ctx context.Context, query string) ([]api.FoodSummary, error)
	Food(ctx context.Context, id int64) (*api.FoodDetail, error)
	Scan(ctx context.Context, barcode string) (api.ScanResult, error)
}

// ChatService is the subset of api.ChatService the coach slice needs.
type ChatService interface {
	Send(ctx context.Context, messages []api.Message) (string, error)
}

// ProgressService is the subset of api.ProgressService the progress slice needs.
type ProgressService interface {
	LogMeal(ctx context.Context) (int, error)
	Streak(ctx context.Context) (int, error)
}

// Services bundles the remote operations the store dispatches.
type Services struct {
	Auth      AuthService
	MealPlans MealPlanService
	Nutrition NutritionService
	Chat      ChatService
	Progress  ProgressService
}

// ServicesFrom returns the services of client.
func ServicesFrom(client *api.Client) Services {
	return Services{
		Auth:      client.Auth,
		MealPlans: client.MealPlans,
		Nutrition: client.Nutrition,
		Chat:      client.Chat,
		Progress:  client.Progress,
	}
}

// Ops dispatches the domain operations on a store.
type Ops struct {
	store *Store
	svc   Services
}

// NewOps binds store to svc.
func NewOps(store *Store, svc Services) *Ops {
	return &Ops{store: store, svc: svc}
}

// Store returns the store the operations are dispatched on.
func (o *Ops) Store() *Store {
	return o.store
}
