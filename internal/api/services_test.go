package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/apitest"
	"github.com/nutrigen/nutri/internal/storage"
)

func TestAuthService_Login(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("a@b.com", "x", api.User{Name: "A"})
	creds := storage.NewMemoryCredentialStore("")
	client := srv.Client(creds)
	ctx := context.Background()

	user, err := client.Auth.Login(ctx, "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, "A", user.Name)
	assert.Equal(t, "a@b.com", user.Email)
	assert.True(t, client.Auth.IsAuthenticated())

	token, err := creds.Load()
	require.NoError(t, err)
	info, err := storage.InspectToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UID, info.UID)

	// the stored token is sent from now on
	me, err := client.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.UID, me.UID)
	req, ok := srv.LastRequest("/api/me")
	require.True(t, ok)
	assert.Equal(t, "Bearer "+token, req.Authorization)
}

func TestAuthService_LoginRejected(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("a@b.com", "x", api.User{Name: "A"})
	creds := storage.NewMemoryCredentialStore("")
	client := srv.Client(creds)

	_, err := client.Auth.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.MessageOf(err, "Login failed"))
	assert.False(t, storage.HasCredential(creds))

	req, ok := srv.LastRequest("/api/auth/login")
	require.True(t, ok)
	assert.Empty(t, req.Authorization)
}

func TestAuthService_Register(t *testing.T) {
	srv := apitest.New(t)
	path := filepath.Join(t.TempDir(), "credential")
	creds, err := storage.NewFileCredentialStore(path)
	require.NoError(t, err)
	client := srv.Client(creds)

	user, err := client.Auth.Register(context.Background(), api.RegisterRequest{
		Name:      "Ann",
		Email:     "ann@example.com",
		Password:  "secret1",
		Age:       "29",
		Weight:    "60",
		Allergies: api.Allergies{"peanuts", "soy"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, api.Measure("29"), user.HealthDetails.Age)
	assert.Equal(t, api.Allergies{"peanuts", "soy"}, user.HealthDetails.Allergies)

	req, ok := srv.LastRequest("/api/auth/register")
	require.True(t, ok)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "peanuts, soy", body["allergies"])
	assert.Equal(t, "ann@example.com", body["email"])

	assert.True(t, storage.HasCredential(creds))

	// duplicate registration surfaces the server message
	_, err = client.Auth.Register(context.Background(), api.RegisterRequest{Email: "ann@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Contains(t, api.MessageOf(err, "Registration failed"), "already exists")
}

func TestAuthService_CurrentUserUnauthorizedDropsCredential(t *testing.T) {
	srv := apitest.New(t)
	creds := storage.NewMemoryCredentialStore("stale-token")
	client := srv.Client(creds)

	_, err := client.Auth.CurrentUser(context.Background())
	require.Error(t, err)
	apiErr, ok := api.IsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsUnauthorized())
	assert.False(t, storage.HasCredential(creds))
}

func TestAuthService_OtherUnauthorizedKeepsCredential(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("a@b.com", "x", api.User{})
	creds := storage.NewMemoryCredentialStore("stale-token")
	client := srv.Client(creds)

	_, err := client.Progress.Streak(context.Background())
	require.Error(t, err)
	assert.True(t, storage.HasCredential(creds))

	// a non-401 failure of /api/me keeps it too
	srv.Fail(http.MethodGet, "/api/me", http.StatusInternalServerError, `{"error":"boom"}`)
	_, err = client.Auth.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, storage.HasCredential(creds))
}

func TestAuthService_Logout(t *testing.T) {
	creds := storage.NewMemoryCredentialStore("t1")
	client := api.NewClient(creds, api.WithBaseURL("http://127.0.0.1:0"))

	require.NoError(t, client.Auth.Logout(context.Background()))
	assert.False(t, client.Auth.IsAuthenticated())
}

func TestMealPlanService(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser("a@b.com", "x", api.User{Name: "A"})
	client := srv.Client(storage.NewMemoryCredentialStore(token))
	ctx := context.Background()

	_, err := client.MealPlans.Get(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNoMealPlan))

	srv.GeneratedPlan = api.MealPlan{
		"Sunday": {"Breakfast": {Name: "Oats", Calories: 300}},
	}
	plan, err := client.MealPlans.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, plan.DailyTotals("Sunday").Calories)

	fetched, err := client.MealPlans.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, plan, fetched)
}

func TestMealPlanService_GenerateFailure(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser("a@b.com", "x", api.User{})
	client := srv.Client(storage.NewMemoryCredentialStore(token))
	srv.Fail(http.MethodPost, "/api/generate-meal-plan", http.StatusInternalServerError, `{"message":"model overloaded"}`)

	_, err := client.MealPlans.Generate(context.Background())
	require.Error(t, err)
	assert.Equal(t, "model overloaded", api.MessageOf(err, "Failed to generate meal plan"))
	assert.False(t, errors.Is(err, api.ErrNoMealPlan))
}

func TestNutritionService(t *testing.T) {
	srv := apitest.New(t)
	srv.Foods = []api.FoodSummary{
		{ID: 1, Name: "Apple, raw", DataType: "Foundation"},
		{ID: 2, Name: "Apple juice", Brand: "Acme", DataType: "Branded"},
		{ID: 3, Name: "Banana"},
	}
	srv.Details[1] = api.FoodDetail{
		FdcID: 1,
		Name:  "Apple, raw",
		Nutrients: api.Nutrients{
			Calories:       52,
			Carbs:          13.8,
			Fiber:          2.4,
			Micronutrients: map[string]string{"Vitamin C": "4.6 mg"},
		},
	}
	client := srv.Client(nil)
	ctx := context.Background()

	results, err := client.Nutrition.Search(ctx, "apple & pear")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
	req, _ := srv.LastRequest("/api/nutrition/search")
	assert.Equal(t, "q=apple+%26+pear", req.Query)

	results, err = client.Nutrition.Search(ctx, "APPLE")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Acme", results[1].Brand)

	detail, err := client.Nutrition.Food(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 52.0, detail.Nutrients.Calories)
	assert.Equal(t, "4.6 mg", detail.Nutrients.Micronutrients["Vitamin C"])

	_, err = client.Nutrition.Food(ctx, 99)
	require.Error(t, err)
	assert.Equal(t, "Food not found or API error", api.MessageOf(err, "Failed to get nutrition data"))

	scan, err := client.Nutrition.Scan(ctx, "0123456789")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", scan["barcode"])
}

func TestChatService(t *testing.T) {
	srv := apitest.New(t)
	token := srv.AddUser("a@b.com", "x", api.User{})
	client := srv.Client(storage.NewMemoryCredentialStore(token))

	reply, err := client.Chat.Send(context.Background(), []api.Message{
		{Role: api.RoleUser, Content: "hi"},
		{Role: api.RoleAssistant, Content: "hello"},
		{Role: api.RoleUser, Content: "protein ideas?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You said: protein ideas?", reply)

	_, err = client.Chat.Send(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "No messages provided", api.MessageOf(err, "Failed to send message"))
}

func TestProgressService(t *testing.T) {
	srv := apitest.New(t)
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	srv.Now = func() time.Time { return day }
	token := srv.AddUser("a@b.com", "x", api.User{})
	client := srv.Client(storage.NewMemoryCredentialStore(token))
	ctx := context.Background()

	streak, err := client.Progress.Streak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)

	streak, err = client.Progress.LogMeal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	// same day again is a no-op
	streak, err = client.Progress.LogMeal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	day = day.AddDate(0, 0, 1)
	streak, err = client.Progress.LogMeal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)

	streak, err = client.Progress.Streak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}
