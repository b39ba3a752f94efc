package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nutrigen/nutri/internal/api"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeError(w, http.StatusBadRequest, "The user with the provided email already exists (EMAIL_EXISTS).")
		return
	}
	user := api.User{
		UID:   uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		HealthDetails: api.HealthDetails{
			Age:            api.Measure(req.Age),
			Gender:         req.Gender,
			Height:         api.Measure(req.Height),
			Weight:         api.Measure(req.Weight),
			DietPreference: req.DietPreference,
			Goal:           req.Goal,
			ActivityLevel:  req.ActivityLevel,
			Allergies:      req.Allergies,
		},
	}
	s.accounts[req.Email] = &account{password: req.Password, user: user}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": s.issueToken(user),
		"user":  user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[req.Email]
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": s.issueToken(acc.user),
		"user":  acc.user,
	})
}

func (s *Server) userByUID(uid string) (api.User, bool) {
	for _, acc := range s.accounts {
		if acc.user.UID == uid {
			return acc.user, true
		}
	}
	return api.User{}, false
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	user, ok := s.userByUID(uidFrom(r))
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []api.Message `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "No messages provided")
		return
	}
	reply := s.Reply
	if reply == nil {
		reply = func(messages []api.Message) string {
			return "You said: " + messages[len(messages)-1].Content
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply(req.Messages)})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := uidFrom(r)
	if _, ok := s.userByUID(uid); !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	plan := s.GeneratedPlan.Clone()
	if plan == nil {
		plan = api.MealPlan{}
	}
	s.plans[uid] = plan
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Meal plan generated and saved successfully",
		"meal_plan": map[string]interface{}{"mealPlan": plan},
	})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	plan, ok := s.plans[uidFrom(r)]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Meal plan not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"mealPlan": plan})
}

func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := uidFrom(r)
	today := s.Now().Format("2006-01-02")
	yesterday := s.Now().AddDate(0, 0, -1).Format("2006-01-02")

	switch s.logged[uid] {
	case today:
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Meal already logged today", "streak": s.streaks[uid]})
		return
	case yesterday:
		s.streaks[uid]++
	default:
		s.streaks[uid] = 1
	}
	s.logged[uid] = today
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Meal logged", "streak": s.streaks[uid]})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := uidFrom(r)
	last := s.logged[uid]
	streak := s.streaks[uid]
	today := s.Now().Format("2006-01-02")
	yesterday := s.Now().AddDate(0, 0, -1).Format("2006-01-02")
	if last != today && last != yesterday {
		streak = 0
	}
	writeJSON(w, http.StatusOK, map[string]int{"streak": streak})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, `Query parameter "q" is required`)
		return
	}
	results := []api.FoodSummary{}
	for _, f := range s.Foods {
		if strings.Contains(queryCaseFold(f.Name), queryCaseFold(q)) {
			results = append(results, f)
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleFood(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Food not found or API error")
		return
	}
	detail, ok := s.Details[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Food not found or API error")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode string `json:"barcode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Barcode == "" {
		writeError(w, http.StatusBadRequest, "Barcode is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"barcode": req.Barcode,
		"found":   false,
	})
}
