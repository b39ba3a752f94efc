// Package apitest provides an in-process fake of the nutri remote API for
// tests. Routes mirror the real server, including its {"error": "..."} error
// bodies, and can be overridden per route to inject failures.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nutrigen/nutri/internal/api"
	"github.com/nutrigen/nutri/internal/storage"
)

var signingKey = []byte("apitest-signing-key")

// Recorded is a request as the fake server saw it.
type Recorded struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	Body          []byte
}

type account struct {
	password string
	user     api.User
}

type failure struct {
	status int
	body   string
}

// Server is a fake nutri API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*account // by email
	plans    map[string]api.MealPlan
	streaks  map[string]int
	logged   map[string]string // uid -> last logged date
	failures map[string]failure
	delays   map[string]time.Duration
	requests []Recorded

	// Foods is the search corpus; names are matched case-insensitively.
	Foods []api.FoodSummary
	// Details holds nutrient records by fdcId.
	Details map[int64]api.FoodDetail
	// GeneratedPlan is what /api/generate-meal-plan returns and saves.
	GeneratedPlan api.MealPlan
	// Reply builds the coach reply; defaults to echoing the last message.
	Reply func(messages []api.Message) string
	// Now is the clock used for streaks. Tokens always use the wall clock.
	Now func() time.Time
}

// New starts a fake server and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts: make(map[string]*account),
		plans:    make(map[string]api.MealPlan),
		streaks:  make(map[string]int),
		logged:   make(map[string]string),
		failures: make(map[string]failure),
		delays:   make(map[string]time.Duration),
		Details:  make(map[int64]api.FoodDetail),
		Now:      time.Now,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// Client returns an api.Client pointed at the fake server.
func (s *Server) Client(creds storage.CredentialStore, opts ...api.Option) *api.Client {
	return api.NewClient(creds, append([]api.Option{api.WithBaseURL(s.URL)}, opts...)...)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.inject)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/me", s.handleMe)
			r.Post("/chat", s.handleChat)
			r.Post("/generate-meal-plan", s.handleGenerate)
			r.Get("/meal-plan", s.handleGetPlan)
			r.Post("/log-meal", s.handleLogMeal)
			r.Get("/streak", s.handleStreak)
		})
		r.Get("/nutrition/search", s.handleSearch)
		r.Get("/nutrition/food/{id}", s.handleFood)
		r.Post("/nutrition/scan", s.handleScan)
	})
	return r
}

// AddUser registers an account directly and returns a valid token for it.
func (s *Server) AddUser(email, password string, user api.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.UID == "" {
		user.UID = uuid.NewString()
	}
	user.Email = email
	s.accounts[email] = &account{password: password, user: user}
	return s.issueToken(user)
}

// SetPlan stores a saved plan for the account with email.
func (s *Server) SetPlan(email string, plan api.MealPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[email]; ok {
		s.plans[acc.user.UID] = plan
	}
}

// Fail makes method+path answer with status and body until Recover is
// called. path is the full request path without query, e.g. "/api/me".
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Recover removes an injected failure.
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

// Delay holds every response on method+path for d.
func (s *Server) Delay(method, path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[method+" "+path] = d
}

// Requests returns every request seen so far, oldest first.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the latest request to path.
func (s *Server) LastRequest(path string) (Recorded, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Recorded{}, false
}

func (s *Server) issueToken(user api.User) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Email,
		"uid": user.UID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(signingKey)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return token
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryCaseFold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
