// Package api is the client for the nutri remote API: one configured Client
// that owns the base address, the credential header and error normalization,
// plus one service per domain hanging off it.
package api

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/nutrigen/nutri/internal/storage"
)

const (
	// DefaultBaseURL is the hosted nutri API.
	DefaultBaseURL = "https://nutri-gen-3.onrender.com"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent when WithUserAgent is not used.
	DefaultUserAgent = "nutri/dev"
)

// Client is the nutri API client.
//
// Use NewClient with the credential store that holds the session token:
//
//	creds, _ := storage.NewFileCredentialStore("")
//	client := api.NewClient(creds)
//	user, err := client.Auth.Login(ctx, "a@b.com", "secret")
type Client struct {
	creds      storage.CredentialStore
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
	breaker    *gobreaker.CircuitBreaker

	// Services
	Auth      *AuthService
	MealPlans *MealPlanService
	Nutrition *NutritionService
	Chat      *ChatService
	Progress  *ProgressService
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCircuitBreaker routes every request through a circuit breaker built
// from settings. An open breaker fails requests immediately; requests are
// never retried.
func WithCircuitBreaker(settings gobreaker.Settings) Option {
	return func(c *Client) {
		if settings.IsSuccessful == nil {
			settings.IsSuccessful = breakerSuccess
		}
		c.breaker = gobreaker.NewCircuitBreaker(settings)
	}
}

// NewClient creates a client that reads the bearer token from creds on every
// request. creds may be nil, in which case requests are anonymous and
// login/registration cannot persist a token.
func NewClient(creds storage.CredentialStore, opts ...Option) *Client {
	c := &Client{
		creds:     creds,
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Initialize services
	c.Auth = &AuthService{client: c}
	c.MealPlans = &MealPlanService{client: c}
	c.Nutrition = &NutritionService{client: c}
	c.Chat = &ChatService{client: c}
	c.Progress = &ProgressService{client: c}

	return c
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Credentials returns the credential store the client reads tokens from.
func (c *Client) Credentials() storage.CredentialStore {
	return c.creds
}
