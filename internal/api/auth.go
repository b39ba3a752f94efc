package api

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// AuthService handles registration, login and the current-user lookup.
type AuthService struct {
	client *Client
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The returned token is persisted before the
// user is returned.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var resp authResponse
	if err := s.client.post(ctx, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if err := s.persist(resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates with email and password. The returned token is
// persisted before the user is returned.
func (s *AuthService) Login(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	if err := s.client.post(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	if err := s.persist(resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CurrentUser fetches the profile of the signed-in user. A 401 deletes the
// stored credential.
func (s *AuthService) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	err := s.client.get(ctx, "/api/me", &user)
	if apiErr, ok := IsAPIError(err); ok && apiErr.IsUnauthorized() {
		if delErr := s.forget(); delErr != nil {
			s.client.logger.Warn("failed to drop rejected credential", zap.Error(delErr))
		}
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout deletes the stored credential. No request is made.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.forget()
}

// IsAuthenticated reports whether a credential is stored.
func (s *AuthService) IsAuthenticated() bool {
	token, err := s.client.token()
	return err == nil && token != ""
}

func (s *AuthService) persist(token string) error {
	if token == "" {
		return nil
	}
	if s.client.creds == nil {
		return errors.New("no credential store configured")
	}
	if err := s.client.creds.Save(token); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (s *AuthService) forget() error {
	if s.client.creds == nil {
		return nil
	}
	return s.client.creds.Delete()
}
