package state

import (
	"context"

	"github.com/nutrigen/nutri/internal/api"
)

// Operation types.
const (
	TypeLogin    = "auth/login"
	TypeRegister = "auth/register"
	TypeLoadUser = "auth/loadUser"
	TypeLogout   = "auth/logout"
)

// authKey is shared by every auth operation: they all write the session, so
// only the latest may land.
const authKey = "auth"

// Credentials is the input of the login operation.
type Credentials struct {
	Email    string
	Password string
}

func selectAuth(s *State) *AuthState { return &s.Auth }

func signedIn(s *AuthState, user *api.User) {
	s.IsAuthenticated = true
	s.User = user
}

func signedOut(s *AuthState, _ string) {
	s.IsAuthenticated = false
	s.User = nil
}

// LoginOp signs in and stores the credential.
func LoginOp(svc AuthService) AsyncOp[*AuthState, Credentials, *api.User] {
	return AsyncOp[*AuthState, Credentials, *api.User]{
		Type:   TypeLogin,
		Key:    authKey,
		Select: selectAuth,
		Call: func(ctx context.Context, in Credentials) (*api.User, error) {
			return svc.Login(ctx, in.Email, in.Password)
		},
		Fallback:  "Login failed",
		Fulfilled: signedIn,
		Rejected:  signedOut,
	}
}

// RegisterOp creates an account and stores the credential.
func RegisterOp(svc AuthService) AsyncOp[*AuthState, api.RegisterRequest, *api.User] {
	return AsyncOp[*AuthState, api.RegisterRequest, *api.User]{
		Type:      TypeRegister,
		Key:       authKey,
		Select:    selectAuth,
		Call:      svc.Register,
		Fallback:  "Registration failed",
		Fulfilled: signedIn,
		Rejected:  signedOut,
	}
}

// LoadUserOp fetches the current user. It keeps any previous error while
// pending.
func LoadUserOp(svc AuthService) AsyncOp[*AuthState, struct{}, *api.User] {
	return AsyncOp[*AuthState, struct{}, *api.User]{
		Type:   TypeLoadUser,
		Key:    authKey,
		Select: selectAuth,
		Call: func(ctx context.Context, _ struct{}) (*api.User, error) {
			return svc.CurrentUser(ctx)
		},
		Fallback:  "Failed to fetch user",
		KeepError: true,
		Fulfilled: signedIn,
		Rejected:  signedOut,
	}
}

// LogoutOp deletes the credential and signs out.
func LogoutOp(svc AuthService) AsyncOp[*AuthState, struct{}, struct{}] {
	return AsyncOp[*AuthState, struct{}, struct{}]{
		Type:   TypeLogout,
		Key:    authKey,
		Select: selectAuth,
		Call: func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, svc.Logout(ctx)
		},
		Fallback: "Logout failed",
		Fulfilled: func(s *AuthState, _ struct{}) {
			signedOut(s, "")
		},
	}
}

// Login dispatches LoginOp.
func (o *Ops) Login(ctx context.Context, email, password string) *Request[*api.User] {
	return Run(ctx, o.store, LoginOp(o.svc.Auth), Credentials{Email: email, Password: password})
}

// Register dispatches RegisterOp.
func (o *Ops) Register(ctx context.Context, req api.RegisterRequest) *Request[*api.User] {
	return Run(ctx, o.store, RegisterOp(o.svc.Auth), req)
}

// LoadUser dispatches LoadUserOp.
func (o *Ops) LoadUser(ctx context.Context) *Request[*api.User] {
	return Run(ctx, o.store, LoadUserOp(o.svc.Auth), struct{}{})
}

// Logout dispatches LogoutOp.
func (o *Ops) Logout(ctx context.Context) *Request[struct{}] {
	return Run(ctx, o.store, LogoutOp(o.svc.Auth), struct{}{})
}
