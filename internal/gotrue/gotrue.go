// Package gotrue adapts the Supabase auth (GoTrue) client to the narrow
// surface the gateway needs. The gateway never handles credentials beyond
// forwarding them on sign-in; session identity is carried by the GoTrue
// access token on each request.
package gotrue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	gotruego "github.com/supabase-community/gotrue-go"
)

// User is the authenticated identity behind an access token.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is the result of a password sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Service is the auth surface the handlers depend on.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (*User, error)
}

// Client wraps a GoTrue instance at {projectURL}/auth/v1.
type Client struct {
	api gotruego.Client
}

// NewClient creates a client for the given Supabase project URL and anon key.
func NewClient(projectURL, apiKey string) *Client {
	return &Client{
		api: gotruego.New("project", apiKey).WithCustomGoTrueURL(projectURL + "/auth/v1"),
	}
}

// SignIn exchanges an email/password pair for a session via the password
// grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.api.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	return &Session{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		RefreshToken: resp.RefreshToken,
		User:         User{ID: resp.User.ID, Email: resp.User.Email},
	}, nil
}

// GetUser resolves an access token to its user, or fails if the token is
// invalid or expired.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	resp, err := c.api.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("invalid or expired session: %w", err)
	}
	return &User{ID: resp.ID, Email: resp.Email}, nil
}
