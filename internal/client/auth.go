package client

import (
	"context"
	"net/http"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RemoteUser is the user record returned by the auth endpoints.
// Role is free-form; callers decide how to interpret it.
type RemoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse is returned by both login and registration
type AuthResponse struct {
	Token string     `json:"token"`
	User  RemoteUser `json:"user"`
}

// Login authenticates the user and returns a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns a bearer token for it
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
