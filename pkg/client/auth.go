package client

import "context"

// LoginRequest holds login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest holds registration details
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// Login authenticates and stores the access token on the client
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var auth AuthResponse
	err := c.doRequest(ctx, "POST", "/api/v1/auth/login", LoginRequest{Email: email, Password: password}, &auth)
	if err != nil {
		return nil, err
	}
	c.token = auth.AccessToken
	return &auth, nil
}

// Register creates a new account and stores the access token on the client
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.doRequest(ctx, "POST", "/api/v1/auth/register", req, &auth); err != nil {
		return nil, err
	}
	c.token = auth.AccessToken
	return &auth, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.doRequest(ctx, "GET", "/api/v1/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
