package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mediadeck/internal/models"
)

// signupRequest is the body of POST /api/auth/signup
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the body of POST /api/auth/login
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a new account. Any token the server returns is passed
// through untouched; whether to keep it is the session store's call.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	body := signupRequest{Name: name, Email: email, Password: password}

	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, authPath+"/signup", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a token and user
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	body := loginRequest{Email: email, Password: password}

	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, authPath+"/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout notifies the server that the session ended
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, authPath+"/logout", token, nil, nil)
}

// Me fetches the profile of the token's owner. The server may wrap the
// user in a {"user": {...}} envelope or return the fields bare; both
// shapes are accepted.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, authPath+"/me", token, nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user profile: %w", err)
	}
	return &user, nil
}
