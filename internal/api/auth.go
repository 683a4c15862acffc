package api

import (
	"context"
	"net/http"
	"strings"
)

// User is the authenticated account as the backend reports it.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signUpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    User   `json:"user"`
}

type authCheckResponse struct {
	Success       bool   `json:"success"`
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
	User          User   `json:"user"`
}

// SignUp registers a new account. The backend mails a verification
// code; the account cannot log in until it is verified.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (int, error) {
	if strings.TrimSpace(email) == "" {
		return 0, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if password == "" {
		return 0, &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if strings.TrimSpace(fullName) == "" {
		return 0, &ValidationError{Field: "full_name", Reason: "must not be empty"}
	}

	var resp signUpResponse
	err := c.postJSON(ctx, "sign up", "/api/auth/signup", signUpRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// Login authenticates and stores the session cookie in the client's
// jar, so subsequent calls run as this user.
func (c *Client) Login(ctx context.Context, email, password string, rememberMe bool) (User, error) {
	if strings.TrimSpace(email) == "" {
		return User{}, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if password == "" {
		return User{}, &ValidationError{Field: "password", Reason: "must not be empty"}
	}

	var resp loginResponse
	err := c.postJSON(ctx, "login", "/api/auth/login", loginRequest{
		Email:      email,
		Password:   password,
		RememberMe: rememberMe,
	}, &resp)
	if err != nil {
		return User{}, err
	}
	if !resp.Success {
		return User{}, &StatusError{Op: "login", StatusCode: http.StatusOK, Message: resp.Message}
	}
	if err := c.saveCookies(); err != nil {
		c.logger.Warn("persist session cookie failed", "error", err)
	}
	return resp.User, nil
}

// Logout clears the server-side session and removes any persisted
// cookie so later runs start unauthenticated.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.postJSON(ctx, "logout", "/api/auth/logout", struct{}{}, nil); err != nil {
		return err
	}
	return c.dropCookies()
}

// CheckAuth reports whether the session cookie is still valid and, if
// so, who it belongs to.
func (c *Client) CheckAuth(ctx context.Context) (User, bool, error) {
	var resp authCheckResponse
	if err := c.getJSON(ctx, "check auth", "/api/auth/check", &resp); err != nil {
		return User{}, false, err
	}
	if !resp.Success {
		return User{}, false, &StatusError{Op: "check auth", StatusCode: http.StatusOK, Message: resp.Message}
	}
	return resp.User, resp.Authenticated, nil
}
