package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient calls the auth service endpoints that need no session.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Login signs in with email and password.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	return c.NewSessionFromTokens(pair.AccessToken, pair.RefreshToken), nil
}

// NewSessionFromTokens resumes a session from a stored token pair.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return &Session{client: c, accessToken: accessToken, refreshToken: refreshToken}
}

// Refresh exchanges a refresh token for a new access token.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/refresh", nil, refreshToken)
	if err != nil {
		return "", err
	}

	var access string
	if err := decodeJSON(resp, &access, http.StatusOK); err != nil {
		return "", err
	}
	return access, nil
}

// Decode asks the server to verify an access token and return its claims.
// An empty token is sent without an Authorization header and yields nil.
func (c *SDKClient) Decode(ctx context.Context, accessToken string) (*Claims, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/decode", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var claims *Claims
	if err := decodeJSON(resp, &claims, http.StatusOK); err != nil {
		return nil, err
	}
	return claims, nil
}

// ForgotPassword mails a reset code to the account holder.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/forgot-password", ForgotPasswordRequest{Email: email}, "")
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ResetPassword redeems a reset code for a new password.
func (c *SDKClient) ResetPassword(ctx context.Context, code, newPassword string) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/reset-password",
		ResetPasswordRequest{Token: code, NewPassword: newPassword}, "")
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Register creates an account. It does not sign in.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users", req, "")
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}
