package authsdk

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

// Session carries a signed-in user's token pair. It is safe for concurrent
// use.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Refresh replaces the access token using the refresh token.
func (s *Session) Refresh(ctx context.Context) error {
	access, err := s.client.Refresh(ctx, s.RefreshToken())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = access
	s.mu.Unlock()
	return nil
}

// do sends an authenticated request and adopts a rotated access token
// returned by the server.
func (s *Session) do(ctx context.Context, method, path string, in any) (*http.Response, error) {
	resp, err := s.client.doRequest(ctx, method, path, in, s.AccessToken())
	if err != nil {
		return nil, err
	}

	if h := resp.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && token != "" {
			s.mu.Lock()
			s.accessToken = token
			s.mu.Unlock()
		}
	}
	return resp, nil
}

// Me returns the signed-in user's profile.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := s.do(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the signed-in user's profile. The next rotated
// access token carries the new values.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResponse, error) {
	resp, err := s.do(ctx, http.MethodPatch, "/users/me", req)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the signed-in user and their refresh token.
func (s *Session) DeleteAccount(ctx context.Context) (*MessageResponse, error) {
	resp, err := s.do(ctx, http.MethodDelete, "/users/me", nil)
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) (*MessageResponse, error) {
	resp, err := s.do(ctx, http.MethodPost, "/users/me/password",
		ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword})
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Decode returns the claims of the session's access token.
func (s *Session) Decode(ctx context.Context) (*Claims, error) {
	resp, err := s.do(ctx, http.MethodPost, "/auth/decode", nil)
	if err != nil {
		return nil, err
	}

	var claims *Claims
	if err := decodeJSON(resp, &claims, http.StatusOK); err != nil {
		return nil, err
	}
	return claims, nil
}

// Logout drops the server-side refresh token. The access token stays valid
// until it expires.
func (s *Session) Logout(ctx context.Context) (*MessageResponse, error) {
	resp, err := s.do(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}
