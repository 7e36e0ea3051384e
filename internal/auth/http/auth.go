package http

import (
	"net/http"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/internal/auth/service"
	"github.com/borntotravel/auth/pkg/authsdk"
	"github.com/borntotravel/auth/pkg/httpx"
)

type AuthHandler struct {
	Sessions *service.SessionService
}

// HandleLogin godoc
//
//	@Summary		Sign in
//	@Description	Checks email and password and returns an access token and a refresh token.
//	@Description	Signing in again replaces the previous refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenPair
//	@Failure		400		{object}	authsdk.APIError	"Invalid email or password"
//	@Failure		429		{object}	authsdk.APIError	"Too many attempts"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, err)
		return
	}

	pair, err := h.Sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh the access token
//	@Description	Exchanges the refresh token sent as a bearer token for a new access token.
//	@Tags			Auth
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer {refresh_token}"
//	@Success		200				{string}	string	"New access token"
//	@Failure		400				{object}	authsdk.APIError	"Invalid refresh token"
//	@Router			/auth/refresh [get].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, r, domain.ErrBadRefreshToken)
		return
	}

	access, err := h.Sessions.RefreshAccessToken(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, access)
}

// HandleLogout godoc
//
//	@Summary		Sign out
//	@Description	Deletes the caller's refresh token. The access token stays valid until it expires.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse
//	@Failure		401	{object}	authsdk.APIError	"Not signed in"
//	@Failure		404	{object}	authsdk.APIError	"No refresh token on record"
//	@Router			/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context(), httpx.UserIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "logged out"})
}

// HandleForgotPassword godoc
//
//	@Summary		Request a password reset
//	@Description	Mails a four-digit reset code, valid for five minutes, to the account holder.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	authsdk.MessageResponse
//	@Failure		404		{object}	authsdk.APIError	"Unknown email"
//	@Router			/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, err)
		return
	}

	if _, err := h.Sessions.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "a reset code has been sent by email"})
}

// HandleResetPassword godoc
//
//	@Summary		Reset the password
//	@Description	Redeems a reset code for a new password. Weak passwords are answered with the list of unmet rules.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ResetPasswordRequest	true	"Code and new password"
//	@Success		200		{object}	authsdk.MessageResponse
//	@Failure		400		{object}	authsdk.APIError	"Weak password"
//	@Failure		404		{object}	authsdk.APIError	"Invalid or expired code"
//	@Router			/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, err)
		return
	}

	if err := h.Sessions.CompletePasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "password has been reset"})
}

// HandleDecode godoc
//
//	@Summary		Decode an access token
//	@Description	Verifies the bearer access token and returns its claims, or null when no token is sent.
//	@Tags			Auth
//	@Produce		json
//	@Param			Authorization	header		string	false	"Bearer {access_token}"
//	@Success		200				{object}	authsdk.Claims
//	@Failure		401				{object}	authsdk.APIError	"Invalid token"
//	@Router			/auth/decode [post].
func (h *AuthHandler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}

	token, ok := httpx.BearerToken(header)
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}

	claims, err := h.Sessions.Decode(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := authsdk.Claims{
		UserID:        claims.UserID,
		Email:         claims.Email,
		Firstname:     claims.Firstname,
		Lastname:      claims.Lastname,
		Pseudo:        claims.Pseudo,
		IsElectricCar: claims.IsElectricCar,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
