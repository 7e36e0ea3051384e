package http

import (
	"net/http"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/internal/auth/service"
	"github.com/borntotravel/auth/pkg/authsdk"
	"github.com/borntotravel/auth/pkg/httpx"
)

type UsersHandler struct {
	Users *service.UserService
}

func userResponse(u domain.User) authsdk.UserResponse {
	return authsdk.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Firstname:     u.Firstname,
		Lastname:      u.Lastname,
		Pseudo:        u.Pseudo,
		IsElectricCar: u.IsElectricCar,
		CreatedAt:     u.CreatedAt,
	}
}

// HandleRegister godoc
//
//	@Summary		Create an account
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterRequest	true	"New account"
//	@Success		201		{object}	authsdk.UserResponse
//	@Failure		400		{object}	authsdk.APIError	"Invalid email, empty pseudo or weak password"
//	@Failure		409		{object}	authsdk.APIError	"Email already registered"
//	@Router			/users [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, err)
		return
	}

	u, err := h.Users.Register(r.Context(), service.Registration{
		Email:         req.Email,
		Password:      req.Password,
		Firstname:     req.Firstname,
		Lastname:      req.Lastname,
		Pseudo:        req.Pseudo,
		IsElectricCar: req.IsElectricCar,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse(u))
}

// HandleMe godoc
//
//	@Summary		Current user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse
//	@Failure		401	{object}	authsdk.APIError	"Not signed in"
//	@Router			/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Profile(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResponse(u))
}

// HandleUpdateProfile godoc
//
//	@Summary		Update profile
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	authsdk.UserResponse
//	@Failure		400		{object}	authsdk.APIError	"Empty pseudo"
//	@Failure		401		{object}	authsdk.APIError	"Not signed in"
//	@Failure		404		{object}	authsdk.APIError	"Account no longer exists"
//	@Router			/users/me [patch].
func (h *UsersHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, err)
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), httpx.UserIDFromContext(r.Context()), service.ProfileUpdate{
		Firstname:     req.Firstname,
		Lastname:      req.Lastname,
		Pseudo:        req.Pseudo,
		IsElectricCar: req.IsElectricCar,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResponse(u))
}

// HandleDeleteAccount godoc
//
//	@Summary		Delete account
//	@Description	Removes the account and its refresh token. Access tokens already issued stay valid until they expire.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse
//	@Failure		401	{object}	authsdk.APIError	"Not signed in"
//	@Failure		404	{object}	authsdk.APIError	"Account no longer exists"
//	@Router			/users/me [delete].
func (h *UsersHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.DeleteAccount(r.Context(), httpx.UserIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "account deleted"})
}

// HandleChangePassword godoc
//
//	@Summary		Change password
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	authsdk.MessageResponse
//	@Failure		400		{object}	authsdk.APIError	"Wrong current password, unchanged or weak password"
//	@Failure		401		{object}	authsdk.APIError	"Not signed in"
//	@Router			/users/me/password [post].
func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, err)
		return
	}

	err := h.Users.ChangePassword(r.Context(), httpx.UserIDFromContext(r.Context()), req.OldPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "password updated"})
}
