package authsdk

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is returned by POST /auth/login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	// Token is the four-digit code sent by mail.
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Claims is the decoded payload of an access token, as returned by
// POST /auth/decode.
type Claims struct {
	UserID        string `json:"id"`
	Email         string `json:"email"`
	Firstname     string `json:"firstname"`
	Lastname      string `json:"lastname"`
	Pseudo        string `json:"pseudo"`
	IsElectricCar bool   `json:"isElectricCar"`
	IssuedAt      int64  `json:"iat"`
	ExpiresAt     int64  `json:"exp"`
}

type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Firstname     string `json:"firstname"`
	Lastname      string `json:"lastname"`
	Pseudo        string `json:"pseudo"`
	IsElectricCar bool   `json:"isElectricCar"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Firstname     string    `json:"firstname"`
	Lastname      string    `json:"lastname"`
	Pseudo        string    `json:"pseudo"`
	IsElectricCar bool      `json:"isElectricCar"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UpdateProfileRequest is the body of PATCH /users/me. Omitted fields are
// left unchanged.
type UpdateProfileRequest struct {
	Firstname     *string `json:"firstname,omitempty"`
	Lastname      *string `json:"lastname,omitempty"`
	Pseudo        *string `json:"pseudo,omitempty"`
	IsElectricCar *bool   `json:"isElectricCar,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HealthResponse is returned by /livez and /readyz; only /readyz fills
// Checks.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database     string `json:"database"`
	RefreshStore string `json:"refresh_store"`
}
