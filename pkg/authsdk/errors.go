package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/borntotravel/auth/pkg/httpx"
)

// Error codes carried in the "error" field of every failure body.
const (
	ErrorCodeBadCredentials  = "bad_credentials"
	ErrorCodeBadRefreshToken = "invalid_refresh_token"
	ErrorCodeUnauthorized    = "unauthorized"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeExpired         = "expired"
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeWeakPassword    = "weak_password"
	ErrorCodeConflict        = "conflict"
	ErrorCodeRateLimited     = "rate_limit_exceeded"
	ErrorCodeServerError     = "server_error"
)

// APIError is the failure body shared by the server, which writes it, and
// the client, which decodes it.
type APIError struct {
	StatusCode int `json:"-"`

	Code        string   `json:"error"`
	Description string   `json:"error_description"`
	Rules       []string `json:"rules,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// ErrServerError is the opaque answer to anything unexpected.
var ErrServerError = &APIError{
	StatusCode:  http.StatusInternalServerError,
	Code:        ErrorCodeServerError,
	Description: "internal server error",
}

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
