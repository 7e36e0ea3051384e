package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/borntotravel/auth/pkg/jwtx"
	"github.com/borntotravel/auth/pkg/slogx"
)

// ErrUnauthorized is returned by Authorize for a missing or unusable bearer
// token. Expired and tampered tokens are not told apart.
var ErrUnauthorized = errors.New("httpx: unauthorized")

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authorize verifies the bearer token carried in header and returns its
// claims.
func Authorize(header string, v jwtx.Verifier) (jwtx.AccessClaims, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return jwtx.AccessClaims{}, ErrUnauthorized
	}

	var claims jwtx.AccessClaims
	if err := v.Verify(raw, &claims); err != nil {
		return jwtx.AccessClaims{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if claims.UserID == "" {
		return jwtx.AccessClaims{}, ErrUnauthorized
	}
	return claims, nil
}

// AuthnMiddleware rejects requests without a valid access token and stores
// the claims in the request context otherwise.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, err := Authorize(r.Header.Get("Authorization"), v)
			if err != nil {
				logger(r).Info("access denied", slog.Any("error", err))
				WriteBearerError(w, "you are not signed in")
				return
			}

			ctx = contextWithClaims(ctx, claims)
			ctx = slogx.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WriteBearerError answers 401 with an RFC 6750 challenge and a JSON body.
func WriteBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
