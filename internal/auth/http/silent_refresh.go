package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/pkg/httpx"
	"github.com/borntotravel/auth/pkg/jwtx"
	"github.com/borntotravel/auth/pkg/slogx"
)

// DefaultSilentRefreshThreshold is the remaining access-token lifetime
// under which a request triggers a rotation.
const DefaultSilentRefreshThreshold = 24 * time.Minute

// sessionRefresher is the part of the session service the interceptor uses.
type sessionRefresher interface {
	StoredRefreshToken(ctx context.Context, userID string) (string, error)
	RefreshTokenExpired(token string) bool
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, userID string) error
}

// SilentRefresh rotates access tokens that are close to expiry. The new
// token is returned in the Authorization response header and the request
// carries on with the token it came with. Requests without a bearer token
// pass through untouched so the guard behind can answer them.
func SilentRefresh(v jwtx.Verifier, sessions sessionRefresher, threshold time.Duration, now func() time.Time) httpx.Middleware {
	if threshold <= 0 {
		threshold = DefaultSilentRefreshThreshold
	}
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := httpx.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			var claims jwtx.AccessClaims
			if err := v.Verify(raw, &claims); err != nil || claims.UserID == "" {
				httpx.WriteBearerError(w, "your session has expired")
				return
			}
			remaining, ok := claims.Remaining(now())
			if !ok {
				httpx.WriteBearerError(w, "your session has expired")
				return
			}

			if remaining >= threshold {
				next.ServeHTTP(w, r)
				return
			}

			stored, err := sessions.StoredRefreshToken(ctx, claims.UserID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				next.ServeHTTP(w, r)
				return
			case err != nil:
				log.Error("silent refresh: load refresh token", slog.Any("error", err))
				httpx.WriteBearerError(w, "you are not signed in")
				return
			}

			if sessions.RefreshTokenExpired(stored) {
				if err := sessions.Logout(ctx, claims.UserID); err != nil && !errors.Is(err, domain.ErrNotFound) {
					log.Warn("silent refresh: drop expired refresh token", slog.Any("error", err))
				}
				httpx.WriteBearerError(w, "your session has expired, please sign in again")
				return
			}

			access, err := sessions.RefreshAccessToken(ctx, stored)
			if err != nil {
				log.Info("silent refresh rejected", slog.String("user_id", claims.UserID), slog.Any("error", err))
				httpx.WriteBearerError(w, "you are not signed in")
				return
			}

			w.Header().Set("Authorization", "Bearer "+access)
			log.Debug("access token rotated", slog.String("user_id", claims.UserID))
			next.ServeHTTP(w, r)
		})
	}
}
