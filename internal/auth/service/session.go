package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/internal/auth/mail"
	"github.com/borntotravel/auth/internal/auth/store"
	"github.com/borntotravel/auth/pkg/cryptox"
	"github.com/borntotravel/auth/pkg/jwtx"
	"github.com/borntotravel/auth/pkg/slogx"
)

// DefaultResetCodeTTL is how long a password-reset code stays usable.
const DefaultResetCodeTTL = 300 * time.Second

// maxResetCodeDraws bounds the retries when a drawn code is already live on
// another account.
const maxResetCodeDraws = 8

// SessionService owns sign-in, access-token rotation, logout and the
// password-reset code lifecycle.
type SessionService struct {
	Store   store.Store
	Access  *jwtx.Codec
	Refresh *jwtx.Codec
	Hasher  *cryptox.Hasher
	Mailer  mail.Sender

	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	ResetCodeTTL time.Duration

	// RequireStoredRefresh rejects refresh tokens that verify but are not
	// the one currently on record for the user.
	RequireStoredRefresh bool

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func accessClaimsFor(u domain.User) *jwtx.AccessClaims {
	return &jwtx.AccessClaims{
		UserID:        u.ID,
		Email:         u.Email,
		Firstname:     u.Firstname,
		Lastname:      u.Lastname,
		Pseudo:        u.Pseudo,
		IsElectricCar: u.IsElectricCar,
	}
}

// SignIn checks email and password and issues a fresh token pair. The new
// refresh token replaces whatever the user held before.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) || password == "" {
		return domain.TokenPair{}, domain.ErrBadCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, domain.ErrBadCredentials
		}
		return domain.TokenPair{}, domain.Internal("sign in: load user", err)
	}

	if err := s.Hasher.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			l.Info("sign in rejected", slog.String("user_id", user.ID))
			return domain.TokenPair{}, domain.ErrBadCredentials
		}
		return domain.TokenPair{}, domain.Internal("sign in: verify password", err)
	}

	if user.HasPendingReset() {
		if err := s.Store.Users().ClearResetCode(ctx, user.ID); err != nil {
			l.Warn("failed to clear reset code on sign in", slog.String("user_id", user.ID), slog.Any("error", err))
		}
	}

	if s.Hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password)
	}

	refresh, err := s.Refresh.Issue(&jwtx.RefreshClaims{UserID: user.ID, Email: user.Email}, s.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, domain.Internal("sign in: issue refresh token", err)
	}
	if _, err := s.Store.RefreshTokens().UpsertRefreshToken(ctx, user.ID, refresh, s.now().Add(s.RefreshTTL)); err != nil {
		return domain.TokenPair{}, domain.Internal("sign in: store refresh token", err)
	}

	access, err := s.Access.Issue(accessClaimsFor(user), s.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, domain.Internal("sign in: issue access token", err)
	}

	l.Info("user signed in", slog.String("user_id", user.ID))
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// rehash upgrades a legacy hash after a successful verification. Failure
// leaves the old hash in place.
func (s *SessionService) rehash(ctx context.Context, userID, password string) {
	l := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err == nil {
		err = s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		l.Warn("failed to upgrade password hash", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded", slog.String("user_id", userID))
}

// RefreshAccessToken exchanges a refresh token for a new access token built
// from the user's current profile.
func (s *SessionService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	var claims jwtx.RefreshClaims
	if err := s.Refresh.Verify(refreshToken, &claims); err != nil || claims.UserID == "" {
		return "", domain.ErrBadRefreshToken
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.ErrBadRefreshToken
		}
		return "", domain.Internal("refresh: load user", err)
	}

	if s.RequireStoredRefresh {
		stored, err := s.Store.RefreshTokens().GetRefreshTokenByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return "", domain.ErrBadRefreshToken
			}
			return "", domain.Internal("refresh: load stored token", err)
		}
		if subtle.ConstantTimeCompare([]byte(stored.Token), []byte(refreshToken)) != 1 {
			slogx.FromContext(ctx).Info("superseded refresh token presented", slog.String("user_id", user.ID))
			return "", domain.ErrBadRefreshToken
		}
	}

	access, err := s.Access.Issue(accessClaimsFor(user), s.AccessTTL)
	if err != nil {
		return "", domain.Internal("refresh: issue access token", err)
	}
	return access, nil
}

// Logout drops the user's refresh token. Access tokens already handed out
// stay valid until they expire.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.BadRequest("user id is required")
	}

	if _, err := s.Store.RefreshTokens().DeleteRefreshTokenByUserID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound("no refresh token on record")
		}
		return domain.Internal("logout", err)
	}

	slogx.FromContext(ctx).Info("user logged out", slog.String("user_id", userID))
	return nil
}

// RequestPasswordReset stores a fresh reset code on the account and mails
// it. The code is persisted before delivery, so a mail failure leaves a
// usable code behind. The code is returned for callers that deliver it
// themselves.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.NotFound("no account with this email")
		}
		return "", domain.Internal("forgot password: load user", err)
	}

	now := s.now()
	ttl := s.ResetCodeTTL
	if ttl <= 0 {
		ttl = DefaultResetCodeTTL
	}

	var code string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		code, err = drawResetCode(ctx, tx.Users(), user.ID, now)
		if err != nil {
			return err
		}
		return tx.Users().SetResetCode(ctx, user.ID, code, now.Add(ttl))
	})
	if err != nil {
		return "", domain.Internal("forgot password: store code", err)
	}

	if err := s.Mailer.SendResetCode(ctx, user.Email, code); err != nil {
		return "", domain.Internal("forgot password: send code", err)
	}

	slogx.FromContext(ctx).Info("password reset requested", slog.String("user_id", user.ID))
	return code, nil
}

var errResetCodeSpace = errors.New("no free reset code after retries")

// drawResetCode picks a code that is not live on any other account.
func drawResetCode(ctx context.Context, users store.Users, userID string, now time.Time) (string, error) {
	for range maxResetCodeDraws {
		code, err := cryptox.GenerateResetCode()
		if err != nil {
			return "", err
		}

		holder, err := users.GetUserByResetCode(ctx, code)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return code, nil
		case err != nil:
			return "", err
		case holder.ID == userID || !holder.ResetCodeValidAt(now):
			return code, nil
		}
	}
	return "", errResetCodeSpace
}

// VerifyResetToken returns the account holding code while the code is
// still live.
func (s *SessionService) VerifyResetToken(ctx context.Context, code string) (domain.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.User{}, domain.NotFound("invalid reset code")
	}

	user, err := s.Store.Users().GetUserByResetCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.NotFound("invalid reset code")
		}
		return domain.User{}, domain.Internal("verify reset code", err)
	}

	if !user.ResetCodeValidAt(s.now()) {
		return domain.User{}, domain.Expired("reset code has expired")
	}
	return user, nil
}

// ResetPassword sets a new password for the account and clears its reset
// code in the same write.
func (s *SessionService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound("no account with this email")
		}
		return domain.Internal("reset password: load user", err)
	}

	if err := domain.CheckPassword(newPassword); err != nil {
		return err
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return domain.Internal("reset password: hash", err)
	}
	if err := s.Store.Users().ResetPassword(ctx, user.ID, hash); err != nil {
		return domain.Internal("reset password: store", err)
	}

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", user.ID))
	return nil
}

// CompletePasswordReset redeems a reset code for a new password.
func (s *SessionService) CompletePasswordReset(ctx context.Context, code, newPassword string) error {
	user, err := s.VerifyResetToken(ctx, code)
	if err != nil {
		return err
	}
	return s.ResetPassword(ctx, user.Email, newPassword)
}

// Decode verifies an access token and returns its claims.
func (s *SessionService) Decode(_ context.Context, accessToken string) (jwtx.AccessClaims, error) {
	var claims jwtx.AccessClaims
	if err := s.Access.Verify(accessToken, &claims); err != nil {
		return jwtx.AccessClaims{}, domain.ErrUnauthorized
	}
	return claims, nil
}

// StoredRefreshToken returns the refresh token currently on record for the
// user.
func (s *SessionService) StoredRefreshToken(ctx context.Context, userID string) (string, error) {
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.NotFound("no refresh token on record")
		}
		return "", domain.Internal("load refresh token", err)
	}
	return rt.Token, nil
}

// RefreshTokenExpired reports whether token can no longer be used, either
// because it expired or because it does not verify at all.
func (s *SessionService) RefreshTokenExpired(token string) bool {
	var claims jwtx.RefreshClaims
	return s.Refresh.Verify(token, &claims) != nil
}
