package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/internal/auth/store"
	"github.com/borntotravel/auth/pkg/cryptox"
	"github.com/borntotravel/auth/pkg/slogx"
	"github.com/google/uuid"
)

type UserService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
}

type Registration struct {
	Email         string
	Password      string
	Firstname     string
	Lastname      string
	Pseudo        string
	IsElectricCar bool
}

// Register creates an account. The password is checked against the same
// rules as a reset.
func (s *UserService) Register(ctx context.Context, in Registration) (domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if !domain.ValidEmail(email) {
		return domain.User{}, domain.BadRequest("invalid email address")
	}
	pseudo := strings.TrimSpace(in.Pseudo)
	if pseudo == "" {
		return domain.User{}, domain.BadRequest("pseudo is required")
	}
	if err := domain.CheckPassword(in.Password); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.Internal("register: hash", err)
	}

	user := domain.User{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  hash,
		Firstname:     strings.TrimSpace(in.Firstname),
		Lastname:      strings.TrimSpace(in.Lastname),
		Pseudo:        pseudo,
		IsElectricCar: in.IsElectricCar,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.Conflict("an account with this email already exists")
		}
		return domain.User{}, domain.Internal("register: create user", err)
	}

	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, domain.Internal("register: reload user", err)
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", created.ID))
	return created, nil
}

// Profile fetches a user by id.
func (s *UserService) Profile(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.NotFound("user not found")
		}
		return domain.User{}, domain.Internal("profile", err)
	}
	return u, nil
}

// ChangePassword replaces the password of a signed-in user after checking
// the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.Hasher.Verify(oldPassword, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return domain.BadRequest("current password is incorrect")
		}
		return domain.Internal("change password: verify", err)
	}
	if oldPassword == newPassword {
		return domain.BadRequest("new password must differ from the current one")
	}
	if err := domain.CheckPassword(newPassword); err != nil {
		return err
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return domain.Internal("change password: hash", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return domain.Internal("change password: store", err)
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("user_id", u.ID))
	return nil
}

// ProfileUpdate lists the profile fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Firstname     *string
	Lastname      *string
	Pseudo        *string
	IsElectricCar *bool
}

// UpdateProfile applies in to the user's profile. Access tokens issued
// from now on, including silent rotations, carry the new values.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (domain.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if in.Firstname != nil {
		u.Firstname = strings.TrimSpace(*in.Firstname)
	}
	if in.Lastname != nil {
		u.Lastname = strings.TrimSpace(*in.Lastname)
	}
	if in.Pseudo != nil {
		pseudo := strings.TrimSpace(*in.Pseudo)
		if pseudo == "" {
			return domain.User{}, domain.BadRequest("pseudo is required")
		}
		u.Pseudo = pseudo
	}
	if in.IsElectricCar != nil {
		u.IsElectricCar = *in.IsElectricCar
	}

	if err := s.Store.Users().UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.NotFound("user not found")
		}
		return domain.User{}, domain.Internal("update profile", err)
	}

	updated, err := s.Store.Users().GetUserByID(ctx, u.ID)
	if err != nil {
		return domain.User{}, domain.Internal("update profile: reload user", err)
	}

	slogx.FromContext(ctx).Info("profile updated", slog.String("user_id", u.ID))
	return updated, nil
}

// DeleteAccount removes the user's refresh token and then the user. The
// refresh token is dropped explicitly because it may live outside the SQL
// database. Access tokens already issued stay valid until they expire.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.RefreshTokens().DeleteRefreshTokenByUserID(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Users().DeleteUser(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound("user not found")
		}
		return domain.Internal("delete account", err)
	}

	slogx.FromContext(ctx).Info("account deleted", slog.String("user_id", userID))
	return nil
}
