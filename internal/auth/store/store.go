package store

import (
	"context"
	"errors"
	"time"

	"github.com/borntotravel/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a transaction can hand out the same repos scoped to
// itself.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// WithTx runs fn in a read/write transaction, committing when fn returns
	// nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies every backend the store talks to is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
	RefreshTokens() RefreshTokens
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByResetCode returns the user holding code. If several users hold
	// the same code the one with the latest expiry wins.
	GetUserByResetCode(ctx context.Context, code string) (domain.User, error)

	// CreateUser inserts a new user. ErrAlreadyExists on a taken email.
	CreateUser(ctx context.Context, u domain.User) error

	// SetResetCode stores a reset code together with its expiry.
	SetResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error

	// ClearResetCode drops any pending reset code.
	ClearResetCode(ctx context.Context, userID string) error

	// UpdatePasswordHash sets password_hash and leaves reset fields alone.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// ResetPassword sets password_hash and clears the reset code in one write.
	ResetPassword(ctx context.Context, userID, newHash string) error

	// UpdateProfile writes firstname, lastname, pseudo and is_electric_car
	// from u. Email and credentials are left alone.
	UpdateProfile(ctx context.Context, u domain.User) error

	// DeleteUser removes the user. ErrNotFound when there was none.
	DeleteUser(ctx context.Context, userID string) error
}

type RefreshTokens interface {
	// GetRefreshTokenByUserID returns the user's single refresh-token row.
	GetRefreshTokenByUserID(ctx context.Context, userID string) (domain.RefreshToken, error)

	// UpsertRefreshToken overwrites the user's row in place, or inserts one.
	// Concurrent upserts for one user are last-writer-wins.
	UpsertRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) (domain.RefreshToken, error)

	// DeleteRefreshTokenByUserID removes the user's row. ErrNotFound when
	// there was none.
	DeleteRefreshTokenByUserID(ctx context.Context, userID string) (int64, error)

	Ping(ctx context.Context) error
}
