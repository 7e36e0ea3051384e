package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/internal/auth/store"
	"github.com/borntotravel/auth/pkg/idx"
)

type refreshTokensRepo struct {
	db     dbtx
	now    func() time.Time
	pinger interface{ Ping(context.Context) error }
}

func (r *refreshTokensRepo) GetRefreshTokenByUserID(ctx context.Context, userID string) (domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token, expires_at, created_at, updated_at
		FROM refresh_tokens WHERE user_id = ?`, userID,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

// UpsertRefreshToken relies on UNIQUE(user_id): an existing row keeps its id
// and created_at and takes the new token.
func (r *refreshTokensRepo) UpsertRefreshToken(
	ctx context.Context,
	userID, token string,
	expiresAt time.Time,
) (domain.RefreshToken, error) {
	now := r.now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			token      = excluded.token,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		idx.New().String(), userID, token, expiresAt.UTC(), now, now,
	)
	if err != nil {
		return domain.RefreshToken{}, mapUniqueViolation(err)
	}

	// RETURNING columns carry no declared type, so timestamps would come
	// back as text. Read the row instead.
	return r.GetRefreshTokenByUserID(ctx, userID)
}

func (r *refreshTokensRepo) DeleteRefreshTokenByUserID(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return 0, store.ErrNotFound
	}
	return n, nil
}

func (r *refreshTokensRepo) Ping(ctx context.Context) error {
	return r.pinger.Ping(ctx)
}
