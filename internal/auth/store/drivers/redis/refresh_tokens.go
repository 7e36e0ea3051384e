// Package redis keeps refresh-token rows in Redis, one key per user.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/internal/auth/store"
	"github.com/borntotravel/auth/pkg/idx"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "auth:refresh:"

	// Keys outlive the token they hold by this much, so an expired token is
	// still seen (and cleaned up) instead of silently vanishing.
	DefaultRetention = 24 * time.Hour

	maxUpsertRetries = 5
)

// RefreshTokens implements store.RefreshTokens on top of a Redis client.
type RefreshTokens struct {
	rdb       redis.UniversalClient
	prefix    string
	retention time.Duration

	// Now stamps created_at/updated_at. Defaults to time.Now.
	Now func() time.Time
}

type Option func(*RefreshTokens)

func WithKeyPrefix(p string) Option {
	return func(r *RefreshTokens) { r.prefix = p }
}

func WithRetention(d time.Duration) Option {
	return func(r *RefreshTokens) { r.retention = d }
}

func NewRefreshTokens(rdb redis.UniversalClient, opts ...Option) *RefreshTokens {
	r := &RefreshTokens{
		rdb:       rdb,
		prefix:    DefaultKeyPrefix,
		retention: DefaultRetention,
		Now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// record is the JSON stored under each key.
type record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *RefreshTokens) key(userID string) string { return r.prefix + userID }

func (r *RefreshTokens) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}

func (r *RefreshTokens) GetRefreshTokenByUserID(ctx context.Context, userID string) (domain.RefreshToken, error) {
	rec, err := r.load(ctx, r.rdb, userID)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	return rec.toDomain(), nil
}

// UpsertRefreshToken rewrites the user's key under WATCH so id and
// created_at survive rotation. A lost race is retried; whichever write lands
// last wins.
func (r *RefreshTokens) UpsertRefreshToken(
	ctx context.Context,
	userID, token string,
	expiresAt time.Time,
) (domain.RefreshToken, error) {
	key := r.key(userID)
	var out record

	txf := func(tx *redis.Tx) error {
		now := r.now()
		rec := record{
			ID:        idx.New().String(),
			UserID:    userID,
			CreatedAt: now,
		}

		existing, err := r.load(ctx, tx, userID)
		switch {
		case err == nil:
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		rec.Token = token
		rec.ExpiresAt = expiresAt.UTC()
		rec.UpdatedAt = now

		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl(rec.ExpiresAt, now))
			return nil
		})
		if err == nil {
			out = rec
		}
		return err
	}

	for range maxUpsertRetries {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.RefreshToken{}, fmt.Errorf("redis: upsert refresh token: %w", err)
		}
		return out.toDomain(), nil
	}
	return domain.RefreshToken{}, fmt.Errorf("redis: upsert refresh token: %w", redis.TxFailedErr)
}

func (r *RefreshTokens) DeleteRefreshTokenByUserID(ctx context.Context, userID string) (int64, error) {
	n, err := r.rdb.Del(ctx, r.key(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: delete refresh token: %w", err)
	}
	if n == 0 {
		return 0, store.ErrNotFound
	}
	return n, nil
}

func (r *RefreshTokens) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RefreshTokens) ttl(expiresAt, now time.Time) time.Duration {
	ttl := expiresAt.Sub(now) + r.retention
	if ttl <= 0 {
		// Already past retention; keep it just long enough to be read once.
		ttl = time.Second
	}
	return ttl
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RefreshTokens) load(ctx context.Context, c getter, userID string) (record, error) {
	raw, err := c.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return record{}, store.ErrNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("redis: get refresh token: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return record{}, fmt.Errorf("redis: decode refresh token: %w", err)
	}
	return rec, nil
}

func (rec record) toDomain() domain.RefreshToken {
	return domain.RefreshToken{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Token:     rec.Token,
		ExpiresAt: rec.ExpiresAt,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

var _ store.RefreshTokens = (*RefreshTokens)(nil)
