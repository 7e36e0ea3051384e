package redis_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/internal/auth/store"
	rtstore "github.com/borntotravel/auth/internal/auth/store/drivers/redis"
	"github.com/borntotravel/auth/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// Refresh tokens go to redis while users stay in sqlite, inside and outside
// transactions.
func TestOverlayOnSQLite(t *testing.T) {
	ctx := t.Context()
	mr, client := setupTestRedis(t)

	base, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = base.Close() })
	require.NoError(t, base.ApplyMigrations())

	st := store.WithRefreshTokens(base, rtstore.NewRefreshTokens(client))

	require.NoError(t, st.Users().CreateUser(ctx, domain.User{
		ID:           "u1",
		Email:        "jeanne@example.com",
		PasswordHash: "x",
		Pseudo:       "jbaret",
	}))

	exp := time.Now().Add(time.Hour)
	err = st.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.RefreshTokens().UpsertRefreshToken(ctx, "u1", "token-one", exp)
		return err
	})
	require.NoError(t, err)

	require.True(t, mr.Exists(rtstore.DefaultKeyPrefix+"u1"))
	_, err = base.RefreshTokens().GetRefreshTokenByUserID(ctx, "u1")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.RefreshTokens().GetRefreshTokenByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "token-one", got.Token)

	require.NoError(t, st.Ping(ctx))
	mr.Close()
	require.Error(t, st.Ping(ctx))
}
