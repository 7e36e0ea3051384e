package sqlite_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/borntotravel/auth/internal/auth/store"
	"github.com/borntotravel/auth/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*sqlite.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return sqlite.NewStoreFromDB(db), mock
}

func TestErrorMapping(t *testing.T) {
	t.Run("no rows maps to not found", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := st.Users().GetUserByID(t.Context(), "u1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("driver errors pass through", func(t *testing.T) {
		st, mock := newMockStore(t)
		boom := errors.New("disk I/O error")
		mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE user_id = ?")).
			WithArgs("u1").
			WillReturnError(boom)

		_, err := st.RefreshTokens().GetRefreshTokenByUserID(t.Context(), "u1")
		require.ErrorIs(t, err, boom)
		require.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete of nothing is not found", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE user_id = ?")).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := st.RefreshTokens().DeleteRefreshTokenByUserID(t.Context(), "u1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows affected failure is reported", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET reset_code = NULL")).
			WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))

		err := st.Users().ClearResetCode(t.Context(), "u1")
		require.Error(t, err)
		require.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update of unknown user is not found", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, st.Users().UpdatePasswordHash(t.Context(), "u1", "h"), store.ErrNotFound)
	})
}
