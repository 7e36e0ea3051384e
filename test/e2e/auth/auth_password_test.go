package auth_test

import (
	"net/http"
	"testing"

	"github.com/borntotravel/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetFlow(t *testing.T) {
	svc := setupAuthContainer(t)
	ctx := t.Context()

	registerUser(t, svc, "nellie@example.com")
	session := performLogin(t, svc, "nellie@example.com", userPassword)

	msg, err := svc.ForgotPassword(ctx, "nellie@example.com")
	require.NoError(t, err)
	require.Equal(t, "a reset code has been sent by email", msg.Message)

	code := svc.resetCodeFor(t, "nellie@example.com")
	require.Len(t, code, 4)

	_, err = svc.ResetPassword(ctx, code, "weak")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeWeakPassword)

	msg, err = svc.ResetPassword(ctx, code, "Nouveau2024!")
	require.NoError(t, err)
	require.Equal(t, "password has been reset", msg.Message)

	// The code is single use.
	_, err = svc.ResetPassword(ctx, code, "Encore2024!")
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	_, err = svc.Login(ctx, "nellie@example.com", userPassword)
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeBadCredentials)
	performLogin(t, svc, "nellie@example.com", "Nouveau2024!")

	// The old session's access token stays valid until it expires.
	_, err = session.Me(ctx)
	require.NoError(t, err)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := setupAuthContainer(t)

	_, err := svc.ForgotPassword(t.Context(), "ghost@example.com")
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)
}

func TestResetPasswordUnknownCode(t *testing.T) {
	svc := setupAuthContainer(t)

	_, err := svc.ResetPassword(t.Context(), "1234", "Nouveau2024!")
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)
}

func TestChangePassword(t *testing.T) {
	svc := setupAuthContainer(t)
	ctx := t.Context()

	registerUser(t, svc, "gertrude@example.com")
	session := performLogin(t, svc, "gertrude@example.com", userPassword)

	_, err := session.ChangePassword(ctx, "Wrong2024!", "Nouveau2024!")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)

	_, err = session.ChangePassword(ctx, userPassword, "short")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeWeakPassword)

	_, err = session.ChangePassword(ctx, userPassword, "Nouveau2024!")
	require.NoError(t, err)

	performLogin(t, svc, "gertrude@example.com", "Nouveau2024!")
}
