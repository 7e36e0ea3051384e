package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	authhttp "github.com/borntotravel/auth/internal/auth/http"
	"github.com/borntotravel/auth/internal/auth/service"
	"github.com/borntotravel/auth/internal/auth/store/drivers/sqlite"
	"github.com/borntotravel/auth/pkg/authsdk"
	"github.com/borntotravel/auth/pkg/cryptox"
	"github.com/borntotravel/auth/pkg/httpx"
	"github.com/borntotravel/auth/pkg/jwtx"
	"github.com/borntotravel/auth/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const password = "Str0ng!Pass"

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (i *inbox) SendResetCode(_ context.Context, to, code string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.codes[to] = code
	return nil
}

func (i *inbox) code(to string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.codes[to]
}

type env struct {
	url      string
	client   *authsdk.SDKClient
	sessions *service.SessionService
	store    *sqlite.Store
	clock    *clock
	inbox    *inbox
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clk := &clock{t: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	st.Now = clk.Now

	access, err := jwtx.NewCodec("access-secret")
	require.NoError(t, err)
	access.Now = clk.Now
	refresh, err := jwtx.NewCodec("refresh-secret")
	require.NoError(t, err)
	refresh.Now = clk.Now

	hasher := cryptox.NewHasher("pepper")
	mailbox := &inbox{codes: map[string]string{}}

	sessions := &service.SessionService{
		Store:                st,
		Access:               access,
		Refresh:              refresh,
		Hasher:               hasher,
		Mailer:               mailbox,
		AccessTTL:            jwtx.DefaultAccessTokenTTL,
		RefreshTTL:           jwtx.DefaultRefreshTokenTTL,
		ResetCodeTTL:         service.DefaultResetCodeTTL,
		RequireStoredRefresh: true,
		Now:                  clk.Now,
	}

	roomy := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	limits := httpx.RateLimits{Strict: roomy, Moderate: roomy, Lenient: roomy, Public: roomy}

	router := authhttp.NewRouter(access, "test", st, limits, slogx.Discard())
	router.SessionService = sessions
	router.UserService = &service.UserService{Store: st, Hasher: hasher}
	router.Now = clk.Now
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &env{
		url:      srv.URL,
		client:   authsdk.NewSDKClient(srv.URL),
		sessions: sessions,
		store:    st,
		clock:    clk,
		inbox:    mailbox,
	}
}

func (e *env) register(t *testing.T, email string) *authsdk.UserResponse {
	t.Helper()
	u, err := e.client.Register(t.Context(), authsdk.RegisterRequest{
		Email:         email,
		Password:      password,
		Firstname:     "Jeanne",
		Lastname:      "Baret",
		Pseudo:        "jbaret",
		IsElectricCar: true,
	})
	require.NoError(t, err)
	return u
}

func requireAPIError(t *testing.T, err error, status int, code string) *authsdk.APIError {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *authsdk.APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	u := e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken())
	require.NotEmpty(t, session.RefreshToken())

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, u.ID, me.ID)
	require.True(t, me.IsElectricCar)

	_, err = e.client.Login(ctx, "jeanne@example.com", "Wr0ng!Pass")
	wrong := requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeBadCredentials)

	_, err = e.client.Login(ctx, "nobody@example.com", password)
	unknown := requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeBadCredentials)
	require.Equal(t, wrong.Description, unknown.Description)
}

func TestRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)

	e.clock.Advance(time.Minute)
	access, err := e.client.Refresh(ctx, session.RefreshToken())
	require.NoError(t, err)
	require.NotEqual(t, session.AccessToken(), access)

	claims, err := e.client.Decode(ctx, access)
	require.NoError(t, err)
	require.Equal(t, "jeanne@example.com", claims.Email)

	_, err = e.client.Refresh(ctx, session.AccessToken())
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeBadRefreshToken)

	_, err = e.client.Refresh(ctx, "")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeBadRefreshToken)
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)

	msg, err := session.Logout(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, msg.Message)

	_, err = session.Logout(ctx)
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	_, err = e.client.NewSessionFromTokens("", "").Logout(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)

	// The refresh token is gone even though it has not expired.
	_, err = e.client.Refresh(ctx, session.RefreshToken())
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeBadRefreshToken)
}

func TestPasswordReset(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	e.register(t, "jeanne@example.com")

	_, err := e.client.ForgotPassword(ctx, "nobody@example.com")
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	_, err = e.client.ForgotPassword(ctx, "jeanne@example.com")
	require.NoError(t, err)
	code := e.inbox.code("jeanne@example.com")
	require.Len(t, code, 4)

	_, err = e.client.ResetPassword(ctx, code, "weak")
	weak := requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeWeakPassword)
	require.Len(t, weak.Rules, 4)

	_, err = e.client.ResetPassword(ctx, "0000", "N3w!Password")
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	_, err = e.client.ResetPassword(ctx, code, "N3w!Password")
	require.NoError(t, err)

	_, err = e.client.Login(ctx, "jeanne@example.com", "N3w!Password")
	require.NoError(t, err)
}

func TestPasswordResetCodeExpires(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	e.register(t, "jeanne@example.com")

	_, err := e.client.ForgotPassword(ctx, "jeanne@example.com")
	require.NoError(t, err)

	e.clock.Advance(service.DefaultResetCodeTTL)
	_, err = e.client.ResetPassword(ctx, e.inbox.code("jeanne@example.com"), "N3w!Password")
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeExpired)
}

func TestDecode(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	u := e.register(t, "jeanne@example.com")

	claims, err := e.client.Decode(ctx, "")
	require.NoError(t, err)
	require.Nil(t, claims)

	_, err = e.client.Decode(ctx, "garbage")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)

	claims, err = session.Decode(ctx)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, "jbaret", claims.Pseudo)
	require.Equal(t, e.clock.Now().Add(jwtx.DefaultAccessTokenTTL).Unix(), claims.ExpiresAt)
}

func TestSilentRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)
	original := session.AccessToken()

	t.Run("plenty of time left", func(t *testing.T) {
		_, err := session.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, original, session.AccessToken())
	})

	t.Run("rotates close to expiry", func(t *testing.T) {
		e.clock.Advance(jwtx.DefaultAccessTokenTTL - 10*time.Minute)

		_, err := session.Me(ctx)
		require.NoError(t, err)
		require.NotEqual(t, original, session.AccessToken())

		claims, err := session.Decode(ctx)
		require.NoError(t, err)
		require.Equal(t, e.clock.Now().Add(jwtx.DefaultAccessTokenTTL).Unix(), claims.ExpiresAt)
	})
}

func TestSilentRefreshWithoutStoredToken(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)
	_, err = session.Logout(ctx)
	require.NoError(t, err)

	e.clock.Advance(jwtx.DefaultAccessTokenTTL - 10*time.Minute)
	before := session.AccessToken()

	_, err = session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, before, session.AccessToken())
}

func TestSilentRefreshWithExpiredStoredToken(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	u := e.register(t, "jeanne@example.com")

	e.sessions.RefreshTTL = time.Hour
	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)

	e.clock.Advance(jwtx.DefaultAccessTokenTTL - 10*time.Minute)

	_, err = session.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)

	_, err = e.store.RefreshTokens().GetRefreshTokenByUserID(ctx, u.ID)
	require.Error(t, err)
}

func TestForgedTokenNearExpiryDoesNotRotate(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	u := e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)
	stored, err := e.sessions.StoredRefreshToken(ctx, u.ID)
	require.NoError(t, err)

	forger, err := jwtx.NewCodec("not-the-access-secret")
	require.NoError(t, err)
	forger.Now = e.clock.Now
	forged, err := forger.Issue(&jwtx.AccessClaims{UserID: u.ID, Email: u.Email}, 5*time.Minute)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url+"/users/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, resp.Header.Get("Authorization"))

	after, err := e.sessions.StoredRefreshToken(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, stored, after)
	require.Equal(t, session.RefreshToken(), after)
}

func TestExpiredAccessToken(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)

	e.clock.Advance(jwtx.DefaultAccessTokenTTL + time.Second)
	_, err = session.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)
}

func TestUsers(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	e.register(t, "jeanne@example.com")

	_, err := e.client.Register(ctx, authsdk.RegisterRequest{Email: "jeanne@example.com", Password: password, Pseudo: "again"})
	requireAPIError(t, err, http.StatusConflict, authsdk.ErrorCodeConflict)

	_, err = e.client.Register(ctx, authsdk.RegisterRequest{Email: "bad", Password: password, Pseudo: "x"})
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)

	_, err = e.client.Register(ctx, authsdk.RegisterRequest{Email: "new@example.com", Password: "password", Pseudo: "x"})
	weak := requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeWeakPassword)
	require.NotEmpty(t, weak.Rules)

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)

	_, err = session.ChangePassword(ctx, "Wr0ng!Pass", "N3w!Password")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)

	_, err = session.ChangePassword(ctx, password, "N3w!Password")
	require.NoError(t, err)

	_, err = e.client.Login(ctx, "jeanne@example.com", "N3w!Password")
	require.NoError(t, err)
}

func TestMalformedBody(t *testing.T) {
	e := newEnv(t)

	for _, body := range []string{"", `{"email":`, `{"email":42}`, `{"email":"a@b.c","extra":`} {
		resp, err := http.Post(e.client.BaseURL+"/auth/login", "application/json", strings.NewReader(body))
		require.NoError(t, err)

		var apiErr authsdk.APIError
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
		_ = resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)
		require.Equal(t, authsdk.ErrorCodeInvalidRequest, apiErr.Code)
		require.Equal(t, "malformed request body", apiErr.Description, "body %q", body)
	}
}

func TestUpdateProfileCarriesIntoRotatedToken(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	u := e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)
	original := session.AccessToken()

	pseudo, off := "globetrotteuse", false
	updated, err := session.UpdateProfile(ctx, authsdk.UpdateProfileRequest{Pseudo: &pseudo, IsElectricCar: &off})
	require.NoError(t, err)
	require.Equal(t, u.ID, updated.ID)
	require.Equal(t, "globetrotteuse", updated.Pseudo)
	require.False(t, updated.IsElectricCar)
	require.Equal(t, "Jeanne", updated.Firstname)

	// The current token still carries the old claims.
	claims, err := session.Decode(ctx)
	require.NoError(t, err)
	require.Equal(t, "jbaret", claims.Pseudo)

	e.clock.Advance(jwtx.DefaultAccessTokenTTL - 10*time.Minute)
	_, err = session.Me(ctx)
	require.NoError(t, err)
	require.NotEqual(t, original, session.AccessToken())

	claims, err = session.Decode(ctx)
	require.NoError(t, err)
	require.Equal(t, "globetrotteuse", claims.Pseudo)
	require.False(t, claims.IsElectricCar)

	blank := " "
	_, err = session.UpdateProfile(ctx, authsdk.UpdateProfileRequest{Pseudo: &blank})
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)
}

func TestDeleteAccount(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	u := e.register(t, "jeanne@example.com")

	session, err := e.client.Login(ctx, "jeanne@example.com", password)
	require.NoError(t, err)

	msg, err := session.DeleteAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, "account deleted", msg.Message)

	_, err = e.store.RefreshTokens().GetRefreshTokenByUserID(ctx, u.ID)
	require.Error(t, err)

	_, err = e.client.Refresh(ctx, session.RefreshToken())
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeBadRefreshToken)
	_, err = e.client.Login(ctx, "jeanne@example.com", password)
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeBadCredentials)

	// The access token outlives the account; the account is gone.
	_, err = session.Me(ctx)
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)
	_, err = session.DeleteAccount(ctx)
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	// The address can be registered again.
	e.register(t, "jeanne@example.com")
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	live, err := e.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := e.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.RefreshStore)
}
