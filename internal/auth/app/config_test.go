package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/borntotravel/auth/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, DefaultAccessSecret, cfg.AccessSecret)
	require.Equal(t, DefaultRefreshSecret, cfg.RefreshSecret)
	require.Equal(t, 7*24*time.Hour, cfg.AccessTTL)
	require.Equal(t, 24*time.Minute, cfg.SilentRefreshThreshold)
	require.Equal(t, 300*time.Second, cfg.ResetCodeTTL)
	require.True(t, cfg.RequireStoredRefresh)
	require.Equal(t, RefreshStoreSQLite, cfg.RefreshStore)
	require.Equal(t, 465, cfg.MailPort)
	require.Equal(t, "BornToTravel", cfg.MailFromName)
}

func TestLoadConfigFromEnvAndDotenv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	dotenv := "AUTH_ACCESS_SECRET=from-dotenv\nMAIL_HOST=smtp.example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600))

	// Real environment variables win over .env.
	t.Setenv("MAIL_HOST", "smtp.override.example.com")
	t.Setenv("AUTH_SILENT_REFRESH_THRESHOLD", "30m")
	t.Setenv("AUTH_RESET_CODE_TTL", "300s")
	t.Setenv("AUTH_REFRESH_REQUIRE_STORED", "false")
	t.Setenv("AUTH_REFRESH_STORE", "Redis")
	t.Setenv("PORT", "not-a-port")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Unsetenv("AUTH_ACCESS_SECRET") })

	require.Equal(t, "from-dotenv", cfg.AccessSecret)
	require.Equal(t, "smtp.override.example.com", cfg.MailHost)
	require.Equal(t, 30*time.Minute, cfg.SilentRefreshThreshold)
	require.Equal(t, 300*time.Second, cfg.ResetCodeTTL)
	require.False(t, cfg.RequireStoredRefresh)
	require.Equal(t, RefreshStoreRedis, cfg.RefreshStore)
	require.Equal(t, 8080, cfg.Port)
}

func TestLoadConfigRejectsBareNumberDurations(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("AUTH_RESET_CODE_TTL", "300")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "10")

	_, err := LoadConfig()
	require.Error(t, err)
	require.ErrorContains(t, err, "AUTH_RESET_CODE_TTL")
	require.ErrorContains(t, err, "SHUTDOWN_GRACE_PERIOD")

	t.Setenv("AUTH_RESET_CODE_TTL", "soon")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "10s")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "AUTH_RESET_CODE_TTL")
}

func TestValidate(t *testing.T) {
	base := Config{
		Env:           "dev",
		AccessSecret:  DefaultAccessSecret,
		RefreshSecret: DefaultRefreshSecret,
		AccessTTL:     time.Hour,
		RefreshTTL:    time.Hour,
		RefreshStore:  RefreshStoreSQLite,

		ResetCodeTTL:           300 * time.Second,
		SilentRefreshThreshold: 24 * time.Minute,
	}
	log := slogx.Discard()

	require.NoError(t, base.Validate(log))

	prod := base
	prod.Env = "prod"
	require.Error(t, prod.Validate(log))

	prod.AccessSecret, prod.RefreshSecret = "a", "b"
	require.NoError(t, prod.Validate(log))

	same := prod
	same.RefreshSecret = same.AccessSecret
	require.Error(t, same.Validate(log))

	unknown := prod
	unknown.RefreshStore = "memcached"
	require.Error(t, unknown.Validate(log))

	mail := prod
	mail.MailHost = "smtp.example.com"
	require.Error(t, mail.Validate(log))

	noReset := prod
	noReset.ResetCodeTTL = 0
	require.Error(t, noReset.Validate(log))

	noThreshold := prod
	noThreshold.SilentRefreshThreshold = -time.Minute
	require.Error(t, noThreshold.Validate(log))
}
