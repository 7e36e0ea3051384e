package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/borntotravel/auth/pkg/httpx"
	"github.com/borntotravel/auth/pkg/jwtx"
	"github.com/joho/godotenv"
)

// Insecure placeholders used when no secret is configured. Running with them
// outside development is refused.
const (
	DefaultAccessSecret  = "YOUR_ACCESS_TOKEN_SECRET_KEY"
	DefaultRefreshSecret = "YOUR_REFRESH_TOKEN_SECRET_KEY"
)

const (
	RefreshStoreSQLite = "sqlite"
	RefreshStoreRedis  = "redis"
)

type Config struct {
	Env                 string        // dev, staging, prod (default: dev)
	LogLevel            string        // debug, info, warn, error (default: info)
	LogFormat           string        // json, text (default: json)
	Port                int           // HTTP port (default: 8080)
	ShutdownGracePeriod time.Duration // default: 10s

	DatabaseFile string // SQLite file (default: ./auth.db)
	PepperFile   string // created on first start (default: ./pepper)

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration // default: 168h
	RefreshTTL    time.Duration // default: 168h

	SilentRefreshThreshold time.Duration // default: 24m
	ResetCodeTTL           time.Duration // default: 300s
	RequireStoredRefresh   bool          // default: true

	RefreshStore string // sqlite or redis (default: sqlite)
	RedisURL     string

	MailHost     string // empty logs codes instead of mailing them
	MailPort     int    // default: 465
	MailUser     string // also the From address
	MailPassword string
	MailFromName string // default: BornToTravel

	RateLimits httpx.RateLimits
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when there is one.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var durations durationReader

	cfg := Config{
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: durations.get("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		AccessSecret:  getEnvOrDefault("AUTH_ACCESS_SECRET", DefaultAccessSecret),
		RefreshSecret: getEnvOrDefault("AUTH_REFRESH_SECRET", DefaultRefreshSecret),
		AccessTTL:     durations.get("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:    durations.get("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		SilentRefreshThreshold: durations.get("AUTH_SILENT_REFRESH_THRESHOLD", 24*time.Minute),
		ResetCodeTTL:           durations.get("AUTH_RESET_CODE_TTL", 300*time.Second),
		RequireStoredRefresh:   getEnvBoolOrDefault("AUTH_REFRESH_REQUIRE_STORED", true),

		RefreshStore: strings.ToLower(getEnvOrDefault("AUTH_REFRESH_STORE", RefreshStoreSQLite)),
		RedisURL:     getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),

		MailHost:     os.Getenv("MAIL_HOST"),
		MailPort:     getEnvIntOrDefault("MAIL_PORT", 465),
		MailUser:     os.Getenv("ADMIN_MAIL_SENDER"),
		MailPassword: os.Getenv("ADMIN_PASSWORD_SENDER"),
		MailFromName: getEnvOrDefault("MAIL_FROM_NAME", "BornToTravel"),

		RateLimits: httpx.RateLimitsFromEnv(),
	}

	if err := errors.Join(durations.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unusable settings. Default secrets are tolerated with a
// warning except in prod.
func (c Config) Validate(logger *slog.Logger) error {
	var errs []error

	defaults := c.AccessSecret == DefaultAccessSecret || c.RefreshSecret == DefaultRefreshSecret
	switch {
	case defaults && c.Env == "prod":
		errs = append(errs, errors.New("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must be set in prod"))
	case defaults:
		logger.Warn("using the default token secrets; set AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET")
	}

	if c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("access and refresh secrets must differ"))
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.ResetCodeTTL <= 0 {
		errs = append(errs, errors.New("AUTH_RESET_CODE_TTL must be positive"))
	}
	if c.SilentRefreshThreshold <= 0 {
		errs = append(errs, errors.New("AUTH_SILENT_REFRESH_THRESHOLD must be positive"))
	}
	if c.RefreshStore != RefreshStoreSQLite && c.RefreshStore != RefreshStoreRedis {
		errs = append(errs, fmt.Errorf("AUTH_REFRESH_STORE: unknown store %q", c.RefreshStore))
	}
	if c.MailHost != "" && c.MailUser == "" {
		errs = append(errs, errors.New("ADMIN_MAIL_SENDER is required when MAIL_HOST is set"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

// durationReader reads Go durations ("300s", "24m", "168h") and remembers
// every value it could not parse. A bare number is rejected, not read in
// some implied unit.
type durationReader struct {
	errs []error
}

func (d *durationReader) get(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		d.errs = append(d.errs, fmt.Errorf("%s: %q is not a duration with a unit, e.g. %s", key, value, defaultValue))
		return defaultValue
	}
	return duration
}
