package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/borntotravel/auth/internal/auth/http"
	"github.com/borntotravel/auth/internal/auth/mail"
	"github.com/borntotravel/auth/internal/auth/service"
	"github.com/borntotravel/auth/internal/auth/store"
	redisstore "github.com/borntotravel/auth/internal/auth/store/drivers/redis"
	"github.com/borntotravel/auth/internal/auth/store/drivers/sqlite"
	"github.com/borntotravel/auth/pkg/cryptox"
	"github.com/borntotravel/auth/pkg/jwtx"
	"github.com/borntotravel/auth/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	redis  *redis.Client // nil unless refresh tokens live in redis
	hasher *cryptox.Hasher
	access *jwtx.Codec

	sessionService *service.SessionService
	userService    *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(app.logger); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewHasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		app.closeStores()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeStores(); err != nil {
		app.logger.Error("error closing stores", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) closeStores() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}

// initDatabase opens the SQLite store, applies migrations and, when
// configured, moves refresh tokens to redis.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully")
	app.db = db

	if app.cfg.RefreshStore != RefreshStoreRedis {
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	app.redis = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.redis.Ping(ctx).Err(); err != nil {
		_ = app.closeStores()
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	app.db = store.WithRefreshTokens(db, redisstore.NewRefreshTokens(app.redis))
	app.logger.Info("refresh tokens stored in redis", "addr", opts.Addr)
	return nil
}

func (app *Application) initServices() error {
	access, err := jwtx.NewCodec(app.cfg.AccessSecret)
	if err != nil {
		return fmt.Errorf("access codec: %w", err)
	}
	refresh, err := jwtx.NewCodec(app.cfg.RefreshSecret)
	if err != nil {
		return fmt.Errorf("refresh codec: %w", err)
	}
	app.access = access

	mailer, err := app.newMailer()
	if err != nil {
		return err
	}

	app.sessionService = &service.SessionService{
		Store:                app.db,
		Access:               access,
		Refresh:              refresh,
		Hasher:               app.hasher,
		Mailer:               mailer,
		AccessTTL:            app.cfg.AccessTTL,
		RefreshTTL:           app.cfg.RefreshTTL,
		ResetCodeTTL:         app.cfg.ResetCodeTTL,
		RequireStoredRefresh: app.cfg.RequireStoredRefresh,
	}
	app.userService = &service.UserService{Store: app.db, Hasher: app.hasher}
	return nil
}

func (app *Application) newMailer() (mail.Sender, error) {
	if app.cfg.MailHost == "" {
		app.logger.Warn("MAIL_HOST not set; reset codes will only be logged")
		return mail.LogSender{RevealCodes: app.cfg.Env == "dev"}, nil
	}

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     app.cfg.MailHost,
		Port:     app.cfg.MailPort,
		Username: app.cfg.MailUser,
		Password: app.cfg.MailPassword,
		FromName: app.cfg.MailFromName,
	})
	if err != nil {
		return nil, fmt.Errorf("mail: %w", err)
	}
	return sender, nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.access,
		BuildVersion,
		app.db,
		app.cfg.RateLimits,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.SilentRefreshThreshold = app.cfg.SilentRefreshThreshold
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
