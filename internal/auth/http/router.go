package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/borntotravel/auth/internal/auth/service"
	"github.com/borntotravel/auth/internal/auth/store"
	"github.com/borntotravel/auth/pkg/httpx"
	"github.com/borntotravel/auth/pkg/jwtx"
	"github.com/borntotravel/auth/pkg/slogx"

	_ "github.com/borntotravel/auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	access       jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	limits       httpx.RateLimits

	SessionService *service.SessionService
	UserService    *service.UserService

	// SilentRefreshThreshold defaults to DefaultSilentRefreshThreshold.
	SilentRefreshThreshold time.Duration

	// Now is the clock of the silent-refresh interceptor.
	Now func() time.Time
}

func NewRouter(
	access jwtx.Verifier,
	buildVersion string,
	st store.Store,
	limits httpx.RateLimits,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:                    http.NewServeMux(),
		access:                 access,
		buildVersion:           buildVersion,
		startTime:              time.Now(),
		logger:                 logger,
		store:                  st,
		limits:                 limits,
		SilentRefreshThreshold: DefaultSilentRefreshThreshold,
		Now:                    time.Now,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			BornToTravel Auth API
//	@version		0.1.0
//	@description	Session and credential service for the BornToTravel places backend.
//	@description
//	@description				Access and refresh tokens are HS256 JWTs signed with distinct secrets.
//	@description				Access tokens close to expiry are rotated on guarded routes and returned in the Authorization response header.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// guarded wraps h with silent refresh, the access guard and a per-user
// rate limit, in that order.
func (r *Router) guarded(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		SilentRefresh(r.access, r.SessionService, r.SilentRefreshThreshold, r.Now),
		httpx.AuthnMiddleware(r.access),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Sessions: r.SessionService}

	// Keyed by IP and email so one address cannot spray passwords across
	// accounts from a single bucket.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.limits.Strict, "email"),
		),
	)
	r.Mux.Handle("GET /auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
	r.Mux.Handle("POST /auth/logout", r.guarded(http.HandlerFunc(h.HandleLogout), r.limits.Moderate))

	r.Mux.Handle("POST /auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			httpx.RateLimitByIPAndJSONField(r.limits.Strict, "email"),
		),
	)
	// Four-digit codes: keep guessing expensive.
	r.Mux.Handle("POST /auth/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("POST /auth/decode",
		httpx.Chain(http.HandlerFunc(h.HandleDecode),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UserService}

	r.Mux.Handle("POST /users",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("GET /users/me", r.guarded(http.HandlerFunc(h.HandleMe), r.limits.Lenient))
	r.Mux.Handle("PATCH /users/me", r.guarded(http.HandlerFunc(h.HandleUpdateProfile), r.limits.Moderate))
	r.Mux.Handle("DELETE /users/me", r.guarded(http.HandlerFunc(h.HandleDeleteAccount), r.limits.Strict))
	r.Mux.Handle("POST /users/me/password", r.guarded(http.HandlerFunc(h.HandleChangePassword), r.limits.Strict))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
