package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/memberly/portal/internal/api/handler"
	"github.com/memberly/portal/internal/api/middleware"
	"github.com/memberly/portal/internal/api/session"
	"github.com/memberly/portal/internal/api/view"
	"github.com/memberly/portal/internal/core/hash"
	"github.com/memberly/portal/internal/core/ports"
	"github.com/memberly/portal/internal/core/service"
	"github.com/memberly/portal/internal/infrastructure/config"
	mongodb "github.com/memberly/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/memberly/portal/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()
	e.Renderer = view.New()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))
	e.Use(echosession.Middleware(session.NewCookieStore(cfg.SessionSecret, cfg.SessionMaxAge)))
	e.Use(middleware.AccessGate())

	// --- Dependencies ---
	var repo ports.MemberRepository = mongodb.NewMemberRepository(db)
	if rdb != nil {
		repo = redisdb.NewCachedMemberRepository(repo, rdb, cfg.Redis.CacheTTL, log)
	}
	hasher := hash.NewBcryptHasher(cfg.BcryptCost)
	directory := service.NewMemberService(repo, hasher, log)
	verifier := service.NewDirectoryCredentialVerifier(directory)
	authenticator := service.NewSessionAuthenticator(verifier, hasher, nil, log)

	authHandler := handler.NewAuthHandler(directory, authenticator, log)
	memberHandler := handler.NewMemberHandler(directory)

	// --- Public entry points ---
	e.GET("/", authHandler.Index)
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.RegisterForm)
	e.POST("/register", authHandler.Register)

	// --- Authenticated routes (vetted by the AccessGate) ---
	e.GET("/logout", authHandler.Logout)
	e.POST("/logout", authHandler.Logout)
	e.GET("/members", memberHandler.List)
	e.GET("/members/:id", memberHandler.Get)
	e.PUT("/members/:id", memberHandler.Update)
	e.DELETE("/members/:id", memberHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
