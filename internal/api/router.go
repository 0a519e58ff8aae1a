package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/formgate/accounts-api/docs"
	"github.com/formgate/accounts-api/internal/api/handler"
	"github.com/formgate/accounts-api/internal/api/middleware"
	"github.com/formgate/accounts-api/internal/core/domain"
	"github.com/formgate/accounts-api/internal/core/service"
	"github.com/formgate/accounts-api/internal/infrastructure/config"
	mongodb "github.com/formgate/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/formgate/accounts-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxAttempts, cfg.Throttle.Window)
	accountService := service.NewAccountService(accountRepo, tokenService, throttle, log)
	authHandler := handler.NewAuthHandler(accountService)
	authRequired := middleware.Auth(tokenService, accountRepo)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register-admin", authHandler.RegisterAdmin)
	auth.POST("/register-user", authHandler.RegisterUser)
	auth.POST("/login", authHandler.Login)
	auth.GET("/check-status", authHandler.CheckStatus, authRequired)
	auth.GET("/check-token", authHandler.CheckStatus, authRequired)
	auth.GET("/admins", authHandler.Admins)
	auth.GET("/users", authHandler.Users)
	auth.GET("/admin/:adminId/users", authHandler.ManagedBy)
	auth.GET("/admin-id", authHandler.AdminID)
	auth.GET("/private", authHandler.Private, authRequired, middleware.RBAC(domain.RoleAdmin))
	auth.GET("", authHandler.All)
	// No caller-identity check on deletion or the listings above; see the
	// row-level security note in DESIGN.md before exposing publicly.
	auth.DELETE("/user/:id", authHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
