package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/practicewtf/identity-service/docs"
	"github.com/practicewtf/identity-service/internal/api/handler"
	"github.com/practicewtf/identity-service/internal/api/middleware"
	"github.com/practicewtf/identity-service/internal/core/domain"
	"github.com/practicewtf/identity-service/internal/core/service"
	"github.com/practicewtf/identity-service/internal/infrastructure/config"
	mongodb "github.com/practicewtf/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/practicewtf/identity-service/internal/infrastructure/db/redis"
	"github.com/practicewtf/identity-service/internal/infrastructure/http/handlers"
	"github.com/practicewtf/identity-service/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit *queue.Dispatcher, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginMaxFailures, cfg.LoginFailureWindow)
	authService := service.NewAuthService(userRepo, limiter, audit, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, log)
	userService := service.NewUserService(userRepo)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	requireAuth := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Principal routes ---
	e.GET("/me", userHandler.Me, middleware.Principal(cfg.JWTSecret))
	e.GET("/user", userHandler.UserGreeting, requireAuth, middleware.RequireAuthority(domain.AuthorityUser))
	e.GET("/admin", userHandler.AdminGreeting, requireAuth, middleware.RequireAuthority(domain.AuthorityAdmin))
	e.GET("/users", userHandler.Lookup, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
