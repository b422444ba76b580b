package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/expensetrack/accounts-api/internal/api/handler"
	"github.com/expensetrack/accounts-api/internal/api/middleware"
	"github.com/expensetrack/accounts-api/internal/core/domain"
	"github.com/expensetrack/accounts-api/internal/core/hash"
	"github.com/expensetrack/accounts-api/internal/core/service"
	"github.com/expensetrack/accounts-api/internal/core/token"
	"github.com/expensetrack/accounts-api/internal/core/validation"
	"github.com/expensetrack/accounts-api/internal/infrastructure/config"
	mongodb "github.com/expensetrack/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/expensetrack/accounts-api/internal/infrastructure/db/redis"
	"github.com/expensetrack/accounts-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
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
	repo := mongodb.NewUserRepository(db)
	tokens := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	users := service.NewUserService(repo, hash.New(), tokens, validation.NewRegisterValidator(), log)

	var limiter handler.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewLoginLimiter(rdb, cfg.Throttle.MaxFailures, cfg.Throttle.Window)
	}

	userHandler := handler.NewUserHandler(users, limiter, log)

	// --- Open routes ---
	e.POST("/api/users/authenticate", userHandler.Authenticate)
	e.POST("/api/users/register", userHandler.Register)

	// --- Managed routes: token required, UserManager authority or better ---
	managed := e.Group("/api/users", middleware.Auth(tokens), middleware.RequireRole(domain.RoleUserManager))
	managed.GET("", userHandler.List)
	managed.PUT("/:id", userHandler.Update)
	managed.DELETE("/:id", userHandler.Delete)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
