package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/farmgate/livestock-market/internal/api/handler"
	"github.com/farmgate/livestock-market/internal/api/middleware"
	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/service"
	"github.com/farmgate/livestock-market/internal/infrastructure/config"
	"github.com/farmgate/livestock-market/internal/infrastructure/db/postgres"
	redisdb "github.com/farmgate/livestock-market/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// sink receives listing audit events for asynchronous persistence; it may be
// nil in tests.
func NewRouter(db *sql.DB, rdb *redis.Client, sink service.ListingEventSink, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("livestock"))

	// --- Dependencies ---
	authRepo := postgres.NewAuthRepository(db)
	animalRepo := postgres.NewAnimalRepository(db)

	var cache service.BrowseCache
	if rdb != nil {
		cache = redisdb.NewBrowseCache(rdb)
	}

	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL(), log)
	animalService := service.NewAnimalService(animalRepo, authRepo, cache, sink, log)

	authHandler := handler.NewAuthHandler(authService)
	animalHandler := handler.NewAnimalHandler(animalService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/v1/me", authHandler.Me, authMiddleware)

	// --- Listing routes ---
	e.GET("/v1/animals", animalHandler.List)
	e.GET("/v1/animals/:id", animalHandler.Get)
	e.POST("/v1/animals", animalHandler.Create,
		authMiddleware, middleware.RBAC(string(domain.RoleFarmer)))
	e.PATCH("/v1/animals/:id/status", animalHandler.UpdateStatus,
		authMiddleware, middleware.RBAC(string(domain.RoleFarmer), string(domain.RoleAdmin)))

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
