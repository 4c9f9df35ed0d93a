package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/habittracker/habit-tracker-backend/docs"
	"github.com/habittracker/habit-tracker-backend/internal/api/handler"
	"github.com/habittracker/habit-tracker-backend/internal/api/middleware"
	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
	healthhandlers "github.com/habittracker/habit-tracker-backend/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs; construction of services and
// repositories stays in the composition root.
type Deps struct {
	Habits    ports.HabitService
	Stats     ports.StatsService
	Auth      ports.AuthService
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("habits"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	habitHandler := handler.NewHabitHandler(deps.Habits)
	statsHandler := handler.NewStatsHandler(deps.Stats)

	// --- Operational endpoints (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	v1.GET("/habits", habitHandler.List)
	v1.POST("/habits", habitHandler.Create)
	v1.GET("/habits/active", habitHandler.ListActive)
	v1.GET("/habits/category/:category", habitHandler.ListByCategory)
	v1.GET("/habits/:id", habitHandler.Get)
	v1.PUT("/habits/:id", habitHandler.Update)
	v1.DELETE("/habits/:id", habitHandler.Delete)
	v1.POST("/habits/:id/toggle", habitHandler.Toggle)

	v1.GET("/statistics", statsHandler.Get)
	v1.GET("/statistics/top-habits", statsHandler.TopHabits)

	// --- Admin-only routes ---
	admin := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users/:id/habits", habitHandler.AdminListUserHabits)

	return e
}
