package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/infra/config"
	"github.com/proGsa/travel-booking/internal/transport/http/handlers"
	"github.com/proGsa/travel-booking/internal/transport/http/middleware"
	"github.com/proGsa/travel-booking/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Passwords    *usecase.PasswordService
	Users        *usecase.UserService
	Catalog      *usecase.CatalogService
	Travels      *usecase.TravelService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    handlers.HealthChecker
	Cache       handlers.HealthChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)

	checks := make(map[string]handlers.HealthChecker, 2)
	if deps.Database != nil {
		checks["postgres"] = deps.Database
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache
	}

	healthHandler := handlers.NewHealthHandler(checks)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")

		authOpts := []handlers.AuthHandlerOption{
			handlers.WithRegistrationService(deps.Services.Registration),
		}
		if deps.Config.JWT.AccessTokenTTL > 0 {
			authOpts = append(authOpts, handlers.WithAccessTokenTTL(int(deps.Config.JWT.AccessTokenTTL.Seconds())))
		}

		authHandler := handlers.NewAuthHandler(deps.Services.Auth, authOpts...)
		authHandler.RegisterRoutes(authGroup, handlers.RouteMiddlewares{
			Login:   buildLoginMiddlewares(deps),
			Recover: buildRecoverMiddlewares(deps),
		})

		if deps.Services.Passwords != nil {
			passwordGroup := api.Group("/password")
			passwordHandler := handlers.NewPasswordHandler(deps.Services.Passwords)
			passwordHandler.RegisterRoutes(passwordGroup)
		}

		if deps.Services.Users != nil {
			userGroup := api.Group("/users")
			userGroup.Use(authMiddleware)
			userHandler := handlers.NewUserHandler(deps.Services.Users, deps.Services.Auth)
			userHandler.RegisterRoutes(userGroup)
		}

		if deps.Services.Catalog != nil {
			catalogGroup := api.Group("")
			catalogGroup.Use(authMiddleware)
			catalogHandler := handlers.NewCatalogHandler(deps.Services.Catalog)
			catalogHandler.RegisterRoutes(catalogGroup)
		}

		if deps.Services.Travels != nil {
			travelGroup := api.Group("")
			travelGroup.Use(authMiddleware)
			travelHandler := handlers.NewTravelHandler(deps.Services.Travels, deps.Services.Auth)
			travelHandler.RegisterRoutes(travelGroup)
		}
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.LoginMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_login_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildRecoverMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.RecoverMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Hour
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_recover_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
