package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/infra/config"
	"github.com/robertboulos/clearleads/internal/transport/http/handlers"
	"github.com/robertboulos/clearleads/internal/transport/http/middleware"
	"github.com/robertboulos/clearleads/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth       *usecase.AuthService
	Validation *usecase.ValidationService
	Credits    *usecase.CreditsService
	Batch      *usecase.BatchService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Metrics  *middleware.HTTPMetrics
	Services ServiceSet
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{"*"}))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthHandler := handlers.NewHealthHandler()
	r.GET("/healthz", healthHandler.Status)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		requireSession := middleware.RequireSession(deps.Services.Auth)

		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		publicAuth := api.Group("/auth")
		protectedAuth := api.Group("/auth")
		protectedAuth.Use(requireSession)
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		protected := api.Group("")
		protected.Use(requireSession)

		handlers.NewValidationHandler(deps.Services.Validation).RegisterRoutes(protected)
		handlers.NewCreditsHandler(deps.Services.Credits).RegisterRoutes(protected)
		handlers.NewBatchHandler(deps.Services.Batch).RegisterRoutes(protected)
	}

	return r
}
