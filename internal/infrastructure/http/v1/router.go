// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/infrastructure/http/v1/handlers"
	"orderdesk/internal/infrastructure/http/v1/middleware"
	"orderdesk/pkg/logger"
)

// RouterConfig holds the router's collaborators.
type RouterConfig struct {
	Logger *logger.Logger

	Parties handlers.PartyService
	Catalog handlers.CatalogView
	Orders  handlers.OrderService

	// Companies offered in the order header.
	Companies []string

	// DB and CatalogReady back /health/ready.
	DB           handlers.Pinger
	CatalogReady handlers.Readiness

	// Metrics observes requests; MetricsHandler serves /metrics. Both optional.
	Metrics        middleware.RequestObserver
	MetricsHandler http.Handler

	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Metrics(cfg.Metrics))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.CatalogReady, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	v1 := router.Group("/api/v1")
	{
		base := handlers.NewBaseHandler()
		orders := handlers.NewOrdersHandler(base, cfg.Parties, cfg.Catalog, cfg.Orders, cfg.Companies)
		orders.RegisterRoutes(v1.Group("/orders"))
	}

	return router
}
