// Package v1 provides HTTP API version 1.
package v1

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invoicer/internal/domain/catalogs/company"
	"invoicer/internal/domain/catalogs/worker"
	"invoicer/internal/domain/documents/invoice"
	"invoicer/internal/domain/registers/stock"
	"invoicer/internal/infrastructure/http/v1/handlers"
	"invoicer/internal/infrastructure/http/v1/middleware"
	"invoicer/pkg/logger"
)

// Services bundles the domain services the API exposes.
type Services struct {
	Invoice            *invoice.Service
	Stock              *stock.Service
	Worker             *worker.Service
	WorkerTransactions *worker.TransactionService
	Company            *company.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	Services Services

	// Logger for request logging
	Logger *logger.Logger

	// CORSAllowedOrigins lists allowed origins; "*" or empty allows all.
	CORSAllowedOrigins []string

	// HealthChecks are pinged by /health/ready
	HealthChecks map[string]handlers.Pinger

	// Storage names the active backend for /health/info
	Storage string
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()
	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NotFound())

	healthHandler := handlers.NewHealthHandler(cfg.Version, cfg.Storage, cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	registerRoutes(api, cfg.Services)

	return router
}

func registerRoutes(api *gin.RouterGroup, svc Services) {
	base := handlers.NewBaseHandler()

	handlers.NewInvoiceHandler(base, svc.Invoice, svc.Company).RegisterRoutes(api.Group("/invoices"))
	handlers.NewCustomerHandler(base, svc.Invoice).RegisterRoutes(api.Group("/customers"))
	handlers.NewStockHandler(base, svc.Stock).RegisterRoutes(api.Group("/stock"))
	handlers.NewCompanyHandler(base, svc.Company).RegisterRoutes(api.Group("/company"))

	RegisterCatalogRoutes(api.Group("/workers"), handlers.NewWorkerHandler(base, svc.Worker))
	RegisterCatalogRoutes(api.Group("/worker-transactions"),
		handlers.NewWorkerTransactionHandler(base, svc.WorkerTransactions))
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	var allowed []string
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 || (len(allowed) == 1 && allowed[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowed
	}
	corsConfig.AddAllowHeaders(middleware.HeaderRequestID, middleware.HeaderTraceID)
	corsConfig.AddExposeHeaders(middleware.HeaderRequestID, middleware.HeaderTraceID, "Content-Disposition")

	return cors.New(corsConfig)
}
