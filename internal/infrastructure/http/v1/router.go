// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fieldstock/internal/domain/allocation"
	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/domain/movement"
	"fieldstock/internal/infrastructure/http/v1/handlers"
	"fieldstock/internal/infrastructure/http/v1/middleware"
	"fieldstock/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Storage is the persistence backend, used for readiness checks
	Storage handlers.Pinger

	// Inventory is the unit ledger service
	Inventory *inventory.Service

	// Catalog is the item model metadata service
	Catalog *catalog.Service

	// Movements is the stock movement journal
	Movements *movement.Log

	// Resolver answers availability queries
	Resolver *allocation.Resolver

	// Engine executes material consumption
	Engine *allocation.Engine
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Actor())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Storage)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	baseHandler := handlers.NewBaseHandler()

	v1 := router.Group("/api/v1")
	{
		// --- INVENTORY UNITS ---
		{
			handler := handlers.NewInventoryHandler(baseHandler, cfg.Inventory)
			units := v1.Group("/inventory/units")
			units.POST("", handler.Register)
			units.GET("", handler.List)
			units.GET("/:id", handler.Get)
			units.PATCH("/:id", handler.Update)
			units.DELETE("/:id", handler.Delete)
			units.POST("/batch-status", handler.BatchUpdate)
			units.POST("/returns", handler.ReceiveReturns)
		}

		// --- ALLOCATION ---
		{
			handler := handlers.NewAllocationHandler(baseHandler, cfg.Resolver, cfg.Engine)
			alloc := v1.Group("/allocation")
			alloc.GET("/availability", handler.CheckAvailability)
			alloc.POST("/consume", handler.Consume)
		}

		// --- MOVEMENTS ---
		{
			handler := handlers.NewMovementHandler(baseHandler, cfg.Movements)
			movements := v1.Group("/movements")
			movements.GET("", handler.History)
			movements.GET("/balance", handler.Balance)
		}

		// --- CATALOG & REPORTS ---
		{
			handler := handlers.NewCatalogHandler(baseHandler, cfg.Catalog, cfg.Resolver)
			models := v1.Group("/catalog/models")
			models.POST("", handler.Create)
			models.GET("", handler.List)
			models.GET("/:id", handler.Get)
			models.PUT("/:id", handler.Update)
			models.DELETE("/:id", handler.Delete)

			v1.GET("/reports/low-stock", handler.LowStock)
		}
	}

	return router
}
