// Package main is the entry point for the fieldstock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fieldstock/internal/domain/allocation"
	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/domain/movement"
	"fieldstock/internal/domain/notify"
	v1 "fieldstock/internal/infrastructure/http/v1"
	"fieldstock/internal/infrastructure/storage/postgres"
	"fieldstock/pkg/logger"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting fieldstock server")

	// --- Database connection ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	store, err := postgres.NewCollectionStore(pool)
	if err != nil {
		log.Fatalw("failed to initialize collection store", "error", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalw("failed to ensure storage schema", "error", err)
	}
	log.Info("database connection established")

	// --- Repositories ---
	unitRepo := postgres.NewUnitRepo(store)
	movementRepo := postgres.NewMovementRepo(store)
	modelRepo := postgres.NewModelRepo(store)

	// --- Domain services ---
	movements := movement.NewLog(movementRepo)
	catalogService := catalog.NewService(modelRepo)
	notifier := notify.NewLogNotifier()
	inventoryService := inventory.NewService(unitRepo, movements, notifier)
	resolver := allocation.NewResolver(unitRepo)
	engine := allocation.NewEngine(unitRepo, movements, catalogService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:    log,
		Storage:   store,
		Inventory: inventoryService,
		Catalog:   catalogService,
		Movements: movements,
		Resolver:  resolver,
		Engine:    engine,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
