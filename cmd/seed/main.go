// Package main seeds a development database with sample field-operations
// stock: cable drums tracked by meterage and network hardware tracked
// per piece.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalog"
	"fieldstock/internal/domain/inventory"
	"fieldstock/internal/domain/movement"
	"fieldstock/internal/domain/notify"
	"fieldstock/internal/infrastructure/storage/postgres"
	"fieldstock/pkg/logger"
)

type modelSeed struct {
	name     string
	brand    string
	category string
	bulkType catalog.BulkType
	unit     string
	minStock float64
}

type unitSeed struct {
	itemName string
	brand    string
	count    int
	balance  float64 // 0 for count models
	unit     string
	location string
}

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
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

	movements := movement.NewLog(postgres.NewMovementRepo(store))
	catalogService := catalog.NewService(postgres.NewModelRepo(store))
	inventoryService := inventory.NewService(postgres.NewUnitRepo(store), movements, notify.NewLogNotifier())

	models := []modelSeed{
		{"Fiber Optic Cable 12F", "CommScope", "cable", catalog.BulkMeasurement, "m", 500},
		{"Coaxial Cable RG-6", "Belden", "cable", catalog.BulkMeasurement, "m", 300},
		{"UTP Cat6", "Panduit", "cable", catalog.BulkMeasurement, "m", 200},
		{"Access Point AX3000", "TP-Link", "hardware", catalog.BulkCount, "pcs", 5},
		{"Router ER605", "TP-Link", "hardware", catalog.BulkCount, "pcs", 3},
		{"ONT G-1425G", "Nokia", "hardware", catalog.BulkCount, "pcs", 10},
	}
	for _, m := range models {
		model := catalog.NewItemModel(m.name, m.brand, m.bulkType)
		model.Category = m.category
		model.Unit = m.unit
		model.MinStock = types.NewQuantityFromFloat64(m.minStock)
		if _, err := catalogService.Create(ctx, model); err != nil {
			log.Warnw("skipping model", "name", m.name, "error", err)
			continue
		}
		log.Infow("model seeded", "name", m.name, "brand", m.brand)
	}

	units := []unitSeed{
		{"Fiber Optic Cable 12F", "CommScope", 2, 2000, "m", "Central Warehouse"},
		{"Coaxial Cable RG-6", "Belden", 1, 500, "m", "Central Warehouse"},
		{"UTP Cat6", "Panduit", 3, 305, "m", "Central Warehouse"},
		{"Access Point AX3000", "TP-Link", 8, 0, "pcs", "Central Warehouse"},
		{"Router ER605", "TP-Link", 4, 0, "pcs", "Central Warehouse"},
		{"ONT G-1425G", "Nokia", 20, 0, "pcs", "Central Warehouse"},
	}
	for _, u := range units {
		input := inventory.RegisterInput{
			ItemName:  u.itemName,
			Brand:     u.brand,
			Count:     u.count,
			Unit:      u.unit,
			Location:  u.location,
			Reference: "Seed",
			Actor:     "seed",
		}
		if u.balance > 0 {
			balance := types.NewQuantityFromFloat64(u.balance)
			input.InitialBalance = &balance
		}
		created, err := inventoryService.Register(ctx, input)
		if err != nil {
			log.Warnw("skipping units", "item", u.itemName, "error", err)
			continue
		}
		log.Infow("units seeded", "item", u.itemName, "count", len(created))
	}

	log.Info("seed complete")
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
