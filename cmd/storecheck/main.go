// storecheck verifies that the configured item store is reachable and
// reports how many items it holds.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fptthinhgreenwich/qlkhohang/internal/config"
	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"
	"github.com/fptthinhgreenwich/qlkhohang/internal/logger"
	"github.com/fptthinhgreenwich/qlkhohang/internal/repository"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewWithDefaults()
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("Store check failed", zap.String("store", cfg.Store.Driver), zap.Error(err))
		for _, hint := range hints(cfg) {
			fmt.Println("  -", hint)
		}
		os.Exit(1)
	}

	fmt.Println("--- Store check PASSED ---")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, closeStore, err := repository.Open(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping item store: %w", err)
	}

	total, err := store.Count(ctx, domain.ItemFilter{})
	if err != nil {
		return err
	}

	log.Info("Item store reachable", zap.String("store", cfg.Store.Driver), zap.Int64("items", total))
	if total == 0 {
		fmt.Println("No items stored yet; run the seed command to load sample data")
	}
	return nil
}

func hints(cfg *config.Config) []string {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return []string{
			"PostgreSQL is not running or not reachable at " + cfg.Database.Host + ":" + cfg.Database.Port,
			"DB_USER, DB_PASSWORD or DB_DATABASE are incorrect in .env",
		}
	case config.DriverMongo:
		return []string{
			"MongoDB is not running or not installed",
			"MONGODB_URI is incorrect in .env",
		}
	default:
		return []string{"STORE_DRIVER must be one of postgres, mongo or memory"}
	}
}
