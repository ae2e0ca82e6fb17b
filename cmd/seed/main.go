package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fptthinhgreenwich/qlkhohang/internal/config"
	"github.com/fptthinhgreenwich/qlkhohang/internal/logger"
	"github.com/fptthinhgreenwich/qlkhohang/internal/repository"
	"github.com/fptthinhgreenwich/qlkhohang/internal/seed"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	log := logger.NewWithDefaults()
	defer log.Sync()

	store, closeStore, err := repository.Open(ctx, cfg, log, true)
	if err != nil {
		return fmt.Errorf("error opening item store: %w", err)
	}
	defer closeStore()

	items, err := seed.Run(ctx, store, log)
	if err != nil {
		return err
	}

	log.Info("Seed completed successfully", zap.Int("inserted", len(items)), zap.String("store", cfg.Store.Driver))
	return nil
}
