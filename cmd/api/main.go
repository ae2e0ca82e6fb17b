package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fptthinhgreenwich/qlkhohang/internal/config"
	"github.com/fptthinhgreenwich/qlkhohang/internal/logger"
	"github.com/fptthinhgreenwich/qlkhohang/internal/repository"
	"github.com/fptthinhgreenwich/qlkhohang/internal/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// connectRedis returns nil when rate limiting is off or Redis cannot be reached
func connectRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, rate limiting disabled", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		client.Close()
		return nil
	}

	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	return client
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting inventory API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
	)

	ctx := context.Background()

	// Connect the item store and run migrations
	store, closeStore, err := repository.Open(ctx, cfg, log, true)
	if err != nil {
		log.Fatal("Failed to open item store", zap.Error(err))
	}
	log.Info("Item store ready")

	redisClient := connectRedis(ctx, cfg, log)

	// Create server
	srv := server.NewServer(cfg, log, store, closeStore, redisClient)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
