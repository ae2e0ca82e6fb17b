package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fptthinhgreenwich/qlkhohang/internal/config"
	custommiddleware "github.com/fptthinhgreenwich/qlkhohang/internal/middleware"
	"github.com/fptthinhgreenwich/qlkhohang/internal/repository"
	"github.com/fptthinhgreenwich/qlkhohang/internal/service"
	"github.com/fptthinhgreenwich/qlkhohang/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config     *config.Config
	logger     *zap.Logger
	closeStore func()
	redis      *redis.Client
}

// NewServer wires the item store into the HTTP API. closeStore and
// redisClient may be nil; without redis the rate limiter is not installed.
func NewServer(cfg *config.Config, logger *zap.Logger, store repository.ItemRepository, closeStore func(), redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	if cfg.RateLimit.Enabled && redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "ratelimit:items",
		}, logger))
	} else if cfg.RateLimit.Enabled {
		logger.Warn("Rate limiting enabled but Redis is unavailable; requests are not limited")
	}

	router.NotFound(custommiddleware.NotFoundHandler)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowedHandler)

	// Initialize services
	itemService := service.NewItemService(store)

	// Initialize handlers
	healthHandler := transport.NewHealthHandler(itemService, logger)
	itemHandler := transport.NewItemHandler(itemService, logger)

	// Register routes; the item API answers both at the root and under /api
	mount := func(r chi.Router) {
		healthHandler.RegisterRoutes(r)
		itemHandler.RegisterRoutes(r)
	}
	mount(router)
	router.Route("/api", mount)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:     cfg,
		logger:     logger,
		closeStore: closeStore,
		redis:      redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis client", zap.Error(err))
		}
	}

	// Close item store connections
	if s.closeStore != nil {
		s.closeStore()
	}

	s.logger.Sync()
	return nil
}
