package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fptthinhgreenwich/qlkhohang/internal/config"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a PostgreSQL connection pool and verifies it with a ping.
// NUMERIC columns are decoded into shopspring decimals on every connection.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	return NewPoolFromDSN(ctx, cfg.DSN(), cfg.MaxConns)
}

// NewPoolFromDSN is NewPool for an already assembled connection string
func NewPoolFromDSN(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Health reports pool statistics for diagnostics
func Health(ctx context.Context, pool *pgxpool.Pool) map[string]string {
	stats := make(map[string]string)

	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	s := pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = fmt.Sprint(s.TotalConns())
	stats["idle_conns"] = fmt.Sprint(s.IdleConns())
	stats["acquired_conns"] = fmt.Sprint(s.AcquiredConns())
	stats["max_conns"] = fmt.Sprint(s.MaxConns())
	return stats
}
