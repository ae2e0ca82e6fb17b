package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// newMigrationProvider returns a goose provider over the embedded migrations
// and the *sql.DB it wraps. The caller closes the DB.
func newMigrationProvider(pool *pgxpool.Pool) (*goose.Provider, func() error, error) {
	sub, err := fs.Sub(migrationsFS, migrationsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, sub)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return provider, db.Close, nil
}

// RunMigrations applies every pending migration to the items schema
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	provider, closeDB, err := newMigrationProvider(pool)
	if err != nil {
		return err
	}
	defer closeDB()

	logger.Info("Checking for pending migrations...", zap.Int("available", len(provider.ListSources())))

	results, err := provider.Up(ctx)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, res := range results {
		logger.Info("Applied migration",
			zap.Int64("version", res.Source.Version),
			zap.String("file", res.Source.Path),
			zap.Duration("duration", res.Duration),
		)
	}

	logger.Info("Migrations completed successfully", zap.Int("applied", len(results)))
	return nil
}

// MigrationVersion returns the highest applied migration version
func MigrationVersion(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	provider, closeDB, err := newMigrationProvider(pool)
	if err != nil {
		return 0, err
	}
	defer closeDB()

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, nil
}
