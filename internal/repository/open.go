package repository

import (
	"context"
	"fmt"

	"github.com/fptthinhgreenwich/qlkhohang/internal/config"
	"github.com/fptthinhgreenwich/qlkhohang/internal/database"

	"go.uber.org/zap"
)

// Open connects the item store selected by cfg.Store.Driver and prepares it
// for use. The returned close function releases the underlying connections.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (ItemRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to PostgreSQL",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
		logger.Info("Database health check", zap.Any("health", database.Health(ctx, pool)))

		if migrate {
			if err := database.RunMigrations(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}

		return NewItemRepository(pool), pool.Close, nil

	case config.DriverMongo:
		client, err := database.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to MongoDB",
			zap.String("database", cfg.Mongo.Database),
			zap.String("collection", cfg.Mongo.Collection),
		)

		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
			}
		}

		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		if migrate {
			if err := database.EnsureItemIndexes(ctx, coll); err != nil {
				closeFn()
				return nil, nil, err
			}
		}

		return NewMongoItemRepository(coll), closeFn, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory item store; data is lost on restart")
		return NewMemoryItemRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
