package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"yieldDesk/internal/config"
	"yieldDesk/internal/storage"
	"yieldDesk/internal/storage/memory"
	"yieldDesk/internal/storage/mongo"
	"yieldDesk/internal/storage/postgres"
)

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Driver {
	case config.StorePostgres:
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		logger.Info("store ready", zap.String("driver", cfg.Driver))
		return store, nil
	case config.StoreMongo:
		store, err := mongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			store.Close()
			return nil, err
		}
		logger.Info("store ready", zap.String("driver", cfg.Driver), zap.String("database", cfg.MongoDB))
		return store, nil
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Driver)
	}
}
