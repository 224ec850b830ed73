package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/tubeshelf/internal/config"
)

// KV is a flat byte store addressed by string keys.
type KV interface {
	// Get returns the value under key and whether it exists
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Open creates the KV backend selected by cfg.Store.Type
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (KV, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Store.Type {
	case config.StoreTypeBolt, "":
		logger.Info("opening bolt store", "path", cfg.Store.Path)
		return NewBoltKV(cfg.Store.Path)
	case config.StoreTypeRedis:
		logger.Info("connecting to redis store")
		return NewRedisKV(ctx, cfg.Store.RedisURL)
	case config.StoreTypeMemory:
		logger.Info("using memory store, saved videos will not persist")
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Store.Type)
	}
}
