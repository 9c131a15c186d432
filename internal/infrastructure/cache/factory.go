package cache

import (
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the idempotency store for the deployment shape.
// Redis when enabled, otherwise the in-memory store.
func NewIdempotencyStore(cfg *config.Config, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Redis.Enabled {
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info("using redis idempotency store",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)
	return store, nil
}
