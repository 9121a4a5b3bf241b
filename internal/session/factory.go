package session

import (
	"fmt"
	"log/slog"

	"github.com/linemk/shop-bot/internal/config"
)

// NewStore выбирает хранилище по конфигу: Redis, если задан адрес,
// иначе (или при недоступном Redis и разрешённом fallback) - память процесса
func NewStore(log *slog.Logger, cfg config.SessionConfig) (Store, error) {
	const op = "session.NewStore"
	logger := log.With(slog.String("op", op))

	if cfg.RedisAddress == "" {
		logger.Info("redis address not set, using in-memory checkout sessions")
		return NewMemoryStore(cfg.TTL), nil
	}

	store, err := NewRedisStore(RedisConfig{
		Address:  cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.TTL,
	})
	if err != nil {
		if !cfg.AllowInMemoryFallback {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Warn("redis unavailable, falling back to in-memory checkout sessions", slog.Any("error", err))
		return NewMemoryStore(cfg.TTL), nil
	}

	logger.Info("using redis checkout sessions", slog.String("address", cfg.RedisAddress))
	return store, nil
}
