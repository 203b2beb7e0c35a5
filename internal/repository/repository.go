package repository

import (
	"forex-trading/config"
	"forex-trading/pkg/cache"
	"forex-trading/pkg/logger"
)

type Repository struct {
	CandleRepo CandleRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) *Repository {
	candleRepo := NewCachedCandleRepository(
		NewSyntheticCandleRepository(),
		inmemoryCache,
		cfg.Cache.DefaultExpiration,
	)

	return &Repository{
		CandleRepo: candleRepo,
	}
}
