package cmd

import (
	"forex-trading/config"
	"forex-trading/internal/ml"
	"forex-trading/internal/repository"
	"forex-trading/internal/service"
	"forex-trading/pkg/cache"
	"forex-trading/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	cache     cache.Cache
	models    *ml.Manager
	services  *service.Service
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	inmemoryCache := cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval)
	models := ml.NewManager(cfg.Model, log)
	repo := repository.NewRepository(cfg, inmemoryCache, log)
	validator := goValidator.New()
	services := service.NewService(cfg, log, validator, repo, models)

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: validator,
		cache:     inmemoryCache,
		models:    models,
		services:  services,
	}, nil
}

func (d *AppDependency) Close() error {
	return d.log.Sync()
}
