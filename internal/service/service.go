package service

import (
	goValidator "github.com/go-playground/validator/v10"

	"forex-trading/config"
	"forex-trading/internal/ml"
	"forex-trading/internal/repository"
	"forex-trading/pkg/logger"
)

type Service struct {
	BacktestService   BacktestService
	PredictionService PredictionService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	validator *goValidator.Validate,
	repo *repository.Repository,
	models *ml.Manager,
) *Service {
	return &Service{
		BacktestService:   NewBacktestService(cfg, log, validator, repo.CandleRepo, models),
		PredictionService: NewPredictionService(log, validator, repo.CandleRepo, models),
	}
}
