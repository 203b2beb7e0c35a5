package service

import (
	"context"
	"fmt"
	"time"

	goValidator "github.com/go-playground/validator/v10"

	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
	"forex-trading/internal/ml"
	"forex-trading/internal/repository"
	"forex-trading/pkg/logger"
	"forex-trading/pkg/utils"
)

// PredictionService produces single on-demand signals outside any
// backtest run.
type PredictionService interface {
	Predict(ctx context.Context, req dto.PredictionRequest) (*dto.Signal, error)
	ListModels() []dto.ModelInfo
}

type predictionService struct {
	log        *logger.Logger
	validator  *goValidator.Validate
	candleRepo repository.CandleRepository
	models     *ml.Manager
}

func NewPredictionService(
	log *logger.Logger,
	validator *goValidator.Validate,
	candleRepo repository.CandleRepository,
	models *ml.Manager,
) PredictionService {
	return &predictionService{
		log:        log,
		validator:  validator,
		candleRepo: candleRepo,
		models:     models,
	}
}

func (s *predictionService) Predict(ctx context.Context, req dto.PredictionRequest) (*dto.Signal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid prediction request: %w", err)
	}
	if !utils.ContainsString(dto.ValidPairs, req.CurrencyPair) {
		return nil, fmt.Errorf("unknown currency pair: %s", req.CurrencyPair)
	}
	minutes, ok := dto.TimeframeMinutes[req.Timeframe]
	if !ok {
		return nil, fmt.Errorf("unknown timeframe: %s", req.Timeframe)
	}

	if _, err := s.models.Get(req.ModelType); err != nil {
		return nil, err
	}

	builder := indicator.NewBuilder(nil, windowTimesteps)

	// Fetch just enough recent history to cover the warm-up plus the
	// window itself.
	required := builder.Warmup() + 1
	end := time.Now().UTC().Truncate(time.Duration(minutes) * time.Minute)
	start := end.Add(-time.Duration(required*minutes) * time.Minute)

	bars, err := s.candleRepo.Get(ctx, dto.GetBarsParam{
		Pair:      req.CurrencyPair,
		Timeframe: req.Timeframe,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("load bar history: %w", err)
	}
	if len(bars) < builder.Warmup() {
		return nil, &indicator.InsufficientDataError{Required: builder.Warmup(), Got: len(bars)}
	}

	window, err := builder.WindowAt(bars, len(bars)-1)
	if err != nil {
		return nil, err
	}

	signal, err := s.models.Predict(req.ModelType, window)
	if err != nil {
		return nil, err
	}
	signal.GeneratedAt = time.Now().UTC()

	s.log.DebugContext(ctx, "Generated prediction",
		logger.StringField("pair", req.CurrencyPair),
		logger.StringField("model_type", req.ModelType),
		logger.StringField("direction", string(signal.Direction)),
		logger.FloatField("confidence", signal.Confidence),
	)
	return signal, nil
}

func (s *predictionService) ListModels() []dto.ModelInfo {
	return s.models.List()
}
