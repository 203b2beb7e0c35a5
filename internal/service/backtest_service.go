package service

import (
	"context"
	"fmt"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"forex-trading/config"
	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
	"forex-trading/internal/metrics"
	"forex-trading/internal/ml"
	"forex-trading/internal/repository"
	"forex-trading/internal/simulator"
	"forex-trading/pkg/logger"
	"forex-trading/pkg/utils"
)

// windowTimesteps is the feature window length every model variant
// consumes, matching the 28x28 logical window the models were trained on.
const windowTimesteps = 28

// BacktestService runs trading simulations over historical bars.
type BacktestService interface {
	Run(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
	RunMany(ctx context.Context, reqs []dto.BacktestRequest) ([]*dto.BacktestResult, error)
}

type backtestService struct {
	cfg        *config.Config
	log        *logger.Logger
	validator  *goValidator.Validate
	candleRepo repository.CandleRepository
	models     *ml.Manager
}

func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	validator *goValidator.Validate,
	candleRepo repository.CandleRepository,
	models *ml.Manager,
) BacktestService {
	return &backtestService{
		cfg:        cfg,
		log:        log,
		validator:  validator,
		candleRepo: candleRepo,
		models:     models,
	}
}

// Run executes one backtest. Validation and model resolution fail fast
// before any replay starts; the replay itself only ends early for
// cancellation or bankruptcy, both of which still return the partial
// result flagged as truncated.
func (s *backtestService) Run(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	s.applyDefaults(&req)

	if err := s.validate(req); err != nil {
		return nil, err
	}

	predictor, err := s.models.Get(req.ModelType)
	if err != nil {
		return nil, err
	}

	bars, err := s.candleRepo.Get(ctx, dto.GetBarsParam{
		Pair:      req.CurrencyPair,
		Timeframe: req.Timeframe,
		Start:     req.StartDate,
		End:       req.EndDate,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load bar history", logger.ErrorField(err))
		return nil, fmt.Errorf("load bar history: %w", err)
	}

	sim := simulator.New(simulator.Config{
		Pair:                req.CurrencyPair,
		InitialBalance:      req.InitialBalance,
		Leverage:            req.Leverage,
		RiskFactor:          req.RiskFactor,
		SpreadPips:          req.SpreadPips,
		ConfidenceThreshold: req.ConfidenceThreshold,
		MaxOpenPositions:    req.MaxOpenPositions,
		TakeProfitATR:       s.cfg.Simulation.TakeProfitATR,
		StopLossATR:         s.cfg.Simulation.StopLossATR,
	}, indicator.NewBuilder(nil, windowTimesteps), predictor, s.log)

	runResult, err := sim.Run(ctx, bars)
	if err != nil {
		return nil, err
	}

	summary := metrics.Calculate(runResult.Trades, runResult.EquityCurve, dto.TimeframeMinutes[req.Timeframe])

	result := &dto.BacktestResult{
		BacktestID:      uuid.New().String(),
		Parameters:      req,
		FinalBalance:    runResult.FinalBalance,
		TotalTrades:     summary.TotalTrades,
		WinningTrades:   summary.WinningTrades,
		LosingTrades:    summary.LosingTrades,
		WinRate:         summary.WinRate,
		TotalProfitLoss: summary.TotalProfitLoss,
		MaxDrawdown:     summary.MaxDrawdown,
		SharpeRatio:     summary.SharpeRatio,
		Trades:          runResult.Trades,
		EquityCurve:     runResult.EquityCurve,
		InferenceErrors: runResult.InferenceErrors,
		Truncated:       runResult.Truncated,
		TruncationCause: runResult.TruncationCause,
		CompletedAt:     time.Now().UTC(),
	}

	s.log.InfoContext(ctx, "Backtest completed",
		logger.StringField("backtest_id", result.BacktestID),
		logger.StringField("pair", req.CurrencyPair),
		logger.StringField("model_type", req.ModelType),
		logger.IntField("total_trades", result.TotalTrades),
		logger.FloatField("final_balance", result.FinalBalance),
		logger.Field("truncated", result.Truncated),
	)
	return result, nil
}

// RunMany executes independent backtests in parallel, bounded by the
// configured runner concurrency. Runs share only read-only state (model
// weights, cached bar history), so no locking is involved.
func (s *backtestService) RunMany(ctx context.Context, reqs []dto.BacktestRequest) ([]*dto.BacktestResult, error) {
	results := make([]*dto.BacktestResult, len(reqs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Runner.MaxConcurrency)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			result, err := s.Run(gCtx, req)
			if err != nil {
				return fmt.Errorf("backtest %s/%s: %w", req.CurrencyPair, req.ModelType, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *backtestService) applyDefaults(req *dto.BacktestRequest) {
	sim := s.cfg.Simulation
	if req.InitialBalance == 0 {
		req.InitialBalance = sim.InitialBalance
	}
	if req.Leverage == 0 {
		req.Leverage = sim.Leverage
	}
	if req.RiskFactor == 0 {
		req.RiskFactor = sim.RiskFactor
	}
	if req.SpreadPips == 0 {
		req.SpreadPips = sim.SpreadPips
	}
	if req.ConfidenceThreshold == 0 {
		req.ConfidenceThreshold = sim.ConfidenceThreshold
	}
	if req.MaxOpenPositions == 0 {
		req.MaxOpenPositions = sim.MaxOpenPositions
	}
}

func (s *backtestService) validate(req dto.BacktestRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("invalid backtest request: %w", err)
	}
	if !utils.ContainsString(dto.ValidPairs, req.CurrencyPair) {
		return fmt.Errorf("unknown currency pair: %s", req.CurrencyPair)
	}
	if !utils.ContainsString(dto.ValidTimeframes, req.Timeframe) {
		return fmt.Errorf("unknown timeframe: %s", req.Timeframe)
	}
	return nil
}
