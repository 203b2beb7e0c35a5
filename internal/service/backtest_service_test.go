package service

import (
	"context"
	"testing"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-trading/config"
	"forex-trading/internal/dto"
	"forex-trading/internal/ml"
	"forex-trading/internal/repository"
	"forex-trading/pkg/cache"
	"forex-trading/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Model: config.Model{
			Path:           t.TempDir(),
			DefaultType:    "cnn",
			DefaultVersion: "1.0.0",
		},
		Simulation: config.Simulation{
			InitialBalance:      10000,
			Leverage:            100,
			RiskFactor:          1.0,
			SpreadPips:          2.0,
			ConfidenceThreshold: 0.6,
			MaxOpenPositions:    1,
			TakeProfitATR:       2.0,
			StopLossATR:         1.5,
		},
		Runner: config.Runner{MaxConcurrency: 2},
		Cache:  config.Cache{DefaultExpiration: time.Minute, CleanupInterval: time.Minute},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := testConfig(t)
	log := logger.NewNop()
	inmemoryCache := cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval)
	models := ml.NewManager(cfg.Model, log)
	repo := repository.NewRepository(cfg, inmemoryCache, log)
	return NewService(cfg, log, goValidator.New(), repo, models)
}

func testRequest(pair, modelType string) dto.BacktestRequest {
	return dto.BacktestRequest{
		CurrencyPair: pair,
		Timeframe:    "H1",
		ModelType:    modelType,
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBacktestRun_Deterministic(t *testing.T) {
	svc := newTestService(t)
	req := testRequest("EURUSD", "cnn")

	first, err := svc.BacktestService.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.BacktestService.Run(context.Background(), req)
	require.NoError(t, err)

	// Identical requests reproduce the run bit for bit; only the run
	// identity and completion time differ.
	assert.Equal(t, first.Trades, second.Trades)
	assert.Equal(t, first.EquityCurve, second.EquityCurve)
	assert.Equal(t, first.FinalBalance, second.FinalBalance)
	assert.Equal(t, first.TotalTrades, second.TotalTrades)
	assert.Equal(t, first.WinRate, second.WinRate)
	assert.NotEqual(t, first.BacktestID, second.BacktestID)
}

func TestBacktestRun_LedgerReconciles(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.BacktestService.Run(context.Background(), testRequest("EURUSD", "cnn"))
	require.NoError(t, err)

	var totalPL float64
	for _, trade := range result.Trades {
		totalPL += trade.ProfitLoss
	}
	assert.InDelta(t, result.Parameters.InitialBalance+totalPL, result.FinalBalance, 1e-6)
	assert.InDelta(t, totalPL, result.TotalProfitLoss, 1e-6)
	assert.Equal(t, result.TotalTrades, result.WinningTrades+result.LosingTrades)
	assert.NotEmpty(t, result.EquityCurve)
	assert.NotEmpty(t, result.BacktestID)
	assert.False(t, result.CompletedAt.IsZero())
}

func TestBacktestRun_AppliesConfigDefaults(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.BacktestService.Run(context.Background(), testRequest("EURUSD", "cnn"))
	require.NoError(t, err)

	assert.Equal(t, 10000.0, result.Parameters.InitialBalance)
	assert.Equal(t, 100, result.Parameters.Leverage)
	assert.Equal(t, 1.0, result.Parameters.RiskFactor)
	assert.Equal(t, 1, result.Parameters.MaxOpenPositions)
}

func TestBacktestRun_Validation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		mutate  func(req *dto.BacktestRequest)
		wantErr string
	}{
		{
			name:    "unknown pair",
			mutate:  func(req *dto.BacktestRequest) { req.CurrencyPair = "XXXYYY" },
			wantErr: "unknown currency pair",
		},
		{
			name:    "unknown timeframe",
			mutate:  func(req *dto.BacktestRequest) { req.Timeframe = "H2" },
			wantErr: "unknown timeframe",
		},
		{
			name: "end before start",
			mutate: func(req *dto.BacktestRequest) {
				req.EndDate = req.StartDate.AddDate(0, 0, -1)
			},
			wantErr: "invalid backtest request",
		},
		{
			name:    "excessive leverage",
			mutate:  func(req *dto.BacktestRequest) { req.Leverage = 1000 },
			wantErr: "invalid backtest request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest("EURUSD", "cnn")
			tt.mutate(&req)
			_, err := svc.BacktestService.Run(context.Background(), req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBacktestRun_UnknownModelFailsFast(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.BacktestService.Run(context.Background(), testRequest("EURUSD", "lstm"))
	var invalid *ml.InvalidModelTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "lstm", invalid.ModelType)
}

func TestBacktestRunMany(t *testing.T) {
	svc := newTestService(t)
	reqs := []dto.BacktestRequest{
		testRequest("EURUSD", "cnn"),
		testRequest("GBPUSD", "rnn"),
	}

	results, err := svc.BacktestService.RunMany(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Results keep request order regardless of completion order.
	assert.Equal(t, "EURUSD", results[0].Parameters.CurrencyPair)
	assert.Equal(t, "cnn", results[0].Parameters.ModelType)
	assert.Equal(t, "GBPUSD", results[1].Parameters.CurrencyPair)
	assert.Equal(t, "rnn", results[1].Parameters.ModelType)
}

func TestBacktestRunMany_FailsOnInvalidRequest(t *testing.T) {
	svc := newTestService(t)
	reqs := []dto.BacktestRequest{
		testRequest("EURUSD", "cnn"),
		testRequest("EURUSD", "nope"),
	}

	_, err := svc.BacktestService.RunMany(context.Background(), reqs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model type")
}

func TestPrediction_ListModels(t *testing.T) {
	svc := newTestService(t)

	infos := svc.PredictionService.ListModels()
	require.Len(t, infos, 3)
	assert.Equal(t, "cnn", infos[0].ModelType)
}

func TestPrediction_Validation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		req  dto.PredictionRequest
	}{
		{"unknown pair", dto.PredictionRequest{CurrencyPair: "ABCDEF", Timeframe: "H1", ModelType: "cnn"}},
		{"unknown timeframe", dto.PredictionRequest{CurrencyPair: "EURUSD", Timeframe: "H7", ModelType: "cnn"}},
		{"unknown model", dto.PredictionRequest{CurrencyPair: "EURUSD", Timeframe: "H1", ModelType: "gru"}},
		{"missing fields", dto.PredictionRequest{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PredictionService.Predict(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestPrediction_GeneratesSignal(t *testing.T) {
	svc := newTestService(t)

	signal, err := svc.PredictionService.Predict(context.Background(), dto.PredictionRequest{
		CurrencyPair: "EURUSD",
		Timeframe:    "H1",
		ModelType:    "tcn",
	})
	require.NoError(t, err)

	assert.Equal(t, "tcn", signal.ModelType)
	assert.Greater(t, signal.PredictedPrice, 0.0)
	assert.GreaterOrEqual(t, signal.Confidence, 0.5)
	assert.False(t, signal.GeneratedAt.IsZero())
}
