package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-trading/internal/model"
)

func equityCurveOf(values ...float64) []model.EquityPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := make([]model.EquityPoint, len(values))
	for i, v := range values {
		curve[i] = model.EquityPoint{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Balance:   v,
			Equity:    v,
		}
	}
	return curve
}

func tradesOf(profits ...float64) []model.Trade {
	trades := make([]model.Trade, len(profits))
	for i, p := range profits {
		trades[i] = model.Trade{ProfitLoss: p}
	}
	return trades
}

func TestCalculate_EmptyRun(t *testing.T) {
	summary := Calculate(nil, nil, 60)

	assert.Equal(t, 0, summary.TotalTrades)
	assert.Equal(t, 0.0, summary.WinRate)
	assert.Equal(t, 0.0, summary.TotalProfitLoss)
	assert.Equal(t, 0.0, summary.MaxDrawdown)
	assert.Nil(t, summary.SharpeRatio)
}

func TestCalculate_TradeCounts(t *testing.T) {
	tests := []struct {
		name        string
		profits     []float64
		wantWinning int
		wantLosing  int
		wantWinRate float64
		wantTotal   float64
	}{
		{
			name:        "mixed results",
			profits:     []float64{10, -5, 5},
			wantWinning: 2,
			wantLosing:  1,
			wantWinRate: 2.0 / 3.0,
			wantTotal:   10,
		},
		{
			name:        "all winning",
			profits:     []float64{1, 2, 3},
			wantWinning: 3,
			wantLosing:  0,
			wantWinRate: 1.0,
			wantTotal:   6,
		},
		{
			name:        "all losing",
			profits:     []float64{-1, -2},
			wantWinning: 0,
			wantLosing:  2,
			wantWinRate: 0.0,
			wantTotal:   -3,
		},
		{
			name:        "break-even counts as a loss",
			profits:     []float64{0},
			wantWinning: 0,
			wantLosing:  1,
			wantWinRate: 0.0,
			wantTotal:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Calculate(tradesOf(tt.profits...), nil, 60)
			assert.Equal(t, len(tt.profits), summary.TotalTrades)
			assert.Equal(t, tt.wantWinning, summary.WinningTrades)
			assert.Equal(t, tt.wantLosing, summary.LosingTrades)
			assert.InDelta(t, tt.wantWinRate, summary.WinRate, 1e-9)
			assert.InDelta(t, tt.wantTotal, summary.TotalProfitLoss, 1e-9)
		})
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		equity []float64
		want   float64
	}{
		{"monotone rise has no drawdown", []float64{100, 110, 120}, 0},
		{"single dip", []float64{100, 110, 99, 121, 110}, 11.0 / 110.0},
		{"full wipeout", []float64{100, 0}, 1.0},
		{"empty curve", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maxDrawdown(equityCurveOf(tt.equity...))
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestSharpeRatio_UndefinedCases(t *testing.T) {
	tests := []struct {
		name   string
		equity []float64
	}{
		{"too few points", []float64{100, 110}},
		{"flat equity has zero variance", []float64{100, 100, 100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, sharpeRatio(equityCurveOf(tt.equity...), 60))
		})
	}
}

func TestSharpeRatio_Sign(t *testing.T) {
	rising := sharpeRatio(equityCurveOf(100, 110, 105, 120, 118, 130), 60)
	require.NotNil(t, rising)
	assert.Greater(t, *rising, 0.0)

	falling := sharpeRatio(equityCurveOf(100, 95, 97, 90, 91, 85), 60)
	require.NotNil(t, falling)
	assert.Less(t, *falling, 0.0)
}

func TestSharpeRatio_AnnualizationScalesWithTimeframe(t *testing.T) {
	curve := equityCurveOf(100, 110, 105, 120, 118, 130)

	hourly := sharpeRatio(curve, 60)
	daily := sharpeRatio(curve, 1440)
	require.NotNil(t, hourly)
	require.NotNil(t, daily)

	// Same per-bar returns, more periods per year for the faster
	// timeframe, so the annualized ratio is larger.
	assert.Greater(t, *hourly, *daily)
}

func TestCalculate_DrawdownAndSharpeWired(t *testing.T) {
	curve := equityCurveOf(100, 110, 99, 121, 110)
	summary := Calculate(nil, curve, 60)

	assert.InDelta(t, 11.0/110.0, summary.MaxDrawdown, 1e-9)
	assert.NotNil(t, summary.SharpeRatio)
}
