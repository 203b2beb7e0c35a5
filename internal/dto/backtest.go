package dto

import (
	"time"

	"forex-trading/internal/model"
)

// BacktestRequest defines the parameters for running a backtest.
type BacktestRequest struct {
	CurrencyPair        string    `json:"currency_pair" validate:"required"`
	Timeframe           string    `json:"timeframe" validate:"required"`
	ModelType           string    `json:"model_type" validate:"required"`
	StartDate           time.Time `json:"start_date" validate:"required"`
	EndDate             time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	InitialBalance      float64   `json:"initial_balance" validate:"gt=0"`
	Leverage            int       `json:"leverage" validate:"min=1,max=500"`
	RiskFactor          float64   `json:"risk_factor" validate:"gt=0,lte=1"`
	SpreadPips          float64   `json:"spread_pips" validate:"gte=0"`
	ConfidenceThreshold float64   `json:"confidence_threshold" validate:"gte=0,lt=1"`
	MaxOpenPositions    int       `json:"max_open_positions" validate:"min=1"`
}

// BacktestResult summarizes one completed (or truncated) backtest run.
type BacktestResult struct {
	BacktestID      string              `json:"backtest_id"`
	Parameters      BacktestRequest     `json:"parameters"`
	FinalBalance    float64             `json:"final_balance"`
	TotalTrades     int                 `json:"total_trades"`
	WinningTrades   int                 `json:"winning_trades"`
	LosingTrades    int                 `json:"losing_trades"`
	WinRate         float64             `json:"win_rate"`
	TotalProfitLoss float64             `json:"total_profit_loss"`
	MaxDrawdown     float64             `json:"max_drawdown"`
	SharpeRatio     *float64            `json:"sharpe_ratio"`
	Trades          []model.Trade       `json:"trades"`
	EquityCurve     []model.EquityPoint `json:"equity_curve"`
	InferenceErrors int                 `json:"inference_errors"`
	Truncated       bool                `json:"truncated"`
	TruncationCause TruncationReason    `json:"truncation_cause,omitempty"`
	CompletedAt     time.Time           `json:"completed_at"`
}
