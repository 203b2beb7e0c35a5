// Package metrics derives summary statistics from a completed trade
// ledger and equity curve. Everything here is a pure function of its
// inputs.
package metrics

import (
	"math"

	"github.com/montanaflynn/stats"

	"forex-trading/internal/model"
)

// tradingDaysPerYear is the conventional annualization base.
const tradingDaysPerYear = 252

// Summary holds the derived performance statistics of one run.
type Summary struct {
	TotalTrades     int
	WinningTrades   int
	LosingTrades    int
	WinRate         float64
	TotalProfitLoss float64
	MaxDrawdown     float64
	// SharpeRatio is nil when fewer than two return periods exist or
	// the return stddev is zero.
	SharpeRatio *float64
}

// Calculate aggregates the ledger and equity curve. The timeframe sets
// the annualization factor for the Sharpe ratio.
func Calculate(trades []model.Trade, equityCurve []model.EquityPoint, timeframeMinutes int) Summary {
	summary := Summary{TotalTrades: len(trades)}

	for _, trade := range trades {
		summary.TotalProfitLoss += trade.ProfitLoss
		if trade.ProfitLoss > 0 {
			summary.WinningTrades++
		} else {
			summary.LosingTrades++
		}
	}
	if summary.TotalTrades > 0 {
		summary.WinRate = float64(summary.WinningTrades) / float64(summary.TotalTrades)
	}

	summary.MaxDrawdown = maxDrawdown(equityCurve)
	summary.SharpeRatio = sharpeRatio(equityCurve, timeframeMinutes)
	return summary
}

// maxDrawdown is the largest relative decline from a running equity
// peak, in [0, 1].
func maxDrawdown(equityCurve []model.EquityPoint) float64 {
	var peak, maxDD float64
	for _, point := range equityCurve {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak > 0 {
			dd := (peak - point.Equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpeRatio annualizes the mean/stddev of per-bar equity returns.
func sharpeRatio(equityCurve []model.EquityPoint, timeframeMinutes int) *float64 {
	if len(equityCurve) < 3 {
		return nil
	}

	returns := make([]float64, 0, len(equityCurve)-1)
	for i := 1; i < len(equityCurve); i++ {
		prev := equityCurve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (equityCurve[i].Equity-prev)/prev)
	}
	if len(returns) < 2 {
		return nil
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return nil
	}
	sd, err := stats.StandardDeviation(returns)
	if err != nil || sd == 0 {
		return nil
	}

	periodsPerYear := float64(tradingDaysPerYear) * barsPerDay(timeframeMinutes)
	sharpe := mean / sd * math.Sqrt(periodsPerYear)
	return &sharpe
}

func barsPerDay(timeframeMinutes int) float64 {
	if timeframeMinutes <= 0 {
		timeframeMinutes = 60
	}
	perDay := 1440.0 / float64(timeframeMinutes)
	if perDay < 1 {
		perDay = 1
	}
	return perDay
}
