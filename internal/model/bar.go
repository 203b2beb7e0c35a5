package model

import "time"

// Bar is one OHLCV observation for a currency pair on a fixed timeframe.
// Bars are immutable once recorded and ordered by timestamp with no
// duplicate timestamps per (pair, timeframe).
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// EquityPoint records account value at one bar: realized balance plus
// unrealized P&L of any open position.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
	Equity    float64   `json:"equity"`
}
