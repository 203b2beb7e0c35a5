package dto

import "time"

// GetBarsParam selects a span of bar history for one pair and timeframe.
type GetBarsParam struct {
	Pair      string    `json:"pair"`
	Timeframe string    `json:"timeframe"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}
