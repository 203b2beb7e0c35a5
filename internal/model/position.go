package model

import "time"

// PositionStatus is the lifecycle state of a position. Terminal states
// (CLOSED, CANCELLED) never transition further.
type PositionStatus string

const (
	PositionPending   PositionStatus = "PENDING"
	PositionOpen      PositionStatus = "OPEN"
	PositionClosed    PositionStatus = "CLOSED"
	PositionCancelled PositionStatus = "CANCELLED"
)

// Side is the direction of a position.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// DirectionSign returns +1 for BUY and -1 for SELL.
func (s Side) DirectionSign() float64 {
	if s == SideSell {
		return -1
	}
	return 1
}

// Position is an open trade owned exclusively by the simulator during its
// open lifetime.
type Position struct {
	ID         string         `json:"id"`
	Pair       string         `json:"pair"`
	Side       Side           `json:"side"`
	Status     PositionStatus `json:"status"`
	EntryPrice float64        `json:"entry_price"`
	LotSize    float64        `json:"lot_size"`
	Leverage   int            `json:"leverage"`
	StopLoss   float64        `json:"stop_loss,omitempty"`
	TakeProfit float64        `json:"take_profit,omitempty"`
	OpenedAt   time.Time      `json:"opened_at"`
}

// RequiredMargin returns the margin locked by this position.
func (p *Position) RequiredMargin() float64 {
	return p.LotSize * p.EntryPrice / float64(p.Leverage)
}

// UnrealizedPL returns the floating profit or loss at the given price.
func (p *Position) UnrealizedPL(price float64) float64 {
	return (price - p.EntryPrice) * p.LotSize * p.Side.DirectionSign()
}
