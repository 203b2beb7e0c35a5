package model

import "time"

// CloseReason explains why a position left the OPEN state.
type CloseReason string

const (
	CloseTakeProfit CloseReason = "TAKE_PROFIT"
	CloseStopLoss   CloseReason = "STOP_LOSS"
	CloseMarginCall CloseReason = "MARGIN_CALL"
	CloseEndOfRun   CloseReason = "END_OF_RUN"
)

// Trade is a closed position. Immutable once created.
type Trade struct {
	ID          string      `json:"id" csv:"id"`
	Pair        string      `json:"pair" csv:"pair"`
	Side        Side        `json:"side" csv:"side"`
	EntryPrice  float64     `json:"entry_price" csv:"entry_price"`
	ExitPrice   float64     `json:"exit_price" csv:"exit_price"`
	LotSize     float64     `json:"lot_size" csv:"lot_size"`
	Leverage    int         `json:"leverage" csv:"leverage"`
	StopLoss    float64     `json:"stop_loss,omitempty" csv:"stop_loss"`
	TakeProfit  float64     `json:"take_profit,omitempty" csv:"take_profit"`
	OpenedAt    time.Time   `json:"opened_at" csv:"opened_at"`
	ClosedAt    time.Time   `json:"closed_at" csv:"closed_at"`
	ProfitLoss  float64     `json:"profit_loss" csv:"profit_loss"`
	ProfitPips  float64     `json:"profit_pips" csv:"profit_pips"`
	CloseReason CloseReason `json:"close_reason" csv:"close_reason"`
}
