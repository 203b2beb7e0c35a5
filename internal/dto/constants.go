package dto

// Direction is the predicted price direction of a signal.
type Direction string

const (
	DirectionUp      Direction = "UP"
	DirectionDown    Direction = "DOWN"
	DirectionNeutral Direction = "NEUTRAL"
)

// TruncationReason explains why a backtest returned a partial result.
type TruncationReason string

const (
	TruncationBankruptcy TruncationReason = "BANKRUPTCY"
	TruncationCancelled  TruncationReason = "CANCELLED"
)

// ValidPairs lists the currency pairs the synthetic data source knows about.
var ValidPairs = []string{
	"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCHF", "USDCAD",
	"NZDUSD", "EURGBP", "EURJPY", "GBPJPY", "AUDJPY",
}

// BasePrices anchors the synthetic price generator per pair.
var BasePrices = map[string]float64{
	"EURUSD": 1.0850, "GBPUSD": 1.2650, "USDJPY": 149.50,
	"AUDUSD": 0.6550, "USDCHF": 0.8750, "USDCAD": 1.3550,
	"NZDUSD": 0.6150, "EURGBP": 0.8550, "EURJPY": 162.25,
	"GBPJPY": 189.25, "AUDJPY": 97.85,
}

// TimeframeMinutes maps a timeframe code to its bar duration in minutes.
var TimeframeMinutes = map[string]int{
	"M1": 1, "M5": 5, "M15": 15, "M30": 30, "H1": 60, "H4": 240, "D1": 1440,
}

// ValidTimeframes lists supported timeframe codes.
var ValidTimeframes = []string{"M1", "M5", "M15", "M30", "H1", "H4", "D1"}
