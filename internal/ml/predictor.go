// Package ml provides the prediction contract consumed by the trading
// simulator, with three interchangeable model variants distinguished only
// by how they reshape the same logical feature window. Once loaded, every
// variant is read-only: predictions are pure functions of the input
// window, safe for concurrent use across backtest runs.
package ml

import (
	"math"

	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
)

// Decision thresholds shared by all variants: a predicted relative change
// within ±changeThreshold is NEUTRAL.
const changeThreshold = 0.001

// Predictor is the single prediction contract. Implementations validate
// the window shape and return an InferenceError on mismatch.
type Predictor interface {
	Predict(window *indicator.Window) (*dto.Signal, error)
	InputShape() []int
	Info() dto.ModelInfo
}

// normalize scales values to the 0-1 range of the window, returning the
// scaled copy plus the min and span needed to map predictions back.
func normalize(values []float64) (scaled []float64, min, span float64) {
	min = math.Inf(1)
	max := math.Inf(-1)
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	span = max - min
	scaled = make([]float64, len(values))
	if span <= 0 {
		copy(scaled, values)
		return scaled, min, 0
	}
	for i, v := range values {
		scaled[i] = (v - min) / span
	}
	return scaled, min, span
}

// denormalize maps a 0-1 prediction back to the window's price scale.
func denormalize(prediction, min, span float64) float64 {
	if span <= 0 {
		return prediction
	}
	return prediction*span + min
}

// buildSignal converts a predicted price into a Signal relative to the
// window's last close.
func buildSignal(predicted, lastClose float64, confidence float64, info dto.ModelInfo) *dto.Signal {
	change := 0.0
	if lastClose != 0 {
		change = (predicted - lastClose) / lastClose
	}

	direction := dto.DirectionNeutral
	if change > changeThreshold {
		direction = dto.DirectionUp
	} else if change < -changeThreshold {
		direction = dto.DirectionDown
	}

	return &dto.Signal{
		PredictedPrice: predicted,
		PriceChange:    change,
		Direction:      direction,
		Confidence:     confidence,
		ModelType:      info.ModelType,
		ModelVersion:   info.Version,
	}
}

// confidenceFrom derives a deterministic confidence in [0.5, 0.95] from
// the magnitude of the predicted relative change: stronger moves read as
// more decisive, capped well below certainty.
func confidenceFrom(predicted, lastClose float64) float64 {
	change := 0.0
	if lastClose != 0 {
		change = math.Abs((predicted - lastClose) / lastClose)
	}
	confidence := 0.5 + change*100
	return math.Min(0.95, math.Max(0.5, confidence))
}
