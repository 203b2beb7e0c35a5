package dto

import "time"

// PredictionRequest asks for a single on-demand prediction.
type PredictionRequest struct {
	CurrencyPair string `json:"currency_pair" validate:"required"`
	Timeframe    string `json:"timeframe" validate:"required"`
	ModelType    string `json:"model_type" validate:"required"`
}

// Signal is the outcome of one model prediction at a decision point.
type Signal struct {
	PredictedPrice float64   `json:"predicted_price"`
	PriceChange    float64   `json:"price_change"`
	Direction      Direction `json:"predicted_direction"`
	Confidence     float64   `json:"confidence"`
	ModelType      string    `json:"model_type"`
	ModelVersion   string    `json:"model_version"`
	GeneratedAt    time.Time `json:"generated_at,omitempty"`
}

// ModelInfo describes a loaded prediction model.
type ModelInfo struct {
	ModelID     string `json:"model_id"`
	ModelType   string `json:"model_type"`
	Version     string `json:"version"`
	Description string `json:"description"`
	InputShape  []int  `json:"input_shape"`
}
