package ml

import (
	"fmt"
	"math"

	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
)

const dilatedLength = 784 // 28 timesteps x 28 features, flattened

var dilations = []int{1, 2, 4, 8, 16, 32, 64}

// DilatedModel consumes the feature window as one flattened 784-vector,
// measuring change at exponentially growing dilations. The temporal
// convolutional variant of the prediction contract.
type DilatedModel struct {
	version string
	weights []float64 // one per dilation level, plus bias
}

func NewDilatedModel(modelPath, version string) *DilatedModel {
	return &DilatedModel{
		version: version,
		weights: loadWeights(modelPath, "tcn", version, len(dilations)+1),
	}
}

func (m *DilatedModel) InputShape() []int {
	return []int{dilatedLength, 1}
}

func (m *DilatedModel) Info() dto.ModelInfo {
	return dto.ModelInfo{
		ModelID:     "tcn",
		ModelType:   "tcn",
		Version:     m.version,
		Description: "Dilated convolutional model over the flattened feature vector",
		InputShape:  m.InputShape(),
	}
}

func (m *DilatedModel) Predict(window *indicator.Window) (*dto.Signal, error) {
	if window == nil || window.Timesteps*window.Features != dilatedLength {
		got := "nil"
		if window != nil {
			got = fmt.Sprintf("%d", window.Timesteps*window.Features)
		}
		return nil, &InferenceError{
			ModelType: "tcn",
			Reason:    fmt.Sprintf("expected flattened length %d, got %s", dilatedLength, got),
		}
	}

	scaled, _, _ := normalize(window.Flatten())

	// Average forward difference at each dilation level captures drift
	// at that horizon; the weights blend the horizons.
	score := m.weights[len(m.weights)-1] // bias
	for level, d := range dilations {
		var sum float64
		var count int
		for i := d; i < len(scaled); i++ {
			sum += scaled[i] - scaled[i-d]
			count++
		}
		if count > 0 {
			score += m.weights[level] * (sum / float64(count)) * float64(d)
		}
	}

	predicted := window.LastClose * (1 + math.Tanh(score)*0.005)
	confidence := confidenceFrom(predicted, window.LastClose)
	return buildSignal(predicted, window.LastClose, confidence, m.Info()), nil
}
