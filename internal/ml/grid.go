package ml

import (
	"fmt"
	"math"

	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
)

const (
	gridSide      = 28
	gridPatch     = 4
	gridPatchRows = gridSide / gridPatch
)

// GridModel consumes the feature window as a 28x28x1 grid, pooling 4x4
// patches and scoring them with a trained kernel. The convolutional
// variant of the prediction contract.
type GridModel struct {
	version string
	weights []float64 // one per patch, plus bias
}

func NewGridModel(modelPath, version string) *GridModel {
	n := gridPatchRows*gridPatchRows + 1
	return &GridModel{
		version: version,
		weights: loadWeights(modelPath, "cnn", version, n),
	}
}

func (m *GridModel) InputShape() []int {
	return []int{gridSide, gridSide, 1}
}

func (m *GridModel) Info() dto.ModelInfo {
	return dto.ModelInfo{
		ModelID:     "cnn",
		ModelType:   "cnn",
		Version:     m.version,
		Description: "Convolutional model over a 28x28 indicator grid",
		InputShape:  m.InputShape(),
	}
}

func (m *GridModel) Predict(window *indicator.Window) (*dto.Signal, error) {
	if window == nil || window.Timesteps != gridSide || window.Features != gridSide {
		got := "nil"
		if window != nil {
			got = fmt.Sprintf("%dx%d", window.Timesteps, window.Features)
		}
		return nil, &InferenceError{
			ModelType: "cnn",
			Reason:    fmt.Sprintf("expected %dx%d window, got %s", gridSide, gridSide, got),
		}
	}

	scaled, _, _ := normalize(window.Flatten())

	// Mean-pool each 4x4 patch, then score the patch means with the
	// kernel weights.
	score := m.weights[len(m.weights)-1] // bias
	for pr := 0; pr < gridPatchRows; pr++ {
		for pc := 0; pc < gridPatchRows; pc++ {
			var sum float64
			for r := 0; r < gridPatch; r++ {
				for c := 0; c < gridPatch; c++ {
					row := pr*gridPatch + r
					col := pc*gridPatch + c
					sum += scaled[row*gridSide+col]
				}
			}
			patchMean := sum / float64(gridPatch*gridPatch)
			score += m.weights[pr*gridPatchRows+pc] * (patchMean - 0.5)
		}
	}

	predicted := window.LastClose * (1 + math.Tanh(score)*0.005)
	confidence := confidenceFrom(predicted, window.LastClose)
	return buildSignal(predicted, window.LastClose, confidence, m.Info()), nil
}
