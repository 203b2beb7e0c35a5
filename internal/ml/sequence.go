package ml

import (
	"fmt"
	"math"

	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
)

const (
	seqTimesteps = 28
	seqFeatures  = 28
)

// SequenceModel consumes the feature window as a temporal sequence of 28
// timesteps with 28 features each, weighting recent timesteps more
// heavily and folding in short-term momentum. The recurrent variant of
// the prediction contract.
type SequenceModel struct {
	version string
	weights []float64 // per-timestep gain, then trend/momentum/bias terms
}

func NewSequenceModel(modelPath, version string) *SequenceModel {
	return &SequenceModel{
		version: version,
		weights: loadWeights(modelPath, "rnn", version, seqTimesteps+3),
	}
}

func (m *SequenceModel) InputShape() []int {
	return []int{seqTimesteps, seqFeatures}
}

func (m *SequenceModel) Info() dto.ModelInfo {
	return dto.ModelInfo{
		ModelID:     "rnn",
		ModelType:   "rnn",
		Version:     m.version,
		Description: "Recurrent model over a sequence of indicator timesteps",
		InputShape:  m.InputShape(),
	}
}

func (m *SequenceModel) Predict(window *indicator.Window) (*dto.Signal, error) {
	if window == nil || window.Timesteps != seqTimesteps || window.Features != seqFeatures {
		got := "nil"
		if window != nil {
			got = fmt.Sprintf("%dx%d", window.Timesteps, window.Features)
		}
		return nil, &InferenceError{
			ModelType: "rnn",
			Reason:    fmt.Sprintf("expected %d timesteps x %d features, got %s", seqTimesteps, seqFeatures, got),
		}
	}

	scaled, _, _ := normalize(window.Flatten())

	// Per-timestep means of the scaled features, exponentially weighted
	// toward the most recent bars.
	rowMeans := make([]float64, seqTimesteps)
	for t := 0; t < seqTimesteps; t++ {
		var sum float64
		for f := 0; f < seqFeatures; f++ {
			sum += scaled[t*seqFeatures+f]
		}
		rowMeans[t] = sum / float64(seqFeatures)
	}

	var weighted, totalWeight float64
	for t := 0; t < seqTimesteps; t++ {
		decay := math.Exp(float64(t-seqTimesteps+1) / float64(seqTimesteps))
		gain := 1 + m.weights[t]
		weighted += rowMeans[t] * decay * gain
		totalWeight += decay * gain
	}
	if totalWeight != 0 {
		weighted /= totalWeight
	}

	momentum := (rowMeans[seqTimesteps-1] - rowMeans[seqTimesteps-5]) / 5

	trendW := m.weights[seqTimesteps]
	momentumW := m.weights[seqTimesteps+1]
	bias := m.weights[seqTimesteps+2]
	score := math.Tanh((weighted-0.5)*2*(1+trendW) + momentum*float64(seqTimesteps)*(1+momentumW) + bias)

	predicted := window.LastClose * (1 + score*0.005)
	confidence := confidenceFrom(predicted, window.LastClose)
	return buildSignal(predicted, window.LastClose, confidence, m.Info()), nil
}
