package ml

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-trading/config"
	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
	"forex-trading/pkg/logger"
)

// testWindow builds a deterministic 28x28 feature window around the
// given last close.
func testWindow(lastClose float64) *indicator.Window {
	window := &indicator.Window{
		Timesteps: 28,
		Features:  28,
		Data:      make([][]float64, 28),
		LastClose: lastClose,
	}
	for t := 0; t < 28; t++ {
		row := make([]float64, 28)
		for f := 0; f < 28; f++ {
			row[f] = lastClose + 0.01*math.Sin(float64(t*28+f)*0.17)
		}
		window.Data[t] = row
	}
	return window
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := config.Model{Path: t.TempDir(), DefaultVersion: "1.0.0"}
	return NewManager(cfg, logger.NewNop())
}

func TestManager_Get(t *testing.T) {
	m := newTestManager(t)

	for _, modelType := range []string{"cnn", "rnn", "tcn"} {
		predictor, err := m.Get(modelType)
		require.NoError(t, err, modelType)
		assert.Equal(t, modelType, predictor.Info().ModelType)
	}

	_, err := m.Get("xgboost")
	var invalid *InvalidModelTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "xgboost", invalid.ModelType)
}

func TestManager_List(t *testing.T) {
	m := newTestManager(t)

	infos := m.List()
	require.Len(t, infos, 3)
	assert.Equal(t, "cnn", infos[0].ModelType)
	assert.Equal(t, "rnn", infos[1].ModelType)
	assert.Equal(t, "tcn", infos[2].ModelType)
	for _, info := range infos {
		assert.Equal(t, "1.0.0", info.Version)
		assert.NotEmpty(t, info.InputShape)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	m := newTestManager(t)
	window := testWindow(1.0850)

	for _, modelType := range []string{"cnn", "rnn", "tcn"} {
		t.Run(modelType, func(t *testing.T) {
			first, err := m.Predict(modelType, window)
			require.NoError(t, err)
			second, err := m.Predict(modelType, window)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestPredict_SignalInvariants(t *testing.T) {
	m := newTestManager(t)
	window := testWindow(1.0850)

	for _, modelType := range []string{"cnn", "rnn", "tcn"} {
		t.Run(modelType, func(t *testing.T) {
			signal, err := m.Predict(modelType, window)
			require.NoError(t, err)

			assert.Greater(t, signal.PredictedPrice, 0.0)
			assert.GreaterOrEqual(t, signal.Confidence, 0.5)
			assert.LessOrEqual(t, signal.Confidence, 0.95)
			assert.Equal(t, modelType, signal.ModelType)

			switch signal.Direction {
			case dto.DirectionUp:
				assert.Greater(t, signal.PriceChange, changeThreshold)
			case dto.DirectionDown:
				assert.Less(t, signal.PriceChange, -changeThreshold)
			case dto.DirectionNeutral:
				assert.LessOrEqual(t, math.Abs(signal.PriceChange), changeThreshold)
			default:
				t.Fatalf("unexpected direction %q", signal.Direction)
			}
		})
	}
}

func TestPredict_ShapeMismatch(t *testing.T) {
	m := newTestManager(t)

	bad := &indicator.Window{
		Timesteps: 10,
		Features:  10,
		Data:      make([][]float64, 10),
		LastClose: 1.0,
	}
	for i := range bad.Data {
		bad.Data[i] = make([]float64, 10)
	}

	for _, modelType := range []string{"cnn", "rnn", "tcn"} {
		t.Run(modelType, func(t *testing.T) {
			_, err := m.Predict(modelType, bad)
			var inference *InferenceError
			require.ErrorAs(t, err, &inference)
			assert.Equal(t, modelType, inference.ModelType)
		})
	}
}

func TestPredict_NilWindow(t *testing.T) {
	m := newTestManager(t)

	for _, modelType := range []string{"cnn", "rnn", "tcn"} {
		_, err := m.Predict(modelType, nil)
		var inference *InferenceError
		assert.ErrorAs(t, err, &inference, modelType)
	}
}

func TestBuildSignal_DirectionThresholds(t *testing.T) {
	info := dto.ModelInfo{ModelType: "cnn", Version: "1.0.0"}

	tests := []struct {
		name      string
		predicted float64
		want      dto.Direction
	}{
		{"strong rise", 1.0 * 1.002, dto.DirectionUp},
		{"strong fall", 1.0 * 0.998, dto.DirectionDown},
		{"inside the dead band", 1.0 * 1.0005, dto.DirectionNeutral},
		{"no move", 1.0, dto.DirectionNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := buildSignal(tt.predicted, 1.0, 0.7, info)
			assert.Equal(t, tt.want, signal.Direction)
		})
	}
}

func TestConfidenceFrom_Bounds(t *testing.T) {
	// No move floors at 0.5, a huge move caps at 0.95.
	assert.Equal(t, 0.5, confidenceFrom(1.0, 1.0))
	assert.Equal(t, 0.95, confidenceFrom(1.1, 1.0))
	assert.InDelta(t, 0.7, confidenceFrom(1.002, 1.0), 1e-9)
}

func TestLoadWeights_SeededFallback(t *testing.T) {
	dir := t.TempDir()

	first := loadWeights(dir, "cnn", "1.0.0", 50)
	second := loadWeights(dir, "cnn", "1.0.0", 50)
	require.Len(t, first, 50)
	assert.Equal(t, first, second)

	// A different version seeds different weights.
	other := loadWeights(dir, "cnn", "2.0.0", 50)
	assert.NotEqual(t, first, other)
}

func TestLoadWeights_Artifact(t *testing.T) {
	dir := t.TempDir()

	weights := make([]float64, 50)
	for i := range weights {
		weights[i] = float64(i) * 0.01
	}
	raw, err := json.Marshal(weightArtifact{Version: "1.0.0", Weights: weights})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CNN_weights.json"), raw, 0o644))

	loaded := loadWeights(dir, "cnn", "1.0.0", 50)
	assert.Equal(t, weights, loaded)

	// An artifact of the wrong size falls back to seeded weights.
	mismatched := loadWeights(dir, "cnn", "1.0.0", 10)
	assert.Len(t, mismatched, 10)
}

func TestNormalizeDenormalize(t *testing.T) {
	values := []float64{1.0, 1.5, 2.0, 3.0}
	scaled, min, span := normalize(values)

	assert.Equal(t, 1.0, min)
	assert.Equal(t, 2.0, span)
	assert.Equal(t, 0.0, scaled[0])
	assert.Equal(t, 1.0, scaled[3])

	for i, v := range values {
		assert.InDelta(t, v, denormalize(scaled[i], min, span), 1e-12)
	}

	// A flat window has zero span and passes through unchanged.
	flat, _, span := normalize([]float64{2.0, 2.0, 2.0})
	assert.Equal(t, 0.0, span)
	assert.Equal(t, []float64{2.0, 2.0, 2.0}, flat)
}
