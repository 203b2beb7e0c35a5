package ml

import (
	"sort"

	"forex-trading/config"
	"forex-trading/internal/dto"
	"forex-trading/internal/indicator"
	"forex-trading/pkg/logger"
)

// Manager holds the loaded prediction models. It is constructed once,
// read-only afterwards, and is shared safely by concurrent backtest runs.
type Manager struct {
	log    *logger.Logger
	models map[string]Predictor
}

// NewManager loads every model variant from the configured model path.
func NewManager(cfg config.Model, log *logger.Logger) *Manager {
	version := cfg.DefaultVersion
	if version == "" {
		version = "1.0.0"
	}

	models := map[string]Predictor{
		"cnn": NewGridModel(cfg.Path, version),
		"rnn": NewSequenceModel(cfg.Path, version),
		"tcn": NewDilatedModel(cfg.Path, version),
	}

	for name := range models {
		log.Info("Loaded prediction model",
			logger.StringField("model_type", name),
			logger.StringField("version", version),
		)
	}

	return &Manager{log: log, models: models}
}

// Get returns the predictor for the given model type.
func (m *Manager) Get(modelType string) (Predictor, error) {
	predictor, ok := m.models[modelType]
	if !ok {
		return nil, &InvalidModelTypeError{ModelType: modelType}
	}
	return predictor, nil
}

// List returns metadata for every loaded model, ordered by type.
func (m *Manager) List() []dto.ModelInfo {
	out := make([]dto.ModelInfo, 0, len(m.models))
	for _, predictor := range m.models {
		out = append(out, predictor.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelType < out[j].ModelType })
	return out
}

// Predict runs one prediction for the given model type over the window.
func (m *Manager) Predict(modelType string, window *indicator.Window) (*dto.Signal, error) {
	predictor, err := m.Get(modelType)
	if err != nil {
		return nil, err
	}
	return predictor.Predict(window)
}
