package ml

import (
	"encoding/json"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// weightArtifact is the on-disk shape of a trained weight file, addressed
// by (model_type, version) under the configured model path.
type weightArtifact struct {
	Version string    `json:"version"`
	Weights []float64 `json:"weights"`
}

// loadWeights reads <PATH>/<TYPE>_weights.json. When the artifact is
// missing or the wrong size, it falls back to weights generated from a
// seed derived from (model_type, version), so a process without trained
// artifacts still predicts deterministically.
func loadWeights(modelPath, modelType, version string, n int) []float64 {
	name := filepath.Join(modelPath, strings.ToUpper(modelType)+"_weights.json")
	if raw, err := os.ReadFile(name); err == nil {
		var artifact weightArtifact
		if err := json.Unmarshal(raw, &artifact); err == nil && len(artifact.Weights) == n {
			return artifact.Weights
		}
	}
	return seededWeights(modelType, version, n)
}

func seededWeights(modelType, version string, n int) []float64 {
	h := fnv.New64a()
	h.Write([]byte(modelType + ":" + version))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = rng.NormFloat64() * 0.1
	}
	return weights
}
