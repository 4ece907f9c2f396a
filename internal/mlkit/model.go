package mlkit

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Model pairs a trained forest with its feature scaler. A Model is immutable
// after training; concurrent Predict calls are safe.
type Model struct {
	FeatureNames []string
	Scaler       *Scaler
	Forests      []*Forest
	TrainedAt    time.Time
}

// Train fits the scaler and each configured forest on the rows. Passing more
// than one config produces an averaging ensemble over the member forests.
func Train(featureNames []string, rows [][]float64, targets []float64, configs ...ForestConfig) (*Model, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("train: no forest configs")
	}
	scaler, err := FitScaler(rows)
	if err != nil {
		return nil, err
	}
	scaled, err := scaler.TransformAll(rows)
	if err != nil {
		return nil, err
	}

	forests := make([]*Forest, 0, len(configs))
	for _, cfg := range configs {
		forest, err := FitForest(scaled, targets, cfg)
		if err != nil {
			return nil, err
		}
		forests = append(forests, forest)
	}

	return &Model{
		FeatureNames: featureNames,
		Scaler:       scaler,
		Forests:      forests,
		TrainedAt:    time.Now().UTC(),
	}, nil
}

// Predict scales the raw feature vector and averages the member forests.
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != len(m.FeatureNames) {
		return 0, fmt.Errorf("predict: got %d features, want %d", len(features), len(m.FeatureNames))
	}
	scaled, err := m.Scaler.Transform(features)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, f := range m.Forests {
		sum += f.Predict(scaled)
	}
	return sum / float64(len(m.Forests)), nil
}

// Save writes the model atomically: encode to a temp file in the target
// directory, then rename. A reader never observes a partial artifact.
func (m *Model) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(m); err != nil {
		tmp.Close()
		return fmt.Errorf("save model: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// Load reads a persisted model and validates its shape.
func Load(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	defer file.Close()

	var m Model
	if err := gob.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("load model: decode: %w", err)
	}
	if m.Scaler == nil || len(m.Forests) == 0 || len(m.FeatureNames) == 0 {
		return nil, fmt.Errorf("load model: artifact is incomplete")
	}
	if len(m.Scaler.Mean) != len(m.FeatureNames) {
		return nil, fmt.Errorf("load model: scaler shape %d does not match %d features",
			len(m.Scaler.Mean), len(m.FeatureNames))
	}
	return &m, nil
}
