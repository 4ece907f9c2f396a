// Package mlkit provides the small machine-learning toolkit used by the
// scoring engine: feature standardization, a CART regression tree, a
// bootstrap-aggregated forest regressor, and gob persistence for trained
// artifacts. It has no dependencies outside the standard library so trained
// models stay portable across deployments.
package mlkit

import (
	"fmt"
	"math"
)

// Scaler standardizes features to zero mean and unit variance, mirroring the
// scaler the models were designed against. Fields are exported for gob.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-feature mean and standard deviation from the rows.
func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("fit scaler: no rows")
	}
	dims := len(rows[0])
	mean := make([]float64, dims)
	std := make([]float64, dims)

	for _, row := range rows {
		if len(row) != dims {
			return nil, fmt.Errorf("fit scaler: row has %d features, want %d", len(row), dims)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			// Constant feature: leave values centered but unscaled.
			std[j] = 1
		}
	}
	return &Scaler{Mean: mean, Std: std}, nil
}

// Transform returns a standardized copy of the feature vector.
func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("scaler: got %d features, want %d", len(features), len(s.Mean))
	}
	out := make([]float64, len(features))
	for j, v := range features {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// TransformAll standardizes every row in place-safe fashion.
func (s *Scaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
