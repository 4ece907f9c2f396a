package mlkit

import (
	"math"
	"path/filepath"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitScalerStandardizesFeatures(t *testing.T) {
	rows := [][]float64{
		{0, 10},
		{2, 10},
		{4, 10},
	}
	scaler, err := FitScaler(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(scaler.Mean[0], 2) {
		t.Fatalf("expected mean 2 for first feature, got %v", scaler.Mean[0])
	}
	// The second feature is constant: std falls back to 1 so transforms
	// stay finite.
	if !almostEqual(scaler.Std[1], 1) {
		t.Fatalf("expected unit std for constant feature, got %v", scaler.Std[1])
	}

	scaled, err := scaler.Transform([]float64{2, 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(scaled[0], 0) || !almostEqual(scaled[1], 0) {
		t.Fatalf("expected mean row to scale to zeros, got %v", scaled)
	}
}

func TestFitScalerRejectsRaggedRows(t *testing.T) {
	_, err := FitScaler([][]float64{{1, 2}, {1}})
	if err == nil {
		t.Fatalf("expected an error for ragged rows")
	}
}

func TestScalerTransformRejectsWrongDimension(t *testing.T) {
	scaler, err := FitScaler([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := scaler.Transform([]float64{1}); err == nil {
		t.Fatalf("expected an error for a short feature vector")
	}
}

// linear target so the forest has an easy surface to learn.
func syntheticRows(n int) ([][]float64, []float64) {
	rows := make([][]float64, n)
	targets := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		y := float64((i * 7) % 13)
		rows[i] = []float64{x, y}
		targets[i] = 3*x + 2*y
	}
	return rows, targets
}

func TestFitForestIsDeterministicForFixedSeed(t *testing.T) {
	rows, targets := syntheticRows(60)
	cfg := ForestConfig{Trees: 20, MaxDepth: 8, Seed: 42}

	first, err := FitForest(rows, targets, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := FitForest(rows, targets, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	probe := []float64{30, 5}
	if p1, p2 := first.Predict(probe), second.Predict(probe); p1 != p2 {
		t.Fatalf("expected identical predictions for identical seeds, got %v and %v", p1, p2)
	}

	different, err := FitForest(rows, targets, ForestConfig{Trees: 20, MaxDepth: 8, Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Predict(probe) == different.Predict(probe) {
		t.Fatalf("expected a different seed to change the trained forest")
	}
}

func TestFitForestRejectsBadInput(t *testing.T) {
	if _, err := FitForest(nil, nil, ForestConfig{Trees: 5}); err == nil {
		t.Fatalf("expected an error for empty rows")
	}
	rows, targets := syntheticRows(10)
	if _, err := FitForest(rows, targets, ForestConfig{Trees: 0}); err == nil {
		t.Fatalf("expected an error for zero trees")
	}
	if _, err := FitForest(rows, targets[:5], ForestConfig{Trees: 5}); err == nil {
		t.Fatalf("expected an error for mismatched targets")
	}
}

func TestTrainFitsToTrainingSurface(t *testing.T) {
	rows, targets := syntheticRows(80)
	model, err := Train([]string{"x", "y"}, rows, targets, ForestConfig{Trees: 60, MaxDepth: 12, Seed: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Predictions on training points should land near the linear target.
	for _, i := range []int{5, 25, 55} {
		got, err := model.Predict(rows[i])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-targets[i]) > 20 {
			t.Fatalf("prediction %v too far from target %v at row %d", got, targets[i], i)
		}
	}
}

func TestTrainRequiresAtLeastOneConfig(t *testing.T) {
	rows, targets := syntheticRows(10)
	if _, err := Train([]string{"x", "y"}, rows, targets); err == nil {
		t.Fatalf("expected an error when no forest configs are given")
	}
}

func TestModelPredictValidatesShape(t *testing.T) {
	rows, targets := syntheticRows(20)
	model, err := Train([]string{"x", "y"}, rows, targets, ForestConfig{Trees: 5, MaxDepth: 4, Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := model.Predict([]float64{1}); err == nil {
		t.Fatalf("expected an error for a feature vector of the wrong length")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rows, targets := syntheticRows(40)
	model, err := Train([]string{"x", "y"}, rows, targets, ForestConfig{Trees: 10, MaxDepth: 6, Seed: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := model.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.FeatureNames) != 2 || loaded.FeatureNames[0] != "x" {
		t.Fatalf("feature names not preserved: %v", loaded.FeatureNames)
	}

	probe := []float64{13, 4}
	want, err := model.Predict(probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := loaded.Predict(probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want != got {
		t.Fatalf("loaded model predicts %v, trained model predicts %v", got, want)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Fatalf("expected an error for a missing artifact")
	}
}
