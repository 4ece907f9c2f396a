package mlkit

import (
	"fmt"
	"math/rand"
)

// ForestConfig holds the hyperparameters for a random-forest regressor.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // features considered per split; 0 = all
	Seed            int64
}

// Forest is a bootstrap-aggregated ensemble of regression trees. Predictions
// are the mean over all trees. Fields are exported for gob.
type Forest struct {
	Config ForestConfig
	Roots  []*TreeNode
}

// FitForest trains a forest on standardized rows and raw targets. Training is
// deterministic for a fixed seed so artifacts are reproducible.
func FitForest(rows [][]float64, targets []float64, cfg ForestConfig) (*Forest, error) {
	if len(rows) == 0 || len(rows) != len(targets) {
		return nil, fmt.Errorf("fit forest: %d rows, %d targets", len(rows), len(targets))
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("fit forest: tree count must be positive")
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 15
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := len(rows)
	roots := make([]*TreeNode, cfg.Trees)
	for t := 0; t < cfg.Trees; t++ {
		// Bootstrap sample with replacement.
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		treeCfg := treeConfig{
			maxDepth:        cfg.MaxDepth,
			minSamplesSplit: cfg.MinSamplesSplit,
			minSamplesLeaf:  cfg.MinSamplesLeaf,
			maxFeatures:     cfg.MaxFeatures,
		}
		roots[t] = growTree(rows, targets, idx, 0, treeCfg, rng)
	}

	return &Forest{Config: cfg, Roots: roots}, nil
}

// Predict averages tree predictions for a standardized feature vector.
func (f *Forest) Predict(features []float64) float64 {
	sum := 0.0
	for _, root := range f.Roots {
		sum += root.Predict(features)
	}
	return sum / float64(len(f.Roots))
}
