package scoring

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"msp_portal_backend/internal/mlkit"
	"msp_portal_backend/platform/logger"
)

// Artifact file names inside the model directory.
const (
	healthArtifact        = "health_model.gob"
	churnArtifact         = "churn_model.gob"
	churnEnsembleArtifact = "churn_ensemble.gob"
)

const trainingSeed = 42

// Manager owns the trained model artifacts: construct-once, read-many. The
// first caller of an artifact pays the load-or-train cost; concurrent first
// callers are collapsed into one flight so a model is never trained twice.
// Models are immutable after construction for the life of the process.
type Manager struct {
	dir string
	log *logger.Logger

	group singleflight.Group

	mu     sync.RWMutex
	models map[string]*mlkit.Model
}

// NewManager creates a lifecycle manager storing artifacts under dir.
func NewManager(dir string, log *logger.Logger) *Manager {
	return &Manager{
		dir:    dir,
		log:    log,
		models: make(map[string]*mlkit.Model),
	}
}

// Health returns the trained health model, loading or training it on first
// use.
func (mgr *Manager) Health(ctx context.Context) (*mlkit.Model, error) {
	return mgr.model(ctx, healthArtifact, mgr.trainHealth)
}

// Churn returns the trained churn model.
func (mgr *Manager) Churn(ctx context.Context) (*mlkit.Model, error) {
	return mgr.model(ctx, churnArtifact, mgr.trainChurn)
}

// ChurnEnsemble returns the advanced churn ensemble.
func (mgr *Manager) ChurnEnsemble(ctx context.Context) (*mlkit.Model, error) {
	return mgr.model(ctx, churnEnsembleArtifact, mgr.trainChurnEnsemble)
}

// Warm eagerly constructs every artifact. Called from a background goroutine
// at startup so the first scoring request does not pay the training cost.
func (mgr *Manager) Warm(ctx context.Context) {
	if _, err := mgr.Health(ctx); err != nil {
		mgr.log.ModelEvent("warm_failed", healthArtifact, err)
	}
	if _, err := mgr.Churn(ctx); err != nil {
		mgr.log.ModelEvent("warm_failed", churnArtifact, err)
	}
	if _, err := mgr.ChurnEnsemble(ctx); err != nil {
		mgr.log.ModelEvent("warm_failed", churnEnsembleArtifact, err)
	}
}

func (mgr *Manager) model(_ context.Context, name string, train func() (*mlkit.Model, error)) (*mlkit.Model, error) {
	mgr.mu.RLock()
	if m, ok := mgr.models[name]; ok {
		mgr.mu.RUnlock()
		return m, nil
	}
	mgr.mu.RUnlock()

	result, err, _ := mgr.group.Do(name, func() (interface{}, error) {
		// Re-check under the flight: a previous flight may have populated it.
		mgr.mu.RLock()
		if m, ok := mgr.models[name]; ok {
			mgr.mu.RUnlock()
			return m, nil
		}
		mgr.mu.RUnlock()

		m, err := mgr.loadOrTrain(name, train)
		if err != nil {
			return nil, err
		}

		mgr.mu.Lock()
		mgr.models[name] = m
		mgr.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*mlkit.Model), nil
}

func (mgr *Manager) loadOrTrain(name string, train func() (*mlkit.Model, error)) (*mlkit.Model, error) {
	path := filepath.Join(mgr.dir, name)

	if m, err := mlkit.Load(path); err == nil {
		mgr.log.ModelEvent("loaded", name, nil)
		return m, nil
	} else {
		// Missing artifact is the normal first-run case; a corrupt one is
		// retrained over rather than surfaced to callers.
		mgr.log.ModelEvent("load_skipped", name, err)
	}

	m, err := train()
	if err != nil {
		return nil, err
	}
	mgr.log.ModelEvent("trained", name, nil)

	if err := m.Save(path); err != nil {
		// Persisting is best effort: the in-memory model still serves.
		mgr.log.ModelEvent("save_failed", name, err)
	}
	return m, nil
}

func (mgr *Manager) trainHealth() (*mlkit.Model, error) {
	rows, targets := healthTrainingData(trainingSeed)
	return mlkit.Train(healthFeatureNames, rows, targets, mlkit.ForestConfig{
		Trees:           100,
		MaxDepth:        15,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Seed:            trainingSeed,
	})
}

func (mgr *Manager) trainChurn() (*mlkit.Model, error) {
	rows, targets := churnTrainingData(trainingSeed, false)
	return mlkit.Train(churnFeatureNames, rows, targets, mlkit.ForestConfig{
		Trees:           150,
		MaxDepth:        20,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Seed:            trainingSeed,
	})
}

// trainChurnEnsemble averages three differently-shaped forests over the
// advanced dataset, standing in for the reference voting classifier.
func (mgr *Manager) trainChurnEnsemble() (*mlkit.Model, error) {
	rows, targets := churnTrainingData(trainingSeed, true)
	return mlkit.Train(churnFeatureNames, rows, targets,
		mlkit.ForestConfig{Trees: 150, MaxDepth: 20, MinSamplesSplit: 5, MinSamplesLeaf: 2, Seed: trainingSeed},
		mlkit.ForestConfig{Trees: 200, MaxDepth: 10, MinSamplesSplit: 20, MinSamplesLeaf: 10, Seed: 7},
		mlkit.ForestConfig{Trees: 200, MaxDepth: 6, MinSamplesSplit: 2, MinSamplesLeaf: 2, MaxFeatures: 8, Seed: 21},
	)
}
