package scoring

import (
	"context"
	"errors"

	"msp_portal_backend/platform/logger"
)

// ErrInsufficientData means the required core metrics (licenses and spend)
// are missing or zero. It is the only expected failure: callers treat it as
// "score unavailable", never as zero.
var ErrInsufficientData = errors.New("insufficient data for scoring")

// HealthStrategy produces a 0-100 health score for one metrics record.
type HealthStrategy interface {
	Name() string
	Score(ctx context.Context, m ClientMetrics) (float64, error)
}

// ChurnStrategy produces a churn prediction for one metrics record.
type ChurnStrategy interface {
	Name() string
	Predict(ctx context.Context, m ClientMetrics) (Prediction, error)
}

// Config selects the preferred strategy per engine. The engine always
// degrades to the simpler strategies below the preferred one on failure.
type Config struct {
	// HealthStrategy is one of "model", "rules", "basic".
	HealthStrategy string
	// ChurnStrategy is one of "advanced", "model", "rules".
	ChurnStrategy string
}

// Engine runs a prioritized strategy chain per score. Strategy faults are
// Degraded conditions: logged and answered by the next strategy down, never
// surfaced to the caller as a failure.
type Engine struct {
	health []HealthStrategy
	churn  []ChurnStrategy
	log    *logger.Logger
}

// NewEngine builds the strategy chains. The preferred strategy from cfg
// heads its chain; everything simpler stays behind it as fallback.
func NewEngine(cfg Config, models *Manager, log *logger.Logger) *Engine {
	health := []HealthStrategy{
		modelHealthStrategy{models: models},
		ruleHealthStrategy{},
		basicHealthStrategy{},
	}
	switch cfg.HealthStrategy {
	case "rules":
		health = health[1:]
	case "basic":
		health = health[2:]
	}

	churn := []ChurnStrategy{
		modelChurnStrategy{models: models, advanced: true},
		modelChurnStrategy{models: models},
		ruleChurnStrategy{},
	}
	switch cfg.ChurnStrategy {
	case "model":
		churn = churn[1:]
	case "rules":
		churn = churn[2:]
	}

	return &Engine{health: health, churn: churn, log: log}
}

// ComputeHealthScore returns the health score for the metrics, or
// ErrInsufficientData when licenses or spend are missing. A nil score with a
// nil error means every strategy faulted; the caller stores no score.
func (e *Engine) ComputeHealthScore(ctx context.Context, m ClientMetrics) (*float64, error) {
	if m.TotalLicenses <= 0 || m.MonthlySpend <= 0 {
		return nil, ErrInsufficientData
	}

	for i, strategy := range e.health {
		score, err := strategy.Score(ctx, m)
		if err == nil {
			return &score, nil
		}
		e.logFallback("health", strategy.Name(), e.nextHealthName(i), err)
	}
	return nil, nil
}

// PredictChurn runs the churn chain. The rule strategy is total, so a
// prediction is always produced unless the chain was configured down to an
// empty set, which NewEngine prevents.
func (e *Engine) PredictChurn(ctx context.Context, m ClientMetrics) (Prediction, error) {
	var lastErr error
	for i, strategy := range e.churn {
		prediction, err := strategy.Predict(ctx, m)
		if err == nil {
			return prediction, nil
		}
		lastErr = err
		e.logFallback("churn", strategy.Name(), e.nextChurnName(i), err)
	}
	return Prediction{}, lastErr
}

func (e *Engine) nextHealthName(i int) string {
	if i+1 < len(e.health) {
		return e.health[i+1].Name()
	}
	return "none"
}

func (e *Engine) nextChurnName(i int) string {
	if i+1 < len(e.churn) {
		return e.churn[i+1].Name()
	}
	return "none"
}

func (e *Engine) logFallback(component, from, to string, err error) {
	if e.log != nil {
		e.log.ScoringFallback(component, from, to, err)
	}
}
