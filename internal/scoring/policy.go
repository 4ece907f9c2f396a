package scoring

import (
	"context"
	"errors"
)

// Override policy: decides per mutation whether a caller-supplied health
// score is trusted or recomputed, and keeps churn consistent with whatever
// health ends up stored. The sentinel rule is load-bearing: nil, 0 and 0.0
// all mean "no manual score" and must trigger auto-calculation.

// OverrideState is the resolved state of one mutation.
type OverrideState string

const (
	// StateManual means the caller supplied a usable score (> 0).
	StateManual OverrideState = "manual"
	// StateAuto means the score was (or will be) computed by the engine.
	StateAuto OverrideState = "auto"
	// StateSkip means auto-calculation was wanted but the core metrics are
	// insufficient; the score stays unset.
	StateSkip OverrideState = "skip"
)

// Outcome is the policy's decision for one mutation.
type Outcome struct {
	State       OverrideState
	HealthScore *float64
	Churn       *Prediction
}

// HasManualScore reports whether the supplied value is a legitimate manual
// override. Zero is absence, not a score of zero.
func HasManualScore(score *float64) bool {
	return score != nil && *score > 0
}

// ShouldAutoCalculate reports whether the engine should compute a health
// score: no usable manual value and both required core metrics present.
func ShouldAutoCalculate(m ClientMetrics, manualScore *float64) bool {
	if HasManualScore(manualScore) {
		return false
	}
	return m.TotalLicenses > 0 && m.MonthlySpend > 0
}

// Policy applies the override rules on top of the engine.
type Policy struct {
	engine *Engine
}

// NewPolicy wraps an engine with the override rules.
func NewPolicy(engine *Engine) *Policy {
	return &Policy{engine: engine}
}

// Evaluate resolves a create mutation: trust a manual score, otherwise
// auto-calculate when possible, and always produce a churn prediction fed
// with the score that was just decided (or the canonical 50 default).
func (p *Policy) Evaluate(ctx context.Context, m ClientMetrics) (Outcome, error) {
	out := Outcome{State: StateAuto}

	switch {
	case HasManualScore(m.HealthScore):
		out.State = StateManual
		out.HealthScore = m.HealthScore
	case ShouldAutoCalculate(m, nil):
		score, err := p.engine.ComputeHealthScore(ctx, m)
		if err != nil && !errors.Is(err, ErrInsufficientData) {
			return Outcome{}, err
		}
		if score == nil {
			out.State = StateSkip
		} else {
			out.HealthScore = score
		}
	default:
		out.State = StateSkip
	}

	churn, err := p.predictChurn(ctx, m, out.HealthScore)
	if err != nil {
		return Outcome{}, err
	}
	out.Churn = churn

	return out, nil
}

// EvaluateUpdate resolves an update mutation. merged must already contain
// existing values overlaid with the update's changes. manualProvided is true
// when the update carried a health score field at all; a provided nil or
// zero still means auto. When a usable manual score arrives, it is stored
// as-is and churn is left alone; on every other update churn is recomputed
// from the merged values so it never goes stale relative to health.
func (p *Policy) EvaluateUpdate(ctx context.Context, merged ClientMetrics, manualProvided bool, manualScore *float64) (Outcome, error) {
	if manualProvided && HasManualScore(manualScore) {
		return Outcome{State: StateManual, HealthScore: manualScore}, nil
	}

	out := Outcome{State: StateAuto}
	healthForChurn := merged.HealthScore

	if ShouldAutoCalculate(merged, nil) {
		score, err := p.engine.ComputeHealthScore(ctx, merged)
		if err != nil && !errors.Is(err, ErrInsufficientData) {
			return Outcome{}, err
		}
		if score != nil {
			out.HealthScore = score
			healthForChurn = score
		} else {
			out.State = StateSkip
		}
	} else {
		out.State = StateSkip
	}

	churn, err := p.predictChurn(ctx, merged, healthForChurn)
	if err != nil {
		return Outcome{}, err
	}
	out.Churn = churn

	return out, nil
}

func (p *Policy) predictChurn(ctx context.Context, m ClientMetrics, health *float64) (*Prediction, error) {
	churnMetrics := m
	churnMetrics.HealthScore = health
	prediction, err := p.engine.PredictChurn(ctx, churnMetrics)
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}
