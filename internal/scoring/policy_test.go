package scoring

import (
	"context"
	"testing"

	"msp_portal_backend/platform/logger"
)

// rulesEngine builds an engine that never touches trained models, so policy
// tests stay fast and deterministic.
func rulesEngine(t *testing.T) *Engine {
	t.Helper()
	log := logger.New("development")
	models := NewManager(t.TempDir(), log)
	return NewEngine(Config{HealthStrategy: "rules", ChurnStrategy: "rules"}, models, log)
}

func TestHasManualScoreSentinelRules(t *testing.T) {
	if HasManualScore(nil) {
		t.Fatal("nil must not count as a manual score")
	}
	zero := 0.0
	if HasManualScore(&zero) {
		t.Fatal("zero must not count as a manual score")
	}
	score := 85.5
	if !HasManualScore(&score) {
		t.Fatal("a positive value is a manual score")
	}
}

func TestShouldAutoCalculateRequiresLicensesAndSpend(t *testing.T) {
	ok := ClientMetrics{TotalLicenses: 10, MonthlySpend: 100}
	if !ShouldAutoCalculate(ok, nil) {
		t.Fatal("expected auto-calculation with licenses and spend present")
	}
	if ShouldAutoCalculate(ClientMetrics{TotalLicenses: 0, MonthlySpend: 100}, nil) {
		t.Fatal("expected no auto-calculation without licenses")
	}
	if ShouldAutoCalculate(ClientMetrics{TotalLicenses: 10, MonthlySpend: 0}, nil) {
		t.Fatal("expected no auto-calculation without spend")
	}
	manual := 75.0
	if ShouldAutoCalculate(ok, &manual) {
		t.Fatal("expected manual score to suppress auto-calculation")
	}
}

func TestEvaluateTrustsManualScoreAndStillPredictsChurn(t *testing.T) {
	policy := NewPolicy(rulesEngine(t))
	manual := 92.0
	m := ClientMetrics{
		TotalLicenses: 100,
		TotalUsers:    80,
		MonthlySpend:  3000,
		HealthScore:   &manual,
	}

	out, err := policy.Evaluate(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.State != StateManual {
		t.Fatalf("expected manual state, got %s", out.State)
	}
	if out.HealthScore == nil || *out.HealthScore != 92.0 {
		t.Fatalf("expected stored manual score 92.0, got %v", out.HealthScore)
	}
	if out.Churn == nil {
		t.Fatal("expected a churn prediction alongside a manual score")
	}
	// Health >= 85 is churn-protective, confirming the manual value fed churn.
	if out.Churn.RiskLevel != RiskLow {
		t.Fatalf("expected low risk with manual health 92, got %s", out.Churn.RiskLevel)
	}
}

func TestEvaluateZeroScoreTriggersAutoCalculation(t *testing.T) {
	policy := NewPolicy(rulesEngine(t))
	zero := 0.0
	m := ClientMetrics{
		TotalLicenses: 100,
		TotalUsers:    80,
		MonthlySpend:  3000,
		HealthScore:   &zero,
	}

	out, err := policy.Evaluate(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.State != StateAuto {
		t.Fatalf("expected auto state for a zero sentinel, got %s", out.State)
	}
	if out.HealthScore == nil || *out.HealthScore <= 0 {
		t.Fatalf("expected a computed score, got %v", out.HealthScore)
	}
}

func TestEvaluateSkipsWithoutCoreMetricsButChurnStillRuns(t *testing.T) {
	policy := NewPolicy(rulesEngine(t))
	m := ClientMetrics{TotalLicenses: 0, TotalUsers: 10, MonthlySpend: 500}

	out, err := policy.Evaluate(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.State != StateSkip {
		t.Fatalf("expected skip state, got %s", out.State)
	}
	if out.HealthScore != nil {
		t.Fatalf("expected nil health score, got %v", *out.HealthScore)
	}
	if out.Churn == nil {
		t.Fatal("expected churn prediction from defaults even when health skips")
	}
}

func TestEvaluateUpdateManualScoreLeavesChurnAlone(t *testing.T) {
	policy := NewPolicy(rulesEngine(t))
	manual := 88.0
	merged := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000}

	out, err := policy.EvaluateUpdate(context.Background(), merged, true, &manual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.State != StateManual {
		t.Fatalf("expected manual state, got %s", out.State)
	}
	if out.Churn != nil {
		t.Fatal("expected no churn recomputation when a manual score arrives")
	}
}

func TestEvaluateUpdateZeroManualScoreRecomputes(t *testing.T) {
	policy := NewPolicy(rulesEngine(t))
	zero := 0.0
	merged := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000}

	out, err := policy.EvaluateUpdate(context.Background(), merged, true, &zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.State != StateAuto {
		t.Fatalf("expected auto state when the update carries a zero, got %s", out.State)
	}
	if out.HealthScore == nil {
		t.Fatal("expected a recomputed health score")
	}
	if out.Churn == nil {
		t.Fatal("expected churn recomputed on an auto update")
	}
}

func TestEvaluateUpdateChurnNeverGoesStale(t *testing.T) {
	policy := NewPolicy(rulesEngine(t))
	stored := 65.0
	// Core metrics present; no manual score in the update.
	merged := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000, HealthScore: &stored}

	out, err := policy.EvaluateUpdate(context.Background(), merged, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Churn == nil {
		t.Fatal("expected churn recomputed even when no score field was sent")
	}
}
