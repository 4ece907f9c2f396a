package scoring

import (
	"context"
	"errors"
	"testing"

	"msp_portal_backend/platform/logger"
)

type failingHealthStrategy struct{}

func (failingHealthStrategy) Name() string { return "failing" }
func (failingHealthStrategy) Score(context.Context, ClientMetrics) (float64, error) {
	return 0, errors.New("model unavailable")
}

type failingChurnStrategy struct{}

func (failingChurnStrategy) Name() string { return "failing" }
func (failingChurnStrategy) Predict(context.Context, ClientMetrics) (Prediction, error) {
	return Prediction{}, errors.New("model unavailable")
}

func TestComputeHealthScoreRejectsMissingCoreMetrics(t *testing.T) {
	engine := rulesEngine(t)

	_, err := engine.ComputeHealthScore(context.Background(), ClientMetrics{TotalLicenses: 0, MonthlySpend: 500})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData without licenses, got %v", err)
	}

	_, err = engine.ComputeHealthScore(context.Background(), ClientMetrics{TotalLicenses: 10, MonthlySpend: 0})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData without spend, got %v", err)
	}
}

func TestEngineDegradesToNextStrategyOnFault(t *testing.T) {
	log := logger.New("development")
	engine := &Engine{
		health: []HealthStrategy{failingHealthStrategy{}, ruleHealthStrategy{}},
		churn:  []ChurnStrategy{failingChurnStrategy{}, ruleChurnStrategy{}},
		log:    log,
	}
	m := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000}

	score, err := engine.ComputeHealthScore(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score == nil {
		t.Fatal("expected the rule fallback to produce a score")
	}

	prediction, err := engine.PredictChurn(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Probability <= 0 {
		t.Fatalf("expected a usable fallback prediction, got %+v", prediction)
	}
}

func TestEngineAllHealthStrategiesFaultedYieldsNilScore(t *testing.T) {
	engine := &Engine{
		health: []HealthStrategy{failingHealthStrategy{}},
		churn:  []ChurnStrategy{ruleChurnStrategy{}},
		log:    logger.New("development"),
	}
	m := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000}

	score, err := engine.ComputeHealthScore(context.Background(), m)
	if err != nil {
		t.Fatalf("expected nil error when every strategy faults, got %v", err)
	}
	if score != nil {
		t.Fatalf("expected nil score, got %v", *score)
	}
}

func TestNewEngineConfigHeadsTheChain(t *testing.T) {
	log := logger.New("development")
	models := NewManager(t.TempDir(), log)

	rules := NewEngine(Config{HealthStrategy: "rules", ChurnStrategy: "rules"}, models, log)
	if got := rules.health[0].Name(); got != "rules" {
		t.Fatalf("expected rules first, got %s", got)
	}
	if got := rules.churn[0].Name(); got != "rules" {
		t.Fatalf("expected rules churn first, got %s", got)
	}

	full := NewEngine(Config{HealthStrategy: "model", ChurnStrategy: "advanced"}, models, log)
	if len(full.health) != 3 {
		t.Fatalf("expected the full 3-strategy health chain, got %d", len(full.health))
	}
	if len(full.churn) != 3 {
		t.Fatalf("expected the full 3-strategy churn chain, got %d", len(full.churn))
	}

	basic := NewEngine(Config{HealthStrategy: "basic", ChurnStrategy: "model"}, models, log)
	if got := basic.health[0].Name(); got != "basic" {
		t.Fatalf("expected basic first, got %s", got)
	}
	if got := basic.churn[0].Name(); got != "model" {
		t.Fatalf("expected model churn first, got %s", got)
	}
}

func TestEngineIdempotentForSameInputs(t *testing.T) {
	engine := rulesEngine(t)
	m := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000}

	first, err := engine.ComputeHealthScore(context.Background(), m)
	if err != nil || first == nil {
		t.Fatalf("unexpected result: %v, %v", first, err)
	}
	second, err := engine.ComputeHealthScore(context.Background(), m)
	if err != nil || second == nil {
		t.Fatalf("unexpected result: %v, %v", second, err)
	}
	if *first != *second {
		t.Fatalf("expected identical scores, got %v and %v", *first, *second)
	}
}
