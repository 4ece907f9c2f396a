package scoring

import (
	"context"
	"testing"

	"msp_portal_backend/platform/logger"
)

// trainedManager trains real artifacts in a temp dir. Expensive; the short
// suite skips these tests.
func trainedManager(t *testing.T) *Manager {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping model training in short mode")
	}
	return NewManager(t.TempDir(), logger.New("development"))
}

func TestTrainedHealthModelTracksRuleSurface(t *testing.T) {
	models := trainedManager(t)
	strategy := modelHealthStrategy{models: models}
	ctx := context.Background()

	healthy := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000}
	struggling := ClientMetrics{TotalLicenses: 100, TotalUsers: 25, MonthlySpend: 800}

	healthyScore, err := strategy.Score(ctx, healthy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	strugglingScore, err := strategy.Score(ctx, struggling)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if healthyScore < 0 || healthyScore > 100 || strugglingScore < 0 || strugglingScore > 100 {
		t.Fatalf("scores out of range: %v, %v", healthyScore, strugglingScore)
	}
	// The model was trained on the rule surface: a well-utilized client must
	// clearly outscore an underutilized one.
	if healthyScore <= strugglingScore+10 {
		t.Fatalf("expected healthy %v to clearly exceed struggling %v", healthyScore, strugglingScore)
	}
}

func TestTrainedChurnModelStaysInsideProbabilityBounds(t *testing.T) {
	models := trainedManager(t)
	strategy := modelChurnStrategy{models: models}
	ctx := context.Background()

	inputs := []ClientMetrics{
		{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000, HealthScore: ptr(85.0)},
		{TotalLicenses: 100, TotalUsers: 25, MonthlySpend: 800, HealthScore: ptr(35.0)},
		{TotalLicenses: 10, TotalUsers: 30, MonthlySpend: 500, HealthScore: ptr(90.0)},
	}
	for _, m := range inputs {
		p, err := strategy.Predict(ctx, m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Probability < 0.05 || p.Probability > 0.95 {
			t.Fatalf("probability %v outside [0.05, 0.95]", p.Probability)
		}
		if len(p.Factors) == 0 {
			t.Fatalf("expected diagnostic factors for %+v", m)
		}
	}
}

func TestAdvancedChurnPoorHealthOverridesHighUtilization(t *testing.T) {
	models := trainedManager(t)
	strategy := modelChurnStrategy{models: models, advanced: true}
	ctx := context.Background()

	// 283% utilization would normally be protective, but a 55.4 health
	// score must keep this client out of the low band.
	m := ClientMetrics{
		TotalLicenses: 30,
		TotalUsers:    85,
		MonthlySpend:  8500,
		HealthScore:   ptr(55.4),
	}

	p, err := strategy.Predict(ctx, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RiskLevel == RiskLow {
		t.Fatalf("expected poor health to override utilization protection, got low risk at %v", p.Probability)
	}
	if p.Probability < 0.40 {
		t.Fatalf("expected elevated probability, got %v", p.Probability)
	}
}

func TestAdvancedChurnVeryHighUtilizationHealthyClientIsProtected(t *testing.T) {
	models := trainedManager(t)
	strategy := modelChurnStrategy{models: models, advanced: true}
	ctx := context.Background()

	m := ClientMetrics{
		TotalLicenses: 30,
		TotalUsers:    85,
		MonthlySpend:  8500,
		HealthScore:   ptr(88.0),
	}

	p, err := strategy.Predict(ctx, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RiskLevel == RiskHigh {
		t.Fatalf("expected a healthy over-utilized client to stay out of the high band, got %v", p.Probability)
	}
}

func TestManagerTrainingIsDeterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping model training in short mode")
	}
	ctx := context.Background()
	log := logger.New("development")

	first := NewManager(t.TempDir(), log)
	second := NewManager(t.TempDir(), log)

	m1, err := first.Churn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := second.Churn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	features, _ := churnFeatureVector(100, 80, 3000, 85)
	p1, err := m1.Predict(features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, err := m2.Predict(features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("expected identical predictions from identically-seeded training, got %v and %v", p1, p2)
	}
}

func TestManagerPersistsAndReloadsArtifacts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping model training in short mode")
	}
	ctx := context.Background()
	log := logger.New("development")
	dir := t.TempDir()

	trained := NewManager(dir, log)
	m1, err := trained.Health(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh manager over the same dir must load, not retrain.
	reloaded := NewManager(dir, log)
	m2, err := reloaded.Health(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vector := healthFeatureVector(ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000})
	p1, _ := m1.Predict(vector)
	p2, _ := m2.Predict(vector)
	if p1 != p2 {
		t.Fatalf("expected the persisted artifact to reproduce predictions, got %v and %v", p1, p2)
	}
}
