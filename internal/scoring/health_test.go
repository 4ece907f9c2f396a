package scoring

import (
	"context"
	"testing"
)

func TestRuleHealthScoreHealthyClientLandsInGoodRange(t *testing.T) {
	m := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000}

	score, err := ruleHealthStrategy{}.Score(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score < 80 || score > 90 {
		t.Fatalf("expected healthy client score in [80,90], got %v", score)
	}
}

func TestRuleHealthScoreUnderutilizedClientScoresFairOrLower(t *testing.T) {
	m := ClientMetrics{TotalLicenses: 100, TotalUsers: 25, MonthlySpend: 800}

	score, err := ruleHealthStrategy{}.Score(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score >= 70 {
		t.Fatalf("expected struggling client score below 70, got %v", score)
	}
}

func TestRuleHealthScoreCriticalPenaltyStacksAfterWeightedSum(t *testing.T) {
	// 5% utilization and $2/license triggers the 0.65 multiplier.
	critical := ClientMetrics{TotalLicenses: 100, TotalUsers: 5, MonthlySpend: 200}
	// Same spend, 15% utilization triggers the milder 0.80 multiplier.
	poor := ClientMetrics{TotalLicenses: 100, TotalUsers: 15, MonthlySpend: 200}
	// 25% utilization is outside the penalty window entirely.
	unpenalized := ClientMetrics{TotalLicenses: 100, TotalUsers: 25, MonthlySpend: 200}

	criticalScore, _ := ruleHealthStrategy{}.Score(context.Background(), critical)
	poorScore, _ := ruleHealthStrategy{}.Score(context.Background(), poor)
	unpenalizedScore, _ := ruleHealthStrategy{}.Score(context.Background(), unpenalized)

	if !(criticalScore < poorScore && poorScore < unpenalizedScore) {
		t.Fatalf("expected strictly increasing scores %v < %v < %v",
			criticalScore, poorScore, unpenalizedScore)
	}
}

func TestUtilizationSubscorePeaksAtSeventyToNinetyInclusive(t *testing.T) {
	cases := []struct {
		utilPct float64
		want    float64
	}{
		{70, 100},
		{90, 100},
		{69.9, 85},
		{90.1, 90},
		{100, 90},
		{25, 30},
	}
	for _, tc := range cases {
		if got := utilizationSubscore(tc.utilPct); got != tc.want {
			t.Fatalf("utilizationSubscore(%v) = %v, want %v", tc.utilPct, got, tc.want)
		}
	}
}

func TestUtilizationSubscoreHeavyPenaltyAboveHundredPercent(t *testing.T) {
	// 110% -> 85 - 10*3 = 55; 150% -> floored at 5.
	if got := utilizationSubscore(110); got != 55 {
		t.Fatalf("utilizationSubscore(110) = %v, want 55", got)
	}
	if got := utilizationSubscore(150); got != 5 {
		t.Fatalf("utilizationSubscore(150) = %v, want 5", got)
	}
}

func TestAdoptionSubscoreFullCreditAtSeventyPercentTarget(t *testing.T) {
	if got := adoptionSubscore(0.7); got != 100 {
		t.Fatalf("adoptionSubscore(0.7) = %v, want 100", got)
	}
	if got := adoptionSubscore(1.0); got != 100 {
		t.Fatalf("adoptionSubscore(1.0) = %v, want capped 100", got)
	}
	if got := adoptionSubscore(0.35); got != 50 {
		t.Fatalf("adoptionSubscore(0.35) = %v, want 50", got)
	}
}

func TestBasicHealthScoreSumsThreeComponents(t *testing.T) {
	contract := 36000.0
	m := ClientMetrics{
		TotalLicenses: 100,
		TotalUsers:    80,
		MonthlySpend:  3000,
		ContractValue: &contract,
	}

	// 80% utilization -> 40, $3000 -> 25, 36000/year vs 36000 contract -> 30.
	score, err := basicHealthStrategy{}.Score(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 95 {
		t.Fatalf("expected 95, got %v", score)
	}
}

func TestBasicHealthScoreNoContractGetsPartialCredit(t *testing.T) {
	m := ClientMetrics{TotalLicenses: 100, TotalUsers: 80, MonthlySpend: 3000}

	score, err := basicHealthStrategy{}.Score(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 80 {
		t.Fatalf("expected 80 (40 + 25 + 15), got %v", score)
	}
}
