package scoring

import (
	"math"
	"testing"
)

func TestCombinedIndicatorCapsBothComponents(t *testing.T) {
	// 90% utilization and $2000 spend each max out their component.
	if got := CombinedIndicator(90, 2000); math.Abs(got-100) > 1e-9 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := CombinedIndicator(200, 50000); math.Abs(got-100) > 1e-9 {
		t.Fatalf("expected cap at 100, got %v", got)
	}
}

func TestCombinedIndicatorBlendsSixtyForty(t *testing.T) {
	// 45% utilization -> 50 points, $1000 -> 50 points.
	got := CombinedIndicator(45, 1000)
	if math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestRuleDefaultsBandSelection(t *testing.T) {
	cases := []struct {
		indicator   float64
		wantPayment float64
	}{
		{10, 0.65},  // critical
		{39.9, 0.65},
		{40, 0.75},  // poor
		{55, 0.80},  // fair
		{70, 0.85},  // good
		{85, 0.95},  // excellent
		{100, 0.95},
	}
	for _, tc := range cases {
		got := ruleDefaults(tc.indicator)
		if got.OnTimePaymentRate != tc.wantPayment {
			t.Fatalf("ruleDefaults(%v).OnTimePaymentRate = %v, want %v",
				tc.indicator, got.OnTimePaymentRate, tc.wantPayment)
		}
	}
}

func TestModelDefaultsEitherSignalDropsTheBand(t *testing.T) {
	// Healthy utilization but terrible spend per license is still critical.
	got := modelDefaults(80, 3)
	if got.OnTimePaymentRate != 0.50 {
		t.Fatalf("expected critical band for spend-per-license < 5, got payment rate %v", got.OnTimePaymentRate)
	}

	// Terrible utilization with healthy spend is also critical.
	got = modelDefaults(10, 100)
	if got.OnTimePaymentRate != 0.50 {
		t.Fatalf("expected critical band for utilization < 20, got payment rate %v", got.OnTimePaymentRate)
	}

	// Both signals healthy lands in the top band.
	got = modelDefaults(80, 100)
	if got.OnTimePaymentRate != 0.90 {
		t.Fatalf("expected top band, got payment rate %v", got.OnTimePaymentRate)
	}
}

func TestResolveCallerValuesAlwaysWin(t *testing.T) {
	tickets := 2.5
	used := 12
	available := 20
	m := ClientMetrics{
		SupportTicketsPerMonth: &tickets,
		FeaturesUsed:           &used,
		FeaturesAvailable:      &available,
	}

	eng := resolve(m, ruleDefaults(10))

	if eng.tickets != 2.5 {
		t.Fatalf("expected caller ticket volume 2.5, got %v", eng.tickets)
	}
	if math.Abs(eng.featuresRatio-0.6) > 1e-9 {
		t.Fatalf("expected features ratio 0.6, got %v", eng.featuresRatio)
	}
	// Unsupplied fields come from the critical band.
	if eng.paymentRate != 0.65 {
		t.Fatalf("expected imputed payment rate 0.65, got %v", eng.paymentRate)
	}
}
