package scoring

import (
	"math"
	"testing"
)

func TestUtilizationRatioZeroLicensesReturnsZero(t *testing.T) {
	if got := UtilizationRatio(25, 0); got != 0 {
		t.Fatalf("expected 0 utilization with zero licenses, got %v", got)
	}
	if got := UtilizationRatio(0, 0); got != 0 {
		t.Fatalf("expected 0 utilization with zero users and licenses, got %v", got)
	}
}

func TestUtilizationRatioMayExceedOne(t *testing.T) {
	got := UtilizationRatio(85, 30)
	want := 85.0 / 30.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDeriveZeroLicensesYieldsZeroRatiosWithoutPanic(t *testing.T) {
	m := ClientMetrics{TotalLicenses: 0, TotalUsers: 10, MonthlySpend: 500}
	d := Derive(m, 50)

	if d.UtilizationRatio != 0 {
		t.Fatalf("expected zero utilization ratio, got %v", d.UtilizationRatio)
	}
	if d.SpendPerLicense != 0 {
		t.Fatalf("expected zero spend per license, got %v", d.SpendPerLicense)
	}
	if d.SpendPerUser != 50 {
		t.Fatalf("expected spend per user 50, got %v", d.SpendPerUser)
	}
}

func TestTierBoundariesAreExclusive(t *testing.T) {
	// A value exactly on a threshold belongs to the lower tier.
	cases := []struct {
		ratio float64
		want  int
	}{
		{0.5, 0},
		{0.51, 1},
		{1.0, 1},
		{1.01, 2},
		{2.0, 2},
		{2.5, 3},
		{2.51, 4},
	}
	for _, tc := range cases {
		if got := utilCategory(tc.ratio); got != tc.want {
			t.Fatalf("utilCategory(%v) = %d, want %d", tc.ratio, got, tc.want)
		}
	}

	if got := spendCategory(5000); got != 0 {
		t.Fatalf("spendCategory(5000) = %d, want 0", got)
	}
	if got := spendCategory(5000.01); got != 1 {
		t.Fatalf("spendCategory(5000.01) = %d, want 1", got)
	}
	if got := healthCategory(85); got != 3 {
		t.Fatalf("healthCategory(85) = %d, want 3", got)
	}
	if got := healthCategory(55); got != 0 {
		t.Fatalf("healthCategory(55) = %d, want 0", got)
	}
	if got := healthCategory(55.4); got != 1 {
		t.Fatalf("healthCategory(55.4) = %d, want 1", got)
	}
	if got := spendPerLicenseCategory(200); got != 3 {
		t.Fatalf("spendPerLicenseCategory(200) = %d, want 3", got)
	}
}

func TestDeriveComputesInteractingTiers(t *testing.T) {
	m := ClientMetrics{TotalLicenses: 30, TotalUsers: 85, MonthlySpend: 8500}
	d := Derive(m, 55.4)

	if d.UtilCategory != 4 {
		t.Fatalf("expected util category 4 at 283%% utilization, got %d", d.UtilCategory)
	}
	if d.SpendCategory != 2 {
		t.Fatalf("expected spend category 2 at $8500, got %d", d.SpendCategory)
	}
	if d.HealthCategory != 1 {
		t.Fatalf("expected health category 1 at 55.4, got %d", d.HealthCategory)
	}
	if d.SpendPerLicenseCategory != 4 {
		t.Fatalf("expected spend-per-license category 4 at %v, got %d", d.SpendPerLicense, d.SpendPerLicenseCategory)
	}
}
