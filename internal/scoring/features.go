package scoring

// Feature derivation is pure and total: every branch returns, zero licenses
// yields zero ratios instead of dividing, and a utilization ratio above 1.0
// is a valid signal (shared seats or undercounted licenses), not an error.

// UtilizationRatio returns users/licenses, or 0 when no licenses exist.
func UtilizationRatio(users, licenses int) float64 {
	if licenses <= 0 {
		return 0
	}
	return float64(users) / float64(licenses)
}

// Derive computes ratios and ordinal tiers for the metrics. healthScore is
// passed separately because it may have just been computed rather than
// carried on the record.
func Derive(m ClientMetrics, healthScore float64) DerivedFeatures {
	ratio := UtilizationRatio(m.TotalUsers, m.TotalLicenses)

	spendPerLicense := 0.0
	if m.TotalLicenses > 0 {
		spendPerLicense = m.MonthlySpend / float64(m.TotalLicenses)
	}
	spendPerUser := 0.0
	if m.TotalUsers > 0 {
		spendPerUser = m.MonthlySpend / float64(m.TotalUsers)
	}

	return DerivedFeatures{
		UtilizationRatio:        ratio,
		SpendPerLicense:         spendPerLicense,
		SpendPerUser:            spendPerUser,
		UtilCategory:            utilCategory(ratio),
		SpendCategory:           spendCategory(m.MonthlySpend),
		HealthCategory:          healthCategory(healthScore),
		SpendPerLicenseCategory: spendPerLicenseCategory(spendPerLicense),
	}
}

// Tier thresholds are exclusive: a boundary value falls in the lower tier.

func utilCategory(ratio float64) int {
	switch {
	case ratio > 2.5:
		return 4
	case ratio > 2.0:
		return 3
	case ratio > 1.0:
		return 2
	case ratio > 0.5:
		return 1
	default:
		return 0
	}
}

func spendCategory(monthlySpend float64) int {
	switch {
	case monthlySpend > 15000:
		return 4
	case monthlySpend > 10000:
		return 3
	case monthlySpend > 8000:
		return 2
	case monthlySpend > 5000:
		return 1
	default:
		return 0
	}
}

func spendPerLicenseCategory(spendPerLicense float64) int {
	switch {
	case spendPerLicense > 200:
		return 4
	case spendPerLicense > 150:
		return 3
	case spendPerLicense > 100:
		return 2
	case spendPerLicense > 50:
		return 1
	default:
		return 0
	}
}

func healthCategory(score float64) int {
	switch {
	case score > 85:
		return 4
	case score > 75:
		return 3
	case score > 65:
		return 2
	case score > 55:
		return 1
	default:
		return 0
	}
}
