package scoring

import "context"

// ruleHealthStrategy is the weighted rule calculator: five subscores
// (utilization 35%, support 15%, contract stability 25%, feature adoption
// 5%, communication recency 5%) plus a stacked critical-client penalty.
// Engagement inputs come from the five-band combined-indicator table unless
// the caller supplied them.
type ruleHealthStrategy struct{}

func (ruleHealthStrategy) Name() string { return "rules" }

func (ruleHealthStrategy) Score(_ context.Context, m ClientMetrics) (float64, error) {
	utilPct := UtilizationRatio(m.TotalUsers, m.TotalLicenses) * 100
	spendPerLicense := 0.0
	if m.TotalLicenses > 0 {
		spendPerLicense = m.MonthlySpend / float64(m.TotalLicenses)
	}

	defaults := ruleDefaults(CombinedIndicator(utilPct, m.MonthlySpend))
	eng := resolve(m, defaults)

	score := ruleScore(utilPct, m.MonthlySpend, spendPerLicense, eng)
	return round1(clamp(score, 0, 100)), nil
}

// ruleScore computes the raw weighted score. It is shared with the synthetic
// training-data generator so the trained model approximates the same
// surface.
func ruleScore(utilPct, monthlySpend, spendPerLicense float64, eng engagement) float64 {
	score := utilizationSubscore(utilPct) * 0.35
	score += supportSubscore(eng) * 0.15
	score += contractSubscore(monthlySpend, spendPerLicense, eng.contractAgeDays) * 0.25
	score += adoptionSubscore(eng.featuresRatio) * 0.05
	score += communicationSubscore(eng.daysSinceContact) * 0.05

	// Critical-client penalty stacks after the weighted sum: only when both
	// utilization and per-license spend are terrible at the same time.
	if utilPct < 20 && spendPerLicense < 5 {
		if utilPct < 10 {
			score *= 0.65
		} else {
			score *= 0.80
		}
	}
	return score
}

// utilizationSubscore peaks at 70-90% with graduated penalties on both
// sides. The 70 and 90 boundaries are inside the optimal band.
func utilizationSubscore(utilPct float64) float64 {
	switch {
	case utilPct >= 70 && utilPct <= 90:
		return 100
	case utilPct >= 60 && utilPct < 70:
		return 85
	case utilPct >= 50 && utilPct < 60:
		return 70
	case utilPct >= 40 && utilPct < 50:
		return 55
	case utilPct >= 30 && utilPct < 40:
		return 40
	case utilPct >= 20 && utilPct < 30:
		return 30
	case utilPct >= 10 && utilPct < 20:
		return 20
	case utilPct < 10:
		return max(5, utilPct*1.5)
	case utilPct > 90 && utilPct <= 100:
		return 90
	default: // >100%: heavy over-utilization penalty
		return max(5, 85-(utilPct-100)*3)
	}
}

func supportSubscore(eng engagement) float64 {
	ticketScore := 70.0
	if eng.tickets >= 1 && eng.tickets <= 4 {
		ticketScore = 100
	}
	resolutionScore := max(0, 100-eng.resolutionDays*10)
	return ticketScore*0.3 + resolutionScore*0.3 + eng.satisfaction*100*0.4
}

func contractSubscore(monthlySpend, spendPerLicense, contractAgeDays float64) float64 {
	ageScore := contractAgeDays / 365 * 100
	if ageScore > 100 {
		ageScore = 100
	}

	var spendStability float64
	switch {
	case monthlySpend >= 5000:
		spendStability = 100
	case monthlySpend >= 2000:
		spendStability = 85
	case monthlySpend >= 1000:
		spendStability = 65
	case monthlySpend >= 500:
		spendStability = 45
	case monthlySpend >= 200:
		spendStability = 30
	default:
		base := monthlySpend / 200 * 30
		if spendPerLicense < 5 {
			base *= 0.5
		}
		spendStability = max(5, base)
	}

	return ageScore*0.3 + spendStability*0.7
}

// adoptionSubscore grants full credit at 70% feature adoption.
func adoptionSubscore(featuresRatio float64) float64 {
	score := featuresRatio / 0.7 * 100
	if score > 100 {
		return 100
	}
	return score
}

func communicationSubscore(daysSinceContact float64) float64 {
	switch {
	case daysSinceContact <= 14:
		return 100
	case daysSinceContact <= 30:
		return 85
	case daysSinceContact <= 60:
		return 70
	case daysSinceContact <= 90:
		return 50
	default:
		return max(0, 50-(daysSinceContact-90)*0.5)
	}
}
