package scoring

import "context"

// basicHealthStrategy is the minimal linear heuristic used when neither the
// trained model nor the rule calculator is available: utilization (40 pts),
// spend level (30 pts) and contract-value alignment (30 pts).
type basicHealthStrategy struct{}

func (basicHealthStrategy) Name() string { return "basic" }

func (basicHealthStrategy) Score(_ context.Context, m ClientMetrics) (float64, error) {
	utilization := UtilizationRatio(m.TotalUsers, m.TotalLicenses) * 100

	var score float64
	switch {
	case utilization >= 70 && utilization <= 90:
		score += 40
	case (utilization >= 60 && utilization < 70) || (utilization > 90 && utilization <= 95):
		score += 35
	case utilization > 95:
		score += 30
	default:
		score += max(0, utilization*0.4)
	}

	switch {
	case m.MonthlySpend >= 5000:
		score += 30
	case m.MonthlySpend >= 2000:
		score += 25
	case m.MonthlySpend >= 1000:
		score += 20
	default:
		score += max(0, m.MonthlySpend/1000*20)
	}

	if m.ContractValue != nil && *m.ContractValue > 0 {
		ratio := m.MonthlySpend * 12 / *m.ContractValue
		switch {
		case ratio >= 0.8 && ratio <= 1.2:
			score += 30
		case (ratio >= 0.6 && ratio < 0.8) || (ratio > 1.2 && ratio <= 1.5):
			score += 20
		default:
			score += 10
		}
	} else {
		// No contract on record: partial credit rather than a zero component.
		score += 15
	}

	return round1(clamp(score, 0, 100)), nil
}
