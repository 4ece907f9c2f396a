package scoring

import (
	"context"
	"fmt"
)

// churnDefaults are the stand-in core metrics when a caller somehow reaches
// the churn engine without them. A missing health score defaults to 50 on
// every churn path.
const (
	defaultLicenses    = 50
	defaultUsers       = 40
	defaultSpend       = 2000.0
	defaultHealthScore = 50.0
)

// ruleChurnStrategy is the additive rule model: start from a 0.5 base
// probability and apply four independent adjustments (utilization,
// spend-per-license, health score, total spend), then clip to [0.05,0.95].
type ruleChurnStrategy struct{}

func (ruleChurnStrategy) Name() string { return "rules" }

func (ruleChurnStrategy) Predict(_ context.Context, m ClientMetrics) (Prediction, error) {
	licenses, users, spend, health := churnInputs(m)

	utilization := UtilizationRatio(users, licenses) * 100
	spendPerLicense := 0.0
	if licenses > 0 {
		spendPerLicense = spend / float64(licenses)
	}

	probability := 0.5
	var factors []Factor

	// Utilization: optimal 70-90%, underutilization is the strongest signal.
	// Exactly 40% falls in the below-average band, not the low one.
	switch {
	case utilization < 40:
		probability += 0.25
		factors = append(factors, Factor{
			Factor:      "Low utilization",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Only %.1f%% license utilization (very low)", utilization),
		})
	case utilization < 60:
		probability += 0.15
		factors = append(factors, Factor{
			Factor:      "Below average utilization",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%.1f%% license utilization", utilization),
		})
	case utilization > 95:
		probability += 0.10
		factors = append(factors, Factor{
			Factor:      "Over-utilization",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%.1f%% license utilization (may need more licenses)", utilization),
		})
	case utilization >= 70 && utilization <= 90:
		probability -= 0.15
	}

	switch {
	case spendPerLicense < 10:
		probability += 0.20
		factors = append(factors, Factor{
			Factor:      "Very low spend per license",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Only $%.2f per license per month", spendPerLicense),
		})
	case spendPerLicense < 20:
		probability += 0.10
		factors = append(factors, Factor{
			Factor:      "Low spend per license",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("$%.2f per license per month", spendPerLicense),
		})
	case spendPerLicense >= 30:
		probability -= 0.10
	}

	switch {
	case health < 50:
		probability += 0.20
		factors = append(factors, Factor{
			Factor:      "Poor health score",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Health score of %.1f indicates serious issues", health),
		})
	case health < 70:
		probability += 0.10
		factors = append(factors, Factor{
			Factor:      "Fair health score",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Health score of %.1f needs improvement", health),
		})
	case health >= 85:
		probability -= 0.15
	}

	switch {
	case spend < 500:
		probability += 0.10
		factors = append(factors, Factor{
			Factor:      "Low total revenue",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Only $%.2f monthly revenue", spend),
		})
	case spend >= 5000:
		probability -= 0.10
	}

	probability = clamp(probability, 0.05, 0.95)
	level := riskLevelFor(probability)

	return Prediction{
		Probability:     probability,
		RiskLevel:       level,
		Factors:         factors,
		Recommendations: ruleRecommendations(level, utilization, health, spend),
	}, nil
}

// ruleRecommendations orders risk-level-generic advice first, then
// factor-specific advice in factor-evaluation order, capped at five.
func ruleRecommendations(level RiskLevel, utilization, health, spend float64) []string {
	var recs []string

	switch level {
	case RiskHigh:
		recs = append(recs,
			"URGENT: Schedule immediate retention call",
			"Review and address all pain points",
			"Consider offering special incentives or discounts")
	case RiskMedium:
		recs = append(recs,
			"Proactive check-in within 2 weeks",
			"Assess satisfaction and identify improvement areas")
	}

	if utilization < 50 {
		recs = append(recs,
			"Investigate why licenses are underutilized",
			"Offer training to increase user adoption")
	} else if utilization > 95 {
		recs = append(recs, "Discuss license expansion opportunities")
	}

	if health < 70 {
		recs = append(recs,
			"Focus on improving health metrics",
			"Increase support and engagement touchpoints")
	}

	if spend < 1000 {
		recs = append(recs,
			"Explore upsell opportunities",
			"Demonstrate additional value features")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

const maxRecommendations = 5

// churnInputs applies the churn-path defaults for absent core metrics.
func churnInputs(m ClientMetrics) (licenses, users int, spend, health float64) {
	licenses = m.TotalLicenses
	if licenses <= 0 {
		licenses = defaultLicenses
	}
	users = m.TotalUsers
	if users <= 0 {
		users = defaultUsers
	}
	spend = m.MonthlySpend
	if spend <= 0 {
		spend = defaultSpend
	}
	health = defaultHealthScore
	if m.HealthScore != nil && *m.HealthScore > 0 {
		health = *m.HealthScore
	}
	return licenses, users, spend, health
}
