package scoring

import (
	"context"
	"fmt"

	"msp_portal_backend/internal/mlkit"
)

// churnFeatureNames is the fixed 12-dimensional input layout of the trained
// churn models: raw metrics, derived ratios, the four ordinal tiers, and a
// spend-times-health interaction term.
var churnFeatureNames = []string{
	"total_licenses",
	"total_users",
	"monthly_spend",
	"utilization_ratio",
	"spend_per_license",
	"spend_per_user",
	"health_score",
	"util_category",
	"spend_category",
	"health_category",
	"spend_per_license_category",
	"spend_health_interaction",
}

// modelChurnStrategy feeds the tier-based feature vector through a trained
// regression model. The model predicts churn on a 0-100 scale; the result is
// divided by 100 and clipped to [0.05,0.95].
type modelChurnStrategy struct {
	models *Manager
	// advanced selects the ensemble artifact, which is trained with the
	// utilization-dominance rules weighted more aggressively.
	advanced bool
}

func (s modelChurnStrategy) Name() string {
	if s.advanced {
		return "advanced"
	}
	return "model"
}

func (s modelChurnStrategy) Predict(ctx context.Context, m ClientMetrics) (Prediction, error) {
	var (
		model *mlkit.Model
		err   error
	)
	if s.advanced {
		model, err = s.models.ChurnEnsemble(ctx)
	} else {
		model, err = s.models.Churn(ctx)
	}
	if err != nil {
		return Prediction{}, fmt.Errorf("churn model unavailable: %w", err)
	}

	licenses, users, spend, health := churnInputs(m)
	features, derived := churnFeatureVector(licenses, users, spend, health)

	percent, err := model.Predict(features)
	if err != nil {
		return Prediction{}, fmt.Errorf("churn model predict: %w", err)
	}

	probability := clamp(percent/100, 0.05, 0.95)
	level := riskLevelFor(probability)
	factors, recommendations := churnModelDiagnostics(level, derived, spend, health)

	return Prediction{
		Probability:     probability,
		RiskLevel:       level,
		Factors:         factors,
		Recommendations: recommendations,
	}, nil
}

func churnFeatureVector(licenses, users int, spend, health float64) ([]float64, DerivedFeatures) {
	metrics := ClientMetrics{
		TotalLicenses: licenses,
		TotalUsers:    users,
		MonthlySpend:  spend,
	}
	derived := Derive(metrics, health)

	return []float64{
		float64(licenses),
		float64(users),
		spend,
		derived.UtilizationRatio,
		derived.SpendPerLicense,
		derived.SpendPerUser,
		health,
		float64(derived.UtilCategory),
		float64(derived.SpendCategory),
		float64(derived.HealthCategory),
		float64(derived.SpendPerLicenseCategory),
		spend * health,
	}, derived
}

// churnModelDiagnostics emits the human-readable contributors and advice for
// the trained strategies. Utilization first (it dominates the model), then
// spend, then health; generic risk advice is folded in by position so the
// five-entry cap keeps the most important lines.
func churnModelDiagnostics(level RiskLevel, derived DerivedFeatures, spend, health float64) ([]Factor, []string) {
	var factors []Factor
	var recs []string

	switch level {
	case RiskHigh:
		recs = append(recs, "Schedule immediate retention call")
	case RiskMedium:
		recs = append(recs, "Monitor engagement metrics closely")
	}

	utilPct := derived.UtilizationRatio * 100
	switch {
	case utilPct > 250:
		factors = append(factors, Factor{
			Factor:      "Excellent utilization",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Excellent utilization (%.0f%%)", utilPct),
		})
		recs = append(recs, "Maintain high engagement levels")
	case utilPct > 200:
		factors = append(factors, Factor{
			Factor:      "Very good utilization",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Very good utilization (%.0f%%)", utilPct),
		})
		recs = append(recs, "Continue current engagement strategy")
	case utilPct > 100:
		factors = append(factors, Factor{
			Factor:      "Good utilization",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Good utilization (%.0f%%)", utilPct),
		})
		recs = append(recs, "Monitor for any decline in usage")
	case utilPct > 50:
		factors = append(factors, Factor{
			Factor:      "Fair utilization",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Fair utilization (%.0f%%)", utilPct),
		})
		recs = append(recs, "Investigate barriers to adoption")
	default:
		factors = append(factors, Factor{
			Factor:      "Low utilization",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Low utilization (%.0f%%)", utilPct),
		})
		recs = append(recs, "URGENT: Address low adoption immediately")
	}

	if derived.SpendPerLicense < 50 {
		factors = append(factors, Factor{
			Factor:      "Low spend per license",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Low spend per license ($%.0f)", derived.SpendPerLicense),
		})
		recs = append(recs, "Review pricing and value proposition")
	} else if spend > 10000 {
		factors = append(factors, Factor{
			Factor:      "Strong revenue",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Strong revenue ($%.0f/mo)", spend),
		})
		recs = append(recs, "Consider upsell opportunities")
	}

	if health < 60 {
		factors = append(factors, Factor{
			Factor:      "Poor health score",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Poor health score (%.1f)", health),
		})
		recs = append(recs, "Schedule immediate intervention")
	} else if health > 85 {
		factors = append(factors, Factor{
			Factor:      "Excellent health score",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Excellent health score (%.1f)", health),
		})
		recs = append(recs, "Maintain strong relationship")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return factors, recs
}
