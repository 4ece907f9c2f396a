package scoring

import (
	"context"
	"fmt"
)

// healthFeatureNames is the fixed 13-dimensional input layout of the trained
// health model. Order matters: the scaler was fitted against it.
var healthFeatureNames = []string{
	"total_licenses",
	"total_users",
	"monthly_spend",
	"utilization_ratio",
	"spend_per_license",
	"spend_per_user",
	"on_time_payment_rate",
	"support_tickets_per_month",
	"avg_resolution_days",
	"support_satisfaction",
	"features_used_ratio",
	"days_since_last_contact",
	"contract_age_days",
}

// modelHealthStrategy feeds a 13-feature vector through the trained
// regression model. Unknown engagement signals are imputed from the
// model-facing four-band table before vectorization.
type modelHealthStrategy struct {
	models *Manager
}

func (modelHealthStrategy) Name() string { return "model" }

func (s modelHealthStrategy) Score(ctx context.Context, m ClientMetrics) (float64, error) {
	model, err := s.models.Health(ctx)
	if err != nil {
		return 0, fmt.Errorf("health model unavailable: %w", err)
	}

	prediction, err := model.Predict(healthFeatureVector(m))
	if err != nil {
		return 0, fmt.Errorf("health model predict: %w", err)
	}
	return round1(clamp(prediction, 0, 100)), nil
}

func healthFeatureVector(m ClientMetrics) []float64 {
	derived := Derive(m, 0)
	utilPct := derived.UtilizationRatio * 100
	eng := resolve(m, modelDefaults(utilPct, derived.SpendPerLicense))

	return []float64{
		float64(m.TotalLicenses),
		float64(m.TotalUsers),
		m.MonthlySpend,
		derived.UtilizationRatio,
		derived.SpendPerLicense,
		derived.SpendPerUser,
		eng.paymentRate,
		eng.tickets,
		eng.resolutionDays,
		eng.satisfaction,
		eng.featuresRatio,
		eng.daysSinceContact,
		eng.contractAgeDays,
	}
}
