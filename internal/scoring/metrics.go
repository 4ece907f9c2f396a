// Package scoring implements the client scoring engine: a layered health
// score calculator (0-100) and churn risk predictor (0.05-0.95) working over
// sparse account metrics. The engine is a pure function-call surface with no
// knowledge of HTTP or persistence; the clients module feeds it metrics and
// stores whatever comes back.
package scoring

import "math"

// ClientMetrics is the caller-owned input record for one scoring call.
// Optional engagement signals are pointers; nil means the caller does not
// know the value and the imputation layer should synthesize one.
type ClientMetrics struct {
	TotalLicenses int
	TotalUsers    int
	MonthlySpend  float64
	ContractValue *float64

	// HealthScore carries a manual override on mutation paths and the
	// just-computed score on churn paths. nil, 0 and 0.0 all mean "no
	// manual value"; only a value > 0 is an override.
	HealthScore *float64

	OnTimePaymentRate      *float64
	SupportTicketsPerMonth *float64
	AvgResolutionDays      *float64
	SupportSatisfaction    *float64
	FeaturesUsed           *int
	FeaturesAvailable      *int
	DaysSinceLastContact   *int
	ContractAgeDays        *int
}

// DerivedFeatures are the ratios and ordinal tiers computed fresh on every
// call; they are never cached or persisted.
type DerivedFeatures struct {
	UtilizationRatio float64
	SpendPerLicense  float64
	SpendPerUser     float64

	UtilCategory            int
	SpendCategory           int
	HealthCategory          int
	SpendPerLicenseCategory int
}

// RiskLevel is the churn risk band exposed to callers.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Severity grades a contributing factor.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Factor is one human-readable contributor to a churn prediction.
type Factor struct {
	Factor      string   `json:"factor"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Prediction is the structured churn result.
type Prediction struct {
	Probability     float64   `json:"probability"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Factors         []Factor  `json:"factors"`
	Recommendations []string  `json:"recommendations"`
}

// ScoreResult bundles both engine outputs for one mutation. A nil
// HealthScore means "score unavailable", never zero.
type ScoreResult struct {
	HealthScore *float64    `json:"healthScore"`
	Churn       *Prediction `json:"churn"`
}

// riskLevelFor applies the uniform banding: <0.30 low, [0.30,0.70) medium,
// >=0.70 high.
func riskLevelFor(probability float64) RiskLevel {
	switch {
	case probability < 0.30:
		return RiskLow
	case probability < 0.70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place, the precision scores are stored at.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
