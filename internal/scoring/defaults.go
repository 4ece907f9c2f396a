package scoring

// Default imputation: most records arrive with only licenses, users and
// spend known, so the engagement signals the calculators need are
// synthesized from a coarse tier inferred from what is known. Two separate
// tables exist on purpose: the rule calculator's five bands are keyed on a
// blended indicator, while the model-facing four bands are keyed directly on
// utilization and spend-per-license. The downstream consumers were tuned
// against their own table's distributions, so the tables must not be merged.

// EngagementDefaults is one band's full tuple of synthesized signals.
type EngagementDefaults struct {
	OnTimePaymentRate      float64
	PaymentHistoryMonths   int
	SupportTicketsPerMonth float64
	AvgResolutionDays      float64
	SupportSatisfaction    float64
	FeaturesUsed           int
	FeaturesAvailable      int
	DaysSinceLastContact   int
	ContractAgeDays        int
}

// CombinedIndicator blends utilization and spend into a 0-100 health proxy:
// 90% utilization and $2000/month each max out their component.
func CombinedIndicator(utilizationPct, monthlySpend float64) float64 {
	utilScore := utilizationPct / 90 * 100
	if utilScore > 100 {
		utilScore = 100
	}
	spendScore := monthlySpend / 2000 * 100
	if spendScore > 100 {
		spendScore = 100
	}
	return utilScore*0.6 + spendScore*0.4
}

// ruleDefaults selects the rule-calculator band for a combined indicator.
// Poor core metrics correlate with poor engagement, so low bands synthesize
// pessimistic signals.
func ruleDefaults(indicator float64) EngagementDefaults {
	switch {
	case indicator < 40: // critical
		return EngagementDefaults{
			OnTimePaymentRate:      0.65,
			PaymentHistoryMonths:   4,
			SupportTicketsPerMonth: 6,
			AvgResolutionDays:      6,
			SupportSatisfaction:    0.55,
			FeaturesUsed:           2,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   120,
			ContractAgeDays:        120,
		}
	case indicator < 55: // poor
		return EngagementDefaults{
			OnTimePaymentRate:      0.75,
			PaymentHistoryMonths:   6,
			SupportTicketsPerMonth: 4,
			AvgResolutionDays:      4,
			SupportSatisfaction:    0.65,
			FeaturesUsed:           4,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   75,
			ContractAgeDays:        180,
		}
	case indicator < 70: // fair
		return EngagementDefaults{
			OnTimePaymentRate:      0.80,
			PaymentHistoryMonths:   8,
			SupportTicketsPerMonth: 3,
			AvgResolutionDays:      3,
			SupportSatisfaction:    0.72,
			FeaturesUsed:           5,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   50,
			ContractAgeDays:        250,
		}
	case indicator < 85: // good
		return EngagementDefaults{
			OnTimePaymentRate:      0.85,
			PaymentHistoryMonths:   9,
			SupportTicketsPerMonth: 3,
			AvgResolutionDays:      2,
			SupportSatisfaction:    0.78,
			FeaturesUsed:           7,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   30,
			ContractAgeDays:        300,
		}
	default: // excellent
		return EngagementDefaults{
			OnTimePaymentRate:      0.95,
			PaymentHistoryMonths:   12,
			SupportTicketsPerMonth: 1,
			AvgResolutionDays:      1,
			SupportSatisfaction:    0.90,
			FeaturesUsed:           10,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   14,
			ContractAgeDays:        365,
		}
	}
}

// modelDefaults selects the model-facing band directly from utilization
// percent and spend-per-license. Either signal being bad is enough to drop a
// client into a worse band.
func modelDefaults(utilizationPct, spendPerLicense float64) EngagementDefaults {
	switch {
	case utilizationPct < 20 || spendPerLicense < 5: // critical / at risk
		return EngagementDefaults{
			OnTimePaymentRate:      0.50,
			SupportTicketsPerMonth: 8,
			AvgResolutionDays:      8,
			SupportSatisfaction:    0.40,
			FeaturesUsed:           1,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   180,
			ContractAgeDays:        90,
		}
	case utilizationPct < 40 || spendPerLicense < 15: // poor
		return EngagementDefaults{
			OnTimePaymentRate:      0.75,
			SupportTicketsPerMonth: 4,
			AvgResolutionDays:      4,
			SupportSatisfaction:    0.65,
			FeaturesUsed:           4,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   75,
			ContractAgeDays:        180,
		}
	case utilizationPct < 60 || spendPerLicense < 25: // fair
		return EngagementDefaults{
			OnTimePaymentRate:      0.80,
			SupportTicketsPerMonth: 3,
			AvgResolutionDays:      3,
			SupportSatisfaction:    0.72,
			FeaturesUsed:           5,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   50,
			ContractAgeDays:        250,
		}
	default: // good / excellent
		return EngagementDefaults{
			OnTimePaymentRate:      0.90,
			SupportTicketsPerMonth: 2,
			AvgResolutionDays:      2,
			SupportSatisfaction:    0.85,
			FeaturesUsed:           8,
			FeaturesAvailable:      15,
			DaysSinceLastContact:   30,
			ContractAgeDays:        365,
		}
	}
}

// engagement holds the fully resolved signal values fed into a calculator.
type engagement struct {
	paymentRate      float64
	tickets          float64
	resolutionDays   float64
	satisfaction     float64
	featuresRatio    float64
	daysSinceContact float64
	contractAgeDays  float64
}

// resolve overlays caller-supplied values on a default band. Caller values
// always win; only nil fields are imputed.
func resolve(m ClientMetrics, d EngagementDefaults) engagement {
	featuresUsed := d.FeaturesUsed
	if m.FeaturesUsed != nil {
		featuresUsed = *m.FeaturesUsed
	}
	featuresAvailable := d.FeaturesAvailable
	if m.FeaturesAvailable != nil {
		featuresAvailable = *m.FeaturesAvailable
	}
	ratio := 0.0
	if featuresAvailable > 0 {
		ratio = float64(featuresUsed) / float64(featuresAvailable)
	}

	return engagement{
		paymentRate:      floatOr(m.OnTimePaymentRate, d.OnTimePaymentRate),
		tickets:          floatOr(m.SupportTicketsPerMonth, d.SupportTicketsPerMonth),
		resolutionDays:   floatOr(m.AvgResolutionDays, d.AvgResolutionDays),
		satisfaction:     floatOr(m.SupportSatisfaction, d.SupportSatisfaction),
		featuresRatio:    ratio,
		daysSinceContact: float64(intOr(m.DaysSinceLastContact, d.DaysSinceLastContact)),
		contractAgeDays:  float64(intOr(m.ContractAgeDays, d.ContractAgeDays)),
	}
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}
