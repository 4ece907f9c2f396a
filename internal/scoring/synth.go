package scoring

import (
	"math"
	"math/rand"
)

// Synthetic training data. No production training corpus exists; the models
// are fitted against generated samples whose targets encode the documented
// business rules, so the trained strategies reproduce the rule surface while
// smoothing its band edges.

const trainingSamples = 1000

// healthTrainingData generates feature rows in healthFeatureNames order with
// targets from the rule calculator plus gaussian noise, clipped to [0,100].
func healthTrainingData(seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))

	rows := make([][]float64, 0, trainingSamples)
	targets := make([]float64, 0, trainingSamples)

	for i := 0; i < trainingSamples; i++ {
		licenses := rng.Intn(490) + 10
		users := int(float64(licenses) * uniform(rng, 0.1, 1.5))
		spend := float64(licenses) * uniform(rng, 5, 100)

		ratio := float64(users) / float64(licenses)
		spendPerLicense := spend / float64(licenses)
		spendPerUser := spend
		if users > 0 {
			spendPerUser = spend / float64(users)
		}

		eng := engagement{
			paymentRate:      uniform(rng, 0.6, 1.0),
			tickets:          float64(poisson(rng, 3)),
			resolutionDays:   uniform(rng, 1, 7),
			satisfaction:     uniform(rng, 0.5, 1.0),
			featuresRatio:    uniform(rng, 0.2, 0.9),
			daysSinceContact: float64(rng.Intn(119) + 1),
			contractAgeDays:  float64(rng.Intn(700) + 30),
		}

		rows = append(rows, []float64{
			float64(licenses),
			float64(users),
			spend,
			ratio,
			spendPerLicense,
			spendPerUser,
			eng.paymentRate,
			eng.tickets,
			eng.resolutionDays,
			eng.satisfaction,
			eng.featuresRatio,
			eng.daysSinceContact,
			eng.contractAgeDays,
		})

		target := ruleScore(ratio*100, spend, spendPerLicense, eng) + rng.NormFloat64()*3
		targets = append(targets, clamp(target, 0, 100))
	}

	return rows, targets
}

// churnTrainingData generates feature rows in churnFeatureNames order with
// churn targets on a 0-100 scale. The tier mix encodes the key domain rule:
// very high utilization (>250%) is strongly churn-protective unless health
// is also poor, while medium utilization with low spend is high risk
// regardless of health. The advanced set appends extra samples that pin
// those regions down harder for the ensemble strategy.
func churnTrainingData(seed int64, advanced bool) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))

	var rows [][]float64
	var targets []float64
	appendSample := func(licenses, users int, spend, health, churn float64) {
		features, _ := churnFeatureVector(licenses, users, spend, health)
		rows = append(rows, features)
		targets = append(targets, churn*100)
	}

	for i := 0; i < trainingSamples; i++ {
		licenses := rng.Intn(240) + 10

		var users int
		var spend, health, churn float64

		switch tier := rng.Float64(); {
		case tier < 0.20: // very high utilization: 250-400%
			users = int(float64(licenses) * uniform(rng, 2.5, 4.0))
			switch {
			case rng.Float64() < 0.30:
				spend = uniform(rng, 10000, 25000)
				health = uniform(rng, 85, 100)
				churn = uniform(rng, 0.05, 0.15)
			case rng.Float64() < 0.35:
				spend = uniform(rng, 7000, 12000)
				health = uniform(rng, 50, 85)
				switch {
				case health < 60:
					churn = uniform(rng, 0.60, 0.75)
				case health < 70:
					churn = uniform(rng, 0.50, 0.68)
				default:
					churn = uniform(rng, 0.08, 0.25)
				}
			case rng.Float64() < 0.40:
				spend = uniform(rng, 4000, 7000)
				health = uniform(rng, 65, 88)
				if health < 70 {
					churn = uniform(rng, 0.45, 0.65)
				} else {
					churn = uniform(rng, 0.15, 0.35)
				}
			default:
				// Lower spend, still protected by engagement unless health
				// overrides the protection.
				spend = uniform(rng, 1500, 4000)
				health = uniform(rng, 60, 85)
				if health < 70 {
					churn = uniform(rng, 0.70, 0.90)
				} else {
					churn = uniform(rng, 0.08, 0.25)
				}
			}
		case tier < 0.45: // high utilization: 150-280%
			users = int(float64(licenses) * uniform(rng, 1.5, 2.8))
			if rng.Float64() < 0.5 {
				spend = uniform(rng, 8000, 20000)
				health = uniform(rng, 75, 95)
				churn = uniform(rng, 0.15, 0.40)
			} else {
				spend = uniform(rng, 3000, 10000)
				health = uniform(rng, 60, 80)
				if health < 70 {
					churn = uniform(rng, 0.65, 0.85)
				} else {
					churn = uniform(rng, 0.30, 0.55)
				}
			}
		case tier < 0.75: // medium utilization: 50-180%
			users = int(float64(licenses) * uniform(rng, 0.5, 1.8))
			if rng.Float64() < 0.3 {
				spend = uniform(rng, 5000, 15000)
				health = uniform(rng, 65, 85)
				churn = uniform(rng, 0.35, 0.60)
			} else {
				spend = uniform(rng, 1000, 7000)
				health = uniform(rng, 50, 75)
				churn = uniform(rng, 0.55, 0.80)
			}
		default: // low utilization: <50%
			users = int(float64(licenses) * uniform(rng, 0.05, 0.7))
			spend = uniform(rng, 500, 5000)
			health = uniform(rng, 40, 70)
			churn = uniform(rng, 0.70, 0.95)
		}

		appendSample(licenses, users, spend, health, churn)
	}

	if advanced {
		for i := 0; i < 200; i++ {
			licenses := rng.Intn(140) + 10

			// Very high utilization with poor health: protection is overridden.
			users := int(float64(licenses) * uniform(rng, 2.5, 3.5))
			appendSample(licenses, users, uniform(rng, 7000, 12000),
				uniform(rng, 50, 60), uniform(rng, 0.60, 0.72))

			// Very high utilization with decent health and low spend: protected.
			appendSample(licenses, users, uniform(rng, 1500, 4000),
				uniform(rng, 72, 85), uniform(rng, 0.08, 0.22))

			// Medium utilization with low spend: high risk regardless of health.
			mediumUsers := int(float64(licenses) * uniform(rng, 0.5, 1.5))
			appendSample(licenses, mediumUsers, uniform(rng, 800, 4000),
				uniform(rng, 55, 80), uniform(rng, 0.60, 0.85))
		}
	}

	return rows, targets
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// poisson draws a Poisson-distributed count via Knuth's method; lambda is
// small here so the loop is cheap.
func poisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
