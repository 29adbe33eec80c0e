package model

// Aggregator groups monthly records by page and computes the page-level
// summary table, including the composite final score.
type Aggregator struct {
	policy Policy
}

// NewAggregator creates an aggregator from the given policy.
func NewAggregator(policy Policy) *Aggregator {
	return &Aggregator{policy: policy}
}

type pageAccum struct {
	page           string
	monthly        []float64
	difficultySum  float64
	recordCount    int
	intentSum      float64
	intentResolved int
}

// Summarize produces one PageSummary per page. Output order is not
// guaranteed; callers sort explicitly. All numeric outputs are rounded
// to one decimal place.
//
// avgDifficulty is a mean over monthly records, so a keyword projected
// over N months carries N times the weight of a single difficulty value.
// The source model behaves this way and the quirk is preserved.
func (a *Aggregator) Summarize(records []MonthlyRecord, months int) []PageSummary {
	if months < 1 {
		return []PageSummary{}
	}

	accums := make(map[string]*pageAccum)
	order := make([]string, 0)
	for _, record := range records {
		accum, ok := accums[record.Page]
		if !ok {
			accum = &pageAccum{page: record.Page, monthly: make([]float64, months)}
			accums[record.Page] = accum
			order = append(order, record.Page)
		}
		if record.Month >= 1 && record.Month <= months {
			accum.monthly[record.Month-1] += record.EstimatedTraffic
		}
		accum.difficultySum += record.Difficulty
		accum.recordCount++
		if record.IntentResolved {
			accum.intentSum += record.IntentScore
			accum.intentResolved++
		}
	}

	summaries := make([]PageSummary, 0, len(accums))
	maxCumulative := 0.0
	for _, page := range order {
		accum := accums[page]
		cumulative := 0.0
		for i, traffic := range accum.monthly {
			accum.monthly[i] = round1(traffic)
			cumulative += accum.monthly[i]
		}
		cumulative = round1(cumulative)
		if cumulative > maxCumulative {
			maxCumulative = cumulative
		}

		avgDifficulty := 0.0
		if accum.recordCount > 0 {
			avgDifficulty = accum.difficultySum / float64(accum.recordCount)
		}
		avgIntent := 0.0
		if accum.intentResolved > 0 {
			avgIntent = accum.intentSum / float64(accum.intentResolved)
		}

		summaries = append(summaries, PageSummary{
			Page:            page,
			TrafficByMonth:  accum.monthly,
			CumulativeTotal: cumulative,
			AvgDifficulty:   round1(avgDifficulty),
			AvgIntentScore:  round1(avgIntent),
		})
	}

	for i := range summaries {
		summaries[i].FinalPageScore = a.finalScore(&summaries[i], maxCumulative)
	}
	return summaries
}

// finalScore blends traffic, ranking ease and intent value into the 0-100
// composite priority metric.
func (a *Aggregator) finalScore(summary *PageSummary, maxCumulative float64) float64 {
	trafficScore := 0.0
	if maxCumulative > 0 {
		trafficScore = 100 * summary.CumulativeTotal / maxCumulative
	}

	trafficWeight := a.policy.TrafficWeightLow
	if summary.CumulativeTotal >= a.policy.TrafficWeightGate {
		trafficWeight = a.policy.TrafficWeightHigh
	}

	easeScore := 100 - summary.AvgDifficulty
	intentScore := summary.AvgIntentScore

	score := trafficScore*trafficWeight*a.policy.Weights.Traffic +
		easeScore*a.policy.Weights.Ease +
		intentScore*a.policy.Weights.Intent

	if summary.CumulativeTotal < a.policy.LowTrafficThreshold {
		score *= a.policy.LowTrafficMultiplier
	}
	return round1(score)
}
