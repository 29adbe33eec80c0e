package model

import (
	"context"
	"fmt"
	"math"
	"sync"

	"forecast-go/pkg/logger"
	"forecast-go/pkg/worker"
)

// progressThreshold is the row count above which projection runs report
// periodic progress.
const progressThreshold = 100

// round1 rounds to one decimal place, the resolution of every traffic
// and score figure this model reports.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Projector orchestrates the rank estimator and the CTR model across all
// rows and months, producing the flat per-keyword-per-month records the
// aggregator consumes.
type Projector struct {
	policy   Policy
	ranks    *RankEstimator
	ctr      *CTRModel
	intents  *IntentScorer
	clusters *ClusterAnalyzer
	log      *logger.Logger

	pool              *worker.Pool
	parallelThreshold int
}

// NewProjector creates a projector from the given policy.
func NewProjector(policy Policy) *Projector {
	return &Projector{
		policy:   policy,
		ranks:    NewRankEstimator(policy),
		ctr:      NewCTRModel(policy),
		intents:  NewIntentScorer(policy),
		clusters: NewClusterAnalyzer(policy),
		log:      logger.GetLogger().WithField("component", "projector"),
	}
}

// WithPool enables concurrent projection: row-sets of at least threshold
// rows fan out across the pool. Output is identical to the sequential
// path since every row is independent and records land in per-row slots.
func (p *Projector) WithPool(pool *worker.Pool, threshold int) *Projector {
	p.pool = pool
	if threshold < 1 {
		threshold = 1
	}
	p.parallelThreshold = threshold
	return p
}

// Project runs the full simulation: cluster annotation, one trajectory
// per row, one record per row per month. Input rows are not mutated.
func (p *Projector) Project(ctx context.Context, rows []KeywordRow, months int, mode Mode) ([]MonthlyRecord, error) {
	if months < 1 {
		return nil, fmt.Errorf("months must be at least 1, got %d", months)
	}
	if _, ok := p.policy.Steps[mode]; !ok {
		return nil, fmt.Errorf("unknown projection mode: %q", mode)
	}
	for i, row := range rows {
		if row.AssignedPage == "" {
			return nil, fmt.Errorf("row %d (%q) has no assigned page", i, row.Keyword)
		}
		if row.SearchVolume < 0 {
			return nil, fmt.Errorf("row %d (%q) has negative search volume", i, row.Keyword)
		}
	}

	annotated := p.clusters.Annotate(rows)
	eligible := p.clusters.Eligibility(annotated)

	p.log.WithFields(map[string]interface{}{
		"rows":   len(annotated),
		"months": months,
		"mode":   mode,
	}).Debug("Projecting traffic")

	var progress *logger.ProgressReporter
	if len(annotated) >= progressThreshold {
		progress = logger.NewProgressReporter(len(annotated), "keyword projection")
	}

	perRow := make([][]MonthlyRecord, len(annotated))
	if p.pool != nil && len(annotated) >= p.parallelThreshold {
		p.projectConcurrent(ctx, annotated, eligible, months, mode, perRow, progress)
	} else {
		for i, row := range annotated {
			perRow[i] = p.projectRow(row, eligible[row.ClusterGroup], months, mode)
			if progress != nil {
				progress.Add(1)
			}
		}
	}
	if progress != nil {
		progress.Done()
	}

	records := make([]MonthlyRecord, 0, len(annotated)*months)
	for _, rowRecords := range perRow {
		records = append(records, rowRecords...)
	}
	return records, nil
}

// projectConcurrent fans rows out across the pool. Rows that cannot be
// queued run inline so a full queue degrades to sequential work instead
// of failing the projection.
func (p *Projector) projectConcurrent(ctx context.Context, rows []KeywordRow, eligible map[string]bool, months int, mode Mode, perRow [][]MonthlyRecord, progress *logger.ProgressReporter) {
	var wg sync.WaitGroup
	for i, row := range rows {
		i, row := i, row
		boost := eligible[row.ClusterGroup]

		wg.Add(1)
		task := func(context.Context) error {
			defer wg.Done()
			perRow[i] = p.projectRow(row, boost, months, mode)
			if progress != nil {
				progress.Add(1)
			}
			return nil
		}
		if err := p.pool.SubmitFunc(fmt.Sprintf("project-row-%d", i), task); err != nil {
			task(ctx)
		}
	}
	wg.Wait()
}

// projectRow simulates one keyword. Once the trajectory first reaches the
// difficulty floor, the traffic value of that month is frozen and repeated
// for every later month: no further gain once rank has bottomed out. The
// freeze is deliberate model behavior, not an optimization.
func (p *Projector) projectRow(row KeywordRow, clusterBoost bool, months int, mode Mode) []MonthlyRecord {
	trajectory := p.ranks.EstimateTrajectory(row.Difficulty, months, mode, clusterBoost)
	floor := p.ranks.FloorRank(row.Difficulty)
	intentScore, intentResolved := p.intents.Score(row.Intent)

	records := make([]MonthlyRecord, 0, months)
	frozen := false
	frozenTraffic := 0.0
	for i, rank := range trajectory {
		var traffic float64
		if frozen {
			traffic = frozenTraffic
		} else {
			ctr, err := p.ctr.Estimate(rank)
			if err != nil {
				// Trajectory ranks are always >= 1, so this cannot
				// fire; treat it as zero traffic rather than failing
				// the whole run.
				ctr = 0
			}
			traffic = round1(row.SearchVolume * ctr)
			if rank == floor {
				frozen = true
				frozenTraffic = traffic
			}
		}
		records = append(records, MonthlyRecord{
			Page:             row.AssignedPage,
			Month:            i + 1,
			EstimatedTraffic: traffic,
			Difficulty:       row.Difficulty,
			IntentScore:      intentScore,
			IntentResolved:   intentResolved,
			ClusterGroup:     row.ClusterGroup,
		})
	}
	return records
}
