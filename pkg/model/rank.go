package model

// RankEstimator simulates month-over-month rank improvement for a single
// keyword. The simulation is deterministic: a difficulty bracket picks the
// starting rank, the current rank tier picks the monthly step, and a
// difficulty-dependent floor caps how far the keyword can climb.
type RankEstimator struct {
	policy Policy
}

// NewRankEstimator creates a rank estimator from the given policy.
func NewRankEstimator(policy Policy) *RankEstimator {
	return &RankEstimator{policy: policy}
}

// StartingRank returns the rank a keyword of this difficulty begins at.
func (e *RankEstimator) StartingRank(difficulty float64) int {
	for _, bracket := range e.policy.StartBrackets {
		if difficulty < bracket.Below {
			return bracket.Rank
		}
	}
	return e.policy.DefaultStartRank
}

// FloorRank returns the best rank a keyword of this difficulty can reach.
func (e *RankEstimator) FloorRank(difficulty float64) int {
	for _, bracket := range e.policy.FloorBrackets {
		if difficulty <= bracket.Max {
			return bracket.Floor
		}
	}
	return e.policy.DefaultFloor
}

// EstimateTrajectory simulates months of rank movement and returns one
// estimated position per month. The trajectory is non-increasing and
// holds at FloorRank(difficulty) once reached.
func (e *RankEstimator) EstimateTrajectory(difficulty float64, months int, mode Mode, clusterBoost bool) RankTrajectory {
	if months < 1 {
		return RankTrajectory{}
	}

	steps := e.policy.Steps[mode]
	boost := 0
	if clusterBoost {
		boost = e.policy.ClusterBoost
	}

	rank := e.StartingRank(difficulty)
	floor := e.FloorRank(difficulty)

	trajectory := make(RankTrajectory, 0, months)
	for month := 0; month < months; month++ {
		step := e.stepFor(rank, steps) + boost
		rank -= step
		if rank < 1 {
			rank = 1
		}
		if rank < floor {
			rank = floor
		}
		trajectory = append(trajectory, rank)
	}
	return trajectory
}

// stepFor picks the monthly improvement for the current rank tier.
func (e *RankEstimator) stepFor(rank int, steps StepSet) int {
	switch {
	case rank > e.policy.Tiers.Fast:
		return steps.Fast
	case rank > e.policy.Tiers.Medium:
		return steps.Medium
	case rank > e.policy.Tiers.Slow:
		return steps.Slow
	default:
		return steps.VerySlow
	}
}
