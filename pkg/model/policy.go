package model

import (
	"fmt"
	"math"
)

// CTRBracket maps all ranks up to MaxRank (inclusive) to a click-through
// rate. Brackets are evaluated top-down, so the list must be ordered by
// ascending MaxRank.
type CTRBracket struct {
	MaxRank int     `mapstructure:"max_rank" json:"max_rank"`
	Rate    float64 `mapstructure:"rate" json:"rate"`
}

// StartBracket maps difficulties below Below (exclusive) to a starting rank.
type StartBracket struct {
	Below float64 `mapstructure:"below" json:"below"`
	Rank  int     `mapstructure:"rank" json:"rank"`
}

// FloorBracket maps difficulties up to Max (inclusive) to the best rank a
// keyword can reach, the plateau.
type FloorBracket struct {
	Max   float64 `mapstructure:"max" json:"max"`
	Floor int     `mapstructure:"floor" json:"floor"`
}

// StepSet holds the monthly rank improvement per rank tier for one mode.
// Fast applies above the top tier threshold, VerySlow below the bottom one.
type StepSet struct {
	Fast     int `mapstructure:"fast" json:"fast"`
	Medium   int `mapstructure:"medium" json:"medium"`
	Slow     int `mapstructure:"slow" json:"slow"`
	VerySlow int `mapstructure:"very_slow" json:"very_slow"`
}

// TierThresholds are the rank boundaries selecting which step applies:
// rank > Fast uses the fast step, rank > Medium the medium step, rank >
// Slow the slow step, anything else the very-slow step.
type TierThresholds struct {
	Fast   int `mapstructure:"fast" json:"fast"`
	Medium int `mapstructure:"medium" json:"medium"`
	Slow   int `mapstructure:"slow" json:"slow"`
}

// ScoreWeights blends the three page-level signals into the final score.
type ScoreWeights struct {
	Traffic float64 `mapstructure:"traffic" json:"traffic"`
	Ease    float64 `mapstructure:"ease" json:"ease"`
	Intent  float64 `mapstructure:"intent" json:"intent"`
}

// Policy carries every heuristic constant of the model. The numbers are
// policy, not truth: the source history of this model contains several
// mutually inconsistent CTR curves and bracket tables, so all of them are
// injected here rather than hard-coded at the call sites.
type Policy struct {
	CTRCurve    []CTRBracket `mapstructure:"ctr_curve" json:"ctr_curve"`
	FallbackCTR float64      `mapstructure:"fallback_ctr" json:"fallback_ctr"`

	StartBrackets    []StartBracket `mapstructure:"start_brackets" json:"start_brackets"`
	DefaultStartRank int            `mapstructure:"default_start_rank" json:"default_start_rank"`

	FloorBrackets []FloorBracket `mapstructure:"floor_brackets" json:"floor_brackets"`
	DefaultFloor  int            `mapstructure:"default_floor" json:"default_floor"`

	Steps map[Mode]StepSet `mapstructure:"steps" json:"steps"`
	Tiers TierThresholds   `mapstructure:"tiers" json:"tiers"`

	IntentPriorities map[string]float64 `mapstructure:"intent_priorities" json:"intent_priorities"`

	Weights              ScoreWeights `mapstructure:"weights" json:"weights"`
	TrafficWeightGate    float64      `mapstructure:"traffic_weight_gate" json:"traffic_weight_gate"`
	TrafficWeightHigh    float64      `mapstructure:"traffic_weight_high" json:"traffic_weight_high"`
	TrafficWeightLow     float64      `mapstructure:"traffic_weight_low" json:"traffic_weight_low"`
	LowTrafficThreshold  float64      `mapstructure:"low_traffic_threshold" json:"low_traffic_threshold"`
	LowTrafficMultiplier float64      `mapstructure:"low_traffic_multiplier" json:"low_traffic_multiplier"`

	ClusterMinPages   int    `mapstructure:"cluster_min_pages" json:"cluster_min_pages"`
	NoClusterSentinel string `mapstructure:"no_cluster_sentinel" json:"no_cluster_sentinel"`

	DefaultDifficulty float64 `mapstructure:"default_difficulty" json:"default_difficulty"`
	ClusterBoost      int     `mapstructure:"cluster_boost" json:"cluster_boost"`
}

// DefaultPolicy returns the reference variant of the model constants.
func DefaultPolicy() Policy {
	return Policy{
		CTRCurve: []CTRBracket{
			{MaxRank: 1, Rate: 0.285},
			{MaxRank: 2, Rate: 0.157},
			{MaxRank: 3, Rate: 0.11},
			{MaxRank: 4, Rate: 0.08},
			{MaxRank: 5, Rate: 0.063},
			{MaxRank: 6, Rate: 0.047},
			{MaxRank: 7, Rate: 0.038},
			{MaxRank: 8, Rate: 0.031},
			{MaxRank: 9, Rate: 0.026},
			{MaxRank: 10, Rate: 0.024},
			{MaxRank: 20, Rate: 0.02},
			{MaxRank: 30, Rate: 0.01},
			{MaxRank: 50, Rate: 0.005},
		},
		FallbackCTR: 0.0025,
		StartBrackets: []StartBracket{
			{Below: 20, Rank: 30},
			{Below: 40, Rank: 40},
			{Below: 60, Rank: 60},
		},
		DefaultStartRank: 80,
		FloorBrackets: []FloorBracket{
			{Max: 20, Floor: 3},
			{Max: 40, Floor: 5},
			{Max: 60, Floor: 10},
			{Max: 80, Floor: 20},
		},
		DefaultFloor: 30,
		Steps: map[Mode]StepSet{
			ModeConservative: {Fast: 4, Medium: 2, Slow: 1, VerySlow: 1},
			ModeAverage:      {Fast: 8, Medium: 4, Slow: 2, VerySlow: 1},
			ModeAggressive:   {Fast: 12, Medium: 6, Slow: 3, VerySlow: 2},
		},
		Tiers: TierThresholds{Fast: 50, Medium: 20, Slow: 10},
		IntentPriorities: map[string]float64{
			"transactional": 100,
			"commercial":    80,
			"informational": 50,
			"navigational":  20,
		},
		Weights:              ScoreWeights{Traffic: 0.5, Ease: 0.25, Intent: 0.25},
		TrafficWeightGate:    100,
		TrafficWeightHigh:    1.0,
		TrafficWeightLow:     0.3,
		LowTrafficThreshold:  10,
		LowTrafficMultiplier: 0.5,
		ClusterMinPages:      3,
		NoClusterSentinel:    "No Cluster",
		DefaultDifficulty:    50,
		ClusterBoost:         1,
	}
}

// Validate checks the invariants the model relies on: ordered brackets and
// a monotonically non-increasing CTR curve.
func (p Policy) Validate() error {
	if len(p.CTRCurve) == 0 {
		return fmt.Errorf("ctr curve is empty")
	}
	prevRank := 0
	prevRate := math.Inf(1)
	for i, b := range p.CTRCurve {
		if b.MaxRank <= prevRank {
			return fmt.Errorf("ctr curve bracket %d not ordered by max_rank", i)
		}
		if b.Rate <= 0 || b.Rate > 1 {
			return fmt.Errorf("ctr curve bracket %d has rate %v outside (0,1]", i, b.Rate)
		}
		if b.Rate > prevRate {
			return fmt.Errorf("ctr curve bracket %d breaks monotonicity", i)
		}
		prevRank = b.MaxRank
		prevRate = b.Rate
	}
	if p.FallbackCTR <= 0 || p.FallbackCTR > prevRate {
		return fmt.Errorf("fallback ctr %v breaks monotonicity", p.FallbackCTR)
	}
	prevBelow := math.Inf(-1)
	for i, b := range p.StartBrackets {
		if b.Below <= prevBelow {
			return fmt.Errorf("start bracket %d not ordered", i)
		}
		if b.Rank < 1 {
			return fmt.Errorf("start bracket %d has rank below 1", i)
		}
		prevBelow = b.Below
	}
	prevMax := math.Inf(-1)
	for i, b := range p.FloorBrackets {
		if b.Max <= prevMax {
			return fmt.Errorf("floor bracket %d not ordered", i)
		}
		if b.Floor < 1 {
			return fmt.Errorf("floor bracket %d has floor below 1", i)
		}
		prevMax = b.Max
	}
	for _, mode := range []Mode{ModeConservative, ModeAverage, ModeAggressive} {
		steps, ok := p.Steps[mode]
		if !ok {
			return fmt.Errorf("missing step set for mode %s", mode)
		}
		if steps.Fast < 0 || steps.Medium < 0 || steps.Slow < 0 || steps.VerySlow < 0 {
			return fmt.Errorf("negative step size for mode %s", mode)
		}
	}
	if p.ClusterMinPages < 1 {
		return fmt.Errorf("cluster_min_pages must be at least 1")
	}
	return nil
}
