package model

import (
	"fmt"
	"strings"
)

// Mode selects how optimistic the month-over-month rank improvement is.
type Mode string

const (
	ModeConservative Mode = "conservative"
	ModeAverage      Mode = "average"
	ModeAggressive   Mode = "aggressive"
)

// ParseMode converts a user-supplied mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conservative":
		return ModeConservative, nil
	case "average", "":
		return ModeAverage, nil
	case "aggressive":
		return ModeAggressive, nil
	default:
		return "", fmt.Errorf("unknown projection mode: %q", s)
	}
}

// KeywordRow is one validated input row. Callers (ingest, API) guarantee
// AssignedPage is non-empty and SearchVolume is non-negative before the
// row reaches the model.
type KeywordRow struct {
	Keyword      string  `json:"keyword"`
	SearchVolume float64 `json:"search_volume"`
	Difficulty   float64 `json:"difficulty"`
	Intent       string  `json:"intent,omitempty"`
	AssignedPage string  `json:"assigned_page"`
	ClusterGroup string  `json:"cluster_group,omitempty"`
}

// RankTrajectory is the estimated rank position per projection month,
// month 1 first. Non-increasing by construction.
type RankTrajectory []int

// MonthlyRecord is one keyword's projection for one month, flattened so
// the aggregator can group by page without reaching back to the input row.
type MonthlyRecord struct {
	Page             string  `json:"page"`
	Month            int     `json:"month"`
	EstimatedTraffic float64 `json:"estimated_traffic"`
	Difficulty       float64 `json:"difficulty"`
	IntentScore      float64 `json:"intent_score"`
	IntentResolved   bool    `json:"intent_resolved"`
	ClusterGroup     string  `json:"cluster_group"`
}

// PageSummary is the output row for one page.
type PageSummary struct {
	Page            string    `json:"page"`
	TrafficByMonth  []float64 `json:"traffic_by_month"`
	CumulativeTotal float64   `json:"cumulative_total"`
	AvgDifficulty   float64   `json:"avg_difficulty"`
	AvgIntentScore  float64   `json:"avg_intent_score"`
	FinalPageScore  float64   `json:"final_page_score"`
}
