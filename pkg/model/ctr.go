package model

import "fmt"

// CTRModel converts a rank position into an expected click-through rate.
// It is a pure step function over the policy's bracket list.
type CTRModel struct {
	curve    []CTRBracket
	fallback float64
}

// NewCTRModel creates a CTR model from the given policy.
func NewCTRModel(policy Policy) *CTRModel {
	return &CTRModel{
		curve:    policy.CTRCurve,
		fallback: policy.FallbackCTR,
	}
}

// Estimate returns the expected CTR for a rank position. Ranks below 1
// are invalid input: the rank estimator never produces one, so callers
// that hand-construct ranks must clamp before calling.
func (m *CTRModel) Estimate(rank int) (float64, error) {
	if rank < 1 {
		return 0, fmt.Errorf("invalid rank %d: ranks start at 1", rank)
	}
	for _, bracket := range m.curve {
		if rank <= bracket.MaxRank {
			return bracket.Rate, nil
		}
	}
	return m.fallback, nil
}
