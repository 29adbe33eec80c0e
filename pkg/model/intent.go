package model

import "strings"

// IntentScorer maps a search-intent label to a numeric priority.
type IntentScorer struct {
	priorities map[string]float64
}

// NewIntentScorer creates an intent scorer from the given policy.
func NewIntentScorer(policy Policy) *IntentScorer {
	return &IntentScorer{priorities: policy.IntentPriorities}
}

// Score resolves a possibly comma-separated intent label to the maximum
// priority among its recognized sub-labels. Matching is case-insensitive
// and whitespace-tolerant. The second return value reports whether the
// label resolved at all: a blank label, or one where no sub-label is
// recognized, returns (0, false) and must be excluded from averages
// rather than counted as zero.
func (s *IntentScorer) Score(label string) (float64, bool) {
	best := 0.0
	resolved := false
	for _, part := range strings.Split(label, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		score, ok := s.priorities[part]
		if !ok {
			continue
		}
		resolved = true
		if score > best {
			best = score
		}
	}
	if !resolved {
		return 0, false
	}
	return best, true
}
