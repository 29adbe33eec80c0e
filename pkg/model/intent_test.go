package model

import "testing"

func TestIntentScorer_Score_KnownLabels(t *testing.T) {
	scorer := NewIntentScorer(DefaultPolicy())

	cases := []struct {
		label string
		want  float64
	}{
		{"Transactional", 100},
		{"Commercial", 80},
		{"Informational", 50},
		{"Navigational", 20},
		{"commercial", 80},
		{"  TRANSACTIONAL  ", 100},
	}
	for _, tc := range cases {
		got, ok := scorer.Score(tc.label)
		if !ok {
			t.Errorf("Score(%q) did not resolve", tc.label)
			continue
		}
		if got != tc.want {
			t.Errorf("Score(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestIntentScorer_Score_MultiLabelTakesMax(t *testing.T) {
	scorer := NewIntentScorer(DefaultPolicy())

	got, ok := scorer.Score("Informational, Transactional, Navigational")
	if !ok || got != 100 {
		t.Errorf("Score(multi) = (%v, %t), want (100, true)", got, ok)
	}

	got, ok = scorer.Score(" navigational ,informational")
	if !ok || got != 50 {
		t.Errorf("Score(multi) = (%v, %t), want (50, true)", got, ok)
	}
}

func TestIntentScorer_Score_MixedUnknownResolves(t *testing.T) {
	scorer := NewIntentScorer(DefaultPolicy())

	got, ok := scorer.Score("Unknown, Transactional")
	if !ok || got != 100 {
		t.Errorf("Score(\"Unknown, Transactional\") = (%v, %t), want (100, true)", got, ok)
	}
}

func TestIntentScorer_Score_NoScoreCases(t *testing.T) {
	scorer := NewIntentScorer(DefaultPolicy())

	// "No score" is distinct from zero: these inputs must be excluded
	// from downstream averaging, not counted as 0.
	for _, label := range []string{"", "   ", "Unknown", "Unknown, Mystery", ", ,"} {
		if got, ok := scorer.Score(label); ok {
			t.Errorf("Score(%q) = (%v, true), want unresolved", label, got)
		}
	}
}
