package model

import "testing"

func TestCTRModel_Estimate_ReferenceCurve(t *testing.T) {
	ctr := NewCTRModel(DefaultPolicy())

	cases := []struct {
		rank int
		want float64
	}{
		{1, 0.285},
		{2, 0.157},
		{3, 0.11},
		{4, 0.08},
		{5, 0.063},
		{6, 0.047},
		{7, 0.038},
		{8, 0.031},
		{9, 0.026},
		{10, 0.024},
		{11, 0.02},
		{20, 0.02},
		{21, 0.01},
		{30, 0.01},
		{31, 0.005},
		{50, 0.005},
		{51, 0.0025},
		{100, 0.0025},
	}

	for _, tc := range cases {
		got, err := ctr.Estimate(tc.rank)
		if err != nil {
			t.Fatalf("Estimate(%d) returned error: %v", tc.rank, err)
		}
		if got != tc.want {
			t.Errorf("Estimate(%d) = %v, want %v", tc.rank, got, tc.want)
		}
	}
}

func TestCTRModel_Estimate_MonotonicNonIncreasing(t *testing.T) {
	ctr := NewCTRModel(DefaultPolicy())

	prev, err := ctr.Estimate(1)
	if err != nil {
		t.Fatalf("Estimate(1) returned error: %v", err)
	}
	for rank := 2; rank <= 120; rank++ {
		got, err := ctr.Estimate(rank)
		if err != nil {
			t.Fatalf("Estimate(%d) returned error: %v", rank, err)
		}
		if got > prev {
			t.Fatalf("CTR increased from rank %d (%v) to rank %d (%v)", rank-1, prev, rank, got)
		}
		prev = got
	}
}

func TestCTRModel_Estimate_RejectsInvalidRank(t *testing.T) {
	ctr := NewCTRModel(DefaultPolicy())

	for _, rank := range []int{0, -1, -50} {
		if _, err := ctr.Estimate(rank); err == nil {
			t.Errorf("Estimate(%d) should return an error", rank)
		}
	}
}
