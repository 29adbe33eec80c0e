package model

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"forecast-go/pkg/worker"
)

func TestProjector_Project_SingleKeyword(t *testing.T) {
	projector := NewProjector(DefaultPolicy())

	rows := []KeywordRow{
		{Keyword: "running shoes", SearchVolume: 1000, Difficulty: 10, AssignedPage: "/shoes"},
	}
	records, err := projector.Project(context.Background(), rows, 1, ModeAverage)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	// Difficulty 10 starts at rank 30, improves by 4 to rank 26,
	// ctr(26) = 0.01, so 1000 * 0.01 = 10.0 visits.
	if record.EstimatedTraffic != 10.0 {
		t.Errorf("EstimatedTraffic = %v, want 10.0", record.EstimatedTraffic)
	}
	if record.Page != "/shoes" || record.Month != 1 {
		t.Errorf("record identity = (%s, %d), want (/shoes, 1)", record.Page, record.Month)
	}
	if record.Difficulty != 10 {
		t.Errorf("Difficulty = %v, want 10", record.Difficulty)
	}
	if record.ClusterGroup != "No Cluster" {
		t.Errorf("ClusterGroup = %q, want \"No Cluster\"", record.ClusterGroup)
	}
	if record.IntentResolved {
		t.Error("intent should be unresolved for a row without an intent label")
	}
}

func TestProjector_Project_PlateauCarryForward(t *testing.T) {
	projector := NewProjector(DefaultPolicy())

	rows := []KeywordRow{
		{Keyword: "easy keyword", SearchVolume: 100, Difficulty: 10, AssignedPage: "/p"},
	}
	records, err := projector.Project(context.Background(), rows, 16, ModeAverage)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if len(records) != 16 {
		t.Fatalf("expected 16 records, got %d", len(records))
	}

	// Difficulty 10: floor is rank 3, first reached at month 14.
	// ctr(3) = 0.11, so the frozen value is 100 * 0.11 = 11.0.
	for month := 14; month <= 16; month++ {
		if got := records[month-1].EstimatedTraffic; got != 11.0 {
			t.Errorf("month %d traffic = %v, want frozen 11.0", month, got)
		}
	}

	// Spot-check the pre-plateau months.
	if got := records[0].EstimatedTraffic; got != 1.0 {
		t.Errorf("month 1 traffic = %v, want 1.0 (rank 26, ctr 0.01)", got)
	}
	if got := records[6].EstimatedTraffic; got != 2.4 {
		t.Errorf("month 7 traffic = %v, want 2.4 (rank 10, ctr 0.024)", got)
	}
}

func TestProjector_Project_ZeroVolumeStaysZero(t *testing.T) {
	projector := NewProjector(DefaultPolicy())

	rows := []KeywordRow{
		{Keyword: "k", SearchVolume: 0, Difficulty: 10, AssignedPage: "/p"},
	}
	records, err := projector.Project(context.Background(), rows, 18, ModeAggressive)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	for _, record := range records {
		if record.EstimatedTraffic != 0 {
			t.Fatalf("month %d traffic = %v, want 0", record.Month, record.EstimatedTraffic)
		}
	}
}

func TestProjector_Project_ClusterBoostChangesTrajectory(t *testing.T) {
	projector := NewProjector(DefaultPolicy())

	rows := []KeywordRow{
		{Keyword: "k1", SearchVolume: 1000, Difficulty: 15, AssignedPage: "/p1", ClusterGroup: "c1"},
		{Keyword: "k2", SearchVolume: 10, Difficulty: 50, AssignedPage: "/p2", ClusterGroup: "c1"},
		{Keyword: "k3", SearchVolume: 10, Difficulty: 50, AssignedPage: "/p3", ClusterGroup: "c1"},
	}
	records, err := projector.Project(context.Background(), rows, 2, ModeAverage)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	// With the boost, k1 reaches rank 20 in month 2 (ctr 0.02 -> 20.0
	// visits); without it the rank would be 22 (ctr 0.01 -> 10.0).
	var month2 *MonthlyRecord
	for i := range records {
		if records[i].Page == "/p1" && records[i].Month == 2 {
			month2 = &records[i]
		}
	}
	if month2 == nil {
		t.Fatal("missing month 2 record for /p1")
	}
	if month2.EstimatedTraffic != 20.0 {
		t.Errorf("boosted month 2 traffic = %v, want 20.0", month2.EstimatedTraffic)
	}
}

func TestProjector_Project_DoesNotMutateInput(t *testing.T) {
	projector := NewProjector(DefaultPolicy())

	rows := []KeywordRow{
		{Keyword: "k", SearchVolume: 10, Difficulty: 10, AssignedPage: "/blog/[shoes]/a"},
	}
	if _, err := projector.Project(context.Background(), rows, 2, ModeAverage); err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if rows[0].ClusterGroup != "" {
		t.Errorf("input row mutated: ClusterGroup = %q", rows[0].ClusterGroup)
	}
}

func TestProjector_Project_ConcurrentMatchesSequential(t *testing.T) {
	policy := DefaultPolicy()

	rows := make([]KeywordRow, 0, 30)
	for i := 0; i < 30; i++ {
		rows = append(rows, KeywordRow{
			Keyword:      fmt.Sprintf("kw-%d", i),
			SearchVolume: float64(100 * (i + 1)),
			Difficulty:   float64((i * 7) % 100),
			Intent:       "Commercial",
			AssignedPage: fmt.Sprintf("/page-%d", i%5),
			ClusterGroup: fmt.Sprintf("cluster-%d", i%3),
		})
	}

	sequential, err := NewProjector(policy).Project(context.Background(), rows, 6, ModeAverage)
	if err != nil {
		t.Fatalf("sequential Project returned error: %v", err)
	}

	pool := worker.NewPool(worker.Config{MaxWorkers: 4, QueueSize: 64})
	if err := pool.Start(); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	defer pool.Stop()

	concurrent, err := NewProjector(policy).WithPool(pool, 1).Project(context.Background(), rows, 6, ModeAverage)
	if err != nil {
		t.Fatalf("concurrent Project returned error: %v", err)
	}

	if !reflect.DeepEqual(sequential, concurrent) {
		t.Error("concurrent projection differs from sequential projection")
	}
}

func TestProjector_Project_InvalidInput(t *testing.T) {
	projector := NewProjector(DefaultPolicy())
	ctx := context.Background()
	valid := []KeywordRow{{Keyword: "k", SearchVolume: 10, AssignedPage: "/p"}}

	if _, err := projector.Project(ctx, valid, 0, ModeAverage); err == nil {
		t.Error("expected error for 0 months")
	}
	if _, err := projector.Project(ctx, valid, 6, Mode("warp")); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := projector.Project(ctx, []KeywordRow{{Keyword: "k", SearchVolume: 10}}, 6, ModeAverage); err == nil {
		t.Error("expected error for a row without an assigned page")
	}
	if _, err := projector.Project(ctx, []KeywordRow{{Keyword: "k", SearchVolume: -1, AssignedPage: "/p"}}, 6, ModeAverage); err == nil {
		t.Error("expected error for negative search volume")
	}
}
