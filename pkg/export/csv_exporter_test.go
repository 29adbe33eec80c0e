package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"forecast-go/pkg/model"
)

func summariesFixture() []model.PageSummary {
	return []model.PageSummary{
		{
			Page:            "/low",
			TrafficByMonth:  []float64{1, 2, 3},
			CumulativeTotal: 6,
			AvgDifficulty:   70,
			AvgIntentScore:  0,
			FinalPageScore:  10.5,
		},
		{
			Page:            "/high",
			TrafficByMonth:  []float64{10.5, 20, 30.2},
			CumulativeTotal: 60.7,
			AvgDifficulty:   35.5,
			AvgIntentScore:  80,
			FinalPageScore:  72.4,
		},
	}
}

func TestWriteCSV_HeaderAndFormatting(t *testing.T) {
	var buf bytes.Buffer
	summaries := summariesFixture()
	SortByScore(summaries)

	if err := WriteCSV(&buf, summaries, 3); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	wantHeader := []string{"Assigned Page", "Month 1", "Month 2", "Month 3",
		"Cumulative Total", "Avg Difficulty", "Avg Intent Score", "Final Page Score"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}

	wantFirst := []string{"/high", "10.5", "20.0", "30.2", "60.7", "35.5", "80.0", "72.4"}
	if !reflect.DeepEqual(records[1], wantFirst) {
		t.Errorf("first row = %v, want %v", records[1], wantFirst)
	}
	if records[2][0] != "/low" {
		t.Errorf("second row page = %q, want /low", records[2][0])
	}
}

func TestSortByScore_TieBrokenByPageName(t *testing.T) {
	summaries := []model.PageSummary{
		{Page: "/b", FinalPageScore: 50},
		{Page: "/a", FinalPageScore: 50},
		{Page: "/c", FinalPageScore: 60},
	}
	SortByScore(summaries)

	got := []string{summaries[0].Page, summaries[1].Page, summaries[2].Page}
	want := []string{"/c", "/a", "/b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted pages = %v, want %v", got, want)
	}
}

func TestWriteCSV_PadsMissingMonths(t *testing.T) {
	var buf bytes.Buffer
	summaries := []model.PageSummary{
		{Page: "/p", TrafficByMonth: []float64{5}, CumulativeTotal: 5},
	}

	if err := WriteCSV(&buf, summaries, 3); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	wantRow := []string{"/p", "5.0", "0.0", "0.0", "5.0", "0.0", "0.0", "0.0"}
	if !reflect.DeepEqual(records[1], wantRow) {
		t.Errorf("row = %v, want %v", records[1], wantRow)
	}
}
