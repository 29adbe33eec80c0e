package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"forecast-go/pkg/ingest"
	"forecast-go/pkg/model"
)

// RunReport summarizes one projection run for later inspection, written
// as JSON next to the CSV output.
type RunReport struct {
	RunID       string          `json:"run_id"`
	GeneratedAt string          `json:"generated_at"`
	Months      int             `json:"months"`
	Mode        model.Mode      `json:"mode"`
	RowCount    int             `json:"row_count"`
	PageCount   int             `json:"page_count"`
	Warnings    ingest.Warnings `json:"warnings"`
	TopPages    []TopPage       `json:"top_pages"`
}

// TopPage is the report's shortlist entry.
type TopPage struct {
	Page            string  `json:"page"`
	CumulativeTotal float64 `json:"cumulative_total"`
	FinalPageScore  float64 `json:"final_page_score"`
}

// NewRunReport builds a report from a finished run. Summaries may be in
// any order; the report picks its own top-5 shortlist.
func NewRunReport(summaries []model.PageSummary, months int, mode model.Mode, rowCount int, warnings ingest.Warnings) *RunReport {
	now := time.Now()
	report := &RunReport{
		RunID:       fmt.Sprintf("run-%s", now.Format("20060102-150405")),
		GeneratedAt: now.Format(time.RFC3339),
		Months:      months,
		Mode:        mode,
		RowCount:    rowCount,
		PageCount:   len(summaries),
		Warnings:    warnings,
	}

	sorted := make([]model.PageSummary, len(summaries))
	copy(sorted, summaries)
	SortByScore(sorted)

	limit := 5
	if len(sorted) < limit {
		limit = len(sorted)
	}
	for _, summary := range sorted[:limit] {
		report.TopPages = append(report.TopPages, TopPage{
			Page:            summary.Page,
			CumulativeTotal: summary.CumulativeTotal,
			FinalPageScore:  summary.FinalPageScore,
		})
	}
	return report
}

// Save writes the report into dir as <run_id>.json.
func (r *RunReport) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, r.RunID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
