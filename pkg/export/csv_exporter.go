package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"forecast-go/pkg/model"
)

// SortByScore orders summaries as a priority list: final score descending,
// ties broken by page name ascending so output is deterministic.
func SortByScore(summaries []model.PageSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].FinalPageScore != summaries[j].FinalPageScore {
			return summaries[i].FinalPageScore > summaries[j].FinalPageScore
		}
		return summaries[i].Page < summaries[j].Page
	})
}

// WriteCSV renders the page summary table as UTF-8 CSV with a header row
// and one-decimal numeric values. The caller decides the row order;
// SortByScore gives the conventional priority-list order.
func WriteCSV(w io.Writer, summaries []model.PageSummary, months int) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, months+5)
	header = append(header, "Assigned Page")
	for month := 1; month <= months; month++ {
		header = append(header, fmt.Sprintf("Month %d", month))
	}
	header = append(header, "Cumulative Total", "Avg Difficulty", "Avg Intent Score", "Final Page Score")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, summary := range summaries {
		record := make([]string, 0, len(header))
		record = append(record, summary.Page)
		for month := 0; month < months; month++ {
			value := 0.0
			if month < len(summary.TrafficByMonth) {
				value = summary.TrafficByMonth[month]
			}
			record = append(record, formatValue(value))
		}
		record = append(record,
			formatValue(summary.CumulativeTotal),
			formatValue(summary.AvgDifficulty),
			formatValue(summary.AvgIntentScore),
			formatValue(summary.FinalPageScore),
		)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", summary.Page, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the summary table to a file, sorted as a priority list.
func SaveCSV(path string, summaries []model.PageSummary, months int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	sorted := make([]model.PageSummary, len(summaries))
	copy(sorted, summaries)
	SortByScore(sorted)

	return WriteCSV(file, sorted, months)
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
