package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"forecast-go/pkg/logger"
	"forecast-go/pkg/model"
)

// Warnings counts the recoverable problems found while reading a sheet.
// They are surfaced to the caller, never treated as failures.
type Warnings struct {
	DroppedRows         int `json:"dropped_rows"`
	DefaultedDifficulty int `json:"defaulted_difficulty"`
	MissingIntent       int `json:"missing_intent"`
}

// Result is a validated row-set ready for the projector.
type Result struct {
	Rows     []model.KeywordRow `json:"rows"`
	Warnings Warnings           `json:"warnings"`
}

// Column aliases, matched case-insensitively after trimming. Keyword
// sheets come from several tools and rarely agree on header names.
var columnAliases = map[string][]string{
	"keyword":    {"keyword"},
	"volume":     {"monthly search volume", "search volume", "volume", "msv"},
	"difficulty": {"difficulty", "keyword difficulty", "kd"},
	"intent":     {"intent", "search intent"},
	"page":       {"assigned page", "page", "target page"},
	"cluster":    {"cluster group", "cluster"},
}

// Reader parses keyword CSV sheets into validated rows.
type Reader struct {
	defaultDifficulty float64
	log               *logger.Logger
}

// NewReader creates a CSV reader. Rows with a missing or unparseable
// difficulty get defaultDifficulty.
func NewReader(defaultDifficulty float64) *Reader {
	return &Reader{
		defaultDifficulty: defaultDifficulty,
		log:               logger.GetLogger().WithField("component", "csv_reader"),
	}
}

// ReadBytes normalizes encoding and parses the sheet.
func (r *Reader) ReadBytes(raw []byte) (*Result, error) {
	decoded, err := decodeToUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV content: %w", err)
	}
	return r.Read(bytes.NewReader(decoded))
}

// Read parses a UTF-8 CSV stream. The first record is the header; required
// columns are Keyword, Monthly Search Volume and Assigned Page. Rows
// missing a page or a usable volume are dropped and counted, per the
// error contract of the model (required fields are fatal per-row).
func (r *Reader) Read(src io.Reader) (*Result, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{Rows: make([]model.KeywordRow, 0)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		row, ok := r.parseRow(record, columns, line, &result.Warnings)
		if !ok {
			result.Warnings.DroppedRows++
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	r.log.WithFields(map[string]interface{}{
		"rows":                 len(result.Rows),
		"dropped":              result.Warnings.DroppedRows,
		"defaulted_difficulty": result.Warnings.DefaultedDifficulty,
		"missing_intent":       result.Warnings.MissingIntent,
	}).Info("Keyword sheet parsed")

	return result, nil
}

func (r *Reader) parseRow(record []string, columns map[string]int, line int, warnings *Warnings) (model.KeywordRow, bool) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	page := field("page")
	if page == "" {
		r.log.WithField("line", line).Warn("Dropping row without assigned page")
		return model.KeywordRow{}, false
	}

	volume, err := parseNumber(field("volume"))
	if err != nil || volume < 0 {
		r.log.WithField("line", line).Warn("Dropping row without usable search volume")
		return model.KeywordRow{}, false
	}

	difficulty := r.defaultDifficulty
	if raw := field("difficulty"); raw == "" {
		warnings.DefaultedDifficulty++
	} else if parsed, err := parseNumber(raw); err != nil || parsed < 0 || parsed > 100 {
		warnings.DefaultedDifficulty++
	} else {
		difficulty = parsed
	}

	intent := field("intent")
	if intent == "" {
		warnings.MissingIntent++
	}

	return model.KeywordRow{
		Keyword:      field("keyword"),
		SearchVolume: volume,
		Difficulty:   difficulty,
		Intent:       intent,
		AssignedPage: page,
		ClusterGroup: field("cluster"),
	}, true
}

// mapColumns resolves header names to field indexes via the alias table.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for idx, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		for canonical, aliases := range columnAliases {
			if _, taken := columns[canonical]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					columns[canonical] = idx
					break
				}
			}
		}
	}

	for _, required := range []string{"keyword", "volume", "page"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("required column %q not found in CSV header", requiredColumnName(required))
		}
	}
	return columns, nil
}

func requiredColumnName(canonical string) string {
	switch canonical {
	case "volume":
		return "Monthly Search Volume"
	case "page":
		return "Assigned Page"
	default:
		return "Keyword"
	}
}

// parseNumber accepts plain numbers plus the thousand separators
// spreadsheet exports sprinkle in.
func parseNumber(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, fmt.Errorf("empty number")
	}
	return strconv.ParseFloat(raw, 64)
}
