package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"forecast-go/internal/config"
	"forecast-go/pkg/export"
	"forecast-go/pkg/ingest"
	"forecast-go/pkg/logger"
	"forecast-go/pkg/model"
	"forecast-go/pkg/worker"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL: application panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	var (
		inputPath  = flag.String("input", getEnvOrDefault("FORECAST_INPUT", ""), "Keyword CSV file path (env: FORECAST_INPUT)")
		inputURL   = flag.String("input-url", getEnvOrDefault("FORECAST_INPUT_URL", ""), "Keyword CSV URL (env: FORECAST_INPUT_URL)")
		months     = flag.Int("months", getEnvIntOrDefault("FORECAST_MONTHS", 6), "Projection months, 1-12 (env: FORECAST_MONTHS)")
		modeName   = flag.String("mode", getEnvOrDefault("FORECAST_MODE", "average"), "Improvement mode: conservative, average, aggressive (env: FORECAST_MODE)")
		outputPath = flag.String("output", getEnvOrDefault("FORECAST_OUTPUT", "projected_traffic_by_page.csv"), "Output CSV path (env: FORECAST_OUTPUT)")
		reportDir  = flag.String("report-dir", getEnvOrDefault("FORECAST_REPORT_DIR", ""), "Directory for the JSON run report (env: FORECAST_REPORT_DIR)")
		topPages   = flag.Int("top", 0, "Show only the top N pages in the console summary")
		minScore   = flag.Float64("min-score", 0, "Hide pages below this final score in the console summary")
		workers    = flag.Int("workers", getEnvIntOrDefault("FORECAST_WORKERS", 0), "Concurrent projection workers, 0 = NumCPU (env: FORECAST_WORKERS)")
		debug      = flag.Bool("debug", os.Getenv("DEBUG") == "true", "Enable debug logging (env: DEBUG)")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	if *inputPath == "" && *inputURL == "" {
		fmt.Println("ERROR: a keyword sheet is required.")
		fmt.Println("Use -input <file.csv> or -input-url <https://...>.")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}
	if *months < 1 || *months > 12 {
		fmt.Println("ERROR: months must be between 1 and 12.")
		os.Exit(1)
	}

	mode, err := model.ParseMode(*modeName)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		logger.SetLogger(logger.New(logger.Config{Level: "debug", Format: "console", Output: "stdout"}))
	}
	log := logger.GetLogger().WithField("component", "main")

	cfg := config.Default()
	policy := cfg.Policy

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	raw, err := loadSheet(ctx, *inputPath, *inputURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to load keyword sheet")
	}

	parsed, err := ingest.NewReader(policy.DefaultDifficulty).ReadBytes(raw)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse keyword sheet")
	}
	if len(parsed.Rows) == 0 {
		log.Fatal("Keyword sheet contains no usable rows")
	}

	pool := worker.NewPool(worker.Config{MaxWorkers: *workers, QueueSize: cfg.Worker.QueueSize})
	if err := pool.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start worker pool")
	}
	defer pool.Stop()

	projector := model.NewProjector(policy).WithPool(pool, cfg.Projection.ParallelThreshold)
	startTime := time.Now()

	records, err := projector.Project(ctx, parsed.Rows, *months, mode)
	if err != nil {
		log.WithError(err).Fatal("Projection failed")
	}
	summaries := model.NewAggregator(policy).Summarize(records, *months)
	export.SortByScore(summaries)

	if err := export.SaveCSV(*outputPath, summaries, *months); err != nil {
		log.WithError(err).Fatal("Failed to write output CSV")
	}

	if *reportDir != "" {
		report := export.NewRunReport(summaries, *months, mode, len(parsed.Rows), parsed.Warnings)
		if path, err := report.Save(*reportDir); err != nil {
			log.WithError(err).Warn("Failed to write run report")
		} else {
			log.WithField("path", path).Info("Run report written")
		}
	}

	printSummary(summaries, parsed, *months, mode, *topPages, *minScore, time.Since(startTime), *outputPath)
}

func loadSheet(ctx context.Context, path, url string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return ingest.NewFetcher().Fetch(ctx, url)
}

func printSummary(summaries []model.PageSummary, parsed *ingest.Result, months int, mode model.Mode, top int, minScore float64, duration time.Duration, outputPath string) {
	fmt.Printf("\n=== Traffic Projection Results ===\n")
	fmt.Printf("Keywords: %d\n", len(parsed.Rows))
	fmt.Printf("Pages: %d\n", len(summaries))
	fmt.Printf("Months: %d (mode: %s)\n", months, mode)
	fmt.Printf("Duration: %s\n", duration.Round(time.Millisecond))
	if parsed.Warnings.DroppedRows > 0 {
		fmt.Printf("Warning: %d rows dropped (missing page or search volume)\n", parsed.Warnings.DroppedRows)
	}
	if parsed.Warnings.DefaultedDifficulty > 0 {
		fmt.Printf("Warning: %d rows defaulted to difficulty 50\n", parsed.Warnings.DefaultedDifficulty)
	}
	if parsed.Warnings.MissingIntent > 0 {
		fmt.Printf("Warning: %d rows have no intent label\n", parsed.Warnings.MissingIntent)
	}

	fmt.Printf("\n=== Top Pages by Final Score ===\n")
	shown := 0
	for _, summary := range summaries {
		if minScore > 0 && summary.FinalPageScore < minScore {
			continue
		}
		if top > 0 && shown >= top {
			break
		}
		shown++
		fmt.Printf("%5.1f  %-50s  cumulative %.1f visits\n",
			summary.FinalPageScore, summary.Page, summary.CumulativeTotal)
	}
	if shown == 0 {
		fmt.Println("(no pages matched the output filters)")
	}

	fmt.Printf("\nFull table written to %s\n", outputPath)
}

func printUsage() {
	fmt.Println("forecast-go - keyword traffic projection")
	fmt.Println("")
	fmt.Println("USAGE:")
	fmt.Println("    ./forecast-go -input keywords.csv [OPTIONS]")
	fmt.Println("    ./forecast-go -input-url https://example.com/keywords.csv [OPTIONS]")
	fmt.Println("")
	fmt.Println("INPUT COLUMNS:")
	fmt.Println("    Keyword, Monthly Search Volume, Assigned Page   (required)")
	fmt.Println("    Difficulty, Intent, Cluster Group               (optional)")
	fmt.Println("")
	fmt.Println("OPTIONS:")
	fmt.Println("    -months int        Projection months 1-12 (default: 6, env: FORECAST_MONTHS)")
	fmt.Println("    -mode string       conservative | average | aggressive (default: average)")
	fmt.Println("    -output string     Output CSV path (default: projected_traffic_by_page.csv)")
	fmt.Println("    -report-dir string Write a JSON run report into this directory")
	fmt.Println("    -top int           Show only the top N pages in the console summary")
	fmt.Println("    -min-score float   Hide pages below this final score in the console summary")
	fmt.Println("    -workers int       Concurrent projection workers, 0 = NumCPU")
	fmt.Println("    -debug             Enable debug logging (env: DEBUG)")
	fmt.Println("    -help              Show this help message")
	fmt.Println("")
	fmt.Println("EXAMPLES:")
	fmt.Println("    ./forecast-go -input keywords.csv -months 6 -mode average")
	fmt.Println("    ./forecast-go -input keywords.csv -mode aggressive -top 10 -report-dir ./reports")
	fmt.Println("    FORECAST_MONTHS=12 ./forecast-go -input keywords.csv")
}
