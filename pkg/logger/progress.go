package logger

import (
	"sync"
	"time"
)

// ProgressReporter logs periodic progress for long projection runs so
// large keyword sheets don't look stalled.
type ProgressReporter struct {
	mu         sync.Mutex
	total      int
	current    int
	what       string
	startTime  time.Time
	lastReport time.Time
	interval   time.Duration
	logger     *Logger
}

// NewProgressReporter creates a reporter for total items of work.
func NewProgressReporter(total int, what string) *ProgressReporter {
	now := time.Now()
	return &ProgressReporter{
		total:      total,
		what:       what,
		startTime:  now,
		lastReport: now,
		interval:   5 * time.Second,
		logger:     GetLogger().WithField("component", "progress"),
	}
}

// Add increments completed work and reports at most once per interval.
func (pr *ProgressReporter) Add(n int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current += n
	if time.Since(pr.lastReport) >= pr.interval || pr.current >= pr.total {
		pr.report()
		pr.lastReport = time.Now()
	}
}

// Done forces a final report.
func (pr *ProgressReporter) Done() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current = pr.total
	pr.report()
}

func (pr *ProgressReporter) report() {
	if pr.total <= 0 {
		return
	}
	pr.logger.WithFields(map[string]interface{}{
		"what":    pr.what,
		"done":    pr.current,
		"total":   pr.total,
		"percent": int(float64(pr.current) / float64(pr.total) * 100),
		"elapsed": time.Since(pr.startTime).Round(time.Millisecond).String(),
	}).Info("Progress")
}
