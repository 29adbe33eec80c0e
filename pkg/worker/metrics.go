package worker

import (
	"sync/atomic"
	"time"
)

// Metrics tracks pool activity with lock-free counters.
type Metrics struct {
	submitted     atomic.Uint64
	completed     atomic.Uint64
	failed        atomic.Uint64
	rejected      atomic.Uint64
	totalDuration atomic.Uint64 // nanoseconds
}

func (m *Metrics) record(duration time.Duration, err error) {
	if err != nil {
		m.failed.Add(1)
	} else {
		m.completed.Add(1)
	}
	m.totalDuration.Add(uint64(duration.Nanoseconds()))
}

// MetricsSnapshot is a point-in-time view of pool counters.
type MetricsSnapshot struct {
	TasksSubmitted  uint64        `json:"tasks_submitted"`
	TasksCompleted  uint64        `json:"tasks_completed"`
	TasksFailed     uint64        `json:"tasks_failed"`
	TasksRejected   uint64        `json:"tasks_rejected"`
	AverageDuration time.Duration `json:"average_duration"`
}

// Snapshot returns current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	completed := m.completed.Load()
	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(m.totalDuration.Load() / completed)
	}
	return MetricsSnapshot{
		TasksSubmitted:  m.submitted.Load(),
		TasksCompleted:  completed,
		TasksFailed:     m.failed.Load(),
		TasksRejected:   m.rejected.Load(),
		AverageDuration: avg,
	}
}
