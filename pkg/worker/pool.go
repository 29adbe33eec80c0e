package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"forecast-go/pkg/logger"
)

// Task is a unit of work to be executed by the pool.
type Task struct {
	ID string
	Fn func(ctx context.Context) error
}

// Config holds configuration for the worker pool.
type Config struct {
	MaxWorkers      int           `json:"max_workers"`
	QueueSize       int           `json:"queue_size"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// DefaultConfig returns a configuration sized for CPU-bound projection work.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:      runtime.NumCPU(),
		QueueSize:       1024,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Pool runs CPU-bound tasks on a fixed set of goroutines. Projection rows
// are independent, so tasks carry no ordering guarantees; callers that
// need ordered output write results into pre-assigned slots.
type Pool struct {
	config    Config
	taskQueue chan Task
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	log       *logger.Logger

	metrics Metrics
	started atomic.Bool
	stopped atomic.Bool
}

// NewPool creates a worker pool with the given configuration.
func NewPool(config Config) *Pool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 1024
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		config:    config,
		taskQueue: make(chan Task, config.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		log:       logger.GetLogger().WithField("component", "worker_pool"),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() error {
	if !p.started.CompareAndSwap(false, true) {
		return fmt.Errorf("worker pool already started")
	}

	p.log.WithField("max_workers", p.config.MaxWorkers).Debug("Starting worker pool")

	for i := 0; i < p.config.MaxWorkers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	return nil
}

// Submit queues a task for execution. It fails rather than blocks when
// the queue is full so callers can fall back to running inline.
func (p *Pool) Submit(task Task) error {
	if p.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	if !p.started.Load() {
		return fmt.Errorf("worker pool not started")
	}

	select {
	case p.taskQueue <- task:
		p.metrics.submitted.Add(1)
		return nil
	default:
		p.metrics.rejected.Add(1)
		return fmt.Errorf("task queue is full")
	}
}

// SubmitFunc is a convenience wrapper around Submit.
func (p *Pool) SubmitFunc(id string, fn func(ctx context.Context) error) error {
	return p.Submit(Task{ID: id, Fn: fn})
}

// Stop drains the queue and shuts the workers down.
func (p *Pool) Stop() error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}

	close(p.taskQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Debug("Worker pool stopped")
	case <-time.After(p.config.ShutdownTimeout):
		p.cancel()
		p.log.Warn("Worker pool shutdown timeout exceeded")
	}
	return nil
}

// Snapshot returns the pool's counters.
func (p *Pool) Snapshot() MetricsSnapshot {
	return p.metrics.Snapshot()
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	log := p.log.WithField("worker_id", id)

	for {
		select {
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			p.execute(task, log)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) execute(task Task, log *logger.Logger) {
	start := time.Now()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("task_id", task.ID).WithField("panic", r).Error("Task panicked")
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		err = task.Fn(p.ctx)
	}()

	p.metrics.record(time.Since(start), err)
	if err != nil {
		log.WithError(err).WithField("task_id", task.ID).Warn("Task failed")
	}
}
