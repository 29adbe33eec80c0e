package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_SubmitAndDrain(t *testing.T) {
	pool := NewPool(Config{MaxWorkers: 4, QueueSize: 128})
	if err := pool.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	var counter atomic.Int64
	var wg sync.WaitGroup
	const tasks = 100

	for i := 0; i < tasks; i++ {
		wg.Add(1)
		err := pool.SubmitFunc(fmt.Sprintf("task-%d", i), func(ctx context.Context) error {
			defer wg.Done()
			counter.Add(1)
			return nil
		})
		if err != nil {
			wg.Done()
			t.Fatalf("Submit failed: %v", err)
		}
	}
	wg.Wait()

	if got := counter.Load(); got != tasks {
		t.Errorf("executed %d tasks, want %d", got, tasks)
	}

	// Stop drains the workers, so the counters are settled afterwards.
	if err := pool.Stop(); err != nil {
		t.Errorf("Stop returned error: %v", err)
	}

	snapshot := pool.Snapshot()
	if snapshot.TasksSubmitted != tasks {
		t.Errorf("TasksSubmitted = %d, want %d", snapshot.TasksSubmitted, tasks)
	}
	if snapshot.TasksCompleted != tasks {
		t.Errorf("TasksCompleted = %d, want %d", snapshot.TasksCompleted, tasks)
	}
}

func TestPool_SubmitBeforeStartFails(t *testing.T) {
	pool := NewPool(DefaultConfig())

	err := pool.SubmitFunc("early", func(ctx context.Context) error { return nil })
	if err == nil {
		t.Error("expected error submitting before Start")
	}
}

func TestPool_SubmitAfterStopFails(t *testing.T) {
	pool := NewPool(DefaultConfig())
	if err := pool.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := pool.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	err := pool.SubmitFunc("late", func(ctx context.Context) error { return nil })
	if err == nil {
		t.Error("expected error submitting after Stop")
	}
}

func TestPool_RecoversFromPanic(t *testing.T) {
	pool := NewPool(Config{MaxWorkers: 1, QueueSize: 8})
	if err := pool.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer pool.Stop()

	var wg sync.WaitGroup
	wg.Add(2)

	if err := pool.SubmitFunc("boom", func(ctx context.Context) error {
		defer wg.Done()
		panic("boom")
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// The worker must survive the panic and run the next task.
	ran := false
	if err := pool.SubmitFunc("after", func(ctx context.Context) error {
		defer wg.Done()
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	wg.Wait()
	if !ran {
		t.Error("worker did not recover from panic")
	}

	if pool.Snapshot().TasksFailed != 1 {
		t.Errorf("TasksFailed = %d, want 1", pool.Snapshot().TasksFailed)
	}
}

func TestPool_DoubleStartFails(t *testing.T) {
	pool := NewPool(DefaultConfig())
	if err := pool.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer pool.Stop()

	if err := pool.Start(); err == nil {
		t.Error("expected error on second Start")
	}
}
