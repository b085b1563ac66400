package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingTask struct {
	Task
	executions *atomic.Int32
}

func (t *countingTask) Execute(ctx context.Context) error {
	t.executions.Add(1)
	return nil
}

func TestSchedulerRunsTasksOnStart(t *testing.T) {
	var executions atomic.Int32
	scheduler := NewScheduler(time.Hour, func() []TaskInterface {
		return []TaskInterface{
			&countingTask{Task: NewTask(TaskTypeHarvestSources), executions: &executions},
			&countingTask{Task: NewTask(TaskTypeSyncEngagement), executions: &executions},
		}
	})

	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for executions.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 2 startup executions, got %d", executions.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSchedulerStopIsIdempotentlySafe(t *testing.T) {
	scheduler := NewScheduler(time.Hour, func() []TaskInterface { return nil })
	scheduler.Start()

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
